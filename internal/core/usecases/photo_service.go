package usecases

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
)

const (
	DefaultMaxPhotoBytes = 5 << 20
	maxPhotoNameLen      = 100
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"}

// PhotoService stores litter photos taken during a cleanup.
type PhotoService struct {
	store    ports.ObjectStore
	maxBytes int64
}

// NewPhotoService creates a new PhotoService. A non-positive maxBytes
// means DefaultMaxPhotoBytes.
func NewPhotoService(store ports.ObjectStore, maxBytes int64) *PhotoService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	return &PhotoService{store: store, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted upload.
func (s *PhotoService) MaxBytes() int64 { return s.maxBytes }

// UploadPhoto validates and stores a photo, returning the id the client
// should give the pin it belongs to.
func (s *PhotoService) UploadPhoto(ctx context.Context, userID, filename string, data []byte) (*domain.Photo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("photo is empty: %w", domain.ErrInvalidInput)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("photo is %d bytes, limit is %d: %w", len(data), s.maxBytes, domain.ErrInvalidInput)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...) {
		return nil, fmt.Errorf("unsupported photo type %s: %w", mtype.String(), domain.ErrInvalidInput)
	}

	now := time.Now()
	key := PhotoKey(userID, now, SanitizePhotoName(filename, mtype.Extension()))
	url, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String())
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	return &domain.Photo{
		PinID:       fmt.Sprintf("pin-%d", now.UnixMilli()),
		Key:         key,
		URL:         url,
		ContentType: mtype.String(),
		Size:        int64(len(data)),
	}, nil
}

// PhotoPrefix is the object prefix holding all of a user's photos.
func PhotoPrefix(userID string) string {
	return "photos/" + userID + "/"
}

// PhotoKey is the object key for a photo uploaded at t.
func PhotoKey(userID string, t time.Time, name string) string {
	return fmt.Sprintf("%s%d-%s", PhotoPrefix(userID), t.UnixMilli(), name)
}

// SanitizePhotoName reduces a client file name to a safe object key
// segment. ext is used when nothing usable is left.
func SanitizePhotoName(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}

	out := strings.Trim(b.String(), ".-")
	if len(out) > maxPhotoNameLen {
		out = out[len(out)-maxPhotoNameLen:]
	}
	if out == "" {
		out = "photo" + ext
	}
	return out
}
