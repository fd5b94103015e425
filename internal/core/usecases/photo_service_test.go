package usecases_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func TestPhotoService_UploadPhoto(t *testing.T) {
	var gotKey, gotType string
	store := &mockObjectStore{
		putFn: func(ctx context.Context, key string, body []byte, contentType string) (string, error) {
			gotKey, gotType = key, contentType
			return "https://cdn.example/" + key, nil
		},
	}
	svc := usecases.NewPhotoService(store, 0)
	assert.Equal(t, int64(usecases.DefaultMaxPhotoBytes), svc.MaxBytes())

	photo, err := svc.UploadPhoto(context.Background(), "u1", "My Can (1).jpg", jpegBytes(t))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", gotType)
	assert.Regexp(t, regexp.MustCompile(`^photos/u1/\d+-My-Can-1\.jpg$`), gotKey)
	assert.Equal(t, gotKey, photo.Key)
	assert.Equal(t, "https://cdn.example/"+gotKey, photo.URL)
	assert.Regexp(t, `^pin-\d+$`, photo.PinID)
}

func TestPhotoService_UploadPhoto_PNG(t *testing.T) {
	svc := usecases.NewPhotoService(&mockObjectStore{}, 0)
	photo, err := svc.UploadPhoto(context.Background(), "u1", "", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Regexp(t, `^photos/u1/\d+-photo\.png$`, photo.Key)
}

func TestPhotoService_UploadPhoto_Rejects(t *testing.T) {
	svc := usecases.NewPhotoService(&mockObjectStore{}, 64)

	_, err := svc.UploadPhoto(context.Background(), "u1", "a.jpg", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UploadPhoto(context.Background(), "u1", "a.jpg", bytes.Repeat([]byte{0xff}, 65))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UploadPhoto(context.Background(), "u1", "a.jpg", []byte("just some text"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSanitizePhotoName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"IMG_0001.JPG", "IMG_0001.JPG"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\beach trash.png`, "beach-trash.png"},
		{"..", "photo.jpg"},
		{"", "photo.jpg"},
		{"ñandú.webp", "and.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, usecases.SanitizePhotoName(tt.in, ".jpg"))
		})
	}
}
