package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
)

// MeetupService handles community cleanups scheduled at points of interest.
type MeetupService struct {
	meetups  ports.MeetupRepository
	profiles ports.ProfileRepository
}

// NewMeetupService creates a new MeetupService.
func NewMeetupService(meetups ports.MeetupRepository, profiles ports.ProfileRepository) *MeetupService {
	return &MeetupService{meetups: meetups, profiles: profiles}
}

// ScheduleMeetup creates a meetup organized by userID. The organizer must
// have a profile and must have acknowledged the safety notice.
func (s *MeetupService) ScheduleMeetup(ctx context.Context, userID, poiName, title, description string, safetyAcknowledged bool) (*domain.Meetup, error) {
	poiName = strings.TrimSpace(poiName)
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	switch {
	case poiName == "":
		return nil, fmt.Errorf("point of interest is required: %w", domain.ErrInvalidInput)
	case utf8.RuneCountInString(title) < 3 || utf8.RuneCountInString(title) > 100:
		return nil, fmt.Errorf("title must be 3-100 characters: %w", domain.ErrInvalidInput)
	case description == "" || utf8.RuneCountInString(description) > 1000:
		return nil, fmt.Errorf("description must be 1-1000 characters: %w", domain.ErrInvalidInput)
	case !safetyAcknowledged:
		return nil, fmt.Errorf("safety notice must be acknowledged: %w", domain.ErrInvalidInput)
	case domain.ContainsProfanity(title, description):
		return nil, fmt.Errorf("meetup contains blocked words: %w", domain.ErrInvalidInput)
	}

	organizer, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("organizer profile: %w", err)
	}

	meetup := &domain.Meetup{
		ID:            uuid.NewString(),
		OrganizerID:   userID,
		OrganizerName: organizer.Username,
		PoiName:       poiName,
		Title:         title,
		Description:   description,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.meetups.Create(ctx, meetup); err != nil {
		return nil, fmt.Errorf("schedule meetup: %w", err)
	}
	return meetup, nil
}

// ListMeetups returns the meetups at a point of interest, newest first.
func (s *MeetupService) ListMeetups(ctx context.Context, poiName string) ([]domain.Meetup, error) {
	poiName = strings.TrimSpace(poiName)
	if poiName == "" {
		return nil, fmt.Errorf("point of interest is required: %w", domain.ErrInvalidInput)
	}
	return s.meetups.ListByPOI(ctx, poiName)
}
