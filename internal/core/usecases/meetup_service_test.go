package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
)

func organizerRepo() *mockProfileRepo {
	return &mockProfileRepo{
		getByUserIDFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
			return &domain.Profile{UserID: userID, Username: "greta"}, nil
		},
	}
}

func TestMeetupService_ScheduleMeetup(t *testing.T) {
	var stored *domain.Meetup
	meetups := &mockMeetupRepo{
		createFn: func(ctx context.Context, m *domain.Meetup) error {
			stored = m
			return nil
		},
	}
	svc := usecases.NewMeetupService(meetups, organizerRepo())

	m, err := svc.ScheduleMeetup(context.Background(), "u1", " Doña Casilda Park ", "Saturday sweep", "Bring gloves", true)
	require.NoError(t, err)
	assert.Equal(t, stored, m)
	assert.Equal(t, "Doña Casilda Park", m.PoiName)
	assert.Equal(t, "greta", m.OrganizerName)
	assert.Equal(t, "u1", m.OrganizerID)
	assert.NotEmpty(t, m.ID)
}

func TestMeetupService_ScheduleMeetup_Invalid(t *testing.T) {
	svc := usecases.NewMeetupService(&mockMeetupRepo{}, organizerRepo())

	tests := []struct {
		name                string
		poi, title, details string
		safety              bool
	}{
		{"missing poi", "", "Saturday sweep", "gloves", true},
		{"short title", "Park", "Hi", "gloves", true},
		{"long title", "Park", strings.Repeat("a", 101), "gloves", true},
		{"empty description", "Park", "Saturday sweep", "  ", true},
		{"long description", "Park", "Saturday sweep", strings.Repeat("a", 1001), true},
		{"safety not acknowledged", "Park", "Saturday sweep", "gloves", false},
		{"profanity", "Park", "Saturday word2 sweep", "gloves", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ScheduleMeetup(context.Background(), "u1", tt.poi, tt.title, tt.details, tt.safety)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestMeetupService_ScheduleMeetup_NeedsProfile(t *testing.T) {
	svc := usecases.NewMeetupService(&mockMeetupRepo{}, &mockProfileRepo{})
	_, err := svc.ScheduleMeetup(context.Background(), "u1", "Park", "Saturday sweep", "gloves", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeetupService_ListMeetups(t *testing.T) {
	meetups := &mockMeetupRepo{
		listByPOIFn: func(ctx context.Context, poiName string) ([]domain.Meetup, error) {
			assert.Equal(t, "Park", poiName)
			return []domain.Meetup{{ID: "m2"}, {ID: "m1"}}, nil
		},
	}
	svc := usecases.NewMeetupService(meetups, organizerRepo())

	got, err := svc.ListMeetups(context.Background(), "Park")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListMeetups(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
