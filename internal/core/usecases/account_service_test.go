package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/litterbugs/internal/core/usecases"
)

type recordingStarter struct {
	userID string
	err    error
}

func (r *recordingStarter) StartAccountDeletion(ctx context.Context, userID string) (string, error) {
	r.userID = userID
	if r.err != nil {
		return "", r.err
	}
	return "account-deletion-" + userID, nil
}

func TestAccountService_RequestDeletion_Inline(t *testing.T) {
	var steps []string
	sessions := &mockSessionRepo{deleteByUserFn: func(ctx context.Context, userID string) (int64, error) {
		steps = append(steps, "sessions:"+userID)
		return 2, nil
	}}
	routes := &mockRouteRepo{deleteByUserFn: func(ctx context.Context, userID string) (int64, error) {
		steps = append(steps, "routes:"+userID)
		return 1, nil
	}}
	meetups := &mockMeetupRepo{deleteByOrganizerFn: func(ctx context.Context, userID string) (int64, error) {
		steps = append(steps, "meetups:"+userID)
		return 0, nil
	}}
	photos := &mockObjectStore{deletePrefixFn: func(ctx context.Context, prefix string) (int, error) {
		steps = append(steps, "photos:"+prefix)
		return 3, nil
	}}
	profiles := &mockProfileRepo{deleteFn: func(ctx context.Context, userID string) error {
		steps = append(steps, "profile:"+userID)
		return nil
	}}
	cache := newMemCache()
	_ = cache.Set(context.Background(), "routes:community:0:50", []byte("[]"), 60)
	_ = cache.Set(context.Background(), "leaderboard:totalPins:10", []byte("[]"), 60)

	svc := usecases.NewAccountService(sessions, routes, meetups, profiles, photos, cache)
	id, err := svc.RequestDeletion(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, id)

	assert.Equal(t, []string{
		"sessions:u1",
		"routes:u1",
		"meetups:u1",
		"photos:photos/u1/",
		"profile:u1",
	}, steps)
	assert.Empty(t, cache.keys())
}

func TestAccountService_RequestDeletion_StopsOnError(t *testing.T) {
	boom := errors.New("db down")
	profileDeleted := false
	svc := usecases.NewAccountService(
		&mockSessionRepo{},
		&mockRouteRepo{deleteByUserFn: func(ctx context.Context, userID string) (int64, error) { return 0, boom }},
		&mockMeetupRepo{},
		&mockProfileRepo{deleteFn: func(ctx context.Context, userID string) error {
			profileDeleted = true
			return nil
		}},
		nil,
		nil,
	)

	_, err := svc.RequestDeletion(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, profileDeleted)
}

func TestAccountService_RequestDeletion_Workflow(t *testing.T) {
	starter := &recordingStarter{}
	svc := usecases.NewAccountService(&mockSessionRepo{
		deleteByUserFn: func(ctx context.Context, userID string) (int64, error) {
			t.Fatal("inline deletion should not run")
			return 0, nil
		},
	}, &mockRouteRepo{}, &mockMeetupRepo{}, &mockProfileRepo{}, nil, nil).WithStarter(starter)

	id, err := svc.RequestDeletion(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "account-deletion-u1", id)
	assert.Equal(t, "u1", starter.userID)

	starter.err = errors.New("temporal unreachable")
	_, err = svc.RequestDeletion(context.Background(), "u1")
	assert.Error(t, err)
}
