package workflows

import "context"

// AccountCleaner performs the individual deletion steps.
// *usecases.AccountService satisfies it.
type AccountCleaner interface {
	DeleteSessions(ctx context.Context, userID string) error
	DeleteRoutes(ctx context.Context, userID string) error
	DeleteMeetups(ctx context.Context, userID string) error
	DeletePhotos(ctx context.Context, userID string) error
	DeleteProfile(ctx context.Context, userID string) error
}

// AccountActivities holds the activity implementations for the account
// deletion workflow. Method names are the activity names.
type AccountActivities struct {
	Accounts AccountCleaner
}

func (a *AccountActivities) DeleteSessions(ctx context.Context, userID string) error {
	return a.Accounts.DeleteSessions(ctx, userID)
}

func (a *AccountActivities) DeleteRoutes(ctx context.Context, userID string) error {
	return a.Accounts.DeleteRoutes(ctx, userID)
}

func (a *AccountActivities) DeleteMeetups(ctx context.Context, userID string) error {
	return a.Accounts.DeleteMeetups(ctx, userID)
}

func (a *AccountActivities) DeletePhotos(ctx context.Context, userID string) error {
	return a.Accounts.DeletePhotos(ctx, userID)
}

func (a *AccountActivities) DeleteProfile(ctx context.Context, userID string) error {
	return a.Accounts.DeleteProfile(ctx, userID)
}
