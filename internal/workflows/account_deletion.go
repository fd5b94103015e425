package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// AccountDeletionInput is the input for the account deletion workflow.
type AccountDeletionInput struct {
	UserID string
}

// deletionSteps run in order. The profile goes last so a failed run can be
// retried by the user while their account still resolves.
var deletionSteps = []string{
	"DeleteSessions",
	"DeleteRoutes",
	"DeleteMeetups",
	"DeletePhotos",
	"DeleteProfile",
}

// AccountDeletionWorkflow removes everything a user has stored, one
// activity per kind of data. Each activity is retried up to three times;
// the first step that still fails stops the workflow.
func AccountDeletionWorkflow(ctx workflow.Context, input AccountDeletionInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting account deletion workflow", "userID", input.UserID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 2 * time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	for _, step := range deletionSteps {
		if err := workflow.ExecuteActivity(ctx, step, input.UserID).Get(ctx, nil); err != nil {
			logger.Error("account deletion step failed", "step", step, "error", err)
			return err
		}
	}

	logger.Info("Account deleted", "userID", input.UserID)
	return nil
}
