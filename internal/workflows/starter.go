package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
)

// Starter implements ports.DeletionStarter on a Temporal client.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter creates a Starter submitting to taskQueue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// AccountDeletionWorkflowID is the workflow id used for userID. Requesting
// deletion twice while a run is in flight attaches to the same run.
func AccountDeletionWorkflowID(userID string) string {
	return "account-deletion-" + userID
}

// StartAccountDeletion starts AccountDeletionWorkflow and returns its id.
func (s *Starter) StartAccountDeletion(ctx context.Context, userID string) (string, error) {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        AccountDeletionWorkflowID(userID),
		TaskQueue: s.taskQueue,
	}, AccountDeletionWorkflow, AccountDeletionInput{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("execute workflow: %w", err)
	}
	return run.GetID(), nil
}
