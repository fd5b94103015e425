package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

type fakeCleaner struct {
	mu       sync.Mutex
	calls    []string
	failStep string
}

func (f *fakeCleaner) record(step, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step+":"+userID)
	if step == f.failStep {
		return errors.New(step + " failed")
	}
	return nil
}

func (f *fakeCleaner) DeleteSessions(ctx context.Context, userID string) error {
	return f.record("DeleteSessions", userID)
}

func (f *fakeCleaner) DeleteRoutes(ctx context.Context, userID string) error {
	return f.record("DeleteRoutes", userID)
}

func (f *fakeCleaner) DeleteMeetups(ctx context.Context, userID string) error {
	return f.record("DeleteMeetups", userID)
}

func (f *fakeCleaner) DeletePhotos(ctx context.Context, userID string) error {
	return f.record("DeletePhotos", userID)
}

func (f *fakeCleaner) DeleteProfile(ctx context.Context, userID string) error {
	return f.record("DeleteProfile", userID)
}

func TestAccountDeletionWorkflow_RunsAllSteps(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	cleaner := &fakeCleaner{}
	env.RegisterActivity(&AccountActivities{Accounts: cleaner})

	env.ExecuteWorkflow(AccountDeletionWorkflow, AccountDeletionInput{UserID: "u1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, []string{
		"DeleteSessions:u1",
		"DeleteRoutes:u1",
		"DeleteMeetups:u1",
		"DeletePhotos:u1",
		"DeleteProfile:u1",
	}, cleaner.calls)
}

func TestAccountDeletionWorkflow_StopsAfterRetries(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	cleaner := &fakeCleaner{failStep: "DeleteRoutes"}
	env.RegisterActivity(&AccountActivities{Accounts: cleaner})

	env.ExecuteWorkflow(AccountDeletionWorkflow, AccountDeletionInput{UserID: "u1"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())

	routeAttempts := 0
	for _, c := range cleaner.calls {
		assert.NotEqual(t, "DeleteProfile:u1", c)
		if c == "DeleteRoutes:u1" {
			routeAttempts++
		}
	}
	assert.Equal(t, 3, routeAttempts)
}

func TestAccountDeletionWorkflowID(t *testing.T) {
	assert.Equal(t, "account-deletion-u1", AccountDeletionWorkflowID("u1"))
}
