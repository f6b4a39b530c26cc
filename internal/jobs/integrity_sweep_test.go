package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReporting struct {
	mock.Mock
}

func (m *mockReporting) TrialBalance(ctx context.Context, actor domain.Actor) (*domain.TrialBalance, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *mockReporting) CheckLedgerIntegrity(ctx context.Context, orgID string) (*domain.IntegrityReport, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrityReport), args.Error(1)
}

func (m *mockReporting) CheckAllOrganizations(ctx context.Context) ([]domain.IntegrityReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrityReport), args.Error(1)
}

func cleanReport(orgID string) domain.IntegrityReport {
	return domain.IntegrityReport{OrganizationID: orgID, CheckedAt: time.Now(), LedgerBalanced: true}
}

func TestNewIntegritySweepTask(t *testing.T) {
	task, err := NewIntegritySweepTask("org-1")
	require.NoError(t, err)
	assert.Equal(t, TaskLedgerIntegritySweep, task.Type())

	var payload IntegritySweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "org-1", payload.OrganizationID)

	task, err = NewIntegritySweepTask("")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(task.Payload()))
}

func TestIntegritySweep_SingleOrganization(t *testing.T) {
	rep := new(mockReporting)
	report := cleanReport("org-1")
	rep.On("CheckLedgerIntegrity", mock.Anything, "org-1").Return(&report, nil).Once()

	task, err := NewIntegritySweepTask("org-1")
	require.NoError(t, err)

	job := NewIntegritySweepJob(rep, nil)
	assert.NoError(t, job.Handle(context.Background(), task))
	rep.AssertExpectations(t)
	rep.AssertNotCalled(t, "CheckAllOrganizations", mock.Anything)
}

func TestIntegritySweep_AllOrganizations(t *testing.T) {
	rep := new(mockReporting)
	rep.On("CheckAllOrganizations", mock.Anything).
		Return([]domain.IntegrityReport{cleanReport("org-1"), cleanReport("org-2")}, nil).Once()

	task, err := NewIntegritySweepTask("")
	require.NoError(t, err)

	assert.NoError(t, NewIntegritySweepJob(rep, nil).Handle(context.Background(), task))
	rep.AssertExpectations(t)
}

func TestIntegritySweep_ViolationSkipsRetry(t *testing.T) {
	rep := new(mockReporting)
	bad := cleanReport("org-2")
	bad.DriftedAccounts = []domain.AccountDrift{{AccountID: "acc-1", Code: "1000"}}
	bad.LedgerBalanced = false
	rep.On("CheckAllOrganizations", mock.Anything).
		Return([]domain.IntegrityReport{cleanReport("org-1"), bad}, nil).Once()

	task, err := NewIntegritySweepTask("")
	require.NoError(t, err)

	err = NewIntegritySweepJob(rep, nil).Handle(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Contains(t, err.Error(), "1 organization(s)")
}

func TestIntegritySweep_ServiceErrorIsRetried(t *testing.T) {
	rep := new(mockReporting)
	rep.On("CheckLedgerIntegrity", mock.Anything, "org-1").Return(nil, errors.New("db down")).Once()

	task, err := NewIntegritySweepTask("org-1")
	require.NoError(t, err)

	err = NewIntegritySweepJob(rep, nil).Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestIntegritySweep_BadPayload(t *testing.T) {
	job := NewIntegritySweepJob(new(mockReporting), nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegritySweep, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestIntegritySweep_NotConfigured(t *testing.T) {
	var job *IntegritySweepJob
	assert.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegritySweep, nil)))
}

func TestNewWorker_RejectsBadCron(t *testing.T) {
	task, err := NewIntegritySweepTask("")
	require.NoError(t, err)
	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron:      []CronRegistration{{Spec: "not a cron", Task: task}},
	})
	assert.Error(t, err)
}
