package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegritySweep recomputes balances and flags drift.
	TaskLedgerIntegritySweep = "ledger:integrity_sweep"
)

// IntegritySweepPayload scopes a sweep. An empty OrganizationID sweeps every
// organization that still has write access.
type IntegritySweepPayload struct {
	OrganizationID string `json:"organizationID,omitempty"`
}

// NewIntegritySweepTask constructs an Asynq task.
func NewIntegritySweepTask(orgID string) (*asynq.Task, error) {
	data, err := json.Marshal(IntegritySweepPayload{OrganizationID: orgID})
	if err != nil {
		return nil, fmt.Errorf("marshal integrity sweep payload: %w", err)
	}
	return asynq.NewTask(TaskLedgerIntegritySweep, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
