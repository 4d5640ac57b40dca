package pricing

import (
	"context"
	"time"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// RunStatus represents the state of an auto-pricing run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RepricingRun is the audit record for one sweep of the auto-pricing
// evaluator, whether scheduled or manually triggered.
type RepricingRun struct {
	shared.BaseEntity
	StartedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
	Status      RunStatus `gorm:"type:varchar(20);not null;default:'running'"`
	Evaluated   int       `gorm:"not null;default:0"`
	Updated     int       `gorm:"not null;default:0"`
	Skipped     int       `gorm:"not null;default:0"`
	Failed      int       `gorm:"not null;default:0"`
	LastError   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RepricingRun) TableName() string {
	return "repricing_runs"
}

// NewRepricingRun starts a run record
func NewRepricingRun() *RepricingRun {
	return &RepricingRun{
		BaseEntity: shared.NewBaseEntity(),
		StartedAt:  time.Now(),
		Status:     RunStatusRunning,
	}
}

// Complete closes the run with its final counters
func (r *RepricingRun) Complete(evaluated, updated, skipped, failed int, lastError string) {
	now := time.Now()
	r.CompletedAt = &now
	r.Evaluated = evaluated
	r.Updated = updated
	r.Skipped = skipped
	r.Failed = failed
	r.LastError = lastError
	if failed > 0 && updated == 0 && skipped == 0 {
		r.Status = RunStatusFailed
	} else {
		r.Status = RunStatusCompleted
	}
	r.UpdatedAt = now
}

// RunRepository defines the interface for run record persistence
type RunRepository interface {
	// Save creates or updates a run record
	Save(ctx context.Context, run *RepricingRun) error

	// FindLatest returns the most recently started run.
	// Returns shared.ErrNotFound when no run exists.
	FindLatest(ctx context.Context) (*RepricingRun, error)

	// FindRecent returns the most recent runs, newest first
	FindRecent(ctx context.Context, limit int) ([]RepricingRun, error)
}
