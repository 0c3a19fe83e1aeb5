package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IntelRunStatusRunning   = "running"
	IntelRunStatusCompleted = "completed"
	IntelRunStatusFailed    = "failed"
	IntelRunStatusSkipped   = "skipped"
)

const (
	JobKindMatchGeneration   = "match_generation"
	JobKindChurnDetection    = "churn_detection"
	JobKindReorderPrediction = "reorder_prediction"
	JobKindSellerScoring     = "seller_scoring"
)

// IntelRun is the metadata row the run coordinator writes around every batch
// job execution.
type IntelRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobKind    string         `gorm:"column:job_kind;not null;index" json:"job_kind"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Processed  int            `gorm:"column:processed;not null;default:0" json:"processed"`
	Errors     int            `gorm:"column:errors;not null;default:0" json:"errors"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (IntelRun) TableName() string { return "intel_run" }
