package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CaseSide holds one party's submission. Immutable after intake.
type CaseSide struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_case_side,priority:1" json:"case_id"`
	Side      string                      `gorm:"column:side;type:varchar(1);not null;uniqueIndex:idx_case_side,priority:2" json:"side"`
	Summary   string                      `gorm:"column:summary;type:text;not null" json:"summary"`
	Evidence  datatypes.JSONSlice[string] `gorm:"column:evidence" json:"evidence"`
	Documents datatypes.JSONSlice[string] `gorm:"column:documents" json:"documents"`
	CreatedAt time.Time                   `gorm:"not null" json:"created_at"`
}

func (CaseSide) TableName() string { return "case_side" }
