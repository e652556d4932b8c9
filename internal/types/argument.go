package types

import (
	"time"

	"github.com/google/uuid"
)

// Argument is one rebuttal round. Sequence numbers are case-wide (shared
// across both sides), 1-based and gapless; rows are append-only.
type Argument struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_argument_seq,priority:1" json:"case_id"`
	SequenceNumber  int       `gorm:"column:sequence_number;not null;uniqueIndex:idx_argument_seq,priority:2" json:"sequence_number"`
	Side            string    `gorm:"column:side;type:varchar(1);not null" json:"side"`
	ArgumentText    string    `gorm:"column:argument_text;type:text;not null" json:"argument_text"`
	ResponseText    string    `gorm:"column:response_text;type:text;not null" json:"response_text"`
	Strengthens     string    `gorm:"column:strengthens;type:varchar(8)" json:"strengthens,omitempty"`
	Weakens         string    `gorm:"column:weakens;type:varchar(8)" json:"weakens,omitempty"`
	Uncertainty     string    `gorm:"column:uncertainty;type:text" json:"uncertainty,omitempty"`
	ProvisionalNote string    `gorm:"column:provisional_note;type:text" json:"provisional_note,omitempty"`
	Reconsidered    bool      `gorm:"column:reconsidered;not null;default:false" json:"reconsidered"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Argument) TableName() string { return "argument" }
