package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Judgment stages. A case accumulates an append-only version history;
// the row with the highest version is the current judgment.
const (
	JudgmentStageTentative    = "tentative"
	JudgmentStageReconsidered = "reconsidered"
	JudgmentStageFinal        = "final"
)

type Judgment struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_judgment_version,priority:1" json:"case_id"`
	Version    int                         `gorm:"column:version;not null;uniqueIndex:idx_judgment_version,priority:2" json:"version"`
	Stage      string                      `gorm:"column:stage;type:varchar(16);not null" json:"stage"`
	Verdict    string                      `gorm:"column:verdict;type:text;not null" json:"verdict"`
	Reasoning  string                      `gorm:"column:reasoning;type:text;not null" json:"reasoning"`
	LegalBasis datatypes.JSONSlice[string] `gorm:"column:legal_basis" json:"legal_basis"`
	Confidence int                         `gorm:"column:confidence;not null" json:"confidence"`
	CreatedAt  time.Time                   `gorm:"not null" json:"created_at"`
}

func (Judgment) TableName() string { return "judgment" }

func (j *Judgment) IsFinal() bool { return j.Stage == JudgmentStageFinal }
