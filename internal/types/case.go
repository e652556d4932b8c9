package types

import (
	"time"

	"github.com/google/uuid"
)

// Case statuses. Status reflects the furthest stage a case has reached;
// the final verdict is just another judgment version (see Judgment.Stage).
const (
	CaseStatusPending    = "pending"
	CaseStatusJudged     = "judged"
	CaseStatusInArgument = "in_argument"
)

// Side tokens for the two opposing parties.
const (
	SideA = "A"
	SideB = "B"
)

// MaxArgumentsPerCase caps the total argument rounds across both sides.
const MaxArgumentsPerCase = 5

type Case struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CaseType     string     `gorm:"column:case_type;not null" json:"case_type"`
	Jurisdiction string     `gorm:"column:jurisdiction;not null" json:"jurisdiction"`
	Status       string     `gorm:"column:status;not null;default:pending" json:"status"`
	Sides        []CaseSide `gorm:"foreignKey:CaseID" json:"sides,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Case) TableName() string { return "case" }

// SideByToken returns the CaseSide for "A" or "B", or nil.
func (c *Case) SideByToken(side string) *CaseSide {
	for i := range c.Sides {
		if c.Sides[i].Side == side {
			return &c.Sides[i]
		}
	}
	return nil
}
