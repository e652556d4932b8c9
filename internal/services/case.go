package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/repos"
	"github.com/overruled/mocktrial-backend/internal/types"

	"github.com/google/uuid"
)

// SideInput is one party's submission at intake. Documents carry text
// already extracted by the document service.
type SideInput struct {
	Summary   string   `json:"summary"`
	Evidence  []string `json:"evidence"`
	Documents []string `json:"documents"`
}

type CreateCaseInput struct {
	CaseType     string    `json:"case_type"`
	Jurisdiction string    `json:"jurisdiction"`
	SideA        SideInput `json:"side_a"`
	SideB        SideInput `json:"side_b"`
}

type CaseService interface {
	CreateCase(ctx context.Context, input CreateCaseInput) (*types.Case, error)
	GetCase(ctx context.Context, caseID uuid.UUID) (*types.Case, error)
}

type caseService struct {
	db       *gorm.DB
	log      *logger.Logger
	caseRepo repos.CaseRepo
}

func NewCaseService(db *gorm.DB, baseLog *logger.Logger, caseRepo repos.CaseRepo) CaseService {
	return &caseService{
		db:       db,
		log:      baseLog.With("service", "CaseService"),
		caseRepo: caseRepo,
	}
}

func (cs *caseService) CreateCase(ctx context.Context, input CreateCaseInput) (*types.Case, error) {
	if strings.TrimSpace(input.CaseType) == "" {
		return nil, apierr.New(apierr.KindValidation, "case_type is required")
	}
	if strings.TrimSpace(input.Jurisdiction) == "" {
		return nil, apierr.New(apierr.KindValidation, "jurisdiction is required")
	}
	if strings.TrimSpace(input.SideA.Summary) == "" {
		return nil, apierr.New(apierr.KindValidation, "side A summary is required")
	}
	if strings.TrimSpace(input.SideB.Summary) == "" {
		return nil, apierr.New(apierr.KindValidation, "side B summary is required")
	}

	kase := &types.Case{
		CaseType:     strings.TrimSpace(input.CaseType),
		Jurisdiction: strings.TrimSpace(input.Jurisdiction),
		Status:       types.CaseStatusPending,
		Sides: []types.CaseSide{
			{
				Side:      types.SideA,
				Summary:   strings.TrimSpace(input.SideA.Summary),
				Evidence:  input.SideA.Evidence,
				Documents: input.SideA.Documents,
			},
			{
				Side:      types.SideB,
				Summary:   strings.TrimSpace(input.SideB.Summary),
				Evidence:  input.SideB.Evidence,
				Documents: input.SideB.Documents,
			},
		},
	}

	if err := cs.caseRepo.Create(ctx, nil, kase); err != nil {
		return nil, err
	}
	cs.log.Info("Case created", "case_id", kase.ID, "case_type", kase.CaseType, "jurisdiction", kase.Jurisdiction)
	return kase, nil
}

func (cs *caseService) GetCase(ctx context.Context, caseID uuid.UUID) (*types.Case, error) {
	return cs.caseRepo.GetByID(ctx, nil, caseID)
}
