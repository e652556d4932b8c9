package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/repos"
	"github.com/overruled/mocktrial-backend/internal/types"
)

func newCaseService(t *testing.T) CaseService {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Case{}, &types.CaseSide{}, &types.Judgment{}, &types.Argument{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log := logger.NewNop()
	return NewCaseService(db, log, repos.NewCaseRepo(db, log))
}

func validInput() CreateCaseInput {
	return CreateCaseInput{
		CaseType:     "landlord-tenant",
		Jurisdiction: "US-WA",
		SideA:        SideInput{Summary: "Deposit withheld without itemization"},
		SideB:        SideInput{Summary: "Unit was left damaged beyond wear"},
	}
}

func TestCreateCase(t *testing.T) {
	cs := newCaseService(t)

	kase, err := cs.CreateCase(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if kase.Status != types.CaseStatusPending {
		t.Fatalf("status: want=%q got=%q", types.CaseStatusPending, kase.Status)
	}
	if len(kase.Sides) != 2 {
		t.Fatalf("sides: want=2 got=%d", len(kase.Sides))
	}

	got, err := cs.GetCase(context.Background(), kase.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SideByToken(types.SideA).Summary != "Deposit withheld without itemization" {
		t.Fatalf("side A summary: got=%q", got.SideByToken(types.SideA).Summary)
	}
}

func TestCreateCaseTrimsWhitespace(t *testing.T) {
	cs := newCaseService(t)

	in := validInput()
	in.CaseType = "  landlord-tenant  "
	in.SideA.Summary = "  padded summary "
	kase, err := cs.CreateCase(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if kase.CaseType != "landlord-tenant" {
		t.Fatalf("case type not trimmed: %q", kase.CaseType)
	}
	if kase.SideByToken(types.SideA).Summary != "padded summary" {
		t.Fatalf("summary not trimmed: %q", kase.SideByToken(types.SideA).Summary)
	}
}

func TestCreateCaseValidation(t *testing.T) {
	cs := newCaseService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateCaseInput)
	}{
		{"missing case type", func(in *CreateCaseInput) { in.CaseType = " " }},
		{"missing jurisdiction", func(in *CreateCaseInput) { in.Jurisdiction = "" }},
		{"missing side A summary", func(in *CreateCaseInput) { in.SideA.Summary = "" }},
		{"missing side B summary", func(in *CreateCaseInput) { in.SideB.Summary = "   " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := cs.CreateCase(ctx, in)
			if !apierr.IsKind(err, apierr.KindValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}
