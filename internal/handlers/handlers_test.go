package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/services"
	"github.com/overruled/mocktrial-backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCaseService knows exactly one case.
type fakeCaseService struct {
	kase *types.Case
}

func (f *fakeCaseService) CreateCase(ctx context.Context, input services.CreateCaseInput) (*types.Case, error) {
	if input.CaseType == "" {
		return nil, apierr.New(apierr.KindValidation, "case_type is required")
	}
	return f.kase, nil
}

func (f *fakeCaseService) GetCase(ctx context.Context, caseID uuid.UUID) (*types.Case, error) {
	if f.kase != nil && caseID == f.kase.ID {
		return f.kase, nil
	}
	return nil, apierr.Newf(apierr.KindNotFound, "case %s not found", caseID)
}

// fakeVerdictService returns scripted results per operation.
type fakeVerdictService struct {
	judgment    *services.JudgmentView
	judgmentErr error
	argument    *services.ArgumentView
	argumentErr error
}

func (f *fakeVerdictService) GenerateJudgment(ctx context.Context, caseID uuid.UUID) (*services.JudgmentView, error) {
	return f.judgment, f.judgmentErr
}

func (f *fakeVerdictService) SubmitArgument(ctx context.Context, caseID uuid.UUID, side, argumentText string) (*services.ArgumentView, error) {
	return f.argument, f.argumentErr
}

func (f *fakeVerdictService) GenerateFinalVerdict(ctx context.Context, caseID uuid.UUID) (*services.JudgmentView, error) {
	return f.judgment, f.judgmentErr
}

func (f *fakeVerdictService) GetArguments(ctx context.Context, caseID uuid.UUID) (*services.ArgumentListView, error) {
	return &services.ArgumentListView{RemainingArguments: types.MaxArgumentsPerCase}, nil
}

func (f *fakeVerdictService) GetJudgments(ctx context.Context, caseID uuid.UUID) ([]types.Judgment, error) {
	if f.judgment == nil {
		return nil, nil
	}
	return []types.Judgment{f.judgment.Judgment}, nil
}

func newTestRouter(cs services.CaseService, vs services.VerdictService) *gin.Engine {
	r := gin.New()
	caseHandler := NewCaseHandler(cs)
	judgmentHandler := NewJudgmentHandler(vs)
	argumentHandler := NewArgumentHandler(vs)

	api := r.Group("/api")
	api.POST("/cases", caseHandler.CreateCase)
	api.GET("/cases/:id", caseHandler.GetCase)
	api.POST("/cases/:id/judgment", judgmentHandler.GenerateJudgment)
	api.POST("/cases/:id/arguments", argumentHandler.SubmitArgument)
	api.POST("/cases/:id/verdict", judgmentHandler.GenerateFinalVerdict)
	api.GET("/cases/:id/arguments", argumentHandler.GetArguments)
	api.GET("/cases/:id/judgments", judgmentHandler.GetJudgments)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body=%s)", err, w.Body.String())
	}
	return envelope.Error.Code
}

func TestCreateCaseEndpoint(t *testing.T) {
	kase := &types.Case{ID: uuid.New(), CaseType: "contract dispute", Status: types.CaseStatusPending}
	r := newTestRouter(&fakeCaseService{kase: kase}, &fakeVerdictService{})

	w := doJSON(t, r, http.MethodPost, "/api/cases", gin.H{
		"case_type":    "contract dispute",
		"jurisdiction": "US-CA",
		"side_a":       gin.H{"summary": "a"},
		"side_b":       gin.H{"summary": "b"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status: want=201 got=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Case types.Case `json:"case"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Case.ID != kase.ID {
		t.Fatalf("case id: want=%s got=%s", kase.ID, resp.Case.ID)
	}
}

func TestCreateCaseEndpointMalformedBody(t *testing.T) {
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{})

	req := httptest.NewRequest(http.MethodPost, "/api/cases", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	if code := errorCode(t, w); code != "validation" {
		t.Fatalf("code: want=validation got=%q", code)
	}
}

func TestGetCaseEndpointInvalidID(t *testing.T) {
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{})

	w := doJSON(t, r, http.MethodGet, "/api/cases/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestGetCaseEndpointNotFound(t *testing.T) {
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{})

	w := doJSON(t, r, http.MethodGet, "/api/cases/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", w.Code)
	}
	if code := errorCode(t, w); code != "not_found" {
		t.Fatalf("code: want=not_found got=%q", code)
	}
}

func TestGenerateJudgmentEndpoint(t *testing.T) {
	view := &services.JudgmentView{
		Judgment: types.Judgment{ID: uuid.New(), Version: 1, Stage: types.JudgmentStageTentative, Verdict: "v"},
		Cached:   true,
	}
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{judgment: view})

	w := doJSON(t, r, http.MethodPost, "/api/cases/"+uuid.NewString()+"/judgment", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var resp struct {
		Judgment services.JudgmentView `json:"judgment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Judgment.Cached {
		t.Fatalf("cached flag lost in serialization")
	}
}

func TestGenerateJudgmentEndpointUpstreamFailure(t *testing.T) {
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{
		judgmentErr: apierr.New(apierr.KindGenerationFailed, "all generation attempts exhausted"),
	})

	w := doJSON(t, r, http.MethodPost, "/api/cases/"+uuid.NewString()+"/judgment", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status: want=502 got=%d", w.Code)
	}
	if code := errorCode(t, w); code != "generation_failed" {
		t.Fatalf("code: want=generation_failed got=%q", code)
	}
}

func TestSubmitArgumentEndpoint(t *testing.T) {
	view := &services.ArgumentView{
		Argument:           types.Argument{ID: uuid.New(), SequenceNumber: 1, Side: types.SideA},
		RemainingArguments: 4,
	}
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{argument: view})

	w := doJSON(t, r, http.MethodPost, "/api/cases/"+uuid.NewString()+"/arguments", gin.H{
		"side":          "A",
		"argument_text": "the receipt is forged",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Argument services.ArgumentView `json:"argument"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Argument.RemainingArguments != 4 {
		t.Fatalf("remaining: want=4 got=%d", resp.Argument.RemainingArguments)
	}
}

func TestSubmitArgumentEndpointConflict(t *testing.T) {
	r := newTestRouter(&fakeCaseService{}, &fakeVerdictService{
		argumentErr: apierr.New(apierr.KindConcurrentModification, "sequence already claimed"),
	})

	w := doJSON(t, r, http.MethodPost, "/api/cases/"+uuid.NewString()+"/arguments", gin.H{
		"side":          "A",
		"argument_text": "x",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status: want=409 got=%d", w.Code)
	}
	if code := errorCode(t, w); code != "concurrent_modification" {
		t.Fatalf("code: want=concurrent_modification got=%q", code)
	}
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/healthcheck", HealthCheck)

	w := doJSON(t, r, http.MethodGet, "/healthcheck", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
}
