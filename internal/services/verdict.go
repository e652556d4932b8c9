package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/clients/redis"
	"github.com/overruled/mocktrial-backend/internal/llm"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/repos"
	"github.com/overruled/mocktrial-backend/internal/types"
)

// Confidence bands per protocol stage.
const (
	tentativeConfidenceMin = 40
	tentativeConfidenceMax = 70
	finalConfidenceMin     = 70
	finalConfidenceMax     = 95
)

// JudgmentView is a judgment plus whether it was served from cache.
type JudgmentView struct {
	types.Judgment
	Cached bool `json:"cached"`
}

// ArgumentView is the response to one submitted argument round.
type ArgumentView struct {
	types.Argument
	RemainingArguments int `json:"remaining_arguments"`
}

type ArgumentListView struct {
	Arguments          []types.Argument `json:"arguments"`
	RemainingArguments int              `json:"remaining_arguments"`
}

// VerdictService drives the judgment state machine: tentative judgment,
// up to five argument rounds with possible reconsiderations, final
// verdict. A final verdict closes the case to further arguments.
type VerdictService interface {
	GenerateJudgment(ctx context.Context, caseID uuid.UUID) (*JudgmentView, error)
	SubmitArgument(ctx context.Context, caseID uuid.UUID, side, argumentText string) (*ArgumentView, error)
	GenerateFinalVerdict(ctx context.Context, caseID uuid.UUID) (*JudgmentView, error)
	GetArguments(ctx context.Context, caseID uuid.UUID) (*ArgumentListView, error)
	GetJudgments(ctx context.Context, caseID uuid.UUID) ([]types.Judgment, error)
}

type verdictService struct {
	db           *gorm.DB
	log          *logger.Logger
	caseRepo     repos.CaseRepo
	judgmentRepo repos.JudgmentRepo
	argumentRepo repos.ArgumentRepo
	cache        redis.JudgmentCache
	gen          llm.TextGenerator
	engine       *ArgumentEngine
	policy       llm.PromptRetryPolicy
	locks        *caseLocks
}

func NewVerdictService(
	db *gorm.DB,
	baseLog *logger.Logger,
	caseRepo repos.CaseRepo,
	judgmentRepo repos.JudgmentRepo,
	argumentRepo repos.ArgumentRepo,
	cache redis.JudgmentCache,
	gen llm.TextGenerator,
	policy llm.PromptRetryPolicy,
) VerdictService {
	serviceLog := baseLog.With("service", "VerdictService")
	return &verdictService{
		db:           db,
		log:          serviceLog,
		caseRepo:     caseRepo,
		judgmentRepo: judgmentRepo,
		argumentRepo: argumentRepo,
		cache:        cache,
		gen:          gen,
		engine:       NewArgumentEngine(gen, policy, baseLog),
		policy:       policy,
		locks:        newCaseLocks(),
	}
}

// GenerateJudgment produces the tentative judgment for a case, serving
// from cache when possible. Re-requesting generation for a case that
// already has a judgment returns the current version instead of minting
// another tentative one.
func (vs *verdictService) GenerateJudgment(ctx context.Context, caseID uuid.UUID) (*JudgmentView, error) {
	if cached := vs.cache.Get(ctx, caseID.String()); cached != nil {
		vs.log.Debug("Judgment served from cache", "case_id", caseID)
		return &JudgmentView{Judgment: *cached, Cached: true}, nil
	}

	kase, err := vs.caseRepo.GetByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}

	unlock := vs.locks.lock(caseID)
	defer unlock()

	latest, err := vs.judgmentRepo.GetLatest(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		vs.cache.Set(ctx, caseID.String(), latest)
		return &JudgmentView{Judgment: *latest, Cached: false}, nil
	}

	system, user := tentativeJudgmentPrompt(kase)
	resp, err := llm.GenerateParsed(ctx, vs.gen, vs.policy, system, user, llm.ParseJudgmentResponse)
	if err != nil {
		return nil, err
	}

	judgment := &types.Judgment{
		CaseID:     caseID,
		Stage:      types.JudgmentStageTentative,
		Verdict:    resp.Verdict,
		Reasoning:  resp.Reasoning,
		LegalBasis: resp.LegalBasis,
		Confidence: clampConfidence(resp.Confidence, tentativeConfidenceMin, tentativeConfidenceMax),
	}
	if err := vs.judgmentRepo.Save(ctx, nil, judgment); err != nil {
		return nil, err
	}

	vs.cache.Set(ctx, caseID.String(), judgment)
	vs.log.Info("Tentative judgment generated",
		"case_id", caseID, "version", judgment.Version, "confidence", judgment.Confidence)
	return &JudgmentView{Judgment: *judgment, Cached: false}, nil
}

// SubmitArgument records one rebuttal round. When the evaluation decides
// to reconsider, the argument row and the new judgment version are
// written in one transaction; the cache entry is invalidated only after
// the transaction commits.
func (vs *verdictService) SubmitArgument(ctx context.Context, caseID uuid.UUID, side, argumentText string) (*ArgumentView, error) {
	if side != types.SideA && side != types.SideB {
		return nil, apierr.Newf(apierr.KindValidation, "side must be %q or %q", types.SideA, types.SideB)
	}
	if argumentText == "" {
		return nil, apierr.New(apierr.KindValidation, "argument text is required")
	}

	kase, err := vs.caseRepo.GetByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}

	unlock := vs.locks.lock(caseID)
	defer unlock()

	current, err := vs.judgmentRepo.GetLatest(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apierr.Newf(apierr.KindNotFound, "case %s has no judgment to argue against", caseID)
	}
	if current.IsFinal() {
		return nil, apierr.New(apierr.KindValidation, "the final verdict has been delivered; the case is closed to further arguments")
	}

	count, err := vs.argumentRepo.Count(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if count >= types.MaxArgumentsPerCase {
		return nil, apierr.Newf(apierr.KindValidation,
			"case %s already has the maximum of %d arguments", caseID, types.MaxArgumentsPerCase)
	}

	history, err := vs.argumentRepo.GetAll(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}

	eval, err := vs.engine.Evaluate(ctx, kase, current, history, side, argumentText)
	if err != nil {
		return nil, err
	}

	argument := &types.Argument{
		CaseID:          caseID,
		Side:            side,
		ArgumentText:    argumentText,
		ResponseText:    eval.Response,
		Strengthens:     eval.Strengthens,
		Weakens:         eval.Weakens,
		Uncertainty:     eval.Uncertainty,
		ProvisionalNote: eval.ProvisionalNote,
		Reconsidered:    eval.Reconsidered,
	}

	err = vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := vs.argumentRepo.Save(ctx, tx, argument); err != nil {
			return err
		}
		if !eval.Reconsidered {
			return nil
		}
		// Verdict label is sticky until the final stage; only reasoning
		// and confidence are revised by a reconsideration.
		revised := &types.Judgment{
			CaseID:     caseID,
			Stage:      types.JudgmentStageReconsidered,
			Verdict:    current.Verdict,
			Reasoning:  eval.UpdatedReasoning,
			LegalBasis: current.LegalBasis,
			Confidence: eval.Confidence,
		}
		return vs.judgmentRepo.Save(ctx, tx, revised)
	})
	if err != nil {
		return nil, err
	}

	if eval.Reconsidered {
		vs.cache.Delete(ctx, caseID.String())
	}

	vs.log.Info("Argument recorded",
		"case_id", caseID, "side", side, "sequence", argument.SequenceNumber, "reconsidered", eval.Reconsidered)
	return &ArgumentView{
		Argument:           *argument,
		RemainingArguments: types.MaxArgumentsPerCase - argument.SequenceNumber,
	}, nil
}

// GenerateFinalVerdict is permitted once at least one judgment exists; it
// does not require exhausting all five rounds. Requesting it again after
// the case is closed returns the existing final judgment.
func (vs *verdictService) GenerateFinalVerdict(ctx context.Context, caseID uuid.UUID) (*JudgmentView, error) {
	kase, err := vs.caseRepo.GetByID(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}

	unlock := vs.locks.lock(caseID)
	defer unlock()

	current, err := vs.judgmentRepo.GetLatest(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apierr.Newf(apierr.KindNotFound, "case %s has no judgment yet; generate one before the final verdict", caseID)
	}
	if current.IsFinal() {
		return &JudgmentView{Judgment: *current, Cached: false}, nil
	}

	history, err := vs.argumentRepo.GetAll(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}

	system, user := finalVerdictPrompt(kase, current, history)
	resp, err := llm.GenerateParsed(ctx, vs.gen, vs.policy, system, user, llm.ParseJudgmentResponse)
	if err != nil {
		return nil, err
	}

	judgment := &types.Judgment{
		CaseID:     caseID,
		Stage:      types.JudgmentStageFinal,
		Verdict:    resp.Verdict,
		Reasoning:  resp.Reasoning,
		LegalBasis: resp.LegalBasis,
		Confidence: clampConfidence(resp.Confidence, finalConfidenceMin, finalConfidenceMax),
	}
	if err := vs.judgmentRepo.Save(ctx, nil, judgment); err != nil {
		return nil, err
	}

	// Persist first, then invalidate; a failed invalidation is logged by
	// the cache and the stale entry ages out via TTL.
	vs.cache.Delete(ctx, caseID.String())

	vs.log.Info("Final verdict generated",
		"case_id", caseID, "version", judgment.Version, "confidence", judgment.Confidence)
	return &JudgmentView{Judgment: *judgment, Cached: false}, nil
}

func (vs *verdictService) GetArguments(ctx context.Context, caseID uuid.UUID) (*ArgumentListView, error) {
	if _, err := vs.caseRepo.GetByID(ctx, nil, caseID); err != nil {
		return nil, err
	}
	arguments, err := vs.argumentRepo.GetAll(ctx, nil, caseID)
	if err != nil {
		return nil, err
	}
	return &ArgumentListView{
		Arguments:          arguments,
		RemainingArguments: types.MaxArgumentsPerCase - len(arguments),
	}, nil
}

func (vs *verdictService) GetJudgments(ctx context.Context, caseID uuid.UUID) ([]types.Judgment, error) {
	if _, err := vs.caseRepo.GetByID(ctx, nil, caseID); err != nil {
		return nil, err
	}
	return vs.judgmentRepo.GetAll(ctx, nil, caseID)
}
