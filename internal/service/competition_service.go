package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/mapper"
	"github.com/prizehub/competitions-api/internal/models"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
)

type competitionRepository interface {
	List(ctx context.Context, spec filter.Spec) ([]models.CompetitionRow, error)
	FindByID(ctx context.Context, id string) (*models.CompetitionRow, error)
	Create(ctx context.Context, rec *models.CompetitionWrite) error
	Update(ctx context.Context, rec *models.CompetitionWrite) error
}

type projectionRepository interface {
	ReplaceEligibility(ctx context.Context, competitionID string, criteria []string) error
	ReplaceRequirements(ctx context.Context, competitionID string, rules []string) error
	ListEligibility(ctx context.Context, competitionID string) ([]models.EligibilityRow, error)
	ListRequirements(ctx context.Context, competitionID string) ([]models.RequirementRow, error)
}

type savedRepository interface {
	Toggle(ctx context.Context, userID, competitionID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.CompetitionRow, error)
}

const listingCachePrefix = "listing:"

// SideEffectOutcome reports one best-effort projection write. Failures here
// never change the outcome of the primary operation.
type SideEffectOutcome struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// SaveResult separates the primary write outcome from the side-channel
// projection outcomes so callers and tests can observe both independently.
type SaveResult struct {
	Competition models.Competition  `json:"competition"`
	SideEffects []SideEffectOutcome `json:"sideEffects,omitempty"`
}

// CompetitionDetail bundles a competition with its projection rows.
type CompetitionDetail struct {
	models.Competition
	Eligibility  []models.EligibilityRow `json:"eligibility"`
	Requirements []models.RequirementRow `json:"requirementRows"`
}

// CompetitionService handles the competition use-cases: filtered listing with
// snapshot fallback, detail reads and admin writes with best-effort
// projection updates.
type CompetitionService struct {
	repo        competitionRepository
	projections projectionRepository
	saved       savedRepository
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cacheTTL    time.Duration

	mu        sync.RWMutex
	lastKnown []models.Competition
}

// NewCompetitionService constructs the competition service.
func NewCompetitionService(repo competitionRepository, projections projectionRepository, saved savedRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *CompetitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompetitionService{
		repo:        repo,
		projections: projections,
		saved:       saved,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// List returns competitions matching the filter, newest first. The pushdown
// query carries every criterion except the prize range, which is evaluated
// in-memory after mapping because stored prize values are free text. When the
// remote query fails and a snapshot of the full record set exists, the same
// spec is re-evaluated over that snapshot instead of surfacing the failure.
func (s *CompetitionService) List(ctx context.Context, spec filter.Spec) ([]models.Competition, error) {
	rows, err := s.repo.List(ctx, spec)
	if err != nil {
		snapshot := s.snapshot()
		if snapshot == nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to list competitions")
		}
		s.logger.Warn("remote competition query failed, serving in-memory fallback", zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordListingFallback()
		}
		return spec.Apply(snapshot), nil
	}

	competitions := make([]models.Competition, 0, len(rows))
	for _, row := range rows {
		competitions = append(competitions, mapper.ToCompetition(row))
	}
	competitions = spec.ApplyPrizeRange(competitions)

	if spec.IsZero() {
		s.storeSnapshot(competitions)
	}
	return competitions, nil
}

// CachedList serves the public listing through the cache when enabled.
func (s *CompetitionService) CachedList(ctx context.Context, spec filter.Spec) ([]models.Competition, error) {
	key := listingCachePrefix + spec.CacheKey()

	var cached []models.Competition
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	competitions, err := s.List(ctx, spec)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, competitions, s.cacheTTL)
	return competitions, nil
}

// Get returns a competition with its projection rows. Projection reads are
// best-effort: a failure there degrades the detail, not the read.
func (s *CompetitionService) Get(ctx context.Context, id string) (*CompetitionDetail, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "competition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to load competition")
	}

	detail := &CompetitionDetail{Competition: mapper.ToCompetition(*row)}
	if eligibility, err := s.projections.ListEligibility(ctx, id); err == nil {
		detail.Eligibility = eligibility
	} else {
		s.logger.Warn("failed to load eligibility projection", zap.String("competition_id", id), zap.Error(err))
	}
	if requirements, err := s.projections.ListRequirements(ctx, id); err == nil {
		detail.Requirements = requirements
	} else {
		s.logger.Warn("failed to load requirements projection", zap.String("competition_id", id), zap.Error(err))
	}
	return detail, nil
}

// Create inserts a new competition and projects its secondary rows.
func (s *CompetitionService) Create(ctx context.Context, form models.CompetitionFormData, createdBy string) (*SaveResult, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid competition payload")
	}

	rec := mapper.ToWriteRecord(form, "")
	if createdBy != "" {
		rec.CreatedBy = sql.NullString{String: createdBy, Valid: true}
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to create competition")
	}

	row, err := s.repo.FindByID(ctx, rec.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload created competition")
	}

	result := &SaveResult{
		Competition: mapper.ToCompetition(*row),
		SideEffects: s.projectSideEffects(ctx, rec.ID, form),
	}
	s.invalidateListing(ctx)
	return result, nil
}

// Update modifies an existing competition and rewrites its projections.
func (s *CompetitionService) Update(ctx context.Context, id string, form models.CompetitionFormData) (*SaveResult, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid competition payload")
	}

	rec := mapper.ToWriteRecord(form, id)
	if err := s.repo.Update(ctx, &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "competition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to update competition")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload updated competition")
	}

	result := &SaveResult{
		Competition: mapper.ToCompetition(*row),
		SideEffects: s.projectSideEffects(ctx, id, form),
	}
	s.invalidateListing(ctx)
	return result, nil
}

// ToggleSaved flips a user's bookmark on a competition.
func (s *CompetitionService) ToggleSaved(ctx context.Context, userID, competitionID string) (bool, error) {
	if _, err := s.repo.FindByID(ctx, competitionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "competition not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to load competition")
	}
	saved, err := s.saved.Toggle(ctx, userID, competitionID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to toggle bookmark")
	}
	return saved, nil
}

// ListSaved returns the user's bookmarked competitions.
func (s *CompetitionService) ListSaved(ctx context.Context, userID string) ([]models.Competition, error) {
	rows, err := s.saved.ListForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to list saved competitions")
	}
	competitions := make([]models.Competition, 0, len(rows))
	for _, row := range rows {
		competitions = append(competitions, mapper.ToCompetition(row))
	}
	return competitions, nil
}

// projectSideEffects issues the fire-and-forget projection writes after a
// successful primary write. Eligibility rows come from splitting the
// requirements free text on newlines; requirement rows from the ordered
// rules. Failures are logged and reported in the outcome, never escalated.
func (s *CompetitionService) projectSideEffects(ctx context.Context, competitionID string, form models.CompetitionFormData) []SideEffectOutcome {
	criteria := splitLines(form.Requirements)
	rules := compactRules(form.Rules)

	outcomes := make([]SideEffectOutcome, 0, 2)

	eligibility := SideEffectOutcome{Table: "competition_eligibility", Rows: len(criteria)}
	if err := s.projections.ReplaceEligibility(ctx, competitionID, criteria); err != nil {
		eligibility.Error = err.Error()
		s.logger.Warn("eligibility projection write failed", zap.String("competition_id", competitionID), zap.Error(err))
	}
	outcomes = append(outcomes, eligibility)

	requirements := SideEffectOutcome{Table: "competition_requirements", Rows: len(rules)}
	if err := s.projections.ReplaceRequirements(ctx, competitionID, rules); err != nil {
		requirements.Error = err.Error()
		s.logger.Warn("requirements projection write failed", zap.String("competition_id", competitionID), zap.Error(err))
	}
	outcomes = append(outcomes, requirements)

	return outcomes
}

func (s *CompetitionService) invalidateListing(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, listingCachePrefix+"*")
}

func (s *CompetitionService) snapshot() []models.Competition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastKnown == nil {
		return nil
	}
	copied := make([]models.Competition, len(s.lastKnown))
	copy(copied, s.lastKnown)
	return copied
}

func (s *CompetitionService) storeSnapshot(records []models.Competition) {
	copied := make([]models.Competition, len(records))
	copy(copied, records)
	s.mu.Lock()
	s.lastKnown = copied
	s.mu.Unlock()
}

func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func compactRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if trimmed := strings.TrimSpace(rule); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
