package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/middleware"
	"github.com/prizehub/competitions-api/internal/models"
	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
)

type competitionStoreMock struct {
	rows       map[string]models.CompetitionRow
	lastSpec   filter.Spec
	listCalled bool
	created    *models.CompetitionWrite
}

func newCompetitionStoreMock() *competitionStoreMock {
	return &competitionStoreMock{rows: map[string]models.CompetitionRow{}}
}

// List mirrors the repository pushdown on the facets the tests exercise.
func (m *competitionStoreMock) List(_ context.Context, spec filter.Spec) ([]models.CompetitionRow, error) {
	m.listCalled = true
	m.lastSpec = spec
	out := make([]models.CompetitionRow, 0, len(m.rows))
	for _, row := range m.rows {
		if spec.Status != "" && row.Status != spec.Status {
			continue
		}
		if spec.Category != "" && row.Category != spec.Category {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *competitionStoreMock) FindByID(_ context.Context, id string) (*models.CompetitionRow, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *competitionStoreMock) Create(_ context.Context, rec *models.CompetitionWrite) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.created = rec
	m.rows[rec.ID] = rowFromWrite(rec)
	return nil
}

func (m *competitionStoreMock) Update(_ context.Context, rec *models.CompetitionWrite) error {
	if _, ok := m.rows[rec.ID]; !ok {
		return sql.ErrNoRows
	}
	m.rows[rec.ID] = rowFromWrite(rec)
	return nil
}

func rowFromWrite(rec *models.CompetitionWrite) models.CompetitionRow {
	return models.CompetitionRow{
		ID:           rec.ID,
		Title:        rec.Title,
		ImageURL:     rec.ImageURL,
		Category:     rec.Category,
		Difficulty:   sql.NullString{String: rec.Difficulty, Valid: rec.Difficulty != ""},
		PrizeValue:   rec.PrizeValue,
		Requirements: rec.Requirements,
		Rules:        rec.Rules,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		CreatedBy:    rec.CreatedBy,
	}
}

type projectionStoreMock struct{}

func (projectionStoreMock) ReplaceEligibility(_ context.Context, _ string, _ []string) error {
	return nil
}

func (projectionStoreMock) ReplaceRequirements(_ context.Context, _ string, _ []string) error {
	return nil
}

func (projectionStoreMock) ListEligibility(_ context.Context, _ string) ([]models.EligibilityRow, error) {
	return nil, nil
}

func (projectionStoreMock) ListRequirements(_ context.Context, _ string) ([]models.RequirementRow, error) {
	return nil, nil
}

type savedStoreMock struct {
	saved map[string]bool
}

func (m *savedStoreMock) Toggle(_ context.Context, userID, competitionID string) (bool, error) {
	if m.saved == nil {
		m.saved = map[string]bool{}
	}
	key := userID + "/" + competitionID
	m.saved[key] = !m.saved[key]
	return m.saved[key], nil
}

func (m *savedStoreMock) ListForUser(_ context.Context, _ string) ([]models.CompetitionRow, error) {
	return nil, nil
}

func newCompetitionServiceUnderTest(store *competitionStoreMock) *service.CompetitionService {
	return service.NewCompetitionService(store, projectionStoreMock{}, &savedStoreMock{}, nil, nil, nil, nil, 0)
}

func requestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	if body == "" {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(method, target, nil)
		return c, w
	}
	return jsonContext(t, method, target, body)
}

func TestCompetitionHandlerListPassesFilter(t *testing.T) {
	store := newCompetitionStoreMock()
	handler := NewCompetitionHandler(newCompetitionServiceUnderTest(store))

	c, w := requestContext(t, http.MethodGet, "/admin/competitions?status=active&difficulty=Hard&search=camera", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.listCalled)
	assert.Equal(t, "active", store.lastSpec.Status)
	assert.Equal(t, "Hard", store.lastSpec.Difficulty)
	assert.Equal(t, "camera", store.lastSpec.Search)
}

func TestCompetitionHandlerListRejectsMalformedQuery(t *testing.T) {
	store := newCompetitionStoreMock()
	handler := NewCompetitionHandler(newCompetitionServiceUnderTest(store))

	c, w := requestContext(t, http.MethodGet, "/admin/competitions?prizeMin=lots", "")
	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.listCalled)
}

func TestCompetitionHandlerGetNotFound(t *testing.T) {
	handler := NewCompetitionHandler(newCompetitionServiceUnderTest(newCompetitionStoreMock()))

	c, w := requestContext(t, http.MethodGet, "/admin/competitions/ghost", "")
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}

func TestCompetitionHandlerCreateInvalidBody(t *testing.T) {
	handler := NewCompetitionHandler(newCompetitionServiceUnderTest(newCompetitionStoreMock()))

	c, w := requestContext(t, http.MethodPost, "/admin/competitions", `{"title":"Win"`)
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompetitionHandlerCreateRecordsActor(t *testing.T) {
	store := newCompetitionStoreMock()
	handler := NewCompetitionHandler(newCompetitionServiceUnderTest(store))

	c, w := requestContext(t, http.MethodPost, "/admin/competitions",
		`{"title":"Win a Camera","imageUrl":"https://example.com/a.jpg","category":"Photography","difficulty":"Easy","status":"active","prizeValue":"$1,000"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Admin: true})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "admin-1", store.created.CreatedBy.String)
	assert.True(t, store.created.CreatedBy.Valid)
}

func TestPublicHandlerListPassesFilter(t *testing.T) {
	store := newCompetitionStoreMock()
	handler := NewPublicHandler(newCompetitionServiceUnderTest(store))

	c, w := requestContext(t, http.MethodGet, "/competitions?search=camera", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.listCalled)
	assert.Equal(t, "camera", store.lastSpec.Search)
}

func TestPublicHandlerGetNotFound(t *testing.T) {
	handler := NewPublicHandler(newCompetitionServiceUnderTest(newCompetitionStoreMock()))

	c, w := requestContext(t, http.MethodGet, "/competitions/ghost", "")
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}

func TestPublicHandlerToggleSavedRequiresClaims(t *testing.T) {
	handler := NewPublicHandler(newCompetitionServiceUnderTest(newCompetitionStoreMock()))

	c, w := requestContext(t, http.MethodPost, "/competitions/c1/save", "")
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.ToggleSaved(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicHandlerToggleSavedUnknownCompetition(t *testing.T) {
	handler := NewPublicHandler(newCompetitionServiceUnderTest(newCompetitionStoreMock()))

	c, w := requestContext(t, http.MethodPost, "/competitions/ghost/save", "")
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})
	handler.ToggleSaved(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
