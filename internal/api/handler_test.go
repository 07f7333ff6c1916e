package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/engine"
	"github.com/mkrell/consequence-mirror/internal/models"
	"github.com/mkrell/consequence-mirror/internal/observability"
	"github.com/mkrell/consequence-mirror/internal/repository"
)

// mockRepo implements repository.ProjectionRepository for testing
type mockRepo struct {
	projections []models.ProjectionRecord
}

func (m *mockRepo) Add(ctx context.Context, rec *models.ProjectionRecord) error {
	m.projections = append(m.projections, *rec)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*models.ProjectionRecord, error) {
	for _, rec := range m.projections {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(ctx context.Context, opts repository.Filter) ([]models.ProjectionRecord, error) {
	results := m.projections

	if opts.Category != nil {
		var filtered []models.ProjectionRecord
		for _, rec := range results {
			if rec.Category == *opts.Category {
				filtered = append(filtered, rec)
			}
		}
		results = filtered
	}

	if opts.MinDelay != nil {
		var filtered []models.ProjectionRecord
		for _, rec := range results {
			if rec.DelayDays >= *opts.MinDelay {
				filtered = append(filtered, rec)
			}
		}
		results = filtered
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func setupTestRouter(repo repository.ProjectionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	eng := engine.New(catalog.New())
	handler := NewHandler(eng, repo, nil, nil, observability.NewMetricsForTesting())
	handler.RegisterRoutes(router)
	return router
}

func TestSimulate_ReturnsFullProjection(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "Flood", "delay_days": 3}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.ConsequenceResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Category != models.CategoryFlood {
		t.Errorf("expected category Flood, got %s", result.Category)
	}
	if len(result.Phases) != 4 {
		t.Errorf("expected 4 phases, got %d", len(result.Phases))
	}
	if result.ReadinessScore <= 0 || result.ReadinessScore >= 100 {
		t.Errorf("expected readiness in (0, 100) for 3-day delay, got %v", result.ReadinessScore)
	}
	if result.Confidence != nil {
		t.Error("expected no confidence when none supplied")
	}
}

func TestSimulate_CaseInsensitiveCategory(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "flood", "delay_days": 0}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSimulate_AttachesConfidence(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "Earthquake", "delay_days": 5, "confidence": 0.88}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result models.ConsequenceResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Confidence == nil || *result.Confidence != 0.88 {
		t.Errorf("expected confidence 0.88, got %v", result.Confidence)
	}
}

func TestSimulate_UnknownCategory(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "NotACategory", "delay_days": 0}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp struct {
		ValidCategories []string `json:"valid_categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.ValidCategories) != 10 {
		t.Errorf("expected 10 valid categories, got %d", len(resp.ValidCategories))
	}
}

func TestSimulate_DelayOutOfRange(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	for _, body := range []string{
		`{"category": "Flood", "delay_days": -1}`,
		`{"category": "Flood", "delay_days": 31}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for %s, got %d", body, w.Code)
		}
	}
}

func TestSimulate_MissingFields(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	for _, body := range []string{
		`{}`,
		`{"category": "Flood"}`,
		`{"delay_days": 3}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for %s, got %d", body, w.Code)
		}
	}
}

func TestSimulate_ZeroDelayAccepted(t *testing.T) {
	// delay_days: 0 must bind as present, not as a missing field.
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "Flood", "delay_days": 0}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for zero delay, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDisasterTypes(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/disaster-types", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		DisasterTypes []string `json:"disaster_types"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.DisasterTypes) != 10 {
		t.Errorf("expected 10 disaster types, got %d", len(resp.DisasterTypes))
	}
}

func TestHospitalStatus_Defaults(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/hospitals/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Hospital models.HospitalStatus `json:"hospital"`
		PhaseDay int                   `json:"phase_day"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.PhaseDay != 3 {
		t.Errorf("expected default phase day 3, got %d", resp.PhaseDay)
	}
	if resp.Hospital.BedOccupancyPercent != 45.0 {
		t.Errorf("expected baseline occupancy 45, got %v", resp.Hospital.BedOccupancyPercent)
	}
}

func TestHospitalStatus_BadPhaseDay(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/hospitals/status?phase_day=5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for non-checkpoint day, got %d", w.Code)
	}

	var resp struct {
		ValidPhaseDays []int `json:"valid_phase_days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	want := []int{0, 3, 10, 30}
	if len(resp.ValidPhaseDays) != len(want) {
		t.Fatalf("expected %d valid phase days, got %d", len(want), len(resp.ValidPhaseDays))
	}
	for i, day := range want {
		if resp.ValidPhaseDays[i] != day {
			t.Errorf("valid phase day %d: expected %d, got %d", i, day, resp.ValidPhaseDays[i])
		}
	}
}

func TestCostOfDelay(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cost-of-delay?category=Flood&delay_days=3", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		CostOfDelay models.CostOfDelay `json:"cost_of_delay"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.CostOfDelay.CasualtyRiskPercent <= 5.0 {
		t.Errorf("expected escalated casualty risk, got %v", resp.CostOfDelay.CasualtyRiskPercent)
	}
	if resp.CostOfDelay.DirectDamage <= resp.CostOfDelay.IndirectLoss {
		t.Error("expected direct damage to exceed indirect loss")
	}
}

func TestClassify(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "Earthquake", "reading": {"magnitude": 8.0}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Confidence struct {
			Score float64 `json:"score"`
			Band  string  `json:"band"`
		} `json:"confidence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Confidence.Score != 0.88 {
		t.Errorf("expected score 0.88, got %v", resp.Confidence.Score)
	}
	if resp.Confidence.Band != "High" {
		t.Errorf("expected band High, got %s", resp.Confidence.Band)
	}
}

func TestClassify_UnknownCategory(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	body := `{"category": "Blizzard", "reading": {}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestListProjections(t *testing.T) {
	repo := &mockRepo{
		projections: []models.ProjectionRecord{
			{ID: "p1", Category: models.CategoryFlood, DelayDays: 3, CreatedAt: time.Now()},
			{ID: "p2", Category: models.CategoryFlood, DelayDays: 10, CreatedAt: time.Now()},
			{ID: "p3", Category: models.CategoryEarthquake, DelayDays: 5, CreatedAt: time.Now()},
		},
	}
	router := setupTestRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/projections?category=Flood&min_delay=5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Projections []models.ProjectionRecord `json:"projections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Projections) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(resp.Projections))
	}
	if resp.Projections[0].ID != "p2" {
		t.Errorf("expected projection p2, got %s", resp.Projections[0].ID)
	}
}

func TestListProjections_EmptyIsArray(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/projections", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"projections":[]`) {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestStream_UnavailableWithoutBroadcaster(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stream", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(&mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
