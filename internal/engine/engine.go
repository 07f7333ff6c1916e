// Package engine orchestrates the consequence projection: it validates the
// request at the boundary, samples the four fixed checkpoints in ascending
// order, and assembles one immutable result. Every call is a pure,
// synchronous computation; the only shared state is the read-only catalog,
// so the engine is safe for concurrent use without coordination.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/cost"
	"github.com/mkrell/consequence-mirror/internal/decay"
	"github.com/mkrell/consequence-mirror/internal/hospital"
	"github.com/mkrell/consequence-mirror/internal/models"
)

type Engine struct {
	catalog   *catalog.Catalog
	generator *Generator
}

func New(c *catalog.Catalog) *Engine {
	return &Engine{
		catalog:   c,
		generator: NewGenerator(c),
	}
}

// Simulate projects the four-phase consequence trajectory for a category and
// intervention delay. Fails with ErrInvalidCategory or ErrInvalidDelay for
// bad input, ErrStructuralInvariant if the assembled timeline is malformed.
func (e *Engine) Simulate(category models.DisasterCategory, delayDays int) (models.ConsequenceResult, error) {
	profile, err := e.validate(category, delayDays)
	if err != nil {
		return models.ConsequenceResult{}, err
	}

	phases := make([]models.PhaseRecord, 0, models.PhaseCount)
	for _, p := range models.Phases() {
		rec, err := e.generator.Generate(category, delayDays, p)
		if err != nil {
			return models.ConsequenceResult{}, err
		}
		phases = append(phases, rec)
	}

	if err := verifyTimeline(phases); err != nil {
		// The visualization layer hard-depends on exactly four ascending
		// entries; never truncate silently.
		slog.Error("consequence timeline failed structural check",
			"category", category, "delay_days", delayDays, "error", err)
		return models.ConsequenceResult{}, err
	}

	return models.ConsequenceResult{
		Category:       category,
		DelayDays:      delayDays,
		ReadinessScore: minReadiness(phases),
		Phases:         phases,
		CostOfDelay:    cost.Estimate(profile, delayDays),
	}, nil
}

// SimulateWithConfidence runs Simulate and attaches an opaque upstream
// confidence signal to the result. The engine does not interpret it.
func (e *Engine) SimulateWithConfidence(category models.DisasterCategory, delayDays int, confidence float64) (models.ConsequenceResult, error) {
	result, err := e.Simulate(category, delayDays)
	if err != nil {
		return models.ConsequenceResult{}, err
	}
	result.Confidence = &confidence
	return result, nil
}

// HospitalStatus computes the hospital state for a single checkpoint day,
// applying the same boundary validation as Simulate.
func (e *Engine) HospitalStatus(category models.DisasterCategory, delayDays int, checkpointDay int) (models.HospitalStatus, error) {
	profile, err := e.validate(category, delayDays)
	if err != nil {
		return models.HospitalStatus{}, err
	}
	for _, p := range models.Phases() {
		if p.Day == checkpointDay {
			return hospital.LoadFor(profile, delayDays, p), nil
		}
	}
	return models.HospitalStatus{}, fmt.Errorf("%w: day %d (valid: 0, 3, 10, 30)", ErrInvalidCheckpoint, checkpointDay)
}

// CostOfDelay estimates the delay penalty alone, without the full timeline.
func (e *Engine) CostOfDelay(category models.DisasterCategory, delayDays int) (models.CostOfDelay, error) {
	profile, err := e.validate(category, delayDays)
	if err != nil {
		return models.CostOfDelay{}, err
	}
	return cost.Estimate(profile, delayDays), nil
}

// Categories returns the valid category list in canonical order.
func (e *Engine) Categories() []models.DisasterCategory {
	return e.catalog.Categories()
}

func (e *Engine) validate(category models.DisasterCategory, delayDays int) (catalog.CategoryProfile, error) {
	profile, err := e.catalog.Lookup(category)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			return catalog.CategoryProfile{}, fmt.Errorf("%w: %q is not one of: %s",
				ErrInvalidCategory, category, categoryList())
		}
		return catalog.CategoryProfile{}, err
	}
	if delayDays < decay.MinDelayDays || delayDays > decay.MaxDelayDays {
		return catalog.CategoryProfile{}, fmt.Errorf("%w: %d days (supported: %d-%d)",
			ErrInvalidDelay, delayDays, decay.MinDelayDays, decay.MaxDelayDays)
	}
	return profile, nil
}

func verifyTimeline(phases []models.PhaseRecord) error {
	if len(phases) != models.PhaseCount {
		return fmt.Errorf("%w: got %d phases, want %d", ErrStructuralInvariant, len(phases), models.PhaseCount)
	}
	for i := 1; i < len(phases); i++ {
		if phases[i].Phase.Day <= phases[i-1].Phase.Day {
			return fmt.Errorf("%w: checkpoint days not ascending at index %d", ErrStructuralInvariant, i)
		}
	}
	return nil
}

// minReadiness folds the per-phase scores to the worst case, the
// conservative aggregate for a risk-communication tool.
func minReadiness(phases []models.PhaseRecord) float64 {
	min := phases[0].ReadinessScore
	for _, p := range phases[1:] {
		if p.ReadinessScore < min {
			min = p.ReadinessScore
		}
	}
	return min
}

func categoryList() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
