package repository

import (
	"context"
	"time"

	"github.com/mkrell/consequence-mirror/internal/models"
)

type Filter struct {
	Limit    int
	Category *models.DisasterCategory
	MinDelay *int
	Since    *time.Time
}

// ProjectionRepository persists completed simulation results.
type ProjectionRepository interface {
	Add(ctx context.Context, rec *models.ProjectionRecord) error
	GetByID(ctx context.Context, id string) (*models.ProjectionRecord, error)
	List(ctx context.Context, opts Filter) ([]models.ProjectionRecord, error)
}
