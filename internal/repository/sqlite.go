package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkrell/consequence-mirror/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projections (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			delay_days INTEGER NOT NULL,
			readiness_score REAL NOT NULL,
			casualty_risk_percent REAL NOT NULL,
			result TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_projections_category ON projections(category);
		CREATE INDEX IF NOT EXISTS idx_projections_created_at ON projections(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, rec *models.ProjectionRecord) error {
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("error serializing result for %s: %w", rec.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projections (id, category, delay_days, readiness_score, casualty_risk_percent, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Category), rec.DelayDays, rec.ReadinessScore,
		rec.CasualtyRiskPercent, string(payload), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting projection %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.ProjectionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, delay_days, readiness_score, casualty_risk_percent, result, created_at
		 FROM projections WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("projection %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading projection %s: %w", id, err)
	}
	return rec, nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.ProjectionRecord, error) {
	var (
		conds []string
		args  []any
	)

	if opts.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*opts.Category))
	}
	if opts.MinDelay != nil {
		conds = append(conds, "delay_days >= ?")
		args = append(args, *opts.MinDelay)
	}
	if opts.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	query := `SELECT id, category, delay_days, readiness_score, casualty_risk_percent, result, created_at FROM projections`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing projections: %w", err)
	}
	defer rows.Close()

	var records []models.ProjectionRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning projection row: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (*models.ProjectionRecord, error) {
	var (
		rec       models.ProjectionRecord
		category  string
		payload   string
		createdAt time.Time
	)
	if err := scan(&rec.ID, &category, &rec.DelayDays, &rec.ReadinessScore,
		&rec.CasualtyRiskPercent, &payload, &createdAt); err != nil {
		return nil, err
	}
	rec.Category = models.DisasterCategory(category)
	rec.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(payload), &rec.Result); err != nil {
		return nil, fmt.Errorf("corrupt result payload: %w", err)
	}
	return &rec, nil
}
