package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// maxScoreRetries bounds optimistic retries of UpdateAIScores
const maxScoreRetries = 5

const scoreRetryBackoff = 10 * time.Millisecond

const contractorColumns = `id, name, skills, rating, completed_jobs, pending_jobs, active_jobs,
	total_spent, availability, lat, lng, min_budget, max_budget, years_experience,
	cancellation_rate, on_time_rate, rates, past_jobs, ai_scores, ai_version,
	created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// SaveContractor inserts c, or updates its profile fields when the id
// exists. The AI score bundle is only written on insert. An empty id is
// replaced by a new UUID.
func (s *Store) SaveContractor(ctx context.Context, c *models.Contractor) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	skills, err := json.Marshal(nonNil(c.Skills))
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	rates, err := json.Marshal(c.Rates)
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	pastJobs, err := json.Marshal(nonNilPast(c.PastJobs))
	if err != nil {
		return fmt.Errorf("encode past jobs: %w", err)
	}
	aiScores, err := json.Marshal(c.AI)
	if err != nil {
		return fmt.Errorf("encode ai scores: %w", err)
	}
	lat, lng := geoColumns(c.Geo)

	query := `INSERT INTO contractors (id, name, skills, rating, completed_jobs, pending_jobs,
			  active_jobs, total_spent, availability, lat, lng, min_budget, max_budget,
			  years_experience, cancellation_rate, on_time_rate, rates, past_jobs,
			  ai_score, ai_scores, ai_version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  name=excluded.name, skills=excluded.skills, rating=excluded.rating,
			  completed_jobs=excluded.completed_jobs, pending_jobs=excluded.pending_jobs,
			  active_jobs=excluded.active_jobs, total_spent=excluded.total_spent,
			  availability=excluded.availability, lat=excluded.lat, lng=excluded.lng,
			  min_budget=excluded.min_budget, max_budget=excluded.max_budget,
			  years_experience=excluded.years_experience,
			  cancellation_rate=excluded.cancellation_rate, on_time_rate=excluded.on_time_rate,
			  rates=excluded.rates, past_jobs=excluded.past_jobs, updated_at=excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, c.ID, c.Name, string(skills), c.Rating, c.CompletedJobs,
		c.PendingJobs, c.ActiveJobs, c.TotalSpent, string(c.Availability), lat, lng,
		c.MinBudget, c.MaxBudget, c.YearsExperience, c.CancellationRate, c.OnTimeRate,
		string(rates), string(pastJobs), c.AI.AIScore, string(aiScores), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save contractor %s: %w", c.ID, err)
	}
	return nil
}

// GetContractor returns the contractor with id, or models.ErrNotFound
func (s *Store) GetContractor(ctx context.Context, id string) (*models.Contractor, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contractorColumns+` FROM contractors WHERE id=?`, id)
	c, err := scanContractor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contractor %s: %w", id, models.ErrNotFound)
	}
	return c, err
}

// ListContractors returns every contractor in insertion order
func (s *Store) ListContractors(ctx context.Context) ([]*models.Contractor, error) {
	return s.queryContractors(ctx, `SELECT `+contractorColumns+` FROM contractors ORDER BY rowid`)
}

// TopContractors returns contractors with a positive AI score, best first.
// limit <= 0 returns all of them.
func (s *Store) TopContractors(ctx context.Context, limit int) ([]*models.Contractor, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryContractors(ctx, `SELECT `+contractorColumns+` FROM contractors
		WHERE ai_score > 0 ORDER BY ai_score DESC, id LIMIT ?`, limit)
}

func (s *Store) queryContractors(ctx context.Context, query string, args ...any) ([]*models.Contractor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contractors := []*models.Contractor{}
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

// UpdateAIScores applies mutate to the stored AI score bundle. The write
// is conditional on the version read, and retried when another writer got
// there first or still holds the database lock.
func (s *Store) UpdateAIScores(ctx context.Context, id string, mutate func(*models.AIScores) error) error {
	for attempt := 0; attempt < maxScoreRetries; attempt++ {
		err := s.tryUpdateAIScores(ctx, id, mutate)
		if isBusy(err) {
			err = models.ErrVersionConflict
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * scoreRetryBackoff):
		}
	}
	return fmt.Errorf("contractor %s: %w", id, models.ErrVersionConflict)
}

// isBusy reports whether err is sqlite giving up on a held lock
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

func (s *Store) tryUpdateAIScores(ctx context.Context, id string, mutate func(*models.AIScores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		raw     string
		version int64
	)
	err = tx.QueryRowContext(ctx, `SELECT ai_scores, ai_version FROM contractors WHERE id=?`, id).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("contractor %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return err
	}

	var scores models.AIScores
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return fmt.Errorf("decode ai scores: %w", err)
	}
	scores.Version = version

	if err := mutate(&scores); err != nil {
		return err
	}
	scores.Version = version + 1

	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode ai scores: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE contractors SET ai_scores=?, ai_score=?, ai_version=?, updated_at=?
		WHERE id=? AND ai_version=?`, string(data), scores.AIScore, version+1, time.Now().UTC(), id, version)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrVersionConflict
	}

	return tx.Commit()
}

func scanContractor(row scanner) (*models.Contractor, error) {
	c := &models.Contractor{}
	var (
		skills, rates, pastJobs, aiScores string
		availability                      string
		lat, lng                          sql.NullFloat64
		version                           int64
	)

	err := row.Scan(&c.ID, &c.Name, &skills, &c.Rating, &c.CompletedJobs, &c.PendingJobs,
		&c.ActiveJobs, &c.TotalSpent, &availability, &lat, &lng, &c.MinBudget, &c.MaxBudget,
		&c.YearsExperience, &c.CancellationRate, &c.OnTimeRate, &rates, &pastJobs,
		&aiScores, &version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Availability = models.Availability(availability)
	c.Geo = geoFromColumns(lat, lng)

	if err := json.Unmarshal([]byte(skills), &c.Skills); err != nil {
		return nil, fmt.Errorf("decode skills of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(rates), &c.Rates); err != nil {
		return nil, fmt.Errorf("decode rates of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(pastJobs), &c.PastJobs); err != nil {
		return nil, fmt.Errorf("decode past jobs of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(aiScores), &c.AI); err != nil {
		return nil, fmt.Errorf("decode ai scores of %s: %w", c.ID, err)
	}
	c.AI.Version = version

	return c, nil
}

func geoColumns(g *models.GeoPoint) (lat, lng sql.NullFloat64) {
	if g == nil {
		return
	}
	return sql.NullFloat64{Float64: g.Lat, Valid: true}, sql.NullFloat64{Float64: g.Lng, Valid: true}
}

func geoFromColumns(lat, lng sql.NullFloat64) *models.GeoPoint {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &models.GeoPoint{Lat: lat.Float64, Lng: lng.Float64}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilPast(p []models.PastJob) []models.PastJob {
	if p == nil {
		return []models.PastJob{}
	}
	return p
}
