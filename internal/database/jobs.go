package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

const jobColumns = `id, title, description, work_type, land_size, location, lat, lng,
	required_skills, budget, shortlist, shortlist_generated_at, selected_contractor_id,
	was_ai_selected, ai_success_rate, created_at, updated_at`

// SaveJob inserts j, or updates its descriptive fields when the id exists.
// Shortlist, selection and success-rate columns are left untouched on
// update. An empty id is replaced by a new UUID.
func (s *Store) SaveJob(ctx context.Context, j *models.Job) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Title == "" || j.WorkType == "" {
		return fmt.Errorf("job %s needs a title and a work type: %w", j.ID, models.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now

	skills, err := json.Marshal(nonNil(j.RequiredSkills))
	if err != nil {
		return fmt.Errorf("encode required skills: %w", err)
	}
	lat, lng := geoColumns(j.Geo)

	query := `INSERT INTO jobs (id, title, description, work_type, land_size, location, lat, lng,
			  required_skills, budget, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  title=excluded.title, description=excluded.description, work_type=excluded.work_type,
			  land_size=excluded.land_size, location=excluded.location, lat=excluded.lat,
			  lng=excluded.lng, required_skills=excluded.required_skills, budget=excluded.budget,
			  updated_at=excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, j.ID, j.Title, j.Description, j.WorkType, j.LandSize,
		j.Location, lat, lng, string(skills), j.Budget, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", j.ID, err)
	}
	return nil
}

// GetJob returns the job with id, or models.ErrNotFound
func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	return j, err
}

// ListJobs returns every job, newest first
func (s *Store) ListJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SaveShortlist replaces the stored shortlist of a job
func (s *Store) SaveShortlist(ctx context.Context, jobID string, entries []models.ShortlistEntry, generatedAt time.Time) error {
	if entries == nil {
		entries = []models.ShortlistEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode shortlist: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE jobs SET shortlist=?, shortlist_generated_at=?, updated_at=?
		WHERE id=?`, string(data), generatedAt.UTC(), time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to save shortlist for job %s: %w", jobID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", jobID, models.ErrNotFound)
	}
	return nil
}

// SetSelection records the contractor a landowner picked for a job
func (s *Store) SetSelection(ctx context.Context, jobID, contractorID string, wasAISelected bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE jobs SET selected_contractor_id=?, was_ai_selected=?, updated_at=?
		WHERE id=?`, contractorID, wasAISelected, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to record selection for job %s: %w", jobID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", jobID, models.ErrNotFound)
	}
	return nil
}

// SetWorkTypeSuccessRate writes rate onto every job of workType in a
// single statement and returns the number of jobs updated
func (s *Store) SetWorkTypeSuccessRate(ctx context.Context, workType string, rate float64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE jobs SET ai_success_rate=? WHERE work_type=?`, rate, workType)
	if err != nil {
		return 0, fmt.Errorf("failed to update success rate for %q: %w", workType, err)
	}
	return result.RowsAffected()
}

func scanJob(row scanner) (*models.Job, error) {
	j := &models.Job{}
	var (
		skills, shortlist string
		lat, lng          sql.NullFloat64
		generatedAt       sql.NullTime
		wasAISelected     sql.NullBool
	)

	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.WorkType, &j.LandSize, &j.Location,
		&lat, &lng, &skills, &j.Budget, &shortlist, &generatedAt, &j.SelectedContractorID,
		&wasAISelected, &j.AISuccessRate, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	j.Geo = geoFromColumns(lat, lng)
	if generatedAt.Valid {
		t := generatedAt.Time
		j.ShortlistGeneratedAt = &t
	}
	if wasAISelected.Valid {
		v := wasAISelected.Bool
		j.WasAISelected = &v
	}

	if err := json.Unmarshal([]byte(skills), &j.RequiredSkills); err != nil {
		return nil, fmt.Errorf("decode required skills of %s: %w", j.ID, err)
	}
	if err := json.Unmarshal([]byte(shortlist), &j.Shortlist); err != nil {
		return nil, fmt.Errorf("decode shortlist of %s: %w", j.ID, err)
	}

	return j, nil
}
