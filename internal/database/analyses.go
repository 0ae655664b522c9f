package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"
)

const analysisColumns = `id, username, overall_score, grade, job_id, report, created_at`

// SaveAnalysis appends an analysis to the history and fills in its ID and
// CreatedAt
func (d *DB) SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (username, overall_score, grade, job_id, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	jobID := sql.NullString{String: rec.JobID, Valid: rec.JobID != ""}
	err := d.db.QueryRowContext(ctx, query,
		rec.Username, rec.OverallScore, rec.Grade, jobID, []byte(rec.Report),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return errors.NewDatabaseError("save_analysis", err)
	}

	d.logger.Debug().
		Int64("analysis_id", rec.ID).
		Str("username", rec.Username).
		Int("overall_score", rec.OverallScore).
		Msg("Analysis recorded")
	return nil
}

// GetAnalysis returns the analysis with the given id
func (d *DB) GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	rec, err := scanAnalysis(d.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis %d: %w", id, errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("get_analysis", err)
	}
	return rec, nil
}

// GetAnalysisByJobID returns the latest analysis produced by an async job
func (d *DB) GetAnalysisByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses
		WHERE job_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	rec, err := scanAnalysis(d.db.QueryRowContext(ctx, query, jobID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis for job %s: %w", jobID, errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("get_analysis_by_job_id", err)
	}
	return rec, nil
}

// ListAnalyses returns up to limit analyses of username, newest first.
// Logins are matched case-insensitively.
func (d *DB) ListAnalyses(ctx context.Context, username string, limit int) ([]models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses
		WHERE lower(username) = lower($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := d.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list_analyses", err)
	}
	defer rows.Close()

	records := []models.AnalysisRecord{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.NewDatabaseError("list_analyses", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("list_analyses", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	var jobID sql.NullString
	var report []byte

	if err := row.Scan(
		&rec.ID,
		&rec.Username,
		&rec.OverallScore,
		&rec.Grade,
		&jobID,
		&report,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	if jobID.Valid {
		rec.JobID = jobID.String
	}
	rec.Report = json.RawMessage(report)
	return &rec, nil
}
