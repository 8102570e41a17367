package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveCV inserts an uploaded CV record.
func (db *DB) SaveCV(ctx context.Context, cv *CVRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_cvs (cv_id, user_id, filename, file_path, text_excerpt, skills, skills_by_source, stats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cv.CVID, cv.UserID, cv.Filename, cv.FilePath, cv.TextExcerpt, cv.Skills, cv.BySource, cv.Stats,
	)
	if err != nil {
		return fmt.Errorf("failed to save cv: %w", err)
	}
	return nil
}

// GetCV retrieves a CV record owned by the given user. Returns nil when no
// such CV exists or it belongs to someone else.
func (db *DB) GetCV(ctx context.Context, cvID, userID uuid.UUID) (*CVRecord, error) {
	var cv CVRecord
	err := db.pool.QueryRow(ctx,
		`SELECT cv_id, user_id, filename, file_path, text_excerpt, skills, skills_by_source, stats, uploaded_at
		 FROM user_cvs WHERE cv_id = $1 AND user_id = $2`,
		cvID, userID,
	).Scan(&cv.CVID, &cv.UserID, &cv.Filename, &cv.FilePath, &cv.TextExcerpt, &cv.Skills, &cv.BySource, &cv.Stats, &cv.UploadedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	return &cv, nil
}

// ListCVs retrieves all CV records owned by the given user, newest first.
func (db *DB) ListCVs(ctx context.Context, userID uuid.UUID) ([]CVRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cv_id, user_id, filename, file_path, text_excerpt, skills, skills_by_source, stats, uploaded_at
		 FROM user_cvs WHERE user_id = $1
		 ORDER BY uploaded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	defer rows.Close()

	var cvs []CVRecord
	for rows.Next() {
		var cv CVRecord
		if err := rows.Scan(&cv.CVID, &cv.UserID, &cv.Filename, &cv.FilePath, &cv.TextExcerpt, &cv.Skills, &cv.BySource, &cv.Stats, &cv.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cv row: %w", err)
		}
		cvs = append(cvs, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cv rows: %w", err)
	}
	return cvs, nil
}

// DeleteCV removes a CV record owned by the given user. Returns true when a
// row was deleted.
func (db *DB) DeleteCV(ctx context.Context, cvID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM user_cvs WHERE cv_id = $1 AND user_id = $2`,
		cvID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete cv: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
