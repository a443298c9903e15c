package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/fittrack/internal/models"
	"github.com/jackc/pgx/v5"
)

// ActivateProgram makes programID the user's active program, replacing any previous one.
func (db *DB) ActivateProgram(ctx context.Context, userID, programID int64) (*models.ActiveProgram, error) {
	a := models.ActiveProgram{UserID: userID, ProgramID: programID}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO active_programs (user_id, program_id, activated_at)
		 SELECT $1, id, NOW() FROM programs WHERE id = $2
		 ON CONFLICT (user_id) DO UPDATE SET program_id = EXCLUDED.program_id, activated_at = EXCLUDED.activated_at
		 RETURNING activated_at`,
		userID, programID,
	).Scan(&a.ActivatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("activating program %d: %w", programID, err)
	}
	return &a, nil
}

// DeactivateProgram clears the user's active program.
func (db *DB) DeactivateProgram(ctx context.Context, userID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM active_programs WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deactivating program for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetActiveProgram returns the user's active program with its tree.
func (db *DB) GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error) {
	var programID int64
	err := db.Pool.QueryRow(ctx,
		`SELECT program_id FROM active_programs WHERE user_id = $1`, userID,
	).Scan(&programID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying active program for user %d: %w", userID, err)
	}
	return db.GetProgram(ctx, programID)
}
