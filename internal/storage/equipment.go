package storage

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

// ListEquipment returns the equipment catalog ordered by name.
func (db *DB) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, muscle_group FROM equipment_catalog ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying equipment: %w", err)
	}
	defer rows.Close()

	result := []models.Equipment{}
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup); err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateEquipment inserts an equipment row and returns it with its id.
func (db *DB) CreateEquipment(ctx context.Context, e models.Equipment) (*models.Equipment, error) {
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO equipment_catalog (name, muscle_group) VALUES ($1, $2) RETURNING id`,
		e.Name, e.MuscleGroup,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting equipment: %w", err)
	}
	return &e, nil
}

// UpdateEquipment overwrites an equipment row.
func (db *DB) UpdateEquipment(ctx context.Context, id int64, e models.Equipment) (*models.Equipment, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE equipment_catalog SET name = $2, muscle_group = $3 WHERE id = $1`,
		id, e.Name, e.MuscleGroup)
	if err != nil {
		return nil, fmt.Errorf("updating equipment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	e.ID = id
	return &e, nil
}
