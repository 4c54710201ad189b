package repositories

import (
	"context"
	"fmt"

	"github.com/campus-registry/registry-engine/pkg/database"
	"github.com/campus-registry/registry-engine/pkg/models"
)

// ReferenceRepository reads the seeded lookup tables used by dashboards
// and catalog forms.
type ReferenceRepository interface {
	Departments(ctx context.Context) ([]*models.Department, error)
	TimeSlots(ctx context.Context) ([]*models.TimeSlot, error)
}

type referenceRepository struct {
	db *database.DB
}

// NewReferenceRepository creates a new reference repository.
func NewReferenceRepository(db *database.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) Departments(ctx context.Context) ([]*models.Department, error) {
	query := `SELECT dept_name, building, budget FROM department ORDER BY dept_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.DeptName, &d.Building, &d.Budget); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, &d)
	}
	return departments, rows.Err()
}

func (r *referenceRepository) TimeSlots(ctx context.Context) ([]*models.TimeSlot, error) {
	query := `
		SELECT time_slot_id, day, start_hr, start_min, end_hr, end_min
		FROM time_slot
		ORDER BY time_slot_id, day`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.TimeSlot
	for rows.Next() {
		var s models.TimeSlot
		if err := rows.Scan(&s.TimeSlotID, &s.Day, &s.StartHr, &s.StartMin, &s.EndHr, &s.EndMin); err != nil {
			return nil, fmt.Errorf("failed to scan time slot: %w", err)
		}
		slots = append(slots, &s)
	}
	return slots, rows.Err()
}
