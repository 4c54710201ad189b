package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/database"
	"github.com/campus-registry/registry-engine/pkg/models"
)

// InstructorRepository defines data access for instructor records.
type InstructorRepository interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	Get(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]*models.Instructor, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type instructorRepository struct {
	db *database.DB
}

// NewInstructorRepository creates a new instructor repository.
func NewInstructorRepository(db *database.DB) InstructorRepository {
	return &instructorRepository{db: db}
}

func (r *instructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	query := `
		INSERT INTO instructor (id, name, dept_name, salary)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, instructor.ID, instructor.Name, instructor.DeptName, instructor.Salary)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create instructor: %w", err)
	}
	return nil
}

func (r *instructorRepository) Get(ctx context.Context, id string) (*models.Instructor, error) {
	query := `SELECT id, name, dept_name, salary FROM instructor WHERE id = $1`

	var i models.Instructor
	err := r.db.QueryRow(ctx, query, id).Scan(&i.ID, &i.Name, &i.DeptName, &i.Salary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	return &i, nil
}

func (r *instructorRepository) List(ctx context.Context) ([]*models.Instructor, error) {
	query := `SELECT id, name, dept_name, salary FROM instructor ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		var i models.Instructor
		if err := rows.Scan(&i.ID, &i.Name, &i.DeptName, &i.Salary); err != nil {
			return nil, fmt.Errorf("failed to scan instructor: %w", err)
		}
		instructors = append(instructors, &i)
	}
	return instructors, rows.Err()
}

func (r *instructorRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM instructor WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check instructor: %w", err)
	}
	return exists, nil
}

func (r *instructorRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM instructor WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
