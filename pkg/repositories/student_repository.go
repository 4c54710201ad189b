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

// StudentRepository defines data access for student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *database.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO student (id, name, dept_name, tot_cred)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, student.ID, student.Name, student.DeptName, student.TotCred)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *studentRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT id, name, dept_name, tot_cred FROM student WHERE id = $1`

	var s models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.DeptName, &s.TotCred)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

func (r *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	query := `SELECT id, name, dept_name, tot_cred FROM student ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.DeptName, &s.TotCred); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, &s)
	}
	return students, rows.Err()
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM student WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
