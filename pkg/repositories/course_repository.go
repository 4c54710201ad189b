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

// CourseRepository defines data access for the course catalog.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Get(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Prerequisites(ctx context.Context, courseID string) ([]*models.Course, error)
	Delete(ctx context.Context, courseID string) error
}

type courseRepository struct {
	db *database.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *database.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO course (course_id, title, dept_name, credits)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, course.CourseID, course.Title, course.DeptName, course.Credits)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *courseRepository) Get(ctx context.Context, courseID string) (*models.Course, error) {
	query := `SELECT course_id, title, dept_name, credits FROM course WHERE course_id = $1`

	var c models.Course
	err := r.db.QueryRow(ctx, query, courseID).Scan(&c.CourseID, &c.Title, &c.DeptName, &c.Credits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT course_id, title, dept_name, credits FROM course ORDER BY course_id`
	return r.scanCourses(ctx, query)
}

// Prerequisites returns the courses required before taking courseID.
func (r *courseRepository) Prerequisites(ctx context.Context, courseID string) ([]*models.Course, error) {
	query := `
		SELECT c.course_id, c.title, c.dept_name, c.credits
		FROM prereq p
		JOIN course c ON c.course_id = p.prereq_id
		WHERE p.course_id = $1
		ORDER BY c.course_id`
	return r.scanCourses(ctx, query, courseID)
}

func (r *courseRepository) scanCourses(ctx context.Context, query string, args ...any) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.CourseID, &c.Title, &c.DeptName, &c.Credits); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Delete(ctx context.Context, courseID string) error {
	query := `DELETE FROM course WHERE course_id = $1`

	tag, err := r.db.Exec(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
