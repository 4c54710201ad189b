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

// EnrollmentRepository defines data access for the takes table.
// Create and Delete carry the course's credit value so the takes row
// and the student's tot_cred change in the same transaction.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment, credits int) error
	Delete(ctx context.Context, enrollment *models.Enrollment, credits int) error
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListBySection(ctx context.Context, key SectionKey) ([]*models.Enrollment, error)
	HasTimeConflict(ctx context.Context, studentID string, key SectionKey) (bool, error)
}

type enrollmentRepository struct {
	db *database.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *database.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment, credits int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO takes (id, course_id, sec_id, semester, year, grade)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		enrollment.StudentID, enrollment.CourseID, enrollment.SecID,
		enrollment.Semester, enrollment.Year, enrollment.Grade)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	if err := r.adjustCredits(ctx, tx, enrollment.StudentID, credits); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *enrollmentRepository) Delete(ctx context.Context, enrollment *models.Enrollment, credits int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM takes
		WHERE id = $1 AND course_id = $2 AND sec_id = $3 AND semester = $4 AND year = $5`,
		enrollment.StudentID, enrollment.CourseID, enrollment.SecID,
		enrollment.Semester, enrollment.Year)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.adjustCredits(ctx, tx, enrollment.StudentID, -credits); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *enrollmentRepository) adjustCredits(ctx context.Context, tx pgx.Tx, studentID string, delta int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE student SET tot_cred = GREATEST(tot_cred + $2, 0)
		WHERE id = $1`,
		studentID, delta)
	if err != nil {
		return fmt.Errorf("failed to update credit total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: student %s", apperrors.ErrNotFound, studentID)
	}
	return nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	query := `
		SELECT id, course_id, sec_id, semester, year, grade
		FROM takes
		WHERE id = $1
		ORDER BY year DESC, semester, course_id`
	return r.scanEnrollments(ctx, query, studentID)
}

func (r *enrollmentRepository) ListBySection(ctx context.Context, key SectionKey) ([]*models.Enrollment, error) {
	query := `
		SELECT id, course_id, sec_id, semester, year, grade
		FROM takes
		WHERE course_id = $1 AND sec_id = $2 AND semester = $3 AND year = $4
		ORDER BY id`
	return r.scanEnrollments(ctx, query, key.CourseID, key.SecID, key.Semester, key.Year)
}

// HasTimeConflict reports whether the student is already enrolled in a
// section sharing the target section's time slot in the same term.
func (r *enrollmentRepository) HasTimeConflict(ctx context.Context, studentID string, key SectionKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM takes t
			JOIN section enrolled
			  ON enrolled.course_id = t.course_id
			 AND enrolled.sec_id = t.sec_id
			 AND enrolled.semester = t.semester
			 AND enrolled.year = t.year
			JOIN section target
			  ON target.course_id = $2 AND target.sec_id = $3
			 AND target.semester = $4 AND target.year = $5
			WHERE t.id = $1
			  AND t.semester = $4 AND t.year = $5
			  AND enrolled.time_slot_id IS NOT NULL
			  AND enrolled.time_slot_id = target.time_slot_id
		)`

	var conflict bool
	err := r.db.QueryRow(ctx, query,
		studentID, key.CourseID, key.SecID, key.Semester, key.Year).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule conflict: %w", err)
	}
	return conflict, nil
}

func (r *enrollmentRepository) scanEnrollments(ctx context.Context, query string, args ...any) ([]*models.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.StudentID, &e.CourseID, &e.SecID, &e.Semester, &e.Year, &e.Grade); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}
