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

// SectionKey identifies one section offering.
type SectionKey struct {
	CourseID string
	SecID    string
	Semester string
	Year     int
}

// SectionRepository defines data access for section offerings.
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	Get(ctx context.Context, key SectionKey) (*models.Section, error)
	List(ctx context.Context, semester string, year int) ([]*models.Section, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Section, error)
	EnrolledCount(ctx context.Context, key SectionKey) (int, error)
	RoomOccupied(ctx context.Context, semester string, year int, building, roomNumber, timeSlotID string) (bool, error)
	TeacherOccupied(ctx context.Context, semester string, year int, teacherID, timeSlotID string) (bool, error)
	AssignTeacher(ctx context.Context, key SectionKey, teacherID string) error
	Delete(ctx context.Context, key SectionKey) error
}

type sectionRepository struct {
	db *database.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *database.DB) SectionRepository {
	return &sectionRepository{db: db}
}

const sectionColumns = `course_id, sec_id, semester, year, building, room_number, capacity, time_slot_id, teacher_id`

func (r *sectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO section (` + sectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		section.CourseID, section.SecID, section.Semester, section.Year,
		section.Building, section.RoomNumber, section.Capacity,
		section.TimeSlotID, section.TeacherID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (r *sectionRepository) Get(ctx context.Context, key SectionKey) (*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM section
		WHERE course_id = $1 AND sec_id = $2 AND semester = $3 AND year = $4`

	section, err := scanSection(r.db.QueryRow(ctx, query, key.CourseID, key.SecID, key.Semester, key.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return section, nil
}

func (r *sectionRepository) List(ctx context.Context, semester string, year int) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM section
		WHERE semester = $1 AND year = $2
		ORDER BY course_id, sec_id`
	return r.scanSections(ctx, query, semester, year)
}

func (r *sectionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM section
		WHERE teacher_id = $1
		ORDER BY year DESC, semester, course_id, sec_id`
	return r.scanSections(ctx, query, teacherID)
}

func (r *sectionRepository) scanSections(ctx context.Context, query string, args ...any) ([]*models.Section, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (r *sectionRepository) EnrolledCount(ctx context.Context, key SectionKey) (int, error) {
	query := `
		SELECT count(*)
		FROM takes
		WHERE course_id = $1 AND sec_id = $2 AND semester = $3 AND year = $4`

	var count int
	err := r.db.QueryRow(ctx, query, key.CourseID, key.SecID, key.Semester, key.Year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollment: %w", err)
	}
	return count, nil
}

// RoomOccupied reports whether another section already meets in the
// given room at the given time slot in that term.
func (r *sectionRepository) RoomOccupied(ctx context.Context, semester string, year int, building, roomNumber, timeSlotID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM section
			WHERE semester = $1 AND year = $2
			  AND building = $3 AND room_number = $4 AND time_slot_id = $5
		)`

	var occupied bool
	err := r.db.QueryRow(ctx, query, semester, year, building, roomNumber, timeSlotID).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("failed to check room: %w", err)
	}
	return occupied, nil
}

// TeacherOccupied reports whether the teacher already has a section at
// the given time slot in that term.
func (r *sectionRepository) TeacherOccupied(ctx context.Context, semester string, year int, teacherID, timeSlotID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM section
			WHERE semester = $1 AND year = $2
			  AND teacher_id = $3 AND time_slot_id = $4
		)`

	var occupied bool
	err := r.db.QueryRow(ctx, query, semester, year, teacherID, timeSlotID).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("failed to check teacher schedule: %w", err)
	}
	return occupied, nil
}

// AssignTeacher records the instructor in both section and teaches so
// ad-hoc questions over either table agree.
func (r *sectionRepository) AssignTeacher(ctx context.Context, key SectionKey, teacherID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE section SET teacher_id = $5
		WHERE course_id = $1 AND sec_id = $2 AND semester = $3 AND year = $4`,
		key.CourseID, key.SecID, key.Semester, key.Year, teacherID)
	if err != nil {
		return fmt.Errorf("failed to assign teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO teaches (id, course_id, sec_id, semester, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		teacherID, key.CourseID, key.SecID, key.Semester, key.Year)
	if err != nil {
		return fmt.Errorf("failed to record teaches row: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *sectionRepository) Delete(ctx context.Context, key SectionKey) error {
	query := `
		DELETE FROM section
		WHERE course_id = $1 AND sec_id = $2 AND semester = $3 AND year = $4`

	tag, err := r.db.Exec(ctx, query, key.CourseID, key.SecID, key.Semester, key.Year)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanSection(row pgx.Row) (*models.Section, error) {
	var s models.Section
	err := row.Scan(
		&s.CourseID, &s.SecID, &s.Semester, &s.Year,
		&s.Building, &s.RoomNumber, &s.Capacity,
		&s.TimeSlotID, &s.TeacherID,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
