package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-registry/registry-engine/pkg/models"
)

type stubClassifier struct {
	instructors map[string]bool
	calls       int
}

func (s *stubClassifier) IsInstructorID(_ context.Context, id string) (bool, error) {
	s.calls++
	return s.instructors[id], nil
}

func newTestFilter(instructors ...string) (*RowFilter, *stubClassifier) {
	set := make(map[string]bool, len(instructors))
	for _, id := range instructors {
		set[id] = true
	}
	classifier := &stubClassifier{instructors: set}
	return NewRowFilter(DefaultOwnershipRegistry(), classifier), classifier
}

func TestRowFilterAdminPassesEverything(t *testing.T) {
	filter, _ := newTestFilter("T100")
	rows := []map[string]any{
		{"ID": "S001", "name": "Ada"},
		{"ID": "T100", "salary": 90000},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleAdmin, "admin")
	require.NoError(t, err)
	assert.Equal(t, rows, out)
}

func TestRowFilterStudentKeepsOnlyOwnRows(t *testing.T) {
	filter, _ := newTestFilter()
	rows := []map[string]any{
		{"ID": "S001", "course_id": "CS-101"},
		{"ID": "S002", "course_id": "CS-101"},
		{"s_ID": "S001", "i_ID": "T100"},
		{"s_ID": "S003", "i_ID": "T100"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleStudent, "S001")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "S001", out[0]["ID"])
	assert.Equal(t, "S001", out[1]["s_ID"])
}

func TestRowFilterTeacherNarrowsSectionsByAssignedInstructor(t *testing.T) {
	filter, classifier := newTestFilter()
	rows := []map[string]any{
		{"course_id": "CS-101", "sec_id": "1", "teacher_id": "T100"},
		{"course_id": "CS-101", "sec_id": "2", "teacher_id": "T200"},
		{"course_id": "PHY-101", "sec_id": "1"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleTeacher, "T100")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "T100", out[0]["teacher_id"])
	assert.Equal(t, "PHY-101", out[1]["course_id"])
	// teacher_id is instructor-owned by registration; no value
	// classification needed.
	assert.Zero(t, classifier.calls)
}

func TestRowFilterStudentIgnoresAssignedInstructorColumn(t *testing.T) {
	filter, _ := newTestFilter()
	rows := []map[string]any{
		{"course_id": "CS-101", "sec_id": "1", "teacher_id": "T100"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleStudent, "S001")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRowFilterTeacherNarrowsInstructorRows(t *testing.T) {
	filter, classifier := newTestFilter("T100", "T200")
	rows := []map[string]any{
		{"ID": "T100", "dept_name": "Comp. Sci."},
		{"ID": "T200", "dept_name": "Physics"},
		{"ID": "S001", "tot_cred": 30}, // student row, visible to teachers
		{"i_ID": "T200", "s_ID": "S002"},
		{"i_ID": "T100", "s_ID": "S003"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleTeacher, "T100")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "T100", out[0]["ID"])
	assert.Equal(t, "S001", out[1]["ID"])
	assert.Equal(t, "T100", out[2]["i_ID"])

	// One classification per distinct generic id, not per row.
	assert.Equal(t, 3, classifier.calls)
}

func TestRowFilterRowsWithoutIdentityColumnsPass(t *testing.T) {
	filter, _ := newTestFilter()
	rows := []map[string]any{
		{"dept_name": "Comp. Sci.", "building": "Taylor"},
		{"course_id": "CS-101", "title": "Intro"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleStudent, "S001")
	require.NoError(t, err)
	assert.Equal(t, rows, out)
}

func TestRowFilterIgnoresNonStringIdentifiers(t *testing.T) {
	filter, _ := newTestFilter()
	rows := []map[string]any{
		{"ID": 42, "name": "numeric id"},
	}

	out, err := filter.Filter(context.Background(), rows, models.RoleStudent, "S001")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRowFilterIsIdempotent(t *testing.T) {
	filter, _ := newTestFilter("T100")
	rows := []map[string]any{
		{"ID": "T100"},
		{"ID": "T999"},
		{"ID": "S001"},
	}

	once, err := filter.Filter(context.Background(), rows, models.RoleTeacher, "T100")
	require.NoError(t, err)
	twice, err := filter.Filter(context.Background(), once, models.RoleTeacher, "T100")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPrefixOwnerClassifier(t *testing.T) {
	classifier := &PrefixOwnerClassifier{Prefix: "T"}

	isInstructor, err := classifier.IsInstructorID(context.Background(), "T100")
	require.NoError(t, err)
	assert.True(t, isInstructor)

	isInstructor, err = classifier.IsInstructorID(context.Background(), "S001")
	require.NoError(t, err)
	assert.False(t, isInstructor)
}
