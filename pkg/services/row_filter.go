package services

import (
	"context"
	"strings"

	"github.com/campus-registry/registry-engine/pkg/models"
)

// OwnerKind classifies an identity column for row-level filtering.
type OwnerKind int

const (
	// OwnerGeneric is a primary actor id whose affiliation (student or
	// instructor) must be resolved from the value.
	OwnerGeneric OwnerKind = iota
	// OwnerStudent is a foreign key naming the owning student (advisor.s_ID).
	OwnerStudent
	// OwnerInstructor is a foreign key naming the owning instructor (advisor.i_ID).
	OwnerInstructor
)

// OwnershipRegistry maps identity column names (lowercased) to their
// owner kind. Filtering only activates on registered columns: rows with
// no identity column pass through unchanged. The registry is built once
// at startup and read-only thereafter.
type OwnershipRegistry map[string]OwnerKind

// DefaultOwnershipRegistry covers the university schema's identity
// columns, including section.teacher_id, which names the assigned
// instructor.
func DefaultOwnershipRegistry() OwnershipRegistry {
	return OwnershipRegistry{
		"id":         OwnerGeneric,
		"s_id":       OwnerStudent,
		"i_id":       OwnerInstructor,
		"teacher_id": OwnerInstructor,
	}
}

// OwnerClassifier resolves whether a generic identifier belongs to an
// instructor. Generic id columns (student.ID, instructor.ID, takes.ID,
// teaches.ID) carry both populations, and the teacher role narrows only
// instructor-owned rows.
type OwnerClassifier interface {
	IsInstructorID(ctx context.Context, id string) (bool, error)
}

// PrefixOwnerClassifier classifies instructor ids by identifier prefix.
// This mirrors the seeded data convention (instructor ids start with
// "T") and serves as a fallback for stores without an instructor table;
// prefer StoreOwnerClassifier, which asks the store.
type PrefixOwnerClassifier struct {
	Prefix string
}

// IsInstructorID implements OwnerClassifier.
func (c *PrefixOwnerClassifier) IsInstructorID(_ context.Context, id string) (bool, error) {
	return strings.HasPrefix(id, c.Prefix), nil
}

// RowFilter is the post-execution defense layer. The static policy
// filter blocks which tables and columns may appear; this filter blocks
// which rows may be returned when the table itself is legitimately
// joint. Both must hold; neither alone is sufficient.
type RowFilter struct {
	registry   OwnershipRegistry
	classifier OwnerClassifier
}

// NewRowFilter creates a row filter over the given registry and classifier.
func NewRowFilter(registry OwnershipRegistry, classifier OwnerClassifier) *RowFilter {
	return &RowFilter{registry: registry, classifier: classifier}
}

// Filter drops rows outside the caller's authorization envelope,
// preserving input order. It is a no-op for admin and idempotent for
// every role.
//
//   - student: any registered identity column (generic or student-owned)
//     whose value differs from the caller's identity drops the row.
//   - teacher: rows are kept unless an instructor-owned column, or a
//     generic id column classified as an instructor id, names a
//     different instructor. Student-scoped rows pass through.
func (f *RowFilter) Filter(ctx context.Context, rows []map[string]any, role, username string) ([]map[string]any, error) {
	if strings.ToLower(role) == models.RoleAdmin {
		return rows, nil
	}

	roleLower := strings.ToLower(role)
	filtered := make([]map[string]any, 0, len(rows))

	// Classification results are cached per call: one lookup per
	// distinct id value, not per row.
	instructorIDs := make(map[string]bool)

	for _, row := range rows {
		keep := true

		for col, value := range row {
			kind, registered := f.registry[strings.ToLower(col)]
			if !registered {
				continue
			}

			// Only string identifiers participate; numeric ids are not
			// actor identities in this schema.
			id, isString := value.(string)
			if !isString {
				continue
			}

			switch roleLower {
			case models.RoleStudent:
				if (kind == OwnerGeneric || kind == OwnerStudent) && id != username {
					keep = false
				}

			case models.RoleTeacher:
				switch kind {
				case OwnerInstructor:
					if id != username {
						keep = false
					}
				case OwnerGeneric:
					isInstructor, cached := instructorIDs[id]
					if !cached {
						var err error
						isInstructor, err = f.classifier.IsInstructorID(ctx, id)
						if err != nil {
							return nil, err
						}
						instructorIDs[id] = isInstructor
					}
					if isInstructor && id != username {
						keep = false
					}
				}
			}

			if !keep {
				break
			}
		}

		if keep {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}
