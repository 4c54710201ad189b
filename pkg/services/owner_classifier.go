package services

import (
	"context"

	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// StoreOwnerClassifier answers instructor-affiliation from the
// instructor table. This is the production classifier: it stays correct
// when identifier conventions change, unlike prefix matching.
type StoreOwnerClassifier struct {
	instructors repositories.InstructorRepository
}

// NewStoreOwnerClassifier creates a classifier backed by the store.
func NewStoreOwnerClassifier(instructors repositories.InstructorRepository) *StoreOwnerClassifier {
	return &StoreOwnerClassifier{instructors: instructors}
}

// IsInstructorID implements OwnerClassifier.
func (c *StoreOwnerClassifier) IsInstructorID(ctx context.Context, id string) (bool, error) {
	return c.instructors.Exists(ctx, id)
}
