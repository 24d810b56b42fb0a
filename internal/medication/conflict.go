package medication

import (
	"fmt"
	"strings"

	"github.com/carebridge/hospital-api/internal/domain"
)

// ConflictChecker evaluates a candidate prescription against a
// patient's allergies and current medications.
type ConflictChecker struct {
	interactions InteractionTable
}

// NewConflictChecker creates a conflict checker backed by the given
// interaction table.
func NewConflictChecker(interactions InteractionTable) *ConflictChecker {
	return &ConflictChecker{interactions: interactions}
}

// Evaluate runs the allergy, interaction and duplicate checks in order
// and returns every triggered message. Checks are not short-circuited;
// a candidate can accumulate messages from all three.
func (c *ConflictChecker) Evaluate(candidateDrug string, allergies []*domain.Allergy, current []*domain.Medication) []string {
	var messages []string

	for _, a := range allergies {
		if strings.EqualFold(strings.TrimSpace(candidateDrug), strings.TrimSpace(a.Substance)) {
			messages = append(messages, fmt.Sprintf("Allergy conflict: patient is allergic to %s", a.Substance))
		}
	}

	for _, m := range current {
		if !m.IsActive() {
			continue
		}
		if _, found := c.interactions.Interaction(m.DrugName, candidateDrug); found {
			messages = append(messages, fmt.Sprintf("Interaction conflict: %s interacts with %s", m.DrugName, candidateDrug))
		}
	}

	for _, m := range current {
		if !m.IsActive() {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(m.DrugName), strings.TrimSpace(candidateDrug)) {
			messages = append(messages, fmt.Sprintf("Duplicate prescription: %s already prescribed", m.DrugName))
		}
	}

	return messages
}
