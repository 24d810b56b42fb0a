package medication

import (
	"reflect"
	"testing"

	"github.com/carebridge/hospital-api/internal/domain"
)

func activeMed(drug string) *domain.Medication {
	return &domain.Medication{DrugName: drug, Status: domain.MedicationActive}
}

func TestConflictChecker_Evaluate(t *testing.T) {
	checker := NewConflictChecker(DefaultInteractionTable())

	tests := []struct {
		name      string
		candidate string
		allergies []*domain.Allergy
		current   []*domain.Medication
		want      []string
	}{
		{
			name:      "clean candidate",
			candidate: "Amoxicillin",
			allergies: []*domain.Allergy{{Substance: "Penicillin"}},
			current:   []*domain.Medication{activeMed("Lisinopril")},
			want:      nil,
		},
		{
			name:      "allergy match is case-insensitive",
			candidate: "penicillin",
			allergies: []*domain.Allergy{{Substance: "Penicillin"}},
			want:      []string{"Allergy conflict: patient is allergic to Penicillin"},
		},
		{
			name:      "interaction with active medication",
			candidate: "Aspirin",
			current:   []*domain.Medication{activeMed("Warfarin")},
			want:      []string{"Interaction conflict: Warfarin interacts with Aspirin"},
		},
		{
			name:      "interaction lookup is symmetric",
			candidate: "Warfarin",
			current:   []*domain.Medication{activeMed("Aspirin")},
			want:      []string{"Interaction conflict: Aspirin interacts with Warfarin"},
		},
		{
			name:      "duplicate of active medication",
			candidate: "metformin",
			current:   []*domain.Medication{activeMed("Metformin")},
			want:      []string{"Duplicate prescription: Metformin already prescribed"},
		},
		{
			name:      "stopped medication does not count",
			candidate: "Aspirin",
			current: []*domain.Medication{
				{DrugName: "Warfarin", Status: domain.MedicationStopped},
				{DrugName: "Aspirin", Status: domain.MedicationCompleted},
			},
			want: nil,
		},
		{
			name:      "all checks accumulate",
			candidate: "Warfarin",
			allergies: []*domain.Allergy{{Substance: "Warfarin"}},
			current: []*domain.Medication{
				activeMed("Aspirin"),
				activeMed("Warfarin"),
			},
			want: []string{
				"Allergy conflict: patient is allergic to Warfarin",
				"Interaction conflict: Aspirin interacts with Warfarin",
				"Duplicate prescription: Warfarin already prescribed",
			},
		},
		{
			name:      "whitespace trimmed before comparison",
			candidate: "  Penicillin  ",
			allergies: []*domain.Allergy{{Substance: "Penicillin"}},
			want:      []string{"Allergy conflict: patient is allergic to Penicillin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.Evaluate(tt.candidate, tt.allergies, tt.current)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStaticInteractionTable(t *testing.T) {
	table := NewStaticInteractionTable()
	table.Add("DrugA", "DrugB", "test interaction")

	if _, found := table.Interaction("druga", "DRUGB"); !found {
		t.Error("lookup should be case-insensitive")
	}
	if _, found := table.Interaction("DrugB", "DrugA"); !found {
		t.Error("lookup should be symmetric")
	}
	if _, found := table.Interaction("DrugA", "DrugC"); found {
		t.Error("unknown pair should not match")
	}
}
