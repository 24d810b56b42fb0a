package medication

import "strings"

// InteractionTable answers whether two drugs are a known interacting
// pair. Lookups are symmetric and case-insensitive. The table is
// injectable so the rule set can be extended without touching the
// conflict engine.
type InteractionTable interface {
	Interaction(drugA, drugB string) (description string, found bool)
}

// pairKey normalizes an unordered drug pair into a lookup key.
func pairKey(a, b string) string {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// StaticInteractionTable is an in-memory interaction table.
type StaticInteractionTable struct {
	pairs map[string]string
}

// NewStaticInteractionTable builds a table from explicit pairs.
func NewStaticInteractionTable() *StaticInteractionTable {
	return &StaticInteractionTable{pairs: make(map[string]string)}
}

// Add registers an interacting pair with a description.
func (t *StaticInteractionTable) Add(drugA, drugB, description string) {
	t.pairs[pairKey(drugA, drugB)] = description
}

// Interaction implements InteractionTable.
func (t *StaticInteractionTable) Interaction(drugA, drugB string) (string, bool) {
	desc, ok := t.pairs[pairKey(drugA, drugB)]
	return desc, ok
}

// DefaultInteractionTable returns a table seeded with well-known
// high-risk pairs. Deployments load the full rule set from reference
// data; this baseline keeps the engine safe out of the box.
func DefaultInteractionTable() *StaticInteractionTable {
	t := NewStaticInteractionTable()
	t.Add("Warfarin", "Aspirin", "increased bleeding risk")
	t.Add("Warfarin", "Ibuprofen", "increased bleeding risk")
	t.Add("Warfarin", "Amiodarone", "potentiated anticoagulation")
	t.Add("Lisinopril", "Spironolactone", "hyperkalemia risk")
	t.Add("Lisinopril", "Potassium Chloride", "hyperkalemia risk")
	t.Add("Methotrexate", "Trimethoprim", "bone marrow suppression")
	t.Add("Simvastatin", "Clarithromycin", "rhabdomyolysis risk")
	t.Add("Sildenafil", "Nitroglycerin", "severe hypotension")
	t.Add("Tramadol", "Sertraline", "serotonin syndrome risk")
	t.Add("Digoxin", "Amiodarone", "digoxin toxicity")
	return t
}
