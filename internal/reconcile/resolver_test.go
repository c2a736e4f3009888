package reconcile

import (
	"testing"

	"github.com/oqba26/monthlypay/internal/models"
)

func TestResolveID(t *testing.T) {
	current := map[string]models.Person{
		"ali":  {ID: "a", Name: "Ali"},
		"sara": {ID: "s", Name: "Sara"},
	}

	tests := []struct {
		name      string
		candidate models.Person
		wantID    string
		wantFresh bool
	}{
		{
			name:      "supplied id wins verbatim",
			candidate: models.Person{ID: "x", Name: "Ali"},
			wantID:    "x",
		},
		{
			name:      "blank id matches by normalized name",
			candidate: models.Person{ID: "", Name: " ali "},
			wantID:    "a",
		},
		{
			name:      "whitespace id counts as blank",
			candidate: models.Person{ID: "   ", Name: "Sara"},
			wantID:    "s",
		},
		{
			name:      "case-insensitive match",
			candidate: models.Person{ID: "", Name: "SARA"},
			wantID:    "s",
		},
		{
			name:      "no match generates fresh id",
			candidate: models.Person{ID: "", Name: "NewPerson"},
			wantFresh: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveID(tt.candidate, current)
			if tt.wantFresh {
				if got == "" {
					t.Fatal("Expected a generated id, got empty")
				}
				for _, p := range current {
					if got == p.ID {
						t.Fatalf("Generated id %q collides with existing person", got)
					}
				}
				return
			}
			if got != tt.wantID {
				t.Errorf("ResolveID() = %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestResolveIDUniqueAcrossCalls(t *testing.T) {
	candidate := models.Person{Name: "Nobody"}
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := ResolveID(candidate, nil)
		if seen[id] {
			t.Fatalf("Duplicate generated id %q", id)
		}
		seen[id] = true
	}
}

func TestIndexByName(t *testing.T) {
	persons := []models.Person{
		{ID: "1", Name: " Ali "},
		{ID: "2", Name: "ALI"}, // later duplicate must not displace the first
		{ID: "3", Name: "Sara"},
	}
	byName := indexByName(persons)

	if len(byName) != 2 {
		t.Fatalf("Expected 2 keys, got %d", len(byName))
	}
	if byName["ali"].ID != "1" {
		t.Errorf("Expected first duplicate to win, got %q", byName["ali"].ID)
	}
	if byName["sara"].ID != "3" {
		t.Errorf("Missing sara entry")
	}
}
