// Package reconcile implements the atomic full-replace merge of the local
// store from an incoming persons+payments snapshot, with identity resolution
// by normalized name.
package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oqba26/monthlypay/internal/models"
)

// ResolveID decides the canonical id for an incoming person against the
// current local set, indexed by normalized name. Priority order:
//
//  1. A non-blank incoming id wins verbatim, so edits to an existing record
//     round-trip correctly.
//  2. A normalized-name match reuses the local person's id, so records that
//     lost their id upstream do not become duplicate rows.
//  3. Otherwise a fresh UUID.
//
// Total and side-effect free; it always returns a usable id.
func ResolveID(candidate models.Person, currentByName map[string]models.Person) string {
	if strings.TrimSpace(candidate.ID) != "" {
		return candidate.ID
	}
	if existing, ok := currentByName[models.NormalizeName(candidate.Name)]; ok {
		return existing.ID
	}
	return uuid.New().String()
}

// indexByName builds the normalized-name lookup used by ResolveID.
// When two current persons normalize to the same name the first one in
// store order wins; reconciliation collapses them on the next pass anyway.
func indexByName(persons []models.Person) map[string]models.Person {
	byName := make(map[string]models.Person, len(persons))
	for _, p := range persons {
		key := models.NormalizeName(p.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = p
		}
	}
	return byName
}
