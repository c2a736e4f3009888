// Package summary computes the monthly dashboard figures from a persons and
// payments snapshot. Pure computation, no storage access.
package summary

import "github.com/oqba26/monthlypay/internal/models"

// PersonStatus is one person's paid/unpaid state for the selected period.
type PersonStatus struct {
	ID            string
	Name          string
	PaidThisMonth bool
}

// Dashboard aggregates the collection state for one Shamsi period.
type Dashboard struct {
	PaidCount      int
	TotalPersons   int
	TotalCollected float64
	// Progress is PaidCount/TotalPersons in [0,1]; 0 when there are no persons.
	Progress float64
	Persons  []PersonStatus
}

// ForPeriod computes the dashboard for the given Shamsi year and month.
//
// A person counts as paid when at least one payment for the period carries
// their id; duplicate payments for the same period count once for progress
// but every amount is included in the total, matching how the records are
// stored (the period-uniqueness rule is enforced at entry, not in storage).
func ForPeriod(persons []models.Person, payments []models.PaymentRecord, year, month int) Dashboard {
	paidBy := make(map[string]bool)
	total := 0.0
	for _, rec := range payments {
		if rec.ShamsiYear != year || rec.ShamsiMonth != month {
			continue
		}
		paidBy[rec.PersonID] = true
		total += rec.Amount
	}

	statuses := make([]PersonStatus, 0, len(persons))
	paidCount := 0
	for _, p := range persons {
		paid := paidBy[p.ID]
		if paid {
			paidCount++
		}
		statuses = append(statuses, PersonStatus{ID: p.ID, Name: p.Name, PaidThisMonth: paid})
	}

	progress := 0.0
	if len(persons) > 0 {
		progress = float64(paidCount) / float64(len(persons))
	}

	return Dashboard{
		PaidCount:      paidCount,
		TotalPersons:   len(persons),
		TotalCollected: total,
		Progress:       progress,
		Persons:        statuses,
	}
}
