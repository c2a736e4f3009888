package models

// Snapshot is the complete ordered persons+payments state at one instant.
// It is both the backup file payload and the unit handed to the
// reconciliation engine during a full resync.
type Snapshot struct {
	Persons  []Person        `json:"persons"`
	Payments []PaymentRecord `json:"payments"`
}
