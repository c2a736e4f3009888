// Package models defines the core domain models for monthlypay.
//
// # Models
//
//   - Person: a named party owing a monthly payment
//   - PaymentRecord: a single payment made by a person for a Shamsi period
//   - Snapshot: the full persons+payments state at one instant, used as both
//     the backup payload and the unit exchanged during a full resync
//
// # Design Principles
//
// 1. **String ids**: all ids are opaque UUID strings, generated when absent
// 2. **Avoid circular references**: relationships use id strings, not pointers
// 3. **Wire-stable JSON**: field tags match the backup and remote API formats,
// so a model round-trips through either without a mapping layer
package models
