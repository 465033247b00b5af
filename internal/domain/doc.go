// Package domain models the records of a personal fishing log.
//
// # Collections
//
// Four independent collections are persisted locally, each as a JSON array
// under its own storage key:
//
//	gear     rods, reels and terminal tackle
//	spots    geocoded fishing locations
//	outings  diary entries linking a date to a spot and the gear used
//	catches  caught specimens with species and optional weight
//
// Insertion order carries no meaning in itself. Readers that need an order
// re-sort by date; tie-breaks fall back to collection position, which the
// store preserves verbatim because it saves the whole array.
//
// # References
//
// Outing.SpotID and Outing.GearIDs point into the spot and gear collections.
// They may dangle: deleting a spot or a piece of gear never rewrites the
// outings that reference it. Every reader must treat a missing target as
// "deleted" rather than failing.
//
// # Dates
//
// Outing and catch dates are calendar dates ([Date]) serialised as
// "YYYY-MM-DD". Decoding also accepts RFC 3339 timestamps written by older
// exports; the calendar fields are taken as written, with no timezone
// conversion.
//
// # Identifiers
//
// Identifiers are opaque strings generated at creation time by [NewID]. They
// are unique within one local store; global uniqueness is not required.
package domain
