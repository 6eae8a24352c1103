// Package model defines data types shared between the ticker and its sinks.
//
// Conventions:
//   - Timestamps we produce: int64 microseconds since Unix epoch
//   - Timestamps from the feed: kept verbatim as strings
//   - IDs: uuid.UUID
package model
