// Package history persists committed price readings.
//
// The Writer observes ticker frames, turns each new revision into a
// model.PriceSample and batch-inserts samples into PostgreSQL. Inserts are
// append-only; a sample whose (currency, feed_updated) pair is already stored
// counts as a conflict and is skipped.
package history
