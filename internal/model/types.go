package model

import "github.com/google/uuid"

// PriceSample is one committed feed reading, as persisted by the history writer.
type PriceSample struct {
	ID          uuid.UUID // Primary key, generated locally
	FetchedAt   int64     // Local commit time (µs since epoch)
	FeedUpdated string    // Feed's time.updated, verbatim
	Currency    string    // bpi code, e.g. "USD"
	Rate        string    // Raw rate string, e.g. "45,983.3647"
	Price       float64   // Parsed rate
	Display     string    // Zero-padded display digits, e.g. "00045983"
	Revision    uint64    // Ticker revision that produced the sample
}
