package history

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/coin-ticker/internal/model"
)

// Store inserts batches of samples.
type Store interface {
	// InsertSamples writes rows and reports how many were skipped as duplicates.
	InsertSamples(ctx context.Context, rows []model.PriceSample) (conflicts int, err error)
}

// PGStore writes samples to the price_samples table.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a Store backed by db.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const insertSampleSQL = `
	INSERT INTO price_samples (id, fetched_at, feed_updated, currency, rate, price, display, revision)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (currency, feed_updated) DO NOTHING
`

// InsertSamples inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (s *PGStore) InsertSamples(ctx context.Context, rows []model.PriceSample) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSampleSQL,
			r.ID, r.FetchedAt, r.FeedUpdated, r.Currency, r.Rate, r.Price, r.Display, int64(r.Revision),
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
