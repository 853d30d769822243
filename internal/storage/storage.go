// internal/storage/storage.go

// Package storage persists tick snapshots so funding and price
// history can be queried after the fact.
package storage

import (
	"context"

	"github.com/eldarkhamitov/levermon/internal/storage/models"
)

// Storage is the persistence interface used by the recorder.
type Storage interface {
	SavePoolSnapshot(ctx context.Context, s *models.PoolSnapshot) error
	SaveFundingSample(ctx context.Context, s *models.FundingSample) error
	SavePositionSnapshot(ctx context.Context, s *models.PositionSnapshot) error

	// LatestPoolSnapshots returns the newest row per tick for a pool,
	// most recent first.
	LatestPoolSnapshots(ctx context.Context, pool string, limit int) ([]*models.PoolSnapshot, error)

	RunMigrations() error
	Close() error
}
