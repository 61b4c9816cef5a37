package store

import (
	"context"
	"errors"

	"go-chart-dashboard/internal/model"
)

// ErrNotFound reports that no snapshot exists under the requested key
var ErrNotFound = errors.New("store: snapshot not found")

// SnapshotStore is the key-value gateway dashboard state persists through.
// Load self-heals: a stored blob that no longer parses is deleted and
// reported as ErrNotFound, so a corrupt snapshot can never wedge a session.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*model.Snapshot, error)
	Save(ctx context.Context, key string, snap *model.Snapshot) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SnapshotKey returns the fixed per-user key snapshots live under
func SnapshotKey(user string) string {
	return "dashboard:" + user
}
