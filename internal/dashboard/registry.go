package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-chart-dashboard/internal/store"
)

// ErrNoSession reports an unknown or torn-down session token
var ErrNoSession = errors.New("dashboard: no such session")

// session pairs a live controller with the snapshot key it persists under
type session struct {
	ctrl *Controller
	key  string
	user string
}

// Registry tracks live sessions by bearer token. Login is the only moment a
// snapshot is read; logout is a hard reset that also deletes the persisted
// snapshot rather than saving it.
type Registry struct {
	mu       sync.Mutex
	gateway  store.SnapshotStore
	quiet    time.Duration
	sessions map[string]*session
}

// NewRegistry wires a registry to the snapshot gateway. quiet is the
// debounce period handed to each controller; 0 means the default.
func NewRegistry(gateway store.SnapshotStore, quiet time.Duration) *Registry {
	return &Registry{
		gateway:  gateway,
		quiet:    quiet,
		sessions: make(map[string]*session),
	}
}

// Login opens a session for user and performs that session's single
// snapshot read. Returns the bearer token and whether a snapshot was
// restored. A failed read is logged and the session starts clean; nothing
// at login is allowed to be fatal.
func (r *Registry) Login(ctx context.Context, user string) (string, bool) {
	key := store.SnapshotKey(user)
	ctrl := NewController(r.gateway, key, r.quiet)

	restored := false
	snap, err := r.gateway.Load(ctx, key)
	switch {
	case err == nil:
		ctrl.ReplaceFromSnapshot(snap)
		restored = true
		fmt.Printf("🔄 Session: restored %d charts for %s from %q\n", len(snap.Charts), user, snap.FileName)
	case errors.Is(err, store.ErrNotFound):
		// first visit, or a corrupt snapshot the store already dropped
	default:
		fmt.Printf("❌ Session: snapshot read for %s failed: %v\n", user, err)
	}

	token := uuid.New().String()
	r.mu.Lock()
	r.sessions[token] = &session{ctrl: ctrl, key: key, user: user}
	r.mu.Unlock()

	fmt.Printf("✅ Session: %s logged in\n", user)
	return token, restored
}

// Controller resolves a bearer token to its live controller
func (r *Registry) Controller(token string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	return sess.ctrl, nil
}

// Logout tears the session down: cancels any pending write, forgets the
// in-memory state and deletes the persisted snapshot
func (r *Registry) Logout(ctx context.Context, token string) error {
	r.mu.Lock()
	sess, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()

	if !ok {
		return ErrNoSession
	}
	sess.ctrl.Close()
	if err := r.gateway.Delete(ctx, sess.key); err != nil {
		return fmt.Errorf("clear persisted dashboard: %w", err)
	}
	fmt.Printf("✅ Session: %s logged out, dashboard cleared\n", sess.user)
	return nil
}

// Close tears down every live session without touching persisted state,
// the shutdown path for the whole server
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, sess := range r.sessions {
		sess.ctrl.Close()
		delete(r.sessions, token)
	}
}
