// Package ledger persists finalized orders to an append-only JSON document.
//
// The document is shared between independent processes (the agent and the
// HTTP API operate on the same file), so every append runs inside a critical
// section: an in-process mutex serializes goroutines and an advisory file
// lock serializes processes. The document itself is replaced atomically via
// a temp-file rename, so readers never observe a partial write and a failed
// write leaves the previous document intact.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const lockRetryDelay = 25 * time.Millisecond

// Ledger is a handle over one on-disk order document. It is an explicit
// resource passed to callers, not a singleton, so independent deployments
// and tests run in isolation.
type Ledger struct {
	path string
	log  *slog.Logger

	mu  sync.Mutex
	flk *flock.Flock
	sfg singleflight.Group
}

// Open returns a ledger over the document at path. The file does not need
// to exist yet; the first append creates it.
func Open(path string, log *slog.Logger) *Ledger {
	return &Ledger{
		path: path,
		log:  log,
		flk:  flock.New(path + ".lock"),
	}
}

// Path returns the location of the ledger document.
func (l *Ledger) Path() string {
	return l.path
}

// Append assigns an id and timestamp to the draft, persists it, and returns
// the finalized order. The read-append-rewrite runs as a single critical
// section held across both goroutines and processes.
func (l *Ledger) Append(ctx context.Context, draft Draft) (Order, error) {
	if len(draft.Items) == 0 {
		return Order{}, ErrEmptyDraft
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	locked, err := l.flk.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return Order{}, fmt.Errorf("%w: acquire lock: %v", ErrStore, err)
	}
	if !locked {
		return Order{}, fmt.Errorf("%w: lock not acquired", ErrStore)
	}
	defer func() {
		if errUnlock := l.flk.Unlock(); errUnlock != nil {
			l.log.Warn("ledger unlock failed", "path", l.path, "err", errUnlock)
		}
	}()

	orders, err := l.read()
	if err != nil {
		return Order{}, err
	}

	order := Order{
		ID:        newOrderID(orders),
		Items:     draft.Items,
		Total:     draft.Total,
		Currency:  draft.Currency,
		Customer:  draft.Customer,
		CreatedAt: time.Now().UTC(),
	}

	orders = append(orders, order)
	if err := l.write(orders); err != nil {
		return Order{}, err
	}

	return order, nil
}

// Latest returns the most recently appended order, or ErrNoOrders.
// Concurrent callers share a single disk read; the atomic-replace write
// protocol means no read-side lock is needed.
func (l *Ledger) Latest(ctx context.Context) (Order, error) {
	v, err, _ := l.sfg.Do("latest", func() (interface{}, error) {
		orders, err := l.read()
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, ErrNoOrders
		}
		return orders[len(orders)-1], nil
	})
	if err != nil {
		return Order{}, err
	}
	return v.(Order), nil
}

// Orders returns every order in the ledger in append order.
func (l *Ledger) Orders(ctx context.Context) ([]Order, error) {
	return l.read()
}

func (l *Ledger) read() ([]Order, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStore, l.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		// A corrupt ledger is a resource error, never silently discarded.
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStore, l.path, err)
	}
	return orders, nil
}

// write replaces the live document atomically: marshal, write a sibling temp
// file, fsync, rename. The live file is never truncated in place.
func (l *Ledger) write(orders []Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode orders: %v", ErrStore, err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStore, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: write temp file: %v", ErrStore, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: sync temp file: %v", ErrStore, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", ErrStore, err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrStore, l.path, err)
	}
	return nil
}

// newOrderID mints an id from a high-resolution timestamp plus a random
// suffix, then double-checks it against the document just read. Wall-clock
// time alone is not unique under sub-second concurrency.
func newOrderID(existing []Order) string {
	taken := make(map[string]struct{}, len(existing))
	for _, o := range existing {
		taken[o.ID] = struct{}{}
	}
	for {
		id := fmt.Sprintf("ORD-%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}
