// Package categories keeps the shared, user-extensible list of expense categories.
package categories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
)

// Defaults seed every new registry.
var Defaults = []string{"Fuel Purchase", "Maintenance", "Utilities", "Salaries", "Rent", "Other"}

// Store persists category names.
type Store interface {
	ListCategories(ctx context.Context) ([]string, error)
	SaveCategory(ctx context.Context, name string) error
}

// Registry is an ordered set of category names shared by every component that
// needs it. Changes are broadcast to subscribers.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	seen    map[string]struct{}
	subs    map[int]chan []string
	nextSub int

	store  Store
	logger *zap.Logger
}

// NewRegistry builds a registry holding the defaults. store may be nil for an in-memory registry.
func NewRegistry(store Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		seen:   make(map[string]struct{}),
		subs:   make(map[int]chan []string),
		store:  store,
		logger: logger,
	}
	for _, name := range Defaults {
		r.insert(name)
	}
	return r
}

// Load merges the persisted categories into the registry.
func (r *Registry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	names, err := r.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	r.mu.Lock()
	changed := false
	for _, name := range names {
		if r.insert(strings.TrimSpace(name)) {
			changed = true
		}
	}
	if changed {
		r.broadcast()
	}
	count := len(r.names)
	r.mu.Unlock()

	r.logger.Debug("categories loaded", zap.Int("count", count))
	return nil
}

// List returns the categories in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// Add registers name, persisting it first. It reports whether the name was new.
func (r *Registry) Add(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("category name is required: %w", models.ErrValidation)
	}

	r.mu.RLock()
	_, exists := r.seen[name]
	r.mu.RUnlock()
	if exists {
		return false, nil
	}

	if r.store != nil {
		if err := r.store.SaveCategory(ctx, name); err != nil {
			return false, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	added := r.insert(name)
	if added {
		r.broadcast()
	}
	return added, nil
}

// Subscribe returns a channel receiving the full category list after every
// change. Slow subscribers only see the latest list. Call cancel to stop.
func (r *Registry) Subscribe() (<-chan []string, func()) {
	ch := make(chan []string, 1)

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			close(ch)
			r.mu.Unlock()
		})
	}
	return ch, cancel
}

func (r *Registry) insert(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := r.seen[name]; ok {
		return false
	}
	r.seen[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

func (r *Registry) snapshot() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// broadcast sends the current list to every subscriber. r.mu must be held.
func (r *Registry) broadcast() {
	for _, ch := range r.subs {
		names := r.snapshot()
		select {
		case <-ch:
		default:
		}
		ch <- names
	}
}
