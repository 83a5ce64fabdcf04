package catalog

import (
	"context"
	"sync"
)

type memoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryCatalog builds an in-memory redemption catalog for testing
// and dev mode.
func NewMemoryCatalog() Catalog {
	return &memoryCatalog{entries: make(map[string]Entry)}
}

func (c *memoryCatalog) FindByCode(_ context.Context, code string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[code]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (c *memoryCatalog) Create(_ context.Context, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[entry.Code]; exists {
		return ErrCodeExists
	}
	c.entries[entry.Code] = entry
	return nil
}
