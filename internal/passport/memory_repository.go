package passport

import (
	"context"
	"errors"
	"sync"
)

type memoryDirectory struct {
	mu        sync.RWMutex
	passports map[string]Passport // keyed by code
}

// NewMemoryDirectory builds an in-memory passport directory for testing
// and dev mode.
func NewMemoryDirectory() Directory {
	return &memoryDirectory{passports: make(map[string]Passport)}
}

func (d *memoryDirectory) Create(_ context.Context, p Passport) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.passports[p.Code]; exists {
		return errors.New("passport code already issued")
	}
	d.passports[p.Code] = p.Clone()
	return nil
}

func (d *memoryDirectory) FindByCode(_ context.Context, code string) (Passport, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.passports[code]
	if !ok {
		return Passport{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (d *memoryDirectory) Get(_ context.Context, id string) (Passport, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.passports {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return Passport{}, ErrNotFound
}

func (d *memoryDirectory) UpdateCompletions(_ context.Context, id string, completions []Completion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for code, p := range d.passports {
		if p.ID == id {
			p.Completions = make([]Completion, len(completions))
			copy(p.Completions, completions)
			d.passports[code] = p
			return nil
		}
	}
	return ErrNotFound
}
