package passport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryDirectoryRoundTrip(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	p := Passport{
		ID:         uuid.NewString(),
		Code:       "ALT001",
		HolderName: "Mario Rossi",
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := d.Create(ctx, p); err == nil {
		t.Fatalf("expected duplicate code rejection")
	}

	found, err := d.FindByCode(ctx, "ALT001")
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if found.ID != p.ID || found.HolderName != "Mario Rossi" {
		t.Fatalf("unexpected passport: %+v", found)
	}

	byID, err := d.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if byID.Code != "ALT001" {
		t.Fatalf("unexpected passport by id: %+v", byID)
	}

	if _, err := d.FindByCode(ctx, "ALT999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDirectoryUpdateCompletions(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	p := Passport{ID: uuid.NewString(), Code: "ALT001", HolderName: "Mario Rossi", CreatedAt: time.Now().UTC()}
	if err := d.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	completions := []Completion{{ActivityTitle: "Ciaspolata", Color: "#C0623D", CompletedAt: time.Now().UTC()}}
	if err := d.UpdateCompletions(ctx, p.ID, completions); err != nil {
		t.Fatalf("update: %v", err)
	}

	found, _ := d.FindByCode(ctx, "ALT001")
	if len(found.Completions) != 1 || found.Completions[0].ActivityTitle != "Ciaspolata" {
		t.Fatalf("unexpected completions: %+v", found.Completions)
	}

	// The stored list is replaced in full, not appended to.
	if err := d.UpdateCompletions(ctx, p.ID, nil); err != nil {
		t.Fatalf("replace with empty: %v", err)
	}
	found, _ = d.FindByCode(ctx, "ALT001")
	if len(found.Completions) != 0 {
		t.Fatalf("expected full replace, got %+v", found.Completions)
	}

	if err := d.UpdateCompletions(ctx, uuid.NewString(), completions); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestPassportHasAndClone(t *testing.T) {
	p := Passport{
		Completions: []Completion{{ActivityTitle: "Ciaspolata", Color: "#C0623D"}},
	}
	if !p.Has("Ciaspolata") {
		t.Fatalf("expected completion present")
	}
	if p.Has("Trekking") {
		t.Fatalf("unexpected completion")
	}

	clone := p.Clone()
	clone.Completions[0].Color = "#FFFFFF"
	if p.Completions[0].Color != "#C0623D" {
		t.Fatalf("clone must not share backing array")
	}
}
