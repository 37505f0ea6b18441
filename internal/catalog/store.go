package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotLoaded = errors.New("catalog not loaded")

type Product struct {
	InternalCode string          `json:"internal_code"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
}

// Snapshot is the complete product list in effect at a point in time.
// It must not be modified once handed to a Store.
type Snapshot struct {
	Products []Product `json:"products"`
	Company  string    `json:"company"`
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}

var emptySnapshot = &Snapshot{Products: []Product{}}

// Store holds the current snapshot. Readers never block; Replace swaps the
// whole snapshot at once.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Current never returns nil. Before the first Replace it returns an empty
// snapshot with no version.
func (s *Store) Current() *Snapshot {
	if snap := s.cur.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.cur.Store(snap)
}

func (s *Store) Loaded() bool {
	return s.cur.Load() != nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Loaded() {
		return ErrNotLoaded
	}
	return nil
}
