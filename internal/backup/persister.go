package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/storage"
)

// SlotPersister reads and writes the ledger under a single storage key.
type SlotPersister struct {
	slot   storage.Slot
	key    string
	locale locale.Locale
	seed   bool
	logger *slog.Logger
}

// NewSlotPersister binds a slot and key. With seed set, an empty slot loads
// the example ledger of loc; otherwise it loads an empty ledger.
func NewSlotPersister(slot storage.Slot, key string, loc locale.Locale, seed bool, logger *slog.Logger) *SlotPersister {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = loc.StorageKey
	}
	return &SlotPersister{slot: slot, key: key, locale: loc, seed: seed, logger: logger}
}

func (p *SlotPersister) Key() string { return p.key }

// Load returns the stored ledger. An empty slot yields the seed. A payload
// that cannot be read or decoded is an error; the caller decides whether to
// start over.
func (p *SlotPersister) Load(ctx context.Context) (core.FinanceData, error) {
	raw, err := p.slot.Read(ctx, p.key)
	if errors.Is(err, storage.ErrSlotEmpty) {
		p.logger.InfoContext(ctx, "Storage slot empty, starting fresh", "key", p.key, "seed", p.seed)
		if p.seed {
			return Seed(p.locale), nil
		}
		return core.NewFinanceData(), nil
	}
	if err != nil {
		return core.FinanceData{}, err
	}

	data, err := Decode(raw)
	if err != nil {
		return core.FinanceData{}, fmt.Errorf("%w: decode slot %q: %w", storage.ErrRead, p.key, err)
	}
	return data, nil
}

// Save overwrites the slot with data.
func (p *SlotPersister) Save(ctx context.Context, data core.FinanceData) error {
	raw, err := Encode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}
	return p.slot.Write(ctx, p.key, raw)
}
