package source

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

// IDSequence hands out transaction ids for synthetic streams.
type IDSequence struct {
	current domain.TransactionID
}

// NewIDSequence starts a sequence at start.
func NewIDSequence(start domain.TransactionID) *IDSequence {
	return &IDSequence{current: start}
}

// Current returns the id that the next record will use.
func (s *IDSequence) Current() domain.TransactionID {
	return s.current
}

// Advance moves to the next id.
func (s *IDSequence) Advance() {
	s.current++
}

// MaxGeneratorAmount is the largest MaxAmount a generator honours. Larger
// values are clamped so the amount in 1e-4 units fits an int64.
var MaxGeneratorAmount = decimal.New(1, 14)

// GeneratorConfig controls the shape of a synthetic stream.
type GeneratorConfig struct {
	Count   int    // number of records to produce
	Seed    uint64 // same seed, same stream
	Clients int    // client ids are drawn from [1, Clients]
	// AdvancePercent is the chance that the id moves on after a record.
	// Reusing ids makes disputes and duplicates likely.
	AdvancePercent int
	MaxAmount      decimal.Decimal
}

// GeneratorSource produces a bounded, reproducible random stream of records.
type GeneratorSource struct {
	cfg       GeneratorConfig
	rng       *rand.Rand
	ids       *IDSequence
	remaining int
	// amount granularity is 1e-4; maxUnits is MaxAmount in those units
	maxUnits int64
}

// NewGeneratorSource creates a generator drawing ids from ids.
func NewGeneratorSource(cfg GeneratorConfig, ids *IDSequence) *GeneratorSource {
	if cfg.Clients <= 0 {
		cfg.Clients = 1000
	}
	if cfg.Clients > int(^uint16(0)) {
		cfg.Clients = int(^uint16(0))
	}
	if cfg.AdvancePercent <= 0 {
		cfg.AdvancePercent = 30
	}
	if cfg.MaxAmount.LessThanOrEqual(decimal.Zero) {
		cfg.MaxAmount = decimal.NewFromInt(1000)
	}
	if cfg.MaxAmount.GreaterThan(MaxGeneratorAmount) {
		cfg.MaxAmount = MaxGeneratorAmount
	}
	if ids == nil {
		ids = NewIDSequence(1)
	}

	return &GeneratorSource{
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		ids:       ids,
		remaining: cfg.Count,
		maxUnits:  cfg.MaxAmount.Shift(domain.SnapshotPrecision).IntPart(),
	}
}

// Next returns the next synthetic record, or io.EOF after Count records.
func (g *GeneratorSource) Next(ctx context.Context) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}
	if g.remaining <= 0 {
		return domain.Transaction{}, io.EOF
	}
	g.remaining--

	kind := domain.AllKinds[g.rng.IntN(len(domain.AllKinds))]
	tx := domain.Transaction{
		Kind:     kind,
		ClientID: domain.ClientID(g.rng.IntN(g.cfg.Clients) + 1),
		ID:       g.ids.Current(),
		Amount:   decimal.Zero,
	}
	if kind.IsPrimitive() {
		tx.Amount = decimal.New(g.rng.Int64N(g.maxUnits+1), -domain.SnapshotPrecision)
	}

	if g.rng.IntN(100) < g.cfg.AdvancePercent {
		g.ids.Advance()
	}

	return tx, nil
}
