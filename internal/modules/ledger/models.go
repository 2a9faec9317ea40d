// Package ledger maintains simulated holdings with a running cost basis.
package ledger

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidAmount is returned when a trade amount is zero, negative
	// or not a finite number.
	ErrInvalidAmount = errors.New("trade amount must be a positive finite number")

	// ErrInvalidPrice is returned when a trade price is negative or not
	// a finite number.
	ErrInvalidPrice = errors.New("trade price must be a non-negative finite number")

	// ErrInvalidSymbol is returned when a trade symbol is empty.
	ErrInvalidSymbol = errors.New("trade symbol must not be empty")

	// ErrInsufficientHoldings is returned when a sell exceeds the held
	// amount. The ledger is left unchanged.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

// zeroEpsilon is the tolerance below which a remaining amount is
// treated as fully sold and the position is removed.
const zeroEpsilon = 1e-9

// Position is a single asset holding. Amount and cost basis are both
// zero or both positive; zero positions are removed from the ledger
// rather than retained.
type Position struct {
	Symbol       string  `json:"symbol"`
	Amount       float64 `json:"amount"`
	CostBasisUSD float64 `json:"cost_basis_usd"`
}

// AvgCostUSD returns the average cost per unit, or 0 for an empty position.
func (p Position) AvgCostUSD() float64 {
	if p.Amount <= 0 {
		return 0
	}
	return p.CostBasisUSD / p.Amount
}

// Ledger maps uppercase symbols to positions. It is the single source
// of truth for holdings and is persisted whole after every mutation.
type Ledger map[string]Position

// NormalizeSymbol canonicalizes a user-supplied symbol to the ledger key form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get looks up a position by symbol, case-insensitively.
func (l Ledger) Get(symbol string) (Position, bool) {
	pos, ok := l[NormalizeSymbol(symbol)]
	return pos, ok
}

// Symbols returns the held symbols in sorted order.
func (l Ledger) Symbols() []string {
	symbols := make([]string, 0, len(l))
	for s := range l {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for s, p := range l {
		out[s] = p
	}
	return out
}

// TradeRecord is an executed simulated trade. Records live for the
// current session only; the durable state is the ledger itself.
type TradeRecord struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"` // "buy" or "sell"
	Amount     float64   `json:"amount"`
	PriceUSD   float64   `json:"price_usd"`
	TotalUSD   float64   `json:"total_usd"`
	ExecutedAt time.Time `json:"executed_at"`
}
