package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier receives human-readable messages about executed trades.
type Notifier interface {
	Notify(message string)
}

// Service applies buy/sell operations to the ledger. Mutations are
// serialized by an in-process mutex and persisted write-through, so a
// trade is one atomic read-modify-write of the whole ledger.
type Service struct {
	repo     *Repository
	notifier Notifier

	mu     sync.Mutex
	ledger Ledger
	trades []TradeRecord

	log zerolog.Logger
}

// NewService creates the ledger service, loading persisted holdings.
func NewService(repo *Repository, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		ledger:   repo.Load(),
		log:      log.With().Str("service", "ledger").Logger(),
	}
}

// Holdings returns a copy of the current ledger.
func (s *Service) Holdings() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Trades returns the executed trades of this session, oldest first.
func (s *Service) Trades() []TradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TradeRecord, len(s.trades))
	copy(out, s.trades)
	return out
}

// Buy adds amount units at the given unit price, increasing the
// position's cost basis by amount * price. Returns the updated position.
func (s *Service) Buy(symbol string, amount, priceUSD float64) (Position, error) {
	symbol = NormalizeSymbol(symbol)
	if err := validateTrade(symbol, amount, priceUSD); err != nil {
		return Position{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ledger.Clone()
	pos := next[symbol]
	pos.Symbol = symbol
	pos.Amount += amount
	pos.CostBasisUSD += amount * priceUSD
	next[symbol] = pos

	if err := s.repo.Save(next); err != nil {
		return Position{}, err
	}
	s.ledger = next

	s.recordTrade("buy", symbol, amount, priceUSD)
	return pos, nil
}

// Sell removes amount units, reducing the cost basis proportionally:
// selling k% of a position removes k% of its basis, leaving the average
// cost per unit unchanged. The unit price feeds the trade record and
// notification only; realized gains are not tracked.
//
// Selling more than held fails with ErrInsufficientHoldings and leaves
// the ledger untouched. Selling the full amount removes the position.
func (s *Service) Sell(symbol string, amount, priceUSD float64) (Position, error) {
	symbol = NormalizeSymbol(symbol)
	if err := validateTrade(symbol, amount, priceUSD); err != nil {
		return Position{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.ledger[symbol]
	if !ok || amount > pos.Amount {
		return Position{}, ErrInsufficientHoldings
	}

	ratio := amount / pos.Amount
	costRemoved := pos.CostBasisUSD * ratio

	next := s.ledger.Clone()
	pos.Amount -= amount
	pos.CostBasisUSD -= costRemoved

	if pos.Amount < zeroEpsilon {
		delete(next, symbol)
		pos = Position{Symbol: symbol}
	} else {
		next[symbol] = pos
	}

	if err := s.repo.Save(next); err != nil {
		return Position{}, err
	}
	s.ledger = next

	s.recordTrade("sell", symbol, amount, priceUSD)
	return pos, nil
}

// recordTrade appends a trade record and pushes the user notification.
// Callers hold s.mu.
func (s *Service) recordTrade(side, symbol string, amount, priceUSD float64) {
	total := amount * priceUSD
	record := TradeRecord{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		Side:       side,
		Amount:     amount,
		PriceUSD:   priceUSD,
		TotalUSD:   total,
		ExecutedAt: time.Now().UTC(),
	}
	s.trades = append(s.trades, record)

	verb := "Bought"
	if side == "sell" {
		verb = "Sold"
	}
	message := fmt.Sprintf("%s %s %s for %s", verb, formatAmount(amount), symbol, formatUSD(total))

	s.log.Info().
		Str("side", side).
		Str("symbol", symbol).
		Float64("amount", amount).
		Float64("price_usd", priceUSD).
		Msg(message)

	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

func validateTrade(symbol string, amount, priceUSD float64) error {
	if symbol == "" {
		return ErrInvalidSymbol
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	if priceUSD < 0 || math.IsNaN(priceUSD) || math.IsInf(priceUSD, 0) {
		return ErrInvalidPrice
	}
	return nil
}

// formatAmount renders a trade amount without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatUSD renders a dollar value with thousands separators,
// e.g. 134857 -> "$134,857.00".
func formatUSD(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), fracPart)
}
