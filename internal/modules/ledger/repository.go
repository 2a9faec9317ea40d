package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// holdingsKey is the single key under which the whole ledger is stored.
const holdingsKey = "portfolio.holdings"

// Store is the durable key-value store the ledger persists through.
// Get returns nil (not an error) for a missing key.
type Store interface {
	Get(key string) (*string, error)
	Set(key, value string) error
}

// Repository persists the ledger as one serialized mapping of
// symbol -> position. Whole-ledger replace-on-write.
type Repository struct {
	store Store
	log   zerolog.Logger
}

// NewRepository creates a new ledger repository
func NewRepository(store Store, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("repository", "ledger").Logger(),
	}
}

// Load reads the persisted ledger. It fails open: a missing key, a
// store error or a malformed value yields an empty ledger, never an
// error. Losing a local simulation is recoverable; crashing on startup
// is not.
func (r *Repository) Load() Ledger {
	raw, err := r.store.Get(holdingsKey)
	if err != nil {
		r.log.Warn().Err(err).Msg("Failed to read persisted ledger, starting empty")
		return Ledger{}
	}
	if raw == nil {
		return Ledger{}
	}

	var stored map[string]Position
	if err := json.Unmarshal([]byte(*raw), &stored); err != nil {
		r.log.Warn().Err(err).Msg("Persisted ledger is malformed, starting empty")
		return Ledger{}
	}

	out := make(Ledger, len(stored))
	for symbol, pos := range stored {
		key := NormalizeSymbol(symbol)
		pos.Symbol = key
		if pos.Amount <= 0 || pos.CostBasisUSD < 0 {
			r.log.Warn().Str("symbol", key).Msg("Dropping invalid persisted position")
			continue
		}
		out[key] = pos
	}
	return out
}

// Save persists the whole ledger, replacing the previous value.
func (r *Repository) Save(l Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}
	if err := r.store.Set(holdingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}
