package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avgerin0s/cryptofolio/internal/clients/coingecko"
	"github.com/avgerin0s/cryptofolio/pkg/formulas"
)

// sparklinePoints caps how many recent sparkline points are shipped to
// the UI (last ~30 hours of the 7d hourly series).
const sparklinePoints = 30

// Source is the external market data feed. It is treated as slow and
// partial-failing; a returned batch may miss requested symbols.
type Source interface {
	Markets(ctx context.Context, perPage int) ([]coingecko.Market, error)
}

// Service provides market snapshot access and derived overview data.
// All derived views are recomputed per call; only the raw snapshot
// batch is cached.
type Service struct {
	source       Source
	cache        *CacheRepository
	pageSize     int
	popularCount int
	log          zerolog.Logger
}

// NewService creates a new market service
func NewService(source Source, cache *CacheRepository, pageSize, popularCount int, log zerolog.Logger) *Service {
	return &Service{
		source:       source,
		cache:        cache,
		pageSize:     pageSize,
		popularCount: popularCount,
		log:          log.With().Str("service", "market").Logger(),
	}
}

// Refresh fetches a fresh snapshot batch and replaces the cache.
func (s *Service) Refresh(ctx context.Context) error {
	markets, err := s.source.Markets(ctx, s.pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch market snapshots: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(markets))
	for _, m := range markets {
		snapshots = append(snapshots, Snapshot(m))
	}

	if err := s.cache.SaveBatch(snapshots); err != nil {
		return err
	}

	s.log.Debug().Int("count", len(snapshots)).Msg("Snapshot cache refreshed")
	return nil
}

// Snapshots returns the current snapshot batch, refreshing the cache
// when it is empty (first call after startup).
func (s *Service) Snapshots(ctx context.Context) ([]Snapshot, error) {
	cached, err := s.cache.Latest()
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		return cached, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.cache.Latest()
}

// ResolveID maps a ticker symbol to the data source's asset id using
// the current snapshot batch. Case-insensitive.
func (s *Service) ResolveID(ctx context.Context, symbol string) (string, bool, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return "", false, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, snap := range snapshots {
		if strings.ToUpper(snap.Symbol) == symbol {
			return snap.ID, true, nil
		}
	}
	return "", false, nil
}

// Overview returns the market overview table: price, 24h change,
// compact volume, risk bucket, trend and volatility per tracked asset.
func (s *Service) Overview(ctx context.Context) ([]OverviewRow, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]OverviewRow, 0, len(snapshots))
	for _, snap := range snapshots {
		rows = append(rows, OverviewRow{
			Symbol:       snap.Symbol,
			Name:         snap.Name,
			PriceUSD:     snap.PriceUSD,
			Change24hPct: snap.Change24hPct,
			Volume:       formatVolume(snap.VolumeUSD),
			Risk:         formulas.ClassifyRisk(snap.Change24hPct),
			Trend:        formulas.ClassifyTrend(snap.Sparkline),
			Volatility:   formulas.Volatility(snap.Sparkline),
		})
	}
	return rows, nil
}

// Popular returns the top assets by market cap with display sparklines.
func (s *Service) Popular(ctx context.Context) ([]PopularAsset, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}

	if len(snapshots) > s.popularCount {
		snapshots = snapshots[:s.popularCount]
	}

	assets := make([]PopularAsset, 0, len(snapshots))
	for _, snap := range snapshots {
		spark := snap.Sparkline
		if len(spark) > sparklinePoints {
			spark = spark[len(spark)-sparklinePoints:]
		}
		assets = append(assets, PopularAsset{
			Symbol:    snap.Symbol,
			Name:      snap.Name,
			PriceUSD:  snap.PriceUSD,
			Sparkline: spark,
			Range:     formulas.Range(spark),
		})
	}
	return assets, nil
}

// GlobalRisk returns the 0-10 market risk score over the popular
// assets' sparklines.
func (s *Service) GlobalRisk(ctx context.Context) (float64, error) {
	popular, err := s.Popular(ctx)
	if err != nil {
		return 0, err
	}

	series := make([][]float64, 0, len(popular))
	for _, asset := range popular {
		series = append(series, asset.Sparkline)
	}
	return formulas.GlobalRiskScore(series), nil
}

// formatVolume renders a USD volume compactly, e.g. "$28.0B".
func formatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
