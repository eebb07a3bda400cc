// Package maintenance owns cache lifecycle outside the request path:
// the mutation hook that clears the ranking cache, the best-effort delayed
// warm-up that repopulates common scopes, and a periodic re-warm ticker.
// All scheduled work is driven from Go since the API is already a
// persistent, long-running service.
package maintenance

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/courtrank/league-data/internal/cache"
	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

// WarmSource is everything the warm-up needs to decide which scopes are hot
// and recompute them. ranking.StoreSource satisfies it.
type WarmSource interface {
	ranking.Source
	ActiveSeason(ctx context.Context) (*store.Season, error)
	LatestPlayDate(ctx context.Context) (time.Time, error)
}

// Invalidator clears the ranking cache on every mutation and schedules a
// delayed, fire-and-forget warm-up. The clear is synchronous — it completes
// before the mutating request returns — so an immediately-following read can
// never observe stale data. The warm-up is advisory: it may be lost on
// shutdown, and a warm racing a later clear resolves last-write-wins.
type Invalidator struct {
	src    WarmSource
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// NewInvalidator wires the invalidation hook.
func NewInvalidator(src WarmSource, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Invalidator {
	return &Invalidator{src: src, cache: c, cfg: cfg, logger: logger}
}

// OnMutation must be called after every acknowledged write to players,
// matches, or seasons, before the HTTP response is written.
func (inv *Invalidator) OnMutation() {
	inv.cache.Clear()
	time.AfterFunc(inv.cfg.WarmupDelay, func() {
		inv.PreloadCommonData(context.Background())
	})
}

// PreloadCommonData recomputes and caches the most frequently requested
// scopes: lifetime, the active season, and the most recent play date.
// Failures are logged and skipped — the next read recomputes on miss.
func (inv *Invalidator) PreloadCommonData(ctx context.Context) {
	scopes := []ranking.Scope{ranking.Lifetime()}

	if season, err := inv.src.ActiveSeason(ctx); err == nil {
		scopes = append(scopes, ranking.ForSeason(season.ID))
	} else if err != store.ErrNoActiveSeason {
		inv.logger.Warn("Warm-up: active season lookup failed", "error", err)
	}

	if day, err := inv.src.LatestPlayDate(ctx); err == nil {
		scopes = append(scopes, ranking.ForDate(day))
	} else if err != store.ErrNotFound {
		inv.logger.Warn("Warm-up: latest play date lookup failed", "error", err)
	}

	for _, scope := range scopes {
		if err := inv.warm(ctx, scope); err != nil {
			inv.logger.Warn("Warm-up failed", "scope", scope.CacheKey(), "error", err)
		}
	}
}

func (inv *Invalidator) warm(ctx context.Context, scope ranking.Scope) error {
	rows, err := ranking.Compute(ctx, inv.src, scope, ranking.OptionsFromConfig(inv.cfg))
	if err != nil {
		return err
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	inv.cache.Set(scope.CacheKey(), data, scope.TTL(inv.cfg))
	return nil
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	WarmInterval time.Duration // periodic re-warm of common scopes
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{WarmInterval: 5 * time.Minute}
}

// Start launches the periodic re-warm ticker. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, inv *Invalidator, cfg Config, logger *slog.Logger) {
	if cfg.WarmInterval <= 0 {
		return
	}
	logger.Info("Maintenance ticker started", "warm", cfg.WarmInterval)

	t := time.NewTicker(cfg.WarmInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			inv.PreloadCommonData(ctx)
		case <-ctx.Done():
			logger.Info("Maintenance ticker stopped")
			return
		}
	}
}
