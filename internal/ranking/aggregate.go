package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/store"
)

// Points awarded per match participation. Losing still pays out one point so
// showing up always moves the table.
const (
	PointsPerWin  = 4
	PointsPerLoss = 1
)

// Form entry results.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// Source is the read contract the aggregator needs. *store.Store satisfies
// it via StoreSource; tests use an in-memory fake.
type Source interface {
	MatchesInScope(ctx context.Context, scope Scope) ([]store.Match, error)
	ListPlayers(ctx context.Context) ([]store.Player, error)
	SeasonFees(ctx context.Context) (map[int64]int64, error)
}

// StoreSource adapts *store.Store to the Source interface, dispatching the
// scope variant onto the store's listing statements.
type StoreSource struct {
	*store.Store
}

// MatchesInScope resolves a scope to the matching store query.
func (s StoreSource) MatchesInScope(ctx context.Context, scope Scope) ([]store.Match, error) {
	switch scope.Mode {
	case ModeLifetime:
		return s.ListMatches(ctx)
	case ModeSeason:
		return s.MatchesBySeason(ctx, scope.SeasonID)
	case ModeDate:
		return s.MatchesByDate(ctx, scope.Date)
	}
	return nil, fmt.Errorf("ranking: unknown scope mode %q", scope.Mode)
}

// FormEntry is one recent outcome from a player's perspective.
type FormEntry struct {
	Result   string `json:"result"`
	PlayDate string `json:"play_date"`
}

// Row is one player's line in a ranking table. Rank is implicit in slice
// order.
type Row struct {
	PlayerID      int64       `json:"player_id"`
	Name          string      `json:"name"`
	Wins          int         `json:"wins"`
	Losses        int         `json:"losses"`
	TotalMatches  int         `json:"total_matches"`
	Points        int         `json:"points"`
	WinPercentage int         `json:"win_percentage"`
	MoneyLost     int64       `json:"money_lost"`
	Form          []FormEntry `json:"form"`
}

// Options tune the aggregation policy.
type Options struct {
	DefaultLossFee int64 // minor units charged per loss without season override
	FormLength     int   // outcomes kept per player
}

// OptionsFromConfig builds aggregation options from app configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{DefaultLossFee: cfg.LossFee, FormLength: cfg.FormLength}
}

func (o Options) withDefaults() Options {
	if o.DefaultLossFee == 0 {
		o.DefaultLossFee = config.DefaultLossFee
	}
	if o.FormLength <= 0 {
		o.FormLength = config.DefaultFormLength
	}
	return o
}

// Compute derives the ranking table for a scope. Players with no in-scope
// matches are excluded. The result is a stable total order: points desc,
// win percentage desc, name asc.
func Compute(ctx context.Context, src Source, scope Scope, opts Options) ([]Row, error) {
	opts = opts.withDefaults()

	matches, err := src.MatchesInScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("ranking: load matches: %w", err)
	}
	if len(matches) == 0 {
		return []Row{}, nil
	}

	players, err := src.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("ranking: load players: %w", err)
	}
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	fees, err := src.SeasonFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("ranking: load season fees: %w", err)
	}

	// The store returns matches chronologically, but the order matters for
	// form, so don't rely on the source honoring it.
	sortChronological(matches)

	rows := make(map[int64]*Row)
	line := func(id int64) *Row {
		r, ok := rows[id]
		if !ok {
			r = &Row{PlayerID: id, Name: names[id]}
			rows[id] = r
		}
		return r
	}

	for i := range matches {
		m := &matches[i]
		fee, ok := fees[m.SeasonID]
		if !ok {
			fee = opts.DefaultLossFee
		}
		day := m.PlayedOn.Format(DateFormat)

		for _, id := range m.Winners() {
			r := line(id)
			r.Wins++
			r.TotalMatches++
			r.Form = append(r.Form, FormEntry{Result: ResultWin, PlayDate: day})
		}
		for _, id := range m.Losers() {
			r := line(id)
			r.Losses++
			r.TotalMatches++
			r.MoneyLost += fee
			r.Form = append(r.Form, FormEntry{Result: ResultLoss, PlayDate: day})
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		r.Points = PointsPerWin*r.Wins + PointsPerLoss*r.Losses
		if r.TotalMatches > 0 {
			r.WinPercentage = int(math.Round(float64(r.Wins) / float64(r.TotalMatches) * 100))
		}
		// Keep only the last N outcomes, oldest-first for display.
		if len(r.Form) > opts.FormLength {
			r.Form = r.Form[len(r.Form)-opts.FormLength:]
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].WinPercentage != out[j].WinPercentage {
			return out[i].WinPercentage > out[j].WinPercentage
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func sortChronological(matches []store.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].PlayedOn.Equal(matches[j].PlayedOn) {
			return matches[i].PlayedOn.Before(matches[j].PlayedOn)
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
}
