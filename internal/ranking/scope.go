// Package ranking derives leaderboard rows from the match log. Computation
// is pure: everything is recomputable from the store at any time, and the
// same inputs always produce the same ordered output.
package ranking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtrank/league-data/internal/config"
)

// DateFormat is the ISO-8601 calendar date layout used in scope selectors
// and form entries.
const DateFormat = "2006-01-02"

// Mode selects which matches contribute to a ranking computation.
type Mode string

const (
	ModeLifetime Mode = "lifetime"
	ModeSeason   Mode = "season"
	ModeDate     Mode = "date"
)

// Scope is a tagged variant over {Lifetime, Season(id), Date(day)}.
// SeasonID is meaningful only for ModeSeason, Date only for ModeDate.
type Scope struct {
	Mode     Mode
	SeasonID int64
	Date     time.Time
}

// Lifetime covers every match on record.
func Lifetime() Scope { return Scope{Mode: ModeLifetime} }

// ForSeason covers one season's matches.
func ForSeason(id int64) Scope { return Scope{Mode: ModeSeason, SeasonID: id} }

// ForDate covers a single play date.
func ForDate(day time.Time) Scope { return Scope{Mode: ModeDate, Date: day} }

// CacheKey is a pure, collision-free function of the scope, used as the
// ranking cache key.
func (s Scope) CacheKey() string {
	switch s.Mode {
	case ModeSeason:
		return fmt.Sprintf("rankings:season:%d", s.SeasonID)
	case ModeDate:
		return "rankings:date:" + s.Date.Format(DateFormat)
	default:
		return "rankings:lifetime"
	}
}

// String renders the scope in the selector form the API accepts:
// "lifetime", "season/<id>", "date/<iso>".
func (s Scope) String() string {
	switch s.Mode {
	case ModeSeason:
		return fmt.Sprintf("season/%d", s.SeasonID)
	case ModeDate:
		return "date/" + s.Date.Format(DateFormat)
	default:
		return "lifetime"
	}
}

// TTL returns the freshness window for this scope. Historical dates rarely
// change, so date scopes tolerate the most staleness.
func (s Scope) TTL(cfg *config.Config) time.Duration {
	switch s.Mode {
	case ModeSeason:
		return cfg.TTLSeason
	case ModeDate:
		return cfg.TTLDate
	default:
		return cfg.TTLLifetime
	}
}

// ParseScope parses a selector of the form "lifetime", "season/<id>", or
// "date/<iso date>".
func ParseScope(selector string) (Scope, error) {
	if selector == "lifetime" {
		return Lifetime(), nil
	}
	mode, value, ok := strings.Cut(selector, "/")
	if !ok {
		return Scope{}, fmt.Errorf("invalid scope selector %q", selector)
	}
	switch Mode(mode) {
	case ModeSeason:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid season id %q", value)
		}
		return ForSeason(id), nil
	case ModeDate:
		day, err := ParseDate(value)
		if err != nil {
			return Scope{}, err
		}
		return ForDate(day), nil
	}
	return Scope{}, fmt.Errorf("invalid scope selector %q", selector)
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(value string) (time.Time, error) {
	day, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return day, nil
}
