// Package daterange computes the inclusive start/end date window for one
// relay run, either from explicit overrides or from a trailing lookback
// window anchored on yesterday (UTC).
package daterange

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/consent-relay/internal/pkg/logger"
)

// Layout is the 8-digit calendar-date format the Cookiebot API expects.
const Layout = "20060102"

// ModeExplicit tags a range built from STARTDATE/ENDDATE overrides.
const ModeExplicit = "explicit"

// Range is an inclusive start/end date pair with its provenance.
type Range struct {
	Start string
	End   string
	Mode  string
}

// Resolve computes the window for a run. Explicit overrides win and are
// returned verbatim after validation. Otherwise the window ends yesterday
// (UTC) and starts lookbackDays before that. lookback holds the raw
// LOOKBACK_DAYS value; anything non-numeric or below 1 falls back to 1 with
// a warning rather than failing the run.
func Resolve(now time.Time, startDate, endDate, lookback string) (Range, error) {
	if startDate != "" && endDate != "" {
		start, err := time.ParseInLocation(Layout, startDate, time.UTC)
		if err != nil {
			return Range{}, fmt.Errorf("invalid STARTDATE %q: %w", startDate, err)
		}
		end, err := time.ParseInLocation(Layout, endDate, time.UTC)
		if err != nil {
			return Range{}, fmt.Errorf("invalid ENDDATE %q: %w", endDate, err)
		}
		if start.After(end) {
			return Range{}, fmt.Errorf("STARTDATE %s is after ENDDATE %s", startDate, endDate)
		}
		return Range{Start: startDate, End: endDate, Mode: ModeExplicit}, nil
	}

	days := lookbackDays(lookback)
	utc := now.UTC()
	today := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -days)

	return Range{
		Start: start.Format(Layout),
		End:   end.Format(Layout),
		Mode:  fmt.Sprintf("lookback_%dd", days),
	}, nil
}

func lookbackDays(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		logger.Warn("invalid LOOKBACK_DAYS, falling back to 1 day", "value", raw)
		return 1
	}
	return n
}
