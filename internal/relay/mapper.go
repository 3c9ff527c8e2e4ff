package relay

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/consent-relay/internal/cookiebot"
)

// Alias priority per event attribute. Cookiebot payload vintages disagree
// on casing and naming; the first key present in the row wins even when
// later aliases also exist, and a present-but-garbage value resolves to
// nil rather than falling through to the next alias.
var (
	consentsAliases     = []string{"consents", "Consents"}
	optInsAliases       = []string{"optIns", "optins", "OptIns", "OptIn"}
	optOutsAliases      = []string{"optOuts", "optouts", "OptOuts", "OptOut"}
	optInImpliedAliases = []string{"optInImplied", "optinimplied", "OptInImplied", "ImpliedConsents"}
	necessaryAliases    = []string{"necessaryConsents", "necessary", "Necessary"}
	preferencesAliases  = []string{"preferencesConsents", "preferences", "Preferences"}
	statisticsAliases   = []string{"statisticsConsents", "statistics", "Statistics"}
	marketingAliases    = []string{"marketingConsents", "marketing", "Marketing"}
	dateAliases         = []string{"date", "Date"}
	countryAliases      = []string{"countryCode", "Country"}
)

// RunMeta is the run-level metadata stamped onto every mapped event.
type RunMeta struct {
	Environment   string
	Domain        string
	DomainGroupID string
}

// MapRow converts one raw row into a ConsentEvent. The input row is never
// mutated. pulledAt comes from the caller's clock so the whole batch shares
// one timestamp source; it is rendered in RFC3339 UTC.
func MapRow(row cookiebot.Row, meta RunMeta, pulledAt time.Time) ConsentEvent {
	ev := ConsentEvent{
		EventType:           EventType,
		Source:              Source,
		Environment:         meta.Environment,
		Domain:              meta.Domain,
		DomainGroupID:       meta.DomainGroupID,
		Date:                firstString(row, dateAliases),
		CountryCode:         firstString(row, countryAliases),
		OptIns:              firstNumber(row, optInsAliases),
		OptOuts:             firstNumber(row, optOutsAliases),
		OptInImplied:        firstNumber(row, optInImpliedAliases),
		NecessaryConsents:   firstNumber(row, necessaryAliases),
		PreferencesConsents: firstNumber(row, preferencesAliases),
		StatisticsConsents:  firstNumber(row, statisticsAliases),
		MarketingConsents:   firstNumber(row, marketingAliases),
		PulledAt:            pulledAt.UTC().Format(time.RFC3339),
	}
	ev.Consents = deriveConsents(firstNumber(row, consentsAliases), ev.OptIns, ev.OptOuts)
	return ev
}

// deriveConsents fills the consents total when the row carries no direct
// value: optIns + optOuts when both are known, optIns alone when only it
// is, otherwise nothing.
func deriveConsents(direct, optIns, optOuts *float64) *float64 {
	if direct != nil {
		return direct
	}
	if optIns != nil && optOuts != nil {
		total := *optIns + *optOuts
		return &total
	}
	return optIns
}

// firstNumber coerces the first alias present in the row to a finite
// number. Empty strings, non-numeric strings, nulls, NaN and ±Inf all
// resolve to nil.
func firstNumber(row cookiebot.Row, aliases []string) *float64 {
	for _, key := range aliases {
		if val, ok := row[key]; ok {
			return toNumber(val)
		}
	}
	return nil
}

func toNumber(val any) *float64 {
	switch v := val.(type) {
	case float64:
		return finite(v)
	case int:
		return finite(float64(v))
	case int64:
		return finite(float64(v))
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil
		}
		return finite(n)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finite(n)
	default:
		return nil
	}
}

func finite(n float64) *float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// firstString resolves the first non-empty alias value to its string form,
// skipping empty and zero values the way the upstream report did.
func firstString(row cookiebot.Row, aliases []string) *string {
	for _, key := range aliases {
		switch v := row[key].(type) {
		case string:
			if v != "" {
				s := v
				return &s
			}
		case float64:
			if v != 0 {
				s := strconv.FormatFloat(v, 'f', -1, 64)
				return &s
			}
		case json.Number:
			if v.String() != "" && v.String() != "0" {
				s := v.String()
				return &s
			}
		}
	}
	return nil
}
