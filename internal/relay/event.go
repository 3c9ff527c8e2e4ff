package relay

// EventType is the New Relic event type every record is inserted under.
const EventType = "CookiebotConsentStats"

// Source tags the producing system on every event.
const Source = "cookiebot-consent-relay"

// ConsentEvent is one flattened daily consent-statistics record shaped for
// the New Relic Events API. Numeric fields are nil when the source row has
// no usable value; nil serializes as JSON null. An event is created once
// per raw row, serialized immediately and never mutated.
type ConsentEvent struct {
	EventType           string   `json:"eventType"`
	Source              string   `json:"source"`
	Environment         string   `json:"environment"`
	Domain              string   `json:"domain"`
	DomainGroupID       string   `json:"domainGroupId"`
	Date                *string  `json:"date"`
	CountryCode         *string  `json:"countryCode"`
	Consents            *float64 `json:"consents"`
	OptIns              *float64 `json:"optIns"`
	OptOuts             *float64 `json:"optOuts"`
	OptInImplied        *float64 `json:"optInImplied"`
	NecessaryConsents   *float64 `json:"necessaryConsents"`
	PreferencesConsents *float64 `json:"preferencesConsents"`
	StatisticsConsents  *float64 `json:"statisticsConsents"`
	MarketingConsents   *float64 `json:"marketingConsents"`
	PulledAt            string   `json:"pulledAt"`
}
