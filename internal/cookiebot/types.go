package cookiebot

// Row is one raw consent-statistics record as returned by the API.
// Field names and casing vary across payload vintages (optIns/optins/
// OptIns/OptIn and friends), so a row is treated as a best-effort bag of
// fields; the event mapper owns alias resolution.
type Row map[string]any

// Config holds Cookiebot API configuration
type Config struct {
	BaseURL       string
	APIKey        string
	DomainGroupID string
	Domain        string
}
