package cookiebot

// shapeMatcher attempts to extract the row list from one known response
// envelope shape. Matchers are tried in order; the first hit wins.
type shapeMatcher func(payload any) ([]Row, bool)

// Envelope shapes observed across Cookiebot API vintages, in priority
// order. New vintages get a new entry here rather than another branch in
// ExtractRows.
var shapeMatchers = []shapeMatcher{
	matchTopLevelArray,
	matchKeyArray("data"),
	matchKeyArray("stats"),
	matchConsentStat("consentstat", "consentday"),
	matchConsentStat("Consentstat", "Consentday"),
	matchNestedKeyArray("result", "data"),
	matchNestedKeyArray("result", "stats"),
	matchNestedKeyArray("payload", "data"),
	matchNestedKeyArray("payload", "stats"),
}

// ExtractRows pulls the raw row list out of a decoded stats payload.
// An unrecognized shape yields an empty result, not an error: the run
// treats it as a clean no-op.
func ExtractRows(payload any) []Row {
	for _, match := range shapeMatchers {
		if rows, ok := match(payload); ok {
			return rows
		}
	}
	return nil
}

func matchTopLevelArray(payload any) ([]Row, bool) {
	arr, ok := payload.([]any)
	if !ok {
		return nil, false
	}
	return toRows(arr), true
}

func matchKeyArray(key string) shapeMatcher {
	return func(payload any) ([]Row, bool) {
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, false
		}
		arr, ok := obj[key].([]any)
		if !ok {
			return nil, false
		}
		return toRows(arr), true
	}
}

func matchNestedKeyArray(outer, inner string) shapeMatcher {
	return func(payload any) ([]Row, bool) {
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, false
		}
		nested, ok := obj[outer].(map[string]any)
		if !ok {
			return nil, false
		}
		arr, ok := nested[inner].([]any)
		if !ok {
			return nil, false
		}
		return toRows(arr), true
	}
}

// matchConsentStat handles the consentstat.consentday envelope, where a
// single-day window carries one object instead of an array.
func matchConsentStat(outer, inner string) shapeMatcher {
	return func(payload any) ([]Row, bool) {
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, false
		}
		nested, ok := obj[outer].(map[string]any)
		if !ok {
			return nil, false
		}
		switch day := nested[inner].(type) {
		case []any:
			return toRows(day), true
		case map[string]any:
			return []Row{Row(day)}, true
		}
		return nil, false
	}
}

// toRows keeps only object entries; scalar junk inside a row array is
// dropped rather than failing the whole extraction.
func toRows(arr []any) []Row {
	rows := make([]Row, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Row(m))
		}
	}
	return rows
}
