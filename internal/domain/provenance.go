package domain

// Provenance tags where a day's demand value came from. The grid, the
// simulation chart and the advice trace all carry the same closed set of
// values so the presentation layer never has to guess from context.
type Provenance string

const (
	// ProvenanceActual marks a value taken (or reconstructed) from recorded sales.
	ProvenanceActual Provenance = "actual"
	// ProvenanceForecast marks a model-derived value for a future date.
	ProvenanceForecast Provenance = "forecast"
	// ProvenanceMix marks the reference day itself: max(actual so far, forecast).
	ProvenanceMix Provenance = "mix"
)

// Label returns a human-readable label for a provenance tag.
func (p Provenance) Label() string {
	switch p {
	case ProvenanceActual:
		return "Actual"
	case ProvenanceForecast:
		return "Forecast"
	case ProvenanceMix:
		return "Mix"
	}

	return "Unknown"
}
