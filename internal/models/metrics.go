package models

// Provenance records how a metric value was obtained. A value of zero is
// only meaningful alongside ProvenanceComputed; when the underlying data is
// absent the metric carries ProvenanceUnavailable and the zero is a neutral
// default, not a measurement.
type Provenance string

const (
	// ProvenanceComputed marks a metric derived from snapshot data.
	ProvenanceComputed Provenance = "computed"
	// ProvenanceUnavailable marks a metric whose inputs were absent from
	// the snapshot (no round events, zero denominator, missing tags).
	ProvenanceUnavailable Provenance = "unavailable"
)

// Metric pairs a numeric value with its provenance flag.
type Metric struct {
	Value      float64    `json:"value"`
	Provenance Provenance `json:"provenance"`
}

// Computed returns a metric backed by real snapshot data.
func Computed(v float64) Metric {
	return Metric{Value: v, Provenance: ProvenanceComputed}
}

// Unavailable returns the neutral default for a metric whose inputs are
// missing.
func Unavailable() Metric {
	return Metric{Value: 0, Provenance: ProvenanceUnavailable}
}

// Metric names used as DerivedMetricBundle keys.
const (
	MetricACS            = "acs"
	MetricADR            = "adr"
	MetricHeadshotPct    = "headshot_pct"
	MetricKASTPct        = "kast_pct"
	MetricFirstBloodRate = "first_blood_rate"
	MetricClutchRate     = "clutch_rate"
	MetricPistolWinRate  = "pistol_win_rate"
	MetricEcoWinRate     = "eco_win_rate"
	MetricForceWinRate   = "force_buy_win_rate"
	MetricFullBuyWinRate = "full_buy_win_rate"
)

// Bundle scopes.
const (
	ScopePlayer = "player"
	ScopeTeam   = "team"
)

// DerivedMetricBundle is the stat-derivation output for one player or one
// team. Every key present in Metrics carries an explicit provenance flag.
type DerivedMetricBundle struct {
	Subject string            `json:"subject"`
	Scope   string            `json:"scope"`
	Team    string            `json:"team,omitempty"`
	Metrics map[string]Metric `json:"metrics"`
}

// SeriesStats is the full analysis for one series: the snapshot it was
// derived from plus every player and team bundle. Cached reports whether the
// response was served from the TTL cache.
type SeriesStats struct {
	SeriesID string                `json:"series_id"`
	Snapshot *MatchSnapshot        `json:"snapshot"`
	Bundles  []DerivedMetricBundle `json:"bundles"`
	Cached   bool                  `json:"cached"`
}
