package models

import "time"

// ScenarioRequest is a free-text "what-if" question plus optional match
// context supplied by the caller.
type ScenarioRequest struct {
	Scenario    string `json:"scenario" validate:"required,min=3"`
	SeriesID    string `json:"series_id,omitempty"`
	RoundNumber int    `json:"round_number,omitempty" validate:"gte=0"`
	TeamName    string `json:"team_name,omitempty"`
}

// ScenarioResult is the fixed-shape reply produced for one ScenarioRequest.
// Results are never merged across requests.
type ScenarioResult struct {
	ID string `json:"id"`

	ActionTaken            string  `json:"action_taken"`
	SuccessProbability     float64 `json:"success_probability"`
	AlternativeAction      string  `json:"alternative_action"`
	AlternativeProbability float64 `json:"alternative_probability"`
	Recommendation         string  `json:"recommendation"`
	Reasoning              string  `json:"reasoning"`

	CreatedAt time.Time `json:"created_at"`
}

// RecentSeries is one row of the browsing history kept in Postgres so the
// dashboard can offer recently viewed matchups across sessions.
type RecentSeries struct {
	SeriesID  string    `json:"series_id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	TeamA     string    `json:"team_a" validate:"required"`
	TeamB     string    `json:"team_b" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// LiveSeries is the lightweight record kept in Redis for a series that was
// last observed without a winner.
type LiveSeries struct {
	SeriesID   string    `json:"series_id"`
	MapName    string    `json:"map_name"`
	TeamA      string    `json:"team_a"`
	TeamB      string    `json:"team_b"`
	TeamAScore int       `json:"team_a_score"`
	TeamBScore int       `json:"team_b_score"`
	SeenAt     time.Time `json:"seen_at"`
}
