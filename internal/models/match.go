package models

import "time"

// MatchSnapshot is the state of one series as reported by the upstream
// provider at a single point in time. A snapshot is immutable once fetched;
// a refresh produces a new snapshot rather than mutating an old one.
type MatchSnapshot struct {
	SeriesID string `json:"series_id"`
	MapName  string `json:"map_name"`

	TeamA      string `json:"team_a"`
	TeamB      string `json:"team_b"`
	TeamAScore int    `json:"team_a_score"`
	TeamBScore int    `json:"team_b_score"`

	// Winner is empty while the series is live.
	Winner string `json:"winner,omitempty"`

	Players []PlayerState `json:"players"`

	// Rounds is round-by-round detail when the provider supplies it.
	// Historical matches commonly omit this; derivation functions that need
	// it report their metrics as unavailable instead of guessing.
	Rounds []Round `json:"rounds,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// TotalRounds returns the number of rounds played, preferring round-level
// detail and falling back to the score line.
func (s *MatchSnapshot) TotalRounds() int {
	if len(s.Rounds) > 0 {
		return len(s.Rounds)
	}
	return s.TeamAScore + s.TeamBScore
}

// Finished reports whether the upstream marked the series as decided.
func (s *MatchSnapshot) Finished() bool {
	return s.Winner != ""
}

// TeamPlayers returns the players on the named team.
func (s *MatchSnapshot) TeamPlayers(team string) []PlayerState {
	var out []PlayerState
	for _, p := range s.Players {
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}

// PlayerState holds the raw per-player counters for one match. It is owned
// by the snapshot that contains it and never shared across snapshots.
type PlayerState struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Agent string `json:"agent,omitempty"`

	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Assists      int `json:"assists"`
	DamageDealt  int `json:"damage_dealt"`
	Headshots    int `json:"headshots"`
	RoundsPlayed int `json:"rounds_played"`
	FirstBloods  int `json:"first_bloods"`
	FirstDeaths  int `json:"first_deaths"`
	ClutchWins   int `json:"clutch_wins"`
	Multikills   int `json:"multikills"`
}

// Round type tags as reported by the provider's economy classification.
const (
	RoundTypePistol  = "pistol"
	RoundTypeEco     = "eco"
	RoundTypeForce   = "force"
	RoundTypeFullBuy = "full_buy"
)

// Round is the outcome of a single round, present only when the upstream
// supplies round-level events.
type Round struct {
	Number int `json:"number"`

	// Type is one of the RoundType constants, or empty when the provider
	// did not tag the round's economy state.
	Type string `json:"type,omitempty"`

	Winner string `json:"winner"`

	Players []PlayerRoundState `json:"players,omitempty"`
}

// PlayerRoundState is one player's contribution within a single round,
// reduced to the facts KAST needs.
type PlayerRoundState struct {
	Name     string `json:"name"`
	Kills    int    `json:"kills"`
	Assists  int    `json:"assists"`
	Survived bool   `json:"survived"`

	// Traded requires kill-ordering data the live segment payload lacks;
	// it is set only by feeds that report trade events directly.
	Traded bool `json:"traded"`
}
