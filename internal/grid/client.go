// Package grid implements the client for the GRID series-state API, the
// upstream source of match snapshots. Responses are nested GraphQL payloads;
// this package parses them defensively into typed models so nothing else in
// the codebase touches loosely-typed data.
package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intuition_upstream_requests_total",
		Help: "Total requests to the GRID series-state API by outcome",
	}, []string{"outcome"})

	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intuition_upstream_request_duration_seconds",
		Help:    "Duration of GRID series-state requests",
		Buckets: prometheus.DefBuckets,
	})
)

// UpstreamUnavailableError reports that the match-data provider did not
// respond or returned a non-success status. Callers may retry.
type UpstreamUnavailableError struct {
	SeriesID string
	Status   int
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream unavailable for series %s: status %d", e.SeriesID, e.Status)
	}
	return fmt.Sprintf("upstream unavailable for series %s: %v", e.SeriesID, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// seriesStateQuery fetches the current state of a series. Round-level
// segment detail is requested but historical series commonly omit it.
const seriesStateQuery = `
query GetSeriesState($seriesId: ID!) {
    seriesState(id: $seriesId) {
        id
        format
        started
        finished
        games {
            id
            sequenceNumber
            started
            finished
            map { name }
            teams {
                id
                name
                side
                won
                score
                players {
                    id
                    name
                    character { id name }
                    kills
                    killAssistsGiven
                    deaths
                    alive
                    headshots
                    damageDealt
                    objectives { type completionCount }
                }
            }
            segments {
                id
                type
                sequenceNumber
                teams {
                    name
                    won
                    players {
                        name
                        kills
                        killAssistsGiven
                        alive
                    }
                }
            }
        }
    }
}`

// Client issues read requests against the GRID series-state endpoint.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
	now    func() time.Time
}

// New returns a GRID client authenticated with the given API key. The
// timeout bounds every request so a slow upstream cannot hang a caller.
func New(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Wire types for the GraphQL response. Fields absent from a payload decode
// to their zero values; the parser flags anything derivation must not trust.

type graphQLResponse struct {
	Data struct {
		SeriesState *seriesState `json:"seriesState"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type seriesState struct {
	ID       string      `json:"id"`
	Format   string      `json:"format"`
	Started  bool        `json:"started"`
	Finished bool        `json:"finished"`
	Games    []gameState `json:"games"`
}

type gameState struct {
	ID             string `json:"id"`
	SequenceNumber int    `json:"sequenceNumber"`
	Started        bool   `json:"started"`
	Finished       bool   `json:"finished"`
	Map            struct {
		Name string `json:"name"`
	} `json:"map"`
	Teams    []teamState    `json:"teams"`
	Segments []segmentState `json:"segments"`
}

type teamState struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Side    string        `json:"side"`
	Won     bool          `json:"won"`
	Score   int           `json:"score"`
	Players []playerState `json:"players"`
}

type playerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Character struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"character"`
	Kills            int  `json:"kills"`
	KillAssistsGiven int  `json:"killAssistsGiven"`
	Deaths           int  `json:"deaths"`
	Alive            bool `json:"alive"`
	Headshots        int  `json:"headshots"`
	DamageDealt      int  `json:"damageDealt"`
	Objectives       []struct {
		Type            string `json:"type"`
		CompletionCount int    `json:"completionCount"`
	} `json:"objectives"`
}

// UnmarshalJSON decodes players leniently: archived series payloads quote
// their counters ("kills": "21"), which strict decoding would reject.
func (p *playerState) UnmarshalJSON(data []byte) error {
	type alias playerState
	return models.UnmarshalLenient(data, (*alias)(p))
}

type segmentState struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	SequenceNumber int    `json:"sequenceNumber"`
	Teams          []struct {
		Name    string `json:"name"`
		Won     bool   `json:"won"`
		Players []struct {
			Name             string `json:"name"`
			Kills            int    `json:"kills"`
			KillAssistsGiven int    `json:"killAssistsGiven"`
			Alive            bool   `json:"alive"`
		} `json:"players"`
	} `json:"teams"`
}

// FetchSeries fetches the current snapshot for a series. It returns an
// *UpstreamUnavailableError when the provider cannot be reached or replies
// with a non-success status, and a plain error for malformed payloads.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) (*models.MatchSnapshot, error) {
	body, err := json.Marshal(map[string]any{
		"query":     seriesStateQuery,
		"variables": map[string]string{"seriesId": seriesID},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := c.now()
	resp, err := c.http.Do(req)
	upstreamDuration.Observe(c.now().Sub(start).Seconds())
	if err != nil {
		upstreamRequests.WithLabelValues("error").Inc()
		return nil, &UpstreamUnavailableError{SeriesID: seriesID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamRequests.WithLabelValues("error").Inc()
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamUnavailableError{SeriesID: seriesID, Status: resp.StatusCode}
	}

	var parsed graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		upstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode series state: %w", err)
	}

	if len(parsed.Errors) > 0 {
		upstreamRequests.WithLabelValues("error").Inc()
		return nil, &UpstreamUnavailableError{
			SeriesID: seriesID,
			Err:      fmt.Errorf("graphql: %s", parsed.Errors[0].Message),
		}
	}
	if parsed.Data.SeriesState == nil {
		upstreamRequests.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("series %s not found upstream", seriesID)
	}

	upstreamRequests.WithLabelValues("ok").Inc()
	return c.toSnapshot(seriesID, parsed.Data.SeriesState), nil
}

// toSnapshot flattens the nested series state into a MatchSnapshot built
// from the most relevant game: the first unfinished one, else the last.
func (c *Client) toSnapshot(seriesID string, state *seriesState) *models.MatchSnapshot {
	snap := &models.MatchSnapshot{
		SeriesID:  seriesID,
		FetchedAt: c.now().UTC(),
	}

	game := pickGame(state.Games)
	if game == nil {
		return snap
	}

	snap.MapName = game.Map.Name

	if len(game.Teams) > 0 {
		t := game.Teams[0]
		snap.TeamA = t.Name
		snap.TeamAScore = t.Score
		if t.Won && state.Finished {
			snap.Winner = t.Name
		}
		snap.Players = append(snap.Players, convertPlayers(t)...)
	}
	if len(game.Teams) > 1 {
		t := game.Teams[1]
		snap.TeamB = t.Name
		snap.TeamBScore = t.Score
		if t.Won && state.Finished {
			snap.Winner = t.Name
		}
		snap.Players = append(snap.Players, convertPlayers(t)...)
	}

	// Rounds played is not reported per player by the state API; every
	// roster member is credited with the game's round count.
	total := snap.TeamAScore + snap.TeamBScore
	for i := range snap.Players {
		snap.Players[i].RoundsPlayed = total
	}

	snap.Rounds = convertRounds(game.Segments)
	return snap
}

// pickGame prefers the game in progress, falling back to the last one.
func pickGame(games []gameState) *gameState {
	for i := range games {
		if games[i].Started && !games[i].Finished {
			return &games[i]
		}
	}
	if len(games) == 0 {
		return nil
	}
	return &games[len(games)-1]
}

func convertPlayers(t teamState) []models.PlayerState {
	out := make([]models.PlayerState, 0, len(t.Players))
	for _, p := range t.Players {
		ps := models.PlayerState{
			Name:        p.Name,
			Team:        t.Name,
			Agent:       p.Character.Name,
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.KillAssistsGiven,
			DamageDealt: p.DamageDealt,
			Headshots:   p.Headshots,
		}
		for _, obj := range p.Objectives {
			switch obj.Type {
			case "firstKill":
				ps.FirstBloods = obj.CompletionCount
			case "firstDeath":
				ps.FirstDeaths = obj.CompletionCount
			case "winRoundClutch":
				ps.ClutchWins = obj.CompletionCount
			case "multikill":
				ps.Multikills = obj.CompletionCount
			}
		}
		out = append(out, ps)
	}
	return out
}

// roundsPerHalf is the regulation half length; the round after a half
// boundary is a pistol round.
const roundsPerHalf = 12

// convertRounds maps round segments to Rounds. Segments of other types
// (maps, halves) are skipped; an empty result means the provider supplied
// no round-level data for this series.
//
// Only the pistol tag is derivable from segment position. Eco, force, and
// full-buy tags need credit data the segment payload does not carry, so
// those rounds stay untagged and their win rates report unavailable.
func convertRounds(segments []segmentState) []models.Round {
	var rounds []models.Round
	for _, seg := range segments {
		if !strings.EqualFold(seg.Type, "round") {
			continue
		}
		r := models.Round{Number: seg.SequenceNumber}
		if seg.SequenceNumber == 1 || seg.SequenceNumber == roundsPerHalf+1 {
			r.Type = models.RoundTypePistol
		}
		for _, t := range seg.Teams {
			if t.Won {
				r.Winner = t.Name
			}
			for _, p := range t.Players {
				r.Players = append(r.Players, models.PlayerRoundState{
					Name:     p.Name,
					Kills:    p.Kills,
					Assists:  p.KillAssistsGiven,
					Survived: p.Alive,
				})
			}
		}
		rounds = append(rounds, r)
	}
	return rounds
}
