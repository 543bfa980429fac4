package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

const systemPrompt = `You are an expert VALORANT strategic analyst providing coaching insights.

Given the current match state and a hypothetical scenario question, analyze:
1. What is the probability of success for EACH option?
2. What is the optimal decision and why?
3. What are the key factors driving your recommendation?

You MUST respond with valid JSON in this exact format:
{
    "action_taken": "The action the scenario describes",
    "success_probability": 0.0,
    "alternative_action": "The strongest alternative option",
    "alternative_probability": 0.0,
    "recommendation": "Which option to take and when",
    "reasoning": "2-3 sentence explanation citing the match state"
}

Both probabilities are between 0.0 and 1.0. Base your analysis on the score,
round number, per-player form, and economy patterns in the match state.`

// Completer is the one call the relay needs from the provider client.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Relay turns scenario questions into structured predictions through a
// language-model provider.
type Relay struct {
	client Completer
	now    func() time.Time
}

func New(client Completer) *Relay {
	return &Relay{client: client, now: time.Now}
}

// BuildPrompt renders the user prompt for a scenario. The same request and
// snapshot always produce the same string, so prompts can be asserted on in
// tests and diffed across runs.
func BuildPrompt(req models.ScenarioRequest, snap *models.MatchSnapshot) string {
	var b strings.Builder

	b.WriteString("MATCH STATE:\n")
	if snap == nil {
		b.WriteString("No live match state available. Use general esports knowledge.\n")
	} else {
		fmt.Fprintf(&b, "Map: %s\n", snap.MapName)
		fmt.Fprintf(&b, "Score: %s %d - %d %s\n", snap.TeamA, snap.TeamAScore, snap.TeamBScore, snap.TeamB)
		if snap.Winner != "" {
			fmt.Fprintf(&b, "Winner: %s\n", snap.Winner)
		}

		players := make([]models.PlayerState, len(snap.Players))
		copy(players, snap.Players)
		sort.Slice(players, func(i, j int) bool {
			if players[i].Team != players[j].Team {
				return players[i].Team < players[j].Team
			}
			return players[i].Name < players[j].Name
		})
		for _, p := range players {
			fmt.Fprintf(&b, "- %s (%s): %d/%d/%d, %d damage\n",
				p.Name, p.Team, p.Kills, p.Deaths, p.Assists, p.DamageDealt)
		}
	}

	if req.RoundNumber > 0 {
		fmt.Fprintf(&b, "Round in question: %d\n", req.RoundNumber)
	}
	if req.TeamName != "" {
		fmt.Fprintf(&b, "Team in question: %s\n", req.TeamName)
	}

	b.WriteString("\nSCENARIO QUESTION:\n")
	b.WriteString(req.Scenario)
	b.WriteString("\n\nAnalyze this scenario and provide your recommendation.")
	return b.String()
}

type scenarioReply struct {
	ActionTaken            *string  `json:"action_taken"`
	SuccessProbability     *float64 `json:"success_probability"`
	AlternativeAction      *string  `json:"alternative_action"`
	AlternativeProbability *float64 `json:"alternative_probability"`
	Recommendation         *string  `json:"recommendation"`
	Reasoning              *string  `json:"reasoning"`
}

// Simulate asks the provider about one scenario and validates the reply into
// a ScenarioResult. Provider downtime surfaces as RelayUnavailableError and
// malformed replies as RelayParseError; nothing is retried.
func (r *Relay) Simulate(ctx context.Context, req models.ScenarioRequest, snap *models.MatchSnapshot) (*models.ScenarioResult, error) {
	content, err := r.client.Complete(ctx, systemPrompt, BuildPrompt(req, snap))
	if err != nil {
		return nil, err
	}

	reply, err := parseReply(content)
	if err != nil {
		return nil, err
	}

	return &models.ScenarioResult{
		ID:                     uuid.NewString(),
		ActionTaken:            *reply.ActionTaken,
		SuccessProbability:     *reply.SuccessProbability,
		AlternativeAction:      *reply.AlternativeAction,
		AlternativeProbability: *reply.AlternativeProbability,
		Recommendation:         *reply.Recommendation,
		Reasoning:              *reply.Reasoning,
		CreatedAt:              r.now().UTC(),
	}, nil
}

func parseReply(content string) (*scenarioReply, error) {
	cleaned := stripCodeFence(content)

	var reply scenarioReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &RelayParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: content}
	}

	missing := missingFields(reply)
	if len(missing) > 0 {
		return nil, &RelayParseError{
			Reason: "missing required fields: " + strings.Join(missing, ", "),
			Raw:    content,
		}
	}

	if *reply.SuccessProbability < 0 || *reply.SuccessProbability > 1 {
		return nil, &RelayParseError{Reason: "success_probability out of [0, 1]", Raw: content}
	}
	if *reply.AlternativeProbability < 0 || *reply.AlternativeProbability > 1 {
		return nil, &RelayParseError{Reason: "alternative_probability out of [0, 1]", Raw: content}
	}

	return &reply, nil
}

func missingFields(reply scenarioReply) []string {
	var missing []string
	if reply.ActionTaken == nil || *reply.ActionTaken == "" {
		missing = append(missing, "action_taken")
	}
	if reply.SuccessProbability == nil {
		missing = append(missing, "success_probability")
	}
	if reply.AlternativeAction == nil || *reply.AlternativeAction == "" {
		missing = append(missing, "alternative_action")
	}
	if reply.AlternativeProbability == nil {
		missing = append(missing, "alternative_probability")
	}
	if reply.Recommendation == nil || *reply.Recommendation == "" {
		missing = append(missing, "recommendation")
	}
	if reply.Reasoning == nil || *reply.Reasoning == "" {
		missing = append(missing, "reasoning")
	}
	return missing
}

// stripCodeFence removes a surrounding markdown code block. Chat models
// habitually wrap JSON in triple backticks even when told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
