// Package logic holds the service layer: pure stat derivation, the
// cache-aware stats orchestration, scenario simulation, and series history.
package logic

import (
	"math"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

// Stat derivation is deliberately pure: no network, no cache, no clock.
// Every function guards its denominators and pairs the neutral zero with an
// explicit unavailable flag instead of presenting missing data as a
// measured value.

// PlayerCombatScore derives ACS as total damage dealt per round played.
// With no rounds on record there is nothing to average over.
func PlayerCombatScore(p models.PlayerState, roundsPlayed int) models.Metric {
	if roundsPlayed <= 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(p.DamageDealt) / float64(roundsPlayed)))
}

// AverageDamagePerRound derives ADR with the same zero-guard as ACS.
func AverageDamagePerRound(p models.PlayerState, roundsPlayed int) models.Metric {
	if roundsPlayed <= 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(p.DamageDealt) / float64(roundsPlayed)))
}

// HeadshotPercentage derives HS% from headshots over kills.
func HeadshotPercentage(p models.PlayerState) models.Metric {
	if p.Kills <= 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(p.Headshots) / float64(p.Kills) * 100))
}

// FirstBloodRate is the share of rounds the player opened with a kill.
func FirstBloodRate(p models.PlayerState, roundsPlayed int) models.Metric {
	if roundsPlayed <= 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(p.FirstBloods) / float64(roundsPlayed) * 100))
}

// ClutchRate is the share of rounds the player closed out as last alive.
func ClutchRate(p models.PlayerState, roundsPlayed int) models.Metric {
	if roundsPlayed <= 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(p.ClutchWins) / float64(roundsPlayed) * 100))
}

// KAST derives the percentage of rounds in which the named player recorded
// a kill, assist, survival, or traded death. It needs round-by-round state;
// historical snapshots routinely lack it, in which case the metric is
// unavailable rather than estimated.
func KAST(playerName string, rounds []models.Round) models.Metric {
	if len(rounds) == 0 {
		return models.Unavailable()
	}

	observed := 0
	contributed := 0
	for _, r := range rounds {
		for _, p := range r.Players {
			if p.Name != playerName {
				continue
			}
			observed++
			if p.Kills > 0 || p.Assists > 0 || p.Survived || p.Traded {
				contributed++
			}
			break
		}
	}

	if observed == 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(contributed) / float64(observed) * 100))
}

// EconomyBreakdown derives per-round-type win rates for a team. Each rate
// needs the provider's round-type tags; a type with no tagged rounds is
// reported unavailable.
func EconomyBreakdown(rounds []models.Round, team string) map[string]models.Metric {
	ratesByType := map[string]string{
		models.RoundTypePistol:  models.MetricPistolWinRate,
		models.RoundTypeEco:     models.MetricEcoWinRate,
		models.RoundTypeForce:   models.MetricForceWinRate,
		models.RoundTypeFullBuy: models.MetricFullBuyWinRate,
	}

	played := make(map[string]int)
	won := make(map[string]int)
	for _, r := range rounds {
		if _, tagged := ratesByType[r.Type]; !tagged {
			continue
		}
		played[r.Type]++
		if r.Winner == team {
			won[r.Type]++
		}
	}

	out := make(map[string]models.Metric, len(ratesByType))
	for roundType, metricName := range ratesByType {
		n := played[roundType]
		if n == 0 {
			out[metricName] = models.Unavailable()
			continue
		}
		out[metricName] = models.Computed(round1(float64(won[roundType]) / float64(n) * 100))
	}
	return out
}

// PlayerBundle assembles the full metric bundle for one player against the
// snapshot that owns it.
func PlayerBundle(p models.PlayerState, snap *models.MatchSnapshot) models.DerivedMetricBundle {
	return models.DerivedMetricBundle{
		Subject: p.Name,
		Scope:   models.ScopePlayer,
		Team:    p.Team,
		Metrics: map[string]models.Metric{
			models.MetricACS:            PlayerCombatScore(p, p.RoundsPlayed),
			models.MetricADR:            AverageDamagePerRound(p, p.RoundsPlayed),
			models.MetricHeadshotPct:    HeadshotPercentage(p),
			models.MetricKASTPct:        KAST(p.Name, snap.Rounds),
			models.MetricFirstBloodRate: FirstBloodRate(p, p.RoundsPlayed),
			models.MetricClutchRate:     ClutchRate(p, p.RoundsPlayed),
		},
	}
}

// TeamBundle aggregates team-wide metrics: roster averages over the players
// plus the economy breakdown from round tags.
func TeamBundle(snap *models.MatchSnapshot, team string) models.DerivedMetricBundle {
	players := snap.TeamPlayers(team)

	metrics := map[string]models.Metric{
		models.MetricACS:            rosterAverage(players, snap, PlayerCombatScore),
		models.MetricADR:            rosterAverage(players, snap, AverageDamagePerRound),
		models.MetricHeadshotPct:    teamHeadshotPct(players),
		models.MetricKASTPct:        teamKAST(players, snap.Rounds),
		models.MetricFirstBloodRate: rosterAverage(players, snap, FirstBloodRate),
	}
	for name, m := range EconomyBreakdown(snap.Rounds, team) {
		metrics[name] = m
	}

	return models.DerivedMetricBundle{
		Subject: team,
		Scope:   models.ScopeTeam,
		Team:    team,
		Metrics: metrics,
	}
}

func rosterAverage(players []models.PlayerState, snap *models.MatchSnapshot, fn func(models.PlayerState, int) models.Metric) models.Metric {
	sum := 0.0
	n := 0
	for _, p := range players {
		m := fn(p, p.RoundsPlayed)
		if m.Provenance != models.ProvenanceComputed {
			continue
		}
		sum += m.Value
		n++
	}
	if n == 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(sum / float64(n)))
}

func teamHeadshotPct(players []models.PlayerState) models.Metric {
	kills, headshots := 0, 0
	for _, p := range players {
		kills += p.Kills
		headshots += p.Headshots
	}
	if kills == 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(float64(headshots) / float64(kills) * 100))
}

func teamKAST(players []models.PlayerState, rounds []models.Round) models.Metric {
	sum := 0.0
	n := 0
	for _, p := range players {
		m := KAST(p.Name, rounds)
		if m.Provenance != models.ProvenanceComputed {
			continue
		}
		sum += m.Value
		n++
	}
	if n == 0 {
		return models.Unavailable()
	}
	return models.Computed(round1(sum / float64(n)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
