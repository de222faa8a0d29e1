package simulator

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
)

// Base counting stats the simulator can draw directly
const (
	StatPoints    = "points"
	StatRebounds  = "rebounds"
	StatAssists   = "assists"
	StatSteals    = "steals"
	StatBlocks    = "blocks"
	StatTurnovers = "turnovers"
	StatThrees    = "threes"
)

// Additive combination stats
const (
	StatPointsReboundsAssists = "points_rebounds_assists"
	StatPointsRebounds        = "points_rebounds"
	StatPointsAssists         = "points_assists"
	StatReboundsAssists       = "rebounds_assists"
	StatBlocksSteals          = "blocks_steals"
)

var statComponents = map[string][]string{
	StatPoints:                {StatPoints},
	StatRebounds:              {StatRebounds},
	StatAssists:               {StatAssists},
	StatSteals:                {StatSteals},
	StatBlocks:                {StatBlocks},
	StatTurnovers:             {StatTurnovers},
	StatThrees:                {StatThrees},
	StatPointsReboundsAssists: {StatPoints, StatRebounds, StatAssists},
	StatPointsRebounds:        {StatPoints, StatRebounds},
	StatPointsAssists:         {StatPoints, StatAssists},
	StatReboundsAssists:       {StatRebounds, StatAssists},
	StatBlocksSteals:          {StatBlocks, StatSteals},
}

// Short names bettors and bet slips use
var statAliases = map[string]string{
	"pts":    StatPoints,
	"reb":    StatRebounds,
	"ast":    StatAssists,
	"stl":    StatSteals,
	"blk":    StatBlocks,
	"tov":    StatTurnovers,
	"3pm":    StatThrees,
	"pra":    StatPointsReboundsAssists,
	"pr":     StatPointsRebounds,
	"pa":     StatPointsAssists,
	"ra":     StatReboundsAssists,
	"stocks": StatBlocksSteals,
}

// NormalizeStat resolves a stat name or alias to its canonical name
func NormalizeStat(stat string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(stat))
	if alias, ok := statAliases[key]; ok {
		key = alias
	}
	if _, ok := statComponents[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	return key, nil
}

// StatForMarket maps a player-prop market key (player_points, player_points_rebounds_assists, ...)
// to the simulator stat it prices
func StatForMarket(marketKey string) (string, bool) {
	if !models.IsPlayerPropMarket(marketKey) {
		return "", false
	}
	stat, err := NormalizeStat(strings.TrimPrefix(marketKey, "player_"))
	if err != nil {
		return "", false
	}
	return stat, true
}

// Components returns the base stats that sum to stat
func Components(stat string) []string {
	return statComponents[stat]
}

// countStat reads a simple counting stat off a box score
func countStat(g models.GameLogEntry, stat string) float64 {
	switch stat {
	case StatRebounds:
		return g.Rebounds
	case StatAssists:
		return g.Assists
	case StatSteals:
		return g.Steals
	case StatBlocks:
		return g.Blocks
	case StatTurnovers:
		return g.Turnovers
	case StatThrees:
		return g.FG3M
	case StatPoints:
		return g.Points
	}
	return 0
}
