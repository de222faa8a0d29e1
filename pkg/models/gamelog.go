package models

import "time"

// GameLogEntry is one historical game's box-score line for a player
type GameLogEntry struct {
	GameDate  time.Time `json:"game_date"`
	Opponent  string    `json:"opponent"`
	Minutes   float64   `json:"minutes"`
	Points    float64   `json:"points"`
	Rebounds  float64   `json:"rebounds"`
	Assists   float64   `json:"assists"`
	Steals    float64   `json:"steals"`
	Blocks    float64   `json:"blocks"`
	Turnovers float64   `json:"turnovers"`
	FGM       float64   `json:"fgm"`
	FGA       float64   `json:"fga"`
	FG3M      float64   `json:"fg3m"`
	FG3A      float64   `json:"fg3a"`
	FTM       float64   `json:"ftm"`
	FTA       float64   `json:"fta"`
}

// SeasonAverages are per-game season averages for a player
type SeasonAverages struct {
	GamesPlayed int     `json:"games_played"`
	Minutes     float64 `json:"minutes"`
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	Turnovers   float64 `json:"turnovers"`
	FGM         float64 `json:"fgm"`
	FGA         float64 `json:"fga"`
	FG3M        float64 `json:"fg3m"`
	FG3A        float64 `json:"fg3a"`
	FTM         float64 `json:"ftm"`
	FTA         float64 `json:"fta"`
}

// AveragesFromLog derives season averages from a game log when no season row exists
func AveragesFromLog(games []GameLogEntry) SeasonAverages {
	avg := SeasonAverages{GamesPlayed: len(games)}
	if len(games) == 0 {
		return avg
	}

	for _, g := range games {
		avg.Minutes += g.Minutes
		avg.Points += g.Points
		avg.Rebounds += g.Rebounds
		avg.Assists += g.Assists
		avg.Steals += g.Steals
		avg.Blocks += g.Blocks
		avg.Turnovers += g.Turnovers
		avg.FGM += g.FGM
		avg.FGA += g.FGA
		avg.FG3M += g.FG3M
		avg.FG3A += g.FG3A
		avg.FTM += g.FTM
		avg.FTA += g.FTA
	}

	n := float64(len(games))
	avg.Minutes /= n
	avg.Points /= n
	avg.Rebounds /= n
	avg.Assists /= n
	avg.Steals /= n
	avg.Blocks /= n
	avg.Turnovers /= n
	avg.FGM /= n
	avg.FGA /= n
	avg.FG3M /= n
	avg.FG3A /= n
	avg.FTM /= n
	avg.FTA /= n

	return avg
}
