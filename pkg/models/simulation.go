package models

// Adjustments are optional game-context modifiers for a simulation
type Adjustments struct {
	OpponentDefense float64 `json:"opponent_defense,omitempty"` // Multiplier on shooting; 1.0 = league average, <1 = tougher
	PaceFactor      float64 `json:"pace_factor,omitempty"`      // Multiplier on volume; 1.0 = league average
	BackToBack      bool    `json:"back_to_back,omitempty"`
	MinutesDelta    float64 `json:"minutes_delta,omitempty"` // Expected change in minutes (injuries, rotation)
}

// SimulationInput is everything the simulator needs for one player/stat
type SimulationInput struct {
	Season      SeasonAverages `json:"season"`
	GameLog     []GameLogEntry `json:"game_log"`
	Stat        string         `json:"stat"`
	Iterations  int            `json:"iterations,omitempty"`
	Adjustments Adjustments    `json:"adjustments,omitempty"`
}

// HistogramBin is one unit-width bucket of the simulated distribution
type HistogramBin struct {
	Value int     `json:"value"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// SimulationSummary is the serializable digest of a simulation run
type SimulationSummary struct {
	Stat          string         `json:"stat"`
	Iterations    int            `json:"iterations"`
	Mean          float64        `json:"mean"`
	Median        float64        `json:"median"`
	StdDev        float64        `json:"std_dev"`
	P10           float64        `json:"p10"`
	P25           float64        `json:"p25"`
	P75           float64        `json:"p75"`
	P90           float64        `json:"p90"`
	Line          *float64       `json:"line,omitempty"`
	OverProb      *float64       `json:"over_prob,omitempty"`
	UnderProb     *float64       `json:"under_prob,omitempty"`
	FairOverOdds  *int           `json:"fair_over_odds,omitempty"`
	FairUnderOdds *int           `json:"fair_under_odds,omitempty"`
	Histogram     []HistogramBin `json:"histogram,omitempty"`
	GamesSampled  int            `json:"games_sampled"`
}
