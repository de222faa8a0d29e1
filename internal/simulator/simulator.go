package simulator

import (
	"errors"
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

const (
	// DefaultIterations is used when neither the input nor the simulator sets a count
	DefaultIterations = 10000

	// MaxIterations bounds a single request's CPU cost
	MaxIterations = 100000

	maxMinutes        = 48.0
	backToBackMinutes = 0.95

	// Share of the defensive multiplier that also suppresses shot volume
	defenseVolumeShare = 0.5
)

var (
	ErrEmptyGameLog = errors.New("simulator: game log is empty")
	ErrUnknownStat  = errors.New("simulator: unknown stat")
)

// Shooting-percentage bounds and the league-typical rates used when a
// player has no attempts in the window
var (
	fieldGoalBounds  = pctBounds{min: 0.20, max: 0.70, fallback: 0.46}
	threePointBounds = pctBounds{min: 0.15, max: 0.55, fallback: 0.36}
	freeThrowBounds  = pctBounds{min: 0.50, max: 1.00, fallback: 0.78}
)

// Simulator draws synthetic game outcomes for a player statistic.
// It holds no per-run state; every Run owns its RandSource.
type Simulator struct {
	defaultIterations int
}

// New creates a simulator. iterations <= 0 selects DefaultIterations.
func New(iterations int) *Simulator {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if iterations > MaxIterations {
		iterations = MaxIterations
	}
	return &Simulator{defaultIterations: iterations}
}

// Run simulates input.Iterations games for input.Stat.
//
// Per iteration:
// 1. Minutes ~ N(recent mean, recent sd), ×0.95 on a back-to-back, + minutes delta, clamped to [0, 48]
// 2. Minutes factor = sampled minutes / season minutes
// 3. Points: FGA/3PA/FTA volume and percentages drawn independently, points = 2·(FGM−3PM) + 3·3PM + FTM
// 4. Other counting stats: N(recent mean, recent sd) × minutes factor × pace
// 5. Combination stats sum their components, each drawn independently in the same iteration
//
// Components of a combination share the iteration's minutes draw. Its variance therefore
// carries the covariance that playing time induces between them; drawing minutes per
// component would make the components fully independent and understate the spread.
//
// The game log must be non-empty.
func (s *Simulator) Run(input models.SimulationInput, rng RandSource) (*Result, error) {
	if len(input.GameLog) == 0 {
		return nil, ErrEmptyGameLog
	}

	stat, err := NormalizeStat(input.Stat)
	if err != nil {
		return nil, err
	}

	iterations := input.Iterations
	if iterations <= 0 {
		iterations = s.defaultIterations
	}
	if iterations > MaxIterations {
		iterations = MaxIterations
	}

	p := fitProfile(input.Season, input.GameLog)
	adj := normalizeAdjustments(input.Adjustments)
	components := Components(stat)

	samples := make([]float64, iterations)
	for i := range samples {
		minutesFactor := p.sampleMinutesFactor(adj, rng)

		total := 0.0
		for _, c := range components {
			total += p.sampleStat(c, minutesFactor, adj, rng)
		}
		samples[i] = total
	}

	sort.Float64s(samples)

	return newResult(stat, samples, len(input.GameLog)), nil
}

// dist is a normal distribution fit to the recent-game window
type dist struct {
	mean float64
	sd   float64
}

func (d dist) sample(rng RandSource) float64 {
	return d.mean + d.sd*rng.NormFloat64()
}

type pctBounds struct {
	min, max, fallback float64
}

// shooting pairs an attempt-volume distribution with a success-rate distribution
type shooting struct {
	attempts dist
	pct      dist
	bounds   pctBounds
}

// makes draws one game's made shots
func (sh shooting) makes(volume, defense float64, rng RandSource) float64 {
	attempts := math.Max(0, sh.attempts.sample(rng)) * volume
	pct := oddsmath.Clamp(sh.pct.sample(rng)*defense, sh.bounds.min, sh.bounds.max)
	return math.Round(attempts * pct)
}

// profile is everything fit from the season averages and game log once per run
type profile struct {
	minutes       dist
	seasonMinutes float64
	counts        map[string]dist
	fieldGoals    shooting
	threes        shooting
	freeThrows    shooting
	hasShooting   bool // False when the source only reports points
}

func fitProfile(season models.SeasonAverages, games []models.GameLogEntry) profile {
	minutes := column(games, func(g models.GameLogEntry) float64 { return g.Minutes })

	p := profile{
		minutes:       fitMinutes(minutes),
		seasonMinutes: season.Minutes,
		counts:        make(map[string]dist),
	}
	if p.seasonMinutes <= 0 {
		p.seasonMinutes = p.minutes.mean
	}

	for _, stat := range []string{StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks, StatTurnovers, StatThrees} {
		p.counts[stat] = fitCount(column(games, func(g models.GameLogEntry) float64 { return countStat(g, stat) }))
	}

	p.fieldGoals = fitShooting(games, fieldGoalBounds, seasonPct(season.FGM, season.FGA),
		func(g models.GameLogEntry) (float64, float64) { return g.FGM, g.FGA })
	p.threes = fitShooting(games, threePointBounds, seasonPct(season.FG3M, season.FG3A),
		func(g models.GameLogEntry) (float64, float64) { return g.FG3M, g.FG3A })
	p.freeThrows = fitShooting(games, freeThrowBounds, seasonPct(season.FTM, season.FTA),
		func(g models.GameLogEntry) (float64, float64) { return g.FTM, g.FTA })

	for _, g := range games {
		if g.FGA > 0 || g.FTA > 0 {
			p.hasShooting = true
			break
		}
	}

	return p
}

func (p profile) sampleMinutesFactor(adj models.Adjustments, rng RandSource) float64 {
	minutes := p.minutes.sample(rng)
	if adj.BackToBack {
		minutes *= backToBackMinutes
	}
	minutes = oddsmath.Clamp(minutes+adj.MinutesDelta, 0, maxMinutes)

	if p.seasonMinutes <= 0 {
		return 1
	}
	return minutes / p.seasonMinutes
}

func (p profile) sampleStat(stat string, minutesFactor float64, adj models.Adjustments, rng RandSource) float64 {
	if stat == StatPoints && p.hasShooting {
		volume := minutesFactor * adj.PaceFactor * (1 + (adj.OpponentDefense-1)*defenseVolumeShare)

		fgm := p.fieldGoals.makes(volume, adj.OpponentDefense, rng)
		fg3m := math.Min(p.threes.makes(volume, adj.OpponentDefense, rng), fgm)
		ftm := p.freeThrows.makes(volume, adj.OpponentDefense, rng)

		return 2*(fgm-fg3m) + 3*fg3m + ftm
	}

	d := p.counts[stat]
	return math.Round(math.Max(0, d.sample(rng)) * minutesFactor * adj.PaceFactor)
}

// normalizeAdjustments turns zero-valued multipliers into neutral ones
func normalizeAdjustments(adj models.Adjustments) models.Adjustments {
	if adj.OpponentDefense <= 0 {
		adj.OpponentDefense = 1
	}
	if adj.PaceFactor <= 0 {
		adj.PaceFactor = 1
	}
	return adj
}

// fitMinutes falls back to a 10% spread when the window has no variance
func fitMinutes(values []float64) dist {
	d := dist{mean: mean(values), sd: stdDev(values)}
	if d.sd <= 0 {
		d.sd = 0.1 * d.mean
	}
	return d
}

// fitCount falls back to sqrt(mean), the Poisson spread, when the window has no variance
func fitCount(values []float64) dist {
	d := dist{mean: mean(values), sd: stdDev(values)}
	if d.sd <= 0 {
		d.sd = math.Sqrt(d.mean)
	}
	return d
}

func fitShooting(games []models.GameLogEntry, bounds pctBounds, seasonRate float64, read func(models.GameLogEntry) (made, attempted float64)) shooting {
	attempts := make([]float64, 0, len(games))
	pcts := make([]float64, 0, len(games))
	for _, g := range games {
		made, attempted := read(g)
		attempts = append(attempts, attempted)
		if attempted > 0 {
			pcts = append(pcts, made/attempted)
		}
	}

	pct := dist{mean: mean(pcts), sd: stdDev(pcts)}
	if len(pcts) == 0 {
		pct.mean = bounds.fallback
		if seasonRate > 0 {
			pct.mean = seasonRate
		}
	}
	pct.mean = oddsmath.Clamp(pct.mean, bounds.min, bounds.max)

	return shooting{
		attempts: fitCount(attempts),
		pct:      pct,
		bounds:   bounds,
	}
}

func seasonPct(made, attempted float64) float64 {
	if attempted <= 0 {
		return 0
	}
	return made / attempted
}

func column(games []models.GameLogEntry, read func(models.GameLogEntry) float64) []float64 {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = read(g)
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}

