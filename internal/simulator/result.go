package simulator

import (
	"fmt"
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/oddsmath"
)

// Result is one simulation run: the sorted sample plus its summary statistics.
// Never cached; every request simulates fresh.
type Result struct {
	Stat         string
	Samples      []float64 // Sorted ascending
	Mean         float64
	Median       float64
	StdDev       float64
	P10          float64
	P25          float64
	P75          float64
	P90          float64
	GamesSampled int
}

func newResult(stat string, sorted []float64, gamesSampled int) *Result {
	return &Result{
		Stat:         stat,
		Samples:      sorted,
		Mean:         mean(sorted),
		Median:       median(sorted),
		StdDev:       stdDev(sorted),
		P10:          percentile(sorted, 0.10),
		P25:          percentile(sorted, 0.25),
		P75:          percentile(sorted, 0.75),
		P90:          percentile(sorted, 0.90),
		GamesSampled: gamesSampled,
	}
}

// HitProbability is the fraction of samples strictly above (over) or strictly
// below (under) the line. Samples landing on the line are pushes.
func (r *Result) HitProbability(line float64, side models.Side) float64 {
	n := len(r.Samples)
	if n == 0 {
		return 0
	}

	switch side {
	case models.SideUnder:
		below := sort.Search(n, func(i int) bool { return r.Samples[i] >= line })
		return float64(below) / float64(n)
	default:
		atOrBelow := sort.Search(n, func(i int) bool { return r.Samples[i] > line })
		return float64(n-atOrBelow) / float64(n)
	}
}

// FairOdds returns the no-vig American price for each side of the line
func (r *Result) FairOdds(line float64) (over, under int) {
	return oddsmath.ProbabilityToAmerican(r.HitProbability(line, models.SideOver)),
		oddsmath.ProbabilityToAmerican(r.HitProbability(line, models.SideUnder))
}

// Histogram buckets the sample into unit-width bins, ascending by value
func (r *Result) Histogram() []models.HistogramBin {
	n := len(r.Samples)
	if n == 0 {
		return nil
	}

	var bins []models.HistogramBin
	for _, v := range r.Samples {
		bucket := int(math.Floor(v))
		if len(bins) == 0 || bins[len(bins)-1].Value != bucket {
			bins = append(bins, models.HistogramBin{Value: bucket})
		}
		bins[len(bins)-1].Count++
	}

	for i := range bins {
		bins[i].Pct = oddsmath.RoundTo(float64(bins[i].Count)/float64(n)*100, 2)
	}
	return bins
}

// Summary returns the serializable digest, with hit probabilities and fair odds
// when a line is given
func (r *Result) Summary(line *float64) models.SimulationSummary {
	summary := models.SimulationSummary{
		Stat:         r.Stat,
		Iterations:   len(r.Samples),
		Mean:         oddsmath.RoundTo(r.Mean, 2),
		Median:       r.Median,
		StdDev:       oddsmath.RoundTo(r.StdDev, 2),
		P10:          r.P10,
		P25:          r.P25,
		P75:          r.P75,
		P90:          r.P90,
		Histogram:    r.Histogram(),
		GamesSampled: r.GamesSampled,
	}

	if line != nil {
		l := *line
		over := r.HitProbability(l, models.SideOver)
		under := r.HitProbability(l, models.SideUnder)
		overOdds, underOdds := r.FairOdds(l)

		summary.Line = &l
		summary.OverProb = &over
		summary.UnderProb = &under
		summary.FairOverOdds = &overOdds
		summary.FairUnderOdds = &underOdds
	}

	return summary
}

// String implements fmt.Stringer for log lines
func (r *Result) String() string {
	return fmt.Sprintf("%s: mean=%.2f median=%.1f sd=%.2f n=%d", r.Stat, r.Mean, r.Median, r.StdDev, len(r.Samples))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile uses the nearest-rank index into a sorted sample
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
