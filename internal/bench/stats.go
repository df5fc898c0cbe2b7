package bench

import (
	"math"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	http "github.com/jabtool/jab/internal/http"
)

// histogram bounds: 1 microsecond to 1 hour, 3 significant figures.
const (
	histMinMicros = 1
	histMaxMicros = 3600000000
	histSigFigs   = 3
)

// LatencyStats summarizes the per-sample latencies of a run.
//
// Mean, Median, Min, Max and the percentiles are exact values computed
// from the sorted sample sequence; percentiles use the nearest-rank
// method (rank = ceil(q/100 * n), fractional ranks always rounded up),
// so two runs over identical samples report identical numbers. StdDev
// comes from the HDR histogram that also backs the distribution
// breakdown.
type LatencyStats struct {
	Mean   time.Duration
	Median time.Duration
	Min    time.Duration
	Max    time.Duration
	StdDev time.Duration
	P50    time.Duration
	P90    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// Bracket is one line of the latency distribution breakdown.
type Bracket struct {
	Quantile float64
	Value    time.Duration
}

// Result is the immutable outcome of a benchmark run, computed once from
// the full sample sequence after the run completes.
type Result struct {
	// URL is the probed target.
	URL string

	// Samples holds every recorded outcome in issuance order.
	Samples []*http.Response

	// Requests is the number of samples taken.
	Requests int

	// Successes counts samples with Success() true.
	Successes int

	// Failures counts everything else, transport failures included.
	Failures int

	// TotalDuration is the wall clock around the whole run, idle gaps
	// from rate limiting included.
	TotalDuration time.Duration

	// Latency summarizes the per-sample durations.
	Latency LatencyStats

	hist *hdrhistogram.Histogram
}

// SuccessRate returns successes/requests in [0, 1].
func (r *Result) SuccessRate() float64 {
	if r.Requests == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Requests)
}

// RequestsPerSecond returns throughput across the entire run:
// requests / total wall-clock duration.
func (r *Result) RequestsPerSecond() float64 {
	secs := r.TotalDuration.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(r.Requests) / secs
}

// Distribution returns the histogram-backed latency breakdown used by
// verbose output. Values are quantized to the histogram's precision.
func (r *Result) Distribution() []Bracket {
	quantiles := []float64{10, 25, 50, 75, 90, 95, 99, 99.9}
	brackets := make([]Bracket, 0, len(quantiles))
	for _, q := range quantiles {
		brackets = append(brackets, Bracket{
			Quantile: q,
			Value:    time.Duration(r.hist.ValueAtQuantile(q)) * time.Microsecond,
		})
	}
	return brackets
}

func newResult(url string, samples []*http.Response, total time.Duration) *Result {
	r := &Result{
		URL:           url,
		Samples:       samples,
		Requests:      len(samples),
		TotalDuration: total,
		hist:          hdrhistogram.New(histMinMicros, histMaxMicros, histSigFigs),
	}

	latencies := make([]time.Duration, 0, len(samples))
	var sum time.Duration
	for _, s := range samples {
		if s.Success() {
			r.Successes++
		} else {
			r.Failures++
		}
		latencies = append(latencies, s.Duration)
		sum += s.Duration

		micros := s.Duration.Microseconds()
		if micros < histMinMicros {
			micros = histMinMicros
		}
		if micros > histMaxMicros {
			micros = histMaxMicros
		}
		r.hist.RecordValue(micros)
	}

	if len(latencies) == 0 {
		return r
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	r.Latency = LatencyStats{
		Mean:   sum / time.Duration(len(latencies)),
		Median: Percentile(latencies, 50),
		Min:    latencies[0],
		Max:    latencies[len(latencies)-1],
		StdDev: time.Duration(r.hist.StdDev()) * time.Microsecond,
		P50:    Percentile(latencies, 50),
		P90:    Percentile(latencies, 90),
		P95:    Percentile(latencies, 95),
		P99:    Percentile(latencies, 99),
	}
	return r
}

// Percentile returns the q-th percentile of an ascending latency slice
// using the nearest-rank method: rank = ceil(q/100 * n). Fractional
// ranks always round up, so the result is one of the observed samples
// and is identical for identical inputs.
func Percentile(sorted []time.Duration, q float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(q / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
