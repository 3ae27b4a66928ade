package analysis

import (
	"time"

	"github.com/EhsanKA/raspr/pkg/estimator"
)

// Record is one ingested entry of the RR stream: a timestamp and the RR
// intervals (milliseconds) observed from that instant onward.
type Record struct {
	TS time.Time `json:"ts"`
	RR []float64 `json:"rr"`
}

// WindowReport is the per-window slice of the aggregated report.
type WindowReport struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Partial bool      `json:"partial,omitempty"`
	Samples int       `json:"samples"`

	// Results is keyed by method name; iterate via Report.Methods for a
	// stable order.
	Results map[string]estimator.Result `json:"results"`

	// Summary holds the optional cross-method statistics.
	Summary *Spread `json:"summary,omitempty"`
}

// Spread summarizes agreement across the valid methods of one window.
type Spread struct {
	Valid int     `json:"valid"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// Report is the aggregated result of one run: ordered window entries plus
// run metadata. It is created once and read-only thereafter.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	WindowLen   time.Duration  `json:"window_len"`
	Methods     []string       `json:"methods"`
	Windows     []WindowReport `json:"windows"`
}

// MethodSummary aggregates one method's results over the whole run.
type MethodSummary struct {
	Method  string  `json:"method"`
	Total   int     `json:"total"`
	Valid   int     `json:"valid"`
	Clamped int     `json:"clamped"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`

	// InRange is the share of valid results inside [brMin, brMax].
	InRange float64 `json:"in_range"`
}

// Summarize computes per-method run totals against the given physiological
// bounds.
func (r *Report) Summarize(brMin, brMax float64) []MethodSummary {
	out := make([]MethodSummary, 0, len(r.Methods))
	for _, name := range r.Methods {
		s := MethodSummary{Method: name}
		var sum float64
		var inRange int
		for _, w := range r.Windows {
			res, ok := w.Results[name]
			if !ok {
				continue
			}
			s.Total++
			if !res.Valid {
				continue
			}
			v := float64(res.BPM)
			if s.Valid == 0 || v < s.Min {
				s.Min = v
			}
			if s.Valid == 0 || v > s.Max {
				s.Max = v
			}
			s.Valid++
			sum += v
			if res.Clamped {
				s.Clamped++
			}
			if v >= brMin && v <= brMax {
				inRange++
			}
		}
		if s.Valid > 0 {
			s.Mean = sum / float64(s.Valid)
			s.InRange = float64(inRange) / float64(s.Valid)
		}
		out = append(out, s)
	}
	return out
}
