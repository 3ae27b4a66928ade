package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/EhsanKA/raspr/pkg/estimator"
)

var (
	// ErrNoRecords indicates an empty input stream.
	ErrNoRecords = errors.New("analysis: no records")

	// ErrBadWindow indicates a non-positive window length.
	ErrBadWindow = errors.New("analysis: window length must be > 0")
)

// Options configures one analysis run. Window length has no engine default;
// the caller always supplies it.
type Options struct {
	// Window is the length of each analysis window.
	Window time.Duration

	// Methods are the registry names to run, in report order. Empty means
	// every registered method.
	Methods []string

	// Details keeps each method's intermediate diagnostics on the results.
	Details bool

	// Summary adds per-window cross-method statistics.
	Summary bool
}

// Analyzer runs a set of estimation methods over a windowed RR stream.
type Analyzer struct {
	opts    Options
	names   []string
	methods []estimator.Estimator
}

// New validates the options against the registry. Unknown method names fail
// here, before any data is touched.
func New(reg *estimator.Registry, opts Options) (*Analyzer, error) {
	if opts.Window <= 0 {
		return nil, ErrBadWindow
	}
	names := opts.Methods
	if len(names) == 0 {
		names = reg.Methods()
	}

	a := &Analyzer{opts: opts, names: names}
	for _, name := range names {
		e, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		a.methods = append(a.methods, e)
	}
	return a, nil
}

// Methods returns the method names this analyzer runs, in report order.
func (a *Analyzer) Methods() []string { return append([]string(nil), a.names...) }

// beat is one RR interval placed at its cumulative timestamp.
type beat struct {
	at time.Time
	rr float64
}

// Run partitions the stream into consecutive windows and produces the
// aggregated report. Each (window, method) computation is pure; the report
// order is deterministic regardless of how Run is implemented internally.
func (a *Analyzer) Run(records []Record) (*Report, error) {
	origin, beats, err := expand(records)
	if err != nil {
		return nil, err
	}
	streamEnd := beats[len(beats)-1].at

	// bucket intervals by window index of their cumulative timestamp
	buckets := map[int][]float64{}
	maxIdx := 0
	for _, b := range beats {
		idx := int(b.at.Sub(origin) / a.opts.Window)
		buckets[idx] = append(buckets[idx], b.rr)
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	rep := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		WindowLen:   a.opts.Window,
		Methods:     a.Methods(),
	}

	for idx := 0; idx <= maxIdx; idx++ {
		rr, ok := buckets[idx]
		if !ok {
			continue // silent stretch of the stream
		}
		start := origin.Add(time.Duration(idx) * a.opts.Window)
		end := start.Add(a.opts.Window)
		partial := false
		if end.After(streamEnd) && idx == maxIdx {
			end = streamEnd
			partial = true
		}

		w := estimator.Window{Start: start, End: end, Intervals: rr, Partial: partial}
		entry := WindowReport{
			Start:   start,
			End:     end,
			Partial: partial,
			Samples: len(rr),
			Results: make(map[string]estimator.Result, len(a.methods)),
		}
		for _, e := range a.methods {
			res := e.Estimate(w)
			if !a.opts.Details {
				res.Details = nil
			}
			entry.Results[e.Name()] = res
		}
		if a.opts.Summary {
			entry.Summary = crossMethod(a.names, entry.Results)
		}
		rep.Windows = append(rep.Windows, entry)
	}
	return rep, nil
}

// expand flattens records into cumulative-timestamped beats, ordered in
// time, and returns the stream origin (the earliest record timestamp).
// Intervals within a record stack onto its timestamp.
func expand(records []Record) (time.Time, []beat, error) {
	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	var beats []beat
	for _, rec := range sorted {
		at := rec.TS
		for _, rr := range rec.RR {
			at = at.Add(time.Duration(rr * float64(time.Millisecond)))
			beats = append(beats, beat{at: at, rr: rr})
		}
	}
	if len(beats) == 0 {
		return time.Time{}, nil, fmt.Errorf("%w: %d records, no intervals", ErrNoRecords, len(records))
	}
	sort.SliceStable(beats, func(i, j int) bool { return beats[i].at.Before(beats[j].at) })
	return sorted[0].TS, beats, nil
}

// crossMethod derives the per-window agreement statistics over the valid
// results, iterating methods in report order for determinism.
func crossMethod(names []string, results map[string]estimator.Result) *Spread {
	s := &Spread{}
	var sum float64
	for _, name := range names {
		res, ok := results[name]
		if !ok || !res.Valid {
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
	}
	if s.Valid > 0 {
		s.Mean = sum / float64(s.Valid)
		s.Range = s.Max - s.Min
	}
	return s
}
