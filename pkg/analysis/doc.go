// Package analysis slices a continuous RR-interval record stream into fixed
// time windows, runs the requested estimation methods on each window, and
// assembles an ordered, reproducible report.
//
// Windows are consecutive and non-overlapping; each interval lands in the
// window containing its cumulative timestamp. A trailing window shorter than
// the configured length is still analyzed and flagged partial, and windows
// that receive no intervals are omitted. Report ordering is deterministic:
// windows by start time, methods in the order they were requested.
package analysis
