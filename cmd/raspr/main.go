package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/EhsanKA/raspr/pkg/analysis"
	"github.com/EhsanKA/raspr/pkg/estimator"
)

type opts struct {
	// run
	window  time.Duration
	methods []string
	details bool
	summary bool
	ema     float64

	// config file (flags override it)
	configPath string

	// outputs
	pretty   bool
	csvPath  string
	jsonPath string
	htmlPath string
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "raspr [FILE]",
		Short: "Breathing rate estimation from RR interval streams",
		Long: `The raspr tool estimates breathing rate (breaths per minute) from heart
rate variability data. It reads a JSON stream of timestamped RR intervals,
partitions it into analysis windows, and runs each configured estimation
method per window: HRV time-domain features, spectral analysis of the
resampled tachogram, and a statistical baseline.

Reads FILE, or stdin when FILE is '-' or omitted.

Examples:
  raspr --window 30s session.json
  raspr -m spectral_analysis -m hrv_time_domain --summary session.json
  raspr --config raspr.yaml --csv out.csv --json report.json session.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
	}

	root.Flags().DurationVarP(&o.window, "window", "w", analysis.DefaultWindow, "analysis window length (e.g. 30s, 1m)")
	root.Flags().StringArrayVarP(&o.methods, "methods", "m", nil, "estimation methods to run (default: all)")
	root.Flags().BoolVar(&o.details, "details", false, "keep per-method diagnostics in file outputs")
	root.Flags().BoolVar(&o.summary, "summary", false, "add per-window cross-method statistics")
	root.Flags().Float64Var(&o.ema, "ema", 0, "EMA alpha for smoothed series [0..1], 0 disables")
	root.Flags().StringVar(&o.configPath, "config", "", "YAML run configuration (flags take precedence)")

	root.Flags().BoolVar(&o.pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	root.Flags().StringVar(&o.csvPath, "csv", "", "write per-window rows to CSV file")
	root.Flags().StringVar(&o.jsonPath, "json", "", "write the full report to JSON file")
	root.Flags().StringVar(&o.htmlPath, "html", "", "write report and summary to HTML file")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, o opts, args []string) error {
	constants := &estimator.Config{}
	if o.configPath != "" {
		cfg, err := analysis.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		constants = cfg.Constants.EstimatorConfig()
		if !cmd.Flags().Changed("window") {
			o.window = cfg.Window()
		}
		if !cmd.Flags().Changed("methods") {
			o.methods = cfg.Methods
		}
		if !cmd.Flags().Changed("details") {
			o.details = cfg.Details
		}
		if !cmd.Flags().Changed("summary") {
			o.summary = cfg.Summary
		}
		if !cmd.Flags().Changed("ema") {
			o.ema = cfg.EMA
		}
	}
	if o.ema < 0 || o.ema > 1 {
		return fmt.Errorf("ema must be in [0,1]")
	}

	records, err := readRecords(args)
	if err != nil {
		return err
	}

	reg := estimator.NewRegistry(constants)
	a, err := analysis.New(reg, analysis.Options{
		Window:  o.window,
		Methods: o.methods,
		Details: o.details,
		Summary: o.summary,
	})
	if err != nil {
		return err
	}

	rep, err := a.Run(records)
	if err != nil {
		return err
	}

	// stdout
	if o.pretty {
		printTable(rep, o.summary)
	} else {
		printCsvLike(rep)
	}
	if o.ema > 0 {
		printSmoothed(rep, o.ema)
	}
	merged := estimator.NewConfig(constants)
	printRunSummary(rep, merged.BRMin, merged.BRMax)

	// file outputs
	if o.csvPath != "" {
		if err := writeCSV(o.csvPath, rep); err != nil {
			slog.Warn("write csv", "err", err)
		}
	}
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, rep); err != nil {
			slog.Warn("write json", "err", err)
		}
	}
	if o.htmlPath != "" {
		if err := writeHTML(o.htmlPath, rep, merged.BRMin, merged.BRMax); err != nil {
			slog.Warn("write html", "err", err)
		}
	}
	return nil
}

// inputRecord accepts ts as unix seconds or an RFC 3339 string.
type inputRecord struct {
	TS json.RawMessage `json:"ts"`
	RR []float64       `json:"rr"`
}

func readRecords(args []string) ([]analysis.Record, error) {
	var r io.Reader = os.Stdin
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r, name = f, args[0]
	}

	var raw []inputRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	records := make([]analysis.Record, 0, len(raw))
	for i, in := range raw {
		ts, err := parseTS(in.TS)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		records = append(records, analysis.Record{TS: ts, RR: in.RR})
	}
	return records, nil
}

func parseTS(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, fmt.Errorf("missing ts")
	}
	var sec float64
	if err := json.Unmarshal(raw, &sec); err == nil {
		whole, frac := math.Modf(sec)
		return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("ts must be unix seconds or RFC 3339: %s", raw)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse ts %q: %w", s, err)
	}
	return t, nil
}

func fmtBPM(res estimator.Result) string {
	if !res.Valid {
		return "-(" + res.Reason + ")"
	}
	s := strconv.FormatFloat(float64(res.BPM), 'f', 1, 64)
	if res.Clamped {
		s += "*"
	}
	return s
}

func printTable(rep *analysis.Report, summary bool) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "WINDOW\tN")
	for _, m := range rep.Methods {
		fmt.Fprintf(tw, "\t%s", m)
	}
	if summary {
		fmt.Fprint(tw, "\tspread")
	}
	fmt.Fprintln(tw)

	for _, w := range rep.Windows {
		label := w.Start.Format("15:04:05")
		if w.Partial {
			label += " (partial)"
		}
		fmt.Fprintf(tw, "%s\t%d", label, w.Samples)
		for _, m := range rep.Methods {
			fmt.Fprintf(tw, "\t%s", fmtBPM(w.Results[m]))
		}
		if summary && w.Summary != nil {
			fmt.Fprintf(tw, "\t%.1f", w.Summary.Range)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	fmt.Println("  (* = clamped to the physiological range)")
}

func printCsvLike(rep *analysis.Report) {
	fmt.Println("# start, end, partial, samples, method, bpm, valid, reason, clamped")
	for _, w := range rep.Windows {
		for _, m := range rep.Methods {
			res := w.Results[m]
			fmt.Printf("%s, %s, %t, %d, %s, %s, %t, %s, %t\n",
				w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339),
				w.Partial, w.Samples, m, res.BPM, res.Valid, res.Reason, res.Clamped)
		}
	}
}

func printSmoothed(rep *analysis.Report, alpha float64) {
	fmt.Printf("\nsmoothed series (ema %.2f):\n", alpha)
	for _, m := range rep.Methods {
		fmt.Printf("- %s:", m)
		for _, v := range rep.Smoothed(m, alpha) {
			if v.IsUndefined() {
				fmt.Print(" -")
				continue
			}
			fmt.Printf(" %.1f", float64(v))
		}
		fmt.Println()
	}
}

func printRunSummary(rep *analysis.Report, brMin, brMax float64) {
	fmt.Println()
	fmt.Printf("raspr summary (over %d windows of %s):\n", len(rep.Windows), rep.WindowLen)
	for _, s := range rep.Summarize(brMin, brMax) {
		if s.Valid == 0 {
			fmt.Printf("- %s: no valid windows (%d total)\n", s.Method, s.Total)
			continue
		}
		fmt.Printf("- %s: mean %.1f bpm, range [%.1f, %.1f], valid %d/%d, clamped %d\n",
			s.Method, s.Mean, s.Min, s.Max, s.Valid, s.Total, s.Clamped)
	}
	fmt.Println()
}

func writeCSV(path string, rep *analysis.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"start", "end", "partial", "samples", "method",
		"bpm", "valid", "reason", "clamped", "raw_bpm", "note",
	}); err != nil {
		return err
	}
	for _, win := range rep.Windows {
		for _, m := range rep.Methods {
			res := win.Results[m]
			bpm := ""
			if res.Valid {
				bpm = strconv.FormatFloat(float64(res.BPM), 'f', 1, 64)
			}
			raw := ""
			if !res.RawBPM.IsUndefined() {
				raw = strconv.FormatFloat(float64(res.RawBPM), 'f', 1, 64)
			}
			if err := w.Write([]string{
				win.Start.Format(time.RFC3339), win.End.Format(time.RFC3339),
				strconv.FormatBool(win.Partial), strconv.Itoa(win.Samples),
				m, bpm, strconv.FormatBool(res.Valid), res.Reason,
				strconv.FormatBool(res.Clamped), raw, res.Note,
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, rep *analysis.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func writeHTML(path string, rep *analysis.Report, brMin, brMax float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	type cell struct {
		Value   string
		Invalid bool
	}
	type htmlRow struct {
		Window  string
		Partial bool
		Samples int
		Cells   []cell
	}
	type view struct {
		RunID     string
		Generated string
		WindowLen string
		Methods   []string
		Rows      []htmlRow
		Summaries []analysis.MethodSummary
	}

	v := view{
		RunID:     rep.RunID,
		Generated: rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		WindowLen: rep.WindowLen.String(),
		Methods:   rep.Methods,
		Summaries: rep.Summarize(brMin, brMax),
	}
	for _, w := range rep.Windows {
		r := htmlRow{
			Window:  w.Start.Format("15:04:05"),
			Partial: w.Partial,
			Samples: w.Samples,
		}
		for _, m := range rep.Methods {
			res := w.Results[m]
			r.Cells = append(r.Cells, cell{Value: fmtBPM(res), Invalid: !res.Valid})
		}
		v.Rows = append(v.Rows, r)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		return err
	}
	_, err = f.Write(buf.Bytes())
	return err
}

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>Breathing Rate Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
.small{color:#555}
.invalid{color:#a33}
.badge{display:inline-block;background:#eef;border:1px solid #ccd;padding:2px 6px;border-radius:6px;margin-right:6px;}
</style>

<h1>Breathing Rate Report</h1>

<p class="small">
Run: {{.RunID}} &nbsp;|&nbsp;
Generated: {{.Generated}} &nbsp;|&nbsp;
Window: {{.WindowLen}} &nbsp;|&nbsp;
Windows: {{len .Rows}}
</p>

<h2>Summary</h2>
<ul>
{{range .Summaries}}
  <li><span class="badge">{{.Method}}</span>
  {{if .Valid}}mean {{printf "%.1f" .Mean}} bpm, range [{{printf "%.1f" .Min}}, {{printf "%.1f" .Max}}], valid {{.Valid}}/{{.Total}}, clamped {{.Clamped}}{{else}}no valid windows ({{.Total}} total){{end}}</li>
{{end}}
</ul>

<h2>Per-window</h2>
<table>
<thead>
<tr>
<th>window</th><th>samples</th>
{{range .Methods}}<th>{{.}} (bpm)</th>{{end}}
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td style="text-align:left">{{.Window}}{{if .Partial}} (partial){{end}}</td>
<td>{{.Samples}}</td>
{{range .Cells}}<td{{if .Invalid}} class="invalid"{{end}}>{{.Value}}</td>{{end}}
</tr>
{{end}}
</tbody>
</table>
</html>`))
