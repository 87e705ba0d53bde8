package report

import (
	"bytes"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/internal/id"
)

// Run is the flattened summary of one completed backtest, ready to render.
type Run struct {
	RunID   string
	Created time.Time
	Dataset string

	Start time.Time
	End   time.Time

	InitialCapital float64
	FinalEquity    float64
	Mode           string

	Trades int
	Wins   int
	Losses int
	NetPnL float64

	TotalReturnPct float64
	SharpeRatio    float64
	MaxDrawdownPct float64
	HitRatio       float64

	FinalBalances map[string]float64

	Notes []string
}

// FromResult reduces an engine result to a Run summary.
func FromResult(dataset string, initialCapital float64, res backtest.Result) Run {
	run := Run{
		RunID:          id.New(),
		Created:        time.Now().UTC(),
		Dataset:        dataset,
		InitialCapital: initialCapital,
		Mode:           res.KPIs.Mode,
		Trades:         res.KPIs.TotalTrades,
		TotalReturnPct: res.KPIs.TotalReturnPct,
		SharpeRatio:    res.KPIs.SharpeRatio,
		MaxDrawdownPct: res.KPIs.MaxDrawdownPct,
		HitRatio:       res.KPIs.HitRatio,
		FinalBalances:  res.KPIs.FinalBalances,
	}

	for _, t := range res.Trades {
		run.NetPnL += t.PnL
		if t.PnL > 0 {
			run.Wins++
		} else if t.PnL < 0 {
			run.Losses++
		}
	}

	if len(res.Curve) > 0 {
		run.Start = res.Curve[0].Time
		run.End = res.Curve[len(res.Curve)-1].Time
		run.FinalEquity = res.Curve[len(res.Curve)-1].Equity
	}

	return run
}

// BalanceKeys returns the FinalBalances keys in stable order for rendering.
func (r *Run) BalanceKeys() []string {
	keys := make([]string, 0, len(r.FinalBalances))
	for k := range r.FinalBalances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the run as an org-mode block and writes it to path.
func (r *Run) WriteOrg(path string) error {
	t, err := template.New("backtest").Funcs(orgFuncs).Parse(OrgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const OrgTemplate = `
* BACKTEST: {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}} {{.Mode}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:MODE:        {{.Mode}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_CAP:   {{printf "%.2f" .InitialCapital}}
:FINAL_EQ:    {{printf "%.2f" .FinalEquity}}
:NET_PNL:     {{printf "%.2f" .NetPnL}}
:RETURN_PCT:  {{printf "%.2f" .TotalReturnPct}}
:SHARPE:      {{printf "%.4f" .SharpeRatio}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDrawdownPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:HIT_RATIO:   {{printf "%.2f" (mul100 .HitRatio)}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetPnL}}*
- Return:           *{{printf "%.2f" .TotalReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDrawdownPct}}%*
- Hit Ratio:        *{{printf "%.2f" (mul100 .HitRatio)}}%*
- Sharpe (per-trade): *{{printf "%.4f" .SharpeRatio}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .FinalBalances }}

** Final Balances
| Key | Value |
|-----+-------|
{{- $r := . }}
{{- range $k := .BalanceKeys }}
| {{$k}} | {{printf "%.6f" (index $r.FinalBalances $k)}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
