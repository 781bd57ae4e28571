// Package report renders the model comparison charts and summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/EgorovM/itmo-mlops-2025/pkg/metrics"
)

// ErrNoRecords is returned when a dataset has no metrics to report.
var ErrNoRecords = errors.New("no metrics records")

// ChartPath is where Charts writes the chart of metric for dataset.
func ChartPath(dir, dataset, metric string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_comparison.png", dataset, metric))
}

// Charts draws one bar chart per metric comparing every record, and
// returns the written paths in metric order.
func Charts(dataset string, records []metrics.Record, dir string) ([]string, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(ErrNoRecords, dataset)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "charts")
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name()
	}

	var paths []string
	for m, v := range records[0].Values() {
		vals := make(plotter.Values, len(records))
		for i, r := range records {
			vals[i] = r.Values()[m].Score
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s by Model Type - %s", strings.ToUpper(v.Metric), dataset)
		p.X.Label.Text = "model_name"
		p.Y.Label.Text = v.Metric

		bars, err := plotter.NewBarChart(vals, vg.Points(40))
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s chart", dataset, v.Metric)
		}
		bars.Color = plotutil.Color(m)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(plotter.NewGrid(), bars)
		p.NominalX(names...)

		path := ChartPath(dir, dataset, v.Metric)
		if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
			return nil, errors.Wrapf(err, "save %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
