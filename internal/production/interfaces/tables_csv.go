package interfaces

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"pvinsight/internal/production/domain"
)

type table struct {
	name string
	rows any
	n    int
}

func tablesOf(ctx *domain.Context) []table {
	var out []table
	if thr, ok := domain.Lookup[domain.ThresholdResult](ctx.Results, domain.Threshold); ok {
		out = append(out,
			table{"threshold_monthly", thr.Monthly, len(thr.Monthly)},
			table{"threshold_seasonal", thr.Seasonal, len(thr.Seasonal)},
			table{"threshold_monthly_share", thr.MonthlyPct, len(thr.MonthlyPct)},
			table{"night_consumption_monthly", thr.NightMonthly, len(thr.NightMonthly)},
		)
	}
	if dist, ok := domain.Lookup[domain.PowerDistributionResult](ctx.Results, domain.PowerDistribution); ok {
		out = append(out, table{"power_distribution", dist.Classes, len(dist.Classes)})
	}
	if clip, ok := domain.Lookup[domain.InverterClippingResult](ctx.Results, domain.InverterClipping); ok {
		out = append(out, table{"inverter_clipping_monthly", clip.Monthly, len(clip.Monthly)})
	}
	if gl, ok := domain.Lookup[domain.GridLimitResult](ctx.Results, domain.GridLimit); ok {
		out = append(out,
			table{"grid_limit_monthly", gl.Monthly, len(gl.Monthly)},
			table{"grid_limit_load_factor_monthly", gl.MonthlyLoadFactor, len(gl.MonthlyLoadFactor)},
		)
	}
	if lf, ok := domain.Lookup[domain.LoadFactorResult](ctx.Results, domain.LoadFactor); ok {
		out = append(out,
			table{"power_quality_monthly", lf.Monthly, len(lf.Monthly)},
			table{"saturation_classes", lf.Saturation, len(lf.Saturation)},
			table{"load_factor_monthly", lf.MonthlyLoadFactor, len(lf.MonthlyLoadFactor)},
		)
	}
	return out
}

// WriteTablesCSV writes every non-empty result table to dir as
// "{prefix}__{table}.csv" and returns the written paths.
func WriteTablesCSV(ctx *domain.Context, dir, prefix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, t := range tablesOf(ctx) {
		if t.n == 0 {
			continue
		}
		data, err := gocsv.MarshalBytes(t.rows)
		if err != nil {
			return paths, fmt.Errorf("production: marshal %s: %w", t.name, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s__%s.csv", prefix, t.name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
