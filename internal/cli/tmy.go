package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pvinsight/internal/format"
	"pvinsight/internal/meteo/application"
	"pvinsight/internal/meteo/interfaces"
	"pvinsight/internal/runlog"
)

const (
	toolTMYAnalysis = "TMY_Analysis"
	toolTMYCompare  = "TMY_Compare"
)

type unitFlags struct {
	targetUnit  string
	energyUnit  string
	noResample  bool
	noTimestamp bool
}

func (u *unitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&u.targetUnit, "target-unit", "", "Irradiance unit of the datasets (W/m² or kW/m²)")
	cmd.Flags().StringVar(&u.energyUnit, "energy-unit", "", "Irradiation unit (Wh/m² or kWh/m²)")
	cmd.Flags().BoolVar(&u.noResample, "no-resample", false, "Keep sub-hourly data at its native step")
	cmd.Flags().BoolVar(&u.noTimestamp, "no-timestamp", false, "Do not append a timestamp to output names")
}

func (u *unitFlags) target(a *app) string {
	if u.targetUnit != "" {
		return u.targetUnit
	}
	return a.cfg.TargetIrradianceUnit
}

func (u *unitFlags) energy(a *app) string {
	if u.energyUnit != "" {
		return u.energyUnit
	}
	return a.cfg.EnergyUnit
}

func (u *unitFlags) resample(a *app) bool {
	return a.cfg.ResampleHourly && !u.noResample
}

func (u *unitFlags) timestamp(a *app) bool {
	return a.cfg.TimestampOutputs && !u.noTimestamp
}

func newTMYCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmy",
		Short: "Typical Meteorological Year tools",
	}
	cmd.AddCommand(newTMYAnalyzeCmd(a), newTMYCompareCmd(a))
	return cmd
}

func newTMYAnalyzeCmd(a *app) *cobra.Command {
	var (
		file  string
		units unitFlags
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize one TMY file and write a PDF report",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			started := a.now()
			var paths runlog.Paths
			suffix := runlog.Suffix(started, units.timestamp(a))
			defer func() { a.finish(toolTMYAnalysis, started, paths, suffix, err) }()

			data, err := readInput(file)
			if err != nil {
				return err
			}
			res, err := application.NewAnalyzer(a.logger).Analyze(application.AnalyzeRequest{
				Source:               application.Source{Data: data, Name: filepath.Base(file)},
				TargetIrradianceUnit: units.target(a),
				EnergyUnit:           units.energy(a),
				ResampleHourly:       units.resample(a),
			})
			if err != nil {
				return err
			}
			if paths, err = runlog.MakeRunFolders(a.cfg.OutputDir); err != nil {
				return err
			}

			stem := runlog.Stem(file)
			pdfPath := filepath.Join(paths.Reports, stem+"__TMY_Report"+suffix+".pdf")
			if err := a.writeArtifact(pdfPath, "pdf", func() ([]byte, error) {
				return interfaces.BuildTMYReportPDF(res, started)
			}); err != nil {
				return err
			}
			ds := res.Dataset
			step := ds.TimeStepMinutes
			logPath := filepath.Join(paths.Logs, stem+"__TMY_Analysis"+suffix+".log")
			if err := runlog.Write(logPath, runlog.Entry{
				Tool:            toolTMYAnalysis,
				GeneratedAt:     started,
				Sources:         []string{ds.SourceName},
				TimeStepMinutes: &step,
				Header:          ds.Header,
				Units:           ds.Units,
				Quality:         &ds.Quality,
				Warnings:        res.Warnings,
			}); err != nil {
				return err
			}

			a.printf("%s (%s, %d rows, step %d min)\n", ds.SourceName, ds.Dialect, ds.Frame.Len(), step)
			for _, s := range res.Stats {
				a.printf("  %-6s mean %s  min %s  max %s %s\n", strings.ToUpper(s.Variable),
					format.Number(s.Mean, 2), format.Number(s.Min, 2), format.Number(s.Max, 2), s.Unit)
			}
			if res.Energy.GHI != nil {
				a.printf("  annual GHI %s\n", format.WithUnit(*res.Energy.GHI, res.Energy.Unit, 1))
			}
			printWarnings(a, res.Warnings)
			a.printf("report: %s\nlog: %s\n", pdfPath, logPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "TMY file (PVsyst or Solargis export)")
	units.register(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTMYCompareCmd(a *app) *cobra.Command {
	var (
		fileA, fileB string
		thresholdPct float64
		units        unitFlags
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two TMY files hour by hour",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			started := a.now()
			var paths runlog.Paths
			suffix := runlog.Suffix(started, units.timestamp(a))
			defer func() { a.finish(toolTMYCompare, started, paths, suffix, err) }()

			dataA, err := readInput(fileA)
			if err != nil {
				return err
			}
			dataB, err := readInput(fileB)
			if err != nil {
				return err
			}
			req := application.DefaultCompareRequest(
				application.Source{Data: dataA, Name: filepath.Base(fileA)},
				application.Source{Data: dataB, Name: filepath.Base(fileB)},
			)
			req.TargetIrradianceUnit = units.target(a)
			req.EnergyUnit = units.energy(a)
			req.ResampleHourly = units.resample(a)
			req.ThresholdMeanPct = a.cfg.Compare.ThresholdMeanPct
			if cmd.Flags().Changed("threshold-pct") {
				req.ThresholdMeanPct = thresholdPct
			}
			req.CommonStepMinutes = a.cfg.Compare.CommonStepMinutes

			res, err := application.NewComparer(a.logger).Compare(req)
			if err != nil {
				return err
			}
			if paths, err = runlog.MakeRunFolders(a.cfg.OutputDir); err != nil {
				return err
			}

			title := interfaces.ComparisonTitle(fileA, fileB)
			base := filepath.Join(paths.Reports, "TMY_Comparison__"+title+suffix)
			if err := a.writeArtifact(base+".pdf", "pdf", func() ([]byte, error) {
				return interfaces.BuildComparisonPDF(res, started)
			}); err != nil {
				return err
			}
			if err := a.writeArtifact(base+".xlsx", "xlsx", func() ([]byte, error) {
				return interfaces.BuildComparisonXLSX(res)
			}); err != nil {
				return err
			}
			if err := interfaces.WriteMetricsCSV(res, base+"__metrics.csv"); err != nil {
				return err
			}
			logPath := filepath.Join(paths.Logs, "TMY_Compare__"+title+suffix+".log")
			if err := runlog.Write(logPath, compareEntry(res, started)); err != nil {
				return err
			}

			a.printf("%s vs %s: %d common hours (%s alignment)\n",
				res.A.SourceName, res.B.SourceName, res.AlignedA.Len(), res.Alignment)
			for _, m := range res.Metrics {
				a.printf("  %-10s bias %s  rmse %s  mean %% %s\n", m.Variable,
					format.Number(m.BiasMean, 3), format.Number(m.RMSE, 3), format.Number(m.MeanPct, 1))
			}
			if res.Alert {
				a.printf("ALERT: mean relative difference above %s %%\n", format.Number(req.ThresholdMeanPct, 1))
			}
			printWarnings(a, res.Warnings)
			a.printf("report: %s.pdf\nworkbook: %s.xlsx\nlog: %s\n", base, base, logPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&fileA, "a", "", "First TMY file")
	cmd.Flags().StringVar(&fileB, "b", "", "Second TMY file")
	cmd.Flags().Float64Var(&thresholdPct, "threshold-pct", 5, "Alert when a mean relative difference exceeds this percentage")
	units.register(cmd)
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func compareEntry(res *application.ComparisonResult, generatedAt time.Time) runlog.Entry {
	step := res.UsedStepMinutes
	unitsByColumn := make(map[string]string, len(res.A.Units)+len(res.B.Units))
	for col, u := range res.A.Units {
		unitsByColumn["A."+col] = u
	}
	for col, u := range res.B.Units {
		unitsByColumn["B."+col] = u
	}
	return runlog.Entry{
		Tool:            toolTMYCompare,
		GeneratedAt:     generatedAt,
		Sources:         []string{res.A.SourceName, res.B.SourceName},
		TimeStepMinutes: &step,
		Header: map[string]string{
			"reader_a":      res.A.Dialect,
			"reader_b":      res.B.Dialect,
			"step_a_min":    fmt.Sprint(res.NativeStepA),
			"step_b_min":    fmt.Sprint(res.NativeStepB),
			"used_step_min": fmt.Sprint(res.UsedStepMinutes),
			"alignment":     string(res.Alignment),
			"common_start":  res.CommonStart.Format("2006-01-02 15:04:05"),
			"common_end":    res.CommonEnd.Format("2006-01-02 15:04:05"),
		},
		Units:    unitsByColumn,
		Warnings: res.Warnings,
	}
}

func printWarnings(a *app, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	a.printf("warnings:\n")
	for _, w := range warnings {
		a.printf("  - %s\n", w)
	}
}
