package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"pvinsight/internal/format"
	"pvinsight/internal/production/application"
	"pvinsight/internal/production/domain"
	"pvinsight/internal/production/interfaces"
	"pvinsight/internal/runlog"
)

const toolHourly = "Hourly_Results_Analysis"

func newHourlyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hourly",
		Short: "PV simulation hourly results tools",
	}
	cmd.AddCommand(newHourlyAnalyzeCmd(a))
	return cmd
}

func newHourlyAnalyzeCmd(a *app) *cobra.Command {
	var (
		file        string
		threshold   float64
		column      string
		night       bool
		capacityKW  float64
		dateFormat  string
		noTimestamp bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run every hourly analysis and write PDF, workbook and CSV tables",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			started := a.now()
			var paths runlog.Paths
			suffix := runlog.Suffix(started, a.cfg.TimestampOutputs && !noTimestamp)
			defer func() { a.finish(toolHourly, started, paths, suffix, err) }()

			req := application.Request{
				SourceName:         filepath.Base(file),
				DateFormat:         a.cfg.Hourly.DateFormat,
				ThresholdColumn:    a.cfg.Hourly.ThresholdColumn,
				ThresholdValue:     a.cfg.Hourly.ThresholdValue,
				NightDisconnection: a.cfg.Hourly.NightDisconnection,
				GridCapacityKW:     a.cfg.Hourly.GridCapacityKW,
			}
			flags := cmd.Flags()
			if flags.Changed("threshold") {
				req.ThresholdValue = threshold
			}
			if flags.Changed("column") {
				req.ThresholdColumn = column
			}
			if flags.Changed("night-disconnection") {
				req.NightDisconnection = night
			}
			if flags.Changed("grid-capacity-kw") {
				req.GridCapacityKW = capacityKW
			}
			if flags.Changed("date-format") {
				req.DateFormat = dateFormat
			}
			if req.Data, err = readInput(file); err != nil {
				return err
			}

			ctx, err := application.Analyze(req, application.DefaultEngine(a.logger))
			if err != nil {
				return err
			}
			if paths, err = runlog.MakeRunFolders(a.cfg.OutputDir); err != nil {
				return err
			}

			stem := runlog.Stem(file)
			base := filepath.Join(paths.Reports, stem+"__hourly_results_analysis"+suffix)
			if err := a.writeArtifact(base+".pdf", "pdf", func() ([]byte, error) {
				return interfaces.BuildReportPDF(ctx, started)
			}); err != nil {
				return err
			}
			if err := a.writeArtifact(base+".xlsx", "xlsx", func() ([]byte, error) {
				return interfaces.BuildReportXLSX(ctx)
			}); err != nil {
				return err
			}
			tables, err := interfaces.WriteTablesCSV(ctx, paths.Reports, stem+"__hourly"+suffix)
			if err != nil {
				return err
			}
			logPath := filepath.Join(paths.Logs, stem+"__Hourly_Analysis"+suffix+".log")
			if err := runlog.Write(logPath, hourlyEntry(ctx, started)); err != nil {
				return err
			}

			printHourlySummary(a, ctx)
			a.printf("report: %s.pdf\nworkbook: %s.xlsx\n", base, base)
			for _, t := range tables {
				a.printf("table: %s\n", t)
			}
			a.printf("log: %s\n", logPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "Hourly results export (PVsyst CSV)")
	f.Float64Var(&threshold, "threshold", 0, "Threshold value, in the unit of the threshold column")
	f.StringVar(&column, "column", domain.DefaultThresholdColumn, "Column the threshold applies to")
	f.BoolVar(&night, "night-disconnection", false, "Clamp grid imports to zero for operating-time studies")
	f.Float64Var(&capacityKW, "grid-capacity-kw", 0, "Grid connection capacity in kW (<= 0 means unknown)")
	f.StringVar(&dateFormat, "date-format", "", "strftime pattern of the date column")
	f.BoolVar(&noTimestamp, "no-timestamp", false, "Do not append a timestamp to output names")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func hourlyEntry(ctx *domain.Context, generatedAt time.Time) runlog.Entry {
	ds := ctx.Data
	step := int(ctx.StepHours*60 + 0.5)
	header := lo.Assign(ctx.GeneralInfo())
	header["threshold_column"] = ctx.Options.Column()
	header["threshold_value"] = format.Number(ctx.Options.ThresholdValue, 2)
	header["night_disconnection"] = format.Bool(ctx.Options.NightDisconnection)
	header["grid_capacity_kw"] = format.Optional(ctx.Options.GridCapacityKW, 0)
	for _, id := range ctx.Results.IDs() {
		r, _ := ctx.Results.Get(id)
		header["analysis."+string(id)] = availability(r)
	}
	return runlog.Entry{
		Tool:            toolHourly,
		GeneratedAt:     generatedAt,
		Sources:         []string{ctx.InputName},
		TimeStepMinutes: &step,
		Header:          header,
		Units:           ds.Units,
		Quality:         &ds.Quality,
		Warnings:        ds.Warnings,
	}
}

func availability(r domain.Result) string {
	switch v := r.(type) {
	case domain.Unavailable:
		return "unavailable, missing " + strings.Join(v.MissingColumns, ", ")
	case domain.Empty:
		return "empty: " + v.Reason
	}
	return "available"
}

func printHourlySummary(a *app, ctx *domain.Context) {
	a.printf("%s (%d rows, step %s h)\n", ctx.InputName, ctx.Frame().Len(), format.Number(ctx.StepHours, 2))
	if thr, ok := domain.Lookup[domain.ThresholdResult](ctx.Results, domain.Threshold); ok {
		a.printf("  %s above %s %s: %s h (%s of operating time), %s kWh\n",
			thr.Column, format.Number(thr.Value, 2), thr.Unit,
			format.Number(thr.HoursAbove, 0), format.Percent(thr.PctAboveOperatingTime),
			format.Number(thr.EnergyAboveKWh, 0))
	}
	for _, id := range ctx.Results.IDs() {
		r, _ := ctx.Results.Get(id)
		a.printf("  %-20s %s\n", id, availability(r))
	}
	printWarnings(a, ctx.Data.Warnings)
}
