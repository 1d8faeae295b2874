package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/dataset"
)

var rule = strings.Repeat("=", 70)

// Entry is the content of a run log.
type Entry struct {
	Tool            string
	GeneratedAt     time.Time
	Sources         []string
	TimeStepMinutes *int
	Header          map[string]string
	Units           map[string]string
	Quality         *dataset.Quality
	Warnings        []string
}

// Format renders e. Map keys are sorted.
func Format(e Entry) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(rule)
	line("%s — PVInsight", e.Tool)
	line("Generated: %s", e.GeneratedAt.Format("2006-01-02 15:04:05"))
	line(rule)
	line("Sources:")
	for _, s := range e.Sources {
		line("  - %s", s)
	}
	line("")

	if e.TimeStepMinutes != nil {
		line("Time step (min): %d", *e.TimeStepMinutes)
		line("")
	}
	if len(e.Header) > 0 {
		line("Header info:")
		writeMap(line, e.Header)
		line("")
	}
	if len(e.Units) > 0 {
		line("Units by column:")
		writeMap(line, e.Units)
		line("")
	}
	if q := e.Quality; q != nil {
		line("Quality summary:")
		line("  n_rows: %d", q.Rows)
		line("  n_nan: %d", q.Missing)
		line("  n_nat: %d", q.MissingTimestamps)
		line("  start: %s", timeOrDash(q.Start))
		line("  end: %s", timeOrDash(q.End))
		if q.ExpectedRows != nil {
			line("  expected_rows: %d", *q.ExpectedRows)
		} else {
			line("  expected_rows: -")
		}
		line("  warning: %s", orDash(q.Warning))
		line("")
	}
	if len(e.Warnings) > 0 {
		line("Warnings:")
		for _, w := range e.Warnings {
			line("  - %s", w)
		}
	} else {
		line("Warnings: none")
	}
	return b.String()
}

// Write renders e into path, creating parent folders.
func Write(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Format(e)), 0o644)
}

func writeMap(line func(string, ...any), m map[string]string) {
	keys := lo.Keys(m)
	sort.Strings(keys)
	for _, k := range keys {
		line("  %s: %s", k, m[k])
	}
}

func timeOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
