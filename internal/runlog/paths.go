// Package runlog lays out per-run output folders and writes plain-text run logs.
package runlog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// StampLayout is the timestamp suffix appended to output names.
const StampLayout = "2006-01-02_15-04-05"

// Paths are the folders of one output root.
type Paths struct {
	Root    string
	Reports string
	Figures string
	Logs    string
}

// MakeRunFolders creates root/{reports,figures,logs}.
func MakeRunFolders(root string) (Paths, error) {
	p := Paths{
		Root:    root,
		Reports: filepath.Join(root, "reports"),
		Figures: filepath.Join(root, "figures"),
		Logs:    filepath.Join(root, "logs"),
	}
	for _, dir := range []string{p.Root, p.Reports, p.Figures, p.Logs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, err
		}
	}
	return p, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9\-_.]+`)

// SafeSlug lower-cases s, replaces runs of unsafe characters with "_",
// keeps at most 80 characters and trims surrounding underscores.
func SafeSlug(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
	if len(s) > 80 {
		s = s[:80]
	}
	return strings.Trim(s, "_")
}

// Stamp formats t with StampLayout.
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// Suffix returns "__{stamp}" when enabled, else "".
func Suffix(t time.Time, enabled bool) string {
	if !enabled {
		return ""
	}
	return "__" + Stamp(t)
}

// Stem returns the base file name without its extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
