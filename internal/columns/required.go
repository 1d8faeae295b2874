package columns

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"
)

const (
	// SuggestionLimit caps suggestions per missing column.
	SuggestionLimit = 3
	// SuggestionCutoff is the minimum similarity ratio for a suggestion.
	SuggestionCutoff = 0.6
)

// CheckRequired reports the required columns absent from columns, in order.
func CheckRequired(columns, required []string) (bool, []string) {
	missing := lo.Without(required, columns...)
	return len(missing) == 0, missing
}

// Suggest proposes up to three close matches from columns for each missing name.
// Every missing name gets an entry, possibly empty.
func Suggest(columns, missing []string) map[string][]string {
	out := make(map[string][]string, len(missing))
	for _, m := range missing {
		out[m] = closeMatches(m, columns, SuggestionLimit, SuggestionCutoff)
	}
	return out
}

type scored struct {
	score float64
	name  string
}

func closeMatches(word string, candidates []string, n int, cutoff float64) []string {
	target := chars(word)
	var hits []scored
	for _, c := range candidates {
		sm := difflib.NewMatcher(chars(c), target)
		if sm.RealQuickRatio() >= cutoff && sm.QuickRatio() >= cutoff {
			if r := sm.Ratio(); r >= cutoff {
				hits = append(hits, scored{score: r, name: c})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name > hits[j].name
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

func chars(s string) []string {
	return strings.Split(s, "")
}
