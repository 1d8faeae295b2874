package columns

import (
	"regexp"
	"strings"
)

var (
	reSeparators = regexp.MustCompile(`[ \t.\-/]+`)
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9_]`)
	reUnderscore = regexp.MustCompile(`_+`)
	reBrackets   = regexp.MustCompile(`\[([^\]]+)\]`)
	reParens     = regexp.MustCompile(`\(([^)]+)\)`)
)

// Canon lowercases a header name and reduces it to [a-z0-9_].
func Canon(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "°", "deg")
	s = reSeparators.ReplaceAllString(s, "_")
	s = reNonAlnum.ReplaceAllString(s, "")
	s = reUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SplitInlineUnit separates a unit written inside a header name,
// e.g. "GHI [Wh/m2]" or "Tamb(deg.C)". The unit is returned raw.
func SplitInlineUnit(name string) (clean, unit string) {
	s := strings.TrimSpace(name)
	m := reBrackets.FindStringSubmatch(s)
	if m == nil {
		m = reParens.FindStringSubmatch(s)
	}
	if m == nil {
		return s, ""
	}
	s = reBrackets.ReplaceAllString(s, "")
	s = reParens.ReplaceAllString(s, "")
	return strings.TrimSpace(s), strings.TrimSpace(m[1])
}

// Resolver maps raw header names onto canonical variable names.
type Resolver struct {
	shortCodes map[string]string
	synonyms   map[string]string
}

// NewResolver builds a resolver from a short-code table and synonym lists.
func NewResolver(shortCodes map[string]string, synonyms map[string][]string) *Resolver {
	r := &Resolver{
		shortCodes: shortCodes,
		synonyms:   make(map[string]string),
	}
	for canonical, list := range synonyms {
		for _, s := range list {
			r.synonyms[Canon(s)] = canonical
		}
	}
	return r
}

// DefaultResolver uses the built-in meteo vocabulary.
var DefaultResolver = NewResolver(ShortCodes, VariableSynonyms)

// Lookup returns the canonical name for a single header, if any.
// Short codes are tried first on the upper-cased trimmed name.
func (r *Resolver) Lookup(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	if c, ok := r.shortCodes[strings.ToUpper(name)]; ok {
		return c, true
	}
	c, ok := r.synonyms[Canon(name)]
	return c, ok
}

// Resolve returns a raw -> canonical rename map. When several raw columns
// resolve to the same canonical name, only the first is mapped.
func (r *Resolver) Resolve(raw []string) map[string]string {
	out := make(map[string]string)
	taken := make(map[string]bool)
	for _, name := range raw {
		c, ok := r.Lookup(name)
		if !ok || taken[c] {
			continue
		}
		if _, dup := out[name]; dup {
			continue
		}
		out[name] = c
		taken[c] = true
	}
	return out
}

var timeTokens = func() map[string]string {
	m := make(map[string]string)
	for kind, list := range TimeSynonyms {
		for _, s := range list {
			m[Canon(s)] = kind
		}
	}
	return m
}()

// TimeKind returns the time component a header names, if any.
func TimeKind(name string) (string, bool) {
	k, ok := timeTokens[Canon(name)]
	return k, ok
}

// IsTimeToken reports whether a header names a time component.
func IsTimeToken(name string) bool {
	_, ok := TimeKind(name)
	return ok
}

// FindTimeColumn returns the raw column naming the given time kind.
// Synonyms are tried in vocabulary order, so "hour" beats "hh".
func FindTimeColumn(cols []string, kind string) (string, bool) {
	canon := make(map[string]string, len(cols))
	for _, c := range cols {
		k := Canon(c)
		if _, ok := canon[k]; !ok {
			canon[k] = c
		}
	}
	for _, syn := range TimeSynonyms[kind] {
		if c, ok := canon[Canon(syn)]; ok {
			return c, true
		}
	}
	return "", false
}
