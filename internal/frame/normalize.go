package frame

import "strings"

// Replacement is one substring substitution applied to column names.
type Replacement struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// RenameMap is an ordered list of substitutions. Each pair is applied to the
// result of the pairs before it, never to the original name in parallel.
type RenameMap []Replacement

// DefaultRenameMap strips the bracketed unit markers of the ECB export and
// turns spaces into underscores: "[US dollar ]" becomes "US_dollar".
func DefaultRenameMap() RenameMap {
	return RenameMap{
		{Match: "[", Replace: ""},
		{Match: " ]", Replace: ""},
		{Match: " ", Replace: "_"},
	}
}

// Apply runs every substitution over name, in order.
func (m RenameMap) Apply(name string) string {
	for _, r := range m {
		if r.Match == "" {
			continue
		}
		name = strings.ReplaceAll(name, r.Match, r.Replace)
	}
	return name
}

// Conflict names a pair whose replacement text can be re-matched by a later pair.
type Conflict struct {
	Earlier int
	Later   int
}

// Conflicts lists the pairs whose replacement contains the match text of a
// later pair, i.e. where one application re-matches text it introduced.
func (m RenameMap) Conflicts() []Conflict {
	var out []Conflict
	for i, earlier := range m {
		if earlier.Replace == "" {
			continue
		}
		for j := i + 1; j < len(m); j++ {
			if m[j].Match != "" && strings.Contains(earlier.Replace, m[j].Match) {
				out = append(out, Conflict{Earlier: i, Later: j})
			}
		}
	}
	return out
}

// FormatColumns rewrites every column name of t in place by applying m.
// Column order, count and cells are unchanged. Lookups by a pre-rename name
// fail with ErrColumnNotFound afterwards.
//
// Two names can collapse into one (e.g. "[US dollar ]" and "US dollar").
// Lookups of a shared name then resolve to the leftmost column; callers
// check Duplicates after formatting.
func FormatColumns(t *Table, m RenameMap) {
	if len(m) == 0 {
		return
	}
	for _, c := range t.columns {
		c.name = m.Apply(c.name)
	}
	t.reindex()
}
