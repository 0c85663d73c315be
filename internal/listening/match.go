package listening

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds case, strips diacritics, and drops everything that is
// not a letter or digit, so "AC/DC", "ac dc" and "Ac-Dc" compare equal.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchArtists filters artists by a normalized substring match on the name,
// deduplicates by ID, sorts alphabetically and truncates to maxResults.
// An empty query matches nothing. maxResults <= 0 means no limit.
func MatchArtists(artists []Artist, query string, maxResults int) []Artist {
	needle := NormalizeName(query)
	if needle == "" {
		return []Artist{}
	}

	seen := make(map[string]bool, len(artists))
	matches := make([]Artist, 0)
	for _, a := range artists {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		if !strings.Contains(NormalizeName(a.Name), needle) {
			continue
		}
		seen[a.ID] = true
		matches = append(matches, a)
	}

	SortArtists(matches)

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// SortArtists orders artists alphabetically by name using English collation,
// falling back to ID for equal names.
func SortArtists(artists []Artist) {
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(artists, func(i, j int) bool {
		if cmp := c.CompareString(artists[i].Name, artists[j].Name); cmp != 0 {
			return cmp < 0
		}
		return artists[i].ID < artists[j].ID
	})
}
