// Package hint suggests registered command names for a mistyped one.
package hint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxDistance is the largest edit distance still considered a typo.
const MaxDistance = 3

// Source lists the names a hint may point at.
type Source interface {
	Labels() []string
}

type match struct {
	name     string
	distance int
	prefix   int
	ordered  bool
}

// DidYouMean returns up to limit candidates close to token, best first. A
// candidate is close when it contains the letters of token in order or is
// within MaxDistance edits of it. Ties on distance go to the longer shared
// prefix, then to in-order matches. A limit of zero or less means no limit.
func DidYouMean(token string, candidates []string, limit int) []string {
	token = strings.TrimSpace(token)
	if token == "" || len(candidates) == 0 {
		return nil
	}

	ordered := make(map[string]bool)
	for _, r := range fuzzy.RankFindFold(token, candidates) {
		ordered[r.Target] = true
	}

	lower := strings.ToLower(token)
	seen := make(map[string]bool)
	var matches []match
	for _, c := range candidates {
		key := strings.ToLower(c)
		if seen[key] || key == lower {
			continue
		}
		seen[key] = true
		d := fuzzy.LevenshteinDistance(lower, key)
		if !ordered[c] && d > MaxDistance {
			continue
		}
		matches = append(matches, match{name: c, distance: d, prefix: sharedPrefix(lower, key), ordered: ordered[c]})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix > matches[j].prefix
		}
		if matches[i].ordered != matches[j].ordered {
			return matches[i].ordered
		}
		return matches[i].name < matches[j].name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// For looks token up against src.
func For(src Source, token string, limit int) []string {
	return DidYouMean(token, src.Labels(), limit)
}

// Message renders the unknown-command line shown to users.
func Message(token string, matches []string) string {
	msg := fmt.Sprintf("unknown command %q", token)
	switch len(matches) {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s; did you mean %q?", msg, matches[0])
	default:
		quoted := make([]string, len(matches))
		for i, m := range matches {
			quoted[i] = fmt.Sprintf("%q", m)
		}
		return fmt.Sprintf("%s; did you mean %s or %s?", msg,
			strings.Join(quoted[:len(quoted)-1], ", "), quoted[len(quoted)-1])
	}
}
