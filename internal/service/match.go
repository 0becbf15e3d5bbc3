package service

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/contacts/internal/database/repository"
)

// Rank orders how well a value matches a search query. Higher is better.
type Rank int

const (
	NoMatch Rank = iota
	Typo
	Matches
	Acronym
	Contains
	WordStartsWith
	StartsWith
	Equal
	CaseSensitiveEqual
)

func (r Rank) String() string {
	switch r {
	case Typo:
		return "typo"
	case Matches:
		return "matches"
	case Acronym:
		return "acronym"
	case Contains:
		return "contains"
	case WordStartsWith:
		return "word-starts-with"
	case StartsWith:
		return "starts-with"
	case Equal:
		return "equal"
	case CaseSensitiveEqual:
		return "case-sensitive-equal"
	default:
		return "no-match"
	}
}

// RankContact returns the best rank of query against first, last and full name.
func RankContact(c repository.Contact, query string) Rank {
	query = strings.TrimSpace(query)
	best := NoMatch
	for _, v := range []string{c.First, c.Last, strings.TrimSpace(c.First + " " + c.Last)} {
		if r := RankValue(v, query); r > best {
			best = r
		}
	}
	return best
}

// RankValue ranks a single value against query.
func RankValue(value, query string) Rank {
	if value == "" || query == "" {
		return NoMatch
	}
	if value == query {
		return CaseSensitiveEqual
	}
	lv, lq := strings.ToLower(value), strings.ToLower(query)
	switch {
	case lv == lq:
		return Equal
	case strings.HasPrefix(lv, lq):
		return StartsWith
	case strings.Contains(lv, " "+lq):
		return WordStartsWith
	case strings.Contains(lv, lq):
		return Contains
	}
	n := utf8.RuneCountInString(lq)
	if n == 1 {
		return NoMatch
	}
	if strings.Contains(acronym(lv), lq) {
		return Acronym
	}
	if inOrder(lv, lq) {
		return Matches
	}
	if n >= 4 && withinTypo(lv, lq, n) {
		return Typo
	}
	return NoMatch
}

func acronym(s string) string {
	var b strings.Builder
	for _, w := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' }) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return b.String()
}

// inOrder reports whether every rune of q appears in s in order.
func inOrder(s, q string) bool {
	rest := s
	for _, r := range q {
		i := strings.IndexRune(rest, r)
		if i < 0 {
			return false
		}
		rest = rest[i+utf8.RuneLen(r):]
	}
	return true
}

func withinTypo(value, query string, n int) bool {
	tolerance := 1
	if n >= 6 {
		tolerance = 2
	}
	candidates := append(strings.Fields(value), value)
	for _, c := range candidates {
		if levenshtein.ComputeDistance(c, query) <= tolerance {
			return true
		}
	}
	return false
}
