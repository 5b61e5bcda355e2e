package starmap

import (
	"sort"

	"github.com/xrash/smetrics"
)

// fuzzyMatchThreshold is the minimum Jaro-Winkler similarity a system name
// must reach to be offered as a suggestion for an unresolved name.
const fuzzyMatchThreshold = 0.7

// fuzzySuggestionLimit bounds how many suggestions are ever returned, worst
// name first in the returned list's tail.
const fuzzySuggestionLimit = 5

type scoredName struct {
	name  string
	score float64
}

// FuzzyMatches returns up to fuzzySuggestionLimit system names similar to
// query, ranked by descending Jaro-Winkler similarity, for systems whose
// similarity is at least fuzzyMatchThreshold. Used to build suggestion
// lists on an UnknownSystem error.
func (s *Starmap) FuzzyMatches(query string) []string {
	return fuzzySystemMatches(query, s.Names())
}

func fuzzySystemMatches(query string, candidates []string) []string {
	var scored []scoredName
	for _, name := range candidates {
		score := smetrics.JaroWinkler(query, name, 0.7, 4)
		if score >= fuzzyMatchThreshold {
			scored = append(scored, scoredName{name: name, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name < scored[j].name
	})

	if len(scored) > fuzzySuggestionLimit {
		scored = scored[:fuzzySuggestionLimit]
	}

	out := make([]string, len(scored))
	for i, sc := range scored {
		out[i] = sc.name
	}
	return out
}
