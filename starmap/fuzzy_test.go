package starmap

import "testing"

func TestFuzzySystemMatches(t *testing.T) {
	candidates := []string{"Jita", "Amarr", "Perimeter", "Dodixie", "Jito"}

	matches := fuzzySystemMatches("Jit", candidates)
	if len(matches) == 0 {
		t.Fatalf("expected at least one fuzzy match for %q", "Jit")
	}
	if matches[0] != "Jita" && matches[0] != "Jito" {
		t.Errorf("expected Jita or Jito to rank first, got %v", matches)
	}
}

func TestFuzzySystemMatchesLimit(t *testing.T) {
	candidates := []string{"Aaaaa", "Aaaab", "Aaaac", "Aaaad", "Aaaae", "Aaaaf"}
	matches := fuzzySystemMatches("Aaaaa", candidates)
	if len(matches) > fuzzySuggestionLimit {
		t.Errorf("expected at most %d matches, got %d", fuzzySuggestionLimit, len(matches))
	}
}

func TestFuzzySystemMatchesNoneBelowThreshold(t *testing.T) {
	candidates := []string{"Zzzzzzzzzz"}
	matches := fuzzySystemMatches("Jita", candidates)
	if len(matches) != 0 {
		t.Errorf("expected no matches for an unrelated name, got %v", matches)
	}
}
