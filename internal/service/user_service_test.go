package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/guidely/guidely-backend/internal/model"
)

func student(first, last string) model.UserProfile {
	return model.UserProfile{
		ID:        uuid.New(),
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  last,
		UserType:  model.UserTypeStudent,
	}
}

func TestRankSuggestionsSingleFragmentMatchesEitherName(t *testing.T) {
	candidates := []model.UserProfile{
		student("Smith", "Jones"),  // exact on first -> 10
		student("Anna", "Smith"),   // exact on last -> 10
		student("Smithson", "Lee"), // substring on first -> 5
		student("Bob", "Brown"),    // no match
	}

	got := rankSuggestions(candidates, "smith", "")
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(got))
	}
	if got[0].Score != 10 || got[1].Score != 10 {
		t.Errorf("top scores = %d, %d, want 10, 10", got[0].Score, got[1].Score)
	}
	if got[2].Score != 5 {
		t.Errorf("third score = %d, want 5", got[2].Score)
	}
	for _, s := range got {
		if s.FirstName == "Bob" {
			t.Error("non-matching candidate included")
		}
	}
}

func TestRankSuggestionsBothFragmentsRequireBothMatches(t *testing.T) {
	candidates := []model.UserProfile{
		student("Maria", "Garcia"),    // exact + exact -> 20
		student("Mariana", "Garcia"),  // substring + exact -> 15
		student("Maria", "Smith"),     // last name misses -> excluded
		student("John", "Garcia"),     // first name misses -> excluded
	}

	got := rankSuggestions(candidates, "Maria", "Garcia")
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].Score != 20 {
		t.Errorf("top score = %d, want 20", got[0].Score)
	}
	if got[1].Score != 15 {
		t.Errorf("second score = %d, want 15", got[1].Score)
	}
}

func TestRankSuggestionsCapsAtFive(t *testing.T) {
	var candidates []model.UserProfile
	for i := 0; i < 8; i++ {
		candidates = append(candidates, student("Alex", "Stone"))
	}

	got := rankSuggestions(candidates, "Alex", "")
	if len(got) != suggestionLimit {
		t.Errorf("got %d suggestions, want %d", len(got), suggestionLimit)
	}
}

func TestRankSuggestionsStableOrderOnTies(t *testing.T) {
	first := student("Sam", "Reed")
	second := student("Sam", "Cole")
	third := student("Sam", "Hale")

	got := rankSuggestions([]model.UserProfile{first, second, third}, "Sam", "")
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(got))
	}

	// All score 10 on the first name; input order must be preserved.
	wantOrder := []uuid.UUID{first.ID, second.ID, third.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestRankSuggestionsNoFilterReturnsAllWithZeroScore(t *testing.T) {
	candidates := []model.UserProfile{
		student("Amy", "West"),
		student("Ben", "North"),
	}

	got := rankSuggestions(candidates, "", "")
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	for _, s := range got {
		if s.Score != 0 {
			t.Errorf("score = %d, want 0", s.Score)
		}
	}
}

func TestMatchScoreExactBeatsSubstring(t *testing.T) {
	if got := matchScore("Smith", "smith"); got != exactMatchBonus {
		t.Errorf("exact match score = %d, want %d", got, exactMatchBonus)
	}
	if got := matchScore("Smithson", "smith"); got != substringMatchBonus {
		t.Errorf("substring match score = %d, want %d", got, substringMatchBonus)
	}
	if got := matchScore("Jones", "smith"); got != 0 {
		t.Errorf("no-match score = %d, want 0", got)
	}
}
