package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/repository"
)

const (
	suggestionLimit     = 5
	searchDefaultLimit  = 10
	searchMaxLimit      = 50
	exactMatchBonus     = 10
	substringMatchBonus = 5
)

// UserService handles user profile lookup, search, and suggestions.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID retrieves a user profile by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user profile by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// Create registers a new user profile.
func (s *UserService) Create(ctx context.Context, u *model.UserProfile) error {
	return s.userRepo.Create(ctx, u)
}

// SearchStudents retrieves student accounts matching a free-text query.
func (s *UserService) SearchStudents(ctx context.Context, query string, limit int) ([]model.PublicProfile, error) {
	if limit < 1 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	students, err := s.userRepo.SearchStudents(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.PublicProfile, 0, len(students))
	for i := range students {
		profiles = append(profiles, students[i].Public())
	}
	return profiles, nil
}

// SuggestStudents ranks the teacher's student followers against optional
// first/last name fragments. Both fragments must match when both are given;
// a single fragment may match either name. Results are capped at 5.
func (s *UserService) SuggestStudents(ctx context.Context, teacherID uuid.UUID, firstName, lastName string) ([]model.StudentSuggestion, error) {
	followers, err := s.userRepo.ListStudentFollowers(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return rankSuggestions(followers, firstName, lastName), nil
}

// rankSuggestions applies the heuristic relevance score: +10 for an exact
// case-insensitive match on a name field, else +5 for a substring match,
// summed over the fields the query addresses. The sort is stable so ties
// preserve upstream (follow) ordering.
func rankSuggestions(candidates []model.UserProfile, firstName, lastName string) []model.StudentSuggestion {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	suggestions := make([]model.StudentSuggestion, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		score := 0

		switch {
		case firstName != "" && lastName != "":
			// Both fragments supplied: AND semantics, each scored against
			// its own field. Both exact bonuses can apply simultaneously.
			fs := matchScore(c.FirstName, firstName)
			ls := matchScore(c.LastName, lastName)
			if fs == 0 || ls == 0 {
				continue
			}
			score = fs + ls
		case firstName != "":
			score = matchScore(c.FirstName, firstName) + matchScore(c.LastName, firstName)
			if score == 0 {
				continue
			}
		case lastName != "":
			score = matchScore(c.FirstName, lastName) + matchScore(c.LastName, lastName)
			if score == 0 {
				continue
			}
		default:
			// No filter: everyone qualifies with a zero score.
		}

		suggestions = append(suggestions, model.StudentSuggestion{
			PublicProfile: c.Public(),
			Score:         score,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions
}

// matchScore scores one query fragment against one name field. An exact
// match never also earns the substring bonus.
func matchScore(field, query string) int {
	if strings.EqualFold(field, query) {
		return exactMatchBonus
	}
	if strings.Contains(strings.ToLower(field), strings.ToLower(query)) {
		return substringMatchBonus
	}
	return 0
}
