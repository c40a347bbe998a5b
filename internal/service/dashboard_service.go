package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/guidely/guidely-backend/internal/repository"
)

// DashboardData consolidates all metrics for the teacher dashboard.
type DashboardData struct {
	TotalGuides     int                            `json:"total_guides"`
	PublishedGuides int                            `json:"published_guides"`
	Followers       int                            `json:"followers"`
	GradingResults  int                            `json:"grading_results"`
	RecentActivity  []repository.DashboardActivity `json:"recent_activity"`
}

// DashboardService handles teacher dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboardData fetches the summary counts and recent activity for one
// teacher.
func (s *DashboardService) GetDashboardData(ctx context.Context, teacherID uuid.UUID) (*DashboardData, error) {
	guides, published, followers, reports, err := s.repo.GetSummaryCounts(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	activity, err := s.repo.GetRecentActivity(ctx, teacherID, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalGuides:     guides,
		PublishedGuides: published,
		Followers:       followers,
		GradingResults:  reports,
		RecentActivity:  activity,
	}, nil
}
