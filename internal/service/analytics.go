package service

import (
	"context"

	"foodbridge-api-server/internal/models"
)

// PlatformAnalytics is the admin dashboard summary.
type PlatformAnalytics struct {
	TotalDonations    int            `json:"totalDonations"`
	DonationsByStatus map[string]int `json:"donationsByStatus"`
	TotalUsers        int            `json:"totalUsers"`
	UsersByRole       map[string]int `json:"usersByRole"`
	VerifiedNgos      int            `json:"verifiedNgos"`
}

// AnalyticsService computes platform-wide counts for the admin view.
type AnalyticsService struct {
	Store Store
}

func (s *AnalyticsService) Summary(ctx context.Context) (PlatformAnalytics, error) {
	donations, err := s.Store.AllDonations(ctx)
	if err != nil {
		return PlatformAnalytics{}, err
	}
	users, err := s.Store.Users(ctx)
	if err != nil {
		return PlatformAnalytics{}, err
	}

	out := PlatformAnalytics{
		TotalDonations:    len(donations),
		DonationsByStatus: make(map[string]int),
		TotalUsers:        len(users),
		UsersByRole:       make(map[string]int),
	}
	for _, d := range donations {
		out.DonationsByStatus[d.Status]++
	}
	for _, u := range users {
		out.UsersByRole[u.Role]++
		if u.Role == models.RoleNgo && u.IsVerified {
			out.VerifiedNgos++
		}
	}
	return out, nil
}
