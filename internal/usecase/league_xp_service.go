package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/melodiq/practice-league/internal/domain/league"
)

type AddLeagueXPInput struct {
	LeagueID string
	UserID   string
	Delta    int64
}

type LeagueXPService struct {
	leagueRepo league.Repository
}

func NewLeagueXPService(leagueRepo league.Repository) *LeagueXPService {
	return &LeagueXPService{leagueRepo: leagueRepo}
}

// AddLeagueXP applies one atomic increment to the member's weekly counter.
// There is deliberately no read-modify-write; concurrent grants must never
// lose updates.
func (s *LeagueXPService) AddLeagueXP(ctx context.Context, input AddLeagueXPInput) error {
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.LeagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if err := s.leagueRepo.AddMemberXP(ctx, input.LeagueID, input.UserID, input.Delta); err != nil {
		if isNotFoundText(err) {
			return fmt.Errorf("%w: membership league=%s user=%s", ErrNotFound, input.LeagueID, input.UserID)
		}
		return fmt.Errorf("add league xp: %w", err)
	}

	return nil
}

func isNotFoundText(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
