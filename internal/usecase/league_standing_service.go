package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/melodiq/practice-league/internal/domain/league"
)

type LeagueStandingService struct {
	leagueRepo league.Repository
}

func NewLeagueStandingService(leagueRepo league.Repository) *LeagueStandingService {
	return &LeagueStandingService{leagueRepo: leagueRepo}
}

// GetLeagueStandings recomputes ranks from the live member rows: weekly XP
// descending, ties broken by earlier join. An unknown league yields an empty
// slice rather than an error; absence and emptiness are indistinguishable
// here on purpose, so no existence read happens.
func (s *LeagueStandingService) GetLeagueStandings(ctx context.Context, leagueID string) ([]league.Standing, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].WeeklyXP != members[j].WeeklyXP {
			return members[i].WeeklyXP > members[j].WeeklyXP
		}
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UserID < members[j].UserID
	})

	standings := make([]league.Standing, 0, len(members))
	for idx, member := range members {
		standings = append(standings, league.Standing{
			Rank:        idx + 1,
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			AvatarID:    member.AvatarID,
			WeeklyXP:    member.WeeklyXP,
			JoinedAt:    member.JoinedAt,
		})
	}

	return standings, nil
}
