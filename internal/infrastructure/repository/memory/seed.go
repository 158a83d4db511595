package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/melodiq/practice-league/internal/domain/league"
)

// SeedDemoWeek fills an empty repository with a small practice week so the
// API is explorable without postgres. It goes through the repository's own
// join path, keeping member counts consistent.
func SeedDemoWeek(ctx context.Context, repo *LeagueRepository, weekStart string, now time.Time) error {
	demo := []struct {
		id      string
		tier    league.Tier
		members []league.Member
		xp      []int64
	}{
		{
			id:   "lg-demo-bronze-1",
			tier: league.TierBronze,
			members: []league.Member{
				{UserID: "usr-demo-aria", DisplayName: "Aria", AvatarID: "avatar-03"},
				{UserID: "usr-demo-felix", DisplayName: "Felix", AvatarID: "avatar-11"},
				{UserID: "usr-demo-mina", DisplayName: "Mina", AvatarID: "avatar-07"},
				{UserID: "usr-demo-theo", DisplayName: "Theo", AvatarID: "avatar-02"},
			},
			xp: []int64{320, 455, 120, 0},
		},
		{
			id:   "lg-demo-silver-1",
			tier: league.TierSilver,
			members: []league.Member{
				{UserID: "usr-demo-june", DisplayName: "June", AvatarID: "avatar-09"},
				{UserID: "usr-demo-otto", DisplayName: "Otto", AvatarID: "avatar-05"},
			},
			xp: []int64{780, 655},
		},
	}

	for _, d := range demo {
		founder := d.members[0]
		founder.WeeklyXP = 0
		founder.JoinedAt = now
		founder.CreatedAt = now
		founder.UpdatedAt = now

		err := repo.CreateLeague(ctx, league.League{
			ID:          d.id,
			Tier:        d.tier,
			WeekStart:   weekStart,
			MemberCount: 1,
			Capacity:    league.DefaultCapacity,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, founder)
		if err != nil {
			return fmt.Errorf("seed league %s: %w", d.id, err)
		}

		for i, m := range d.members[1:] {
			m.WeeklyXP = 0
			m.JoinedAt = now.Add(time.Duration(i+1) * time.Minute)
			m.CreatedAt = m.JoinedAt
			m.UpdatedAt = m.JoinedAt
			if _, _, err := repo.JoinLeague(ctx, d.id, m); err != nil {
				return fmt.Errorf("seed league member %s: %w", m.UserID, err)
			}
		}

		for i, amount := range d.xp {
			if amount == 0 {
				continue
			}
			if err := repo.AddMemberXP(ctx, d.id, d.members[i].UserID, amount); err != nil {
				return fmt.Errorf("seed member xp %s: %w", d.members[i].UserID, err)
			}
		}
	}

	return nil
}
