package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/melodiq/practice-league/internal/domain/league"
)

// LeagueRepository keeps leagues in process memory. It mirrors the postgres
// adapter's contract, including the duplicate-key error text, so the usecase
// layer behaves the same against either backend.
type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	orders  []string
	members map[string][]league.Member
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:   items,
		orders:  orders,
		members: make(map[string][]league.Member),
	}
}

func (r *LeagueRepository) FindOpenLeague(_ context.Context, tier league.Tier, weekStart string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		l := r.items[id]
		if l.Tier != tier || l.WeekStart != weekStart {
			continue
		}
		if l.MemberCount >= l.Capacity {
			continue
		}
		return l, true, nil
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) JoinLeague(_ context.Context, leagueID string, member league.Member) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return 0, false, nil
	}
	if l.MemberCount >= l.Capacity {
		return 0, false, nil
	}

	for _, existing := range r.members[leagueID] {
		if existing.UserID == member.UserID {
			return 0, false, fmt.Errorf(`insert league member: duplicate key value violates unique constraint "league_members_user_unique"`)
		}
	}

	member.LeagueID = leagueID
	r.members[leagueID] = append(r.members[leagueID], member)

	l.MemberCount++
	l.UpdatedAt = member.JoinedAt
	r.items[leagueID] = l

	return l.MemberCount, true, nil
}

func (r *LeagueRepository) CreateLeague(_ context.Context, item league.League, founder league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf(`insert league: duplicate key value violates unique constraint "leagues_public_id_key"`)
	}

	founder.LeagueID = item.ID
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	r.members[item.ID] = []league.Member{founder}

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.Member(nil), r.members[leagueID]...), nil
}

func (r *LeagueRepository) AddMemberXP(_ context.Context, leagueID, userID string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[leagueID]
	for i := range members {
		if members[i].UserID == userID {
			members[i].WeeklyXP += delta
			return nil
		}
	}

	return fmt.Errorf("add member xp: league member not found league=%s user=%s", leagueID, userID)
}

func (r *LeagueRepository) ListByWeek(_ context.Context, weekStart string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		if l := r.items[id]; l.WeekStart == weekStart {
			out = append(out, l)
		}
	}

	return out, nil
}

func (r *LeagueRepository) CountMembers(_ context.Context, leagueID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members[leagueID]), nil
}
