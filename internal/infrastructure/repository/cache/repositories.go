package cache

import (
	"context"

	"github.com/melodiq/practice-league/internal/domain/league"
	basecache "github.com/melodiq/practice-league/internal/platform/cache"
)

// LeagueRepository caches league rows in front of another repository. Only
// GetByID is cached: matchmaking, standings and audits must always see the
// store, so those reads pass through untouched.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) FindOpenLeague(ctx context.Context, tier league.Tier, weekStart string) (league.League, bool, error) {
	return r.next.FindOpenLeague(ctx, tier, weekStart)
}

func (r *LeagueRepository) JoinLeague(ctx context.Context, leagueID string, member league.Member) (int, bool, error) {
	rank, joined, err := r.next.JoinLeague(ctx, leagueID, member)
	if err != nil {
		return 0, false, err
	}
	if joined {
		r.cache.Delete(ctx, leagueByIDKey(leagueID))
	}
	return rank, joined, nil
}

func (r *LeagueRepository) CreateLeague(ctx context.Context, item league.League, founder league.Member) error {
	if err := r.next.CreateLeague(ctx, item, founder); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueByIDKey(item.ID))
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	return r.next.ListMembers(ctx, leagueID)
}

func (r *LeagueRepository) AddMemberXP(ctx context.Context, leagueID, userID string, delta int64) error {
	return r.next.AddMemberXP(ctx, leagueID, userID, delta)
}

func (r *LeagueRepository) ListByWeek(ctx context.Context, weekStart string) ([]league.League, error) {
	return r.next.ListByWeek(ctx, weekStart)
}

func (r *LeagueRepository) CountMembers(ctx context.Context, leagueID string) (int, error) {
	return r.next.CountMembers(ctx, leagueID)
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func leagueByIDKey(leagueID string) string {
	return "league:id:" + leagueID
}
