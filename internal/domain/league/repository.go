package league

import "context"

// Repository describes league persistence needs from use cases.
//
// JoinLeague re-reads the league row inside its own transaction and reports
// joined=false without an error when the row vanished or filled up since the
// caller's advisory read, so callers can fall through to CreateLeague.
// AddMemberXP is a single atomic increment with no preceding read.
type Repository interface {
	FindOpenLeague(ctx context.Context, tier Tier, weekStart string) (League, bool, error)
	JoinLeague(ctx context.Context, leagueID string, member Member) (rank int, joined bool, err error)
	CreateLeague(ctx context.Context, lg League, founder Member) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
	AddMemberXP(ctx context.Context, leagueID, userID string, delta int64) error
	ListByWeek(ctx context.Context, weekStart string) ([]League, error)
	CountMembers(ctx context.Context, leagueID string) (int, error)
}
