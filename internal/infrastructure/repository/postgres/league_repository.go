package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/melodiq/practice-league/internal/domain/league"
	qb "github.com/melodiq/practice-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// FindOpenLeague is an advisory read: the row it returns can fill up or
// disappear before the caller commits a join.
func (r *LeagueRepository) FindOpenLeague(ctx context.Context, tier league.Tier, weekStart string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("tier", string(tier)),
			qb.Eq("week_start", weekStart),
			qb.Expr("member_count < capacity"),
		).
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build find open league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("find open league: %w", err)
	}

	return leagueFromRow(row), true, nil
}

// JoinLeague re-reads the league row under FOR UPDATE so two concurrent joins
// cannot both take the last seat. A row that vanished or filled up since the
// caller's advisory read reports joined=false with no error.
func (r *LeagueRepository) JoinLeague(ctx context.Context, leagueID string, member league.Member) (int, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin tx join league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build lock league query: %w", err)
	}

	var row leagueTableModel
	if err := tx.GetContext(ctx, &row, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lock league for join: %w", err)
	}
	if row.MemberCount >= row.Capacity {
		return 0, false, nil
	}

	memberQuery, memberArgs, err := qb.InsertModel("league_members", leagueMemberInsertModel{
		LeagueID:    leagueID,
		UserID:      member.UserID,
		DisplayName: member.DisplayName,
		AvatarID:    member.AvatarID,
		WeeklyXP:    member.WeeklyXP,
		JoinedAt:    member.JoinedAt,
	}, "")
	if err != nil {
		return 0, false, fmt.Errorf("build insert league member query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
		return 0, false, fmt.Errorf("insert league member: %w", err)
	}

	bumpQuery, bumpArgs, err := qb.Update("leagues").
		SetExpr("member_count", "member_count + 1").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build increment member count query: %w", err)
	}
	result, err := tx.ExecContext(ctx, bumpQuery, bumpArgs...)
	if err != nil {
		return 0, false, fmt.Errorf("increment member count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected increment member count: %w", err)
	}
	if affected == 0 {
		return 0, false, fmt.Errorf("increment member count: not found")
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit join league tx: %w", err)
	}

	return row.MemberCount + 1, true, nil
}

func (r *LeagueRepository) CreateLeague(ctx context.Context, item league.League, founder league.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	leagueQuery, leagueArgs, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID:    item.ID,
		Tier:        string(item.Tier),
		WeekStart:   item.WeekStart,
		MemberCount: item.MemberCount,
		Capacity:    item.Capacity,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, leagueQuery, leagueArgs...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	founderQuery, founderArgs, err := qb.InsertModel("league_members", leagueMemberInsertModel{
		LeagueID:    item.ID,
		UserID:      founder.UserID,
		DisplayName: founder.DisplayName,
		AvatarID:    founder.AvatarID,
		WeeklyXP:    founder.WeeklyXP,
		JoinedAt:    founder.JoinedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league founder query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, founderQuery, founderArgs...); err != nil {
		return fmt.Errorf("insert league founder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("joined_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueMemberFromRow(row))
	}

	return out, nil
}

// AddMemberXP is a single in-place increment. Reading the current value first
// would reintroduce the lost-update race this method exists to avoid.
func (r *LeagueRepository) AddMemberXP(ctx context.Context, leagueID, userID string, delta int64) error {
	query, args, err := qb.Update("league_members").
		SetExpr("weekly_xp", "weekly_xp + ?", delta).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add member xp query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("add member xp: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected add member xp: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("add member xp: league member not found league=%s user=%s", leagueID, userID)
	}

	return nil
}

func (r *LeagueRepository) ListByWeek(ctx context.Context, weekStart string) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("week_start", weekStart)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by week query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by week: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) CountMembers(ctx context.Context, leagueID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("league_members").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count league members query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count league members: %w", err)
	}

	return count, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:          row.PublicID,
		Tier:        league.Tier(row.Tier),
		WeekStart:   row.WeekStart,
		MemberCount: row.MemberCount,
		Capacity:    row.Capacity,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func leagueMemberFromRow(row leagueMemberTableModel) league.Member {
	return league.Member{
		LeagueID:    row.LeagueID,
		UserID:      row.UserID,
		DisplayName: row.DisplayName,
		AvatarID:    row.AvatarID,
		WeeklyXP:    row.WeeklyXP,
		JoinedAt:    row.JoinedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
