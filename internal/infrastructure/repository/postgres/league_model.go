package postgres

import "time"

type leagueTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Tier        string    `db:"tier"`
	WeekStart   string    `db:"week_start"`
	MemberCount int       `db:"member_count"`
	Capacity    int       `db:"capacity"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID    string `db:"public_id"`
	Tier        string `db:"tier"`
	WeekStart   string `db:"week_start"`
	MemberCount int    `db:"member_count"`
	Capacity    int    `db:"capacity"`
}

type leagueMemberTableModel struct {
	ID          int64     `db:"id"`
	LeagueID    string    `db:"league_public_id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	AvatarID    string    `db:"avatar_id"`
	WeeklyXP    int64     `db:"weekly_xp"`
	JoinedAt    time.Time `db:"joined_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type leagueMemberInsertModel struct {
	LeagueID    string    `db:"league_public_id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	AvatarID    string    `db:"avatar_id"`
	WeeklyXP    int64     `db:"weekly_xp"`
	JoinedAt    time.Time `db:"joined_at"`
}
