package league

import (
	"fmt"
	"strings"
	"time"
)

// Tier buckets players of similar skill into separate weekly ladders.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// DefaultTier applies when a join request carries no tier.
const DefaultTier = TierBronze

// DefaultCapacity is the fixed member limit for every league.
const DefaultCapacity = 30

// ParseTier normalizes raw tier input. Empty input falls back to DefaultTier.
func ParseTier(raw string) (Tier, error) {
	tier := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if tier == "" {
		return DefaultTier, nil
	}

	switch tier {
	case TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond:
		return tier, nil
	default:
		return "", fmt.Errorf("unknown tier %q", raw)
	}
}

// League is one bounded weekly ladder for a single tier. Tier and WeekStart
// are immutable after creation; leagues are never deleted.
type League struct {
	ID          string
	Tier        Tier
	WeekStart   string
	MemberCount int
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Tier == "" {
		return fmt.Errorf("league tier is required")
	}
	if l.WeekStart == "" {
		return fmt.Errorf("league week start is required")
	}
	if l.Capacity <= 0 {
		return fmt.Errorf("league capacity must be positive")
	}
	if l.MemberCount < 0 || l.MemberCount > l.Capacity {
		return fmt.Errorf("league member count out of range")
	}

	return nil
}

// IsFull reports whether the league has no open slot left.
func (l League) IsFull() bool {
	return l.MemberCount >= l.Capacity
}

// Member is one user's seat in one league. Identity is (LeagueID, UserID).
// DisplayName and AvatarID are cosmetic snapshots taken at join time.
type Member struct {
	LeagueID    string
	UserID      string
	DisplayName string
	AvatarID    string
	WeeklyXP    int64
	JoinedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m Member) Validate() error {
	if m.LeagueID == "" {
		return fmt.Errorf("member league id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("member user id is required")
	}
	if m.DisplayName == "" {
		return fmt.Errorf("member display name is required")
	}

	return nil
}

// Standing is a member's computed position in its league. Rank is derived
// on every read and never persisted.
type Standing struct {
	Rank        int
	UserID      string
	DisplayName string
	AvatarID    string
	WeeklyXP    int64
	JoinedAt    time.Time
}
