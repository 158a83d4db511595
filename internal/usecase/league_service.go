package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/melodiq/practice-league/internal/domain/epoch"
	"github.com/melodiq/practice-league/internal/domain/league"
	idgen "github.com/melodiq/practice-league/internal/platform/id"
)

type AssignToLeagueInput struct {
	UserID      string
	DisplayName string
	AvatarID    string
	Tier        string
}

// LeagueAssignment is the outcome of a join: the league the user landed in,
// their membership row, and the rank they entered at. Rank here is advisory,
// standings recompute it on every read.
type LeagueAssignment struct {
	League league.League
	Member league.Member
	Rank   int
}

type LeagueService struct {
	leagueRepo league.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, idGen idgen.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

// AssignToLeague places a user into the oldest open league of their tier for
// the current week, creating a fresh league when none can take them.
//
// The join is optimistic: the advisory read runs outside any transaction and
// the repository revalidates the candidate under a row lock. A candidate that
// vanished or filled up in between falls through to the create path; there is
// no retry loop.
func (s *LeagueService) AssignToLeague(ctx context.Context, input AssignToLeagueInput) (LeagueAssignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.AssignToLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.AvatarID = strings.TrimSpace(input.AvatarID)
	if input.UserID == "" {
		return LeagueAssignment{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.DisplayName == "" {
		return LeagueAssignment{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	tier, err := league.ParseTier(input.Tier)
	if err != nil {
		return LeagueAssignment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	weekStart := epoch.WeekID(now)
	member := league.Member{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		AvatarID:    input.AvatarID,
		WeeklyXP:    0,
		JoinedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	candidate, found, err := s.leagueRepo.FindOpenLeague(ctx, tier, weekStart)
	if err != nil {
		return LeagueAssignment{}, fmt.Errorf("find open league: %w", err)
	}
	if found {
		member.LeagueID = candidate.ID
		rank, joined, err := s.leagueRepo.JoinLeague(ctx, candidate.ID, member)
		if err != nil {
			if isDuplicateConstraintError(err) {
				return LeagueAssignment{}, fmt.Errorf("%w: already a member of league=%s", ErrInvalidInput, candidate.ID)
			}
			return LeagueAssignment{}, fmt.Errorf("join league=%s: %w", candidate.ID, err)
		}
		if joined {
			// rank equals the member count after this join.
			candidate.MemberCount = rank
			return LeagueAssignment{League: candidate, Member: member, Rank: rank}, nil
		}
		// Candidate filled up or vanished since the advisory read.
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return LeagueAssignment{}, fmt.Errorf("generate league id: %w", err)
	}

	lg := league.League{
		ID:          leagueID,
		Tier:        tier,
		WeekStart:   weekStart,
		MemberCount: 1,
		Capacity:    league.DefaultCapacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	member.LeagueID = leagueID
	if err := s.leagueRepo.CreateLeague(ctx, lg, member); err != nil {
		return LeagueAssignment{}, fmt.Errorf("create league: %w", err)
	}

	return LeagueAssignment{League: lg, Member: member, Rank: 1}, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "duplicate key value violates unique constraint")
}
