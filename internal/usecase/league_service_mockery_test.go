package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/melodiq/practice-league/internal/domain/league"
	leaguemock "github.com/melodiq/practice-league/internal/mocks/domain/league"
	"github.com/stretchr/testify/mock"
)

func TestLeagueService_AssignToLeague_JoinSuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)

	service := NewLeagueService(leagueRepo, stubIDGenerator{id: "lg-unused"})
	service.now = fixedAuditClock

	candidate := league.League{
		ID:          "lg-17",
		Tier:        league.TierSilver,
		WeekStart:   "2026-08-17",
		MemberCount: 11,
		Capacity:    league.DefaultCapacity,
	}

	leagueRepo.
		On("FindOpenLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), league.TierSilver, "2026-08-17").
		Return(candidate, true, nil).
		Once()
	leagueRepo.
		On("JoinLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "lg-17", mock.MatchedBy(func(m league.Member) bool {
			return m.LeagueID == "lg-17" && m.UserID == "user-12" && m.WeeklyXP == 0
		})).
		Return(12, true, nil).
		Once()

	got, err := service.AssignToLeague(ctx, AssignToLeagueInput{
		UserID:      "user-12",
		DisplayName: "Noor",
		Tier:        "silver",
	})
	if err != nil {
		t.Fatalf("assign to league: %v", err)
	}
	if got.Rank != 12 {
		t.Fatalf("unexpected rank: got=%d want=%d", got.Rank, 12)
	}
	if got.League.ID != candidate.ID {
		t.Fatalf("unexpected league id: got=%s want=%s", got.League.ID, candidate.ID)
	}
}

func TestLeagueService_AssignToLeague_UnknownTierTouchesNoStoreUsingMockery(t *testing.T) {
	t.Parallel()

	// No expectations registered: any repository call would fail the test.
	leagueRepo := leaguemock.NewRepository(t)

	service := NewLeagueService(leagueRepo, stubIDGenerator{id: "lg-unused"})
	service.now = fixedAuditClock

	_, err := service.AssignToLeague(context.Background(), AssignToLeagueInput{
		UserID:      "user-1",
		DisplayName: "Ada",
		Tier:        "obsidian",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueXPService_AddLeagueXP_PassesDeltaThroughUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueXPService(leagueRepo)

	leagueRepo.
		On("AddMemberXP", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "lg-17", "user-12", int64(-40)).
		Return(nil).
		Once()

	if err := service.AddLeagueXP(context.Background(), AddLeagueXPInput{
		LeagueID: "lg-17",
		UserID:   "user-12",
		Delta:    -40,
	}); err != nil {
		t.Fatalf("add league xp: %v", err)
	}
}
