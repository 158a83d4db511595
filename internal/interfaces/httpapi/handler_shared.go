package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/melodiq/practice-league/internal/domain/jobscheduler"
	"github.com/melodiq/practice-league/internal/domain/league"
	"github.com/melodiq/practice-league/internal/platform/logging"
	"github.com/melodiq/practice-league/internal/usecase"
)

type Handler struct {
	leagueService   *usecase.LeagueService
	standingService *usecase.LeagueStandingService
	xpService       *usecase.LeagueXPService
	auditService    *usecase.LeagueAuditService
	jobDispatchRepo jobscheduler.Repository
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	standingService *usecase.LeagueStandingService,
	xpService *usecase.LeagueXPService,
	auditService *usecase.LeagueAuditService,
	jobDispatchRepo jobscheduler.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:   leagueService,
		standingService: standingService,
		xpService:       xpService,
		auditService:    auditService,
		jobDispatchRepo: jobDispatchRepo,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type joinLeagueRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	AvatarID    string `json:"avatar_id" validate:"omitempty,max=80"`
	Tier        string `json:"tier" validate:"omitempty,max=20"`
}

type internalGrantXPRequest struct {
	LeagueID   string `json:"league_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
	Amount     int64  `json:"amount"`
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=200"`
}

type internalLeagueAuditRequest struct {
	WeekStart  string `json:"week_start" validate:"omitempty,len=10"`
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=200"`
}

type leagueDTO struct {
	ID           string `json:"id"`
	Tier         string `json:"tier"`
	WeekStart    string `json:"week_start"`
	MemberCount  int    `json:"member_count"`
	Capacity     int    `json:"capacity"`
	CreatedAtUTC string `json:"created_at_utc"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type leagueAssignmentDTO struct {
	League leagueDTO       `json:"league"`
	Member leagueMemberDTO `json:"member"`
	Rank   int             `json:"rank"`
}

type leagueMemberDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarID    string `json:"avatar_id,omitempty"`
	WeeklyXP    int64  `json:"weekly_xp"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type standingDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarID    string `json:"avatar_id,omitempty"`
	WeeklyXP    int64  `json:"weekly_xp"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type grantXPResultDTO struct {
	LeagueID string `json:"league_id"`
	UserID   string `json:"user_id"`
	Amount   int64  `json:"amount"`
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:           v.ID,
		Tier:         string(v.Tier),
		WeekStart:    v.WeekStart,
		MemberCount:  v.MemberCount,
		Capacity:     v.Capacity,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func leagueMemberToDTO(ctx context.Context, v league.Member) leagueMemberDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueMemberToDTO")
	defer span.End()

	return leagueMemberDTO{
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		AvatarID:    v.AvatarID,
		WeeklyXP:    v.WeeklyXP,
		JoinedAtUTC: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func leagueAssignmentToDTO(ctx context.Context, v usecase.LeagueAssignment) leagueAssignmentDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueAssignmentToDTO")
	defer span.End()

	return leagueAssignmentDTO{
		League: leagueToDTO(ctx, v.League),
		Member: leagueMemberToDTO(ctx, v.Member),
		Rank:   v.Rank,
	}
}

func standingToDTO(ctx context.Context, v league.Standing) standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingToDTO")
	defer span.End()

	return standingDTO{
		Rank:        v.Rank,
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		AvatarID:    v.AvatarID,
		WeeklyXP:    v.WeeklyXP,
		JoinedAtUTC: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}
