package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/melodiq/practice-league/internal/usecase"
)

// JoinLeague places the authenticated player into an open league of the
// requested tier for the current week. Display name and avatar default to
// the account profile; the body may override both.
func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = principal.DisplayName
	}
	avatarID := strings.TrimSpace(req.AvatarID)
	if avatarID == "" {
		avatarID = principal.AvatarID
	}

	assignment, err := h.leagueService.AssignToLeague(ctx, usecase.AssignToLeagueInput{
		UserID:      principal.UserID,
		DisplayName: displayName,
		AvatarID:    avatarID,
		Tier:        req.Tier,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "tier", req.Tier, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "league joined",
		"user_id", principal.UserID,
		"league_id", assignment.League.ID,
		"tier", string(assignment.League.Tier),
		"week_start", assignment.League.WeekStart,
		"rank", assignment.Rank,
	)

	writeSuccess(ctx, w, http.StatusOK, leagueAssignmentToDTO(ctx, assignment))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(ctx, item))
}

// ListLeagueStandings returns the live ranking of one league. An unknown
// league yields an empty list, not an error.
func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	standings, err := h.standingService.GetLeagueStandings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
