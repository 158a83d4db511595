package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/melodiq/practice-league/internal/domain/jobscheduler"
	"github.com/melodiq/practice-league/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// RunGrantXPJob applies one XP grant to a league member. The queue calls it
// after a practice session is scored; operators can call it by hand with a
// fresh dispatch_id.
func (h *Handler) RunGrantXPJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGrantXPJob")
	defer span.End()

	var req internalGrantXPRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.xpService.AddLeagueXP(ctx, usecase.AddLeagueXPInput{
		LeagueID: req.LeagueID,
		UserID:   req.UserID,
		Delta:    req.Amount,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, jobscheduler.DispatchEvent{
			JobName:      "grant-xp",
			JobPath:      "/v1/internal/jobs/grant-xp",
			LeagueID:     req.LeagueID,
			Status:       jobscheduler.StatusFailed,
			Payload:      buildGrantXPPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run grant xp job failed", "league_id", req.LeagueID, "user_id", req.UserID, "amount", req.Amount, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, jobscheduler.DispatchEvent{
		JobName:    "grant-xp",
		JobPath:    "/v1/internal/jobs/grant-xp",
		LeagueID:   req.LeagueID,
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildGrantXPPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, grantXPResultDTO{
		LeagueID: req.LeagueID,
		UserID:   req.UserID,
		Amount:   req.Amount,
	})
}

// RunLeagueAuditJob recounts memberships for one week's leagues. An empty
// body audits the current week.
func (h *Handler) RunLeagueAuditJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeagueAuditJob")
	defer span.End()

	req, err := decodeInternalLeagueAuditRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auditService.RunWeeklyAudit(ctx, usecase.LeagueAuditInput{
		WeekStart: req.WeekStart,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req.DispatchID, jobscheduler.DispatchEvent{
			JobName:      "league-audit",
			JobPath:      "/v1/internal/jobs/league-audit",
			WeekStart:    req.WeekStart,
			Status:       jobscheduler.StatusFailed,
			Payload:      buildLeagueAuditPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run league audit job failed", "week_start", req.WeekStart, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req.DispatchID, jobscheduler.DispatchEvent{
		JobName:    "league-audit",
		JobPath:    "/v1/internal/jobs/league-audit",
		WeekStart:  result.WeekStart,
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildLeagueAuditPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeInternalLeagueAuditRequest(r *http.Request) (internalLeagueAuditRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalLeagueAuditRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalLeagueAuditRequest{}, nil
		}
		return internalLeagueAuditRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, requestDispatchID string, event jobscheduler.DispatchEvent) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(requestDispatchID)
	if dispatchID == "" {
		scope := event.LeagueID
		if scope == "" {
			scope = event.WeekStart
		}
		dispatchID = buildManualDispatchID(event.JobName, scope, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildGrantXPPayload(req internalGrantXPRequest) map[string]any {
	payload := map[string]any{
		"league_id": req.LeagueID,
		"user_id":   req.UserID,
		"amount":    req.Amount,
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildLeagueAuditPayload(req internalLeagueAuditRequest) map[string]any {
	payload := map[string]any{}
	if strings.TrimSpace(req.WeekStart) != "" {
		payload["week_start"] = req.WeekStart
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildManualDispatchID(jobName, scope string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	scope = sanitizeDispatchPart(scope)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-" + scope + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
