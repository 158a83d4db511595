package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/melodiq/practice-league/internal/domain/jobscheduler"
	"github.com/melodiq/practice-league/internal/domain/league"
)

func TestLeagueAuditService_RunWeeklyAudit_FlagsDrift(t *testing.T) {
	t.Parallel()

	const week = "2026-08-17"
	repo := &stubLeagueRepo{
		weekLeagues: map[string][]league.League{
			week: {
				{ID: "lg-b", Tier: league.TierBronze, WeekStart: week, MemberCount: 5, Capacity: 30},
				{ID: "lg-a", Tier: league.TierBronze, WeekStart: week, MemberCount: 3, Capacity: 30},
				{ID: "lg-c", Tier: league.TierGold, WeekStart: week, MemberCount: 7, Capacity: 30},
			},
		},
		counts: map[string]int{"lg-a": 2, "lg-b": 6, "lg-c": 7},
	}
	queue := &stubJobQueue{}
	service := NewLeagueAuditService(repo, queue, nil, LeagueAuditConfig{MaxWorkers: 2}, nil)
	service.now = fixedAuditClock

	result, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{WeekStart: week})
	if err != nil {
		t.Fatalf("RunWeeklyAudit error: %v", err)
	}

	if result.WeekStart != week {
		t.Fatalf("unexpected week: %q", result.WeekStart)
	}
	if result.LeagueCount != 3 || result.CheckedCount != 3 {
		t.Fatalf("unexpected counts: league=%d checked=%d", result.LeagueCount, result.CheckedCount)
	}
	if result.DriftCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected drift/failed: drift=%d failed=%d", result.DriftCount, result.FailedCount)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(result.Reports))
	}
	if result.Reports[0].LeagueID != "lg-a" || result.Reports[1].LeagueID != "lg-b" {
		t.Fatalf("expected reports sorted by league id, got %+v", result.Reports)
	}
	if result.Reports[0].CountedMembers != 2 || result.Reports[0].MemberCount != 3 {
		t.Fatalf("unexpected drift details: %+v", result.Reports[0])
	}
	if result.NextRunQueued {
		t.Fatalf("self scheduling disabled, next run must not be queued")
	}
	if len(queue.calls) != 0 {
		t.Fatalf("expected no enqueue, got %d", len(queue.calls))
	}
}

func TestLeagueAuditService_RunWeeklyAudit_FlagsOverCapacity(t *testing.T) {
	t.Parallel()

	const week = "2026-08-17"
	repo := &stubLeagueRepo{
		weekLeagues: map[string][]league.League{
			week: {
				{ID: "lg-over", Tier: league.TierBronze, WeekStart: week, MemberCount: 31, Capacity: 30},
			},
		},
		counts: map[string]int{"lg-over": 31},
	}
	service := NewLeagueAuditService(repo, nil, nil, LeagueAuditConfig{}, nil)
	service.now = fixedAuditClock

	result, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{WeekStart: week})
	if err != nil {
		t.Fatalf("RunWeeklyAudit error: %v", err)
	}

	if result.DriftCount != 1 || len(result.Reports) != 1 {
		t.Fatalf("expected one drift report, got %+v", result)
	}
	report := result.Reports[0]
	if !report.OverCapacity {
		t.Fatalf("expected over-capacity flag, got %+v", report)
	}
	if !strings.Contains(report.Message, "over capacity") {
		t.Fatalf("unexpected message: %q", report.Message)
	}
}

func TestLeagueAuditService_RunWeeklyAudit_CountFailure(t *testing.T) {
	t.Parallel()

	const week = "2026-08-17"
	repo := &stubLeagueRepo{
		weekLeagues: map[string][]league.League{
			week: {
				{ID: "lg-ok", Tier: league.TierBronze, WeekStart: week, MemberCount: 4, Capacity: 30},
				{ID: "lg-broken", Tier: league.TierBronze, WeekStart: week, MemberCount: 4, Capacity: 30},
			},
		},
		counts:    map[string]int{"lg-ok": 4},
		countErrs: map[string]error{"lg-broken": errors.New("count query timed out")},
	}
	service := NewLeagueAuditService(repo, nil, nil, LeagueAuditConfig{}, nil)
	service.now = fixedAuditClock

	result, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{WeekStart: week})
	if err != nil {
		t.Fatalf("RunWeeklyAudit error: %v", err)
	}

	if result.FailedCount != 1 || result.DriftCount != 0 {
		t.Fatalf("unexpected failed/drift: failed=%d drift=%d", result.FailedCount, result.DriftCount)
	}
	if len(result.Reports) != 1 || result.Reports[0].Status != auditStatusFailed {
		t.Fatalf("expected one failed report, got %+v", result.Reports)
	}
}

func TestLeagueAuditService_RunWeeklyAudit_DefaultsToCurrentWeek(t *testing.T) {
	t.Parallel()

	repo := &stubLeagueRepo{}
	service := NewLeagueAuditService(repo, nil, nil, LeagueAuditConfig{}, nil)
	service.now = fixedAuditClock

	result, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{})
	if err != nil {
		t.Fatalf("RunWeeklyAudit error: %v", err)
	}
	if result.WeekStart != "2026-08-17" {
		t.Fatalf("unexpected default week: %q", result.WeekStart)
	}
	if repo.gotListWeek != "2026-08-17" {
		t.Fatalf("unexpected week queried: %q", repo.gotListWeek)
	}
}

func TestLeagueAuditService_RunWeeklyAudit_RejectsInvalidWeek(t *testing.T) {
	t.Parallel()

	repo := &stubLeagueRepo{}
	service := NewLeagueAuditService(repo, nil, nil, LeagueAuditConfig{}, nil)
	service.now = fixedAuditClock

	for _, week := range []string{"2026-08-19", "not-a-week"} {
		_, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{WeekStart: week})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("week %q: expected ErrInvalidInput, got %v", week, err)
		}
	}
	if repo.listWeekCalls != 0 {
		t.Fatalf("expected no store access for invalid weeks, got %d", repo.listWeekCalls)
	}
}

func TestLeagueAuditService_RunWeeklyAudit_SchedulesNextRun(t *testing.T) {
	t.Parallel()

	repo := &stubLeagueRepo{}
	queue := &stubJobQueue{}
	dispatchRepo := &stubDispatchRepo{}
	service := NewLeagueAuditService(repo, queue, dispatchRepo, LeagueAuditConfig{SelfSchedule: true}, nil)
	service.now = fixedAuditClock

	result, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{})
	if err != nil {
		t.Fatalf("RunWeeklyAudit error: %v", err)
	}
	if !result.NextRunQueued {
		t.Fatalf("expected next run queued")
	}
	if len(queue.calls) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(queue.calls))
	}

	call := queue.calls[0]
	if call.path != "/v1/internal/jobs/league-audit" {
		t.Fatalf("unexpected path: %q", call.path)
	}
	if want := 86*time.Hour + 30*time.Minute; call.delay != want {
		t.Fatalf("unexpected delay: got=%v want=%v", call.delay, want)
	}
	if !strings.HasPrefix(call.dedupID, "league-audit-2026-08-24-") {
		t.Fatalf("unexpected dedup id: %q", call.dedupID)
	}
	payload, ok := call.payload.(map[string]any)
	if !ok || payload["week_start"] != "2026-08-24" || payload["dispatch_id"] != call.dedupID {
		t.Fatalf("unexpected payload: %+v", call.payload)
	}

	if len(dispatchRepo.events) != 1 {
		t.Fatalf("expected one dispatch event, got %d", len(dispatchRepo.events))
	}
	event := dispatchRepo.events[0]
	if event.Status != jobscheduler.StatusSent || event.WeekStart != "2026-08-24" || event.DispatchID != call.dedupID {
		t.Fatalf("unexpected dispatch event: %+v", event)
	}
}

func TestLeagueAuditService_RunWeeklyAudit_QueueFailureRecordsFailedDispatch(t *testing.T) {
	t.Parallel()

	repo := &stubLeagueRepo{}
	queue := &stubJobQueue{err: errors.New("queue unreachable")}
	dispatchRepo := &stubDispatchRepo{}
	service := NewLeagueAuditService(repo, queue, dispatchRepo, LeagueAuditConfig{SelfSchedule: true}, nil)
	service.now = fixedAuditClock

	_, err := service.RunWeeklyAudit(context.Background(), LeagueAuditInput{})
	if err == nil {
		t.Fatalf("expected enqueue failure to surface")
	}
	if len(dispatchRepo.events) != 1 || dispatchRepo.events[0].Status != jobscheduler.StatusFailed {
		t.Fatalf("expected one failed dispatch event, got %+v", dispatchRepo.events)
	}
}

func TestDedupKey_UsesQueueSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("league-audit", "week 2026:02/23", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "league-audit-week-2026-02-23-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

type queueCall struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type stubJobQueue struct {
	mu    sync.Mutex
	err   error
	calls []queueCall
}

func (s *stubJobQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, queueCall{path: path, payload: payload, delay: delay, dedupID: deduplicationID})
	return s.err
}

type stubDispatchRepo struct {
	mu     sync.Mutex
	err    error
	events []jobscheduler.DispatchEvent
}

func (s *stubDispatchRepo) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}
