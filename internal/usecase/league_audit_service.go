package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/melodiq/practice-league/internal/domain/epoch"
	"github.com/melodiq/practice-league/internal/domain/jobscheduler"
	"github.com/melodiq/practice-league/internal/domain/league"
	"github.com/melodiq/practice-league/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

const (
	auditStatusDrift  = "drift"
	auditStatusFailed = "failed"

	auditJobName = "league-audit"
	auditJobPath = "/v1/internal/jobs/league-audit"
)

type LeagueAuditConfig struct {
	MaxWorkers   int
	SelfSchedule bool
}

type LeagueAuditInput struct {
	// WeekStart selects the audited week; empty means the current epoch.
	WeekStart string
}

type LeagueAuditResult struct {
	WeekStart     string              `json:"week_start"`
	LeagueCount   int                 `json:"league_count"`
	CheckedCount  int                 `json:"checked_count"`
	DriftCount    int                 `json:"drift_count"`
	FailedCount   int                 `json:"failed_count"`
	WorkerCount   int                 `json:"worker_count"`
	Reports       []LeagueAuditReport `json:"reports"`
	NextRunQueued bool                `json:"next_run_queued"`
}

// LeagueAuditReport is one anomaly found during the audit. Healthy leagues
// only bump CheckedCount.
type LeagueAuditReport struct {
	LeagueID       string `json:"league_id"`
	Tier           string `json:"tier"`
	MemberCount    int    `json:"member_count"`
	CountedMembers int    `json:"counted_members"`
	OverCapacity   bool   `json:"over_capacity"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
}

// LeagueAuditService recounts league memberships against the denormalized
// member_count column. The matchmaker trusts member_count when filling
// leagues, so silent drift would corrupt assignment.
type LeagueAuditService struct {
	leagueRepo   league.Repository
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          LeagueAuditConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewLeagueAuditService(
	leagueRepo league.Repository,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg LeagueAuditConfig,
	logger *logging.Logger,
) *LeagueAuditService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}

	return &LeagueAuditService{
		leagueRepo:   leagueRepo,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *LeagueAuditService) RunWeeklyAudit(ctx context.Context, input LeagueAuditInput) (LeagueAuditResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAuditService.RunWeeklyAudit")
	defer span.End()

	now := s.now().UTC()
	weekStart := strings.TrimSpace(input.WeekStart)
	if weekStart == "" {
		weekStart = epoch.WeekID(now)
	} else {
		parsed, err := epoch.ParseWeekID(weekStart)
		if err != nil {
			return LeagueAuditResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		weekStart = epoch.WeekID(parsed)
	}

	leagues, err := s.leagueRepo.ListByWeek(ctx, weekStart)
	if err != nil {
		return LeagueAuditResult{}, fmt.Errorf("list leagues for week=%s: %w", weekStart, err)
	}

	workerCount := normalizeAuditWorkerCount(s.cfg.MaxWorkers, len(leagues))
	result := LeagueAuditResult{
		WeekStart:   weekStart,
		LeagueCount: len(leagues),
		WorkerCount: workerCount,
		Reports:     make([]LeagueAuditReport, 0, len(leagues)),
	}

	if len(leagues) > 0 {
		reports := make(chan LeagueAuditReport, len(leagues))

		var checkedCount atomic.Int32
		var driftCount atomic.Int32
		var failedCount atomic.Int32

		pool, err := ants.NewPool(workerCount)
		if err != nil {
			return LeagueAuditResult{}, fmt.Errorf("create worker pool: %w", err)
		}
		defer pool.Release()

		var workers sync.WaitGroup
		for _, item := range leagues {
			item := item
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()

				report, ok := s.auditLeague(ctx, item)
				checkedCount.Add(1)
				if !ok {
					return
				}

				switch report.Status {
				case auditStatusFailed:
					failedCount.Add(1)
				default:
					driftCount.Add(1)
				}

				reports <- report
			}); err != nil {
				workers.Done()
				return LeagueAuditResult{}, fmt.Errorf("submit audit task to worker pool: %w", err)
			}
		}

		workers.Wait()
		close(reports)

		for report := range reports {
			result.Reports = append(result.Reports, report)
		}

		sort.SliceStable(result.Reports, func(i, j int) bool {
			return result.Reports[i].LeagueID < result.Reports[j].LeagueID
		})

		result.CheckedCount = int(checkedCount.Load())
		result.DriftCount = int(driftCount.Load())
		result.FailedCount = int(failedCount.Load())
	}

	if s.cfg.SelfSchedule {
		if err := s.enqueueNextAudit(ctx, now); err != nil {
			return LeagueAuditResult{}, err
		}
		result.NextRunQueued = true
	}

	return result, nil
}

// auditLeague returns a report only for anomalies; healthy leagues return
// ok=false.
func (s *LeagueAuditService) auditLeague(ctx context.Context, item league.League) (LeagueAuditReport, bool) {
	counted, err := s.leagueRepo.CountMembers(ctx, item.ID)
	if err != nil {
		return LeagueAuditReport{
			LeagueID:    item.ID,
			Tier:        string(item.Tier),
			MemberCount: item.MemberCount,
			Status:      auditStatusFailed,
			Message:     err.Error(),
		}, true
	}

	overCapacity := item.MemberCount > item.Capacity || counted > item.Capacity
	if counted == item.MemberCount && !overCapacity {
		return LeagueAuditReport{}, false
	}

	report := LeagueAuditReport{
		LeagueID:       item.ID,
		Tier:           string(item.Tier),
		MemberCount:    item.MemberCount,
		CountedMembers: counted,
		OverCapacity:   overCapacity,
		Status:         auditStatusDrift,
	}
	switch {
	case overCapacity:
		report.Message = fmt.Sprintf("league holds %d members over capacity %d", counted, item.Capacity)
	default:
		report.Message = fmt.Sprintf("member_count=%d disagrees with counted rows=%d", item.MemberCount, counted)
	}

	return report, true
}

// enqueueNextAudit schedules the audit for the following week, bucketed so a
// crashed-and-retried run cannot double-book the slot.
func (s *LeagueAuditService) enqueueNextAudit(ctx context.Context, now time.Time) error {
	nextWeek := epoch.WeekStart(now).AddDate(0, 0, 7)
	nextWeekID := epoch.WeekID(nextWeek)
	delay := nextWeek.Sub(now)
	if delay < 0 {
		delay = 0
	}

	dedupID := dedupKey(auditJobName, nextWeekID, nextWeek, 7*24*time.Hour)
	payload := map[string]any{
		"week_start":  nextWeekID,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, auditJobPath, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      auditJobName,
			JobPath:      auditJobPath,
			WeekStart:    nextWeekID,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now.UTC(),
		})
		return fmt.Errorf("enqueue league-audit week=%s: %w", nextWeekID, err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    auditJobName,
		JobPath:    auditJobPath,
		WeekStart:  nextWeekID,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now.UTC(),
	})
	return nil
}

func (s *LeagueAuditService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	scope = sanitizeDedupSegment(scope)
	return prefix + "-" + scope + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}

func normalizeAuditWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 16 {
		value = 16
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
