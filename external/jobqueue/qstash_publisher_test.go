package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/melodiq/practice-league/internal/platform/logging"
	"github.com/melodiq/practice-league/internal/platform/resilience"
)

func TestQStashPublisher_SendsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "http://jobs.internal:8080",
		Retries:          3,
		InternalJobToken: "internal-job-secret",
		Timeout:          2 * time.Second,
	}, logging.NewNop())

	payload := map[string]any{"week_start": "2026-08-24"}
	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/league-audit", payload, 90*time.Second, "league-audit-2026-08-24")
	if err != nil {
		t.Fatalf("expected publish to succeed, got err=%v", err)
	}

	if !strings.Contains(gotPath, "/v2/publish/") {
		t.Fatalf("expected publish endpoint, got path=%s", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/v1/internal/jobs/league-audit") {
		t.Fatalf("expected target job path in publish URL, got path=%s", gotPath)
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("expected bearer token header, got=%q", got)
	}
	if got := gotHeaders.Get("Upstash-Method"); got != http.MethodPost {
		t.Fatalf("expected Upstash-Method=POST, got=%q", got)
	}
	if got := gotHeaders.Get("Upstash-Retries"); got != "3" {
		t.Fatalf("expected Upstash-Retries=3, got=%q", got)
	}
	if got := gotHeaders.Get("Upstash-Delay"); got != "90s" {
		t.Fatalf("expected Upstash-Delay=90s, got=%q", got)
	}
	if got := gotHeaders.Get("Upstash-Deduplication-Id"); got != "league-audit-2026-08-24" {
		t.Fatalf("expected deduplication id header, got=%q", got)
	}
	if got := gotHeaders.Get("Upstash-Forward-X-Internal-Job-Token"); got != "internal-job-secret" {
		t.Fatalf("expected forwarded internal job token, got=%q", got)
	}

	var decoded map[string]any
	if err := sonic.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("expected JSON body, got err=%v", err)
	}
	if decoded["week_start"] != "2026-08-24" {
		t.Fatalf("expected payload week_start, got=%v", decoded["week_start"])
	}
}

func TestQStashPublisher_RetryableStatusOpensCircuit(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       server.URL,
		Token:         "qstash-token",
		TargetBaseURL: "http://jobs.internal:8080",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/grant-xp", nil, 0, ""); err == nil {
		t.Fatalf("expected first publish to fail on status 500")
	}
	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/grant-xp", nil, 0, "")
	if err == nil {
		t.Fatalf("expected second publish to be rejected by open circuit")
	}
	if !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection error, got=%v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one upstream call, got=%d", calls)
	}
}

func TestQStashPublisher_RejectsEmptyJobPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "http://qstash.internal",
		Token:         "qstash-token",
		TargetBaseURL: "http://jobs.internal:8080",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatalf("expected empty job path to be rejected")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		delay time.Duration
		want  string
	}{
		{name: "zero", delay: 0, want: "0s"},
		{name: "negative", delay: -time.Second, want: "0s"},
		{name: "sub second rounds", delay: 1500 * time.Millisecond, want: "2s"},
		{name: "minutes", delay: 90 * time.Second, want: "90s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeDelay(tc.delay); got != tc.want {
				t.Fatalf("expected %q, got=%q", tc.want, got)
			}
		})
	}
}
