package encore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/melodiq/practice-league/internal/domain/account"
	"github.com/melodiq/practice-league/internal/platform/logging"
	"github.com/melodiq/practice-league/internal/platform/resilience"
	"github.com/melodiq/practice-league/internal/usecase"
)

// errEncoreTransient marks failures the circuit breaker should count. It is
// also marked as ErrDependencyUnavailable so callers map it to a 503.
var errEncoreTransient = crerr.Mark(crerr.New("encore transient failure"), usecase.ErrDependencyUnavailable)

type ClientConfig struct {
	BaseURL         string
	IntrospectPath  string
	AdminKey        string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client introspects access tokens against the encore account service.
// Verified principals are cached by token hash so hot tokens do not hit
// encore on every request.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	adminKey       string
	logger         *logging.Logger
	cache          *inMemoryPrincipalCache
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(httpClient *http.Client, cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		logger:         logger,
		cache:          newInMemoryPrincipalCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (account.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "encore circuit breaker rejected request", "state", c.breaker.State())
			return account.Principal{}, fmt.Errorf("%w: encore is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	c.recordCircuitResult(err)
	if err != nil {
		return account.Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (account.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return account.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return account.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return account.Principal{}, fmt.Errorf("%w: request introspection: %v", errEncoreTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return account.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// A rejected admin key is our misconfiguration, not the caller's.
		return account.Principal{}, fmt.Errorf("%w: introspection forbidden, check admin key", usecase.ErrDependencyUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return account.Principal{}, fmt.Errorf("%w: read introspect response: %v", errEncoreTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "encore introspection non-200", "status_code", resp.StatusCode)
		if isEncoreRetryableStatus(resp.StatusCode) {
			return account.Principal{}, fmt.Errorf("%w: introspection failed with status %d", errEncoreTransient, resp.StatusCode)
		}
		return account.Principal{}, fmt.Errorf("encore introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return account.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return account.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return account.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return account.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		AvatarID:    decoded.AvatarID,
	}, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool   `json:"active"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarID    string `json:"avatar_id"`
}

func isEncoreRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
