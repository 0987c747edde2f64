// Package flashfeed talks to the upstream delimited match feed: fetching
// raw day payloads and decoding them into domain matches.
package flashfeed

import (
	stdcontext "context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pbarzyk/matchboard/internal/platform/logging"
	"github.com/pbarzyk/matchboard/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://global.flashscore.ninja/16"
	defaultSportID   = 1
	defaultVariant   = 0
	defaultLocale    = "fr"
	defaultFeedSign  = "SW9D1eZo"
	defaultUserAgent = "matchboard/1.0 (+feed-sync)"

	maxBodyBytes = 8 << 20
)

var errFeedTransient = crerr.New("feed transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	FeedSign   string
	Locale     string
	SportID    int
	Variant    int
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client fetches raw feed text for a day offset. Identical in-flight
// fetches are collapsed, and a breaker shields the upstream host once it
// starts failing consistently.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	feedSign       string
	locale         string
	sportID        int
	variant        int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
	flight         resilience.Group[string]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	feedSign := strings.TrimSpace(cfg.FeedSign)
	if feedSign == "" {
		feedSign = defaultFeedSign
	}
	locale := strings.TrimSpace(cfg.Locale)
	if locale == "" {
		locale = defaultLocale
	}
	sportID := cfg.SportID
	if sportID <= 0 {
		sportID = defaultSportID
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		feedSign:       feedSign,
		locale:         locale,
		sportID:        sportID,
		variant:        cfg.Variant,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		breakerEnabled: cfg.Breaker.Enabled,
	}
}

// FeedURL builds the obfuscated feed path for a day offset, e.g.
// {base}/x/feed/f_1_0_0_fr_1 for football, today, default variant.
func (c *Client) FeedURL(offset int) string {
	return fmt.Sprintf("%s/x/feed/f_%d_%d_%d_%s_1", c.baseURL, c.sportID, offset, c.variant, c.locale)
}

// FetchDate fetches the feed for a calendar date by converting it to the
// provider's day-offset addressing at call time.
func (c *Client) FetchDate(ctx stdcontext.Context, target time.Time) (string, error) {
	offset := OffsetForDate(target, time.Now())
	if !OffsetInWindow(offset) {
		c.logger.DebugContext(ctx, "fetch outside provider window, empty body likely", "offset", offset)
	}
	return c.FetchDay(ctx, offset)
}

// FetchDay downloads the raw feed text for the given day offset. An empty
// body is a valid outcome, expected outside the provider's ±7 day window.
func (c *Client) FetchDay(ctx stdcontext.Context, offset int) (string, error) {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed breaker rejected fetch", "state", c.breaker.State(), "offset", offset)
			return "", fmt.Errorf("feed host temporarily unavailable: %w", err)
		}
	}

	fullURL := c.FeedURL(offset)
	body, err, shared := c.flight.Do(fullURL, func() (string, error) {
		raw, reqErr := c.execute(ctx, fullURL)
		if c.breakerEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.DebugContext(ctx, "feed fetch joined in-flight request", "offset", offset)
	}
	return body, nil
}

func (c *Client) execute(ctx stdcontext.Context, fullURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return "", fmt.Errorf("build feed request: %w", err)
		}
		req.Header.Set("x-fsign", c.feedSign)
		req.Header.Set("User-Agent", defaultUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read feed body: %v", errFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return string(raw), nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d", errFeedTransient, resp.StatusCode)
			default:
				return "", fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviate(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "feed request failed", "url", fullURL, "error", lastErr,
		"curl", curlPreview(fullURL, c.feedSign))
	return "", lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviate(raw []byte) string {
	const limit = 200
	if len(raw) > limit {
		raw = raw[:limit]
	}
	return string(raw)
}

// curlPreview renders a reproducible request for debugging feed failures.
// The sign header is a public constant, but it is masked anyway so copied
// log lines stay inert.
func curlPreview(fullURL, feedSign string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	masked := feedSign
	if len(masked) > 3 {
		masked = masked[:3] + "***"
	}

	appendPart("curl")
	appendPart(strconv.Quote(fullURL))
	appendPart("-H")
	appendPart(strconv.Quote("x-fsign: " + masked))
	return buf.String()
}
