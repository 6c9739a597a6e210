package opendota

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"dotabet/config"
	"dotabet/domain/entities"
)

const (
	requestTimeout = 15 * time.Second
	httpRetries    = 3
	httpRetryDelay = 5 * time.Second
)

// Client talks to the OpenDota REST API. It implements the MatchSource
// interface: discovering a subject's next match and obtaining a fully
// parsed snapshot of it.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *fasthttp.Client
	waitTimeout   time.Duration
	pollInterval  time.Duration
	parseTimeout  time.Duration
	parsePoll     time.Duration
	parseAttempts int
	retryDelay    time.Duration
	logger        *logrus.Entry
}

// NewClient creates an OpenDota client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.OpenDotaBaseURL,
		apiKey:  cfg.OpenDotaAPIKey,
		httpClient: &fasthttp.Client{
			ReadTimeout:  requestTimeout,
			WriteTimeout: requestTimeout,
		},
		waitTimeout:   cfg.MatchWaitTimeout,
		pollInterval:  cfg.MatchPollInterval,
		parseTimeout:  cfg.ParseTimeout,
		parsePoll:     cfg.ParsePollInterval,
		parseAttempts: cfg.ParseAttempts,
		retryDelay:    httpRetryDelay,
		logger:        logrus.WithField("component", "opendota"),
	}
}

// LatestMatchID returns the most recent match id recorded for a subject,
// or 0 when the subject has no matches yet.
func (c *Client) LatestMatchID(ctx context.Context, kind entities.SubjectKind, subjectRef int64) (int64, error) {
	var path string
	switch kind {
	case entities.SubjectPlayer:
		path = fmt.Sprintf("/players/%d/matches?limit=1", subjectRef)
	case entities.SubjectTeam:
		path = fmt.Sprintf("/teams/%d/matches", subjectRef)
	default:
		return 0, fmt.Errorf("unknown subject kind %q", kind)
	}

	var matches []listedMatch
	if err := c.getJSON(ctx, path, &matches); err != nil {
		return 0, fmt.Errorf("failed to list matches for %s %d: %w", kind, subjectRef, err)
	}
	if len(matches) == 0 {
		return 0, nil
	}
	return matches[0].MatchID, nil
}

// WaitForNewMatch records the subject's latest match id and polls until a
// different one appears. It returns a service timeout failure when the
// deadline passes without a new match.
func (c *Client) WaitForNewMatch(ctx context.Context, kind entities.SubjectKind, subjectRef int64) (int64, error) {
	baseline, err := c.LatestMatchID(ctx, kind, subjectRef)
	if err != nil {
		return 0, entities.NewRefund(entities.FailureServiceTimeout, "match service unavailable", err)
	}

	log := c.logger.WithFields(logrus.Fields{
		"subject_kind": kind,
		"subject_ref":  subjectRef,
		"baseline":     baseline,
	})
	log.Info("Waiting for new match")

	deadline := time.NewTimer(c.waitTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, entities.NewRefund(entities.FailureServiceTimeout, "wait for new match canceled", ctx.Err())
		case <-deadline.C:
			return 0, entities.NewRefund(entities.FailureServiceTimeout,
				fmt.Sprintf("no new match within %s", c.waitTimeout), nil)
		case <-ticker.C:
			id, err := c.LatestMatchID(ctx, kind, subjectRef)
			if err != nil {
				// Transient tracker errors are tolerated until the deadline.
				log.WithError(err).Warn("Failed to poll for new match")
				continue
			}
			if id != 0 && id != baseline {
				log.WithField("match_id", id).Info("New match detected")
				return id, nil
			}
		}
	}
}

// EnsureParsedAndFetch returns a parsed snapshot of the match, requesting a
// replay parse from the tracker when needed. The parse request is issued at
// most once; afterwards the match is polled until the per-minute statistics
// appear or the attempt budget is exhausted.
func (c *Client) EnsureParsedAndFetch(ctx context.Context, matchID int64) (*entities.MatchSnapshot, error) {
	log := c.logger.WithField("match_id", matchID)

	parseRequested := false
	var lastErr error
	for attempt := 1; attempt <= c.parseAttempts; attempt++ {
		snap, parsed, err := c.fetchMatch(ctx, matchID)
		if err != nil {
			lastErr = err
			log.WithError(err).WithField("attempt", attempt).Warn("Failed to fetch match")
			if !sleepCtx(ctx, c.retryDelay) {
				return nil, entities.NewRefund(entities.FailureServiceTimeout, "match fetch canceled", ctx.Err())
			}
			continue
		}
		if parsed {
			return snap, nil
		}

		if !parseRequested {
			if err := c.requestParse(ctx, matchID); err != nil {
				lastErr = err
				log.WithError(err).Warn("Failed to request parse")
			} else {
				parseRequested = true
				log.Info("Parse requested")
			}
		}

		snap, err = c.pollForParse(ctx, matchID)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("Parse did not complete in time")
	}

	return nil, entities.NewRefund(entities.FailureServiceTimeout,
		fmt.Sprintf("match %d not parsed after %d attempts", matchID, c.parseAttempts), lastErr)
}

// pollForParse re-fetches the match at the poll interval until it is parsed
// or one parse timeout window elapses.
func (c *Client) pollForParse(ctx context.Context, matchID int64) (*entities.MatchSnapshot, error) {
	deadline := time.NewTimer(c.parseTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.parsePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("parse timeout after %s", c.parseTimeout)
		case <-ticker.C:
			snap, parsed, err := c.fetchMatch(ctx, matchID)
			if err != nil {
				continue
			}
			if parsed {
				return snap, nil
			}
		}
	}
}

// fetchMatch retrieves a match and reports whether it has been parsed.
func (c *Client) fetchMatch(ctx context.Context, matchID int64) (*entities.MatchSnapshot, bool, error) {
	var resp matchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/matches/%d", matchID), &resp); err != nil {
		return nil, false, err
	}
	if resp.MatchID == 0 {
		return nil, false, fmt.Errorf("match %d not found", matchID)
	}
	if !resp.parsed() {
		return nil, false, nil
	}
	return resp.toSnapshot(), true, nil
}

// requestParse asks the tracker to parse the match replay.
func (c *Client) requestParse(ctx context.Context, matchID int64) error {
	status, _, err := c.do(ctx, fasthttp.MethodPost, fmt.Sprintf("/request/%d", matchID))
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		return fmt.Errorf("parse request returned status %d", status)
	}
	return nil
}

// getJSON performs a GET with transient-error retries and decodes the body.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= httpRetries; attempt++ {
		if attempt > 1 {
			if !sleepCtx(ctx, c.retryDelay) {
				return ctx.Err()
			}
		}
		status, body, err := c.do(ctx, fasthttp.MethodGet, path)
		if err != nil {
			lastErr = err
			continue
		}
		if status != fasthttp.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d for %s", status, path)
			continue
		}
		if err := json.Unmarshal(body, out); err != nil {
			lastErr = fmt.Errorf("failed to decode response for %s: %w", path, err)
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, method, path string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := c.baseURL + path
	if c.apiKey != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		url += sep + "api_key=" + c.apiKey
	}

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if err := c.httpClient.DoTimeout(req, resp, requestTimeout); err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return resp.StatusCode(), body, nil
}

// sleepCtx sleeps for d unless the context is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
