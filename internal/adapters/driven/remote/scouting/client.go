// Package scouting implements the RemoteClient port against the
// Scouting.org REST API. It owns authentication, request pacing, retry on
// rate limiting, and normalisation of wire responses into domain payloads.
package scouting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RemoteClient = (*Client)(nil)

const (
	// defaultAuthBaseURL handles login (my.scouting.org).
	defaultAuthBaseURL = "https://my.scouting.org/api"

	// defaultAPIBaseURL handles data (api.scouting.org).
	defaultAPIBaseURL = "https://api.scouting.org"

	// requestTimeout bounds each remote call. This is the hard timeout the
	// cache relies on: a hung remote surfaces as a timeout failure here,
	// never as a hung refresh.
	requestTimeout = 30 * time.Second

	// maxRateLimitRetries bounds retries of 429 responses.
	maxRateLimitRetries = 3

	// eventLookback and eventLookahead bound the calendar window.
	eventLookback  = 30 * 24 * time.Hour
	eventLookahead = 180 * 24 * time.Hour

	// maxErrorBody truncates response bodies quoted in errors.
	maxErrorBody = 500

	// advancementWorkers bounds concurrent per-scout advancement fetches.
	advancementWorkers = 4
)

// Config holds the client's remote endpoints and unit identity.
type Config struct {
	// AuthBaseURL and APIBaseURL default to the production endpoints.
	AuthBaseURL string
	APIBaseURL  string

	// OrgGUID identifies the unit whose data is fetched.
	OrgGUID string
}

// Client talks to the Scouting.org API. Safe for concurrent use: the
// refresh coordinator runs several fetches at once against one client.
// A session token is obtained lazily from the vault credentials and cached
// until the remote rejects it.
type Client struct {
	cfg     Config
	http    *http.Client
	vault   driven.CredentialVault
	limiter *rate.Limiter

	mu    sync.Mutex
	token string
}

// NewClient creates a client over the credential vault.
func NewClient(cfg Config, vault driven.CredentialVault) *Client {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = defaultAuthBaseURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: requestTimeout},
		vault: vault,
		// 5 requests/second sustained with small bursts keeps the client
		// well under the remote's quota during a full refresh.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// FetchScouts retrieves the youth roster.
func (c *Client) FetchScouts(ctx context.Context) (domain.ScoutsPayload, error) {
	var resp unitYouthsResponse
	u := fmt.Sprintf("%s/organizations/v2/units/%s/youths", c.cfg.APIBaseURL, c.cfg.OrgGUID)
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	scouts := make(domain.ScoutsPayload, 0, len(resp.Users))
	for i := range resp.Users {
		scouts = append(scouts, resp.Users[i].normalise())
	}
	return scouts, nil
}

// FetchAdults retrieves the adult roster.
func (c *Client) FetchAdults(ctx context.Context) (domain.AdultsPayload, error) {
	var resp orgAdultsResponse
	u := fmt.Sprintf("%s/organizations/v2/%s/orgAdults", c.cfg.APIBaseURL, c.cfg.OrgGUID)
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	adults := make(domain.AdultsPayload, 0, len(resp.Members))
	for i := range resp.Members {
		adults = append(adults, resp.Members[i].normalise())
	}
	return adults, nil
}

// FetchEvents retrieves the unit calendar inside the lookback/lookahead
// window.
func (c *Client) FetchEvents(ctx context.Context) (domain.EventsPayload, error) {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("fromDate", now.Add(-eventLookback).Format("2006-01-02"))
	q.Set("toDate", now.Add(eventLookahead).Format("2006-01-02"))

	var resp []wireEvent
	u := fmt.Sprintf("%s/advancements/v2/%s/events?%s", c.cfg.APIBaseURL, c.cfg.OrgGUID, q.Encode())
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	events := make(domain.EventsPayload, 0, len(resp))
	for i := range resp {
		events = append(events, resp[i].normalise())
	}
	return events, nil
}

// FetchRanks retrieves rank progress for every scout on the roster.
// Scouts whose individual fetch fails are skipped; the fetch as a whole
// fails only when the roster itself cannot be read or no scout succeeds.
func (c *Client) FetchRanks(ctx context.Context) (domain.RanksPayload, error) {
	perScout, err := fetchPerScout(ctx, c, func(ctx context.Context, s domain.Scout) (domain.ScoutRanks, error) {
		var resp []wireRank
		u := fmt.Sprintf("%s/advancements/v2/youth/%d/ranks", c.cfg.APIBaseURL, s.UserID)
		if err := c.getJSON(ctx, u, &resp); err != nil {
			return domain.ScoutRanks{}, err
		}

		sr := domain.ScoutRanks{UserID: s.UserID, ScoutName: s.DisplayName()}
		for i := range resp {
			sr.Ranks = append(sr.Ranks, resp[i].normalise())
		}
		return sr, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.RanksPayload(perScout), nil
}

// FetchBadges retrieves merit badge progress for every scout on the roster.
func (c *Client) FetchBadges(ctx context.Context) (domain.BadgesPayload, error) {
	perScout, err := fetchPerScout(ctx, c, func(ctx context.Context, s domain.Scout) (domain.ScoutBadges, error) {
		var resp []wireBadge
		u := fmt.Sprintf("%s/advancements/v2/youth/%d/meritBadges", c.cfg.APIBaseURL, s.UserID)
		if err := c.getJSON(ctx, u, &resp); err != nil {
			return domain.ScoutBadges{}, err
		}

		sb := domain.ScoutBadges{UserID: s.UserID, ScoutName: s.DisplayName()}
		for i := range resp {
			sb.Badges = append(sb.Badges, resp[i].normalise())
		}
		return sb, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.BadgesPayload(perScout), nil
}

// FetchUnit retrieves the unit profile and Key 3 leadership.
func (c *Client) FetchUnit(ctx context.Context) (domain.UnitPayload, error) {
	var profile orgProfileResponse
	u := fmt.Sprintf("%s/organizations/v2/%s/profile", c.cfg.APIBaseURL, c.cfg.OrgGUID)
	if err := c.getJSON(ctx, u, &profile); err != nil {
		return domain.UnitPayload{}, err
	}

	payload := domain.UnitPayload{Profile: domain.UnitProfile{
		GUID:            profile.OrganizationGUID,
		Name:            profile.OrganizationFullName,
		UnitType:        profile.UnitType,
		CharterOrg:      profile.CharterOrgName,
		District:        profile.DistrictName,
		Council:         profile.CouncilName,
		MeetingLocation: profile.MeetingLocation,
	}}
	if payload.Profile.GUID == "" {
		payload.Profile.GUID = c.cfg.OrgGUID
	}

	// Key 3 is best-effort: a unit profile without leadership contacts is
	// still a usable payload.
	var key3 key3Response
	u = fmt.Sprintf("%s/organizations/v2/%s/key3", c.cfg.APIBaseURL, c.cfg.OrgGUID)
	if err := c.getJSON(ctx, u, &key3); err != nil {
		logger.Debug("key3 fetch failed, continuing without leadership: %v", err)
		return payload, nil
	}
	for _, l := range key3.Leaders {
		payload.Profile.Key3 = append(payload.Profile.Key3, domain.Leader{
			Position: l.Position,
			Name:     l.FullName,
			Email:    l.Email,
			Phone:    l.Phone,
		})
	}
	return payload, nil
}

// fetchPerScout fans one call per roster scout out to a small worker pool
// and collects the successes in roster order.
func fetchPerScout[T any](
	ctx context.Context,
	c *Client,
	fetch func(ctx context.Context, s domain.Scout) (T, error),
) ([]T, error) {
	scouts, err := c.FetchScouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching roster: %w", err)
	}
	if len(scouts) == 0 {
		return []T{}, nil
	}

	type result struct {
		val T
		err error
	}
	results := make([]result, len(scouts))

	sem := make(chan struct{}, advancementWorkers)
	var wg sync.WaitGroup
	for i := range scouts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i].val, results[i].err = fetch(ctx, scouts[i])
		}(i)
	}
	wg.Wait()

	out := make([]T, 0, len(scouts))
	var firstErr error
	for i := range results {
		if results[i].err != nil {
			if firstErr == nil {
				firstErr = results[i].err
			}
			logger.Debug("skipping scout %d: %v", scouts[i].UserID, results[i].err)
			continue
		}
		out = append(out, results[i].val)
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// getJSON performs an authenticated GET and decodes the JSON response,
// retrying rate-limited requests with exponential backoff.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return err
	}

	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return backoff.Permanent(classifyTransportErr(err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("rate limited by %s, backing off", req.URL.Host)
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, url)
		}
		if err := checkStatus(resp); err != nil {
			if errors.Is(err, domain.ErrAuthRejected) {
				// Force a fresh login on the next request.
				c.clearToken()
			}
			return backoff.Permanent(err)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decoding %s: %v", domain.ErrMalformed, url, err))
		}
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRateLimitRetries), ctx)
	return backoff.Retry(op, bo)
}

// sessionToken returns the cached token, logging in when there is none.
func (c *Client) sessionToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	creds, err := c.vault.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("reading vault: %w", err)
	}

	auth, err := c.login(ctx, creds.Username, creds.Password)
	if err != nil {
		return "", err
	}
	c.token = auth.Token
	return c.token, nil
}

func (c *Client) clearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// login authenticates against my.scouting.org and returns the session.
func (c *Client) login(ctx context.Context, username, password string) (*authResponse, error) {
	u := fmt.Sprintf("%s/users/%s/authenticate", c.cfg.AuthBaseURL, url.PathEscape(username))

	form := url.Values{}
	form.Set("password", password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Accept", "application/json; version=2")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("%w: decoding login response: %v", domain.ErrMalformed, err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", domain.ErrMalformed)
	}
	return &auth, nil
}

// checkStatus maps a non-2xx response onto the domain sentinels.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body := truncatedBody(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", domain.ErrAuthRejected, resp.StatusCode, body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server error %d: %s", domain.ErrUnreachable, resp.StatusCode, body)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", domain.ErrMalformed, resp.StatusCode, body)
	}
}

// classifyTransportErr maps a transport failure onto a domain sentinel.
func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrRemoteTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrRemoteTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
}

// truncatedBody reads at most maxErrorBody bytes for error messages.
func truncatedBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody+1))
	if err != nil {
		return ""
	}
	if len(b) > maxErrorBody {
		return fmt.Sprintf("%s... (truncated)", b[:maxErrorBody])
	}
	return strings.TrimSpace(string(b))
}
