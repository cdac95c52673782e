package chesscom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/cache"
	"github.com/pbarros/chessclub/internal/platform/logging"
	"github.com/pbarros/chessclub/internal/platform/resilience"
	"github.com/pbarros/chessclub/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.chess.com/pub"
	defaultWebBaseURL   = "https://www.chess.com"
	defaultUserAgent    = "chessclub-cli"
	defaultRequestDelay = 100 * time.Millisecond
	defaultEndBuffer    = 6 * time.Hour
	maxResponseBytes    = 16 << 20
)

var errChessComTransient = crerr.New("chess.com transient failure")

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	WebBaseURL   string
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RequestDelay time.Duration
	BackoffBase  time.Duration
	EndBuffer    time.Duration
	ScanWorkers  int
	Auth         AuthProvider
	Cache        *cache.Store
	Logger       *logging.Logger
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	webBaseURL   string
	userAgent    string
	maxRetries   int
	requestDelay time.Duration
	backoffBase  time.Duration
	endBuffer    time.Duration
	scanWorkers  int
	cookies      []*http.Cookie
	headers      map[string]string
	cache        *cache.Store
	logger       *logging.Logger
	flight       resilience.SingleFlight
	now          func() time.Time
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
	webBaseURL := strings.TrimRight(strings.TrimSpace(cfg.WebBaseURL), "/")
	if webBaseURL == "" {
		webBaseURL = defaultWebBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	requestDelay := cfg.RequestDelay
	if requestDelay == 0 {
		requestDelay = defaultRequestDelay
	}
	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	endBuffer := cfg.EndBuffer
	if endBuffer <= 0 {
		endBuffer = defaultEndBuffer
	}
	scanWorkers := cfg.ScanWorkers
	if scanWorkers < 1 {
		scanWorkers = 1
	}

	client := &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		webBaseURL:   webBaseURL,
		userAgent:    userAgent,
		maxRetries:   maxInt(cfg.MaxRetries, 0),
		requestDelay: requestDelay,
		backoffBase:  backoffBase,
		endBuffer:    endBuffer,
		scanWorkers:  scanWorkers,
		cache:        cfg.Cache,
		logger:       logger,
		now:          time.Now,
	}

	if cfg.Auth != nil && cfg.Auth.Authenticated() {
		creds := cfg.Auth.Credentials()
		for name, value := range creds.Cookies {
			client.cookies = append(client.cookies, &http.Cookie{Name: name, Value: value})
		}
		if len(creds.Headers) > 0 {
			client.headers = make(map[string]string, len(creds.Headers))
			for name, value := range creds.Headers {
				client.headers[name] = value
			}
		}
	}

	return client
}

func (c *Client) GetClub(ctx context.Context, slug string) (club.Club, error) {
	rawURL := c.baseURL + "/club/" + url.PathEscape(slug)
	status, body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return club.Club{}, fmt.Errorf("fetch club %s: %w", slug, err)
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return club.Club{}, fmt.Errorf("%w: club %s", usecase.ErrNotFound, slug)
	case http.StatusTooManyRequests:
		return club.Club{}, fmt.Errorf("%w: club %s", usecase.ErrRateLimited, slug)
	default:
		return club.Club{}, fmt.Errorf("chess.com status=%d fetching club %s", status, slug)
	}

	var payload clubPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return club.Club{}, fmt.Errorf("decode club payload: %w", err)
	}
	return mapClub(slug, payload), nil
}

func (c *Client) GetClubMembers(ctx context.Context, slug string) ([]club.Member, error) {
	rawURL := c.baseURL + "/club/" + url.PathEscape(slug) + "/members"
	status, body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch club members %s: %w", slug, err)
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: club %s", usecase.ErrNotFound, slug)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: club %s members", usecase.ErrRateLimited, slug)
	default:
		return nil, fmt.Errorf("chess.com status=%d fetching club members %s", status, slug)
	}

	var payload membersPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode club members payload: %w", err)
	}
	return mapMembers(payload), nil
}

// GetClubTournaments walks the paginated past-tournaments listing on the
// web API. The listing needs the numeric club id, which only the REST club
// profile exposes, so both endpoints are involved.
func (c *Client) GetClubTournaments(ctx context.Context, slug string) ([]tournament.Tournament, error) {
	info, err := c.GetClub(ctx, slug)
	if err != nil {
		return nil, err
	}
	if info.ProviderID == "" {
		return nil, fmt.Errorf("club %s has no numeric id in its profile", slug)
	}

	var tournaments []tournament.Tournament
	for page := 1; ; page++ {
		rawURL := c.webBaseURL + "/callback/clubs/live/past/" + info.ProviderID
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))

		status, body, err := c.get(ctx, rawURL, params)
		if err != nil {
			return nil, fmt.Errorf("fetch club tournaments %s page=%d: %w", slug, page, err)
		}
		switch status {
		case http.StatusOK:
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: club tournament listing", usecase.ErrAuthRequired)
		case http.StatusNotFound:
			return tournaments, nil
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: club %s tournament listing", usecase.ErrRateLimited, slug)
		default:
			return nil, fmt.Errorf("chess.com status=%d fetching club tournaments %s", status, slug)
		}

		var payload tournamentsPage
		if err := sonic.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode club tournaments payload: %w", err)
		}
		if len(payload.LiveTournament) == 0 && len(payload.Arena) == 0 {
			return tournaments, nil
		}
		for _, entry := range payload.LiveTournament {
			tournaments = append(tournaments, mapTournament(entry, tournament.FormatSwiss, slug))
		}
		for _, entry := range payload.Arena {
			tournaments = append(tournaments, mapTournament(entry, tournament.FormatArena, slug))
		}
	}
}

func (c *Client) GetPlayer(ctx context.Context, username string) (player.Player, error) {
	rawURL := c.baseURL + "/player/" + url.PathEscape(strings.ToLower(username))
	status, body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("fetch player %s: %w", username, err)
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return player.Player{}, fmt.Errorf("%w: player %s", usecase.ErrNotFound, username)
	case http.StatusTooManyRequests:
		return player.Player{}, fmt.Errorf("%w: player %s", usecase.ErrRateLimited, username)
	default:
		return player.Player{}, fmt.Errorf("chess.com status=%d fetching player %s", status, username)
	}

	var payload playerPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return player.Player{}, fmt.Errorf("decode player payload: %w", err)
	}
	return mapPlayer(username, payload), nil
}

type httpResponse struct {
	status int
	body   []byte
}

// get performs a cached GET. Only 200 responses enter the cache; other
// statuses are returned to the caller so endpoint code can interpret them.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (int, []byte, error) {
	fullURL := rawURL
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	ttl := cacheTTL(rawURL, c.now())
	key := requestKey(rawURL, params)
	if ttl > 0 && c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			return http.StatusOK, body, nil
		}
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		res, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil {
			return nil, reqErr
		}
		if ttl > 0 && c.cache != nil && res.status == http.StatusOK {
			c.cache.Set(ctx, key, res.body, ttl)
		}
		return res, nil
	})
	if err != nil {
		return 0, nil, err
	}

	res, ok := out.(httpResponse)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return res.status, res.body, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (httpResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return httpResponse{}, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		for name, value := range c.headers {
			req.Header.Set(name, value)
		}
		for _, cookie := range c.cookies {
			req.AddCookie(cookie)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errChessComTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errChessComTransient, readErr)
			} else if resp.StatusCode < http.StatusInternalServerError {
				return httpResponse{status: resp.StatusCode, body: raw}, nil
			} else {
				lastErr = fmt.Errorf("%w: chess.com status=%d", errChessComTransient, resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.backoffBase
		if err := sleepContext(ctx, backoff); err != nil {
			return httpResponse{}, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("chess.com request failed")
	}
	c.logger.WarnContext(ctx, "chess.com request failed", "url", fullURL, "error", lastErr)
	return httpResponse{}, lastErr
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
