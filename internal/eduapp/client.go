package eduapp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eduappbot/internal/config"
	"eduappbot/internal/metrics"
	"eduappbot/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client HTTP-клиент REST API EduApp.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient создает клиента по секции eduapp конфигурации.
func NewClient(cfg config.EduAppConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(models.DefaultHTTPTimeout) * time.Second
	}
	limit := rate.Limit(cfg.RateLimitRPS)
	if cfg.RateLimitRPS <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "eduapp").Logger(),
	}
}

// UseRedisCache включает кэш ответов /account/ в Redis.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Login получает JWT по логину и паролю и проверяет его запросом профиля.
func (c *Client) Login(ctx context.Context, username, password string) (string, *models.Profile, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("add_captcha", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.send(req, loginPath)
	if err != nil {
		return "", nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusBadRequest:
		return "", nil, classifyLoginError(body)
	default:
		return "", nil, fmt.Errorf("%w: login returned http %d", ErrUnknown, status)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", nil, malformed("login response", err)
	}
	if lr.Token == "" {
		return "", nil, malformed("login response without token", nil)
	}

	profile, err := c.fetchAccount(ctx, lr.Token)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusBadRequest || errors.Is(err, ErrUnauthorized)) {
			return "", nil, fmt.Errorf("%w: account check returned http %d", ErrInvalidCredentials, se.Code)
		}
		return "", nil, err
	}

	c.logger.Info().Str("username", username).Msg("eduapp login succeeded")
	return lr.Token, profile, nil
}

func classifyLoginError(body []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: login returned http 400", ErrUnknown)
	}
	if _, ok := payload["captcha"]; ok {
		return ErrCaptchaRequired
	}
	if _, ok := payload["non_field_errors"]; ok {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("%w: login returned http 400", ErrUnknown)
}

// Profile данные аккаунта владельца токена.
func (c *Client) Profile(ctx context.Context, token string) (*models.Profile, error) {
	return c.fetchAccount(ctx, token)
}

func (c *Client) fetchAccount(ctx context.Context, token string) (*models.Profile, error) {
	cacheKey := accountCacheKey(token)
	var cached models.Profile
	if c.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	var resp accountResponse
	if err := c.doGet(ctx, token, accountPath, nil, &resp); err != nil {
		return nil, err
	}
	profile, err := resp.toProfile()
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, profile)
	return profile, nil
}

// Calendar занятия пользователя, начавшиеся в окне [start, end] по датам.
func (c *Client) Calendar(ctx context.Context, token string, start, end time.Time) (*models.Calendar, error) {
	profile, err := c.fetchAccount(ctx, token)
	if err != nil {
		return nil, err
	}

	var resp classesUsersResponse
	if err := c.doGet(ctx, token, calendarPath, calendarQuery(start, end, profile.ID), &resp); err != nil {
		return nil, err
	}
	return parseCalendar(&resp, start, end)
}

// Questions страница обсуждений пользователя.
func (c *Client) Questions(ctx context.Context, token string, page, size int) (*models.QuestionPage, error) {
	var resp discussionsResponse
	if err := c.doGet(ctx, token, questionsPath, nil, &resp); err != nil {
		return nil, err
	}
	return pageQuestions(&resp, page, size)
}

// Comments сообщения обсуждения в порядке API.
func (c *Client) Comments(ctx context.Context, token string, discussionID int64) ([]models.Comment, error) {
	var resp commentsResponse
	if err := c.doGet(ctx, token, commentsPath(discussionID), nil, &resp); err != nil {
		return nil, err
	}
	return parseComments(&resp)
}

func (c *Client) doGet(ctx context.Context, token, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	label := path
	if strings.HasSuffix(path, "/comments/") {
		label = questionsPath + "{id}/comments/"
	}

	status, body, err := c.send(req, label)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &StatusError{Endpoint: label, Code: status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformed(label, err)
	}
	return nil
}

// send выполняет запрос с учетом ограничителя и возвращает код и тело ответа.
func (c *Client) send(req *http.Request, label string) (int, []byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return 0, nil, fmt.Errorf("eduapp rate limiter: %w", err)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPI(label, 0)
		c.logger.Warn().Err(err).Str("endpoint", label).Msg("eduapp request failed")
		return 0, nil, fmt.Errorf("%w: %s: %v", ErrUnknown, label, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncAPI(label, 0)
		return 0, nil, fmt.Errorf("%w: read %s: %v", ErrUnknown, label, err)
	}

	metrics.IncAPI(label, resp.StatusCode)
	c.logger.Debug().
		Str("endpoint", label).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("eduapp request")
	return resp.StatusCode, body, nil
}

func accountCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "eduapp:account:" + hex.EncodeToString(sum[:])
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("eduapp cache write failed")
	}
}
