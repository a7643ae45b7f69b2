// Package xdapi is the HTTP client for the NMB forum API.
package xdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	"github.com/kevinluo6191/XDNMB/internal/core/metrics"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"

	"github.com/codeGROOVE-dev/retry"
)

// Endpoints
const (
	EndpointForumList = "getForumList"
	EndpointTimeline  = "timeline"
	EndpointShowf     = "showf"
	EndpointThread    = "thread"
)

const maxBodySize = 8 << 20

// ErrResponseTooLarge body exceeded maxBodySize
var ErrResponseTooLarge = errors.New("response too large")

// Client 远端 API 客户端
type Client struct {
	baseURL    string
	userAgent  string
	attempts   uint
	retryDelay time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New 创建 API 客户端
func New(cfg *config.APIConfig, opts ...Option) *Client {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		attempts:   uint(attempts),
		retryDelay: 500 * time.Millisecond,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetForumList 获取版块列表
func (c *Client) GetForumList(ctx context.Context) ([]model.ForumGroup, error) {
	var groups []model.ForumGroup
	if err := c.getJSON(ctx, EndpointForumList, nil, "", &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		for j := range groups[i].Forums {
			groups[i].Forums[j].GroupID = groups[i].ID
		}
	}
	return nonNilGroups(groups), nil
}

// GetTimeLine 获取时间线某页
func (c *Client) GetTimeLine(ctx context.Context, page int64) ([]model.Thread, error) {
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))

	var threads []model.Thread
	if err := c.getJSON(ctx, EndpointTimeline, q, "", &threads); err != nil {
		return nil, err
	}
	stampPage(threads, page)
	return nonNilThreads(threads), nil
}

// GetThreadList 获取版块串列表某页
// Threads without a fid are attributed to the requested forum.
func (c *Client) GetThreadList(ctx context.Context, cookie string, fid, page int64) ([]model.Thread, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(fid, 10))
	q.Set("page", strconv.FormatInt(page, 10))

	var threads []model.Thread
	if err := c.getJSON(ctx, EndpointShowf, q, cookie, &threads); err != nil {
		return nil, err
	}
	stampPage(threads, page)
	for i := range threads {
		if threads[i].FID == nil {
			id := fid
			threads[i].FID = &id
		}
	}
	return nonNilThreads(threads), nil
}

// GetReply 获取串详情（含回复）某页
func (c *Client) GetReply(ctx context.Context, cookie string, threadID, page int64) (*model.Thread, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(threadID, 10))
	q.Set("page", strconv.FormatInt(page, 10))

	var thread model.Thread
	if err := c.getJSON(ctx, EndpointThread, q, cookie, &thread); err != nil {
		return nil, err
	}
	if thread.ID == 0 {
		return nil, apperr.ParseError(fmt.Errorf("thread %d: empty response", threadID))
	}
	thread.Page = page
	stampPage(thread.Replies, page)
	if thread.Replies == nil {
		thread.Replies = []model.Thread{}
	}
	return &thread, nil
}

// getJSON GETs endpoint and decodes the body into out.
// Network failures are retried up to the configured attempts; parse failures are not.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, cookie string, out any) error {
	target := c.baseURL + endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = c.fetch(ctx, endpoint, target, cookie, out)
			return lastErr
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("api request retry",
				logger.String("endpoint", endpoint),
				logger.Int("attempt", int(n)+1),
				logger.ErrorField(err))
		}),
		retry.RetryIf(func(err error) bool {
			return apperr.Is(err, apperr.CodeNetworkError)
		}),
	)
	if err == nil {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return apperr.NetworkError(err)
}

func (c *Client) fetch(ctx context.Context, endpoint, target, cookie string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return apperr.NetworkError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cookie != "" {
		req.Header.Set("Cookie", "userhash="+cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return apperr.NetworkError(fmt.Errorf("%s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Debug("api request",
		logger.String("endpoint", endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.NetworkError(fmt.Errorf("%s: HTTP %d", endpoint, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return apperr.NetworkError(fmt.Errorf("%s: read body: %w", endpoint, err))
	}
	if len(body) > maxBodySize {
		return apperr.ParseError(fmt.Errorf("%s: %w (over %d bytes)", endpoint, ErrResponseTooLarge, maxBodySize))
	}
	return decode(endpoint, body, out)
}

// apiFailure is the error object the API returns with a 200 status.
type apiFailure struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func decode(endpoint string, body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return apperr.ParseError(fmt.Errorf("%s: empty body", endpoint))
	}

	switch body[0] {
	case '"':
		// Some failures come back as a bare JSON string, e.g. "该串不存在".
		var msg string
		if err := json.Unmarshal(body, &msg); err != nil {
			return apperr.ParseError(fmt.Errorf("%s: %w", endpoint, err))
		}
		return apperr.ParseError(fmt.Errorf("%s: api: %s", endpoint, msg))
	case '{':
		var failure apiFailure
		if err := json.Unmarshal(body, &failure); err == nil && failure.Success != nil && !*failure.Success {
			return apperr.ParseError(fmt.Errorf("%s: api: %s", endpoint, failure.Error))
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperr.ParseError(fmt.Errorf("%s: field %s: %w", endpoint, typeErr.Field, err))
		}
		return apperr.ParseError(fmt.Errorf("%s: %w", endpoint, err))
	}
	return nil
}

func stampPage(threads []model.Thread, page int64) {
	for i := range threads {
		threads[i].Page = page
		for j := range threads[i].Replies {
			threads[i].Replies[j].Page = page
		}
	}
}

func nonNilThreads(threads []model.Thread) []model.Thread {
	if threads == nil {
		return []model.Thread{}
	}
	return threads
}

func nonNilGroups(groups []model.ForumGroup) []model.ForumGroup {
	if groups == nil {
		return []model.ForumGroup{}
	}
	return groups
}
