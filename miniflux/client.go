package miniflux

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/rss-feed-reader/g"
	"golang.org/x/time/rate"
)

var (
	ErrUnauthorized = errors.New("Miniflux API 인증이 실패하였습니다")
	ErrNotFound     = errors.New("Miniflux API 요청 항목을 찾을 수 없습니다")
)

// APIError Miniflux API가 오류 응답을 반환한 경우
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Miniflux API 호출이 실패하였습니다. (HTTP 상태코드:%d, 메시지:%s)", e.StatusCode, e.Message)
}

// Client Miniflux API 클라이언트
// 원격 서비스에 과도한 요청이 몰리지 않도록 모든 요청은 rate.Limiter를 거친다.
type Client struct {
	baseURL string
	apiKey  string

	httpClient *http.Client
	limiter    *rate.Limiter

	userID   int64
	userIDMu sync.Mutex
}

func New(config *g.MinifluxConfig) *Client {
	return NewWithHTTPClient(config, &http.Client{Timeout: config.Timeout})
}

func NewWithHTTPClient(config *g.MinifluxConfig, httpClient *http.Client) *Client {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(config.Url, "/"),
		apiKey:  config.APIKey,

		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

//noinspection GoUnhandledErrorResult
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode >= http.StatusBadRequest:
		var apiErr struct {
			ErrorMessage string `json:"error_message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)

		return &APIError{StatusCode: res.StatusCode, Message: apiErr.ErrorMessage}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// Healthcheck 원격 서비스에 접속이 가능한지 확인한다.
//
//noinspection GoUnhandledErrorResult
func (c *Client) Healthcheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &APIError{StatusCode: res.StatusCode}
	}

	return nil
}

type user struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// currentUserID 전체 읽음 처리에 필요한 사용자 ID를 구한다. 한번 구한 값은 재사용한다.
func (c *Client) currentUserID(ctx context.Context) (int64, error) {
	c.userIDMu.Lock()
	defer c.userIDMu.Unlock()

	if c.userID != 0 {
		return c.userID, nil
	}

	var u user
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &u); err != nil {
		return 0, err
	}
	c.userID = u.ID

	return c.userID, nil
}
