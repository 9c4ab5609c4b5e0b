package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

const maxErrorBody = 64 << 10

// HTTPClient implements Client over JSON/HTTP. The refresh cookie set by the
// server on login is kept in a cookie jar and replayed on Refresh.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API at baseURL. timeout bounds each
// request, including reading the response body.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
		log:     log.With("component", "http"),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Refresh(ctx context.Context) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", struct{}{}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh: empty access_token")
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login: empty access_token")
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, form models.Registration) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", form, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, raw string) error {
	return c.do(ctx, http.MethodDelete, "/auth/me", raw, nil, nil)
}

func (c *HTTPClient) ListLocations(ctx context.Context, raw string) ([]models.Location, error) {
	var out []models.Location
	if err := c.do(ctx, http.MethodGet, "/locations", raw, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Location{}
	}
	return out, nil
}

func (c *HTTPClient) CreateLocation(ctx context.Context, raw string, req models.CreateLocationRequest) (models.Location, error) {
	var out models.Location
	if err := c.do(ctx, http.MethodPost, "/locations", raw, req, &out); err != nil {
		return models.Location{}, err
	}
	return out, nil
}

func (c *HTTPClient) SubmitOwnerInfo(ctx context.Context, raw string, info models.OwnerInfo) error {
	return c.do(ctx, http.MethodPost, "/owner-info", raw, info, nil)
}

// do performs one JSON exchange and maps failures onto the package errors:
// transport failures and gateway statuses to ErrUnavailable, 401/403 to
// ErrUnauthorized, 400/422 to *models.ValidationError and anything else
// non-2xx to *StatusError.
func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := parseDetail(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if len(detail) > 0 {
			return fmt.Errorf("%w: %s", ErrUnauthorized, strings.Join(detail, "; "))
		}
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(detail) == 0 {
			detail = []string{http.StatusText(resp.StatusCode)}
		}
		return &models.ValidationError{Messages: detail}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}
}
