// Package catalog implements the Legendas.TV remote catalog client: title
// suggestions, subtitle release listings and archive downloads. A failed
// call yields an error and zero candidates, never a partial list silently
// treated as complete.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/legendastv/ltv/internal/common"
	"github.com/legendastv/ltv/internal/model"
)

const (
	defaultBaseURL = "http://legendas.tv/"
	defaultTimeout = 15 * time.Second

	// The site blocks the default Go user agent.
	userAgent = "LTV/1.0"
)

// Options configures the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// LegendasTV talks to the Legendas.TV website. Searches work without
// authentication; downloads require Login.
type LegendasTV struct {
	base       *url.URL
	httpClient *http.Client
	auth       bool
}

// New creates a catalog client. The cookie jar keeps the session across
// calls after Login.
func New(opts Options) (*LegendasTV, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" {
		base.Scheme = "http"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &LegendasTV{
		base:       base,
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Authenticated reports whether Login succeeded on this client.
func (c *LegendasTV) Authenticated() bool {
	return c.auth
}

// Login posts the site login form. Success is detected by the presence of
// the logout link in the response.
func (c *LegendasTV) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", common.ErrInvalidConfig)
	}

	slog.Info("Logging in", "url", c.absURL("/login"), "username", username)

	form := url.Values{
		"_method":              {"POST"},
		"data[User][username]": {username},
		"data[User][password]": {password},
		"data[lembrar]":        {"on"},
	}
	body, err := c.post(ctx, "/login", form)
	if err != nil {
		return err
	}

	if !strings.Contains(string(body), `href="/users/logout"`) {
		return fmt.Errorf("%w: login rejected for %s", common.ErrAuthRequired, username)
	}
	c.auth = true
	return nil
}

// SearchTitles queries the catalog's suggestion endpoint for titles
// matching the free-text term.
func (c *LegendasTV) SearchTitles(ctx context.Context, query string) ([]model.TitleCandidate, error) {
	body, err := c.get(ctx, "/legenda/sugestao/"+quotePartial(query))
	if err != nil {
		return nil, err
	}

	titles, err := parseTitles(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSearchFailure, err)
	}
	slog.Debug("Title search", "query", query, "count", len(titles))
	return titles, nil
}

// SearchSubtitles lists every subtitle release for a title, following the
// listing's pagination. The language code is optional.
func (c *LegendasTV) SearchSubtitles(ctx context.Context, titleID int, language string) ([]model.SubtitleCandidate, error) {
	if titleID == 0 {
		return nil, fmt.Errorf("%w: subtitle search requires a title id", common.ErrSearchFailure)
	}

	langID := "-"
	if language != "" {
		lang, ok := LanguageByCode(language)
		if !ok {
			return nil, fmt.Errorf("%w: unknown language %q", common.ErrSearchFailure, language)
		}
		langID = fmt.Sprintf("%d", lang.ID)
	}

	page := fmt.Sprintf("/legenda/busca/-/%s/-/0/%d/", langID, titleID)

	var subs []model.SubtitleCandidate
	for page != "" {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		body, err := c.get(ctx, page)
		if err != nil {
			return nil, err
		}

		pageSubs, next := parseSubtitles(string(body), titleID, c.downloadURL)
		subs = append(subs, pageSubs...)
		page = next
	}

	slog.Debug("Subtitle search", "title_id", titleID, "language", language, "count", len(subs))
	return subs, nil
}

// Download fetches the archive for a subtitle release. Requires Login.
func (c *LegendasTV) Download(ctx context.Context, hash string) ([]byte, error) {
	if !c.auth {
		return nil, fmt.Errorf("%w: subtitle download requires login", common.ErrAuthRequired)
	}
	return c.get(ctx, c.downloadURL(hash))
}

func (c *LegendasTV) downloadURL(hash string) string {
	return "/downloadarquivo/" + hash
}

// get performs a GET with retry on connection-level failures.
func (c *LegendasTV) get(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := common.WithRetry(ctx, func() error {
		var reqErr error
		body, reqErr = c.do(ctx, http.MethodGet, path, nil)
		return reqErr
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	})
	return body, err
}

func (c *LegendasTV) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
}

func (c *LegendasTV) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.absURL(path), body)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	slog.Debug("Catalog request", "method", method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrConnection, err),
			Retryable: ctx.Err() == nil,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: HTTP %d from %s", common.ErrConnection, resp.StatusCode, req.URL),
			Retryable: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: read response: %v", common.ErrConnection, err),
			Retryable: true,
		}
	}
	return data, nil
}

// absURL joins a path (or an already absolute URL) with the base.
func (c *LegendasTV) absURL(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

// quotePartial URL-encodes a search term the way the site expects: plus
// signs for spaces and colons dropped.
func quotePartial(part string) string {
	quoted := url.QueryEscape(part)
	quoted = strings.ReplaceAll(quoted, "%3A", " ")
	return strings.TrimSpace(quoted)
}
