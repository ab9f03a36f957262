package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"golang.org/x/oauth2"
)

type ThreadsService interface {
	Publish(ctx context.Context, threadsUserID, accessToken, text string) (string, error)
}

type threadsService struct {
	baseURL    string
	httpClient *http.Client
}

// NewThreadsService talks to the Threads Graph API at cfg.ThreadsAPIURL.
// httpClient may be nil, in which case http.DefaultClient carries requests.
func NewThreadsService(cfg config.Config, httpClient *http.Client) ThreadsService {
	return &threadsService{
		baseURL:    strings.TrimRight(cfg.ThreadsAPIURL, "/"),
		httpClient: httpClient,
	}
}

// Publish creates a text container and publishes it, returning the id of the
// published thread.
func (s *threadsService) Publish(ctx context.Context, threadsUserID, accessToken, text string) (string, error) {
	if threadsUserID == "" || accessToken == "" {
		return "", fmt.Errorf("threads account is not linked")
	}

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	container, err := s.post(ctx, client, fmt.Sprintf("%s/%s/threads", s.baseURL, url.PathEscape(threadsUserID)), url.Values{
		"media_type": {"TEXT"},
		"text":       {text},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create threads container: %w", err)
	}

	published, err := s.post(ctx, client, fmt.Sprintf("%s/%s/threads_publish", s.baseURL, url.PathEscape(threadsUserID)), url.Values{
		"creation_id": {container.ID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish threads container %s: %w", container.ID, err)
	}
	return published.ID, nil
}

func (s *threadsService) post(ctx context.Context, client *http.Client, endpoint string, form url.Values) (*transfer.ThreadsContainer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr transfer.ThreadsErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("threads API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		slog.Info("unexpected threads response", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code from Threads: %d", resp.StatusCode)
	}

	var container transfer.ThreadsContainer
	if err := json.Unmarshal(body, &container); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if container.ID == "" {
		return nil, fmt.Errorf("no id returned from Threads")
	}
	return &container, nil
}
