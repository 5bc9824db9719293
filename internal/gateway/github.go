// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/repo-enricher/internal/domain"
)

var (
	// ErrRepoUnavailable is the absence signal: the API answered with anything
	// other than 200 OK, or could not be reached at all.
	ErrRepoUnavailable = errors.New("repository metadata unavailable")
	// ErrIncompleteResponse is returned when a 200 OK body lacks one of the
	// expected fields. Callers must treat it as fatal.
	ErrIncompleteResponse = errors.New("incomplete repository metadata")
)

// Fetcher defines the behavior of a gateway for fetching repository metadata.
type Fetcher interface {
	FetchRepoMetadata(ctx context.Context, owner, name string) (*domain.RepoInfo, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway creates an unauthenticated gateway talking to baseURL.
// An empty baseURL keeps the client's public api.github.com endpoint.
func NewGitHubGateway(baseURL string, logger *log.Logger) (Fetcher, error) {
	// No timeout: a stalled connection blocks until the process is stopped.
	restClient := github.NewClient(&http.Client{
		Transport: &noRateLimitTransport{base: http.DefaultTransport},
	})

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API base URL: %w", err)
		}
		restClient.BaseURL = u
	}

	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// FetchRepoMetadata performs exactly one GET /repos/{owner}/{name}.
func (g *GitHubGateway) FetchRepoMetadata(ctx context.Context, owner, name string) (*domain.RepoInfo, error) {
	g.logger.Printf("GET repos/%s/%s", owner, name)

	repo, resp, err := g.restClient.Repositories.Get(ctx, owner, name)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		if status == http.StatusOK {
			// The request succeeded but the body could not be decoded.
			return nil, fmt.Errorf("failed to decode metadata for %s/%s: %w", owner, name, err)
		}
		g.logger.Printf("  %s/%s unavailable (status %d): %v", owner, name, status, err)
		return nil, ErrRepoUnavailable
	}
	if status != http.StatusOK {
		g.logger.Printf("  %s/%s unavailable (status %d)", owner, name, status)
		return nil, ErrRepoUnavailable
	}

	return toRepoInfo(owner, name, repo)
}

func toRepoInfo(owner, name string, repo *github.Repository) (*domain.RepoInfo, error) {
	var missing []string
	if repo.StargazersCount == nil {
		missing = append(missing, "stargazers_count")
	}
	if repo.ForksCount == nil {
		missing = append(missing, "forks_count")
	}
	if repo.HTMLURL == nil {
		missing = append(missing, "html_url")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w for %s/%s: missing %s", ErrIncompleteResponse, owner, name, strings.Join(missing, ", "))
	}

	return &domain.RepoInfo{
		StargazersCount: repo.GetStargazersCount(),
		ForksCount:      repo.GetForksCount(),
		HTMLURL:         repo.GetHTMLURL(),
	}, nil
}

// noRateLimitTransport strips rate-limit headers from responses. go-github
// remembers them and would short-circuit later calls without sending a request,
// while every fetch must reach the server exactly once.
type noRateLimitTransport struct {
	base http.RoundTripper
}

func (t *noRateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp == nil {
		return resp, err
	}
	for key := range resp.Header {
		if strings.HasPrefix(http.CanonicalHeaderKey(key), "X-Ratelimit-") {
			resp.Header.Del(key)
		}
	}
	resp.Header.Del("Retry-After")
	return resp, err
}
