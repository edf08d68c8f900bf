package github

import (
	"context"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yatagai/antenna/pkg/domain/interfaces"
)

// playlistExtensions are the file suffixes treated as playlist sources when
// scanning repository contents.
var playlistExtensions = []string{".m3u", ".m3u8", ".txt"}

type client struct {
	githubClient *github.Client
}

// Option configures the GitHub client.
type Option func(*client)

// WithBaseURL points the client at an alternative API endpoint. Used by
// tests to target a local mock server.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		if u, err := c.githubClient.BaseURL.Parse(baseURL); err == nil {
			c.githubClient.BaseURL = u
		}
	}
}

// NewClient creates a GitHub client authenticated with a personal access
// token. An empty token yields an unauthenticated client with the lower
// anonymous rate limit.
func NewClient(token string, opts ...Option) interfaces.SourceFinder {
	c := &client{
		githubClient: github.NewClient(nil),
	}

	if token != "" {
		c.githubClient = c.githubClient.WithAuthToken(token)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FindPlaylistURLs searches recently updated repositories matching the
// keyword and returns raw download URLs for playlist files found in their
// root contents. Repositories whose contents cannot be listed are skipped.
func (c *client) FindPlaylistURLs(ctx context.Context, keyword string, limit int) ([]string, error) {
	logger := ctxlog.From(ctx)

	query := keyword + " in:name,description fork:true"
	result, _, err := c.githubClient.Search.Repositories(ctx, query, &github.SearchOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search repositories", goerr.V("keyword", keyword))
	}

	repos := result.Repositories
	if len(repos) > limit {
		repos = repos[:limit]
	}

	var urls []string
	for _, repo := range repos {
		owner := repo.GetOwner().GetLogin()
		name := repo.GetName()

		_, contents, _, err := c.githubClient.Repositories.GetContents(ctx, owner, name, "", nil)
		if err != nil {
			logger.Debug("Failed to list repository contents",
				"owner", owner,
				"repo", name,
				"error", err,
			)
			continue
		}

		for _, item := range contents {
			if item.GetType() != "file" || item.GetDownloadURL() == "" {
				continue
			}
			if hasPlaylistExtension(item.GetName()) {
				urls = append(urls, item.GetDownloadURL())
			}
		}
	}

	logger.Info("Discovered playlist sources from GitHub",
		"keyword", keyword,
		"repo_count", len(repos),
		"url_count", len(urls),
	)

	return urls, nil
}

func hasPlaylistExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range playlistExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
