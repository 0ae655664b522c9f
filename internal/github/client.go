// Package github fetches the user and repository records an analysis needs.
// REST calls go through go-github; pinned repositories come from the GraphQL API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gh "github.com/google/go-github/v62/github"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github-profile-analyzer/internal/config"
	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"
)

const (
	reposPerPage = 100
	pinnedLimit  = 6
)

// Client handles interactions with the GitHub API
type Client struct {
	rest    *gh.Client
	graphql *githubv4.Client // nil when no token is configured

	logger            *zerolog.Logger
	checkReadme       bool
	readmeConcurrency int

	// Rate limiting
	rateLimitMu sync.RWMutex
	rateLimit   models.RateLimitInfo
}

// pinnedItemsQuery selects the repositories pinned on a user profile
type pinnedItemsQuery struct {
	User struct {
		PinnedItems struct {
			Nodes []struct {
				Repository struct {
					Name githubv4.String
				} `graphql:"... on Repository"`
			}
		} `graphql:"pinnedItems(first: 6, types: REPOSITORY)"`
	} `graphql:"user(login: $login)"`
}

// NewClient creates a new GitHub API client. Secondary rate limits are waited
// out by the transport (at most one hour per sleep).
func NewClient(cfg config.GitHubConfig, logger *zerolog.Logger) (*Client, error) {
	waiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}

	rest := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", cfg.BaseURL, err)
		}
		rest.BaseURL = base
	}

	var graphql *githubv4.Client
	if cfg.Token != "" {
		if cfg.GraphQLURL != "" {
			graphql = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
		} else {
			graphql = githubv4.NewClient(httpClient)
		}
	}

	return newClient(rest, graphql, cfg, logger), nil
}

func newClient(rest *gh.Client, graphql *githubv4.Client, cfg config.GitHubConfig, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		rest:              rest,
		graphql:           graphql,
		logger:            logger,
		checkReadme:       cfg.CheckReadme,
		readmeConcurrency: max(1, cfg.ReadmeConcurrency),
		rateLimit: models.RateLimitInfo{
			Remaining: 60, // Default GitHub API limit
			Reset:     time.Now().Add(time.Hour),
			Limit:     60,
		},
	}
}

// GetRateLimitInfo returns the most recent rate limit seen on a REST response
func (c *Client) GetRateLimitInfo() models.RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	c.rateLimit = models.RateLimitInfo{
		Remaining: resp.Rate.Remaining,
		Reset:     resp.Rate.Reset.Time,
		Limit:     resp.Rate.Limit,
	}
}

// GetUser fetches the profile of login
func (c *Client) GetUser(ctx context.Context, login string) (*models.UserRecord, error) {
	user, resp, err := c.rest.Users.Get(ctx, login)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapError("get_user", login, err)
	}

	return &models.UserRecord{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
		UpdatedAt:   user.GetUpdatedAt().Time,
	}, nil
}

// ListRepositories returns every repository owned by login, most recently
// updated first. When README probing is enabled each record's HasReadme is
// filled in as well.
func (c *Client) ListRepositories(ctx context.Context, login string) ([]models.RepositoryRecord, error) {
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: reposPerPage},
	}

	var records []models.RepositoryRecord
	for {
		repos, resp, err := c.rest.Repositories.ListByUser(ctx, login, opts)
		c.updateRateLimit(resp)
		if err != nil {
			return nil, wrapError("list_repositories", login, err)
		}

		for _, repo := range repos {
			records = append(records, toRepositoryRecord(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		c.logger.Debug().
			Str("username", login).
			Int("page", opts.Page).
			Msg("Fetching next page of repositories")
	}

	if records == nil {
		records = []models.RepositoryRecord{}
	}

	if c.checkReadme {
		if err := c.checkReadmes(ctx, login, records); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (c *Client) checkReadmes(ctx context.Context, login string, records []models.RepositoryRecord) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.readmeConcurrency)

	for i := range records {
		g.Go(func() error {
			ok, err := c.hasReadme(gctx, login, records[i].Name)
			if err != nil {
				return err
			}
			records[i].HasReadme = ok
			return nil
		})
	}

	return g.Wait()
}

// hasReadme reports whether repo has a README. Upstream failures other than
// cancellation count as "no README".
func (c *Client) hasReadme(ctx context.Context, owner, repo string) (bool, error) {
	_, resp, err := c.rest.Repositories.GetReadme(ctx, owner, repo, nil)
	c.updateRateLimit(resp)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if resp == nil || resp.StatusCode != http.StatusNotFound {
		c.logger.Warn().
			Err(err).
			Str("repository", owner+"/"+repo).
			Msg("README check failed")
	}
	return false, nil
}

// GetPinnedRepositories returns the names of the repositories pinned on the
// profile in display order. Without a token there is no GraphQL client and the
// result is empty.
func (c *Client) GetPinnedRepositories(ctx context.Context, login string) ([]string, error) {
	if c.graphql == nil {
		return []string{}, nil
	}

	var q pinnedItemsQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := c.graphql.Query(ctx, &q, variables); err != nil {
		return nil, errors.NewGitHubError("get_pinned_repositories", login, fmt.Errorf("%w: %w", errors.ErrGitHubAPI, err))
	}

	names := make([]string, 0, pinnedLimit)
	for _, node := range q.User.PinnedItems.Nodes {
		if name := string(node.Repository.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func toRepositoryRecord(repo *gh.Repository) models.RepositoryRecord {
	record := models.RepositoryRecord{
		Name:           repo.GetName(),
		FullName:       repo.GetFullName(),
		Description:    repo.GetDescription(),
		IsFork:         repo.GetFork(),
		StargazerCount: repo.GetStargazersCount(),
		ForkCount:      repo.GetForksCount(),
		OpenIssueCount: repo.GetOpenIssuesCount(),
		Language:       repo.GetLanguage(),
		Topics:         repo.Topics,
		CreatedAt:      repo.GetCreatedAt().Time,
		UpdatedAt:      repo.GetUpdatedAt().Time,
		PushedAt:       repo.GetPushedAt().Time,
		Size:           repo.GetSize(),
		DefaultBranch:  repo.GetDefaultBranch(),
	}
	if record.Topics == nil {
		record.Topics = []string{}
	}
	record.HasTests = record.HasTopic("testing")
	record.HasDeployment = record.HasTopic("deployment") || record.HasTopic("production")
	return record
}

// wrapError classifies a go-github failure into one of the package sentinels
func wrapError(op, request string, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return errors.NewGitHubError(op, request, fmt.Errorf("%w: %w", errors.ErrRateLimit, err))
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return errors.NewGitHubError(op, request, fmt.Errorf("%w: %w", errors.ErrNotFound, err))
		case http.StatusUnauthorized:
			return errors.NewGitHubError(op, request, fmt.Errorf("%w: %w", errors.ErrUnauthorized, err))
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.NewGitHubError(op, request, err)
	}
	return errors.NewGitHubError(op, request, fmt.Errorf("%w: %w", errors.ErrGitHubAPI, err))
}
