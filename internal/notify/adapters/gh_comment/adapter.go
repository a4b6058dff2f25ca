// Package ghcomment posts pull request comments on GitHub, for CodeCommit
// repositories mirrored to GitHub with pull request numbering preserved.
package ghcomment

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v68/github"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

// Adapter implements ports.CommentPoster by creating an issue comment on
// the mirrored pull request.
type Adapter struct {
	client *github.Client
	owner  string
	repo   string
}

// New creates a new GitHub comment adapter for owner/repo.
func New(client *github.Client, owner, repo string) *Adapter {
	return &Adapter{client: client, owner: owner, repo: repo}
}

// NewFromAppKey builds an adapter whose client authenticates as a GitHub
// App installation using the private key at keyPath.
func NewFromAppKey(appID, installationID int64, keyPath, owner, repo string) (*Adapter, error) {
	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	return New(github.NewClient(&http.Client{Transport: itr}), owner, repo), nil
}

// PostComment posts the comment on the mirrored pull request. The CodeCommit
// pull request id is used as the GitHub pull request number.
func (a *Adapter) PostComment(ctx context.Context, c domain.Comment) error {
	number, err := strconv.Atoi(c.PullRequestID)
	if err != nil {
		return fmt.Errorf("parsing pull request id %q: %w", c.PullRequestID, err)
	}

	_, _, err = a.client.Issues.CreateComment(ctx, a.owner, a.repo, number, &github.IssueComment{
		Body: github.String(c.Content),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s/%s#%d: %w", a.owner, a.repo, number, err)
	}
	return nil
}
