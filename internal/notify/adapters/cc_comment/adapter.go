// Package cccomment posts pull request comments through the AWS CodeCommit
// API.
package cccomment

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

// API is the slice of the CodeCommit client the adapter uses.
type API interface {
	PostCommentForPullRequest(ctx context.Context, params *codecommit.PostCommentForPullRequestInput,
		optFns ...func(*codecommit.Options)) (*codecommit.PostCommentForPullRequestOutput, error)
}

// Adapter implements ports.CommentPoster with the CodeCommit
// PostCommentForPullRequest operation. This is the only CodeCommit
// permission the notifier needs.
type Adapter struct {
	client API
}

// New creates a new CodeCommit comment adapter.
func New(client API) *Adapter {
	return &Adapter{client: client}
}

// PostComment posts the comment on the pull request. One call, no retries;
// a failure surfaces to the invocation environment.
func (a *Adapter) PostComment(ctx context.Context, c domain.Comment) error {
	_, err := a.client.PostCommentForPullRequest(ctx, &codecommit.PostCommentForPullRequestInput{
		PullRequestId:  aws.String(c.PullRequestID),
		RepositoryName: aws.String(c.RepositoryName),
		BeforeCommitId: aws.String(c.BeforeCommitID),
		AfterCommitId:  aws.String(c.AfterCommitID),
		Content:        aws.String(c.Content),
	})
	if err != nil {
		return fmt.Errorf("posting comment for pull request %s: %w", c.PullRequestID, err)
	}
	return nil
}
