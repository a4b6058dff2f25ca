// Package ports defines the seams between the notifier service and the
// outside world.
package ports

import (
	"context"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

// CommentPoster posts a status comment on the pull request that triggered a
// build. Implementations make exactly one remote call per invocation and do
// not retry; failures surface to the caller.
type CommentPoster interface {
	PostComment(ctx context.Context, comment domain.Comment) error
}
