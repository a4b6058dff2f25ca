// Package app wires the notifier use case: one build completion event in,
// one pull request comment out.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
	"github.com/nathantilsley/build-sentry/internal/notify/ports"
)

// Service turns build completion events into pull request comments. It is
// stateless; concurrent invocations share nothing and are not deduplicated
// against repeated delivery of the same event.
type Service struct {
	poster ports.CommentPoster
	logger *slog.Logger
}

// NewService creates a notifier service posting through poster. A nil
// logger falls back to slog.Default.
func NewService(poster ports.CommentPoster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{poster: poster, logger: logger}
}

// HandleBuildEvent posts one status comment for a finished build. Any
// failure aborts the invocation with no comment posted; there is no retry.
func (s *Service) HandleBuildEvent(ctx context.Context, ev domain.BuildEvent) error {
	bc, err := ev.ExtractContext()
	if err != nil {
		return fmt.Errorf("extracting build context: %w", err)
	}

	result, err := domain.Classify(ev.Phases)
	if err != nil {
		return fmt.Errorf("classifying build phases: %w", err)
	}

	comment := domain.NewComment(bc, ev.Region, result, ev.LogsDeepLink)

	// Logged before the remote call so a failed post still leaves the
	// parsed fields in the invocation log.
	s.logger.InfoContext(ctx, "posting build status comment",
		"pull_request_id", bc.PullRequestID,
		"repository", bc.RepositoryName,
		"before_commit", bc.BeforeCommitID,
		"after_commit", bc.AfterCommitID,
		"region", ev.Region,
		"result", result.Label(),
	)

	if err := s.poster.PostComment(ctx, comment); err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}
