// Package main is the Lambda entrypoint for the pull request build notifier.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"

	buildevent "github.com/nathantilsley/build-sentry/internal/notify/adapters/build_event"
	cccomment "github.com/nathantilsley/build-sentry/internal/notify/adapters/cc_comment"
	ghcomment "github.com/nathantilsley/build-sentry/internal/notify/adapters/gh_comment"
	"github.com/nathantilsley/build-sentry/internal/notify/app"
	"github.com/nathantilsley/build-sentry/internal/notify/ports"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	svc, err := newService(context.Background(), logger)
	if err != nil {
		logger.Error("initializing notifier", "error", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, ev events.CodeBuildEvent) error {
		return handle(ctx, svc, logger, ev)
	})
}

func handle(ctx context.Context, svc *app.Service, logger *slog.Logger, ev events.CodeBuildEvent) error {
	logger.DebugContext(ctx, "received build event",
		"build_id", ev.Detail.BuildID,
		"build_status", string(ev.Detail.BuildStatus),
		"region", ev.Region,
	)

	be, err := buildevent.FromLambda(ev)
	if err != nil {
		return fmt.Errorf("parsing build event: %w", err)
	}
	return svc.HandleBuildEvent(ctx, be)
}

func newService(ctx context.Context, logger *slog.Logger) (*app.Service, error) {
	poster, err := newPoster(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewService(poster, logger), nil
}

// newPoster selects the comment backend: CodeCommit by default, GitHub when
// a mirror repository is configured via GITHUB_REPO.
func newPoster(ctx context.Context) (ports.CommentPoster, error) {
	if repo := os.Getenv("GITHUB_REPO"); repo != "" {
		return newGitHubPoster(repo)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return cccomment.New(codecommit.NewFromConfig(cfg)), nil
}

func newGitHubPoster(repo string) (ports.CommentPoster, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid GITHUB_REPO %q, expected owner/name", repo)
	}

	appID, err := envInt64("GITHUB_APP_ID")
	if err != nil {
		return nil, err
	}
	installID, err := envInt64("GITHUB_INSTALLATION_ID")
	if err != nil {
		return nil, err
	}
	keyPath := os.Getenv("GITHUB_PRIVATE_KEY_PATH")
	if keyPath == "" {
		return nil, errors.New("GITHUB_PRIVATE_KEY_PATH required when GITHUB_REPO is set")
	}

	return ghcomment.NewFromAppKey(appID, installID, keyPath, owner, name)
}

func envInt64(key string) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s required when GITHUB_REPO is set", key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
