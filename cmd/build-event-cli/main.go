// Package main provides a CLI tool to exercise the notifier with synthetic
// CodeBuild completion events, locally or against a deployed function.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	buildevent "github.com/nathantilsley/build-sentry/internal/notify/adapters/build_event"
	"github.com/nathantilsley/build-sentry/internal/notify/app"
	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseCliConfig()
	if err != nil {
		return err
	}

	ev := buildSyntheticEvent(cfg)
	ctx := context.Background()

	if cfg.functionName != "" {
		return invokeRemote(ctx, cfg.functionName, ev)
	}
	return runLocal(ctx, ev)
}

type cliConfig struct {
	region            string
	pullRequestID     string
	repository        string
	sourceCommit      string
	destinationCommit string
	status            string
	deepLink          string
	functionName      string
}

func parseCliConfig() (cliConfig, error) {
	var (
		region = flag.String("region", "", "Event region (or use AWS_REGION env var)")
		prID   = flag.String("pull-request-id", "1", "Pull request id threaded through the build")
		repo   = flag.String("repository", "", "CodeCommit repository name")
		source = flag.String("source-commit", "0000000", "Source commit id of the pull request")
		dest   = flag.String("destination-commit", "1111111", "Destination commit id of the pull request")
		status = flag.String("status", "SUCCEEDED", "Terminal build status: SUCCEEDED, FAILED or STOPPED")
		link   = flag.String("deep-link", "https://console.aws.amazon.com/cloudwatch/home", "Logs deep-link URL")
		fn     = flag.String(
			"function-name",
			"",
			"Deployed notifier function to invoke; omit to run the notifier locally in dry-run mode",
		)
	)
	flag.Parse()

	cfg := cliConfig{
		region:            getEnvOrFlag(*region, "AWS_REGION"),
		pullRequestID:     *prID,
		repository:        *repo,
		sourceCommit:      *source,
		destinationCommit: *dest,
		status:            *status,
		deepLink:          *link,
		functionName:      *fn,
	}

	if cfg.region == "" {
		return cfg, errors.New("region required\nProvide via -region flag or AWS_REGION env var")
	}
	if cfg.repository == "" {
		return cfg, errors.New("repository required\nProvide via -repository flag")
	}
	switch cfg.status {
	case "SUCCEEDED", "FAILED", "STOPPED":
	default:
		return cfg, fmt.Errorf("invalid status %q, expected SUCCEEDED, FAILED or STOPPED", cfg.status)
	}

	return cfg, nil
}

func getEnvOrFlag(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}

// buildSyntheticEvent assembles a CodeBuild state-change event shaped like
// the ones the pull-request build rule delivers to the notifier.
func buildSyntheticEvent(cfg cliConfig) events.CodeBuildEvent {
	phases := []events.CodeBuildPhase{
		{PhaseType: "SUBMITTED", PhaseStatus: events.CodeBuildPhaseStatusSucceeded},
		{PhaseType: "PROVISIONING", PhaseStatus: events.CodeBuildPhaseStatusSucceeded},
		{PhaseType: "BUILD", PhaseStatus: events.CodeBuildPhaseStatus(cfg.status)},
	}

	return events.CodeBuildEvent{
		Source:     "aws.codebuild",
		DetailType: "CodeBuild Build State Change",
		Region:     cfg.region,
		Detail: events.CodeBuildEventDetail{
			BuildStatus: events.CodeBuildPhaseStatus(cfg.status),
			AdditionalInformation: events.CodeBuildEventAdditionalInformation{
				Environment: events.CodeBuildEnvironment{
					EnvironmentVariables: []events.CodeBuildEnvironmentVariable{
						{Name: domain.VarPullRequestID, Value: cfg.pullRequestID},
						{Name: domain.VarRepositoryName, Value: cfg.repository},
						{Name: domain.VarSourceCommit, Value: cfg.sourceCommit},
						{Name: domain.VarDestinationCommit, Value: cfg.destinationCommit},
					},
				},
				Phases: phases,
				Logs: events.CodeBuildLogs{
					DeepLink: cfg.deepLink,
				},
			},
		},
	}
}

// runLocal runs the notifier in-process with a poster that prints the
// comment instead of calling CodeCommit.
func runLocal(ctx context.Context, ev events.CodeBuildEvent) error {
	be, err := buildevent.FromLambda(ev)
	if err != nil {
		return fmt.Errorf("parsing build event: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := app.NewService(printPoster{}, logger)
	return svc.HandleBuildEvent(ctx, be)
}

type printPoster struct{}

func (printPoster) PostComment(_ context.Context, c domain.Comment) error {
	fmt.Printf("Would post on pull request #%s in %s (%s -> %s):\n\n%s\n",
		c.PullRequestID, c.RepositoryName, c.BeforeCommitID, c.AfterCommitID, c.Content)
	return nil
}

// invokeRemote sends the event to the deployed notifier through the Lambda
// API and reports the outcome.
func invokeRemote(ctx context.Context, functionName string, ev events.CodeBuildEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}
	client := lambdasvc.NewFromConfig(awsCfg)

	fmt.Printf("Invoking %s...\n", functionName)
	out, err := client.Invoke(ctx, &lambdasvc.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoking function: %w", err)
	}

	if out.FunctionError != nil {
		fmt.Printf("✗ Function returned an error (status %d)\n", out.StatusCode)
		if len(out.Payload) > 0 {
			fmt.Printf("Response: %s\n", string(out.Payload))
		}
		return fmt.Errorf("function error: %s", *out.FunctionError)
	}

	fmt.Printf("✓ Invocation succeeded (status %d)\n", out.StatusCode)
	fmt.Println("\nCheck the pull request for the status comment!")
	return nil
}
