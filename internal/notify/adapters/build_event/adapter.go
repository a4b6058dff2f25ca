// Package buildevent converts raw CodeBuild state-change events into the
// domain model.
package buildevent

import (
	"errors"

	"github.com/aws/aws-lambda-go/events"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

// FromLambda maps a CodeBuild state-change event to a domain BuildEvent,
// validating the inbound fields the notifier depends on. Environment
// variables and phases are carried over as-is; their contents are validated
// later by the domain.
func FromLambda(ev events.CodeBuildEvent) (domain.BuildEvent, error) {
	if ev.Region == "" {
		return domain.BuildEvent{}, errors.New("build event has no region")
	}
	info := ev.Detail.AdditionalInformation
	if info.Logs.DeepLink == "" {
		return domain.BuildEvent{}, errors.New("build event has no logs deep-link")
	}

	be := domain.BuildEvent{
		Region:       ev.Region,
		BuildStatus:  string(ev.Detail.BuildStatus),
		LogsDeepLink: info.Logs.DeepLink,
	}
	for _, v := range info.Environment.EnvironmentVariables {
		be.EnvironmentVariables = append(be.EnvironmentVariables, domain.EnvironmentVariable{
			Name:  v.Name,
			Value: v.Value,
		})
	}
	for _, p := range info.Phases {
		be.Phases = append(be.Phases, domain.Phase{
			Type:   string(p.PhaseType),
			Status: string(p.PhaseStatus),
		})
	}
	return be, nil
}
