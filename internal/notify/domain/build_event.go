// Package domain holds the build-event model and the rules for turning a
// completed CodeBuild run into a pull request status comment.
package domain

// Names of the environment variables the pull-request event rule threads
// through the build. The notifier reads them back out of the completion event.
const (
	VarPullRequestID     = "pullRequestId"
	VarRepositoryName    = "repositoryName"
	VarSourceCommit      = "sourceCommit"
	VarDestinationCommit = "destinationCommit"
)

// PhaseStatusFailed is the phase status that marks a build failed.
const PhaseStatusFailed = "FAILED"

// EnvironmentVariable is one name/value pair from the build environment.
type EnvironmentVariable struct {
	Name  string
	Value string
}

// Phase is a single build phase. Status is empty for phases that have not
// reached a terminal state.
type Phase struct {
	Type   string
	Status string
}

// BuildEvent is the slice of a CodeBuild state-change event the notifier
// acts on. It is consumed once and discarded; nothing persists across
// invocations.
type BuildEvent struct {
	Region               string
	BuildStatus          string
	EnvironmentVariables []EnvironmentVariable
	Phases               []Phase
	LogsDeepLink         string
}

// BuildContext holds the pull request identifiers recovered from the build
// environment.
type BuildContext struct {
	PullRequestID  string
	RepositoryName string
	BeforeCommitID string // sourceCommit
	AfterCommitID  string // destinationCommit
}

var requiredVariables = []string{
	VarPullRequestID,
	VarRepositoryName,
	VarSourceCommit,
	VarDestinationCommit,
}

// ExtractContext scans the environment variables for the four pull request
// identifiers, matching names exactly. The last matching entry wins when a
// name appears more than once. A missing name is a MissingVariableError and
// no comment may be posted.
func (e BuildEvent) ExtractContext() (BuildContext, error) {
	var bc BuildContext
	seen := make(map[string]bool, len(requiredVariables))
	for _, v := range e.EnvironmentVariables {
		switch v.Name {
		case VarPullRequestID:
			bc.PullRequestID = v.Value
		case VarRepositoryName:
			bc.RepositoryName = v.Value
		case VarSourceCommit:
			bc.BeforeCommitID = v.Value
		case VarDestinationCommit:
			bc.AfterCommitID = v.Value
		default:
			continue
		}
		seen[v.Name] = true
	}
	for _, name := range requiredVariables {
		if !seen[name] {
			return BuildContext{}, NewMissingVariableError(name)
		}
	}
	return bc, nil
}

// Result classifies a finished build.
type Result int

const (
	ResultPassing Result = iota
	ResultFailing
)

// Label returns the human-readable form used in comment markdown.
func (r Result) Label() string {
	if r == ResultFailing {
		return "Failing"
	}
	return "Passing"
}

// Classify reduces the phase list to a single result: a FAILED status
// anywhere fails the build, regardless of position. A list with no phases
// carries no verdict and returns ErrNoPhases.
func Classify(phases []Phase) (Result, error) {
	if len(phases) == 0 {
		return ResultPassing, ErrNoPhases
	}
	for _, p := range phases {
		if p.Status == PhaseStatusFailed {
			return ResultFailing, nil
		}
	}
	return ResultPassing, nil
}
