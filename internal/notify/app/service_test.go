package app

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

var update = flag.Bool("update", false, "update golden files")

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostComment(ctx context.Context, comment domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func failedBuildEvent() domain.BuildEvent {
	return domain.BuildEvent{
		Region: "eu-west-1",
		EnvironmentVariables: []domain.EnvironmentVariable{
			{Name: "pullRequestId", Value: "5"},
			{Name: "repositoryName", Value: "demo"},
			{Name: "sourceCommit", Value: "aaa"},
			{Name: "destinationCommit", Value: "bbb"},
		},
		Phases: []domain.Phase{
			{Type: "SUBMITTED", Status: "SUCCEEDED"},
			{Type: "BUILD", Status: "FAILED"},
		},
		LogsDeepLink: "http://logs/x",
	}
}

func TestService_HandleBuildEvent(t *testing.T) {
	poster := new(mockPoster)

	var posted domain.Comment
	poster.On("PostComment", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posted = args.Get(1).(domain.Comment)
	}).Return(nil)

	svc := NewService(poster, nil)
	err := svc.HandleBuildEvent(context.Background(), failedBuildEvent())

	require.NoError(t, err)
	poster.AssertNumberOfCalls(t, "PostComment", 1)

	require.Equal(t, "5", posted.PullRequestID)
	require.Equal(t, "demo", posted.RepositoryName)
	require.Equal(t, "aaa", posted.BeforeCommitID)
	require.Equal(t, "bbb", posted.AfterCommitID)
	require.Contains(t, posted.Content, "Failing")
	require.Contains(t, posted.Content, "s3-eu-west-1")
	require.Contains(t, posted.Content, "http://logs/x")
}

func TestService_HandleBuildEvent_MissingVariable(t *testing.T) {
	poster := new(mockPoster)
	svc := NewService(poster, nil)

	ev := failedBuildEvent()
	ev.EnvironmentVariables = ev.EnvironmentVariables[:3] // drop destinationCommit

	err := svc.HandleBuildEvent(context.Background(), ev)

	require.Error(t, err)
	require.True(t, domain.IsMissingVariable(err))
	poster.AssertNotCalled(t, "PostComment", mock.Anything, mock.Anything)
}

func TestService_HandleBuildEvent_NoPhases(t *testing.T) {
	poster := new(mockPoster)
	svc := NewService(poster, nil)

	ev := failedBuildEvent()
	ev.Phases = nil

	err := svc.HandleBuildEvent(context.Background(), ev)

	require.ErrorIs(t, err, domain.ErrNoPhases)
	poster.AssertNotCalled(t, "PostComment", mock.Anything, mock.Anything)
}

func TestService_HandleBuildEvent_PosterError(t *testing.T) {
	postErr := errors.New("access denied")

	poster := new(mockPoster)
	poster.On("PostComment", mock.Anything, mock.Anything).Return(postErr)

	svc := NewService(poster, nil)
	err := svc.HandleBuildEvent(context.Background(), failedBuildEvent())

	require.ErrorIs(t, err, postErr)
}

func TestService_CommentContent_Golden(t *testing.T) {
	tests := []struct {
		name   string
		golden string
		mutate func(*domain.BuildEvent)
	}{
		{
			name:   "failing build in a regional host",
			golden: "failing-comment.md",
			mutate: func(ev *domain.BuildEvent) {},
		},
		{
			name:   "passing build in us-east-1",
			golden: "passing-comment.md",
			mutate: func(ev *domain.BuildEvent) {
				ev.Region = "us-east-1"
				ev.Phases = []domain.Phase{
					{Type: "SUBMITTED", Status: "SUCCEEDED"},
					{Type: "BUILD", Status: "SUCCEEDED"},
				}
				ev.LogsDeepLink = "http://logs/y"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := failedBuildEvent()
			tt.mutate(&ev)

			poster := new(mockPoster)
			var posted domain.Comment
			poster.On("PostComment", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				posted = args.Get(1).(domain.Comment)
			}).Return(nil)

			svc := NewService(poster, nil)
			require.NoError(t, svc.HandleBuildEvent(context.Background(), ev))

			compareOrUpdateGolden(t, filepath.Join("testdata", "golden", tt.golden), posted.Content)
		})
	}
}

// compareOrUpdateGolden either updates the golden file or compares against
// it, printing a unified diff on mismatch.
func compareOrUpdateGolden(t *testing.T, path, actual string) {
	t.Helper()

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("writing golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden file %s (run with -update to create): %v", path, err)
	}

	if string(expected) != actual {
		diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expected)),
			B:        difflib.SplitLines(actual),
			FromFile: path,
			ToFile:   "actual",
			Context:  3,
		})
		if diffErr != nil {
			t.Fatalf("diffing against golden file %s: %v", path, diffErr)
		}
		t.Errorf("output does not match golden file %s\n%s", path, diff)
	}
}
