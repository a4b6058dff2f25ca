package cccomment

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/codecommit"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nathantilsley/build-sentry/internal/notify/domain"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) PostCommentForPullRequest(ctx context.Context, params *codecommit.PostCommentForPullRequestInput,
	optFns ...func(*codecommit.Options)) (*codecommit.PostCommentForPullRequestOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codecommit.PostCommentForPullRequestOutput), args.Error(1)
}

func TestAdapter_PostComment(t *testing.T) {
	comment := domain.Comment{
		BuildContext: domain.BuildContext{
			PullRequestID:  "5",
			RepositoryName: "demo",
			BeforeCommitID: "aaa",
			AfterCommitID:  "bbb",
		},
		Content: "![Passing](badge) - See the [Logs](http://logs/x)",
	}

	api := new(mockAPI)
	api.On("PostCommentForPullRequest", mock.Anything, mock.MatchedBy(func(in *codecommit.PostCommentForPullRequestInput) bool {
		return *in.PullRequestId == "5" &&
			*in.RepositoryName == "demo" &&
			*in.BeforeCommitId == "aaa" &&
			*in.AfterCommitId == "bbb" &&
			*in.Content == comment.Content
	})).Return(&codecommit.PostCommentForPullRequestOutput{}, nil)

	err := New(api).PostComment(context.Background(), comment)

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestAdapter_PostComment_Error(t *testing.T) {
	apiErr := errors.New("ThrottlingException")

	api := new(mockAPI)
	api.On("PostCommentForPullRequest", mock.Anything, mock.Anything).Return(nil, apiErr)

	err := New(api).PostComment(context.Background(), domain.Comment{
		BuildContext: domain.BuildContext{PullRequestID: "5"},
	})

	require.Error(t, err)
	require.ErrorIs(t, err, apiErr)
	require.Contains(t, err.Error(), "posting comment for pull request 5")
}
