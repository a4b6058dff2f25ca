package domain

import "fmt"

// badgeHostPrefixes overrides the badge bucket host prefix for regions that
// do not follow the s3-{region} website naming scheme. Kept as a table so a
// host change is a data edit, not a logic edit.
var badgeHostPrefixes = map[string]string{
	"us-east-1": "s3",
}

// BadgeHostPrefix returns the S3 website host prefix for region.
func BadgeHostPrefix(region string) string {
	if p, ok := badgeHostPrefixes[region]; ok {
		return p
	}
	return "s3-" + region
}

// BadgeURL returns the codefactory status badge for region and result.
func BadgeURL(region string, result Result) string {
	badge := "passing.svg"
	if result == ResultFailing {
		badge = "failing.svg"
	}
	return fmt.Sprintf("https://%s.amazonaws.com/codefactory-%s-prod-default-build-badges/%s",
		BadgeHostPrefix(region), region, badge)
}

// Comment is the single outbound effect of an invocation: a markdown status
// comment on the pull request that triggered the build.
type Comment struct {
	BuildContext
	Content string
}

// NewComment renders the status comment for a finished build: a badge image
// followed by a link to the build logs.
func NewComment(bc BuildContext, region string, result Result, logsDeepLink string) Comment {
	label := result.Label()
	content := fmt.Sprintf("![%s](%s %q) - See the [Logs](%s)",
		label, BadgeURL(region, result), label, logsDeepLink)
	return Comment{BuildContext: bc, Content: content}
}
