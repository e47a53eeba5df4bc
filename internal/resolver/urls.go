package resolver

import (
	"fmt"
	"net/url"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
)

// URLs are the links published in the comment.
type URLs struct {
	BuildURL           string
	StorybookURL       string
	BranchStorybookURL string
	ReviewURL          string
}

// Overrides are user supplied links. Each applies only when set and non-empty.
type Overrides struct {
	BuildURL     config.Optional
	StorybookURL config.Optional
	ReviewURL    config.Optional
}

// BuildURLs derives the comment links for a branch.
// branchStorybookURL is empty when appID is not set, since it cannot be addressed without one.
func BuildURLs(appID config.Optional, branch string, overrides Overrides, previewHost string) URLs {
	if previewHost == "" {
		previewHost = config.DefaultPreviewHost
	}

	var branchStorybookURL, defaultBuildURL string
	if appID.NonEmpty() {
		branchStorybookURL = fmt.Sprintf("https://%s--%s.%s", branch, appID.Value, previewHost)
		u := url.URL{
			Scheme:   "https",
			Host:     previewHost,
			Path:     "/build",
			RawQuery: url.Values{"appId": {appID.Value}}.Encode(),
		}
		defaultBuildURL = u.String()
	}

	return URLs{
		BuildURL:           overrides.BuildURL.OrElse(defaultBuildURL),
		StorybookURL:       overrides.StorybookURL.OrElse(branchStorybookURL),
		BranchStorybookURL: branchStorybookURL,
		ReviewURL:          overrides.ReviewURL.OrElse(""),
	}
}
