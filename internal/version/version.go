package version

import (
	"context"

	"github.com/google/go-github/github"
	"golang.org/x/mod/semver"
)

const versionLocal = "local"

// Version is overridden at release build time via -ldflags.
var Version = versionLocal

func getLatestReleaseTag(ctx context.Context) (string, error) {
	latest, _, err := github.
		NewClient(nil).
		Repositories.
		GetLatestRelease(ctx, "yapf-ls", "yapfls")
	if err != nil {
		return "", err
	}

	if latest.TagName == nil {
		return "", nil
	}

	return *latest.TagName, nil
}

// GetVersion returns the build version. Local builds report the latest
// released version with a "-local" suffix when it can be resolved.
func GetVersion(ctx context.Context) string {
	if Version != versionLocal {
		return Version
	}

	tag, err := getLatestReleaseTag(ctx)
	if err != nil || tag == "" {
		return Version
	}

	if semver.IsValid(tag) {
		return semver.Canonical(tag) + "-" + versionLocal
	}
	return tag + "-" + versionLocal
}
