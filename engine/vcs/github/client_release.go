package github

import (
	"context"
	"net/http"

	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

// Release is a GitHub release.
type Release struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}

// Tag is an item of the tags list.
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		Sha string `json:"sha"`
	} `json:"commit"`
}

// LatestReleaseName returns the name of the latest release of the repository. Without release,
// the most recent tag is used. It returns an empty string if the repository has neither.
func (c *Client) LatestReleaseName(ctx context.Context, owner, repo string) (string, error) {
	status, body, _, err := c.get(ctx, "/repos/"+owner+"/"+repo+"/releases/latest")
	if err != nil {
		log.Warn(ctx, "githubClient.LatestReleaseName> Error %s", err)
		return "", err
	}
	switch {
	case status == http.StatusNotFound:
		log.Debug(ctx, "githubClient.LatestReleaseName> no release found on %s/%s, trying tags", owner, repo)
		return c.latestTag(ctx, owner, repo)
	case status >= 400:
		return "", sdk.NewError(sdk.ErrUnknownError, errorAPI(body))
	}

	var r Release
	if err := sdk.JSONUnmarshal(body, &r); err != nil {
		log.Warn(ctx, "githubClient.LatestReleaseName> Unable to parse github release: %s", err)
		return "", err
	}
	if r.Name != "" {
		return r.Name, nil
	}
	return r.TagName, nil
}

func (c *Client) latestTag(ctx context.Context, owner, repo string) (string, error) {
	status, body, _, err := c.get(ctx, "/repos/"+owner+"/"+repo+"/tags?per_page=1")
	if err != nil {
		log.Warn(ctx, "githubClient.latestTag> Error %s", err)
		return "", err
	}
	if status >= 400 {
		if status == http.StatusNotFound {
			log.Debug(ctx, "githubClient.latestTag> status 404 return empty because no tags found")
			return "", nil
		}
		return "", sdk.NewError(sdk.ErrUnknownError, errorAPI(body))
	}

	var tags []Tag
	if err := sdk.JSONUnmarshal(body, &tags); err != nil {
		log.Warn(ctx, "githubClient.latestTag> Unable to parse github tags: %s", err)
		return "", err
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0].Name, nil
}
