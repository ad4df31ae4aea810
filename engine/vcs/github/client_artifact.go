package github

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

type artifactList struct {
	TotalCount int                     `json:"total_count"`
	Artifacts  []sdk.ArtifactReference `json:"artifacts"`
}

// LatestArtifact returns the most recent artifact of the repository that has not expired.
// If name is set, only artifacts with this name are considered.
// https://docs.github.com/rest/actions/artifacts#list-artifacts-for-a-repository
func (c *Client) LatestArtifact(ctx context.Context, owner, repo, name string) (sdk.ArtifactReference, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	if name != "" {
		q.Set("name", name)
	}
	nextPage := "/repos/" + owner + "/" + repo + "/actions/artifacts?" + q.Encode()

	for nextPage != "" {
		if ctx.Err() != nil {
			return sdk.ArtifactReference{}, sdk.WithStack(ctx.Err())
		}

		status, body, headers, err := c.get(ctx, nextPage)
		if err != nil {
			log.Warn(ctx, "githubClient.LatestArtifact> Error %s", err)
			return sdk.ArtifactReference{}, err
		}
		if status == http.StatusNotFound {
			return sdk.ArtifactReference{}, sdk.NewErrorFrom(sdk.ErrNoArtifact, "repository %s/%s not found", owner, repo)
		}
		if status >= 400 {
			return sdk.ArtifactReference{}, sdk.NewError(sdk.ErrUnknownError, errorAPI(body))
		}

		var list artifactList
		if err := sdk.JSONUnmarshal(body, &list); err != nil {
			log.Warn(ctx, "githubClient.LatestArtifact> Unable to parse github artifacts: %s", err)
			return sdk.ArtifactReference{}, err
		}
		// Artifacts are listed from the newest to the oldest
		for _, a := range list.Artifacts {
			if a.Expired {
				continue
			}
			log.Debug(ctx, "githubClient.LatestArtifact> latest artifact of %s/%s is %d (%s)", owner, repo, a.ID, a.Name)
			return a, nil
		}
		nextPage = getNextPage(headers)
	}

	return sdk.ArtifactReference{}, sdk.NewErrorFrom(sdk.ErrNoArtifact, "%s/%s", owner, repo)
}

// DownloadArtifact returns the zip archive of the artifact. The caller must close it.
func (c *Client) DownloadArtifact(ctx context.Context, a sdk.ArtifactReference) (io.ReadCloser, error) {
	if a.DownloadURL == "" {
		return nil, sdk.NewErrorFrom(sdk.ErrNotFound, "artifact %d has no download url", a.ID)
	}
	body, size, err := c.stream(ctx, a.DownloadURL)
	if err != nil {
		return nil, sdk.WrapError(err, "unable to download artifact %d", a.ID)
	}
	log.Info(ctx, "githubClient.DownloadArtifact> downloading artifact %d (%d bytes announced)", a.ID, size)
	return body, nil
}
