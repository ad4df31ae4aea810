package report

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rockbears/log"
	"github.com/spf13/afero"

	"github.com/ovh/layersync/sdk"
)

// CommitMessage is the message of the report commits.
const CommitMessage = "Updated README for latest release info"

// Persister stores a generated report.
type Persister interface {
	Persist(ctx context.Context, content string) error
}

// GitPersister writes the report in a git working copy, commits it and pushes it.
type GitPersister struct {
	Workdir  string
	Filename string
	Token    string
	// Push is disabled for local repositories
	Push        bool
	AuthorName  string
	AuthorEmail string
}

// Persist implements Persister.
func (g GitPersister) Persist(ctx context.Context, content string) error {
	repo, err := git.PlainOpenWithOptions(g.Workdir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return sdk.WrapError(err, "unable to open git repository %s", g.Workdir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return sdk.WithStack(err)
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), wt.Filesystem.Root())
	if err := afero.WriteFile(fs, g.Filename, []byte(content), 0644); err != nil {
		return sdk.WrapError(err, "unable to write %s", g.Filename)
	}
	if _, err := wt.Add(filepath.ToSlash(g.Filename)); err != nil {
		return sdk.WrapError(err, "unable to add %s", g.Filename)
	}

	status, err := wt.Status()
	if err != nil {
		return sdk.WithStack(err)
	}
	if status.IsClean() {
		log.Info(ctx, "report.Persist> %s is up to date, nothing to commit", g.Filename)
		return nil
	}

	name, email := g.AuthorName, g.AuthorEmail
	if name == "" {
		name = "layersync"
	}
	if email == "" {
		email = "layersync@users.noreply.github.com"
	}
	hash, err := wt.Commit(CommitMessage, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: time.Now()},
	})
	if err != nil {
		return sdk.WrapError(err, "unable to commit %s", g.Filename)
	}
	log.Info(ctx, "report.Persist> %s committed (%s)", g.Filename, hash.String())

	if !g.Push {
		return nil
	}
	opts := &git.PushOptions{}
	if g.Token != "" {
		opts.Auth = &http.BasicAuth{Username: "x-access-token", Password: g.Token}
	}
	if err := repo.PushContext(ctx, opts); err != nil && err != git.NoErrAlreadyUpToDate {
		return sdk.WrapError(err, "unable to push %s", g.Filename)
	}
	log.Info(ctx, "report.Persist> %s pushed", g.Filename)
	return nil
}

// WriterPersister prints the report instead of committing it.
type WriterPersister struct {
	Out io.Writer
}

// Persist implements Persister.
func (w WriterPersister) Persist(ctx context.Context, content string) error {
	if _, err := io.WriteString(w.Out, content); err != nil {
		return sdk.WithStack(err)
	}
	log.Debug(ctx, "report.Persist> report printed")
	return nil
}
