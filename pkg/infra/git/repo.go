// Package git wraps the git CLI for the commit-and-push persistence step.
// Only the plumbing the runner needs is exposed: dirty check, stage-all
// commit, push.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/types"
)

const (
	defaultAuthorName  = "antenna-bot"
	defaultAuthorEmail = "antenna-bot@users.noreply.github.com"
)

type repository struct {
	dir         string
	authorName  string
	authorEmail string
	remote      string
}

// Option configures a Repository.
type Option func(*repository)

// WithAuthor sets the commit author identity.
func WithAuthor(name, email string) Option {
	return func(r *repository) {
		r.authorName = name
		r.authorEmail = email
	}
}

// WithRemote sets the push remote. Defaults to origin.
func WithRemote(remote string) Option {
	return func(r *repository) {
		r.remote = remote
	}
}

// New creates a GitRepository operating on the working tree at dir.
func New(dir string, opts ...Option) interfaces.GitRepository {
	r := &repository{
		dir:         dir,
		authorName:  defaultAuthorName,
		authorEmail: defaultAuthorEmail,
		remote:      "origin",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasChanges reports whether the working tree has staged or unstaged
// changes, including untracked files.
func (r *repository) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitAll stages every working-tree change and commits under the fixed
// author identity.
func (r *repository) CommitAll(ctx context.Context, message string) error {
	if _, err := r.git(ctx, "add", "-A"); err != nil {
		return err
	}

	if _, err := r.git(ctx,
		"-c", "user.name="+r.authorName,
		"-c", "user.email="+r.authorEmail,
		"commit", "-m", message,
	); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Created commit", "message", message, "dir", r.dir)
	return nil
}

// Push pushes the current branch to the configured remote.
func (r *repository) Push(ctx context.Context) error {
	if _, err := r.git(ctx, "push", r.remote, "HEAD"); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Pushed to remote", "remote", r.remote)
	return nil
}

// git runs one git subcommand in the repository directory.
func (r *repository) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.T(types.ErrTagGit),
			goerr.V("args", args),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return stdout.String(), nil
}
