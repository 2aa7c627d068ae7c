// Package publish pushes a finished mirror tree to a git remote,
// shelling out to the git binary.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Publisher commits the contents of a mirror root and pushes them to a
// remote. The mirror root becomes (or already is) the git working copy.
type Publisher struct {
	Dir     string // mirror root
	Remote  string // remote URL, added as origin if missing
	Message string // commit message; a default is used when empty
}

// Push initializes the working copy if needed, stages and commits
// everything, ensures the origin remote, and pushes to origin/main.
func (p *Publisher) Push(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(p.Dir, ".git")); err != nil {
		slog.Info("initializing git repository", "dir", p.Dir)
		if err := p.git(ctx, "init"); err != nil {
			return err
		}
		if err := p.git(ctx, "branch", "-M", "main"); err != nil {
			return err
		}
	}

	if err := p.git(ctx, "add", "."); err != nil {
		return err
	}

	msg := p.Message
	if msg == "" {
		msg = "Update mirrored content"
	}
	if err := p.git(ctx, "commit", "-m", msg); err != nil {
		return err
	}

	remotes, err := p.gitOutput(ctx, "remote")
	if err != nil {
		return err
	}
	if !slices.Contains(strings.Fields(remotes), "origin") {
		slog.Info("adding origin remote", "url", p.Remote)
		if err := p.git(ctx, "remote", "add", "origin", p.Remote); err != nil {
			return err
		}
	}

	slog.Info("pushing mirror", "dir", p.Dir)
	return p.git(ctx, "push", "-u", "origin", "main")
}

func (p *Publisher) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("publish: git %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (p *Publisher) gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.Dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("publish: git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
