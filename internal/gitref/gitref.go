// Package gitref guesses the issue being worked on from the current git branch or the
// last commit subject.
package gitref

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// ErrNoIssue is returned when neither the branch nor the last commit names an issue.
var ErrNoIssue = errors.New("gitref: no issue key found in branch or last commit")

var keyPattern = regexp.MustCompile(`[A-Z][A-Z0-9]+-[0-9]+`)

// Runner executes git with args in dir and returns trimmed stdout.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// Locator finds issue keys in a working tree.
type Locator struct {
	dir string
	run Runner
}

// NewLocator returns a Locator for the repository containing dir. An empty dir means the
// process working directory.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir, run: runGit}
}

// WithRunner swaps the git runner.
func (l *Locator) WithRunner(run Runner) *Locator {
	l.run = run
	return l
}

// Current returns the issue key named by the branch, falling back to the last commit
// subject. When project is set, keys of that project are preferred.
func (l *Locator) Current(ctx context.Context, project string) (string, error) {
	sources := [][]string{
		{"rev-parse", "--abbrev-ref", "HEAD"},
		{"log", "-1", "--pretty=%s"},
	}

	for _, args := range sources {
		out, err := l.run(ctx, l.dir, args...)
		if err != nil {
			continue
		}
		if key := Extract(out, project); key != "" {
			return key, nil
		}
	}
	return "", ErrNoIssue
}

// Extract returns the first issue key in s, preferring keys of project. Branch names
// are often lower-case, so s is matched upper-cased.
func Extract(s, project string) string {
	matches := keyPattern.FindAllString(strings.ToUpper(s), -1)
	if len(matches) == 0 {
		return ""
	}
	if project != "" {
		prefix := strings.ToUpper(project) + "-"
		for _, m := range matches {
			if strings.HasPrefix(m, prefix) {
				return m
			}
		}
	}
	return matches[0]
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("gitref: git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
