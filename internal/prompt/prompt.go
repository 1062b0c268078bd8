// Package prompt asks the user to pick among choices or type a value.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/huh"
)

var (
	// ErrUnavailable is returned when no interactive terminal is attached.
	ErrUnavailable = errors.New("prompt: interactive input unavailable")
	// ErrAborted is returned when the user cancels a prompt.
	ErrAborted = errors.New("prompt: aborted")
)

// Choice is one selectable entry. Value is what the caller receives.
type Choice struct {
	Label string
	Value string
}

// Prompter is the interactive primitive the workflow engine depends on. Calls block until
// the user answers or ctx is cancelled.
type Prompter interface {
	Choose(ctx context.Context, title string, choices []Choice) (string, error)
	Input(ctx context.Context, title string) (string, error)
}

// Terminal prompts through huh forms.
type Terminal struct {
	theme *huh.Theme
}

// NewTerminal returns a Prompter for an attached terminal.
func NewTerminal() *Terminal {
	return &Terminal{theme: huh.ThemeBase()}
}

// Choose implements Prompter.
func (t *Terminal) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("prompt: %s: no choices", title)
	}

	options := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		options[i] = huh.NewOption(c.Label, c.Value)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected),
		),
	).WithTheme(t.theme)

	if err := t.run(ctx, form); err != nil {
		return "", err
	}
	return selected, nil
}

// Input implements Prompter.
func (t *Terminal) Input(ctx context.Context, title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&value),
		),
	).WithTheme(t.theme)

	if err := t.run(ctx, form); err != nil {
		return "", err
	}
	return value, nil
}

func (t *Terminal) run(ctx context.Context, form *huh.Form) error {
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// NonInteractive refuses every prompt. Used when stdin is not a terminal and by the MCP
// server.
type NonInteractive struct{}

// Choose implements Prompter.
func (NonInteractive) Choose(context.Context, string, []Choice) (string, error) {
	return "", ErrUnavailable
}

// Input implements Prompter.
func (NonInteractive) Input(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Call records one prompt shown by Scripted.
type Call struct {
	Title   string
	Choices []Choice
}

// Scripted answers prompts from a fixed list of responses, in order. An exhausted script
// behaves like NonInteractive.
type Scripted struct {
	mu        sync.Mutex
	responses []string
	calls     []Call
}

// NewScripted returns a Prompter that replies with responses in order.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: responses}
}

// Choose implements Prompter.
func (s *Scripted) Choose(_ context.Context, title string, choices []Choice) (string, error) {
	return s.next(Call{Title: title, Choices: append([]Choice(nil), choices...)})
}

// Input implements Prompter.
func (s *Scripted) Input(_ context.Context, title string) (string, error) {
	return s.next(Call{Title: title})
}

// Calls returns the prompts shown so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Scripted) next(call Call) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if len(s.responses) == 0 {
		return "", ErrUnavailable
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}
