package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/credential"
	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/ui"
)

type setupAnswers struct {
	Site       string
	User       string
	Token      string
	Project    string
	UseKeyring bool
}

type tokenStore interface {
	Set(host, token string) error
}

// verifyFunc checks the credentials in cfg and returns the authenticated user's name.
type verifyFunc func(ctx context.Context, cfg *config.Config) (string, error)

func newSetupCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the Jira site and credentials interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isInteractive() {
				return errors.New("setup needs a terminal")
			}
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			if err := runSetup(cmd.Context(), cmd.OutOrStdout(), cfg, o.logger(cfg)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", ui.RenderPassIcon(), cfg.File())
			return nil
		},
	}
}

// runSetup asks for the site and credentials, verifies them and saves the configuration.
func runSetup(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger) error {
	answers := setupAnswers{
		Site:       cfg.Atlassian.Site,
		User:       cfg.Atlassian.User,
		Project:    cfg.Defaults.Project,
		UseKeyring: true,
	}

	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira site").
				Placeholder("https://issues.example.com").
				Value(&answers.Site).
				Validate(required("site")),
			huh.NewInput().
				Title("Username").
				Value(&answers.User).
				Validate(required("username")),
			huh.NewInput().
				Title("API token or password").
				EchoMode(huh.EchoModePassword).
				Value(&answers.Token).
				Validate(required("token")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Default project key").
				Description("Used when --project is not given").
				Value(&answers.Project),
			huh.NewConfirm().
				Title("Store the token in the system keyring?").
				Value(&answers.UseKeyring),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return prompt.ErrAborted
		}
		return fmt.Errorf("setup: %w", err)
	}

	var store tokenStore
	if answers.UseKeyring {
		s, err := credential.Open()
		if err != nil {
			logger.Warn("keyring unavailable, the token is saved in the configuration file", slog.Any("error", err))
		} else {
			store = s
		}
	}

	_, err := applySetup(ctx, w, cfg, answers, store, verifyCredentials(logger))
	return err
}

// applySetup stores answers in cfg, verifies them and saves cfg. With a store the token
// goes to the keyring and is left out of the file.
func applySetup(ctx context.Context, w io.Writer, cfg *config.Config, answers setupAnswers, store tokenStore, verify verifyFunc) (string, error) {
	site := config.SiteURL(answers.Site)
	cfg.Atlassian.Site = site
	cfg.Atlassian.User = strings.TrimSpace(answers.User)
	cfg.Atlassian.APIToken = strings.TrimSpace(answers.Token)
	cfg.Atlassian.OAuthToken = ""
	if p := strings.ToUpper(strings.TrimSpace(answers.Project)); p != "" {
		cfg.Defaults.Project = p
	}

	name, err := verify(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("setup: verify credentials: %w", err)
	}

	saved := *cfg
	if store != nil {
		if err := store.Set(config.Host(site), cfg.Atlassian.APIToken); err != nil {
			return "", err
		}
		saved.Atlassian.APIToken = ""
	}

	if err := config.Save(cfg.File(), &saved); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "%s Authenticated as %s\n", ui.RenderPassIcon(), name)
	return name, nil
}

func verifyCredentials(logger *slog.Logger) verifyFunc {
	return func(ctx context.Context, cfg *config.Config) (string, error) {
		svc, err := newService(cfg, logger)
		if err != nil {
			return "", err
		}
		me, err := svc.Myself(ctx)
		if err != nil {
			return "", err
		}
		if me.DisplayName != "" {
			return me.DisplayName, nil
		}
		return me.Name, nil
	}
}
