package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ylchen07/jflow/internal/config"
	"github.com/ylchen07/jflow/internal/ui"
	"github.com/ylchen07/jflow/internal/workflow"
	"github.com/ylchen07/jflow/pkg/logging"
)

const (
	// Flag values used when --transition or --assign is given bare.
	transitionMenu = "\x00menu"
	assignDefault  = "\x00default"
)

// errReported marks a failure already printed by ui.Report.
var errReported = errors.New("jflow: one or more actions failed")

var issueArg = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]+-)?[0-9]+$`)

type rootOptions struct {
	configPath string
	logLevel   string

	newIssue   bool
	update     bool
	comment    string
	transition string
	assign     string
	browse     bool

	opts workflow.Options
}

func newRootCmd() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jflow [issue] [flags]",
		Short: "Create, update, comment on and transition Jira issues",
		Long: `jflow drives Jira issues from the command line. Projects, issue types,
components, priorities, versions, users and transitions are given by name.

Without an issue key the key is taken from the current git branch or the last
commit. A bare number is prefixed with the project.

Examples:
  jflow --new --title "Login fails" --type Bug --component API
  jflow 142 --comment "Fixed in {{ branch }}"
  jflow --transition                         # choose from a menu
  jflow LPS-142 --transition="Start Progress" --assign
  jflow LPS-142 --browser`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := o.plan(cmd, args)
			if err != nil {
				return err
			}
			if plan.Empty() {
				return cmd.Help()
			}
			return o.run(cmd, plan)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to configuration directory or file")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.BoolVarP(&o.newIssue, "new", "n", false, "Create a new issue")
	f.BoolVarP(&o.update, "update", "u", false, "Update the issue")
	f.StringVarP(&o.comment, "comment", "c", "", "Add a comment")
	f.StringVarP(&o.transition, "transition", "t", "", "Run a transition; without a value, choose from a menu")
	f.Lookup("transition").NoOptDefVal = transitionMenu
	f.StringVarP(&o.assign, "assign", "a", "", "Assign the issue; without a value, to the default assignee")
	f.Lookup("assign").NoOptDefVal = assignDefault
	f.BoolVarP(&o.browse, "browser", "b", false, "Open the issue in a browser")

	f.StringVar(&o.opts.Title, "title", "", "Issue summary")
	f.StringVarP(&o.opts.Message, "message", "m", "", "Issue description")
	f.StringVarP(&o.opts.Project, "project", "p", "", "Project key")
	f.StringVar(&o.opts.IssueType, "type", "", "Issue type name")
	f.StringVar(&o.opts.Component, "component", "", "Component name")
	f.StringVar(&o.opts.Priority, "priority", "", "Priority name")
	f.StringVar(&o.opts.Version, "version", "", "Affects version name")
	f.StringVar(&o.opts.Assignee, "assignee", "", "Assignee username or alias")
	f.StringVar(&o.opts.Reporter, "reporter", "", "Reporter username or alias")
	f.StringToStringVar(&o.opts.Fields, "field", nil, "Transition field value as id=value, repeatable")

	cmd.SetVersionTemplate("jflow {{.Version}}\n")
	cmd.AddCommand(newSetupCmd(o), newConfigCmd(o), newServeCmd(o))
	return cmd
}

// plan turns flags and positional arguments into a workflow.Plan. Bare --transition and
// --assign flags cannot take a separate value, so arguments that are not issue keys fill
// them in that order.
func (o *rootOptions) plan(cmd *cobra.Command, args []string) (workflow.Plan, error) {
	p := workflow.Plan{
		Options: o.opts,
		New:     o.newIssue,
		Update:  o.update,
		Comment: o.comment,
		Browse:  o.browse,
	}

	var extra []string
	for _, arg := range args {
		if p.Key == "" && issueArg.MatchString(arg) {
			p.Key = arg
			continue
		}
		extra = append(extra, arg)
	}

	switch o.transition {
	case transitionMenu:
		if len(extra) > 0 {
			p.Transition, extra = extra[0], extra[1:]
		} else {
			p.TransitionMenu = true
		}
	default:
		p.Transition = o.transition
	}

	if cmd.Flags().Changed("assign") {
		p.AssignSet = true
		if o.assign == assignDefault {
			if len(extra) > 0 {
				p.Assign, extra = extra[0], extra[1:]
			}
		} else {
			p.Assign = o.assign
		}
	}

	if len(extra) > 0 {
		return workflow.Plan{}, fmt.Errorf("unexpected argument %q", extra[0])
	}
	return p, nil
}

func (o *rootOptions) run(cmd *cobra.Command, plan workflow.Plan) error {
	cfg, logger, err := o.load(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	engine, err := newEngine(cfg, logger, isInteractive())
	if err != nil {
		return err
	}

	results, err := engine.Run(ctx, plan)
	if ui.Report(cmd.OutOrStdout(), results, err) > 0 {
		return errReported
	}
	return nil
}

// load reads the configuration and fills the token from the keyring. Missing credentials
// start the setup flow when a terminal is attached.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := o.logger(cfg)

	loadToken(cfg, logger)

	err = cfg.ValidateCredentials()
	var credErr *config.CredentialsError
	if errors.As(err, &credErr) && isInteractive() {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderMuted(credErr.Error()))
		if err := runSetup(cmd.Context(), cmd.OutOrStdout(), cfg, logger); err != nil {
			return nil, nil, err
		}
		loadToken(cfg, logger)
		err = cfg.ValidateCredentials()
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (o *rootOptions) logger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return logging.New(level, cfg.Log.Format)
}
