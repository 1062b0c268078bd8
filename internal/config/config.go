package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PromptValue marks a per-transition field that must always be asked for interactively.
const PromptValue = "prompt"

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Log         LogConfig                    `mapstructure:"log" yaml:"log"`
	Atlassian   AtlassianConfig              `mapstructure:"atlassian" yaml:"atlassian"`
	Defaults    Defaults                     `mapstructure:"defaults" yaml:"defaults"`
	Aliases     map[string]string            `mapstructure:"aliases" yaml:"aliases,omitempty"`
	Transitions map[string]map[string]string `mapstructure:"transitions" yaml:"transitions,omitempty"`
	Signature   string                       `mapstructure:"signature" yaml:"signature,omitempty"`

	file string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AtlassianConfig describes the Jira site and how to authenticate against it.
type AtlassianConfig struct {
	Site               string        `mapstructure:"site" yaml:"site"`
	APIBase            string        `mapstructure:"api_base" yaml:"api_base,omitempty"`
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	ServiceCredentials `mapstructure:",squash" yaml:",inline"`
}

// ServiceCredentials describes authentication for the Jira site.
type ServiceCredentials struct {
	User       string `mapstructure:"user" yaml:"user"`
	APIToken   string `mapstructure:"api_token" yaml:"api_token,omitempty"`
	OAuthToken string `mapstructure:"oauth_token" yaml:"oauth_token,omitempty"`
}

// Defaults are applied to command options the user did not supply.
// Component and Version are keyed by project.
type Defaults struct {
	Project   string            `mapstructure:"project" yaml:"project,omitempty"`
	IssueType string            `mapstructure:"issue_type" yaml:"issue_type,omitempty"`
	Assignee  string            `mapstructure:"assignee" yaml:"assignee,omitempty"`
	Reporter  string            `mapstructure:"reporter" yaml:"reporter,omitempty"`
	Reviewer  string            `mapstructure:"reviewer" yaml:"reviewer,omitempty"`
	Component map[string]string `mapstructure:"component" yaml:"component,omitempty"`
	Version   map[string]string `mapstructure:"version" yaml:"version,omitempty"`
}

// CredentialsError reports missing or unusable stored credentials. Callers recover from it
// by running the interactive setup flow.
type CredentialsError struct {
	Reason string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("config: %s, run \"jflow setup\"", e.Reason)
}

// DefaultPath returns ~/.config/jflow/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jflow", "config.yaml")
}

// Load reads configuration from the provided directory or file and environment variables.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("jflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("atlassian.site", "")
	v.SetDefault("atlassian.user", "")
	v.SetDefault("atlassian.api_token", "")
	v.SetDefault("atlassian.oauth_token", "")
	v.SetDefault("atlassian.timeout", "0s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.file = v.ConfigFileUsed()
	if cfg.file == "" {
		cfg.file = path
		if cfg.file == "" {
			cfg.file = DefaultPath()
		}
	}
	cfg.normalize()

	if err := cfg.applyNetrcDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// File reports the file the configuration was read from, or would be saved to.
func (c *Config) File() string {
	if c.file == "" {
		return DefaultPath()
	}
	return c.file
}

// ValidateCredentials reports a *CredentialsError when the site or credentials are unusable.
func (c *Config) ValidateCredentials() error {
	if strings.TrimSpace(c.Atlassian.Site) == "" {
		return &CredentialsError{Reason: "atlassian.site is required"}
	}
	return c.Atlassian.ServiceCredentials.validate("jira")
}

func (s ServiceCredentials) validate(name string) error {
	if s.OAuthToken == "" && (s.User == "" || s.APIToken == "") {
		return &CredentialsError{Reason: fmt.Sprintf("%s requires either oauth_token or user/api_token", name)}
	}
	return nil
}

// DefaultComponent returns the configured component for project.
func (c *Config) DefaultComponent(project string) string {
	v, _ := lookupFold(c.Defaults.Component, project)
	return v
}

// DefaultVersion returns the configured version for project.
func (c *Config) DefaultVersion(project string) string {
	v, _ := lookupFold(c.Defaults.Version, project)
	return v
}

// ExpandAlias maps a user alias onto the username it stands for. Names without an alias
// are returned unchanged.
func (c *Config) ExpandAlias(name string) string {
	if name == "" {
		return ""
	}
	if expanded, ok := lookupFold(c.Aliases, name); ok && expanded != "" {
		return expanded
	}
	return name
}

// TransitionField looks up the static value configured for a transition field, trying the
// field id first and then its display name.
func (c *Config) TransitionField(transition, fieldID, fieldName string) (string, bool) {
	fields, ok := c.Transitions[foldKey(transition)]
	if !ok {
		for name, f := range c.Transitions {
			if strings.EqualFold(name, transition) {
				fields, ok = f, true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	for _, key := range []string{fieldID, fieldName} {
		if key == "" {
			continue
		}
		if value, ok := lookupFold(fields, key); ok {
			return value, true
		}
	}
	return "", false
}

// viper lower-cases map keys when reading files; fold everything so values set in code
// or via env behave the same.
func (c *Config) normalize() {
	c.Atlassian.Site = SiteURL(c.Atlassian.Site)
	c.Atlassian.APIBase = SiteURL(c.Atlassian.APIBase)

	c.Aliases = foldMap(c.Aliases)
	c.Defaults.Component = foldMap(c.Defaults.Component)
	c.Defaults.Version = foldMap(c.Defaults.Version)

	transitions := make(map[string]map[string]string, len(c.Transitions))
	for name, fields := range c.Transitions {
		transitions[foldKey(name)] = foldMap(fields)
	}
	c.Transitions = transitions

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// SiteURL returns site as an absolute URL without a trailing slash. A bare host
// gets https://.
func SiteURL(site string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(site), "/")
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

func foldMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[foldKey(k)] = v
	}
	return out
}

// lookupFold finds key ignoring case, for maps built in code rather than loaded.
func lookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[foldKey(key)]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(key)) {
			return v, true
		}
	}
	return "", false
}

func foldKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
