package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Save writes cfg as YAML to path, creating parent directories if needed.
// Secrets that live in the keyring should be cleared by the caller first.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = cfg.File()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: create directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("log", map[string]any{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
	})

	atlassian := map[string]any{
		"site": cfg.Atlassian.Site,
		"user": cfg.Atlassian.User,
	}
	if cfg.Atlassian.APIBase != "" {
		atlassian["api_base"] = cfg.Atlassian.APIBase
	}
	if cfg.Atlassian.APIToken != "" {
		atlassian["api_token"] = cfg.Atlassian.APIToken
	}
	if cfg.Atlassian.OAuthToken != "" {
		atlassian["oauth_token"] = cfg.Atlassian.OAuthToken
	}
	v.Set("atlassian", atlassian)

	v.Set("defaults", map[string]any{
		"project":    cfg.Defaults.Project,
		"issue_type": cfg.Defaults.IssueType,
		"assignee":   cfg.Defaults.Assignee,
		"reporter":   cfg.Defaults.Reporter,
		"reviewer":   cfg.Defaults.Reviewer,
		"component":  cfg.Defaults.Component,
		"version":    cfg.Defaults.Version,
	})
	if len(cfg.Aliases) > 0 {
		v.Set("aliases", cfg.Aliases)
	}
	if len(cfg.Transitions) > 0 {
		v.Set("transitions", cfg.Transitions)
	}
	if cfg.Signature != "" {
		v.Set("signature", cfg.Signature)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	cfg.file = path
	return nil
}

// Masked returns a copy of cfg with secrets replaced, suitable for display.
func (c *Config) Masked() Config {
	out := *c
	if out.Atlassian.APIToken != "" {
		out.Atlassian.APIToken = "********"
	}
	if out.Atlassian.OAuthToken != "" {
		out.Atlassian.OAuthToken = "********"
	}
	return out
}
