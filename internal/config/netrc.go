package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// NetrcEntry represents credentials for a single machine in .netrc.
type NetrcEntry struct {
	Machine  string
	Login    string
	Password string
	Account  string
}

// parseNetrc reads a .netrc file into machine -> entry. A missing file is not an error.
func parseNetrc(path string) (map[string]NetrcEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("netrc: open: %w", err)
	}
	defer file.Close()

	p := netrcParser{entries: make(map[string]NetrcEntry)}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.feed(strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("netrc: scan: %w", err)
	}

	p.flush()
	return p.entries, nil
}

type netrcParser struct {
	entries map[string]NetrcEntry
	current *NetrcEntry
}

func (p *netrcParser) flush() {
	if p.current != nil && p.current.Machine != "" {
		p.entries[p.current.Machine] = *p.current
	}
	p.current = nil
}

func (p *netrcParser) feed(tokens []string) {
	for i := 0; i < len(tokens); i++ {
		next := func() (string, bool) {
			if i+1 >= len(tokens) {
				return "", false
			}
			i++
			return tokens[i], true
		}

		switch tokens[i] {
		case "machine":
			p.flush()
			if name, ok := next(); ok {
				p.current = &NetrcEntry{Machine: name}
			}
		case "default":
			p.flush()
			p.current = &NetrcEntry{Machine: "default"}
		case "login", "password", "account":
			field := tokens[i]
			value, ok := next()
			if !ok || p.current == nil {
				continue
			}
			switch field {
			case "login":
				p.current.Login = value
			case "password":
				p.current.Password = value
			case "account":
				p.current.Account = value
			}
		}
	}
}

// findNetrcPath checks the NETRC environment variable first, then ~/.netrc.
func findNetrcPath() string {
	if netrcPath := os.Getenv("NETRC"); netrcPath != "" {
		return netrcPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// loadNetrcCredentials returns the login/password stored for site's host, trying the
// exact host, the host without port and finally the default entry.
func loadNetrcCredentials(site string) (login, password string, err error) {
	netrcPath := findNetrcPath()
	if netrcPath == "" {
		return "", "", nil
	}

	entries, err := parseNetrc(netrcPath)
	if err != nil || len(entries) == 0 {
		return "", "", err
	}

	hostname := Host(site)
	candidates := []string{hostname}
	if host := strings.Split(hostname, ":")[0]; host != hostname {
		candidates = append(candidates, host)
	}
	candidates = append(candidates, "default")

	for _, name := range candidates {
		if entry, ok := entries[name]; ok {
			return entry.Login, entry.Password, nil
		}
	}
	return "", "", nil
}

// Host extracts the host[:port] part of a site URL, tolerating bare hostnames.
func Host(site string) string {
	trimmed := strings.TrimSpace(site)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return strings.TrimRight(trimmed, "/")
}

// applyNetrcDefaults fills in a missing token (and user) from .netrc.
func (c *Config) applyNetrcDefaults() error {
	creds := &c.Atlassian.ServiceCredentials
	if c.Atlassian.Site == "" || creds.APIToken != "" || creds.OAuthToken != "" {
		return nil
	}

	login, password, err := loadNetrcCredentials(c.Atlassian.Site)
	if err != nil {
		return fmt.Errorf("config: load netrc: %w", err)
	}
	if password == "" {
		return nil
	}
	if creds.User == "" {
		creds.User = login
	}
	if creds.User == login {
		creds.APIToken = password
	}
	return nil
}
