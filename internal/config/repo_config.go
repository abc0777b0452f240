package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gitformat "github.com/go-git/go-git/v5/plumbing/format/config"
)

// ConfigFileName is the name of the stacky configuration file, looked up in
// the repository root and in the home directory.
const ConfigFileName = ".stackyconfig"

// Config is the merged user configuration.
type Config struct {
	// SkipConfirm answers yes to every confirmation prompt.
	SkipConfirm bool
	// ChangeToMain switches to the stack bottom when the current branch is not in a stack.
	ChangeToMain bool
	// ChangeToAdopted checks out a branch after adopting it.
	ChangeToAdopted bool
	// ShareSSHSession multiplexes pushes over one SSH connection.
	ShareSSHSession bool
	// Bottoms are extra branch names treated as stack bottoms.
	Bottoms []string
	// ReviewerOrg replaces a leading "#" in reviewer names, as in "#team" -> "org/team".
	ReviewerOrg string
}

// DefaultPaths returns the files Load reads for a repository, in precedence order
// (later files win).
func DefaultPaths(repoRoot string) []string {
	paths := []string{filepath.Join(repoRoot, ConfigFileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ConfigFileName))
	}
	return paths
}

// Load reads every existing file in paths into one Config; later files override
// earlier ones key by key. Missing files are skipped.
func Load(paths ...string) (*Config, error) {
	cfg := &Config{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		raw := gitformat.New()
		if err := gitformat.NewDecoder(strings.NewReader(normalizeKeys(string(data)))).Decode(raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := cfg.apply(raw); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *Config) apply(raw *gitformat.Config) error {
	if raw.HasSection("UI") {
		ui := raw.Section("UI")
		for key, dst := range map[string]*bool{
			"skip-confirm":      &c.SkipConfirm,
			"change-to-main":    &c.ChangeToMain,
			"change-to-adopted": &c.ChangeToAdopted,
			"share-ssh-session": &c.ShareSSHSession,
		} {
			if !ui.Options.Has(key) {
				continue
			}
			v, err := parseBool(ui.Options.Get(key))
			if err != nil {
				return fmt.Errorf("UI.%s: %w", key, err)
			}
			*dst = v
		}
	}
	if raw.HasSection("stack") {
		stack := raw.Section("stack")
		if stack.Options.Has("bottoms") {
			c.Bottoms = nil
			for _, name := range strings.Split(stack.Options.Get("bottoms"), ",") {
				if name = strings.TrimSpace(name); name != "" {
					c.Bottoms = append(c.Bottoms, name)
				}
			}
		}
		if stack.Options.Has("reviewer-org") {
			c.ReviewerOrg = strings.TrimSpace(stack.Options.Get("reviewer-org"))
		}
	}
	return nil
}

// normalizeKeys rewrites "skip_confirm = x" as "skip-confirm = x": the git
// config grammar has no underscores in variable names.
func normalizeKeys(data string) string {
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			key, value, found = strings.Cut(line, ":")
		}
		if !found {
			lines[i] = strings.ReplaceAll(line, "_", "-")
			continue
		}
		lines[i] = strings.ReplaceAll(key, "_", "-") + "=" + value
	}
	return strings.Join(lines, "\n")
}

// parseBool accepts git-style booleans. A key without a value is true.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes", "on", "true", "1":
		return true, nil
	case "no", "off", "false", "0":
		return false, nil
	}
	return strconv.ParseBool(s)
}
