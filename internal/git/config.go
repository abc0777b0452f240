package git

import (
	"context"
	"fmt"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
)

// splitConfigKey splits "section.sub.section.option" into its parts. The
// subsection may itself contain dots, as branch names often do.
func splitConfigKey(key string) (section, subsection, option string, err error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first < 0 {
		return "", "", "", fmt.Errorf("invalid config key %q", key)
	}
	section = key[:first]
	option = key[last+1:]
	if first != last {
		subsection = key[first+1 : last]
	}
	return section, subsection, option, nil
}

// GetConfig returns the value of a git config key, or "" when unset. The
// repository's config is read first, then the user's and the system's.
func (r *Runner) GetConfig(key string) (string, error) {
	section, subsection, option, err := splitConfigKey(key)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	local, err := r.repo.Config()
	r.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}
	if value, ok := lookupOption(local.Raw, section, subsection, option); ok {
		return value, nil
	}
	for _, scope := range []gitconfig.Scope{gitconfig.GlobalScope, gitconfig.SystemScope} {
		cfg, err := gitconfig.LoadConfig(scope)
		if err != nil {
			return "", fmt.Errorf("failed to read git config: %w", err)
		}
		if value, ok := lookupOption(cfg.Raw, section, subsection, option); ok {
			return value, nil
		}
	}
	return "", nil
}

func lookupOption(raw *format.Config, section, subsection, option string) (string, bool) {
	if raw == nil || !raw.HasSection(section) {
		return "", false
	}
	s := raw.Section(section)
	opts := s.Options
	if subsection != "" {
		if !s.HasSubsection(subsection) {
			return "", false
		}
		opts = s.Subsection(subsection).Options
	}
	if !opts.Has(option) {
		return "", false
	}
	return opts.Get(option), true
}

// SetConfig writes a key to the repository's local config.
func (r *Runner) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.cmd.Run(ctx, "config", key, value)
	return err
}

// RemoteURL returns remote.<name>.url.
func (r *Runner) RemoteURL(remote string) (string, error) {
	return r.GetConfig(fmt.Sprintf("remote.%s.url", remote))
}
