package git

import (
	"fmt"
	"strings"
)

// RemoteInfo describes where a remote URL points.
type RemoteInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL parses https, ssh:// and scp-style remote URLs.
//
//	https://github.com/owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	git@github.com:owner/repo.git
func ParseRemoteURL(url string) (RemoteInfo, error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")
	var host, path string
	switch {
	case strings.Contains(url, "://"):
		_, rest, _ := strings.Cut(url, "://")
		host, path, _ = strings.Cut(rest, "/")
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
		host, _, _ = strings.Cut(host, ":")
	case strings.Contains(url, ":"):
		host, path, _ = strings.Cut(url, ":")
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
	default:
		return RemoteInfo{}, fmt.Errorf("invalid remote URL %q", url)
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if host == "" || len(parts) < 2 {
		return RemoteInfo{}, fmt.Errorf("invalid remote URL %q", url)
	}
	return RemoteInfo{
		Hostname: host,
		Owner:    parts[len(parts)-2],
		Repo:     parts[len(parts)-1],
	}, nil
}

// SSHHost returns the host part of an ssh remote URL, including any user@
// prefix, or "" if the URL is not ssh.
func SSHHost(url string) string {
	url = strings.TrimSpace(url)
	if rest, ok := strings.CutPrefix(url, "ssh://"); ok {
		host, _, _ := strings.Cut(rest, "/")
		host, _, _ = strings.Cut(host, ":")
		return host
	}
	if strings.Contains(url, "://") {
		return ""
	}
	host, path, ok := strings.Cut(url, ":")
	if !ok || host == "" || strings.Contains(host, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	return host
}
