package push

import (
	"regexp"
	"strings"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/git"
)

var (
	issueMarkerRe = regexp.MustCompile(`(?:^|[_-])([A-Z]{3,}[_-]?\d{2,})($|[_-].*)`)
	reviewersRe   = regexp.MustCompile(`(?i)^reviewers?\s*:\s*(.*)`)
)

// FindIssueMarker extracts a tracker id such as "SRE-12" from a branch name.
// "SRE_12" and "SRE12" are normalized to "SRE-12". It returns "" when the
// name carries no id.
func FindIssueMarker(name string) string {
	m := issueMarkerRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	id := m[1]
	if strings.Contains(id, "_") {
		return strings.ReplaceAll(id, "_", "-")
	}
	if !strings.Contains(id, "-") {
		i := strings.IndexAny(id, "0123456789")
		return id[:i] + "-" + id[i:]
	}
	return id
}

// FindReviewers returns the reviewers listed on the first "reviewers:" line of
// a commit body. A leading "#" names a team of org, as in "#infra" -> "org/infra".
func FindReviewers(body, org string) []string {
	for _, line := range strings.Split(body, "\n") {
		m := reviewersRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		var reviewers []string
		for _, r := range strings.Split(m[1], ",") {
			r = strings.TrimSpace(r)
			if org != "" {
				r = strings.ReplaceAll(r, "#", org+"/")
			}
			if r != "" {
				reviewers = append(reviewers, r)
			}
		}
		return reviewers
	}
	return nil
}

// Metadata is the seed for a new pull request.
type Metadata struct {
	Title     string
	Body      string
	Reviewers []string
}

// CommitReader reads commits; satisfied by engine.GitRunner.
type CommitReader interface {
	GetCommitRangeSHAs(base, head string) ([]string, error)
	GetCommitMessage(commitSHA string) (git.CommitMessage, error)
}

// PrepareMetadata derives the title, body and reviewers of b's pull request
// from its commits on top of its parent.
func PrepareMetadata(g CommitReader, b *engine.Branch, org string) (Metadata, error) {
	parent := b.Parent()
	shas, err := g.GetCommitRangeSHAs(parent.Commit, b.Commit)
	if err != nil {
		return Metadata{}, err
	}
	tip, err := g.GetCommitMessage(b.Commit)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{Reviewers: FindReviewers(tip.Body, org)}

	title := ""
	if issue := FindIssueMarker(b.Name); issue != "" {
		title = "[" + issue + "] "
		if len(shas) == 1 {
			if strings.Contains(tip.Subject, b.Name) {
				title = tip.Subject
			} else {
				title += tip.Subject
			}
		}
	} else if len(shas) == 1 {
		title = tip.Subject
	} else {
		title = b.Name
	}
	meta.Title = title

	// shas are newest first
	switch len(shas) {
	case 0:
	case 1:
		meta.Body = tip.Body
	default:
		var sb strings.Builder
		for i := len(shas) - 1; i >= 0; i-- {
			msg, err := g.GetCommitMessage(shas[i])
			if err != nil {
				return Metadata{}, err
			}
			if msg.Subject != "" {
				sb.WriteString(msg.Subject + "\n")
			}
		}
		meta.Body = strings.TrimSpace(sb.String())
	}
	return meta, nil
}
