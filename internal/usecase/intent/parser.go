package intent

import (
	"strings"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/parse"
)

// parseLabel accepts a reply naming exactly one of the two labels.
func parseLabel(reply string) parse.Result[domain.Intent] {
	norm := strings.ToUpper(reply)
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	follow := strings.Contains(norm, string(domain.IntentFollowUp)) || strings.Contains(norm, "FOLLOWUP")
	search := strings.Contains(norm, string(domain.IntentNewSearch)) || strings.Contains(norm, "NEWSEARCH")
	switch {
	case follow && search:
		return parse.Failure[domain.Intent]("reply names both labels: %q", reply)
	case follow:
		return parse.OK(domain.IntentFollowUp)
	case search:
		return parse.OK(domain.IntentNewSearch)
	default:
		return parse.Failure[domain.Intent]("no label in reply: %q", reply)
	}
}
