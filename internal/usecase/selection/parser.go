package selection

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/jobscout/internal/domain/parse"
)

var (
	// "JOBS: 1, 3, 4", "**Valgte job:** 2 og 5", "indices = [1 2]"
	indexLineRe = regexp.MustCompile(
		`(?i)^\W*(?:relevante\s+|valgte\s+)?(?:jobs?|valgte|indices|indekser|selected)\W*` +
			`(\d+(?:\s*(?:,|;|og|and|&)?\s*\d+)*)\W*$`)
	// a last line holding only numbers: "1, 3, 4" or "[2 5]"
	bareIndexRe = regexp.MustCompile(`^\W*(\d+(?:\s*[,;]?\s*\d+)*)\W*$`)
	// loose phrasing anywhere: "job 1 og 2", "jobs 3, 4 and 7", "job nr. 2"
	loosePhraseRe = regexp.MustCompile(
		`(?i)\bjob(?:s|nr\.?|\s+nr\.?|\s+nummer)?\s*#?(\d+(?:\s*(?:,|og|and|&)\s*#?\d+)*)`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// llmChoice is the parsed selection reply: 0-based indices plus the prose.
type llmChoice struct {
	indices []int
	summary string
}

// parseChoice extracts 1-based job indices from reply. Out-of-range and
// repeated indices are dropped; no valid index is a parse failure.
func parseChoice(reply string, poolSize int) parse.Result[llmChoice] {
	lines := strings.Split(strings.TrimSpace(reply), "\n")

	raw, at := indexLine(lines)
	summary := strings.TrimSpace(reply)
	if at >= 0 {
		summary = strings.TrimSpace(strings.Join(append(lines[:at:at], lines[at+1:]...), "\n"))
	} else {
		for _, m := range loosePhraseRe.FindAllStringSubmatch(reply, -1) {
			raw = append(raw, digitsRe.FindAllString(m[1], -1)...)
		}
	}
	if len(raw) == 0 {
		return parse.Failure[llmChoice]("no index line in reply")
	}

	seen := make(map[int]bool, len(raw))
	var indices []int
	for _, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > poolSize || seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n-1)
	}
	if len(indices) == 0 {
		return parse.Failure[llmChoice]("no index within 1..%d", poolSize)
	}
	return parse.OK(llmChoice{indices: indices, summary: summary})
}

// indexLine finds the labelled index line (searching bottom up) or a bare
// numeric last line. It returns the raw numbers and the line position, or -1.
func indexLine(lines []string) ([]string, int) {
	for i := len(lines) - 1; i >= 0; i-- {
		if m := indexLineRe.FindStringSubmatch(strings.TrimSpace(lines[i])); m != nil {
			return digitsRe.FindAllString(m[1], -1), i
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := bareIndexRe.FindStringSubmatch(line); m != nil {
			return digitsRe.FindAllString(m[1], -1), i
		}
		break
	}
	return nil, -1
}
