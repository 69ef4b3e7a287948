package ranking

import "github.com/kailas-cloud/jobscout/internal/domain"

// EnforceScorePriority removes score-1 postings from selected when the pool
// holds any posting scored 2 or higher. Removed slots are refilled in pool
// order with unselected high-score postings only, so the result may be shorter
// than selected. Without a high-score posting in the pool, selected is returned as is.
func EnforceScorePriority(selected, pool []domain.Candidate) []domain.Candidate {
	if !hasHighScore(pool) {
		return selected
	}

	target := len(selected)
	out := make([]domain.Candidate, 0, target)
	taken := make(map[string]bool, target)
	for _, c := range selected {
		if c.RelevanceScore >= domain.HighRelevanceScore && !taken[c.ID] {
			out = append(out, c)
			taken[c.ID] = true
		}
	}

	for _, c := range pool {
		if len(out) >= target {
			break
		}
		if c.RelevanceScore >= domain.HighRelevanceScore && !taken[c.ID] {
			out = append(out, c)
			taken[c.ID] = true
		}
	}
	return out
}

func hasHighScore(pool []domain.Candidate) bool {
	for _, c := range pool {
		if c.RelevanceScore >= domain.HighRelevanceScore {
			return true
		}
	}
	return false
}
