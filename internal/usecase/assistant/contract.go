package assistant

import (
	"context"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/usecase/conversation"
	"github.com/kailas-cloud/jobscout/internal/usecase/intent"
	"github.com/kailas-cloud/jobscout/internal/usecase/normalize"
	"github.com/kailas-cloud/jobscout/internal/usecase/retrieval"
	"github.com/kailas-cloud/jobscout/internal/usecase/selection"
)

// IntentClassifier decides between a new search and a follow-up.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, history []domain.Turn) intent.Decision
}

// Normalizer cleans up the raw query.
type Normalizer interface {
	Normalize(ctx context.Context, raw string) normalize.Normalization
}

// ConstraintExtractor parses role/location/company hints.
type ConstraintExtractor interface {
	Extract(text string) domain.ConstraintSet
}

// Retriever gathers the candidate pool.
type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) retrieval.Pool
}

// Ranker filters and orders the pool.
type Ranker interface {
	Rank(pool []domain.Candidate, cs domain.ConstraintSet, query string) []domain.Candidate
}

// Selector picks the final list and writes the summary.
type Selector interface {
	Select(ctx context.Context, ranked []domain.Candidate, query string, history []domain.Turn) selection.Selection
}

// ConversationOpener resolves the conversation store of a request.
type ConversationOpener interface {
	Open(ctx context.Context, threadID string, history []domain.Turn) conversation.Store
}

// FollowUpAnswerer answers from history only.
type FollowUpAnswerer interface {
	Answer(ctx context.Context, store conversation.Store, history []domain.Turn, message string) conversation.Answer
}
