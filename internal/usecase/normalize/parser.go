package normalize

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/jobscout/internal/domain/parse"
	"github.com/kailas-cloud/jobscout/internal/domain/search/request"
)

// llmPayload mirrors the requested reply. Pointers detect missing fields.
type llmPayload struct {
	NormalizedQuery *string      `json:"normalized_query"`
	Corrections     []Correction `json:"corrections"`
	Confidence      *float64     `json:"confidence"`
}

// parseLLMReply reads the structured correction payload. normalized_query and
// confidence are required.
func parseLLMReply(reply string) parse.Result[Normalization] {
	raw, ok := parse.ExtractJSONObject(reply)
	if !ok {
		return parse.Failure[Normalization]("no json object in reply")
	}

	var p llmPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return parse.Failure[Normalization]("decode: %v", err)
	}
	if p.NormalizedQuery == nil {
		return parse.Failure[Normalization]("missing normalized_query")
	}
	if p.Confidence == nil {
		return parse.Failure[Normalization]("missing confidence")
	}

	query := strings.Join(strings.Fields(*p.NormalizedQuery), " ")
	if query == "" {
		return parse.Failure[Normalization]("empty normalized_query")
	}
	if len(query) > request.MaxQueryLength {
		return parse.Failure[Normalization]("normalized_query too long")
	}
	conf := *p.Confidence
	if conf < 0 || conf > 1 {
		return parse.Failure[Normalization]("confidence %g out of range", conf)
	}

	corrections := make([]Correction, 0, len(p.Corrections))
	for _, c := range p.Corrections {
		if c.From == "" || c.To == "" || c.From == c.To {
			continue
		}
		corrections = append(corrections, c)
	}

	return parse.OK(Normalization{
		Query:       query,
		Corrections: corrections,
		Confidence:  conf,
		Source:      SourceLLM,
	})
}
