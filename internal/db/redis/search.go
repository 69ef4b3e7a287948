package redis

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/jobscout/internal/db"
)

// vectorScoreField is the distance FT.SEARCH yields for a KNN clause.
const vectorScoreField = "__vector_score"

// SearchKNN runs a KNN query via FT.SEARCH. Entry scores are cosine
// similarities clamped to [0,1], ordered best first.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	switch {
	case q.IndexName == "":
		return nil, fmt.Errorf("index name is required")
	case len(q.Vector) == 0:
		return nil, fmt.Errorf("vector is required")
	case q.K <= 0:
		return nil, fmt.Errorf("k must be positive")
	}

	filter := "*"
	if q.PreFilter != "" {
		filter = "(" + q.PreFilter + ")"
	}

	res, err := s.ftSearch(ctx, ftSearch{
		index:  q.IndexName,
		query:  fmt.Sprintf("%s=>[KNN %d @vector $BLOB]", filter, q.K),
		params: []string{"BLOB", vectorToBytes(q.Vector)},
		fields: q.ReturnFields,
		limit:  q.K,
	})
	if err != nil {
		return nil, err
	}

	for i := range res.Entries {
		e := &res.Entries[i]
		if d, err := strconv.ParseFloat(e.Fields[vectorScoreField], 64); err == nil {
			e.Score = min(1, max(0, 1-d))
		}
		delete(e.Fields, vectorScoreField)
	}
	// Valkey returns KNN hits in shard order; callers rely on best-first.
	slices.SortStableFunc(res.Entries, func(a, b db.SearchEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return res, nil
}

// SearchBM25 runs a keyword query via FT.SEARCH WITHSCORES.
// Returns db.ErrTextSearchUnsupported when the backend has no TEXT scoring.
func (s *Store) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if !s.textSearch {
		return nil, db.ErrTextSearchUnsupported
	}
	clause := textClause(q)
	switch {
	case q.IndexName == "":
		return nil, fmt.Errorf("index name is required")
	case clause == "":
		return nil, fmt.Errorf("query is required")
	case q.TopK <= 0:
		return nil, fmt.Errorf("topK must be positive")
	}

	if q.PreFilter != "" {
		clause = q.PreFilter + " " + clause
	}

	return s.ftSearch(ctx, ftSearch{
		index:      q.IndexName,
		query:      clause,
		fields:     q.ReturnFields,
		limit:      q.TopK,
		withScores: true,
	})
}

// textClause escapes each term and joins them with AND (space) or OR (|).
// It returns "" when the query has no terms.
func textClause(q *db.TextQuery) string {
	terms := strings.Fields(q.Query)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = db.EscapeText(t)
	}

	sep := " "
	if q.MatchAny {
		sep = "|"
	}
	clause := "(" + strings.Join(terms, sep) + ")"
	if q.TextField != "" {
		clause = "@" + q.TextField + ":" + clause
	}
	return clause
}

// ftSearch is one FT.SEARCH call in DIALECT 2.
type ftSearch struct {
	index      string
	query      string
	params     []string // name/value pairs
	fields     []string
	limit      int
	withScores bool
}

func (f ftSearch) args() []string {
	args := []string{f.index, f.query}
	if len(f.fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(f.fields)))
		args = append(args, f.fields...)
	}
	if f.withScores {
		args = append(args, "WITHSCORES")
	}
	if len(f.params) > 0 {
		args = append(args, "PARAMS", strconv.Itoa(len(f.params)))
		args = append(args, f.params...)
	}
	return append(args, "LIMIT", "0", strconv.Itoa(f.limit), "DIALECT", "2")
}

func (s *Store) ftSearch(ctx context.Context, f ftSearch) (*db.SearchResult, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(f.args()...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseReply(raw, f.withScores)
}

// parseReply decodes [total, key, (score,) fields, ...]. Malformed entries are skipped.
func parseReply(raw []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	stride := 2
	if withScores {
		stride = 3
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		entry := db.SearchEntry{Key: key}

		if withScores {
			scoreStr, err := raw[i+1].ToString()
			if err != nil {
				continue
			}
			if entry.Score, err = strconv.ParseFloat(scoreStr, 64); err != nil {
				continue
			}
		}

		fields, err := raw[i+stride-1].ToArray()
		if err != nil {
			continue
		}
		entry.Fields = fieldMap(fields)
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func fieldMap(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for j := 0; j+1 < len(pairs); j += 2 {
		name, err := pairs[j].ToString()
		if err != nil {
			continue
		}
		value, err := pairs[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// vectorToBytes encodes a FLOAT32 vector blob for the $BLOB parameter.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
