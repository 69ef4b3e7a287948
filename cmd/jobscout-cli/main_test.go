package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/domain/search/request"
	assistantuc "github.com/kailas-cloud/jobscout/internal/usecase/assistant"
	"github.com/kailas-cloud/jobscout/internal/usecase/selection"
)

type fakeService struct {
	askReq    assistantuc.AskRequest
	searchReq *request.Request
	askResp   assistantuc.AskResponse
	search    assistantuc.SearchResponse
	closed    bool
}

func (f *fakeService) Ask(_ context.Context, req assistantuc.AskRequest) (assistantuc.AskResponse, error) {
	f.askReq = req
	return f.askResp, nil
}

func (f *fakeService) Search(_ context.Context, req *request.Request) (assistantuc.SearchResponse, error) {
	f.searchReq = req
	return f.search, nil
}

func run(t *testing.T, svc *fakeService, args ...string) (string, error) {
	t.Helper()
	app := newCLI(func(_ *cli.Context) (service, func(), error) {
		return svc, func() { svc.closed = true }, nil
	})
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"jobscout-cli"}, args...))
	return out.String(), err
}

func TestAsk_PrintsSummaryAndPostings(t *testing.T) {
	svc := &fakeService{askResp: assistantuc.AskResponse{
		ResponseText: "Her er 1 job.",
		Postings: []domain.JobPosting{{
			Title: "Controller", Company: "Arla", Location: "Aarhus", RelevanceScore: 3,
			PublicationDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		}},
		Strategy:        "semantic",
		Intent:          domain.IntentNewSearch,
		SelectionMethod: selection.MethodLLM,
	}}

	out, err := run(t, svc, "ask", "--search-type", "hybrid", "controller", "i", "Aarhus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.askReq.Message != "controller i Aarhus" || svc.askReq.Mode != mode.Hybrid {
		t.Errorf("unexpected request: %+v", svc.askReq)
	}
	if !strings.Contains(out, "Her er 1 job.") || !strings.Contains(out, "1. Controller, Arla, Aarhus (relevans 3, 2026-02-10)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !svc.closed {
		t.Error("expected service to be released")
	}
}

func TestAsk_RequiresMessage(t *testing.T) {
	svc := &fakeService{}
	if _, err := run(t, svc, "ask"); err == nil {
		t.Fatal("expected error for missing message")
	}
}

func TestAsk_JSON(t *testing.T) {
	svc := &fakeService{askResp: assistantuc.AskResponse{ResponseText: "svar", Intent: domain.IntentFollowUp}}
	out, err := run(t, svc, "--json", "ask", "mere om dem")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"ResponseText": "svar"`) {
		t.Errorf("expected JSON output, got:\n%s", out)
	}
}

func TestSearch_FlagsToRequest(t *testing.T) {
	svc := &fakeService{search: assistantuc.SearchResponse{
		Items:    []domain.JobPosting{{Title: "Udvikler", Company: "Systematic", Location: "Aarhus", RelevanceScore: 2}},
		Page:     2,
		PageSize: 5,
		Total:    6,
		Strategy: "text",
	}}

	out, err := run(t, svc, "search", "-q", "udvikler", "--page", "2", "--page-size", "5",
		"--min-score", "2", "--location", "Aarhus", "--search-type", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := svc.searchReq
	if req.Query() != "udvikler" || req.Page() != 2 || req.PageSize() != 5 || req.MinScore() != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Mode() != mode.Text || req.LocationFilter() != "Aarhus" {
		t.Errorf("unexpected mode/filter: %s %q", req.Mode(), req.LocationFilter())
	}
	// Numbering continues from the page offset.
	if !strings.Contains(out, "6. Udvikler, Systematic, Aarhus") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	svc := &fakeService{}
	_, err := run(t, svc, "search", "-q", "x", "--match-threshold", "1.5")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if svc.searchReq != nil {
		t.Error("service must not be called")
	}
}

func TestSearch_QueryRequired(t *testing.T) {
	if _, err := run(t, &fakeService{}, "search"); err == nil || !strings.Contains(err.Error(), "query") {
		t.Fatalf("expected required flag error, got %v", err)
	}
}
