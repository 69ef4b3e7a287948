// Package openai adapts OpenAI-compatible endpoints (OpenAI, Azure proxies,
// Nebius) to the jobscout provider contracts: query embeddings, chat
// completions and the hosted conversation threads.
package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// newClient builds a go-openai client. An empty baseURL keeps the OpenAI default.
func newClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// parseAPIError turns a go-openai error into "<what> API error <status>: <detail>" wrapping sentinel.
func parseAPIError(what string, err error, sentinel error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", what, apiErr.HTTPStatusCode, apiErr.Message, sentinel)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := errorDetail(reqErr.Body)
		if detail == "" {
			detail = http.StatusText(reqErr.HTTPStatusCode)
		}
		return fmt.Errorf("%s API error %d: %s: %w", what, reqErr.HTTPStatusCode, detail, sentinel)
	}

	return fmt.Errorf("%s request failed: %v: %w", what, err, sentinel) //nolint:errorlint // sentinel is the matchable cause
}

// errorDetail reads the "detail" field some compatible providers return instead of an OpenAI error object.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Detail
	}
	return ""
}
