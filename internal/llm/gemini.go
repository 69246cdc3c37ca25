package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// maxToolRounds bounds the function-calling loop so a model that keeps
	// requesting tool calls cannot spin forever.
	maxToolRounds = 24
)

// FunctionDeclaration describes one callable tool exposed to the model.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is the subset of OpenAPI schema the Gemini API accepts for
// function parameters.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Dispatcher executes tool calls requested by the model. Implemented by
// tools.Toolset; nil means the agent has no tools bound.
type Dispatcher interface {
	Declarations() []FunctionDeclaration
	Dispatch(ctx context.Context, name string, args map[string]any) (string, error)
}

// GeminiClient invokes the Gemini generateContent REST API, driving the
// function-calling loop against the bound tool dispatcher.
type GeminiClient struct {
	model   string
	apiKey  string
	system  string
	tools   Dispatcher
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// GeminiOpts configures a GeminiClient.
type GeminiOpts struct {
	Model  string
	APIKey string
	// System is the system instruction: the agent's role plus its
	// instruction list, joined with newlines.
	System string
	// Tools is the bound toolset; nil for text-only agents.
	Tools  Dispatcher
	Logger zerolog.Logger
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
}

// NewGemini creates a Gemini invoker.
func NewGemini(opts GeminiOpts) *GeminiClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		model:   opts.Model,
		apiKey:  opts.APIKey,
		system:  opts.System,
		tools:   opts.Tools,
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  opts.Logger,
	}
}

// ---- wire types ----

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type functionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTools   `json:"tools,omitempty"`
}

type geminiTools struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Invoke sends the prompt and drives the tool loop until the model produces
// a final text response.
func (c *GeminiClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if c.system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: c.system}}}
	}
	if c.tools != nil {
		req.Tools = []geminiTools{{FunctionDeclarations: c.tools.Declarations()}}
	}

	for round := 0; round <= maxToolRounds; round++ {
		content, err := c.generate(ctx, &req)
		if err != nil {
			return nil, err
		}

		var text strings.Builder
		var calls []functionCall
		for _, p := range content.Parts {
			if p.Text != "" {
				text.WriteString(p.Text)
			}
			if p.FunctionCall != nil {
				calls = append(calls, *p.FunctionCall)
			}
		}

		if len(calls) == 0 || c.tools == nil {
			return &Response{Text: text.String()}, nil
		}

		// Feed tool results back and continue the conversation.
		req.Contents = append(req.Contents, *content)
		responses := geminiContent{Role: "user"}
		for _, call := range calls {
			out, dispatchErr := c.tools.Dispatch(ctx, call.Name, call.Args)
			resp := map[string]any{"output": out}
			if dispatchErr != nil {
				resp = map[string]any{"error": dispatchErr.Error()}
			}
			c.logger.Debug().
				Str("tool", call.Name).
				Bool("failed", dispatchErr != nil).
				Msg("dispatched tool call")
			responses.Parts = append(responses.Parts, geminiPart{
				FunctionResponse: &functionResponse{Name: call.Name, Response: resp},
			})
		}
		req.Contents = append(req.Contents, responses)
	}

	return nil, fmt.Errorf("gemini: tool loop exceeded %d rounds", maxToolRounds)
}

// generate performs one generateContent call and returns the first
// candidate's content.
func (c *GeminiClient) generate(ctx context.Context, req *geminiRequest) (*geminiContent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr geminiError
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		if httpResp.StatusCode == http.StatusTooManyRequests ||
			apiErr.Error.Status == "RESOURCE_EXHAUSTED" {
			return nil, fmt.Errorf("gemini: http %d: %s: %w", httpResp.StatusCode, msg, ErrRateLimited)
		}
		return nil, fmt.Errorf("gemini: http %d: %s", httpResp.StatusCode, msg)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return &geminiContent{}, nil
	}
	return &parsed.Candidates[0].Content, nil
}
