package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func textResponse(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]},"finishReason":"STOP"}]}`, text)
}

func TestInvoke_Text(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, textResponse("hello from the model"))
	}))
	defer srv.Close()

	client := NewGemini(GeminiOpts{
		Model:   "gemini-2.0-flash-exp",
		APIKey:  "test-key",
		System:  "You are a helpful agent.",
		BaseURL: srv.URL,
	})

	resp, err := client.Invoke(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello from the model" {
		t.Errorf("expected model text, got %q", resp.Text)
	}

	if gotBody.SystemInstruction == nil || len(gotBody.SystemInstruction.Parts) == 0 {
		t.Fatal("expected system instruction in request")
	}
	if gotBody.SystemInstruction.Parts[0].Text != "You are a helpful agent." {
		t.Errorf("unexpected system instruction: %q", gotBody.SystemInstruction.Parts[0].Text)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "say hello" {
		t.Errorf("unexpected contents: %+v", gotBody.Contents)
	}
}

func TestInvoke_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	client := NewGemini(GeminiOpts{Model: "m", APIKey: "k", BaseURL: srv.URL})

	_, err := client.Invoke(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestInvoke_ResourceExhaustedStatus(t *testing.T) {
	// Some throttling failures come back as 503 with RESOURCE_EXHAUSTED status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"code":503,"message":"try later","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	client := NewGemini(GeminiOpts{Model: "m", APIKey: "k", BaseURL: srv.URL})

	_, err := client.Invoke(context.Background(), "hi")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestInvoke_OtherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"invalid argument","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	client := NewGemini(GeminiOpts{Model: "m", APIKey: "k", BaseURL: srv.URL})

	_, err := client.Invoke(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Errorf("400 must not classify as rate limit: %v", err)
	}
}

type echoDispatcher struct {
	calls []string
}

func (d *echoDispatcher) Declarations() []FunctionDeclaration {
	return []FunctionDeclaration{{Name: "save_file"}}
}

func (d *echoDispatcher) Dispatch(_ context.Context, name string, args map[string]any) (string, error) {
	d.calls = append(d.calls, name)
	return fmt.Sprintf("ok:%v", args["path"]), nil
}

func TestInvoke_ToolLoop(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if requests == 1 {
			// First turn: model asks for a tool call.
			fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"functionCall":{"name":"save_file","args":{"path":"a.txt"}}}]}}]}`)
			return
		}

		// Second turn: request must carry the function response.
		last := req.Contents[len(req.Contents)-1]
		if len(last.Parts) == 0 || last.Parts[0].FunctionResponse == nil {
			t.Errorf("expected functionResponse part, got %+v", last)
		} else if last.Parts[0].FunctionResponse.Response["output"] != "ok:a.txt" {
			t.Errorf("unexpected tool output: %+v", last.Parts[0].FunctionResponse.Response)
		}
		fmt.Fprint(w, textResponse("file saved"))
	}))
	defer srv.Close()

	tools := &echoDispatcher{}
	client := NewGemini(GeminiOpts{Model: "m", APIKey: "k", Tools: tools, BaseURL: srv.URL})

	resp, err := client.Invoke(context.Background(), "write a file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "file saved" {
		t.Errorf("expected final text, got %q", resp.Text)
	}
	if len(tools.calls) != 1 || tools.calls[0] != "save_file" {
		t.Errorf("expected one save_file dispatch, got %v", tools.calls)
	}
	if requests != 2 {
		t.Errorf("expected 2 API calls, got %d", requests)
	}
}
