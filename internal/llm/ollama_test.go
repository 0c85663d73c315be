package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNewOllamaClient_DefaultBaseURL(t *testing.T) {
	client, err := NewOllamaClient("llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOllamaBaseURL)
	}
}

func TestNewOllamaClient_EmptyModel(t *testing.T) {
	_, err := NewOllamaClient("", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestOllamaClient_CallOptions(t *testing.T) {
	tests := []struct {
		name            string
		opts            Options
		extra           []llms.CallOption
		wantMaxTokens   int
		wantTemperature float64
		wantJSON        bool
	}{
		{
			name:            "defaults",
			opts:            DefaultOptions,
			wantMaxTokens:   DefaultOptions.MaxTokens,
			wantTemperature: DefaultOptions.Temperature,
		},
		{
			name: "zero values are left to the server",
			opts: Options{},
		},
		{
			name:            "json mode keeps sampling options",
			opts:            Options{MaxTokens: 128, Temperature: 0.2},
			extra:           []llms.CallOption{llms.WithJSONMode()},
			wantMaxTokens:   128,
			wantTemperature: 0.2,
			wantJSON:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewOllamaClient("llama3", "")
			if err != nil {
				t.Fatalf("NewOllamaClient failed: %v", err)
			}
			client.opts = tt.opts

			var got llms.CallOptions
			for _, opt := range client.callOptions(tt.extra...) {
				opt(&got)
			}

			if got.Model != "llama3" {
				t.Errorf("Model = %q, want llama3", got.Model)
			}
			if got.MaxTokens != tt.wantMaxTokens {
				t.Errorf("MaxTokens = %d, want %d", got.MaxTokens, tt.wantMaxTokens)
			}
			if got.Temperature != tt.wantTemperature {
				t.Errorf("Temperature = %v, want %v", got.Temperature, tt.wantTemperature)
			}
			if got.JSONMode != tt.wantJSON {
				t.Errorf("JSONMode = %t, want %t", got.JSONMode, tt.wantJSON)
			}
		})
	}
}
