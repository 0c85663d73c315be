package llm

import "testing"

func TestNewClient_Ollama(t *testing.T) {
	client, err := NewClient("ollama", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ollamaClient, ok := client.(*OllamaClient)
	if !ok {
		t.Fatalf("expected OllamaClient, got %T", client)
	}
	if ollamaClient.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", ollamaClient.baseURL, defaultOllamaBaseURL)
	}
	if ollamaClient.opts != DefaultOptions {
		t.Errorf("opts = %+v, want %+v", ollamaClient.opts, DefaultOptions)
	}
}

func TestNewClient_LMStudio(t *testing.T) {
	for _, provider := range []string{"lmstudio", "LM-Studio", "llmstudio"} {
		client, err := NewClient(provider, "llama3", "")
		if err != nil {
			t.Fatalf("%s: expected nil error, got %v", provider, err)
		}
		lmStudioClient, ok := client.(*LMStudioClient)
		if !ok {
			t.Fatalf("%s: expected LMStudioClient, got %T", provider, client)
		}
		if lmStudioClient.baseURL != defaultLMStudioBaseURL {
			t.Errorf("baseURL = %q, want %q", lmStudioClient.baseURL, defaultLMStudioBaseURL)
		}
	}
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient("unknown", "model", "")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestNormalizeProvider(t *testing.T) {
	tests := map[string]string{
		"":          ProviderCopilot,
		" Copilot ": ProviderCopilot,
		"OLLAMA":    ProviderOllama,
		"lm-studio": ProviderLMStudio,
		"other":     "other",
	}
	for in, want := range tests {
		if got := NormalizeProvider(in); got != want {
			t.Errorf("NormalizeProvider(%q) = %q, want %q", in, got, want)
		}
	}
}
