package commentary

import (
	"context"
	"reflect"
	"testing"
)

func TestNewProviderSelection(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		wantNil   bool
		wantType  string
		providers []string
	}{
		{name: "no keys", settings: Settings{}, wantNil: true},
		{name: "gemini only", settings: Settings{GeminiAPIKey: "g"}, wantType: "*commentary.geminiClient", providers: []string{"gemini"}},
		{name: "anthropic only", settings: Settings{AnthropicAPIKey: "a"}, wantType: "*commentary.anthropicClient", providers: []string{"anthropic"}},
		{name: "both", settings: Settings{GeminiAPIKey: "g", AnthropicAPIKey: "a"}, wantType: "*commentary.fallbackProvider", providers: []string{"gemini", "anthropic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.settings, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantNil {
				if p != nil {
					t.Fatalf("expected nil provider, got %T", p)
				}
				return
			}
			if got := reflect.TypeOf(p).String(); got != tt.wantType {
				t.Fatalf("expected %s, got %s", tt.wantType, got)
			}
			if got := tt.settings.Providers(); !reflect.DeepEqual(got, tt.providers) {
				t.Fatalf("expected providers %v, got %v", tt.providers, got)
			}
		})
	}
}
