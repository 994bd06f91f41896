package lspclient

import (
	"testing"

	"github.com/Camilotk/lspclient/protocol"
)

func TestMatchesSelector(t *testing.T) {
	tests := []struct {
		name       string
		selector   protocol.DocumentSelector
		uri        protocol.DocumentURI
		languageID string
		want       bool
	}{
		{
			name:       "language match",
			selector:   protocol.DocumentSelector{{Language: "go"}},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       true,
		},
		{
			name:       "language mismatch",
			selector:   protocol.DocumentSelector{{Language: "go"}},
			uri:        "file:///src/main.py",
			languageID: "python",
			want:       false,
		},
		{
			name:       "scheme match",
			selector:   protocol.DocumentSelector{{Scheme: "file"}},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       true,
		},
		{
			name:       "scheme mismatch",
			selector:   protocol.DocumentSelector{{Scheme: "file"}},
			uri:        "untitled:Untitled-1",
			languageID: "go",
			want:       false,
		},
		{
			name:       "glob pattern match",
			selector:   protocol.DocumentSelector{{Pattern: "**/*.go"}},
			uri:        "file:///src/pkg/main.go",
			languageID: "go",
			want:       true,
		},
		{
			name:       "glob pattern mismatch",
			selector:   protocol.DocumentSelector{{Pattern: "**/*.go"}},
			uri:        "file:///src/pkg/main.rs",
			languageID: "rust",
			want:       false,
		},
		{
			name:       "all axes must hold",
			selector:   protocol.DocumentSelector{{Language: "go", Scheme: "file", Pattern: "**/*_test.go"}},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       false,
		},
		{
			name: "any filter suffices",
			selector: protocol.DocumentSelector{
				{Language: "rust"},
				{Language: "go"},
			},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       true,
		},
		{
			name:       "empty filter matches nothing",
			selector:   protocol.DocumentSelector{{}},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       false,
		},
		{
			name:       "empty selector matches nothing",
			selector:   protocol.DocumentSelector{},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       false,
		},
		{
			name:       "invalid glob matches nothing",
			selector:   protocol.DocumentSelector{{Pattern: "[unclosed"}},
			uri:        "file:///src/main.go",
			languageID: "go",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesSelector(tt.selector, tt.uri, tt.languageID)
			if got != tt.want {
				t.Errorf("MatchesSelector(%v, %q, %q) = %v, want %v",
					tt.selector, tt.uri, tt.languageID, got, tt.want)
			}
		})
	}
}
