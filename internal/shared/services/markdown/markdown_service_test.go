package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "emphasis and lists",
			input:    "The light is **off**.\n\n- lobby\n- stairwell",
			contains: []string{"<strong>off</strong>", "<li>lobby</li>"},
		},
		{
			name:        "script is stripped",
			input:       "hello <script>alert(1)</script>",
			contains:    []string{"hello"},
			notContains: []string{"<script>", "alert(1)"},
		},
		{
			name:        "images are dropped",
			input:       "![pixel](https://tracker.example.com/p.gif)",
			notContains: []string{"<img", "p.gif"},
		},
		{
			name:     "links are nofollow",
			input:    "see https://intranet.example.com/policy",
			contains: []string{"nofollow", `href="https://intranet.example.com/policy"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}
