package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeModelJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name     string
		response string
		want     payload
	}{
		{
			name:     "clean JSON",
			response: `{"name": "alpha", "count": 2}`,
			want:     payload{Name: "alpha", Count: 2},
		},
		{
			name:     "json code fence",
			response: "```json\n{\"name\": \"beta\", \"count\": 3}\n```",
			want:     payload{Name: "beta", Count: 3},
		},
		{
			name:     "bare code fence",
			response: "```\n{\"name\": \"gamma\", \"count\": 4}\n```",
			want:     payload{Name: "gamma", Count: 4},
		},
		{
			name:     "prose around the object",
			response: "Sure, here is the result:\n{\"name\": \"delta\", \"count\": 5}\nHope that helps!",
			want:     payload{Name: "delta", Count: 5},
		},
		{
			name:     "trailing commas",
			response: `{"name": "epsilon", "count": 6,}`,
			want:     payload{Name: "epsilon", Count: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			require.NoError(t, decodeModelJSON(tt.response, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeModelJSON_TrailingCommaInArray(t *testing.T) {
	var got struct {
		Items []string `json:"items"`
	}
	require.NoError(t, decodeModelJSON(`{"items": ["a", "b",],}`, &got))
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestDecodeModelJSON_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON at all", "I could not produce an answer."},
		{"empty response", ""},
		{"unclosed object", `{"name": "zeta"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := decodeModelJSON(tt.response, &got)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}
