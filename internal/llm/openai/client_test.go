package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomi-hq/hr-service/constants"
)

func chatResponse(t *testing.T, content string) []byte {
	t.Helper()
	out, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	return out
}

func TestExtractMissing(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write(chatResponse(t, `{"job_title":"Welder","base_salary":1500,"date_of_birth":null}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	out, err := c.ExtractMissing(context.Background(), "contract text",
		[]constants.Field{constants.JobTitle, constants.BaseSalary, constants.DateOfBirth})
	require.NoError(t, err)

	// Nulls are omitted; numbers come back as canonical strings.
	require.Equal(t, map[constants.Field]string{
		constants.JobTitle:   "Welder",
		constants.BaseSalary: "1500",
	}, out)

	require.Equal(t, "gpt-4o-mini", gotBody["model"])
	rf, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "json_object", rf["type"])
}

func TestExtractMissingSchemaViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Missing the requested key entirely.
		_, _ = w.Write(chatResponse(t, `{"unrelated":"x"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.ExtractMissing(context.Background(), "text", []constants.Field{constants.JobTitle})
	require.Error(t, err)
}

func TestExtractMissingHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.ExtractMissing(context.Background(), "text", []constants.Field{constants.JobTitle})
	require.Error(t, err)
}

func TestExtractMissingNoDefinedFields(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key", BaseURL: "http://unused.invalid"}, nil)
	out, err := c.ExtractMissing(context.Background(), "text",
		[]constants.Field{constants.InsuranceStatus})
	require.NoError(t, err)
	require.Empty(t, out)
}
