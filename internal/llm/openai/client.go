// Package openai implements the external-model extraction fallback over
// raw chat/completions, one batched request per document.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/llm"
)

// ExtractMissing asks the model for every still-unresolved field in one
// request and returns raw string values keyed by field. Absent and null
// keys are simply omitted from the result; the caller re-types everything.
// Errors here are reported but the pipeline treats them as soft.
func (c *Client) ExtractMissing(ctx context.Context, text string, missing []constants.Field) (map[constants.Field]string, error) {
	rid := uuid.New().String()
	start := time.Now()

	fields := llm.DefinedFields(missing)
	if len(fields) == 0 {
		return map[constants.Field]string{}, nil
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
		"missing", len(fields),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildPrompt(text, fields, c.cfg.MaxTextLen)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	schema := llm.BuildFieldSchema(fields)
	if err := llm.ValidateAgainstSchema(schema, content); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}

	out := make(map[constants.Field]string, len(fields))
	for _, f := range fields {
		v, ok := parsed[string(f)]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				out[f] = s
			}
		case float64:
			// Salaries come back as bare JSON numbers.
			out[f] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"resolved", len(out),
		"requested", len(fields),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
