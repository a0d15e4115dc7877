package faktur

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"BridgingTomoro/internal/ingest"
)

// ForwardResult carries the webhook's verdict back to the handler. Data is the
// decoded JSON body when the webhook returned one, Raw is the body verbatim
// for error reporting.
type ForwardResult struct {
	OK     bool
	Status int
	Data   json.RawMessage
	Raw    string
}

// ForwardPayload POSTs the built submission payload to the webhook and reads
// back its response. A non-2xx status is not an error here: the caller gets
// the status and body and decides how to surface them.
func ForwardPayload(ctx context.Context, client *http.Client, url string, payload ingest.SubmissionPayload) (ForwardResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ForwardResult{}, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("failed to read webhook response: %w", err)
	}

	result := ForwardResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Raw:    string(raw),
	}
	if json.Valid(raw) {
		result.Data = json.RawMessage(raw)
	}
	return result, nil
}
