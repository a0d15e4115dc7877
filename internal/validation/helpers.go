package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// ExtractUserID parses the request body ONCE and extracts user_id, restoring
// the body for the caller. Handles JSON, form and multipart requests.
func ExtractUserID(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	defer r.Body.Close()

	var reqMap map[string]interface{}
	if err := json.Unmarshal(body, &reqMap); err == nil {
		if userID, ok := reqMap["user_id"].(string); ok && userID != "" {
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			return userID, nil
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	} else {
		if err := r.ParseForm(); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))
	return "", fmt.Errorf("user_id not found in request")
}

// ClampLimit parses a limit query value, applying a default and a hard cap.
func ClampLimit(raw string, def, max int) int {
	limit := def
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}

// SplitSearchTerms breaks a free-text query into non-empty whitespace-split
// terms; each term becomes one ILIKE condition.
func SplitSearchTerms(q string) []string {
	var terms []string
	for _, t := range strings.Fields(q) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsYYYYMMDD reports whether s is a plain YYYY-MM-DD date string.
func IsYYYYMMDD(s string) bool {
	return dateRe.MatchString(s)
}

// OnlyDate truncates an ISO timestamp to its YYYY-MM-DD prefix.
func OnlyDate(v string) string {
	s := strings.TrimSpace(v)
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// TrimToNil trims a string pointer target; empty strings become nil so they
// map to SQL NULL.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
