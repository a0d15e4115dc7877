package accurate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Digest selects the encoding of the HMAC output.
type Digest string

const (
	DigestHex    Digest = "hex"
	DigestBase64 Digest = "base64"
)

// StringToSign is the canonical request descriptor that gets signed. Query
// and Body are optional; they join the canonical string only when non-empty.
type StringToSign struct {
	Method    string
	Path      string
	Timestamp string
	Query     string
	Body      string
}

// Canonical renders METHOD:PATH:TIMESTAMP, appending :QUERY and :BODY
// segments when present.
func (s StringToSign) Canonical() string {
	parts := []string{strings.ToUpper(s.Method), s.Path, s.Timestamp}
	if s.Query != "" {
		parts = append(parts, s.Query)
	}
	if s.Body != "" {
		parts = append(parts, s.Body)
	}
	return strings.Join(parts, ":")
}

// Sign computes the HMAC-SHA256 of the canonical string with the shared
// secret, encoded per digest.
func Sign(s StringToSign, secret string, digest Digest) (string, error) {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(s.Canonical()))
	sum := mac.Sum(nil)
	switch digest {
	case DigestHex, "":
		return hex.EncodeToString(sum), nil
	case DigestBase64:
		return base64.StdEncoding.EncodeToString(sum), nil
	default:
		return "", fmt.Errorf("unsupported signature digest %q", digest)
	}
}

// SignTimestamp signs a bare timestamp string and returns base64. The
// sales-invoice save endpoint authenticates this way, with an ISO timestamp
// as the whole signed message.
func SignTimestamp(ts, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// UnixTimestamp returns the current time as unix seconds.
func UnixTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// ISOTimestamp returns the current time in RFC 3339 UTC with milliseconds.
func ISOTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// NormalizeQuery renders query values sorted by key with URL escaping and no
// leading question mark, so the signature is stable regardless of map order.
func NormalizeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
