package accurate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"BridgingTomoro/internal/config"
)

// APIError is a non-2xx answer from an Accurate host, body kept verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("accurate returned HTTP %d: %s", e.Status, e.Body)
}

// ErrOffline is returned for every outbound call while OFFLINE_MODE is set.
var ErrOffline = errors.New("offline mode: external calls are disabled")

// Client talks to the Accurate account and data hosts with signed requests.
type Client struct {
	HTTP        *http.Client
	Token       string
	Secret      string
	AccountHost string
	DataHost    string
	Digest      Digest
	SessionID   string
}

// NewClientFromEnv builds a client from ACCURATE_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 60 * time.Second},
		Token:       config.Env("ACCURATE_API_TOKEN", ""),
		Secret:      config.Env("ACCURATE_SIGNATURE_SECRET", ""),
		AccountHost: config.Env("ACCURATE_ACCOUNT_HOST", config.DefaultAccurateAccountHost),
		DataHost:    config.Env("ACCURATE_DATA_HOST", config.DefaultAccurateDataHost),
		Digest:      Digest(config.Env("ACCURATE_SIGNATURE_DIGEST", string(DigestHex))),
	}
}

func (c *Client) ready() error {
	if config.OfflineMode() {
		return ErrOffline
	}
	if c.Token == "" || c.Secret == "" {
		return errors.New("missing ACCURATE_API_TOKEN or ACCURATE_SIGNATURE_SECRET")
	}
	return nil
}

// do signs and executes one request against host+path. form is sent
// urlencoded for POST/PUT, query is appended to the URL and to the signature.
func (c *Client) do(ctx context.Context, method, host, path string, query url.Values, form url.Values) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	ts := UnixTimestamp()
	sts := StringToSign{
		Method:    method,
		Path:      path,
		Timestamp: ts,
		Query:     NormalizeQuery(query),
	}
	sig, err := Sign(sts, c.Secret, c.Digest)
	if err != nil {
		return nil, err
	}

	target := host + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if len(form) > 0 && (method == http.MethodPost || method == http.MethodPut) {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Api-Timestamp", ts)
	req.Header.Set("X-Api-Signature", sig)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.SessionID != "" {
		req.Header.Set("X-Session-ID", c.SessionID)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accurate unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// Database is one entry in the account-host database list.
type Database struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
}

// DBListResult is the answer of /api/db-list.do.
type DBListResult struct {
	Success bool       `json:"s"`
	Data    []Database `json:"d"`
}

// DBList fetches the databases the token can open.
func (c *Client) DBList(ctx context.Context) (DBListResult, error) {
	var out DBListResult
	raw, err := c.do(ctx, http.MethodGet, c.AccountHost, "/api/db-list.do", nil, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode db-list response: %w", err)
	}
	return out, nil
}

// OpenDBResult is the answer of /api/open-db.do. Session and Host are what
// later data-host calls need.
type OpenDBResult struct {
	Success bool   `json:"s"`
	Session string `json:"session"`
	Host    string `json:"host"`
}

// OpenDB opens a database by id and remembers its session for data calls.
func (c *Client) OpenDB(ctx context.Context, id string) (OpenDBResult, error) {
	var out OpenDBResult
	q := url.Values{}
	q.Set("id", id)
	raw, err := c.do(ctx, http.MethodGet, c.AccountHost, "/api/open-db.do", q, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode open-db response: %w", err)
	}
	if out.Session != "" {
		c.SessionID = out.Session
	}
	if out.Host != "" {
		c.DataHost = out.Host
	}
	return out, nil
}

// ItemPage is one page of /accurate/api/item/list.do.
type ItemPage struct {
	Success bool `json:"s"`
	Data    []struct {
		ID   int64  `json:"id"`
		No   string `json:"no"`
		Name string `json:"name"`
	} `json:"d"`
	Page struct {
		Page      int `json:"page"`
		PageCount int `json:"pageCount"`
	} `json:"sp"`
}

// ListItems fetches one page of the item master from the data host.
func (c *Client) ListItems(ctx context.Context, page, pageSize int) (ItemPage, error) {
	var out ItemPage
	q := url.Values{}
	q.Set("sp.page", fmt.Sprint(page))
	q.Set("sp.pageSize", fmt.Sprint(pageSize))
	q.Set("fields", "id,no,name")
	raw, err := c.do(ctx, http.MethodGet, c.DataHost, "/accurate/api/item/list.do", q, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode item list response: %w", err)
	}
	return out, nil
}

// SaveSalesInvoice posts a validated invoice to sales-invoice/save.do. This
// endpoint signs the ISO timestamp itself rather than the canonical request.
func (c *Client) SaveSalesInvoice(ctx context.Context, inv SalesInvoice) (json.RawMessage, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	ts := ISOTimestamp()
	form := inv.Form()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.DataHost+"/accurate/api/sales-invoice/save.do", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Api-Timestamp", ts)
	req.Header.Set("X-Api-Signature", SignTimestamp(ts, c.Secret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accurate unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}
