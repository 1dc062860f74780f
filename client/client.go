// Package client issues authenticated JSON requests to the todo backend.
//
// Two authentication schemes coexist because the backend expects them:
// the generic CRUD surface (lists, tasks, memberships, users) wants a
// bearer token, while the legacy surface (login, signup, missions) wants
// an x-auth-token / x-api-key header pair. Client covers the former,
// Legacy the latter.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/token"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the bearer-token CRUD surface. Every call fails fast
// with an unauthenticated error when no credential is stored, before any
// network traffic.
type Client struct {
	baseURL string
	client  HTTPClient

	tokens token.Store
}

func New(tokens token.Store, c HTTPClient, baseURL string) *Client {
	if c == nil {
		c = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  c,
		tokens:  tokens,
	}
}

func (c *Client) Get(path string, v interface{}) error {
	return c.do("GET", path, nil, v)
}

func (c *Client) Create(path string, body, v interface{}) error {
	return c.do("POST", path, body, v)
}

// Update issues a PUT. The backend distinguishes full replacement from
// the partial Patch below.
func (c *Client) Update(path string, body, v interface{}) error {
	return c.do("PUT", path, body, v)
}

func (c *Client) Patch(path string, body, v interface{}) error {
	return c.do("PATCH", path, body, v)
}

func (c *Client) Remove(path string) error {
	return c.do("DELETE", path, nil, nil)
}

func (c *Client) do(method, path string, body, v interface{}) error {
	tok, err := c.tokens.Read()
	if err != nil {
		return err
	}
	if tok == "" {
		return errors.New("access token not found", errors.Unauthenticated())
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/")), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))

	res, err := c.client.Do(req)
	if err != nil {
		// Transport failures yield an absent result, not an error. The
		// UI treats missing data as tolerable; it cannot distinguish
		// "network down" from "nothing there".
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res)
	}

	if v == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil && err != io.EOF {
		return errors.New("could not decode response", errors.WithCause(err))
	}
	return nil
}

func decodeError(res *http.Response) error {
	var callErr struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&callErr); err == nil && callErr.Message != "" {
		return errors.New(callErr.Message, errors.WithCode(res.StatusCode))
	}

	return errors.New(
		fmt.Sprintf("request failed with status %d", res.StatusCode),
		errors.WithCode(res.StatusCode),
	)
}
