package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bobinette/todonet"
	"github.com/bobinette/todonet/errors"
	"github.com/bobinette/todonet/token"
)

// Legacy talks to the endpoint family authenticated with the
// x-auth-token / x-api-key header pair: login, signup and missions.
type Legacy struct {
	baseURL string
	apiKey  string
	client  HTTPClient

	tokens token.Store
}

func NewLegacy(tokens token.Store, c HTTPClient, baseURL, apiKey string) *Legacy {
	if c == nil {
		c = http.DefaultClient
	}

	return &Legacy{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  c,
		tokens:  tokens,
	}
}

// Login exchanges credentials for a bearer token. A transport failure
// yields an empty token, consistent with the gateway's absent-result
// contract; the caller treats it as a failed login.
func (c *Legacy) Login(email, password string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("api key not found", errors.Unauthenticated())
	}

	body := map[string]string{
		"email":    email,
		"password": password,
	}

	res, err := c.post("auth/login", body, map[string]string{"x-api-key": c.apiKey})
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", decodeError(res)
	}

	var resBody struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return "", errors.New("could not decode login response", errors.WithCause(err))
	}

	return resBody.AccessToken, nil
}

// Signup registers a new account and returns its bearer token.
func (c *Legacy) Signup(name, email, password string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("api key not found", errors.Unauthenticated())
	}

	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	res, err := c.post("auth/signup", body, map[string]string{"x-api-key": c.apiKey})
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", decodeError(res)
	}

	var resBody struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return "", errors.New("could not decode signup response", errors.WithCause(err))
	}

	return resBody.AccessToken, nil
}

func (c *Legacy) AddMission(m todonet.Mission) error {
	return c.mission("POST", "missions", m)
}

func (c *Legacy) UpdateMission(id string, m todonet.Mission) error {
	return c.mission("PUT", fmt.Sprintf("missions/%s", id), m)
}

func (c *Legacy) DeleteMission(id string) error {
	return c.mission("DELETE", fmt.Sprintf("missions/%s", id), nil)
}

func (c *Legacy) mission(method, path string, body interface{}) error {
	if c.apiKey == "" {
		return errors.New("api key not found", errors.Unauthenticated())
	}

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

	req, err := http.NewRequest(method, fmt.Sprintf("%s/%s", c.baseURL, path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-auth-token", tok)
	req.Header.Set("x-api-key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		// Same absent-result contract as the bearer client.
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res)
	}

	io.Copy(io.Discard, res.Body)
	return nil
}

func (c *Legacy) post(path string, body interface{}, headers map[string]string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/%s", c.baseURL, path), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, nil
	}

	return res, nil
}
