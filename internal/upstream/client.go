// Package upstream implements the HTTP client for the Phoenix API, the
// REST service that owns all user data. Every method performs exactly one
// round trip and translates transport, decoding and server failures into
// the typed errors of pkg/errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"phoenix-web/internal/config"
	"phoenix-web/internal/domain/user"
	"phoenix-web/pkg/errors"
)

// API defines the operations the web layer needs from the Phoenix service.
type API interface {
	GetUser(ctx context.Context, id int64) (user.User, error)
	ListUsers(ctx context.Context, filters map[string]string) ([]user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

// requestTimeout is fixed per call, not configurable per request.
const requestTimeout = 30 * time.Second

// listFilterKeys is the set of query keys the Phoenix list endpoint
// understands. Anything else is dropped before the request is built.
var listFilterKeys = []string{
	"first_name", "last_name", "gender",
	"birthdate_from", "birthdate_to",
	"sort", "order",
}

// envelope is the {"data": ...} wrapper the Phoenix API uses for both
// single objects and arrays.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Client is the Phoenix API client. The zero value is not usable; build
// one with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a Phoenix API client from injected configuration.
func NewClient(cfg config.PhoenixConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// GetUser fetches a single user. A 200 response whose data envelope is
// missing or empty means the user does not exist.
func (c *Client) GetUser(ctx context.Context, id int64) (user.User, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		return user.User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("get user failed", zap.Int64("id", id), zap.Int("status", resp.StatusCode))
		return user.User{}, errors.NewStatusError(resp.StatusCode)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return user.User{}, err
	}
	if emptyData(env.Data) {
		c.log.Warn("user not found", zap.Int64("id", id))
		return user.User{}, errors.NewNotFoundError(id)
	}

	return decodeUser(env.Data)
}

// ListUsers fetches users matching the given filter map. Only the keys the
// Phoenix list endpoint understands are forwarded; absent and empty values
// are dropped, so passing an already-cleaned map yields the same query.
func (c *Client) ListUsers(ctx context.Context, filters map[string]string) ([]user.User, error) {
	path := "/users"
	if qs := buildQuery(filters); qs != "" {
		path += "?" + qs
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("list users failed", zap.Int("status", resp.StatusCode))
		return nil, errors.NewStatusError(resp.StatusCode)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}
	// a literal null data field is as absent as a missing key
	if env.Data == nil || string(bytes.TrimSpace(env.Data)) == "null" {
		return nil, errors.NewFormatError()
	}

	var payloads []payload
	if err := json.Unmarshal(env.Data, &payloads); err != nil {
		// data present but not an array
		return nil, errors.NewFormatError()
	}

	users := make([]user.User, len(payloads))
	for i, p := range payloads {
		u, err := p.toDomain()
		if err != nil {
			// one malformed element aborts the whole call, no partial results
			return nil, errors.NewTransportError(err)
		}
		users[i] = u
	}

	return users, nil
}

// Create submits a new user. The record's sentinel id 0 is dropped from
// the outgoing payload; the returned record carries the server-assigned id.
func (c *Client) Create(ctx context.Context, u user.User) (user.User, error) {
	body := payloadFrom(u)
	body.ID = 0 // never send an id on create

	resp, err := c.do(ctx, http.MethodPost, "/users", &body)
	if err != nil {
		return user.User{}, err
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		c.log.Warn("create user failed", zap.Int("status", resp.StatusCode))
		return user.User{}, errors.NewStatusError(resp.StatusCode)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return user.User{}, err
	}
	if emptyData(env.Data) {
		return user.User{}, errors.NewFormatError()
	}

	return decodeUser(env.Data)
}

// Update submits the full wire form of the record, id included, to
// PUT /users/{id}.
func (c *Client) Update(ctx context.Context, u user.User) (user.User, error) {
	body := payloadFrom(u)

	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", u.ID), &body)
	if err != nil {
		return user.User{}, err
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		c.log.Warn("update user failed", zap.Int64("id", u.ID), zap.Int("status", resp.StatusCode))
		return user.User{}, errors.NewStatusError(resp.StatusCode)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return user.User{}, err
	}
	if emptyData(env.Data) {
		return user.User{}, errors.NewFormatError()
	}

	return decodeUser(env.Data)
}

// Delete removes a user. The caller decides whether an upstream failure is
// fatal; the client only distinguishes success from failure.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		c.log.Warn("delete user failed", zap.Int64("id", id), zap.Int("status", resp.StatusCode))
		return errors.NewStatusError(resp.StatusCode)
	}

	return nil
}

// do performs one round trip. A non-nil body is JSON-encoded and sent with
// Content-Type: application/json; every request sends Accept.
func (c *Client) do(ctx context.Context, method, path string, body *payload) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewTransportError(err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.NewTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("phoenix request", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("phoenix request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, errors.NewTransportError(err)
	}

	return resp, nil
}

// successStatus reports whether a write call succeeded. Phoenix answers
// 200 or 201 on create/update and 204 on delete.
func successStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// buildQuery keeps recognized, non-empty filters and URL-encodes them.
func buildQuery(filters map[string]string) string {
	values := url.Values{}
	for _, key := range listFilterKeys {
		if v := filters[key]; v != "" {
			values.Set(key, v)
		}
	}
	return values.Encode()
}

// decodeEnvelope reads and decodes the response body. A body that is not
// valid JSON is a decoding failure, not a format error.
func decodeEnvelope(resp *http.Response) (envelope, error) {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, errors.NewTransportError(err)
	}
	return env, nil
}

// decodeUser unmarshals a single user object from the data envelope.
func decodeUser(data json.RawMessage) (user.User, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return user.User{}, errors.NewTransportError(err)
	}
	u, err := p.toDomain()
	if err != nil {
		return user.User{}, errors.NewTransportError(err)
	}
	return u, nil
}

// emptyData reports whether the data field is absent or an empty value.
// The check is shape-based: whitespace inside an empty object or array does
// not make it non-empty.
func emptyData(data json.RawMessage) bool {
	switch string(bytes.TrimSpace(data)) {
	case "", "null", `""`:
		return true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		return len(obj) == 0
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return len(arr) == 0
	}
	return false
}
