// Package client provides a Go client library for the kubesim API server.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// Client communicates with the kubesim API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new kubesim API client pointing at the given base URL
// (e.g. "http://localhost:7117").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// collectionPath builds the URL path addressing a (namespace, kind)
// collection. Built-in kinds live under /api/v1; custom "group/version/Kind"
// strings under /apis/{group}/{version}. An empty namespace addresses
// cluster scope.
func collectionPath(namespace, kind string) string {
	root := "/api/v1"
	if parts := strings.SplitN(kind, "/", 3); len(parts) == 3 {
		root = fmt.Sprintf("/apis/%s/%s", parts[0], parts[1])
		kind = parts[2]
	}
	if namespace == "" {
		return fmt.Sprintf("%s/cluster/%s", root, kind)
	}
	return fmt.Sprintf("%s/namespaces/%s/%s", root, namespace, kind)
}

// doRequest builds and executes an HTTP request.
// If body is non-nil it is JSON-encoded and sent as the request body.
func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// doJSON executes a request, checks for a 2xx status, and JSON-decodes the
// response body into target (when target is non-nil). Non-2xx responses are
// translated back into StatusErrors, so apierrors.IsNotFound and IsConflict
// work against the client exactly as against the cluster.
func (c *Client) doJSON(method, path string, body interface{}, target interface{}) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		message := string(respBody)
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return apierrors.FromCode(resp.StatusCode, message)
	}

	if target != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// decodeObject decodes raw JSON into the concrete type for kind.
func decodeObject(raw json.RawMessage, kind string) (v1.Object, error) {
	obj := v1.New(kind)
	if err := json.Unmarshal(raw, obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return obj, nil
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

// Healthz checks whether the API server is healthy.
func (c *Client) Healthz() error {
	resp, err := c.doRequest(http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("healthz failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

// Create stores a new resource of the given kind. An empty namespace
// addresses cluster scope.
func (c *Client) Create(namespace, kind string, obj v1.Object) (v1.Object, error) {
	var raw json.RawMessage
	if err := c.doJSON(http.MethodPost, collectionPath(namespace, kind), obj, &raw); err != nil {
		return nil, err
	}
	return decodeObject(raw, kind)
}

// Get retrieves a resource by name.
func (c *Client) Get(namespace, kind, name string) (v1.Object, error) {
	var raw json.RawMessage
	path := collectionPath(namespace, kind) + "/" + name
	if err := c.doJSON(http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeObject(raw, kind)
}

// List returns all resources of one kind in one scope, optionally filtered
// by an equality label selector such as "app=web,tier=frontend".
func (c *Client) List(namespace, kind, selector string) ([]v1.Object, error) {
	path := collectionPath(namespace, kind)
	if selector != "" {
		query := url.Values{"labelSelector": []string{selector}}
		path += "?" + query.Encode()
	}

	var raws []json.RawMessage
	if err := c.doJSON(http.MethodGet, path, nil, &raws); err != nil {
		return nil, err
	}

	items := make([]v1.Object, 0, len(raws))
	for _, raw := range raws {
		obj, err := decodeObject(raw, kind)
		if err != nil {
			return nil, err
		}
		items = append(items, obj)
	}
	return items, nil
}

// Update replaces an existing resource by name.
func (c *Client) Update(namespace, kind, name string, obj v1.Object) (v1.Object, error) {
	var raw json.RawMessage
	path := collectionPath(namespace, kind) + "/" + name
	if err := c.doJSON(http.MethodPut, path, obj, &raw); err != nil {
		return nil, err
	}
	return decodeObject(raw, kind)
}

// Delete removes a resource by name, cascading to owned dependents.
func (c *Client) Delete(namespace, kind, name string) error {
	path := collectionPath(namespace, kind) + "/" + name
	return c.doJSON(http.MethodDelete, path, nil, nil)
}

// Apply sends a resource to the server's apply endpoint, which performs a
// create-or-update operation.
func (c *Client) Apply(namespace, kind string, obj v1.Object) (v1.Object, error) {
	envelope := map[string]interface{}{
		"namespace": namespace,
		"kind":      kind,
		"object":    obj,
	}
	var raw json.RawMessage
	if err := c.doJSON(http.MethodPost, "/api/v1/apply", envelope, &raw); err != nil {
		return nil, err
	}
	return decodeObject(raw, kind)
}

// ---------------------------------------------------------------------------
// Cluster introspection
// ---------------------------------------------------------------------------

// Namespaces returns the sorted names of all known namespaces.
func (c *Client) Namespaces() ([]string, error) {
	var out []string
	if err := c.doJSON(http.MethodGet, "/api/v1/namespaces", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Events returns the retained lifecycle events, oldest first.
func (c *Client) Events() ([]v1.Event, error) {
	var out []v1.Event
	if err := c.doJSON(http.MethodGet, "/api/v1/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset discards all server-side resources and events.
func (c *Client) Reset() error {
	return c.doJSON(http.MethodPost, "/api/v1/reset", nil, nil)
}
