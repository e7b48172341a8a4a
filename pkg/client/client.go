// Package client implements the publish, view, and edit flows against the
// gateway contract. It is what the pages consume; nothing here talks to the
// database directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quickshare/internal/common"
	"quickshare/internal/document/model"
	"quickshare/pkg/identity"
	"quickshare/pkg/sanitize"
)

// PlaceholderHTML is rendered when a shared link no longer resolves. A dead
// link degrades to this, never to an error page.
const PlaceholderHTML = "<p>This document is not available. It may have expired or the link may be wrong.</p>"

// maxRetries bounds re-attempts on transient gateway failures.
const maxRetries = 3

type Client struct {
	BaseURL  string
	Identity *identity.Store
	HTTP     *http.Client
}

func New(baseURL string, id *identity.Store) *Client {
	return &Client{
		BaseURL:  baseURL,
		Identity: id,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Publish creates a new document owned by this client's credential and
// returns the shareable short id.
func (c *Client) Publish(ctx context.Context, content string) (string, error) {
	secret, err := c.Identity.Credential()
	if err != nil {
		return "", err
	}

	var resp model.CreateResponse
	err = c.post(ctx, "/create", model.CreateRequest{Content: content, CreatorHash: secret}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ShortID, nil
}

// View fetches a document by short id and returns sanitized HTML ready to
// render. Unknown ids and store failures degrade to PlaceholderHTML.
func (c *Client) View(ctx context.Context, shortID string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/doc/"+shortID, nil)
	if err != nil {
		return PlaceholderHTML
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return PlaceholderHTML
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return PlaceholderHTML
	}
	var body model.ContentResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return PlaceholderHTML
	}
	return sanitize.HTML(body.Content)
}

// FetchForEdit returns the raw content for editing, gated on this client's
// credential. The content is not sanitized: the editor needs it verbatim.
func (c *Client) FetchForEdit(ctx context.Context, shortID string) (string, error) {
	secret, err := c.Identity.Credential()
	if err != nil {
		return "", err
	}

	var resp model.ContentResponse
	err = c.post(ctx, "/get", model.FetchRequest{ShortID: shortID, CreatorHash: secret}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Update replaces the document content, proving edit rights with this
// client's credential.
func (c *Client) Update(ctx context.Context, shortID, content string) error {
	secret, err := c.Identity.Credential()
	if err != nil {
		return err
	}

	var resp model.UpdateResponse
	return c.post(ctx, "/update", model.UpdateRequest{ShortID: shortID, CreatorHash: secret, Content: content}, &resp)
}

// post sends a JSON request and decodes a JSON response, retrying transient
// 5xx failures with a short backoff before giving up.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", common.ErrStore, err)
			continue
		}

		if res.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, res.Body)
			res.Body.Close()
			lastErr = fmt.Errorf("%w: gateway returned %d", common.ErrStore, res.StatusCode)
			continue
		}

		defer res.Body.Close()
		if err := statusError(res.StatusCode); err != nil {
			return err
		}
		return json.NewDecoder(res.Body).Decode(out)
	}
	return lastErr
}

// statusError maps terminal gateway statuses back to the error taxonomy.
func statusError(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusBadRequest:
		return common.ErrValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrStore, status)
	}
}
