package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickshare/internal/common"
	"quickshare/internal/document/model"
	"quickshare/pkg/identity"
)

// stubGateway implements the gateway contract in memory so the client flows
// can be tested end to end without a database.
type stubGateway struct {
	mu      sync.Mutex
	docs    map[string]model.Document
	nextID  int
	fail5xx int // remaining requests to fail with 500
}

func newStubGateway() *stubGateway {
	return &stubGateway{docs: make(map[string]model.Document)}
}

func (g *stubGateway) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /create", func(w http.ResponseWriter, r *http.Request) {
		if g.shouldFail(w) {
			return
		}
		var req model.CreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Content == "" || req.CreatorHash == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		g.nextID++
		shortID := fmt.Sprintf("doc%d", g.nextID)
		g.docs[shortID] = model.Document{ShortID: shortID, Content: req.Content, OwnerHash: []byte(req.CreatorHash)}
		g.mu.Unlock()
		json.NewEncoder(w).Encode(model.CreateResponse{ShortID: shortID})
	})

	mux.HandleFunc("GET /doc/{shortID}", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		doc, ok := g.docs[r.PathValue("shortID")]
		g.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(model.ContentResponse{Content: doc.Content})
	})

	mux.HandleFunc("POST /get", func(w http.ResponseWriter, r *http.Request) {
		var req model.FetchRequest
		json.NewDecoder(r.Body).Decode(&req)
		g.mu.Lock()
		doc, ok := g.docs[req.ShortID]
		g.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if string(doc.OwnerHash) != req.CreatorHash {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.ContentResponse{Content: doc.Content})
	})

	mux.HandleFunc("POST /update", func(w http.ResponseWriter, r *http.Request) {
		var req model.UpdateRequest
		json.NewDecoder(r.Body).Decode(&req)
		g.mu.Lock()
		defer g.mu.Unlock()
		doc, ok := g.docs[req.ShortID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if string(doc.OwnerHash) != req.CreatorHash {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		doc.Content = req.Content
		g.docs[req.ShortID] = doc
		json.NewEncoder(w).Encode(model.UpdateResponse{Success: true})
	})

	return mux
}

func (g *stubGateway) shouldFail(w http.ResponseWriter) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail5xx > 0 {
		g.fail5xx--
		w.WriteHeader(http.StatusInternalServerError)
		return true
	}
	return false
}

func newTestClient(t *testing.T) (*Client, *stubGateway) {
	t.Helper()
	gateway := newStubGateway()
	server := httptest.NewServer(gateway.handler())
	t.Cleanup(server.Close)
	return New(server.URL, identity.NewStoreAt(t.TempDir())), gateway
}

func TestPublishEditViewFlow(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	shortID, err := c.Publish(ctx, "<p>hello</p>")
	require.NoError(t, err)
	require.NotEmpty(t, shortID)

	// View renders what was published.
	assert.Equal(t, "<p>hello</p>", c.View(ctx, shortID))

	// Edit flow: fetch, then update.
	content, err := c.FetchForEdit(ctx, shortID)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", content)

	require.NoError(t, c.Update(ctx, shortID, "<p>bye</p>"))
	assert.Equal(t, "<p>bye</p>", c.View(ctx, shortID))
}

func TestViewSanitizesStoredMarkup(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	shortID, err := c.Publish(ctx, `<p>hi</p><script>alert(1)</script>`)
	require.NoError(t, err)

	rendered := c.View(ctx, shortID)
	assert.NotContains(t, rendered, "script")
	assert.Contains(t, rendered, "<p>hi</p>")
}

func TestViewDegradesToPlaceholder(t *testing.T) {
	c, _ := newTestClient(t)

	assert.Equal(t, PlaceholderHTML, c.View(context.Background(), "unknown"))
}

func TestEditFromAnotherClientIsRejected(t *testing.T) {
	gateway := newStubGateway()
	server := httptest.NewServer(gateway.handler())
	t.Cleanup(server.Close)

	owner := New(server.URL, identity.NewStoreAt(t.TempDir()))
	stranger := New(server.URL, identity.NewStoreAt(t.TempDir()))

	shortID, err := owner.Publish(context.Background(), "<p>mine</p>")
	require.NoError(t, err)

	_, err = stranger.FetchForEdit(context.Background(), shortID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	err = stranger.Update(context.Background(), shortID, "<p>stolen</p>")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// Anyone can still view.
	assert.Equal(t, "<p>mine</p>", stranger.View(context.Background(), shortID))
}

func TestPublishRetriesTransientFailures(t *testing.T) {
	c, gateway := newTestClient(t)
	gateway.fail5xx = 2

	shortID, err := c.Publish(context.Background(), "<p>hello</p>")
	require.NoError(t, err)
	assert.NotEmpty(t, shortID)
}

func TestPublishSurfacesStoreErrorAfterRetries(t *testing.T) {
	c, gateway := newTestClient(t)
	gateway.fail5xx = maxRetries

	_, err := c.Publish(context.Background(), "<p>hello</p>")
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestCredentialReusedAcrossDocuments(t *testing.T) {
	c, gateway := newTestClient(t)
	ctx := context.Background()

	first, err := c.Publish(ctx, "<p>one</p>")
	require.NoError(t, err)
	second, err := c.Publish(ctx, "<p>two</p>")
	require.NoError(t, err)

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	assert.Equal(t, gateway.docs[first].OwnerHash, gateway.docs[second].OwnerHash,
		"one client credential owns many documents")
}
