package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Browser acceptance tests drive a running deployment through headless Chrome.
//
//	ACCEPTANCE_BASE_URL=http://localhost:8080 go test ./tests/integration -run Acceptance
//
// CHROME_REMOTE_URL points at a remote DevTools endpoint instead of a local Chrome.
const acceptanceTimeout = 60 * time.Second

func acceptanceBaseURL(t *testing.T) string {
	t.Helper()

	baseURL := strings.TrimRight(os.Getenv("ACCEPTANCE_BASE_URL"), "/")
	if baseURL == "" {
		t.Skip("ACCEPTANCE_BASE_URL not set, skipping browser acceptance test")
	}
	return baseURL
}

func newBrowser(t *testing.T) context.Context {
	t.Helper()

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if remote := os.Getenv("CHROME_REMOTE_URL"); remote != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), remote)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(t.Logf))
	ctx, cancel := context.WithTimeout(browserCtx, acceptanceTimeout)
	t.Cleanup(func() {
		cancel()
		browserCancel()
		allocCancel()
	})
	return ctx
}

// pageJSON loads url in the browser and decodes the rendered body text
func pageJSON(t *testing.T, ctx context.Context, url string, v any) {
	t.Helper()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	require.NoError(t, err, "Failed to render %s", url)
	require.NoError(t, json.Unmarshal([]byte(text), v), "Page %s is not JSON: %s", url, text)
}

func TestAcceptance_HomePage(t *testing.T) {
	baseURL := acceptanceBaseURL(t)
	ctx := newBrowser(t)

	var index struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Paths   string `json:"paths"`
	}
	pageJSON(t, ctx, baseURL+"/", &index)

	assert.Equal(t, "Customer REST API Service", index.Name)
	assert.Equal(t, "1.0", index.Version)
	assert.True(t, strings.HasSuffix(index.Paths, "/customers"), "unexpected list URL %q", index.Paths)
}

func TestAcceptance_ListShowsCreatedCustomer(t *testing.T) {
	baseURL := acceptanceBaseURL(t)
	ctx := newBrowser(t)

	var index struct {
		Paths string `json:"paths"`
	}
	pageJSON(t, ctx, baseURL+"/", &index)
	require.NotEmpty(t, index.Paths)

	email := fmt.Sprintf("acceptance-%s@example.com", uuid.NewString())
	location := createCustomerOverHTTP(t, index.Paths, map[string]any{
		"name":     "Acceptance",
		"password": "secret",
		"email":    email,
	})
	t.Cleanup(func() {
		req, err := http.NewRequest(http.MethodDelete, location, nil)
		if err != nil {
			return
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			_ = resp.Body.Close()
		}
	})

	var listed []map[string]any
	pageJSON(t, ctx, index.Paths+"?email="+email, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Acceptance", listed[0]["name"])
	assert.Equal(t, false, listed[0]["active"])

	var single map[string]any
	pageJSON(t, ctx, location, &single)
	assert.Equal(t, email, single["email"])
}

func createCustomerOverHTTP(t *testing.T, listURL string, body map[string]any) string {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(listURL, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.NotEmpty(t, location)
	return location
}
