package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Behyna/sms-scheduler/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer reports back what it received in X-Seen-* headers.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Seen-Accept", r.Header.Get("Accept"))
		w.Header().Set("X-Seen-Method", r.Method)
		w.Header().Set("X-Seen-Body", string(body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHttpClient_Requests(t *testing.T) {
	server := echoServer(t)
	client := httpclient.NewHTTPClient(5 * time.Second)
	ctx := context.Background()
	accept := map[string]string{"Accept": "application/json"}

	testCases := []struct {
		name   string
		send   func() (*http.Response, error)
		method string
		accept string
		body   string
	}{
		{
			name:   "get with headers",
			send:   func() (*http.Response, error) { return client.Get(ctx, server.URL+"/api/messages/", accept) },
			method: http.MethodGet,
			accept: "application/json",
		},
		{
			name: "post with body",
			send: func() (*http.Response, error) {
				return client.Post(ctx, server.URL+"/api/messages/", strings.NewReader(`{"body":"hi"}`), nil)
			},
			method: http.MethodPost,
			body:   `{"body":"hi"}`,
		},
		{
			name: "prepared request",
			send: func() (*http.Response, error) {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/health/", nil)
				require.NoError(t, err)
				return client.Do(req)
			},
			method: http.MethodGet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.send()
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.method, resp.Header.Get("X-Seen-Method"))
			assert.Equal(t, tc.accept, resp.Header.Get("X-Seen-Accept"))
			assert.Equal(t, tc.body, resp.Header.Get("X-Seen-Body"))

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))
		})
	}
}

func TestHttpClient_RateLimitHonoursContext(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(5*time.Second, httpclient.WithRateLimit(0.1, 1))

	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Get(ctx, server.URL, nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHttpClient_ZeroRateIsUnlimited(t *testing.T) {
	server := echoServer(t)
	client := httpclient.NewHTTPClient(5*time.Second, httpclient.WithRateLimit(0, 0))

	for i := 0; i < 5; i++ {
		resp, err := client.Get(context.Background(), server.URL+"/api/health/", nil)
		require.NoError(t, err)
		resp.Body.Close()
	}
}
