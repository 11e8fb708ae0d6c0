package receiver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/pipeline-notify/blocks"
)

func TestServer_Notification_AcceptsPayload(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	server := NewServer(zap.New(core))

	body := []byte(`{"blocks":[{"type":"header","text":{"type":"plain_text","text":"Nightly Import"}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(server.received))

	entries := logs.FilterMessage("notification received").All()
	require.Len(t, entries, 1)
	require.Equal(t, "Nightly Import", entries[0].ContextMap()["summary"])
}

func TestServer_Notification_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	server := NewServer(zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid JSON")
	require.Equal(t, float64(1), testutil.ToFloat64(server.rejected))
}

func TestServer_Notification_RejectsEmptyBlocks(t *testing.T) {
	t.Parallel()

	server := NewServer(zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"blocks":[]}`))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "no blocks")
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	server := NewServer(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestServer_Metrics_Exposition(t *testing.T) {
	t.Parallel()

	server := NewServer(zap.NewNop())

	body := []byte(`{"blocks":[{"type":"section","text":{"type":"mrkdwn","text":"hello"}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	server.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "receiver_payloads_received_total 1")
}

func TestRequestIDMiddlewareSetsHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	NewServer(zap.NewNop()).Handler().ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	p := blocks.Payload{Blocks: []blocks.Block{
		blocks.Header("Nightly Import"),
		blocks.Section("✅ *SUCCESS*\nimport finished"),
		{Type: blocks.TypeSection, Fields: []blocks.Text{
			blocks.Mrkdwn("*step:*\n4"),
		}},
		blocks.Context("System: etl | Sent at: 2025-03-02 10:00:00"),
	}}

	want := "Nightly Import\n" +
		"✅ *SUCCESS*\nimport finished\n" +
		"*step:*\n4\n" +
		"System: etl | Sent at: 2025-03-02 10:00:00"
	require.Equal(t, want, flatten(p))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload blocks.Payload
		want    string
	}{
		{
			name: "header preferred",
			payload: blocks.Payload{Blocks: []blocks.Block{
				blocks.Section("body"),
				blocks.Header("Nightly Import"),
			}},
			want: "Nightly Import",
		},
		{
			name: "section first line",
			payload: blocks.Payload{Blocks: []blocks.Block{
				blocks.Section("✅ *SUCCESS*\nimport finished"),
			}},
			want: "✅ *SUCCESS*",
		},
		{
			name:    "empty payload",
			payload: blocks.Payload{},
			want:    "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, summarize(tt.payload))
		})
	}
}
