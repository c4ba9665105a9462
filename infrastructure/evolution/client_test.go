package evolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		InstanceName: "main",
	})
	return client, srv
}

func TestSendTextSuccess(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotPayload map[string]string

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":{"id":"EVO-42"},"status":"PENDING"}`))
	}))
	defer srv.Close()

	result := client.SendText(context.Background(), "5511987654321", "bom dia")

	assert.True(t, result.Success)
	assert.Equal(t, "EVO-42", result.MessageID)
	assert.Equal(t, "/message/sendText/main", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "5511987654321", gotPayload["number"])
	assert.Equal(t, "bom dia", gotPayload["text"])
}

func TestSendTextGatewayError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"number not on whatsapp"}`))
	}))
	defer srv.Close()

	result := client.SendText(context.Background(), "5511987654321", "bom dia")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "HTTP 400")
	assert.Contains(t, result.Error, "number not on whatsapp")
}

func TestSendTextUnreachableGateway(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before the call: connection refused

	result := client.SendText(context.Background(), "5511987654321", "bom dia")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestSendMediaUploadsFile(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "promo.jpg")
	require.NoError(t, os.WriteFile(mediaPath, []byte("fake-jpeg-bytes"), 0o644))

	var gotNumber, gotCaption, gotFileField string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotNumber = r.FormValue("number")
		gotCaption = r.FormValue("caption")
		for field := range r.MultipartForm.File {
			gotFileField = field
		}
		_, _ = w.Write([]byte(`{"key":{"id":"EVO-media"}}`))
	}))
	defer srv.Close()

	result := client.SendMedia(context.Background(), "5511987654321", "novidade", mediaPath, domain.MediaImage)

	assert.True(t, result.Success)
	assert.Equal(t, "EVO-media", result.MessageID)
	assert.Equal(t, "5511987654321", gotNumber)
	assert.Equal(t, "novidade", gotCaption)
	assert.Equal(t, "image", gotFileField)
}

func TestSendMediaAudioDropsCaption(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "note.ogg")
	require.NoError(t, os.WriteFile(mediaPath, []byte("fake-ogg"), 0o644))

	var gotCaption string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotCaption = r.FormValue("caption")
		_, _ = w.Write([]byte(`{"key":{"id":"EVO-audio"}}`))
	}))
	defer srv.Close()

	result := client.SendMedia(context.Background(), "5511987654321", "ignored", mediaPath, domain.MediaAudio)

	assert.True(t, result.Success)
	assert.Empty(t, gotCaption, "audio messages carry no caption")
}

func TestSendMediaMissingFileNeverHitsGateway(t *testing.T) {
	called := false
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	result := client.SendMedia(context.Background(), "5511987654321", "", "/nonexistent/file.pdf", domain.MediaDocument)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "media file not found")
	assert.False(t, called)
}

func TestCheckConnection(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance/connectionState/main", r.URL.Path)
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"main","state":"open"}}`))
	}))
	defer srv.Close()

	state, err := client.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", state.Instance)
	assert.Equal(t, "open", state.State)
}

func TestExtractMessageIDFallback(t *testing.T) {
	assert.Equal(t, "abc", extractMessageID([]byte(`{"key":{"id":"abc"}}`)))
	assert.Equal(t, "xyz", extractMessageID([]byte(`{"messageId":"xyz"}`)))
	assert.Empty(t, extractMessageID([]byte(`not json`)))
}
