package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/station/internal/config"
)

func testConfig(url string) config.WhatsAppConfig {
	return config.WhatsAppConfig{BaseURL: url + "/", APIVersion: "v20.0", AccessToken: "tok", PhoneNumberID: "12345"}
}

func TestSendText(t *testing.T) {
	var got textMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	id, err := NewClient(testConfig(srv.URL)).SendText(context.Background(), "+224600000000", "hello")
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", id)
	assert.Equal(t, "224600000000", got.To)
	assert.Equal(t, "hello", got.Text.Body)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
}

func TestSendTextAPIError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190,"fbtrace_id":"abc"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).SendText(context.Background(), "1", "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 190, apiErr.Code)
	assert.Equal(t, "abc", apiErr.TraceID)
	assert.False(t, apiErr.Temporary())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendTextRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"try later","code":2}}`))
			return
		}
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
	}))
	defer srv.Close()

	id, err := NewClient(testConfig(srv.URL)).SendText(context.Background(), "1", "x")
	require.NoError(t, err)
	assert.Equal(t, "wamid.2", id)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendTextRejectsEmptyRecipient(t *testing.T) {
	_, err := NewClient(testConfig("http://127.0.0.1:0")).SendText(context.Background(), " ", "x")
	assert.Error(t, err)
}
