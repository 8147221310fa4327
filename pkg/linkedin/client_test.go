package linkedin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_MissingCredentials(t *testing.T) {
	client := NewClient(Config{})

	result := client.Publish(t.Context(), "hello", nil)

	assert.False(t, result.Success)
	assert.Equal(t, "missing LinkedIn credentials", result.Error)
}

func TestPublish_TextOnly(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ugcPosts", r.URL.Path)
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:42"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		AccessToken: "token-123",
		UserURN:     "urn:li:person:abc",
		BaseURL:     server.URL,
	})

	result := client.Publish(t.Context(), "plain **bold** text", nil)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "urn:li:share:42", result.ID)

	assert.Equal(t, "urn:li:person:abc", captured["author"])
	assert.Equal(t, "PUBLISHED", captured["lifecycleState"])

	specific := captured["specificContent"].(map[string]any)
	share := specific["com.linkedin.ugc.ShareContent"].(map[string]any)
	assert.Equal(t, "NONE", share["shareMediaCategory"])

	commentary := share["shareCommentary"].(map[string]any)
	// Markdown emphasis must be converted before sending
	assert.NotContains(t, commentary["text"], "*")
}

func TestPublish_APIErrorPropagatesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"duplicate post"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		AccessToken: "token-123",
		UserURN:     "urn:li:person:abc",
		BaseURL:     server.URL,
	})

	result := client.Publish(t.Context(), "text", nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "duplicate post")
}

func TestPublish_ImageFailureDegradesToTextOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assets", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		specific := payload["specificContent"].(map[string]any)
		share := specific["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "NONE", share["shareMediaCategory"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:43"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Config{
		AccessToken: "token-123",
		UserURN:     "urn:li:person:abc",
		BaseURL:     server.URL,
	})

	imageURL := server.URL + "/some-image.jpg"
	result := client.Publish(t.Context(), "text with image", &imageURL)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "urn:li:share:43", result.ID)
}

func TestPublish_WithImageUpload(t *testing.T) {
	mux := http.NewServeMux()

	var uploaded []byte

	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/assets", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "registerUpload", r.URL.Query().Get("action"))

		resp := map[string]any{
			"value": map[string]any{
				"asset": "urn:li:digitalmediaAsset:img1",
				"uploadMechanism": map[string]any{
					"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest": map[string]any{
						"uploadUrl": server.URL + "/upload-slot",
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/image.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	mux.HandleFunc("/upload-slot", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)

		body := make([]byte, 32)
		n, _ := r.Body.Read(body)
		uploaded = body[:n]

		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		specific := payload["specificContent"].(map[string]any)
		share := specific["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "IMAGE", share["shareMediaCategory"])

		media := share["media"].([]any)
		require.Len(t, media, 1)
		assert.Equal(t, "urn:li:digitalmediaAsset:img1", media[0].(map[string]any)["media"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:44"}`))
	})

	client := NewClient(Config{
		AccessToken: "token-123",
		UserURN:     "urn:li:person:abc",
		BaseURL:     server.URL,
	})

	imageURL := server.URL + "/image.jpg"
	result := client.Publish(t.Context(), "post with image", &imageURL)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "urn:li:share:44", result.ID)
	assert.Equal(t, "jpeg-bytes", string(uploaded))
}

func TestValidateToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			w.WriteHeader(http.StatusOK)

			return
		}

		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	good := NewClient(Config{AccessToken: "good", BaseURL: server.URL})
	assert.True(t, good.ValidateToken(t.Context()))

	bad := NewClient(Config{AccessToken: "bad", BaseURL: server.URL})
	assert.False(t, bad.ValidateToken(t.Context()))

	none := NewClient(Config{BaseURL: server.URL})
	assert.False(t, none.ValidateToken(t.Context()))
}
