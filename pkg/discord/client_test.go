package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostEmbeds(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		var got map[string][]map[string]any
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		c := NewClient(time.Second)
		err := c.PostEmbeds(context.Background(), ts.URL, Embed{Title: "hello", Color: 0x40e0d0,
			Description: "desc", Image: &Media{URL: "https://i.redd.it/a.png"}})
		require.NoError(t, err)

		require.Len(t, got["embeds"], 1)
		embed := got["embeds"][0]
		assert.Equal(t, "hello", embed["title"])
		assert.InDelta(t, float64(0x40e0d0), embed["color"], 0)
		assert.Equal(t, map[string]any{"url": "https://i.redd.it/a.png"}, embed["image"])
		_, hasVideo := embed["video"]
		assert.False(t, hasVideo)
	})

	t.Run("200 is rejected for embeds", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := NewClient(time.Second).PostEmbeds(context.Background(), ts.URL, Embed{Title: "x"})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusOK, se.Code)
	})

	t.Run("rejected with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message": "Invalid Form Body"}`))
		}))
		defer ts.Close()

		err := NewClient(time.Second).PostEmbeds(context.Background(), ts.URL, Embed{Title: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
		assert.Contains(t, err.Error(), "Invalid Form Body")
	})

	t.Run("timeout", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		err := NewClient(20*time.Millisecond).PostEmbeds(context.Background(), ts.URL, Embed{Title: "x"})
		require.Error(t, err)
		var se *StatusError
		assert.False(t, errors.As(err, &se))
	})
}

func TestClient_PostFile(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNoContent} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
			file, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "cat.png", hdr.Filename)
			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "png-bytes", string(data))
			w.WriteHeader(code)
		}))

		err := NewClient(time.Second).PostFile(context.Background(), ts.URL, "cat.png", strings.NewReader("png-bytes"))
		require.NoError(t, err, "status %d", code)
		ts.Close()
	}

	t.Run("rejected", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}))
		defer ts.Close()

		err := NewClient(time.Second).PostFile(context.Background(), ts.URL, "big.mp4", strings.NewReader("data"))
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusRequestEntityTooLarge, se.Code)
	})

	t.Run("bad url", func(t *testing.T) {
		err := NewClient(time.Second).PostFile(context.Background(), "http://127.0.0.1:1/nope", "a.png", strings.NewReader("x"))
		require.Error(t, err)
	})
}
