package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	ctx := context.Background()

	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer srv.Close()

	tg := NewTelegram("token123", srv.URL, zerolog.Nop())

	require.NoError(t, tg.SendText(ctx, 42, "hello"))
	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
}

func TestSendText_APIError(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "chat not found"})
	}))
	defer srv.Close()

	tg := NewTelegram("token123", srv.URL, zerolog.Nop())

	err := tg.SendText(ctx, 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendFile(t *testing.T) {
	ctx := context.Background()

	docPath := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(docPath, []byte("zip-bytes"), 0o644))

	var gotPath, gotChatID, gotCaption, gotFilename string
	var gotContent []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer srv.Close()

	tg := NewTelegram("token123", srv.URL, zerolog.Nop())

	require.NoError(t, tg.SendFile(ctx, 42, docPath, "your bundle"))
	assert.Equal(t, "/bottoken123/sendDocument", gotPath)
	assert.Equal(t, "42", gotChatID)
	assert.Equal(t, "your bundle", gotCaption)
	assert.Equal(t, "bundle.zip", gotFilename)
	assert.Equal(t, []byte("zip-bytes"), gotContent)
}

func TestSendFile_MissingFile(t *testing.T) {
	ctx := context.Background()
	tg := NewTelegram("token123", "http://127.0.0.1:1", zerolog.Nop())

	err := tg.SendFile(ctx, 42, "/no/such/file.zip", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open document")
}
