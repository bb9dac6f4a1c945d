package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentpay/pkg/recorder"
)

// fakeDrive 模拟 Drive API
type fakeDrive struct {
	mu          sync.Mutex
	uploads     []uploaded
	permissions []string
	deleted     []string
	uploadCode  int
	shareCode   int
	query       map[string]string
}

type uploaded struct {
	Metadata    map[string]interface{}
	ContentType string
	Content     string
}

func (f *fakeDrive) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload/drive/v3/files":
			f.query = map[string]string{
				"uploadType":        r.URL.Query().Get("uploadType"),
				"supportsAllDrives": r.URL.Query().Get("supportsAllDrives"),
			}
			if f.uploadCode != 0 {
				w.WriteHeader(f.uploadCode)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Insufficient permissions","status":"PERMISSION_DENIED"}}`)
				return
			}
			f.uploads = append(f.uploads, readRelated(t, r))
			_, _ = io.WriteString(w, `{"id":"file-42"}`)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/permissions"):
			if f.shareCode != 0 {
				w.WriteHeader(f.shareCode)
				_, _ = io.WriteString(w, `{"error":{"code":500,"message":"backend error"}}`)
				return
			}
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.permissions = append(f.permissions, body["type"]+"/"+body["role"])
			_, _ = io.WriteString(w, `{"id":"anyoneWithLink"}`)
		case r.Method == http.MethodDelete:
			f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/drive/v3/files/"))
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"id":"folder-1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func readRelated(t *testing.T, r *http.Request) uploaded {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	assert.NoError(t, err)
	assert.Equal(t, "multipart/related", mediaType)

	var u uploaded
	mr := multipart.NewReader(r.Body, params["boundary"])

	meta, err := mr.NextPart()
	if !assert.NoError(t, err) {
		return u
	}
	assert.NoError(t, json.NewDecoder(meta).Decode(&u.Metadata))

	media, err := mr.NextPart()
	if !assert.NoError(t, err) {
		return u
	}
	u.ContentType = media.Header.Get("Content-Type")
	content, _ := io.ReadAll(media)
	u.Content = string(content)
	return u
}

func newTestClient(t *testing.T, fake *fakeDrive, share bool) *Client {
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	return NewClient(Config{
		FolderID:   "folder-1",
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		ShareLinks: share,
	})
}

func TestClient_Upload(t *testing.T) {
	fake := &fakeDrive{}
	client := newTestClient(t, fake, true)

	id, err := client.Upload(context.Background(), File{
		Name:        "2A_2026-10-05_143000.png",
		ContentType: "image/png",
		Content:     []byte("png-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "file-42", id)
	assert.Equal(t, "multipart", fake.query["uploadType"])
	assert.Equal(t, "true", fake.query["supportsAllDrives"])

	require.Len(t, fake.uploads, 1)
	assert.Equal(t, "2A_2026-10-05_143000.png", fake.uploads[0].Metadata["name"])
	assert.Equal(t, []interface{}{"folder-1"}, fake.uploads[0].Metadata["parents"])
	assert.Equal(t, "image/png", fake.uploads[0].ContentType)
	assert.Equal(t, "png-bytes", fake.uploads[0].Content)
	assert.Equal(t, []string{"anyone/reader"}, fake.permissions)
}

func TestClient_UploadWithoutSharing(t *testing.T) {
	fake := &fakeDrive{}
	client := newTestClient(t, fake, false)

	_, err := client.Upload(context.Background(), File{Name: "a.pdf", Content: []byte("pdf")})

	require.NoError(t, err)
	assert.Empty(t, fake.permissions)
	assert.Equal(t, "application/octet-stream", fake.uploads[0].ContentType)
}

func TestClient_UploadRejected(t *testing.T) {
	fake := &fakeDrive{uploadCode: http.StatusForbidden}
	client := newTestClient(t, fake, true)

	id, err := client.Upload(context.Background(), File{Name: "a.png", Content: []byte("x")})

	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Empty(t, fake.permissions)
}

func TestClient_ShareFailureRemovesFile(t *testing.T) {
	fake := &fakeDrive{shareCode: http.StatusInternalServerError}
	client := newTestClient(t, fake, true)

	id, err := client.Upload(context.Background(), File{Name: "a.png", Content: []byte("x")})

	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, []string{"file-42"}, fake.deleted)
}

func TestProofStore_ReturnsShareURL(t *testing.T) {
	fake := &fakeDrive{}
	store := NewProofStore(newTestClient(t, fake, true))

	ref, err := store.Upload(context.Background(), recorder.Attachment{
		Name:        "proof.jpg",
		ContentType: "image/jpeg",
		Content:     []byte("jpg"),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/file/d/file-42/view?usp=sharing", ref)
	assert.NoError(t, store.Ping(context.Background()))
}
