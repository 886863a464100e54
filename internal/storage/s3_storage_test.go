package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jobnest/jobnest-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:          "us-east-1",
		Bucket:          "jobnest-test",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
	}
}

func TestS3Storage_PresignUpload(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		wantFileURL string
	}{
		{
			name:        "S3 direct URL",
			wantFileURL: "https://jobnest-test.s3.us-east-1.amazonaws.com/documents/7/",
		},
		{
			name:        "CDN base URL",
			baseURL:     "https://cdn.jobnest.test/",
			wantFileURL: "https://cdn.jobnest.test/documents/7/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testS3Config()
			cfg.BaseURL = tt.baseURL
			s := NewS3Storage(context.Background(), cfg)

			upload, err := s.PresignUpload(context.Background(), "documents/7", "Resume.PDF", "application/pdf")
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(upload.Key, "documents/7/"))
			assert.True(t, strings.HasSuffix(upload.Key, ".pdf"))
			assert.True(t, strings.HasPrefix(upload.FileURL, tt.wantFileURL))
			assert.Contains(t, upload.UploadURL, "X-Amz-Signature")
			assert.False(t, upload.ExpiresAt.IsZero())
		})
	}
}

func TestS3Storage_Delete(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotMethod, gotPath = r.Method, r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := testS3Config()
	cfg.Endpoint = srv.URL
	s := NewS3Storage(context.Background(), cfg)

	require.NoError(t, s.Delete(context.Background(), "documents/7/abc.pdf"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/jobnest-test/documents/7/abc.pdf", gotPath)
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("application/pdf", DocumentContentTypes))
	assert.Error(t, ValidateContentType("application/x-msdownload", DocumentContentTypes))
}
