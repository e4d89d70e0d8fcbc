package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func echo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Length", "999")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

func TestWithGzip_Response(t *testing.T) {
	cases := []struct {
		name, accept string
		compressed   bool
	}{
		{"plain client", "", false},
		{"gzip client", "gzip, deflate", true},
		{"deflate only", "deflate", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fee":50}`))
			if tc.accept != "" {
				req.Header.Set("Accept-Encoding", tc.accept)
			}
			rr := httptest.NewRecorder()
			WithGzip(echo()).ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			if !tc.compressed {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, `{"fee":50}`, rr.Body.String())
				return
			}
			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
			assert.Empty(t, rr.Header().Get("Content-Length"))
			assert.Contains(t, rr.Header().Values("Vary"), "Accept-Encoding")

			zr, err := gzip.NewReader(rr.Body)
			require.NoError(t, err)
			defer zr.Close()
			data, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, `{"fee":50}`, string(data))
		})
	}
}

func TestWithGzip_RequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, `{"doctorId":1}`)))
	req.Header.Set("Content-Encoding", "gzip")
	rr := httptest.NewRecorder()
	WithGzip(echo()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"doctorId":1}`, rr.Body.String())
}

func TestWithGzip_BrokenRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rr := httptest.NewRecorder()
	WithGzip(echo()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
