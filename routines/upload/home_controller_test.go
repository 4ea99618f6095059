package upload_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/host/builder"
	snowhttp "github.com/mogud/snowdi/routines/http"
	"github.com/mogud/snowdi/routines/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func startServer(t *testing.T, contentRoot string, gzipped bool) *snowhttp.TestServer {
	t.Helper()

	b := builder.NewDefaultBuilder().UseContentRoot(contentRoot)
	if gzipped {
		b.GetConfigurationManager().Set("Upload:Gzip", "true")
	}
	b.ConfigureRoutines(func(b host.IBuilder) {
		upload.AddHomeController(b)
		snowhttp.AddServer(b, upload.MapHomeController)
	})

	server, err := snowhttp.NewTestServer(b)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, server.Close())
	})
	return server
}

func multipartBody(t *testing.T, field, name string, content []byte) (string, []byte) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), buf.Bytes()
}

func TestPages(t *testing.T) {
	server := startServer(t, t.TempDir(), false)

	for path, expected := range map[string]string{
		"/":             `action="/Home/Upload"`,
		"/Home/Index":   `name="data"`,
		"/Home/About":   "Your application description page.",
		"/Home/Contact": "Your contact page.",
		"/Home/Error":   "Request ID",
	} {
		status, body, err := server.Get(path)
		require.NoError(t, err)
		assert.Equal(t, fasthttp.StatusOK, status, path)
		assert.Contains(t, body, expected, path)
	}

	status, _, err := server.Get("/Home/Missing")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	server := startServer(t, dir, false)

	contentType, body := multipartBody(t, "data", "../hello.txt", []byte("hello upload"))
	status, _, err := server.Post("/Home/Upload", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusFound, status)

	saved, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello upload", string(saved))
}

func TestUploadGzip(t *testing.T) {
	dir := t.TempDir()
	server := startServer(t, dir, true)

	contentType, body := multipartBody(t, "data", "hello.txt", []byte("hello gzip"))
	status, _, err := server.Post("/Home/Upload", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusFound, status)

	f, err := os.Open(filepath.Join(dir, "hello.txt.gz"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello gzip", string(content))
	assert.Equal(t, "hello.txt", zr.Name)
}

func TestUploadWithoutFile(t *testing.T) {
	server := startServer(t, t.TempDir(), false)

	contentType, body := multipartBody(t, "other", "hello.txt", []byte("x"))
	status, _, err := server.Post("/Home/Upload", contentType, body)
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestUploadRejectsDirectoryName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.Mkdir(dir, 0o755))
	server := startServer(t, dir, false)

	for _, name := range []string{"..", "../..", "."} {
		contentType, body := multipartBody(t, "data", name, []byte("x"))
		status, _, err := server.Post("/Home/Upload", contentType, body)
		require.NoError(t, err)
		assert.Equal(t, fasthttp.StatusBadRequest, status, name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
