package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestStore_SaveUsesGeneratedName(t *testing.T) {
	t.Parallel()

	s, err := NewStore(t.TempDir(), 1)
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "../../etc/Apple.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "Apple")

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	other, err := s.Save(fileHeader(t, "Apple.PNG", []byte("again")))
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir, name))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.Remove(name))
}

func TestStore_Rejects(t *testing.T) {
	t.Parallel()

	s, err := NewStore(t.TempDir(), 1)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "script.sh", []byte("#!/bin/sh")))
	require.ErrorIs(t, err, ErrUnsupportedType)

	s.MaxBytes = 4
	_, err = s.Save(fileHeader(t, "big.jpg", []byte("0123456789")))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestStore_RemoveIgnoresPaths(t *testing.T) {
	t.Parallel()

	s, err := NewStore(t.TempDir(), 1)
	require.NoError(t, err)
	assert.NoError(t, s.Remove("../outside.png"))
	assert.NoError(t, s.Remove(""))
}
