package uploads

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bks/clubcoordinator/internal/assert"
)

func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("document", filename)
	assert.NilError(t, err)
	_, err = part.Write(content)
	assert.NilError(t, err)
	assert.NilError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NilError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["document"][0]
}

func TestSaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	assert.NilError(t, err)

	content := []byte("%PDF-1.4 medical certificate")
	name, err := store.Save(multipartHeader(t, "badanie.pdf", content))
	assert.NilError(t, err)

	assert.Equal(t, filepath.Ext(name), ".pdf")
	if name == "badanie.pdf" {
		t.Error("stored name must not be the client-supplied name")
	}

	f, err := store.Open(name)
	assert.NilError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	assert.NilError(t, err)
	assert.Equal(t, string(got), string(content))
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	assert.NilError(t, err)

	tests := []string{"malware.exe", "notes.txt", "archive", "script.sh"}
	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			_, err := store.Save(multipartHeader(t, filename, []byte("x")))
			if !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("got %v; expected ErrUnsupportedType", err)
			}
		})
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 16)
	assert.NilError(t, err)

	_, err = store.Save(multipartHeader(t, "scan.jpg", bytes.Repeat([]byte("a"), 17)))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("got %v; expected ErrFileTooLarge", err)
	}
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	assert.NilError(t, err)

	assert.NilError(t, store.Remove("does-not-exist.pdf"))
}

func TestPathTraversalNeutralized(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	assert.NilError(t, err)

	_, err = store.Open("../../etc/passwd")
	assert.Error(t, err)
}
