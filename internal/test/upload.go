package test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Upload encodes the content as the "file" field of a multipart form.
//
// The body and the map for the HTTP request headers are returned.
func Upload(t *testing.T, filename string, content []byte) (string, map[string]string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	w, err := mw.CreateFormFile("file", filename)
	if err != nil {
		assert.FailNow(t, err.Error())
	}

	if _, err := w.Write(content); err != nil {
		assert.FailNow(t, err.Error())
	}

	mw.Close()

	return body.String(), map[string]string{"Content-Type": mw.FormDataContentType()}
}
