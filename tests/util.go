package testutil

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
)

// Part is one field of a multipart/form-data body. FileName != "" or IsFile makes it a file part.
type Part struct {
	Name        string
	Value       string
	IsFile      bool
	FileName    string
	ContentType string
}

func Field(name, value string) Part { return Part{Name: name, Value: value} }

func File(name, fileName, contentType, content string) Part {
	return Part{Name: name, Value: content, IsFile: true, FileName: fileName, ContentType: contentType}
}

// MultipartBody encodes parts the way browsers do and returns the body and its Content-Type.
func MultipartBody(t *testing.T, boundary string, parts ...Part) ([]byte, string) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if boundary != "" {
		if err := w.SetBoundary(boundary); err != nil {
			t.Fatalf("MultipartBody() failed: %v", err)
		}
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		if p.IsFile {
			h.Set("Content-Disposition", `form-data; name="`+p.Name+`"; filename="`+p.FileName+`"`)
			if p.ContentType != "" {
				h.Set("Content-Type", p.ContentType)
			}
		} else {
			h.Set("Content-Disposition", `form-data; name="`+p.Name+`"`)
		}
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("MultipartBody() failed: %v", err)
		}
		if _, err = pw.Write([]byte(p.Value)); err != nil {
			t.Fatalf("MultipartBody() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("MultipartBody() failed: %v", err)
	}
	return body.Bytes(), w.FormDataContentType()
}
