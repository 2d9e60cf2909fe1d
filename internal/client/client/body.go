package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/dmitrijs2005/socrp/internal/client/models"
)

// Body is a request payload.
type Body interface {
	// Encode returns the serialized payload and its content type.
	Encode() (io.Reader, string, error)
}

type jsonBody struct {
	v any
}

// JSON wraps v as an application/json body.
func JSON(v any) Body {
	return jsonBody{v: v}
}

func (b jsonBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encode json body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

type part struct {
	name  string
	value string
	file  *models.LocalFile
}

// Multipart is a multipart/form-data body. Parts are written in the order
// they were added. A name absent from the body is absent from the request;
// there is no such thing as an empty file part.
type Multipart struct {
	parts []part
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// AddField appends a text part.
func (m *Multipart) AddField(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// AddJSON appends v serialized as a JSON string part.
func (m *Multipart) AddJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode part %s: %w", name, err)
	}
	m.AddField(name, string(data))
	return nil
}

// AddFile appends a file part. A nil file is ignored.
func (m *Multipart) AddFile(name string, f *models.LocalFile) *Multipart {
	if f != nil {
		m.parts = append(m.parts, part{name: name, file: f})
	}
	return m
}

// Has reports whether a part with the given name was added.
func (m *Multipart) Has(name string) bool {
	for _, p := range m.parts {
		if p.name == name {
			return true
		}
	}
	return false
}

// Field returns the value of the first text part with the given name.
func (m *Multipart) Field(name string) (string, bool) {
	for _, p := range m.parts {
		if p.name == name && p.file == nil {
			return p.value, true
		}
	}
	return "", false
}

// IsFile reports whether the named part is a file part.
func (m *Multipart) IsFile(name string) bool {
	for _, p := range m.parts {
		if p.name == name {
			return p.file != nil
		}
	}
	return false
}

// Names returns part names in order.
func (m *Multipart) Names() []string {
	names := make([]string, 0, len(m.parts))
	for _, p := range m.parts {
		names = append(names, p.name)
	}
	return names
}

func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range m.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", p.name, err)
			}
			continue
		}
		if err := writeFile(w, p); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, p part) error {
	src, err := p.file.Open()
	if err != nil {
		return fmt.Errorf("open %s for part %s: %w", p.file.Name, p.name, err)
	}
	defer src.Close()

	dst, err := w.CreateFormFile(p.name, p.file.Name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", p.name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", p.file.Name, err)
	}
	return nil
}
