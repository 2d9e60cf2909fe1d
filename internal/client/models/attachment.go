package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrNotAFile = errors.New("path is a directory")

// LocalFile is a file selected on this machine for upload.
type LocalFile struct {
	Name string
	open func() (io.ReadCloser, error)
}

// FileFromPath selects the file at path. The file is opened only when a
// payload is built.
func FileFromPath(path string) (*LocalFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	return &LocalFile{
		Name: filepath.Base(path),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps in-memory content as a LocalFile.
func FileFromBytes(name string, data []byte) *LocalFile {
	return &LocalFile{
		Name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return f.open()
}

// Attachment is a file-valued profile field. It holds either the URL of a
// file already stored by the server or a newly selected local file, never
// both. Only the URL form round-trips through JSON; a local file is
// uploaded as a multipart part and never rendered as a URL string.
type Attachment struct {
	url  string
	file *LocalFile
}

func RemoteAttachment(url string) Attachment {
	return Attachment{url: url}
}

func LocalAttachment(f *LocalFile) Attachment {
	return Attachment{file: f}
}

// URL returns the server-side location, if this is a remote attachment.
func (a Attachment) URL() (string, bool) {
	return a.url, a.file == nil && a.url != ""
}

// File returns the local file, if one has been selected.
func (a Attachment) File() (*LocalFile, bool) {
	return a.file, a.file != nil
}

func (a Attachment) IsZero() bool {
	return a.file == nil && a.url == ""
}

func (a Attachment) String() string {
	switch {
	case a.file != nil:
		return "local:" + a.file.Name
	case a.url != "":
		return a.url
	default:
		return "-"
	}
}

// MarshalJSON renders the URL form; local files and empty attachments
// become null.
func (a Attachment) MarshalJSON() ([]byte, error) {
	if u, ok := a.URL(); ok {
		return json.Marshal(u)
	}
	return []byte("null"), nil
}

func (a *Attachment) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("attachment must be a URL string or null: %w", err)
	}
	*a = Attachment{}
	if s != nil {
		a.url = *s
	}
	return nil
}
