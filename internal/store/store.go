// Package store persists a directory to a flat text file, one record per line
// as "first,last,email,phone" with no header and no escaping.
//
// Fields containing a comma are written as-is and will not survive a reload:
// the line splits into more than four fields and is skipped by Load. The same
// holds for line breaks: an embedded newline splits the row in two, and a
// trailing carriage return on the phone field is dropped as part of a CRLF
// line ending.
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smileynet/usermgr/internal/directory"
)

// DefaultFile is the file name used when no path is configured.
const DefaultFile = "users.txt"

// fieldCount is the number of comma-separated fields in a record line.
const fieldCount = 4

// ErrInvalidPath indicates an empty store path.
var ErrInvalidPath = errors.New("store: invalid path")

// FileStore saves and loads a directory at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes every record of d to the store file, replacing its contents.
func (s *FileStore) Save(d *directory.Directory) error {
	if s.path == "" {
		return ErrInvalidPath
	}

	var buf bytes.Buffer
	if err := Encode(&buf, d.List()); err != nil {
		return fmt.Errorf("store: encoding: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}

// Load replaces the contents of d with the records read from the store file.
// It returns the number of records loaded. If the file cannot be opened or
// read, d is left unchanged.
func (s *FileStore) Load(d *directory.Directory) (int, error) {
	if s.path == "" {
		return 0, ErrInvalidPath
	}

	f, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("store: opening %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return 0, fmt.Errorf("store: reading %s: %w", s.path, err)
	}

	d.Replace(records)
	return len(records), nil
}

// Encode writes records to w, one "first,last,email,phone" line each.
func Encode(w io.Writer, records []directory.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		line := strings.Join([]string{r.FirstName, r.LastName, r.Email, r.Phone}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads record lines from r. Lines that do not split into exactly
// four comma-separated fields are skipped. Field values are taken verbatim.
// Lines have no length limit, so anything Encode writes can be read back.
func Decode(r io.Reader) ([]directory.Record, error) {
	br := bufio.NewReader(r)

	var records []directory.Record
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line != "" {
			if rec, ok := decodeLine(line); ok {
				records = append(records, rec)
			}
		}
		if err != nil {
			return records, nil
		}
	}
}

// decodeLine parses one line, with or without its LF or CRLF terminator.
func decodeLine(line string) (directory.Record, bool) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	parts := strings.Split(line, ",")
	if len(parts) != fieldCount {
		return directory.Record{}, false
	}
	return directory.Record{
		FirstName: parts[0],
		LastName:  parts[1],
		Email:     parts[2],
		Phone:     parts[3],
	}, true
}
