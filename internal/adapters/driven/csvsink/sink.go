package csvsink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/logger"
)

const (
	// EscapeChar prefixes every reserved character in a value.
	EscapeChar = '\\'

	// LineTerminator ends every record.
	LineTerminator = "\r\n"

	// FileMode is the permission of the written file.
	FileMode = 0o644
)

// Ensure Sink implements the interface.
var _ driven.RowSink = (*Sink)(nil)

// Sink writes rows to a delimited file at a fixed path.
type Sink struct {
	path      string
	delimiter rune
}

// New creates a sink writing to path with the given column delimiter.
func New(path string, delimiter rune) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: output path is empty", domain.ErrInvalidInput)
	}
	if delimiter == 0 || delimiter == EscapeChar || delimiter == '\r' || delimiter == '\n' ||
		strings.ContainsRune(domain.Sentinel, delimiter) {
		return nil, fmt.Errorf("%w: delimiter %q is not allowed", domain.ErrInvalidInput, delimiter)
	}
	return &Sink{path: path, delimiter: delimiter}, nil
}

// Path returns the destination file path.
func (s *Sink) Path() string {
	return s.path
}

// Write writes header and rows, replacing any existing file at the path.
func (s *Sink) Write(header []string, rows []domain.Row) (err error) {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(FileMode); err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	w := bufio.NewWriter(tmp)
	if err = s.encode(w, header, rows); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}

	logger.Debug("Wrote %d rows to %s", len(rows), s.path)
	return nil
}

// encode writes the header and every row to w.
func (s *Sink) encode(w io.Writer, header []string, rows []domain.Row) error {
	cells := make([]string, len(header))
	for i, name := range header {
		cells[i] = s.escape(name)
	}
	if err := s.writeLine(w, cells); err != nil {
		return err
	}

	for n, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("%w: row %d has %d fields, header has %d",
				domain.ErrInvalidInput, n, len(row), len(header))
		}
		cells = cells[:0]
		for _, field := range row {
			cells = append(cells, s.render(field))
		}
		if err := s.writeLine(w, cells); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) writeLine(w io.Writer, cells []string) error {
	_, err := io.WriteString(w, strings.Join(cells, string(s.delimiter))+LineTerminator)
	return err
}

// render returns the on-disk text of a field.
func (s *Sink) render(f domain.Field) string {
	v, ok := f.Get()
	if !ok {
		return domain.Sentinel
	}
	v = s.escape(v)
	if strings.Contains(v, domain.Sentinel) {
		v = strings.ReplaceAll(v, "|", `\|`)
	}
	return v
}

// escape prefixes reserved characters with EscapeChar.
func (s *Sink) escape(v string) string {
	if !strings.ContainsFunc(v, s.reserved) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 8)
	for _, r := range v {
		if s.reserved(r) {
			b.WriteRune(EscapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Sink) reserved(r rune) bool {
	return r == s.delimiter || r == EscapeChar || r == '\r' || r == '\n'
}
