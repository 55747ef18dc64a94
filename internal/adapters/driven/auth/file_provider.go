package auth

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// Ensure FileTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*FileTokenProvider)(nil)

// FileTokenProvider provides a static Personal Access Token read from an
// auth file. The file holds the username on its first non-blank line and
// the token on its second. Blank lines are ignored.
type FileTokenProvider struct {
	path string

	once     sync.Once
	username string
	token    string
	err      error
}

// NewFileTokenProvider creates a token provider reading path on first use.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// GetToken returns the token from the auth file.
// PATs don't expire, so the file is read once.
func (p *FileTokenProvider) GetToken(_ context.Context) (string, error) {
	p.once.Do(p.load)
	if p.err != nil {
		return "", p.err
	}
	return p.token, nil
}

// Username returns the username from the auth file. It is informational only.
func (p *FileTokenProvider) Username() string {
	p.once.Do(p.load)
	return p.username
}

// IsAuthenticated returns true if the auth file holds a token.
func (p *FileTokenProvider) IsAuthenticated() bool {
	p.once.Do(p.load)
	return p.err == nil && p.token != ""
}

// Path returns the auth file path.
func (p *FileTokenProvider) Path() string {
	return p.path
}

func (p *FileTokenProvider) load() {
	p.username, p.token, p.err = readAuthFile(p.path)
}

// readAuthFile returns the first two non-blank lines of path.
func readAuthFile(path string) (username, token string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("open auth file: %w", err)
	}
	defer f.Close()

	lines := make([]string, 0, 2)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(lines) < 2 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("read auth file: %w", err)
	}

	if len(lines) < 2 {
		return "", "", fmt.Errorf("%w: auth file %s needs a username line and a token line",
			domain.ErrAuthRequired, path)
	}
	return lines[0], lines[1], nil
}
