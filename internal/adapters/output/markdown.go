// Package output persists finalized session answers as markdown documents.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// MarkdownStore implements core.OutputStore with one markdown file per
// finalized session, plus a front-matter header for later retrieval.
type MarkdownStore struct {
	dir string
}

// NewMarkdownStore creates a store rooted at dir.
func NewMarkdownStore(dir string) *MarkdownStore {
	return &MarkdownStore{dir: dir}
}

// SaveOutput writes the final answer to disk and returns its id.
func (s *MarkdownStore) SaveOutput(_ context.Context, title, content, userPrompt, language string, sessionID core.SessionID) (*core.SavedOutput, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	id := uuid.New().String()
	now := time.Now()

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", id)
	fmt.Fprintf(&b, "session: %s\n", sessionID)
	fmt.Fprintf(&b, "title: %q\n", title)
	if language != "" {
		fmt.Fprintf(&b, "language: %s\n", language)
	}
	fmt.Fprintf(&b, "created: %s\n", now.Format(time.RFC3339))
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(userPrompt), "\n", "\n> "))
	b.WriteString(content)
	b.WriteString("\n")

	name := fmt.Sprintf("%s-%s.md", now.Format("20060102-150405"), id[:8])
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing output file: %w", err)
	}

	return &core.SavedOutput{ID: id}, nil
}

var _ core.OutputStore = (*MarkdownStore)(nil)
