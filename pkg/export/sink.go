package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/courseforge/courseforge/pkg/pgn"
	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

// ChapterSink receives serialized chapters. This abstraction keeps the
// exporter testable without touching the filesystem.
type ChapterSink interface {
	// WriteChapter serializes g under the given base name (no extension)
	// and returns the destination it produced.
	WriteChapter(name string, g *study.Game) (string, error)
}

// DirSink writes one .pgn file per chapter into a directory, creating the
// directory on first write. This is the production implementation.
type DirSink struct {
	Dir    string
	Engine rules.Engine
}

// WriteChapter serializes g to {Dir}/{name}.pgn.
func (s *DirSink) WriteChapter(name string, g *study.Game) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	text, err := pgn.Encode(g, s.Engine)
	if err != nil {
		return "", fmt.Errorf("serializing chapter %s: %w", name, err)
	}
	dest := filepath.Join(s.Dir, name+".pgn")
	if err := os.WriteFile(dest, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing chapter %s: %w", name, err)
	}
	return dest, nil
}

// WrittenChapter is one chapter recorded by a MemorySink.
type WrittenChapter struct {
	Name string
	Text string
}

// MemorySink records serialized chapters in memory for tests. FailFunc, if
// set, lets a test inject a write failure for particular names.
type MemorySink struct {
	Engine   rules.Engine
	Chapters []WrittenChapter

	FailFunc func(name string) error
}

// WriteChapter implements ChapterSink by recording the encoded text.
func (s *MemorySink) WriteChapter(name string, g *study.Game) (string, error) {
	if s.FailFunc != nil {
		if err := s.FailFunc(name); err != nil {
			return "", err
		}
	}
	text, err := pgn.Encode(g, s.Engine)
	if err != nil {
		return "", err
	}
	s.Chapters = append(s.Chapters, WrittenChapter{Name: name, Text: text + "\n"})
	return "memory:" + name, nil
}
