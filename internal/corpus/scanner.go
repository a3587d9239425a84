package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner enumerates and loads the guides under a corpus root.
// Include and exclude are doublestar glob patterns (`**` supported) matched
// against slash-separated corpus-relative paths.
type Scanner struct {
	root    string
	include []string
	exclude []string
}

// NewScanner creates a scanner for root. Empty include defaults to all Markdown files.
func NewScanner(root string, include, exclude []string) *Scanner {
	if len(include) == 0 {
		include = []string{"**/*.md"}
	}
	return &Scanner{root: root, include: include, exclude: exclude}
}

// Root returns the corpus root directory.
func (s *Scanner) Root() string { return s.root }

// Match reports whether the corpus-relative path belongs to the corpus.
func (s *Scanner) Match(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	rel = strings.TrimPrefix(rel, "./")
	for _, pat := range s.exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	for _, pat := range s.include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// MatchAbs reports whether the absolute path is a corpus file under root.
func (s *Scanner) MatchAbs(absPath string) bool {
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return s.Match(rel)
}

// Files returns the corpus-relative paths of all matching files in
// deterministic (sorted) order.
func (s *Scanner) Files() ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root is not a directory: %s", s.root)
	}

	var files []string
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		if !s.Match(rel) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads and parses one guide by corpus-relative path.
func (s *Scanner) Load(relPath string) (*Guide, error) {
	return LoadGuide(s.root, relPath)
}

// Scan loads every guide in the corpus in path order.
func (s *Scanner) Scan() ([]*Guide, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	guides := make([]*Guide, 0, len(files))
	for _, rel := range files {
		g, err := s.Load(rel)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", rel, err)
		}
		guides = append(guides, g)
	}
	return guides, nil
}
