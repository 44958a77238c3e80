package layout

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dhamidi/bindexpr/config"
)

// Matcher selects layout files by slash-separated paths relative to the
// scanned root.
type Matcher struct {
	include []string
	exclude []string
}

func NewMatcher(cfg config.Check) (*Matcher, error) {
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	return &Matcher{include: cfg.Include, exclude: cfg.Exclude}, nil
}

// Match reports whether rel is included and not excluded.
func (m *Matcher) Match(rel string) bool {
	included := false
	for _, pattern := range m.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range m.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// walk calls fn for every matching file below root. Hidden directories are
// skipped.
func (m *Matcher) walk(ctx context.Context, root string, fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !m.Match(filepath.ToSlash(rel)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

// Scan checks every layout file below root selected by cfg. Reports are
// returned in walk order.
func Scan(ctx context.Context, root string, cfg config.Check) ([]*Report, error) {
	m, err := NewMatcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	var reports []*Report
	err = m.walk(ctx, root, func(path string, info fs.FileInfo) error {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		log.Debugf("checking %s", path)
		reports = append(reports, CheckSource(path, src))
		return nil
	})
	if err != nil {
		return reports, fmt.Errorf("scan %s: %w", root, err)
	}
	return reports, nil
}
