package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tunetidy/internal/logging"
	"tunetidy/internal/services"
)

// TrackFile describes a scanned MP3 file.
type TrackFile struct {
	AbsPath string
	// RelPath is slash-separated and relative to the scan root. It is the
	// identity used for unmatched placement and backup mirroring.
	RelPath string
	Size    int64
	ModTime time.Time
}

// Scanner walks a source root for MP3 files.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// New creates a scanner rooted at the given directory.
func New(root string, logger *slog.Logger) *Scanner {
	return &Scanner{
		root:   filepath.Clean(root),
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan returns every MP3 file under the root, sorted by relative path for a
// stable processing order. The skip argument names directories (relative to
// root) excluded from the walk; the organizer uses this to keep the
// unmatched and backup trees out of subsequent scans.
func (s *Scanner) Scan(skip ...string) ([]TrackFile, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, services.Wrap(services.ErrScan, "scan", "stat source root", fmt.Sprintf("source path %q is not readable", s.root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrScan, "scan", "stat source root", fmt.Sprintf("source path %q is not a directory", s.root), nil)
	}

	skipSet := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		if name = strings.TrimSpace(name); name != "" {
			skipSet[name] = struct{}{}
		}
	}

	var files []TrackFile
	walkErr := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			s.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if entry.IsDir() {
			if _, skipped := skipSet[rel]; skipped {
				return filepath.SkipDir
			}
			if base := entry.Name(); base != "." && strings.HasPrefix(base, ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			return nil
		}
		fileInfo, infoErr := entry.Info()
		if infoErr != nil {
			s.logger.Warn("skipping unstattable file", logging.String("path", path), logging.Error(infoErr))
			return nil
		}
		files = append(files, TrackFile{
			AbsPath: path,
			RelPath: rel,
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrScan, "scan", "walk source tree", "", walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Root returns the cleaned scan root.
func (s *Scanner) Root() string {
	return s.root
}
