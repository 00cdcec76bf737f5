package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tunetidy/internal/config"
	"tunetidy/internal/fileutil"
	"tunetidy/internal/logging"
	"tunetidy/internal/musicbrainz"
	"tunetidy/internal/scanner"
	"tunetidy/internal/services"
	"tunetidy/internal/textutil"
)

// Placement describes where a file went, or would go in a dry run.
type Placement struct {
	Source     string
	FinalPath  string
	BackupPath string
	Moved      bool
	Skipped    bool
}

// Organizer moves matched and unmatched files into the output tree.
type Organizer struct {
	outputDir     string
	backupDir     string
	unmatchedName string
	folderTmpl    string
	filenameTmpl  string
	backup        bool
	dryRun        bool
	logger        *slog.Logger
}

// New builds an Organizer from resolved configuration.
func New(cfg *config.Config, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		outputDir:     cfg.Paths.OutputDir,
		backupDir:     cfg.Paths.BackupDir,
		unmatchedName: cfg.Paths.Unmatched,
		folderTmpl:    cfg.Templates.Folder,
		filenameTmpl:  cfg.Templates.Filename,
		backup:        cfg.Options.Backup,
		dryRun:        cfg.Options.DryRun,
		logger:        logger,
	}
}

// Destination renders the target path for resolved metadata without touching
// the filesystem. Collision suffixes are not applied here.
func (o *Organizer) Destination(meta musicbrainz.Metadata) string {
	fields := Fields{
		Artist:      meta.Artist,
		AlbumArtist: meta.AlbumArtist,
		Album:       meta.Album,
		Title:       meta.Title,
		Year:        meta.Year,
		Track:       meta.TrackNumber,
	}

	parts := append([]string{o.outputDir}, RenderSegments(o.folderTmpl, fields)...)
	filename := textutil.SanitizeSegment(Render(o.filenameTmpl, fields)) + ".mp3"
	return filepath.Join(append(parts, filename)...)
}

// Backup copies the original file into the backup tree at its scan-relative
// path. It must run before any tag write or move. A failed backup aborts
// handling of the file.
func (o *Organizer) Backup(file scanner.TrackFile) (string, error) {
	if !o.backup {
		return "", nil
	}

	target := filepath.Join(o.backupDir, filepath.FromSlash(file.RelPath))
	if o.dryRun {
		return target, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", services.Wrap(services.ErrMove, "organize", "backup", fmt.Sprintf("create backup directory for %s", file.RelPath), err)
	}
	if err := fileutil.CopyFile(file.AbsPath, target); err != nil {
		return "", services.Wrap(services.ErrMove, "organize", "backup", fmt.Sprintf("back up %s", file.RelPath), err)
	}
	return target, nil
}

// PlaceMatched moves a file to its template-rendered destination. A file
// already at its destination is reported as skipped, so re-running over an
// organized tree performs no moves.
func (o *Organizer) PlaceMatched(file scanner.TrackFile, meta musicbrainz.Metadata) (Placement, error) {
	return o.place(file, o.Destination(meta))
}

// PlaceUnmatched quarantines a file under the unmatched folder, preserving
// its scan-relative path.
func (o *Organizer) PlaceUnmatched(file scanner.TrackFile) (Placement, error) {
	dest := filepath.Join(o.outputDir, o.unmatchedName, filepath.FromSlash(file.RelPath))
	return o.place(file, dest)
}

func (o *Organizer) place(file scanner.TrackFile, dest string) (Placement, error) {
	placement := Placement{Source: file.AbsPath}

	if fileutil.SameFile(file.AbsPath, dest) {
		placement.FinalPath = dest
		placement.Skipped = true
		o.logger.Debug("already in place", logging.String("path", dest))
		return placement, nil
	}

	final, err := resolveCollision(dest)
	if err != nil {
		return placement, services.Wrap(services.ErrMove, "organize", "resolve destination", fmt.Sprintf("probe %s", dest), err)
	}
	placement.FinalPath = final

	if o.dryRun {
		o.logger.Info("dry run, would move", logging.String("from", file.AbsPath), logging.String("to", final))
		return placement, nil
	}

	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return placement, services.Wrap(services.ErrMove, "organize", "create destination", fmt.Sprintf("create directory for %s", final), err)
	}
	if err := fileutil.MoveFile(file.AbsPath, final); err != nil {
		return placement, services.Wrap(services.ErrMove, "organize", "move file", fmt.Sprintf("move %s", file.RelPath), err)
	}
	placement.Moved = true
	o.logger.Info("moved", logging.String("from", file.AbsPath), logging.String("to", final))
	return placement, nil
}

// resolveCollision probes the live filesystem for a free path, appending
// " (2)", " (3)", and so on before the extension.
func resolveCollision(dest string) (string, error) {
	if free, err := pathFree(dest); err != nil {
		return "", err
	} else if free {
		return dest, nil
	}

	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func pathFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, err
}
