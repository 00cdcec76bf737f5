package config

const (
	defaultLogFile             = "~/.local/share/tunetidy/tunetidy.log"
	defaultCachePath           = "~/.cache/tunetidy/lookups.db"
	defaultLockPath            = "~/.local/share/tunetidy/tunetidy.lock"
	defaultUnmatchedFolder     = "_unmatched"
	defaultAcoustIDBaseURL     = "https://api.acoustid.org/v2"
	defaultAcoustIDTimeout     = 30
	defaultConfidenceThreshold = 0.50
	defaultMusicBrainzBaseURL  = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzTimeout  = 30
	defaultMinRequestInterval  = 1000
	defaultFolderTemplate      = "{artist}/{album}"
	defaultFilenameTemplate    = "{track:02d} - {title}"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults. Dry-run is on
// by default: mutating a library requires an explicit opt-out.
func Default() Config {
	return Config{
		Paths: Paths{
			LogFile:   defaultLogFile,
			CachePath: defaultCachePath,
			LockPath:  defaultLockPath,
			Unmatched: defaultUnmatchedFolder,
		},
		AcoustID: AcoustID{
			BaseURL:        defaultAcoustIDBaseURL,
			TimeoutSeconds: defaultAcoustIDTimeout,
			Threshold:      defaultConfidenceThreshold,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:              defaultMusicBrainzBaseURL,
			MinRequestIntervalMS: defaultMinRequestInterval,
			TimeoutSeconds:       defaultMusicBrainzTimeout,
		},
		Templates: Templates{
			Folder:   defaultFolderTemplate,
			Filename: defaultFilenameTemplate,
		},
		Options: Options{
			DryRun:       true,
			Backup:       false,
			CacheEnabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
