package constants

const (
	Version        = `0.1.0`
	AppName        = `m3urel`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.m3urel/`
	EnvPrefix      = `M3UREL`

	// DefaultDepth is the number of trailing path segments matched when
	// nothing else is configured.
	DefaultDepth = 1
	// MaxDepth mirrors the byte-sized depth accepted by earlier releases.
	MaxDepth = 255

	TempDirPattern = `.m3urel-*`
)

// DefaultPlaylistExtensions lists the file extensions offered by the
// playlist picker.
var DefaultPlaylistExtensions = []string{".m3u", ".m3u8"}
