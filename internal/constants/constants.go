// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort        = "8080"
	DefaultDBPath      = "musicplayer.db"
	DefaultAPIBaseURL  = "http://127.0.0.1:8000/api"
	DefaultQuality     = 27
	DefaultHTTPTimeout = 5 * time.Minute
	ImageHTTPTimeout   = 30 * time.Second
	DefaultRetryCount  = 3
	DefaultRetryBase   = 1 * time.Second
	MinRequestInterval = 200 * time.Millisecond
)

// Asset layout under the documents directory
const (
	SongsDir          = "songs"
	CoversDir         = "covers"
	PlaylistCoversDir = "playlists"
)

// Reserved playlist
const (
	LikedSongsPlaylistID = 0
	LikedSongsName       = "Liked Songs"
)

// Image fallbacks
const (
	DefaultCoverURL     = "https://iili.io/HlHy9Yx.png"
	PlaceholderImageRef = "assets/placeholder.png"
)

// MIME Types
const (
	MimeTypeFLAC = "audio/flac"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeJPEG = "image/jpeg"
)

// File Extensions
const (
	ExtFLAC = ".flac"
	ExtJPG  = ".jpg"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Download progress reporting
const (
	ProgressUpdateBytes = 256 * 1024
)
