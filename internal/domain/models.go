package domain

// RepeatMode controls how the playback queue advances once a song finishes.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatOne  RepeatMode = "one"
	RepeatAll  RepeatMode = "all"
)

// Song is a catalog track, cached locally once liked, downloaded or added to
// a playlist. The id is the stable catalog key.
type Song struct { //nolint:govet // field ordering mirrors the songs table
	ID                  string       `json:"id" db:"id"`
	Title               string       `json:"title" db:"title"`
	Artist              string       `json:"artist" db:"artist"`
	ArtistID            string       `json:"artistId" db:"artistId"`
	AlbumTitle          string       `json:"albumTitle" db:"albumTitle"`
	AlbumID             string       `json:"albumId" db:"albumId"`
	AlbumCover          string       `json:"albumCover,omitempty" db:"-"`
	ReleaseDate         string       `json:"releaseDate" db:"releaseDate"`
	Genre               string       `json:"genre" db:"genre"`
	Duration            float64      `json:"duration" db:"duration"`
	AudioQuality        AudioQuality `json:"audioQuality" db:"audioQuality"`
	Version             string       `json:"version,omitempty" db:"version"`
	Label               string       `json:"label,omitempty" db:"label"`
	LabelID             int64        `json:"labelId,omitempty" db:"labelId"`
	UPC                 string       `json:"upc,omitempty" db:"upc"`
	MediaCount          int          `json:"mediaCount,omitempty" db:"mediaCount"`
	ParentalWarning     bool         `json:"parentalWarning" db:"parentalWarning"`
	Streamable          bool         `json:"streamable" db:"streamable"`
	Purchasable         bool         `json:"purchasable" db:"purchasable"`
	Previewable         bool         `json:"previewable" db:"previewable"`
	GenreID             int64        `json:"genreId,omitempty" db:"genreId"`
	GenreSlug           string       `json:"genreSlug,omitempty" db:"genreSlug"`
	GenreColor          string       `json:"genreColor,omitempty" db:"genreColor"`
	ReleaseDateStream   string       `json:"releaseDateStream,omitempty" db:"releaseDateStream"`
	ReleaseDateDownload string       `json:"releaseDateDownload,omitempty" db:"releaseDateDownload"`
	MaximumChannelCount int          `json:"maximumChannelCount,omitempty" db:"maximumChannelCount"`
	Images              Images       `json:"images" db:"images"`
	ISRC                string       `json:"isrc,omitempty" db:"isrc"`
}

// Album is a catalog album. Tracks are resolved by joining songs on albumId,
// never stored redundantly.
type Album struct {
	ID           string       `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Artist       string       `json:"artist" db:"artist"`
	ArtistID     string       `json:"artistId" db:"artistId"`
	ReleaseDate  string       `json:"releaseDate" db:"releaseDate"`
	Cover        string       `json:"cover" db:"cover"`
	Genre        string       `json:"genre" db:"genre"`
	TrackCount   int          `json:"trackCount" db:"trackCount"`
	AudioQuality AudioQuality `json:"audioQuality" db:"audioQuality"`
	Label        string       `json:"label,omitempty" db:"label"`
	GenreID      int64        `json:"genreId,omitempty" db:"genreId"`
	Images       Images       `json:"images" db:"images"`
	Tracks       []Song       `json:"tracks,omitempty" db:"-"`
}

// Playlist is a user playlist. Playlist 0 is the reserved "Liked Songs"
// partition and is never deleted.
type Playlist struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Image  string `json:"image" db:"image"`
	Tracks []Song `json:"tracks,omitempty" db:"-"`
}
