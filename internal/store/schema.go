package store

import (
	"fmt"

	"github.com/reewhy/musicplayer/internal/constants"
)

const Schema = `
CREATE TABLE IF NOT EXISTS songs (
	id TEXT PRIMARY KEY,
	title TEXT,
	artist TEXT,
	artistId TEXT,
	albumTitle TEXT,
	albumId TEXT,
	releaseDate TEXT,
	genre TEXT,
	duration REAL,
	audioQuality TEXT,
	version TEXT,
	label TEXT,
	labelId INTEGER,
	upc TEXT,
	mediaCount INTEGER,
	parentalWarning INTEGER,
	streamable INTEGER,
	purchasable INTEGER,
	previewable INTEGER,
	genreId INTEGER,
	genreSlug TEXT,
	genreColor TEXT,
	releaseDateStream TEXT,
	releaseDateDownload TEXT,
	maximumChannelCount INTEGER,
	images TEXT,
	isrc TEXT
);

CREATE TABLE IF NOT EXISTS albums (
	id TEXT PRIMARY KEY,
	title TEXT,
	artist TEXT,
	artistId TEXT,
	releaseDate TEXT,
	cover TEXT,
	genre TEXT,
	trackCount INTEGER,
	audioQuality TEXT,
	label TEXT,
	genreId INTEGER,
	images TEXT
);

CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	image TEXT
);

CREATE TABLE IF NOT EXISTS playlists_tracks (
	playlist INTEGER,
	track TEXT
);
`

// Seed creates the reserved Liked Songs playlist. Idempotent.
var Seed = fmt.Sprintf(
	`INSERT OR IGNORE INTO playlists (id, name, image) VALUES (%d, '%s', '%s');`,
	constants.LikedSongsPlaylistID, constants.LikedSongsName, constants.DefaultCoverURL,
)

const DropAll = `
DROP TABLE IF EXISTS albums;
DROP TABLE IF EXISTS playlists;
DROP TABLE IF EXISTS playlists_tracks;
DROP TABLE IF EXISTS songs;
`
