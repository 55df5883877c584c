// Package assets resolves song audio and cover art against the fixed local
// storage layout, deciding whether a network download is needed at all.
package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/domain"
)

// Resolver maps songs, albums and playlists onto the on-disk layout rooted
// at the application documents directory:
//
//	songs/<songId>.flac
//	covers/<albumId-or-entityId>.jpg
//	playlists/<playlistId>.jpg
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the documents directory the resolver is rooted at.
func (r *Resolver) Root() string {
	return r.root
}

// SongPath returns the expected location of a song's audio file, whether or
// not the file exists yet. This is also the download destination.
func (r *Resolver) SongPath(songID string) string {
	return filepath.Join(r.root, constants.SongsDir, songID+constants.ExtFLAC)
}

// IsDownloaded reports whether the song's audio file is present locally.
// A missing songs directory (first run) is plain false, never an error.
func (r *Resolver) IsDownloaded(song *domain.Song) bool {
	if song == nil || song.ID == "" {
		return false
	}
	return statFile(r.SongPath(song.ID))
}

// SongCoverPath returns the local cover file for a song and whether it
// exists. Cover art is keyed by the album id when present, else the song's
// own id.
func (r *Resolver) SongCoverPath(song *domain.Song) (string, bool) {
	if song == nil {
		return "", false
	}
	return r.coverPath(song.AlbumID, song.ID)
}

// AlbumCoverPath returns the local cover file for an album and whether it
// exists.
func (r *Resolver) AlbumCoverPath(album *domain.Album) (string, bool) {
	if album == nil {
		return "", false
	}
	return r.coverPath("", album.ID)
}

func (r *Resolver) coverPath(albumID, id string) (string, bool) {
	fileID := albumID
	if fileID == "" {
		fileID = id
	}
	if fileID == "" {
		return "", false
	}
	path := filepath.Join(r.root, constants.CoversDir, fileID+constants.ExtJPG)
	return path, statFile(path)
}

// PlaylistCoverPath returns the local cover file for a playlist and whether
// it exists.
func (r *Resolver) PlaylistCoverPath(playlistID int64) (string, bool) {
	path := filepath.Join(r.root, constants.PlaylistCoversDir, fmt.Sprintf("%d%s", playlistID, constants.ExtJPG))
	return path, statFile(path)
}

// ResolveSongImage returns a displayable artwork reference for a song:
// the locally cached cover when present, else the remote image URLs in
// decreasing size, else the album cover URL, else a static placeholder.
// It always produces a value.
func (r *Resolver) ResolveSongImage(song *domain.Song) string {
	if song == nil {
		return constants.PlaceholderImageRef
	}
	if path, ok := r.coverPath(song.AlbumID, song.ID); ok {
		return path
	}
	return fallbackImage(song.Images, song.AlbumCover)
}

// ResolveAlbumImage is the album-side counterpart of ResolveSongImage.
func (r *Resolver) ResolveAlbumImage(album *domain.Album) string {
	if album == nil {
		return constants.PlaceholderImageRef
	}
	if path, ok := r.coverPath("", album.ID); ok {
		return path
	}
	return fallbackImage(album.Images, album.Cover)
}

// ResolvePlaylistImage prefers the locally cached playlist cover, falling
// back to the stored image reference, then the placeholder.
func (r *Resolver) ResolvePlaylistImage(pl *domain.Playlist) string {
	if pl == nil {
		return constants.PlaceholderImageRef
	}
	if path, ok := r.PlaylistCoverPath(pl.ID); ok {
		return path
	}
	if pl.Image != "" {
		return pl.Image
	}
	return constants.PlaceholderImageRef
}

func fallbackImage(images domain.Images, cover string) string {
	switch {
	case images.Large != "":
		return images.Large
	case images.Small != "":
		return images.Small
	case images.Thumbnail != "":
		return images.Thumbnail
	case cover != "":
		return cover
	default:
		return constants.PlaceholderImageRef
	}
}

// statFile reports whether path exists and is a regular file. Any stat
// failure, including a missing parent directory, counts as absent.
func statFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
