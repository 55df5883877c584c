// Package library is the application-facing boundary over the local store.
// Writes report success as a boolean and reads degrade to nil or empty
// results, so callers above this line never see a raw storage error; every
// failure is logged here before it is swallowed.
package library

import (
	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/domain"
	"github.com/reewhy/musicplayer/internal/logger"
	"github.com/reewhy/musicplayer/internal/store"
)

type Library struct {
	store *store.Store
	log   *logger.Logger
}

func New(st *store.Store, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Default()
	}
	return &Library{
		store: st,
		log:   log.WithComponent("library"),
	}
}

// SaveSong stores a song locally. Re-saving an already known song succeeds
// without touching the existing row.
func (l *Library) SaveSong(song *domain.Song) bool {
	if err := l.store.InsertSong(song); err != nil {
		l.log.Error("Failed to save song", "songID", song.ID, "error", err)
		return false
	}
	return true
}

// GetSong returns the stored song or nil when it is unknown.
func (l *Library) GetSong(id string) *domain.Song {
	song, err := l.store.GetSong(id)
	if err != nil {
		l.log.Error("Failed to load song", "songID", id, "error", err)
		return nil
	}
	return song
}

// ListSongs returns every stored song, or an empty slice on failure.
func (l *Library) ListSongs() []domain.Song {
	songs, err := l.store.ListSongs()
	if err != nil {
		l.log.Error("Failed to list songs", "error", err)
		return nil
	}
	return songs
}

func (l *Library) RemoveSong(id string) bool {
	if err := l.store.DeleteSong(id); err != nil {
		l.log.Error("Failed to remove song", "songID", id, "error", err)
		return false
	}
	return true
}

// LikeSong stores the song and adds it to the liked-songs playlist. Liking
// an already liked song succeeds without adding a second membership row.
func (l *Library) LikeSong(song *domain.Song) bool {
	if err := l.store.InsertSong(song); err != nil {
		l.log.Error("Failed to store liked song", "songID", song.ID, "error", err)
		return false
	}
	liked, err := l.store.IsTrackInPlaylist(constants.LikedSongsPlaylistID, song.ID)
	if err != nil {
		l.log.Error("Failed to check liked state", "songID", song.ID, "error", err)
		return false
	}
	if liked {
		return true
	}
	if err := l.store.AddPlaylistTrack(constants.LikedSongsPlaylistID, song.ID); err != nil {
		l.log.Error("Failed to like song", "songID", song.ID, "error", err)
		return false
	}
	return true
}

// UnlikeSong removes the song from the liked-songs playlist. The song row
// itself stays: it may still be a member of other playlists or a saved album.
func (l *Library) UnlikeSong(songID string) bool {
	if err := l.store.RemovePlaylistTrack(constants.LikedSongsPlaylistID, songID); err != nil {
		l.log.Error("Failed to unlike song", "songID", songID, "error", err)
		return false
	}
	return true
}

func (l *Library) IsLiked(songID string) bool {
	liked, err := l.store.IsTrackInPlaylist(constants.LikedSongsPlaylistID, songID)
	if err != nil {
		l.log.Error("Failed to check liked state", "songID", songID, "error", err)
		return false
	}
	return liked
}

// SaveAlbum stores the album row and all of its tracks. Track failures do
// not abort the batch; the album counts as saved if its row went in, and
// partial track failures are logged with a count.
func (l *Library) SaveAlbum(album *domain.Album) bool {
	if err := l.store.InsertAlbum(album); err != nil {
		l.log.Error("Failed to save album", "albumID", album.ID, "error", err)
		return false
	}

	var failed int
	for i := range album.Tracks {
		track := &album.Tracks[i]
		if track.AlbumID == "" {
			track.AlbumID = album.ID
		}
		if err := l.store.InsertSong(track); err != nil {
			failed++
			l.log.Error("Failed to save album track", "albumID", album.ID, "songID", track.ID, "error", err)
		}
	}
	if failed > 0 {
		l.log.Warn("Album saved with missing tracks", "albumID", album.ID, "failed", failed, "total", len(album.Tracks))
	}
	return true
}

func (l *Library) GetAlbum(id string) *domain.Album {
	album, err := l.store.GetAlbum(id)
	if err != nil {
		l.log.Error("Failed to load album", "albumID", id, "error", err)
		return nil
	}
	return album
}

func (l *Library) ListAlbums() []domain.Album {
	albums, err := l.store.ListAlbums()
	if err != nil {
		l.log.Error("Failed to list albums", "error", err)
		return nil
	}
	return albums
}

func (l *Library) IsAlbumSaved(id string) bool {
	saved, err := l.store.HasAlbum(id)
	if err != nil {
		l.log.Error("Failed to check album", "albumID", id, "error", err)
		return false
	}
	return saved
}

// RemoveAlbum deletes the album row. Track rows are left alone so songs
// referenced elsewhere keep their metadata.
func (l *Library) RemoveAlbum(id string) bool {
	if err := l.store.DeleteAlbum(id); err != nil {
		l.log.Error("Failed to remove album", "albumID", id, "error", err)
		return false
	}
	return true
}

// CreatePlaylist returns the new playlist id, or -1 on failure.
func (l *Library) CreatePlaylist(name, image string) int64 {
	id, err := l.store.CreatePlaylist(name, image)
	if err != nil {
		l.log.Error("Failed to create playlist", "name", name, "error", err)
		return -1
	}
	return id
}

func (l *Library) RenamePlaylist(id int64, name string) bool {
	if err := l.store.RenamePlaylist(id, name); err != nil {
		l.log.Error("Failed to rename playlist", "playlistID", id, "error", err)
		return false
	}
	return true
}

func (l *Library) SetPlaylistImage(id int64, image string) bool {
	if err := l.store.SetPlaylistImage(id, image); err != nil {
		l.log.Error("Failed to update playlist image", "playlistID", id, "error", err)
		return false
	}
	return true
}

// DeletePlaylist removes a playlist and its membership rows. The liked-songs
// playlist is refused.
func (l *Library) DeletePlaylist(id int64) bool {
	if err := l.store.DeletePlaylist(id); err != nil {
		l.log.Error("Failed to delete playlist", "playlistID", id, "error", err)
		return false
	}
	return true
}

func (l *Library) GetPlaylist(id int64) *domain.Playlist {
	pl, err := l.store.GetPlaylist(id)
	if err != nil {
		l.log.Error("Failed to load playlist", "playlistID", id, "error", err)
		return nil
	}
	return pl
}

func (l *Library) ListPlaylists() []domain.Playlist {
	playlists, err := l.store.ListPlaylists()
	if err != nil {
		l.log.Error("Failed to list playlists", "error", err)
		return nil
	}
	return playlists
}

// AddToPlaylist stores the song if needed and appends it to the playlist.
// A song already in the playlist is left where it is.
func (l *Library) AddToPlaylist(playlistID int64, song *domain.Song) bool {
	if err := l.store.InsertSong(song); err != nil {
		l.log.Error("Failed to store playlist song", "playlistID", playlistID, "songID", song.ID, "error", err)
		return false
	}
	in, err := l.store.IsTrackInPlaylist(playlistID, song.ID)
	if err != nil {
		l.log.Error("Failed to check playlist membership", "playlistID", playlistID, "songID", song.ID, "error", err)
		return false
	}
	if in {
		return true
	}
	if err := l.store.AddPlaylistTrack(playlistID, song.ID); err != nil {
		l.log.Error("Failed to add song to playlist", "playlistID", playlistID, "songID", song.ID, "error", err)
		return false
	}
	return true
}

func (l *Library) RemoveFromPlaylist(playlistID int64, songID string) bool {
	if err := l.store.RemovePlaylistTrack(playlistID, songID); err != nil {
		l.log.Error("Failed to remove song from playlist", "playlistID", playlistID, "songID", songID, "error", err)
		return false
	}
	return true
}

func (l *Library) IsInPlaylist(playlistID int64, songID string) bool {
	in, err := l.store.IsTrackInPlaylist(playlistID, songID)
	if err != nil {
		l.log.Error("Failed to check playlist membership", "playlistID", playlistID, "songID", songID, "error", err)
		return false
	}
	return in
}

// LikedSongs returns the liked-songs playlist contents in like order.
func (l *Library) LikedSongs() []domain.Song {
	pl := l.GetPlaylist(constants.LikedSongsPlaylistID)
	if pl == nil {
		return nil
	}
	return pl.Tracks
}
