package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/domain"
)

// CreatePlaylist inserts a new playlist and returns its assigned id.
func (s *Store) CreatePlaylist(name, image string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`INSERT INTO playlists (name, image) VALUES (?, ?)`, name, image)
	if err != nil {
		return 0, fmt.Errorf("failed to create playlist: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) RenamePlaylist(id int64, name string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE playlists SET name = ? WHERE id = ?`, name, id)
	return err
}

func (s *Store) SetPlaylistImage(id int64, image string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE playlists SET image = ? WHERE id = ?`, image, id)
	return err
}

// DeletePlaylist removes a playlist and its membership rows. Playlist 0 is
// the reserved Liked Songs playlist and cannot be deleted.
func (s *Store) DeletePlaylist(id int64) error {
	if id == constants.LikedSongsPlaylistID {
		return ErrReservedPlaylist
	}

	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec(`DELETE FROM playlists_tracks WHERE playlist = ?`, id); err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	return err
}

// GetPlaylist returns the playlist with its member songs in insertion order,
// or nil when absent.
func (s *Store) GetPlaylist(id int64) (*domain.Playlist, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var pl domain.Playlist
	err = db.Get(&pl, `SELECT * FROM playlists WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pl.Tracks, err = selectSongs(db, `
		SELECT s.* FROM playlists_tracks pt
		JOIN songs s ON s.id = pt.track
		WHERE pt.playlist = ?
		ORDER BY pt.rowid`, id)
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

// ListPlaylists returns every playlist, each resolved with its tracks.
func (s *Store) ListPlaylists() ([]domain.Playlist, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var playlists []domain.Playlist
	if err := db.Select(&playlists, `SELECT * FROM playlists ORDER BY id`); err != nil {
		return nil, err
	}

	for i := range playlists {
		tracks, err := selectSongs(db, `
			SELECT s.* FROM playlists_tracks pt
			JOIN songs s ON s.id = pt.track
			WHERE pt.playlist = ?
			ORDER BY pt.rowid`, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Tracks = tracks
	}
	return playlists, nil
}

// AddPlaylistTrack appends a membership edge. No uniqueness is enforced at
// this layer; callers guard against duplicate membership themselves.
func (s *Store) AddPlaylistTrack(playlist int64, track string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO playlists_tracks (playlist, track) VALUES (?, ?)`, playlist, track)
	return err
}

// RemovePlaylistTrack deletes the exact (playlist, track) pair.
func (s *Store) RemovePlaylistTrack(playlist int64, track string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM playlists_tracks WHERE playlist = ? AND track = ?`, playlist, track)
	return err
}

// IsTrackInPlaylist reports whether the song is a member of the playlist.
func (s *Store) IsTrackInPlaylist(playlist int64, track string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	var count int
	err = db.Get(&count, `SELECT COUNT(*) FROM playlists_tracks WHERE playlist = ? AND track = ?`, playlist, track)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
