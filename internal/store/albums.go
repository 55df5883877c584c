package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/reewhy/musicplayer/internal/domain"
)

const insertAlbumQuery = `INSERT OR IGNORE INTO albums (
	id, title, artist, artistId, releaseDate, cover, genre,
	trackCount, audioQuality, label, genreId, images
) VALUES (
	:id, :title, :artist, :artistId, :releaseDate, :cover, :genre,
	:trackCount, :audioQuality, :label, :genreId, :images
)`

// InsertAlbum caches an album row. Constituent tracks are not stored here;
// they live in the songs table keyed by albumId.
func (s *Store) InsertAlbum(album *domain.Album) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.NamedExec(insertAlbumQuery, album); err != nil {
		return fmt.Errorf("failed to insert album %s: %w", album.ID, err)
	}
	return nil
}

// GetAlbum returns the cached album with its tracks resolved by joining
// songs on albumId, or nil when absent.
func (s *Store) GetAlbum(id string) (*domain.Album, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var album domain.Album
	err = db.Get(&album, `SELECT * FROM albums WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	album.Tracks, err = selectSongs(db, `SELECT * FROM songs WHERE albumId = ?`, id)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// ListAlbums returns every cached album, each resolved with its tracks.
func (s *Store) ListAlbums() ([]domain.Album, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var albums []domain.Album
	if err := db.Select(&albums, `SELECT * FROM albums`); err != nil {
		return nil, err
	}

	for i := range albums {
		tracks, err := selectSongs(db, `SELECT * FROM songs WHERE albumId = ?`, albums[i].ID)
		if err != nil {
			return nil, err
		}
		albums[i].Tracks = tracks
	}
	return albums, nil
}

// HasAlbum reports whether the album is cached locally.
func (s *Store) HasAlbum(id string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM albums WHERE id = ?`, id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) DeleteAlbum(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM albums WHERE id = ?`, id)
	return err
}
