package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/reewhy/musicplayer/internal/domain"
)

const insertSongQuery = `INSERT OR IGNORE INTO songs (
	id, title, artist, artistId, albumTitle, albumId, releaseDate, genre,
	duration, audioQuality, version, label, labelId, upc, mediaCount,
	parentalWarning, streamable, purchasable, previewable,
	genreId, genreSlug, genreColor, releaseDateStream, releaseDateDownload,
	maximumChannelCount, images, isrc
) VALUES (
	:id, :title, :artist, :artistId, :albumTitle, :albumId, :releaseDate, :genre,
	:duration, :audioQuality, :version, :label, :labelId, :upc, :mediaCount,
	:parentalWarning, :streamable, :purchasable, :previewable,
	:genreId, :genreSlug, :genreColor, :releaseDateStream, :releaseDateDownload,
	:maximumChannelCount, :images, :isrc
)`

// InsertSong caches a song row. Re-inserting an existing id is a no-op, the
// first-seen metadata wins.
func (s *Store) InsertSong(song *domain.Song) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.NamedExec(insertSongQuery, song); err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.ID, err)
	}
	return nil
}

// GetSong returns the cached song with the given id, or nil when absent.
func (s *Store) GetSong(id string) (*domain.Song, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var song domain.Song
	err = db.Get(&song, `SELECT * FROM songs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// ListSongs returns every cached song.
func (s *Store) ListSongs() ([]domain.Song, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return selectSongs(db, `SELECT * FROM songs`)
}

func (s *Store) DeleteSong(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	return err
}

func selectSongs(q sqlx.Queryer, query string, args ...interface{}) ([]domain.Song, error) {
	var songs []domain.Song
	err := sqlx.Select(q, &songs, query, args...)
	return songs, err
}
