package store

import (
	"path/filepath"
	"testing"

	"github.com/reewhy/musicplayer/internal/constants"
	"github.com/reewhy/musicplayer/internal/domain"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()

	s := New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err := s.Open(); err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("store.Close error: %v", err)
		}
	})
	return s
}

func testSong(id string) *domain.Song {
	return &domain.Song{
		ID:         id,
		Title:      "Song " + id,
		Artist:     "Artist",
		ArtistID:   "a1",
		AlbumTitle: "Album",
		AlbumID:    "al1",
		Genre:      "Rock",
		Duration:   215.4,
		Streamable: true,
		AudioQuality: domain.AudioQuality{
			MaximumBitDepth:     24,
			MaximumSamplingRate: 96,
			IsHiRes:             true,
		},
		Images: domain.Images{
			Small: "https://example.com/s.jpg",
			Large: "https://example.com/l.jpg",
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	s := setupTestDB(t)

	if err := s.Open(); err != nil {
		t.Fatalf("Second Open failed: %v", err)
	}

	// The connection must still be usable after the no-op reopen.
	if err := s.InsertSong(testSong("s1")); err != nil {
		t.Errorf("InsertSong after reopen failed: %v", err)
	}
}

func TestQueryBeforeOpen(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "test.db"), nil)

	if err := s.InsertSong(testSong("s1")); err != ErrNotOpen {
		t.Errorf("Expected ErrNotOpen, got %v", err)
	}
	if _, err := s.GetSong("s1"); err != ErrNotOpen {
		t.Errorf("Expected ErrNotOpen, got %v", err)
	}
}

func TestLikedSongsSeed(t *testing.T) {
	s := setupTestDB(t)

	pl, err := s.GetPlaylist(constants.LikedSongsPlaylistID)
	if err != nil {
		t.Fatalf("GetPlaylist(0) failed: %v", err)
	}
	if pl == nil {
		t.Fatal("Expected Liked Songs playlist to be seeded")
	}
	if pl.Name != constants.LikedSongsName {
		t.Errorf("Expected name %q, got %q", constants.LikedSongsName, pl.Name)
	}
	if pl.Image == "" {
		t.Error("Expected seeded playlist to have a default cover")
	}
}

func TestReset(t *testing.T) {
	s := setupTestDB(t)

	if err := s.InsertSong(testSong("s1")); err != nil {
		t.Fatalf("InsertSong failed: %v", err)
	}
	if _, err := s.CreatePlaylist("Mix", ""); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	song, err := s.GetSong("s1")
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if song != nil {
		t.Error("Expected songs to be gone after reset")
	}

	// The reserved playlist is re-seeded.
	pl, err := s.GetPlaylist(constants.LikedSongsPlaylistID)
	if err != nil || pl == nil {
		t.Fatalf("Expected Liked Songs to survive reset, got pl=%v err=%v", pl, err)
	}

	playlists, err := s.ListPlaylists()
	if err != nil {
		t.Fatalf("ListPlaylists failed: %v", err)
	}
	if len(playlists) != 1 {
		t.Errorf("Expected only the seeded playlist after reset, got %d", len(playlists))
	}
}
