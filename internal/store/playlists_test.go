package store

import (
	"errors"
	"testing"

	"github.com/reewhy/musicplayer/internal/constants"
)

func TestCreatePlaylist(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Road Trip", "cover.jpg")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if id <= constants.LikedSongsPlaylistID {
		t.Errorf("Expected auto-assigned id above the reserved one, got %d", id)
	}

	pl, err := s.GetPlaylist(id)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if pl == nil || pl.Name != "Road Trip" {
		t.Errorf("Expected playlist Road Trip, got %+v", pl)
	}
	if len(pl.Tracks) != 0 {
		t.Errorf("Expected empty playlist, got %d tracks", len(pl.Tracks))
	}
}

func TestDeletePlaylistZeroRejected(t *testing.T) {
	s := setupTestDB(t)

	err := s.DeletePlaylist(constants.LikedSongsPlaylistID)
	if !errors.Is(err, ErrReservedPlaylist) {
		t.Errorf("Expected ErrReservedPlaylist, got %v", err)
	}

	pl, err := s.GetPlaylist(constants.LikedSongsPlaylistID)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if pl == nil {
		t.Error("Expected Liked Songs playlist to survive a delete attempt")
	}
}

func TestDeletePlaylistRemovesMembership(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Mix", "")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := s.InsertSong(testSong("s1")); err != nil {
		t.Fatalf("InsertSong failed: %v", err)
	}
	if err := s.AddPlaylistTrack(id, "s1"); err != nil {
		t.Fatalf("AddPlaylistTrack failed: %v", err)
	}

	if err := s.DeletePlaylist(id); err != nil {
		t.Fatalf("DeletePlaylist failed: %v", err)
	}

	ok, err := s.IsTrackInPlaylist(id, "s1")
	if err != nil {
		t.Fatalf("IsTrackInPlaylist failed: %v", err)
	}
	if ok {
		t.Error("Expected membership rows to be removed with the playlist")
	}
}

func TestRenamePlaylist(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Old", "")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := s.RenamePlaylist(id, "New"); err != nil {
		t.Fatalf("RenamePlaylist failed: %v", err)
	}

	pl, _ := s.GetPlaylist(id)
	if pl.Name != "New" {
		t.Errorf("Expected renamed playlist, got %q", pl.Name)
	}
}

func TestSetPlaylistImage(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Mix", "")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := s.SetPlaylistImage(id, "new.jpg"); err != nil {
		t.Fatalf("SetPlaylistImage failed: %v", err)
	}

	pl, _ := s.GetPlaylist(id)
	if pl.Image != "new.jpg" {
		t.Errorf("Expected updated image, got %q", pl.Image)
	}
}

func TestMembership(t *testing.T) {
	s := setupTestDB(t)

	for _, id := range []string{"s1", "s2"} {
		if err := s.InsertSong(testSong(id)); err != nil {
			t.Fatalf("InsertSong failed: %v", err)
		}
		if err := s.AddPlaylistTrack(constants.LikedSongsPlaylistID, id); err != nil {
			t.Fatalf("AddPlaylistTrack failed: %v", err)
		}
	}

	ok, err := s.IsTrackInPlaylist(constants.LikedSongsPlaylistID, "s1")
	if err != nil {
		t.Fatalf("IsTrackInPlaylist failed: %v", err)
	}
	if !ok {
		t.Error("Expected s1 to be liked")
	}

	if err := s.RemovePlaylistTrack(constants.LikedSongsPlaylistID, "s1"); err != nil {
		t.Fatalf("RemovePlaylistTrack failed: %v", err)
	}

	ok, err = s.IsTrackInPlaylist(constants.LikedSongsPlaylistID, "s1")
	if err != nil {
		t.Fatalf("IsTrackInPlaylist failed: %v", err)
	}
	if ok {
		t.Error("Expected s1 to be unliked")
	}

	// Removing the membership does not purge the cached song row.
	song, err := s.GetSong("s1")
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if song == nil {
		t.Error("Expected song row to persist after unlike")
	}
}

func TestPlaylistTracksOrdered(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Ordered", "")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	order := []string{"s3", "s1", "s2"}
	for _, sid := range order {
		if err := s.InsertSong(testSong(sid)); err != nil {
			t.Fatalf("InsertSong failed: %v", err)
		}
		if err := s.AddPlaylistTrack(id, sid); err != nil {
			t.Fatalf("AddPlaylistTrack failed: %v", err)
		}
	}

	pl, err := s.GetPlaylist(id)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if len(pl.Tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(pl.Tracks))
	}
	for i, sid := range order {
		if pl.Tracks[i].ID != sid {
			t.Errorf("Expected track %d to be %s, got %s", i, sid, pl.Tracks[i].ID)
		}
	}
}

func TestDuplicateMembershipAllowed(t *testing.T) {
	s := setupTestDB(t)

	id, err := s.CreatePlaylist("Dups", "")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := s.InsertSong(testSong("s1")); err != nil {
		t.Fatalf("InsertSong failed: %v", err)
	}

	// The storage layer enforces no uniqueness on the membership edge.
	if err := s.AddPlaylistTrack(id, "s1"); err != nil {
		t.Fatalf("AddPlaylistTrack failed: %v", err)
	}
	if err := s.AddPlaylistTrack(id, "s1"); err != nil {
		t.Fatalf("Duplicate AddPlaylistTrack failed: %v", err)
	}

	pl, err := s.GetPlaylist(id)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if len(pl.Tracks) != 2 {
		t.Errorf("Expected duplicate membership to yield 2 rows, got %d", len(pl.Tracks))
	}
}
