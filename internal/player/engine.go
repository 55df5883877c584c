// Package player holds the in-memory playback queue and drives the native
// audio engine through playback transitions. Queue state is process-wide and
// never persisted.
package player

import (
	"context"
	"math/rand"
	"os"
	"sync"

	"github.com/reewhy/musicplayer/internal/assets"
	"github.com/reewhy/musicplayer/internal/catalog"
	"github.com/reewhy/musicplayer/internal/domain"
	"github.com/reewhy/musicplayer/internal/logger"
	"github.com/reewhy/musicplayer/internal/tagging"
)

// StreamSource resolves a track to a streamable URL and transfers it to a
// local file. *catalog.Client satisfies it.
type StreamSource interface {
	GetStreamURL(ctx context.Context, trackID string, quality int) (string, error)
	Download(ctx context.Context, rawURL, dest string, onProgress catalog.ProgressFunc) error
}

// Status is a point-in-time snapshot of the queue state.
type Status struct {
	CurrentSong  *domain.Song      `json:"currentSong,omitempty"`
	Queue        []domain.Song     `json:"queue"`
	CurrentIndex int               `json:"currentIndex"`
	IsPlaying    bool              `json:"isPlaying"`
	IsLoading    bool              `json:"isLoading"`
	Shuffle      bool              `json:"shuffle"`
	Repeat       domain.RepeatMode `json:"repeat"`
}

// Engine is the queue state machine. All entry points are safe for
// concurrent use; the mutex is released around downloads and audio-engine
// commands, and a load generation counter makes sure a transition that was
// superseded while suspended never commits its result.
type Engine struct {
	audio    AudioEngine
	source   StreamSource
	resolver *assets.Resolver
	quality  int
	log      *logger.Logger
	rng      *rand.Rand

	mu       sync.Mutex // held across state mutation only, never across I/O
	current  *domain.Song
	queue    []domain.Song
	original []domain.Song
	index    int
	playing  bool
	loading  bool
	shuffle  bool
	repeat   domain.RepeatMode
	loadGen  uint64
}

func NewEngine(audio AudioEngine, source StreamSource, resolver *assets.Resolver, quality int, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	e := &Engine{
		audio:    audio,
		source:   source,
		resolver: resolver,
		quality:  quality,
		log:      log.WithComponent("player"),
		rng:      rand.New(rand.NewSource(rand.Int63())),
		index:    -1,
		repeat:   domain.RepeatNone,
	}
	return e
}

// Status returns a snapshot of the current queue state. The returned queue
// slice is a copy.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Queue:        append([]domain.Song(nil), e.queue...),
		CurrentIndex: e.index,
		IsPlaying:    e.playing,
		IsLoading:    e.loading,
		Shuffle:      e.shuffle,
		Repeat:       e.repeat,
	}
	if e.current != nil {
		song := *e.current
		st.CurrentSong = &song
	}
	return st
}

// PlaySong makes song the current track and starts playback. When newQueue
// is non-nil it replaces the queue first; otherwise the existing queue is
// kept as is, and a song outside it plays without a queue slot. Returns
// false when any step failed, in which case queue state is left as it was
// apart from the loading flag.
func (e *Engine) PlaySong(ctx context.Context, song *domain.Song, newQueue []domain.Song, onProgress catalog.ProgressFunc) bool {
	if song == nil || song.ID == "" {
		return false
	}

	e.mu.Lock()
	if newQueue != nil {
		e.queue = append([]domain.Song(nil), newQueue...)
		e.original = append([]domain.Song(nil), newQueue...)
		e.index = indexOf(e.queue, song.ID)
		if e.shuffle {
			e.shuffleLocked()
		}
	}
	e.mu.Unlock()

	return e.load(ctx, song, onProgress)
}

// PlayFromQueue starts playback at the given queue index. Out-of-range
// indexes are rejected without mutating anything.
func (e *Engine) PlayFromQueue(ctx context.Context, index int, onProgress catalog.ProgressFunc) bool {
	e.mu.Lock()
	if index < 0 || index >= len(e.queue) {
		e.mu.Unlock()
		e.log.Warn("Queue index out of range", "index", index, "queueLength", len(e.queue))
		return false
	}
	song := e.queue[index]
	e.mu.Unlock()

	return e.load(ctx, &song, onProgress)
}

// PlayNext advances to the following track. At the end of the queue it
// wraps only under repeat-all; otherwise it reports failure and leaves the
// queue untouched.
func (e *Engine) PlayNext(ctx context.Context, onProgress catalog.ProgressFunc) bool {
	e.mu.Lock()
	next := e.index + 1
	if next >= len(e.queue) {
		if e.repeat != domain.RepeatAll || len(e.queue) == 0 {
			e.mu.Unlock()
			return false
		}
		next = 0
	}
	e.mu.Unlock()
	return e.PlayFromQueue(ctx, next, onProgress)
}

// PlayPrevious steps back one track, wrapping to the end under repeat-all.
func (e *Engine) PlayPrevious(ctx context.Context, onProgress catalog.ProgressFunc) bool {
	e.mu.Lock()
	prev := e.index - 1
	if prev < 0 {
		if e.repeat != domain.RepeatAll || len(e.queue) == 0 {
			e.mu.Unlock()
			return false
		}
		prev = len(e.queue) - 1
	}
	e.mu.Unlock()
	return e.PlayFromQueue(ctx, prev, onProgress)
}

// load runs the loading transition for song: ensure the local asset exists
// (downloading it if needed), hand it to the audio engine and commit the new
// current track. The mutex is dropped across every blocking step, so before
// committing it re-checks that no other transition superseded this one.
func (e *Engine) load(ctx context.Context, song *domain.Song, onProgress catalog.ProgressFunc) bool {
	e.mu.Lock()
	e.loadGen++
	gen := e.loadGen
	e.loading = true
	var prevID string
	if e.current != nil && e.current.ID != song.ID {
		prevID = e.current.ID
	}
	e.mu.Unlock()

	if prevID != "" {
		if err := e.audio.Stop(prevID); err != nil {
			e.log.Warn("Failed to stop previous track", "songID", prevID, "error", err)
		}
		if err := e.audio.Destroy(prevID); err != nil {
			e.log.Warn("Failed to release previous track", "songID", prevID, "error", err)
		}
	}

	path := e.resolver.SongPath(song.ID)
	if !e.resolver.IsDownloaded(song) {
		url, err := e.source.GetStreamURL(ctx, song.ID, e.quality)
		if err != nil {
			e.log.Error("Failed to resolve stream", "songID", song.ID, "error", err)
			return e.abortLoad(gen)
		}
		if err := e.source.Download(ctx, url, path, onProgress); err != nil {
			e.log.Error("Failed to download track", "songID", song.ID, "error", err)
			return e.abortLoad(gen)
		}
		if err := tagging.TagFile(path, song, e.coverArt(song)); err != nil {
			// The file plays fine without tags.
			e.log.Warn("Failed to tag downloaded track", "songID", song.ID, "error", err)
		}
	}

	meta := TrackMetadata{
		Title:      song.Title,
		Artist:     song.Artist,
		Album:      song.AlbumTitle,
		ArtworkURL: e.resolver.ResolveSongImage(song),
	}
	if err := e.audio.Create(path, song.ID, meta); err != nil {
		e.log.Error("Failed to load track", "songID", song.ID, "error", err)
		return e.abortLoad(gen)
	}
	if backend, ok := e.audio.(interface{ SetDuration(string, float64) error }); ok && song.Duration > 0 {
		if err := backend.SetDuration(song.ID, song.Duration); err != nil {
			e.log.Warn("Failed to set track duration", "songID", song.ID, "error", err)
		}
	}
	if err := e.audio.OnEnded(song.ID, func() { e.handleTrackEnd(song.ID) }); err != nil {
		e.log.Error("Failed to register completion handler", "songID", song.ID, "error", err)
		return e.abortLoad(gen)
	}
	if err := e.audio.OnStatusChanged(song.ID, func(playing bool) { e.handleStatusChange(song.ID, playing) }); err != nil {
		e.log.Error("Failed to register status handler", "songID", song.ID, "error", err)
		return e.abortLoad(gen)
	}
	if err := e.audio.Play(song.ID); err != nil {
		e.log.Error("Failed to start playback", "songID", song.ID, "error", err)
		return e.abortLoad(gen)
	}

	e.mu.Lock()
	if gen != e.loadGen {
		// A newer transition or a queue clear won the race; this result
		// is stale and must not become current.
		e.mu.Unlock()
		if err := e.audio.Stop(song.ID); err != nil {
			e.log.Warn("Failed to stop stale track", "songID", song.ID, "error", err)
		}
		e.log.Info("Discarding superseded load", "songID", song.ID)
		return false
	}

	// A song played from outside the queue leaves the queue alone; the
	// index just reports that the current track holds no slot.
	e.index = indexOf(e.queue, song.ID)
	current := *song
	e.current = &current
	e.playing = true
	e.loading = false
	e.mu.Unlock()

	e.log.Info("Now playing", "songID", song.ID, "title", song.Title)
	return true
}

// coverArt returns the locally cached cover bytes for song, or nil when no
// cover file exists.
func (e *Engine) coverArt(song *domain.Song) []byte {
	path, ok := e.resolver.SongCoverPath(song)
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// abortLoad clears the loading flag if this transition still owns it.
func (e *Engine) abortLoad(gen uint64) bool {
	e.mu.Lock()
	if gen == e.loadGen {
		e.loading = false
	}
	e.mu.Unlock()
	return false
}

// handleStatusChange keeps the playing flag in sync when playback is paused
// or resumed from outside the engine, e.g. via platform media controls.
func (e *Engine) handleStatusChange(songID string, playing bool) {
	e.mu.Lock()
	if e.current != nil && e.current.ID == songID {
		e.playing = playing
	}
	e.mu.Unlock()
}

// handleTrackEnd is invoked by the audio engine when a track finishes.
func (e *Engine) handleTrackEnd(songID string) {
	e.mu.Lock()
	if e.current == nil || e.current.ID != songID {
		e.mu.Unlock()
		return
	}
	repeat := e.repeat
	e.mu.Unlock()

	if repeat == domain.RepeatOne {
		if err := e.audio.Seek(songID, 0); err != nil {
			e.log.Warn("Failed to rewind track", "songID", songID, "error", err)
			return
		}
		if err := e.audio.Play(songID); err != nil {
			e.log.Warn("Failed to replay track", "songID", songID, "error", err)
		}
		return
	}

	if !e.PlayNext(context.Background(), nil) {
		// End of the queue. The queue and index stay so the UI can show
		// where playback ended.
		e.mu.Lock()
		e.current = nil
		e.playing = false
		e.mu.Unlock()
	}
}

// SetQueue replaces the queue and its restoration baseline. startIndex
// selects the current slot; anything out of range becomes -1. Playback is
// not started. With shuffle enabled the new queue is reshuffled at once.
func (e *Engine) SetQueue(songs []domain.Song, startIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queue = append([]domain.Song(nil), songs...)
	e.original = append([]domain.Song(nil), songs...)
	if startIndex < 0 || startIndex >= len(e.queue) {
		e.index = -1
	} else {
		e.index = startIndex
	}
	if e.shuffle {
		e.shuffleLocked()
	}
}

// AddToQueue inserts the song at position in both the queue and the
// restoration baseline, defaulting to the end. A position at or before the
// current slot shifts the index so it keeps pointing at the same song.
func (e *Engine) AddToQueue(song domain.Song, position ...int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := len(e.queue)
	if len(position) > 0 && position[0] >= 0 && position[0] < len(e.queue) {
		pos = position[0]
	}

	e.queue = insertSong(e.queue, pos, song)
	opos := pos
	if opos > len(e.original) {
		opos = len(e.original)
	}
	e.original = insertSong(e.original, opos, song)
	if pos <= e.index {
		e.index++
	}
}

// RemoveFromQueue drops the song at index from the queue and from the
// restoration baseline. Removing the current slot stops playback and clears
// the current song.
func (e *Engine) RemoveFromQueue(index int) bool {
	e.mu.Lock()
	if index < 0 || index >= len(e.queue) {
		e.mu.Unlock()
		return false
	}

	removed := e.queue[index]
	e.queue = append(e.queue[:index], e.queue[index+1:]...)
	if oi := indexOf(e.original, removed.ID); oi >= 0 {
		e.original = append(e.original[:oi], e.original[oi+1:]...)
	}

	var stopID string
	switch {
	case index < e.index:
		e.index--
	case index == e.index:
		if e.current != nil {
			stopID = e.current.ID
		}
		e.current = nil
		e.playing = false
		e.loading = false
		e.loadGen++ // invalidate an in-flight load of the removed slot
		if e.index >= len(e.queue) {
			e.index = len(e.queue) - 1
		}
	}
	e.mu.Unlock()

	if stopID != "" {
		if err := e.audio.Stop(stopID); err != nil {
			e.log.Warn("Failed to stop removed track", "songID", stopID, "error", err)
		}
		if err := e.audio.Destroy(stopID); err != nil {
			e.log.Warn("Failed to release removed track", "songID", stopID, "error", err)
		}
	}
	return true
}

// ClearQueue stops playback and empties the queue.
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	var stopID string
	if e.current != nil {
		stopID = e.current.ID
	}
	e.queue = nil
	e.original = nil
	e.index = -1
	e.current = nil
	e.playing = false
	e.loading = false
	e.loadGen++
	e.mu.Unlock()

	if stopID != "" {
		if err := e.audio.Stop(stopID); err != nil {
			e.log.Warn("Failed to stop track", "songID", stopID, "error", err)
		}
		if err := e.audio.Destroy(stopID); err != nil {
			e.log.Warn("Failed to release track", "songID", stopID, "error", err)
		}
	}
}

// ToggleShuffle switches shuffle on or off. Switching on shuffles the queue
// around the current song; switching off restores the original order and
// relocates the current slot by song id.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shuffle = !e.shuffle
	if e.shuffle {
		e.shuffleLocked()
	} else {
		e.queue = append([]domain.Song(nil), e.original...)
		if e.current != nil {
			e.index = indexOf(e.queue, e.current.ID)
		} else {
			e.index = -1
		}
	}
	return e.shuffle
}

// shuffleLocked Fisher-Yates shuffles the queue, keeping the current song
// pinned at position 0. Caller holds the lock.
func (e *Engine) shuffleLocked() {
	if len(e.queue) < 2 {
		return
	}

	if e.index < 0 || e.index >= len(e.queue) {
		e.rng.Shuffle(len(e.queue), func(i, j int) {
			e.queue[i], e.queue[j] = e.queue[j], e.queue[i]
		})
		return
	}

	current := e.queue[e.index]
	rest := make([]domain.Song, 0, len(e.queue)-1)
	rest = append(rest, e.queue[:e.index]...)
	rest = append(rest, e.queue[e.index+1:]...)
	e.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	e.queue = append([]domain.Song{current}, rest...)
	e.index = 0
}

// SetRepeat selects the repeat behavior applied when a track completes.
func (e *Engine) SetRepeat(mode domain.RepeatMode) {
	e.mu.Lock()
	e.repeat = mode
	e.mu.Unlock()
}

// Pause suspends playback of the current track.
func (e *Engine) Pause() bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.Pause(id); err != nil {
		e.log.Warn("Failed to pause", "songID", id, "error", err)
		return false
	}
	e.setPlaying(false)
	return true
}

// Resume continues playback of a paused track.
func (e *Engine) Resume() bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.Resume(id); err != nil {
		e.log.Warn("Failed to resume", "songID", id, "error", err)
		return false
	}
	e.setPlaying(true)
	return true
}

// Stop halts playback but keeps the queue and current slot.
func (e *Engine) Stop() bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.Stop(id); err != nil {
		e.log.Warn("Failed to stop", "songID", id, "error", err)
		return false
	}
	e.setPlaying(false)
	return true
}

// Seek moves the playhead of the current track.
func (e *Engine) Seek(seconds float64) bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.Seek(id, seconds); err != nil {
		e.log.Warn("Failed to seek", "songID", id, "error", err)
		return false
	}
	return true
}

func (e *Engine) SetVolume(volume float64) bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.SetVolume(id, volume); err != nil {
		e.log.Warn("Failed to set volume", "songID", id, "error", err)
		return false
	}
	return true
}

func (e *Engine) SetRate(rate float64) bool {
	id, ok := e.currentID()
	if !ok {
		return false
	}
	if err := e.audio.SetRate(id, rate); err != nil {
		e.log.Warn("Failed to set rate", "songID", id, "error", err)
		return false
	}
	return true
}

// Position reports the playhead and duration of the current track in
// seconds. Both are zero when nothing is loaded.
func (e *Engine) Position() (current, duration float64) {
	id, ok := e.currentID()
	if !ok {
		return 0, 0
	}
	current, err := e.audio.CurrentTime(id)
	if err != nil {
		e.log.Warn("Failed to read playhead", "songID", id, "error", err)
		return 0, 0
	}
	duration, err = e.audio.Duration(id)
	if err != nil {
		e.log.Warn("Failed to read duration", "songID", id, "error", err)
		return current, 0
	}
	return current, duration
}

func (e *Engine) currentID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return "", false
	}
	return e.current.ID, true
}

func (e *Engine) setPlaying(playing bool) {
	e.mu.Lock()
	e.playing = playing
	e.mu.Unlock()
}

func indexOf(songs []domain.Song, id string) int {
	for i := range songs {
		if songs[i].ID == id {
			return i
		}
	}
	return -1
}

func insertSong(songs []domain.Song, pos int, song domain.Song) []domain.Song {
	songs = append(songs, domain.Song{})
	copy(songs[pos+1:], songs[pos:])
	songs[pos] = song
	return songs
}
