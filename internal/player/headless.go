package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/reewhy/musicplayer/internal/logger"
)

// HeadlessAudio is an AudioEngine with no audio output. It keeps per-track
// playback state and fires the completion callback on a timer scaled to the
// track duration, which makes queue advancement observable when the binary
// runs without a platform audio backend.
type HeadlessAudio struct {
	log *logger.Logger

	mu     sync.Mutex
	tracks map[string]*headlessTrack
}

type headlessTrack struct {
	source   string
	duration float64
	position float64
	rate     float64
	playing  bool
	started  time.Time
	timer    *time.Timer
	onEnded  func()
	onStatus func(playing bool)
}

// setPlayingLocked flips the playing flag and returns the status callback to
// invoke once the lock is released, or nil when nothing changed. Caller
// holds the lock.
func setPlayingLocked(tr *headlessTrack, playing bool) func() {
	if tr.playing == playing {
		return nil
	}
	tr.playing = playing
	if tr.onStatus == nil {
		return nil
	}
	fn := tr.onStatus
	return func() { fn(playing) }
}

func NewHeadlessAudio(log *logger.Logger) *HeadlessAudio {
	if log == nil {
		log = logger.Default()
	}
	return &HeadlessAudio{
		log:    log.WithComponent("audio"),
		tracks: make(map[string]*headlessTrack),
	}
}

func (h *HeadlessAudio) Create(source, id string, meta TrackMetadata) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[id]; ok && tr.timer != nil {
		tr.timer.Stop()
	}
	h.tracks[id] = &headlessTrack{
		source:   source,
		duration: 0,
		rate:     1,
	}
	h.log.Debug("Track loaded", "songID", id, "source", source, "title", meta.Title)
	return nil
}

func (h *HeadlessAudio) Play(id string) error {
	h.mu.Lock()
	tr, err := h.track(id)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	notify := setPlayingLocked(tr, true)
	tr.started = time.Now()
	h.armTimerLocked(id, tr)
	h.mu.Unlock()
	if notify != nil {
		notify()
	}
	return nil
}

func (h *HeadlessAudio) Pause(id string) error {
	h.mu.Lock()
	tr, err := h.track(id)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if tr.playing {
		tr.position += time.Since(tr.started).Seconds() * tr.rate
	}
	notify := setPlayingLocked(tr, false)
	if tr.timer != nil {
		tr.timer.Stop()
	}
	h.mu.Unlock()
	if notify != nil {
		notify()
	}
	return nil
}

func (h *HeadlessAudio) Resume(id string) error {
	h.mu.Lock()
	tr, err := h.track(id)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	notify := setPlayingLocked(tr, true)
	tr.started = time.Now()
	h.armTimerLocked(id, tr)
	h.mu.Unlock()
	if notify != nil {
		notify()
	}
	return nil
}

func (h *HeadlessAudio) Stop(id string) error {
	h.mu.Lock()
	tr, err := h.track(id)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	notify := setPlayingLocked(tr, false)
	tr.position = 0
	if tr.timer != nil {
		tr.timer.Stop()
	}
	h.mu.Unlock()
	if notify != nil {
		notify()
	}
	return nil
}

func (h *HeadlessAudio) Destroy(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tr, ok := h.tracks[id]; ok && tr.timer != nil {
		tr.timer.Stop()
	}
	delete(h.tracks, id)
	return nil
}

func (h *HeadlessAudio) Seek(id string, seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return err
	}
	tr.position = seconds
	if tr.playing {
		tr.started = time.Now()
		h.armTimerLocked(id, tr)
	}
	return nil
}

func (h *HeadlessAudio) SetVolume(id string, volume float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.track(id)
	return err
}

func (h *HeadlessAudio) SetRate(id string, rate float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return err
	}
	if rate <= 0 {
		return fmt.Errorf("invalid playback rate %v", rate)
	}
	if tr.playing {
		tr.position += time.Since(tr.started).Seconds() * tr.rate
		tr.started = time.Now()
	}
	tr.rate = rate
	if tr.playing {
		h.armTimerLocked(id, tr)
	}
	return nil
}

// SetDuration tells the backend how long the track runs so end-of-track can
// be simulated. Without it completion never fires.
func (h *HeadlessAudio) SetDuration(id string, seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return err
	}
	tr.duration = seconds
	if tr.playing {
		h.armTimerLocked(id, tr)
	}
	return nil
}

func (h *HeadlessAudio) Duration(id string) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return 0, err
	}
	return tr.duration, nil
}

func (h *HeadlessAudio) CurrentTime(id string) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return 0, err
	}
	pos := tr.position
	if tr.playing {
		pos += time.Since(tr.started).Seconds() * tr.rate
	}
	if tr.duration > 0 && pos > tr.duration {
		pos = tr.duration
	}
	return pos, nil
}

func (h *HeadlessAudio) IsPlaying(id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return false, err
	}
	return tr.playing, nil
}

func (h *HeadlessAudio) OnEnded(id string, fn func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return err
	}
	tr.onEnded = fn
	if tr.playing {
		h.armTimerLocked(id, tr)
	}
	return nil
}

func (h *HeadlessAudio) OnStatusChanged(id string, fn func(playing bool)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tr, err := h.track(id)
	if err != nil {
		return err
	}
	tr.onStatus = fn
	return nil
}

// track looks up id; caller holds the lock.
func (h *HeadlessAudio) track(id string) (*headlessTrack, error) {
	tr, ok := h.tracks[id]
	if !ok {
		return nil, fmt.Errorf("unknown track %q", id)
	}
	return tr, nil
}

// armTimerLocked schedules the completion callback for the remaining play
// time. Caller holds the lock.
func (h *HeadlessAudio) armTimerLocked(id string, tr *headlessTrack) {
	if tr.timer != nil {
		tr.timer.Stop()
		tr.timer = nil
	}
	if tr.duration <= 0 || tr.onEnded == nil || !tr.playing {
		return
	}
	remaining := (tr.duration - tr.position) / tr.rate
	if remaining < 0 {
		remaining = 0
	}
	tr.timer = time.AfterFunc(time.Duration(remaining * float64(time.Second)), func() {
		h.mu.Lock()
		cur, ok := h.tracks[id]
		if !ok || cur != tr || !tr.playing {
			h.mu.Unlock()
			return
		}
		notify := setPlayingLocked(tr, false)
		tr.position = tr.duration
		fn := tr.onEnded
		h.mu.Unlock()
		if notify != nil {
			notify()
		}
		if fn != nil {
			fn()
		}
	})
}
