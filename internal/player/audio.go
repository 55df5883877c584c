package player

// TrackMetadata is passed to the audio engine when a track is loaded so the
// platform can render lock-screen and notification controls.
type TrackMetadata struct {
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
}

// AudioEngine is the native playback surface the queue engine drives. Tracks
// are addressed by the song id they were created under. Implementations are
// expected to be safe for calls from the engine's completion callback.
type AudioEngine interface {
	// Create loads a local audio file under the given id. A second Create
	// for the same id replaces the previous source.
	Create(source, id string, meta TrackMetadata) error
	Play(id string) error
	Pause(id string) error
	Resume(id string) error
	Stop(id string) error
	// Destroy releases the resources held for id. Destroying an unknown id
	// is not an error.
	Destroy(id string) error
	Seek(id string, seconds float64) error
	SetVolume(id string, volume float64) error
	SetRate(id string, rate float64) error
	Duration(id string) (float64, error)
	CurrentTime(id string) (float64, error)
	IsPlaying(id string) (bool, error)
	// OnEnded registers fn to run when the track under id finishes playing.
	OnEnded(id string, fn func()) error
	// OnStatusChanged registers fn to run whenever playback of the track
	// under id starts or stops, including transitions initiated outside the
	// caller, such as lock-screen or notification controls.
	OnStatusChanged(id string, fn func(playing bool)) error
}
