package audio

// SoundType represents rope cue sounds
type SoundType int

const (
	SoundAnchorHit SoundType = iota // Grapple hook reached its anchor
	SoundCreak                      // Bridge front deployed a slat
	SoundBuilt                      // Instrument completed
	SoundSnap                       // Grapple severed before completion
	soundTypeCount
)

var soundNames = [soundTypeCount]string{"anchor", "creak", "built", "snap"}

func (st SoundType) String() string {
	if st >= 0 && st < soundTypeCount {
		return soundNames[st]
	}
	return "unknown"
}

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64 // 0.0-1.0
	EffectVolumes map[SoundType]float64
	SampleRate    int
}
