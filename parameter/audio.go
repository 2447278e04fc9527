package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines latency of the speaker
	AudioBufferDuration = 100 * time.Millisecond
)

// Rope cue sounds
const (
	AnchorHitSoundDuration = 90 * time.Millisecond
	AnchorHitFrequency     = 880.0

	CreakSoundDuration = 220 * time.Millisecond
	CreakBaseFrequency = 140.0

	BuiltSoundDuration  = 450 * time.Millisecond
	BuiltSoundFrequency = 523.25

	SoundAttack = 5 * time.Millisecond
)
