package audio

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/lixenwraith/ropebridge/parameter"
)

// Environment variables read by LoadAudioConfig
const (
	EnvAudioEnabled = "ROPEBRIDGE_AUDIO_ENABLED"
	EnvMasterVolume = "ROPEBRIDGE_MASTER_VOLUME"
	EnvSFXVolumes   = "ROPEBRIDGE_SFX_VOLUMES"
	EnvSampleRate   = "ROPEBRIDGE_SAMPLE_RATE"
)

// DefaultAudioConfig returns the settings used when no environment overrides exist
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 0.5,
		EffectVolumes: map[SoundType]float64{
			SoundAnchorHit: 0.9,
			SoundCreak:     0.4,
			SoundBuilt:     0.7,
			SoundSnap:      0.6,
		},
		SampleRate: parameter.AudioSampleRate,
	}
}

// LoadAudioConfig loads audio configuration from environment variables
// Malformed values are ignored and the default kept
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is 0-100 converted to 0.0-1.0
	if volume := os.Getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		}
	}

	// Effect volumes as JSON keyed by sound name
	if effectVols := os.Getenv(EnvSFXVolumes); effectVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(effectVols), &volumes); err == nil {
			for st := SoundType(0); st < soundTypeCount; st++ {
				if v, ok := volumes[st.String()]; ok {
					cfg.EffectVolumes[st] = clampVolume(v)
				}
			}
		}
	}

	if sampleRate := os.Getenv(EnvSampleRate); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
