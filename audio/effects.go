package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/ropebridge/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave, optionally gliding in pitch
type oscillator struct {
	freq     float64
	glide    float64 // Frequency multiplier reached at the end of the duration
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a fixed-pitch oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return newGlide(freq, 1, duration, wave, rate)
}

func newGlide(freq, glide float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		glide:    glide,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(duration))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq * (1 + (o.glide-1)*progress)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and exponential decay to a stream
type envelope struct {
	streamer      beep.Streamer
	position      int
	attackSamples int
	totalSamples  int
	decayRate     float64 // Per-sample multiplier after attack
}

// NewEnvelope shapes s to duration with the given attack, decaying to ~1% by the end
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	decaySamples := total - att
	if decaySamples < 1 {
		decaySamples = 1
	}
	return &envelope{
		streamer:      s,
		attackSamples: att,
		totalSamples:  total,
		decayRate:     math.Pow(0.01, 1/float64(decaySamples)),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if remaining := e.totalSamples - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		var vol float64
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		} else {
			vol = math.Pow(e.decayRate, float64(e.position-e.attackSamples))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a volume effect, math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func effectVolume(cfg *AudioConfig, st SoundType) float64 {
	return cfg.EffectVolumes[st] * cfg.MasterVolume
}

// CreateAnchorHitSound is a bright sine ping over a short noise click
func CreateAnchorHitSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.AnchorHitSoundDuration

	var tone beep.Streamer
	if sine, err := generators.SineTone(rate, parameter.AnchorHitFrequency); err == nil {
		tone = beep.Take(rate.N(d), sine)
	} else {
		// SineTone rejects frequencies above Nyquist for very low sample rates
		tone = NewOscillator(parameter.AnchorHitFrequency, d, WaveSine, rate)
	}
	click := NewOscillator(0, d/4, WaveNoise, rate)

	mixed := beep.Mix(
		newVolume(NewEnvelope(tone, d, parameter.SoundAttack, rate), 0.8),
		newVolume(NewEnvelope(click, d/4, 0, rate), 0.3),
	)
	return newVolume(mixed, effectVolume(cfg, SoundAnchorHit))
}

// CreateCreakSound is a downward-gliding saw, pitch rising with slat count
func CreateCreakSound(cfg *AudioConfig, slats int) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CreakSoundDuration
	freq := parameter.CreakBaseFrequency * (1 + 0.05*float64(slats%12))

	saw := newGlide(freq, 0.7, d, WaveSaw, rate)
	return newVolume(NewEnvelope(saw, d, parameter.SoundAttack*4, rate), effectVolume(cfg, SoundCreak))
}

// CreateBuiltSound is a two-note rising chime, root then fifth
func CreateBuiltSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	half := parameter.BuiltSoundDuration / 2

	n1 := NewEnvelope(NewOscillator(parameter.BuiltSoundFrequency, half, WaveSine, rate), half, parameter.SoundAttack, rate)
	n2 := NewEnvelope(NewOscillator(parameter.BuiltSoundFrequency*1.5, half, WaveSine, rate), half, parameter.SoundAttack, rate)
	return newVolume(beep.Seq(n1, n2), effectVolume(cfg, SoundBuilt))
}

// CreateSnapSound is a noise burst with a falling low tone
func CreateSnapSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CreakSoundDuration

	mixed := beep.Mix(
		newVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 0, rate), 0.5),
		newVolume(NewEnvelope(newGlide(220, 0.4, d, WaveSine, rate), d, parameter.SoundAttack, rate), 0.5),
	)
	return newVolume(mixed, effectVolume(cfg, SoundSnap))
}

// GetSoundEffect returns the streamer for a sound type, nil for unknown types
// pitch is only used by SoundCreak
func GetSoundEffect(st SoundType, cfg *AudioConfig, pitch int) beep.Streamer {
	switch st {
	case SoundAnchorHit:
		return CreateAnchorHitSound(cfg)
	case SoundCreak:
		return CreateCreakSound(cfg, pitch)
	case SoundBuilt:
		return CreateBuiltSound(cfg)
	case SoundSnap:
		return CreateSnapSound(cfg)
	default:
		return nil
	}
}
