package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/ropebridge/parameter"
)

// SoundManager plays rope cues through a single mixer on the speaker
// Every method is safe to call before Initialize or after Cleanup, playback is then a no-op
type SoundManager struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	mixer       *beep.Mixer
	lastPlayed  [soundTypeCount]time.Time
	minGap      time.Duration
	initialized bool

	// now is replaced in tests
	now func() time.Time
}

// NewSoundManager creates a sound manager, nil cfg uses DefaultAudioConfig
func NewSoundManager(cfg *AudioConfig) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &SoundManager{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		minGap: parameter.SoundAttack * 8,
		now:    time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
// Disabled configs skip the device entirely
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	sr := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// Play queues a one-shot cue, repeated cues of one type within the minimum gap are dropped
func (sm *SoundManager) Play(st SoundType) bool {
	return sm.play(st, 0)
}

// PlayCreak queues a creak pitched by the front's deployed slat count
func (sm *SoundManager) PlayCreak(slats int) bool {
	return sm.play(SoundCreak, slats)
}

func (sm *SoundManager) play(st SoundType, pitch int) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || st < 0 || st >= soundTypeCount {
		return false
	}
	now := sm.now()
	if now.Sub(sm.lastPlayed[st]) < sm.minGap {
		return false
	}
	streamer := GetSoundEffect(st, sm.cfg, pitch)
	if streamer == nil {
		return false
	}
	sm.lastPlayed[st] = now

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	return true
}

// Active returns the number of streamers still mixing
func (sm *SoundManager) Active() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return sm.mixer.Len()
}
