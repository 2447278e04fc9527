package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/ropebridge/event"
)

// TestSoundManagerGracefulDegradation verifies playback is a no-op without initialization
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(nil)
	assert.NotPanics(t, func() {
		assert.False(t, sm.Play(SoundAnchorHit))
		assert.False(t, sm.PlayCreak(4))
		assert.Equal(t, 0, sm.Active())
		sm.Cleanup()
	})
}

// TestSoundManagerDisabledSkipsDevice verifies a disabled config never opens the speaker
func TestSoundManagerDisabledSkipsDevice(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Enabled = false
	sm := NewSoundManager(cfg)

	assert.NoError(t, sm.Initialize())
	assert.False(t, sm.Play(SoundBuilt))
	sm.Cleanup()
}

type fakePlayer struct {
	played []SoundType
	creaks []int
}

func (f *fakePlayer) Play(st SoundType) bool {
	f.played = append(f.played, st)
	return true
}

func (f *fakePlayer) PlayCreak(slats int) bool {
	f.creaks = append(f.creaks, slats)
	return true
}

// TestDispatcherRoutesEvents verifies event to cue mapping through a router
func TestDispatcherRoutesEvents(t *testing.T) {
	q := event.NewEventQueue()
	router := event.NewRouter[struct{}](q)
	player := &fakePlayer{}
	router.Register(NewDispatcher[struct{}](player))

	event.Emit(q, event.EventAnchorHit, &event.AnchorHitPayload{}, 0)
	event.Emit(q, event.EventFrontAdvanced, &event.FrontAdvancedPayload{Slats: 5}, 0)
	event.Emit(q, event.EventFrontAdvanced, nil, 0)
	event.Emit(q, event.EventInstrumentBuilt, &event.InstrumentPayload{}, 0)
	event.Emit(q, event.EventRopeSevered, &event.InstrumentPayload{}, 0)
	event.Emit(q, event.EventPlacementRejected, nil, 0)

	router.DispatchAll(struct{}{})

	assert.Equal(t, []SoundType{SoundAnchorHit, SoundBuilt, SoundSnap}, player.played)
	assert.Equal(t, []int{5, 0}, player.creaks)
}
