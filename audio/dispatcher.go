package audio

import (
	"github.com/lixenwraith/ropebridge/event"
)

// Player is the playback surface the dispatcher drives
type Player interface {
	Play(st SoundType) bool
	PlayCreak(slats int) bool
}

// Dispatcher maps rope events to cues, registered on an event.Router with any context type
type Dispatcher[T any] struct {
	player Player
}

// NewDispatcher creates a dispatcher playing through p
func NewDispatcher[T any](p Player) *Dispatcher[T] {
	return &Dispatcher[T]{player: p}
}

// EventTypes implements event.Handler
func (d *Dispatcher[T]) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventAnchorHit,
		event.EventFrontAdvanced,
		event.EventInstrumentBuilt,
		event.EventRopeSevered,
	}
}

// HandleEvent implements event.Handler
func (d *Dispatcher[T]) HandleEvent(_ T, ev event.GameEvent) {
	switch ev.Type {
	case event.EventAnchorHit:
		d.player.Play(SoundAnchorHit)
	case event.EventFrontAdvanced:
		slats := 0
		if p, ok := ev.Payload.(*event.FrontAdvancedPayload); ok {
			slats = p.Slats
		}
		d.player.PlayCreak(slats)
	case event.EventInstrumentBuilt:
		d.player.Play(SoundBuilt)
	case event.EventRopeSevered:
		d.player.Play(SoundSnap)
	}
}
