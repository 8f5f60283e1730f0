// Package input turns SDL2 events into viewer events.
//
// Pointer gestures are reported the way an orbit control reports them: the
// first button pressed starts an interaction and releasing the last one
// ends it. A wheel step is a complete interaction on its own.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventInteractionStart
	EventInteractionEnd
	EventRotate
	EventPan
	EventZoom
	EventScrubTime
	EventScreenshot
)

var eventNames = [...]string{
	EventNone:             "none",
	EventQuit:             "quit",
	EventWindowResize:     "resize",
	EventKeyDown:          "key-down",
	EventKeyUp:            "key-up",
	EventInteractionStart: "interaction-start",
	EventInteractionEnd:   "interaction-end",
	EventRotate:           "rotate",
	EventPan:              "pan",
	EventZoom:             "zoom",
	EventScrubTime:        "scrub-time",
	EventScreenshot:       "screenshot",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// ScrubStep is the simulated hours one bracket key press moves the clock.
const ScrubStep = 0.25

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int

	// DeltaX and DeltaY are pointer motion in pixels for rotate and pan,
	// and wheel steps for zoom.
	DeltaX float32
	DeltaY float32

	// Hours is the time offset of EventScrubTime.
	Hours float64
}

// Input tracks held buttons across frames.
type Input struct {
	events  []Event
	buttons uint32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and translates them.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.Translate(event) {
			quit = true
		}
	}
	return quit
}

// Translate appends the viewer events for one SDL event and reports
// whether it asks to quit.
func (i *Input) Translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.push(Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.push(Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYUP {
			i.push(Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			break
		}
		if e.Type != sdl.KEYDOWN {
			break
		}
		i.push(Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
		switch e.Keysym.Scancode {
		case sdl.SCANCODE_ESCAPE:
			i.push(Event{Type: EventQuit})
			return true
		case sdl.SCANCODE_LEFTBRACKET:
			i.push(Event{Type: EventScrubTime, Hours: -ScrubStep})
		case sdl.SCANCODE_RIGHTBRACKET:
			i.push(Event{Type: EventScrubTime, Hours: ScrubStep})
		case sdl.SCANCODE_F12:
			if e.Repeat == 0 {
				i.push(Event{Type: EventScreenshot})
			}
		}

	case *sdl.MouseButtonEvent:
		if e.Button == 0 || e.Button > 32 {
			break
		}
		mask := uint32(1) << (e.Button - 1)
		if e.Type == sdl.MOUSEBUTTONDOWN {
			if i.buttons == 0 {
				i.push(Event{Type: EventInteractionStart})
			}
			i.buttons |= mask
		} else if e.Type == sdl.MOUSEBUTTONUP && i.buttons&mask != 0 {
			i.buttons &^= mask
			if i.buttons == 0 {
				i.push(Event{Type: EventInteractionEnd})
			}
		}

	case *sdl.MouseMotionEvent:
		if i.buttons == 0 || (e.XRel == 0 && e.YRel == 0) {
			break
		}
		ev := Event{DeltaX: float32(e.XRel), DeltaY: float32(e.YRel)}
		if i.buttons&(1<<(uint8(sdl.BUTTON_LEFT)-1)) != 0 {
			ev.Type = EventRotate
		} else {
			ev.Type = EventPan
		}
		i.push(ev)

	case *sdl.MouseWheelEvent:
		if e.Y == 0 {
			break
		}
		i.push(Event{Type: EventInteractionStart})
		i.push(Event{Type: EventZoom, DeltaY: float32(e.Y)})
		i.push(Event{Type: EventInteractionEnd})
	}
	return false
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Interacting reports whether any pointer button is held.
func (i *Input) Interacting() bool {
	return i.buttons != 0
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
