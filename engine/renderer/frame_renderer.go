package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
)

// PassState is a step of the per-tick frame state machine.
type PassState int

const (
	PassStateIdle PassState = iota
	PassStateRecordScene
	PassStateRecordBlit
	PassStateSubmitted
	PassStatePresented
)

func (s PassState) String() string {
	switch s {
	case PassStateIdle:
		return "Idle"
	case PassStateRecordScene:
		return "RecordScene"
	case PassStateRecordBlit:
		return "RecordBlit"
	case PassStateSubmitted:
		return "Submitted"
	case PassStatePresented:
		return "Presented"
	default:
		return fmt.Sprintf("PassState(%d)", int(s))
	}
}

// nextPassState is the only successor allowed for each state.
var nextPassState = map[PassState]PassState{
	PassStateIdle:        PassStateRecordScene,
	PassStateRecordScene: PassStateRecordBlit,
	PassStateRecordBlit:  PassStateSubmitted,
	PassStateSubmitted:   PassStatePresented,
	PassStatePresented:   PassStateIdle,
}

// ValidTransition reports whether the state machine may move from one state to the other.
func ValidTransition(from, to PassState) bool {
	next, ok := nextPassState[from]
	return ok && next == to
}

// TransitionObserver is called after every state change, including the reset to Idle after a failure.
type TransitionObserver func(from, to PassState)

// frameRenderer is the implementation of the FrameRenderer interface.
type frameRenderer struct {
	mu       *sync.Mutex
	backend  RendererBackend
	state    PassState
	observer TransitionObserver
}

// FrameRenderer records the scene pass and the blit pass of one tick into a single submission,
// then hands the frame back to its source for presentation.
type FrameRenderer interface {
	// State returns the current pass state. It is Idle between ticks.
	State() PassState

	// Render runs Idle → RecordScene → RecordBlit → Submitted → Presented → Idle for one acquired frame.
	// On a recording failure the encoder is dropped, the frame is released through its source and the
	// state returns to Idle.
	//
	// Parameters:
	//   - source: the source the frame came from
	//   - frame: the acquired frame
	//   - targets: the current derived targets
	//   - instanceCount: the number of scene instances
	//
	// Returns:
	//   - bool: true once the frame has been handed back to the source for presentation
	//   - error: ErrInvalidTransition if called while a frame is in flight, or the first recording or presentation error
	Render(source FrameSource, frame Frame, targets *DerivedTargets, instanceCount uint32) (bool, error)
}

var _ FrameRenderer = &frameRenderer{}

// NewFrameRenderer creates an Idle FrameRenderer recording through the given backend.
//
// Parameters:
//   - backend: the GPU backend
//   - observer: optional transition observer, may be nil
//
// Returns:
//   - FrameRenderer: the new frame renderer
func NewFrameRenderer(backend RendererBackend, observer TransitionObserver) FrameRenderer {
	return &frameRenderer{
		mu:       &sync.Mutex{},
		backend:  backend,
		state:    PassStateIdle,
		observer: observer,
	}
}

func (f *frameRenderer) State() PassState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *frameRenderer) Render(source FrameSource, frame Frame, targets *DerivedTargets, instanceCount uint32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.advance(PassStateRecordScene); err != nil {
		return false, errors.Join(err, source.Abort(frame))
	}
	if err := f.backend.BeginCommands(); err != nil {
		return false, f.fail(source, frame, fmt.Errorf("begin commands: %w", err))
	}
	if err := f.backend.RecordScenePass(targets, instanceCount); err != nil {
		return false, f.fail(source, frame, fmt.Errorf("scene pass: %w", err))
	}

	if err := f.advance(PassStateRecordBlit); err != nil {
		return false, f.fail(source, frame, err)
	}
	if err := f.backend.RecordBlitPass(targets, frame.Surface); err != nil {
		return false, f.fail(source, frame, fmt.Errorf("blit pass: %w", err))
	}
	if err := f.backend.Submit(); err != nil {
		return false, f.fail(source, frame, fmt.Errorf("submit: %w", err))
	}

	if err := f.advance(PassStateSubmitted); err != nil {
		return false, f.fail(source, frame, err)
	}
	endErr := source.EndFrame(frame)
	if err := f.advance(PassStatePresented); err != nil {
		return false, errors.Join(endErr, err)
	}
	return true, errors.Join(endErr, f.advance(PassStateIdle))
}

// advance must be called with f.mu held.
func (f *frameRenderer) advance(to PassState) error {
	from := f.state
	if !ValidTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	f.state = to
	if f.observer != nil {
		f.observer(from, to)
	}
	return nil
}

// fail drops the open encoder, releases the frame and resets to Idle. Must be called with f.mu held.
func (f *frameRenderer) fail(source FrameSource, frame Frame, err error) error {
	f.backend.Abort()
	abortErr := source.Abort(frame)

	from := f.state
	f.state = PassStateIdle
	if f.observer != nil && from != PassStateIdle {
		f.observer(from, PassStateIdle)
	}
	logger.Debug("frame aborted", "state", from, "err", err)
	return errors.Join(err, abortErr)
}
