package xr

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/chewxy/math32"
)

// SimulatedRuntime is a deterministic Bridge that stands in for a headset runtime.
// It predicts display times on a fixed period and offers a symmetric stereo view pair.
type SimulatedRuntime struct {
	mu *sync.Mutex

	period   time.Duration
	ipd      float32
	fovHalf  float32
	blocking bool

	now   func() time.Time
	sleep func(time.Duration)

	// frameFilter withholds a frame when it returns false.
	frameFilter func(index uint64) bool
	// postFrameFault injects a PostFrame failure when it returns non-nil.
	postFrameFault func(state FrameState) error

	start       time.Time
	next        uint64
	outstanding *FrameState

	begun, ended, withheld uint64
}

var _ Bridge = &SimulatedRuntime{}

// SimulatedRuntimeBuilderOption configures a SimulatedRuntime during construction.
type SimulatedRuntimeBuilderOption func(*SimulatedRuntime)

// NewSimulatedRuntime creates a runtime with a 90 Hz display period, a 63 mm IPD and a 90° symmetric field of view.
//
// Parameters:
//   - options: functional options for runtime configuration
//
// Returns:
//   - *SimulatedRuntime: the runtime, with its session clock started
func NewSimulatedRuntime(options ...SimulatedRuntimeBuilderOption) *SimulatedRuntime {
	r := &SimulatedRuntime{
		mu:      &sync.Mutex{},
		period:  time.Second / 90,
		ipd:     0.063,
		fovHalf: math32.Pi / 4,
		now:     time.Now,
		sleep:   time.Sleep,
	}
	for _, opt := range options {
		opt(r)
	}
	r.start = r.now()
	return r
}

// WithDisplayPeriod sets the predicted interval between displayed frames. Non-positive values are ignored.
func WithDisplayPeriod(period time.Duration) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		if period > 0 {
			r.period = period
		}
	}
}

// WithIPD sets the distance in meters between the two eye positions.
func WithIPD(ipd float32) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		r.ipd = ipd
	}
}

// WithBlocking makes PreFrame sleep until the predicted display time, pacing the loop like a headset would.
func WithBlocking(blocking bool) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		r.blocking = blocking
	}
}

// WithClock replaces the time source and sleep function, for deterministic tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		r.now = now
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithFrameFilter lets the runtime withhold frames. filter receives the index of the frame that
// would be offered and returns false to withhold it.
func WithFrameFilter(filter func(index uint64) bool) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		r.frameFilter = filter
	}
}

// WithPostFrameFault injects PostFrame failures. fault returning nil means success.
func WithPostFrameFault(fault func(state FrameState) error) SimulatedRuntimeBuilderOption {
	return func(r *SimulatedRuntime) {
		r.postFrameFault = fault
	}
}

func (r *SimulatedRuntime) PreFrame() (FrameState, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.outstanding != nil {
		return FrameState{}, false, fmt.Errorf("%w: frame %d was never ended", ErrTransient, r.outstanding.Index)
	}

	index := r.next
	r.next++
	if r.frameFilter != nil && !r.frameFilter(index) {
		r.withheld++
		return FrameState{}, false, nil
	}

	elapsed := r.now().Sub(r.start)
	boundary := (elapsed/r.period + 1) * r.period
	if r.blocking {
		r.sleep(boundary - elapsed)
	}
	display := boundary + r.period

	state := FrameState{
		Index:                  index,
		PredictedDisplayTime:   display,
		PredictedDisplayPeriod: r.period,
		ShouldRender:           true,
		Views:                  r.views(),
	}
	r.outstanding = &state
	r.begun++
	return state, true, nil
}

func (r *SimulatedRuntime) PostFrame(state FrameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.outstanding == nil || r.outstanding.Index != state.Index {
		return fmt.Errorf("%w: frame %d was not begun", ErrTransient, state.Index)
	}
	r.outstanding = nil
	r.ended++

	if r.postFrameFault != nil {
		return r.postFrameFault(state)
	}
	return nil
}

// Stats returns how many frames were begun, ended and withheld so far.
func (r *SimulatedRuntime) Stats() (begun, ended, withheld uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begun, r.ended, r.withheld
}

func (r *SimulatedRuntime) views() [2]View {
	fov := Fov{AngleLeft: -r.fovHalf, AngleRight: r.fovHalf, AngleUp: r.fovHalf, AngleDown: -r.fovHalf}
	half := r.ipd / 2
	return [2]View{
		EyeLeft:  {Pose: Pose{Position: common.Vec3{X: -half}, Orientation: common.QuatIdentity}, Fov: fov},
		EyeRight: {Pose: Pose{Position: common.Vec3{X: half}, Orientation: common.QuatIdentity}, Fov: fov},
	}
}
