package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// CameraController drives a camera's mutable pose from elapsed time.
// Controllers own no camera state of their own; they write through the Camera setters.
type CameraController interface {
	// Update moves the camera for the given time since start.
	//
	// Parameters:
	//   - c: the camera to move
	//   - elapsed: seconds since the frame driver started
	Update(c Camera, elapsed float32)
}

// OscillatingController slides the eye along Z:
//
//	eye.z = amplitude * cos(frequency * elapsed) + offset
//
// With the defaults (1, 1, -1) the eye swings between z = 0 and z = -2.
type OscillatingController interface {
	CameraController

	// Amplitude returns the peak displacement from the offset.
	//
	// Returns:
	//   - float32: the amplitude
	Amplitude() float32

	// Frequency returns the angular frequency in radians per second.
	//
	// Returns:
	//   - float32: the angular frequency
	Frequency() float32

	// Offset returns the center of the oscillation on Z.
	//
	// Returns:
	//   - float32: the offset
	Offset() float32
}

type oscillatingController struct {
	mu *sync.Mutex

	amplitude float32
	frequency float32
	offset    float32
}

var _ OscillatingController = &oscillatingController{}

// NewOscillatingController creates a controller with amplitude 1, frequency 1 and offset -1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OscillatingController: the new controller
func NewOscillatingController(options ...CameraControllerOption) OscillatingController {
	cc := &oscillatingController{
		mu:        &sync.Mutex{},
		amplitude: 1,
		frequency: 1,
		offset:    -1,
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *oscillatingController) Update(c Camera, elapsed float32) {
	cc.mu.Lock()
	z := cc.amplitude*math32.Cos(cc.frequency*elapsed) + cc.offset
	cc.mu.Unlock()

	eye := c.Eye()
	eye.Z = z
	c.SetEye(eye)
}

func (cc *oscillatingController) Amplitude() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.amplitude
}

func (cc *oscillatingController) Frequency() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.frequency
}

func (cc *oscillatingController) Offset() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.offset
}
