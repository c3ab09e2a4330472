package camera

// CameraControllerOption is a functional option for configuring an OscillatingController.
type CameraControllerOption func(*oscillatingController)

// WithAmplitude sets the peak displacement of the eye from the offset.
//
// Parameters:
//   - amplitude: displacement in world units
//
// Returns:
//   - CameraControllerOption: functional option to set the amplitude
func WithAmplitude(amplitude float32) CameraControllerOption {
	return func(cc *oscillatingController) {
		cc.amplitude = amplitude
	}
}

// WithFrequency sets the angular frequency of the oscillation.
//
// Parameters:
//   - frequency: radians per second
//
// Returns:
//   - CameraControllerOption: functional option to set the frequency
func WithFrequency(frequency float32) CameraControllerOption {
	return func(cc *oscillatingController) {
		cc.frequency = frequency
	}
}

// WithOffset sets the center of the oscillation on Z.
//
// Parameters:
//   - offset: Z coordinate the eye oscillates around
//
// Returns:
//   - CameraControllerOption: functional option to set the offset
func WithOffset(offset float32) CameraControllerOption {
	return func(cc *oscillatingController) {
		cc.offset = offset
	}
}
