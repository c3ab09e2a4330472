package renderer

// RendererBuilderOption is a functional option used to configure a Renderer during construction.
type RendererBuilderOption func(*renderer)

// WithFrameSource sets the frame source. The default is PlainSurface over the renderer's surface manager.
//
// Parameters:
//   - source: the frame source to render into
//
// Returns:
//   - RendererBuilderOption: a function that sets the frame source
func WithFrameSource(source FrameSource) RendererBuilderOption {
	return func(r *renderer) {
		r.source = source
	}
}

// WithTransitionObserver sets a callback invoked on every frame state transition.
//
// Parameters:
//   - observer: the callback
//
// Returns:
//   - RendererBuilderOption: a function that sets the transition observer
func WithTransitionObserver(observer TransitionObserver) RendererBuilderOption {
	return func(r *renderer) {
		r.observer = observer
	}
}
