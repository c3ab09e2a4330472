package renderer

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	from, to PassState
}

func recordTransitions(into *[]transition) TransitionObserver {
	return func(from, to PassState) {
		*into = append(*into, transition{from, to})
	}
}

func TestRenderWalksEveryState(t *testing.T) {
	log := &opLog{}
	backend := &fakeBackend{log: log}
	var seen []transition
	fr := NewFrameRenderer(backend, recordTransitions(&seen))
	source := &recordingSource{}
	targets := &DerivedTargets{Generation: uuid.New()}

	presented, err := fr.Render(source, Frame{Surface: &SurfaceFrame{}}, targets, 3)
	require.NoError(t, err)
	assert.True(t, presented)

	assert.Equal(t, []transition{
		{PassStateIdle, PassStateRecordScene},
		{PassStateRecordScene, PassStateRecordBlit},
		{PassStateRecordBlit, PassStateSubmitted},
		{PassStateSubmitted, PassStatePresented},
		{PassStatePresented, PassStateIdle},
	}, seen)
	assert.Equal(t, []string{"begin", "scene", "blit", "submit"}, log.take())
	assert.Equal(t, []uint32{3}, backend.drawnInstances)
	assert.Equal(t, []uuid.UUID{targets.Generation}, backend.blitGenerations)
	assert.Equal(t, 1, source.ended)
	assert.Equal(t, PassStateIdle, fr.State())
}

func TestRecordingFailureResetsToIdle(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*fakeBackend)
		wantOps   []string
		lastState PassState
	}{
		{
			name:      "scene pass",
			configure: func(b *fakeBackend) { b.sceneErr = errors.New("scene broke") },
			wantOps:   []string{"begin", "scene", "abort"},
			lastState: PassStateRecordScene,
		},
		{
			name:      "blit pass",
			configure: func(b *fakeBackend) { b.blitErr = errors.New("blit broke") },
			wantOps:   []string{"begin", "scene", "blit", "abort"},
			lastState: PassStateRecordBlit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &opLog{}
			backend := &fakeBackend{log: log}
			tt.configure(backend)
			var seen []transition
			fr := NewFrameRenderer(backend, recordTransitions(&seen))
			source := &recordingSource{}

			presented, err := fr.Render(source, Frame{Surface: &SurfaceFrame{}}, &DerivedTargets{}, 3)
			assert.Error(t, err)
			assert.False(t, presented)
			assert.Equal(t, tt.wantOps, log.take())
			assert.Equal(t, 1, source.aborted)
			assert.Zero(t, source.ended)
			assert.Equal(t, PassStateIdle, fr.State())
			require.NotEmpty(t, seen)
			assert.Equal(t, transition{tt.lastState, PassStateIdle}, seen[len(seen)-1])

			// The next tick starts cleanly.
			backend.sceneErr, backend.blitErr = nil, nil
			presented, err = fr.Render(source, Frame{Surface: &SurfaceFrame{}}, &DerivedTargets{}, 3)
			assert.NoError(t, err)
			assert.True(t, presented)
		})
	}
}

func TestPresentErrorStillCompletesFrame(t *testing.T) {
	backend := &fakeBackend{log: &opLog{}}
	fr := NewFrameRenderer(backend, nil)
	source := &recordingSource{endErr: errors.New("post frame failed")}

	presented, err := fr.Render(source, Frame{}, &DerivedTargets{}, 1)
	assert.True(t, presented)
	assert.EqualError(t, err, "post frame failed")
	assert.Equal(t, PassStateIdle, fr.State())
	assert.Zero(t, backend.aborted)
}

func TestValidTransition(t *testing.T) {
	order := []PassState{PassStateIdle, PassStateRecordScene, PassStateRecordBlit, PassStateSubmitted, PassStatePresented}
	for i, from := range order {
		for j, to := range order {
			want := j == (i+1)%len(order)
			assert.Equal(t, want, ValidTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, ValidTransition(PassState(42), PassStateIdle))
	assert.Equal(t, "PassState(42)", PassState(42).String())
}
