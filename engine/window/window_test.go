package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWindowOptions(t *testing.T) {
	w := newEngineWindow(WithTitle("Yuletide"), WithSize(800, 600), WithMinSize(320, 240), WithMaxSize(1920, 0))
	assert.Equal(t, "Yuletide", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 1920, w.maxWidth)
	assert.Zero(t, w.maxHeight)
	assert.Equal(t, 240, w.minHeight)
	assert.False(t, w.IsRunning())
}

func TestResizeSubscribersRunInOrder(t *testing.T) {
	w := newEngineWindow()
	var calls []string
	w.SubscribeResize(func(width, height int) { calls = append(calls, "a") })
	w.SubscribeResize(func(width, height int) { calls = append(calls, "b") })

	w.handleFramebufferSize(640, 480)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}

func TestResizeIgnoresZeroSize(t *testing.T) {
	w := newEngineWindow(WithSize(300, 200), WithSize(-1, 0))
	called := 0
	w.SubscribeResize(func(width, height int) { called++ })

	w.handleFramebufferSize(0, 0)
	w.handleFramebufferSize(100, 0)
	assert.Zero(t, called)
	assert.Equal(t, 300, w.Width())
	assert.Equal(t, 200, w.Height())
}

func TestUnsubscribe(t *testing.T) {
	w := newEngineWindow()
	var got [][2]int
	sub := w.SubscribeResize(func(width, height int) { got = append(got, [2]int{width, height}) })
	require.NotZero(t, sub)

	w.handleFramebufferSize(10, 20)
	assert.True(t, w.Unsubscribe(sub))
	assert.False(t, w.Unsubscribe(sub))
	w.handleFramebufferSize(30, 40)

	assert.Equal(t, [][2]int{{10, 20}}, got)
}

func TestNilSubscriberIsRejected(t *testing.T) {
	w := newEngineWindow()
	assert.Zero(t, w.SubscribeResize(nil))
	assert.Zero(t, w.resize.len())
}

func TestListenerMayUnsubscribeItself(t *testing.T) {
	w := newEngineWindow()
	var sub ResizeSubscription
	calls := 0
	sub = w.SubscribeResize(func(width, height int) {
		calls++
		w.Unsubscribe(sub)
	})
	w.handleFramebufferSize(1, 1)
	w.handleFramebufferSize(2, 2)
	assert.Equal(t, 1, calls)
}

func TestCloseWithoutPlatformWindow(t *testing.T) {
	w := newEngineWindow()
	assert.Error(t, w.Close())
}
