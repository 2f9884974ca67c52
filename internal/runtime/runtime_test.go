package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeNotifier struct {
	mu     sync.Mutex
	shown  []RenderedNotification
	closed []string

	showFn  func(ctx context.Context, notification RenderedNotification) error
	closeFn func(ctx context.Context, notificationID string) error

	done chan struct{}
}

func (f *fakeNotifier) Show(ctx context.Context, notification RenderedNotification) error {
	if f.showFn != nil {
		return f.showFn(ctx, notification)
	}
	f.mu.Lock()
	f.shown = append(f.shown, notification)
	f.mu.Unlock()
	f.signal()
	return nil
}

func (f *fakeNotifier) Close(ctx context.Context, notificationID string) error {
	if f.closeFn != nil {
		return f.closeFn(ctx, notificationID)
	}
	f.mu.Lock()
	f.closed = append(f.closed, notificationID)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) signal() {
	if f.done != nil {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
}

type fakeWindows struct {
	mu      sync.Mutex
	windows []Window
	focused []string
	opened  []string

	done chan struct{}
}

func (f *fakeWindows) List(ctx context.Context) ([]Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Window(nil), f.windows...), nil
}

func (f *fakeWindows) Focus(ctx context.Context, windowID string) error {
	f.mu.Lock()
	f.focused = append(f.focused, windowID)
	f.mu.Unlock()
	f.signal()
	return nil
}

func (f *fakeWindows) Open(ctx context.Context, url string) error {
	f.mu.Lock()
	f.opened = append(f.opened, url)
	f.mu.Unlock()
	f.signal()
	return nil
}

func (f *fakeWindows) signal() {
	if f.done != nil {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
}

func startRuntime(t *testing.T, notifier Notifier, windows WindowManager) (*Runtime, context.CancelFunc) {
	t.Helper()

	rt, err := NewCompatRuntime(notifier, windows, "https://app.local/", "/images/icon.png", zap.NewNop())
	if err != nil {
		t.Fatalf("NewCompatRuntime() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = rt.Run(ctx)
	}()

	return rt, cancel
}

func waitSignal(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for runtime handler")
	}
}

func TestPushRendersNotification(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{done: make(chan struct{}, 1)}
	windows := &fakeWindows{}
	rt, cancel := startRuntime(t, notifier, windows)
	defer cancel()

	payload := []byte(`{"notification":{"title":"T","body":"B"}}`)
	if err := rt.Dispatch(context.Background(), PushEvent{Data: payload}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	waitSignal(t, notifier.done)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.shown) != 1 {
		t.Fatalf("shown = %d, want 1", len(notifier.shown))
	}

	got := notifier.shown[0]
	if got.Title != "T" || got.Body != "B" {
		t.Fatalf("rendered = %+v", got)
	}
	if got.Icon != "/images/icon.png" {
		t.Fatalf("icon = %q", got.Icon)
	}
	if got.ID == "" {
		t.Fatal("notification id was not assigned")
	}
}

func TestSilentPushRendersNothing(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{done: make(chan struct{}, 1)}
	windows := &fakeWindows{done: make(chan struct{}, 1)}
	rt, cancel := startRuntime(t, notifier, windows)
	defer cancel()

	payloads := [][]byte{
		[]byte(`{"data":{"k":"v"}}`),
		[]byte(`not json`),
		nil,
	}
	for _, payload := range payloads {
		if err := rt.Dispatch(context.Background(), PushEvent{Data: payload}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}

	// A click afterwards proves the loop processed the silent pushes.
	if err := rt.Dispatch(context.Background(), ClickEvent{NotificationID: "n1"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	waitSignal(t, windows.done)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.shown) != 0 {
		t.Fatalf("shown = %v, want none for silent pushes", notifier.shown)
	}
}

func TestClickFocusesExistingRootWindow(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	windows := &fakeWindows{
		windows: []Window{
			{ID: "w1", URL: "https://app.local/settings"},
			{ID: "w2", URL: "https://app.local"},
		},
		done: make(chan struct{}, 1),
	}
	rt, cancel := startRuntime(t, notifier, windows)
	defer cancel()

	if err := rt.Dispatch(context.Background(), ClickEvent{NotificationID: "n1"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	waitSignal(t, windows.done)

	windows.mu.Lock()
	defer windows.mu.Unlock()
	if len(windows.focused) != 1 || windows.focused[0] != "w2" {
		t.Fatalf("focused = %v, want [w2]", windows.focused)
	}
	if len(windows.opened) != 0 {
		t.Fatalf("opened = %v, want none when a root window exists", windows.opened)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.closed) != 1 || notifier.closed[0] != "n1" {
		t.Fatalf("closed = %v, want [n1]", notifier.closed)
	}
}

func TestClickOpensNewWindowWhenNoneMatches(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	windows := &fakeWindows{
		windows: []Window{{ID: "w1", URL: "https://app.local/settings"}},
		done:    make(chan struct{}, 1),
	}
	rt, cancel := startRuntime(t, notifier, windows)
	defer cancel()

	if err := rt.Dispatch(context.Background(), ClickEvent{NotificationID: "n1"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	waitSignal(t, windows.done)

	windows.mu.Lock()
	defer windows.mu.Unlock()
	if len(windows.opened) != 1 || windows.opened[0] != "https://app.local/" {
		t.Fatalf("opened = %v, want root url", windows.opened)
	}
	if len(windows.focused) != 0 {
		t.Fatalf("focused = %v, want none", windows.focused)
	}
}

func TestClickClosesBeforeWindowWork(t *testing.T) {
	t.Parallel()

	var order []string
	var mu sync.Mutex
	done := make(chan struct{}, 1)

	notifier := &fakeNotifier{
		closeFn: func(ctx context.Context, notificationID string) error {
			mu.Lock()
			order = append(order, "close")
			mu.Unlock()
			return nil
		},
	}
	windows := &fakeWindows{done: done}

	rt, err := NewCompatRuntime(notifier, windows, "https://app.local", "/icon.png", zap.NewNop())
	if err != nil {
		t.Fatalf("NewCompatRuntime() error = %v", err)
	}

	// Drive the handler directly to observe ordering.
	if err := rt.handleClick(context.Background(), ClickEvent{NotificationID: "n1"}); err != nil {
		t.Fatalf("handleClick() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 1 || order[0] != "close" {
		t.Fatalf("order = %v, want close first", order)
	}

	windows.mu.Lock()
	defer windows.mu.Unlock()
	if len(windows.opened) != 1 {
		t.Fatalf("opened = %v, want one window", windows.opened)
	}
}

func TestCloseFailureSkipsWindowWork(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{
		closeFn: func(ctx context.Context, notificationID string) error {
			return errors.New("close failed")
		},
	}
	windows := &fakeWindows{}

	rt, err := NewCompatRuntime(notifier, windows, "https://app.local", "/icon.png", zap.NewNop())
	if err != nil {
		t.Fatalf("NewCompatRuntime() error = %v", err)
	}

	if err := rt.handleClick(context.Background(), ClickEvent{NotificationID: "n1"}); err == nil {
		t.Fatal("expected error when close fails")
	}

	windows.mu.Lock()
	defer windows.mu.Unlock()
	if len(windows.opened) != 0 && len(windows.focused) != 0 {
		t.Fatal("window work ran after close failure")
	}
}

func TestPrecacheRuntimeResolvesIconFromManifest(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	windows := &fakeWindows{}

	manifest := map[string]string{
		"/images/icon.png": "/images/icon.3f2a9c.png",
	}
	rt, err := NewPrecacheRuntime(notifier, windows, "https://app.local", "/images/icon.png", manifest, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPrecacheRuntime() error = %v", err)
	}

	payload := []byte(`{"notification":{"title":"T","body":"B"}}`)
	if err := rt.handlePush(context.Background(), PushEvent{Data: payload}); err != nil {
		t.Fatalf("handlePush() error = %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.shown) != 1 || notifier.shown[0].Icon != "/images/icon.3f2a9c.png" {
		t.Fatalf("shown = %+v, want manifest-resolved icon", notifier.shown)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	rt, err := NewCompatRuntime(&fakeNotifier{}, &fakeWindows{}, "https://app.local", "/icon.png", zap.NewNop())
	if err != nil {
		t.Fatalf("NewCompatRuntime() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- rt.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop on cancel")
	}
}
