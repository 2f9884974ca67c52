package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultEventBuffer = 16

// Event is a runtime input: a provider push or a user click.
type Event interface {
	isEvent()
}

// PushEvent carries the raw provider payload delivered to the device.
type PushEvent struct {
	Data []byte
}

func (PushEvent) isEvent() {}

// ClickEvent reports user interaction with a rendered notification.
type ClickEvent struct {
	NotificationID string
}

func (ClickEvent) isEvent() {}

// RenderedNotification is what the device surfaces to the user.
type RenderedNotification struct {
	ID    string
	Title string
	Body  string
	Icon  string
}

// Notifier renders and dismisses system-level notifications.
type Notifier interface {
	Show(ctx context.Context, notification RenderedNotification) error
	Close(ctx context.Context, notificationID string) error
}

// Window is one open application context.
type Window struct {
	ID  string
	URL string
}

// WindowManager inspects and steers the application's open windows.
type WindowManager interface {
	List(ctx context.Context) ([]Window, error)
	Focus(ctx context.Context, windowID string) error
	Open(ctx context.Context, url string) error
}

// Runtime is the device-side background process. It sleeps on its event
// channel until the provider pushes a message or the user clicks a rendered
// notification; it never polls.
type Runtime struct {
	notifier Notifier
	windows  WindowManager
	rootURL  string
	icon     string
	logger   *zap.Logger
	events   chan Event
	newID    func() string
}

func newRuntime(notifier Notifier, windows WindowManager, rootURL, icon string, logger *zap.Logger) (*Runtime, error) {
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if windows == nil {
		return nil, errors.New("window manager is required")
	}
	if strings.TrimSpace(rootURL) == "" {
		return nil, errors.New("root url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runtime{
		notifier: notifier,
		windows:  windows,
		rootURL:  strings.TrimSpace(rootURL),
		icon:     icon,
		logger:   logger,
		events:   make(chan Event, defaultEventBuffer),
		newID:    uuid.NewString,
	}, nil
}

// NewPrecacheRuntime builds the bundler-generated variant. The icon path is
// resolved through the build's asset manifest so cache-busted filenames still
// render.
func NewPrecacheRuntime(notifier Notifier, windows WindowManager, rootURL, icon string, assetManifest map[string]string, logger *zap.Logger) (*Runtime, error) {
	if resolved, ok := assetManifest[icon]; ok {
		icon = resolved
	}
	return newRuntime(notifier, windows, rootURL, icon, logger)
}

// NewCompatRuntime builds the minimal variant that rides on the provider's
// own messaging layer. Push receipt and click handling behave identically to
// the precache variant.
func NewCompatRuntime(notifier Notifier, windows WindowManager, rootURL, icon string, logger *zap.Logger) (*Runtime, error) {
	return newRuntime(notifier, windows, rootURL, icon, logger)
}

// Dispatch queues an event for the runtime loop.
func (r *Runtime) Dispatch(ctx context.Context, event Event) error {
	if r == nil {
		return errors.New("runtime is not initialized")
	}
	if event == nil {
		return errors.New("event is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case r.events <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatch canceled: %w", ctx.Err())
	}
}

// Run blocks on the event channel until the context is canceled. Handler
// failures are logged and never stop the loop.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return errors.New("runtime is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-r.events:
			switch e := event.(type) {
			case PushEvent:
				if err := r.handlePush(ctx, e); err != nil {
					r.logger.Warn("push handling failed", zap.Error(err))
				}
			case ClickEvent:
				if err := r.handleClick(ctx, e); err != nil {
					r.logger.Warn("click handling failed", zap.Error(err))
				}
			default:
				r.logger.Warn("unknown runtime event", zap.Any("event", event))
			}
		}
	}
}

func (r *Runtime) handlePush(ctx context.Context, event PushEvent) error {
	payload := ParsePushPayload(event.Data)
	if payload.Notification == nil {
		r.logger.Debug("silent push, nothing to render")
		return nil
	}

	notification := RenderedNotification{
		ID:    r.newID(),
		Title: payload.Notification.Title,
		Body:  payload.Notification.Body,
		Icon:  r.icon,
	}

	if err := r.notifier.Show(ctx, notification); err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	return nil
}

// handleClick closes the notification first, then focuses an existing root
// window or opens a fresh one. The ordering is fixed: a clicked notification
// must never stay visible, and a duplicate window must never appear when a
// matching one is already open.
func (r *Runtime) handleClick(ctx context.Context, event ClickEvent) error {
	if err := r.notifier.Close(ctx, event.NotificationID); err != nil {
		return fmt.Errorf("failed to close notification: %w", err)
	}

	windows, err := r.windows.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}

	for _, window := range windows {
		if sameView(window.URL, r.rootURL) {
			if err := r.windows.Focus(ctx, window.ID); err != nil {
				return fmt.Errorf("failed to focus window: %w", err)
			}
			return nil
		}
	}

	if err := r.windows.Open(ctx, r.rootURL); err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}

	return nil
}

func sameView(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
