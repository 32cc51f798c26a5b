package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"casefinder/internal/domain"
	"casefinder/internal/eventbus"
)

// Notifier displays notifications. Calls are fire-and-forget: nothing is
// returned and implementations must not block the caller.
type Notifier interface {
	Notify(n domain.Notification)
}

// Func adapts a plain function to Notifier
type Func func(domain.Notification)

func (f Func) Notify(n domain.Notification) { f(n) }

// BusNotifier publishes notifications on the event bus for the UI to render
type BusNotifier struct {
	bus eventbus.EventBus
}

func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (b *BusNotifier) Notify(n domain.Notification) {
	b.bus.Publish(eventbus.NotificationRequestedEvent{Notification: n})
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// WriterNotifier prints one styled line per notification, used by the
// headless lookup command
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (wn *WriterNotifier) Notify(n domain.Notification) {
	style := successStyle
	if n.Severity == domain.SeverityError {
		style = errorStyle
	}

	wn.mu.Lock()
	defer wn.mu.Unlock()
	_, _ = fmt.Fprintf(wn.w, "%s %s\n", style.Render(n.Title), n.Message)
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu   sync.Mutex
	seen []domain.Notification
}

func (r *Recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.seen))
	copy(out, r.seen)
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (domain.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return domain.Notification{}, false
	}
	return r.seen[len(r.seen)-1], true
}
