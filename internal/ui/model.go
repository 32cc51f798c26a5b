package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"casefinder/internal/domain"
	"casefinder/internal/eventbus"
	"casefinder/internal/selector"
	"casefinder/internal/ui/input"
	inputtypes "casefinder/internal/ui/input/types"
	"casefinder/internal/ui/views"
)

const (
	defaultToastDuration = 4 * time.Second
	maxToasts            = 3
)

// Options configures the model
type Options struct {
	ToastDuration time.Duration
	Logger        *zap.Logger
}

type toast struct {
	id int
	n  domain.Notification
}

// Model is the Bubble Tea model hosting the search form
type Model struct {
	sel    *selector.Selector
	logger *zap.Logger

	width       int
	height      int
	help        help.Model
	keys        keyMap
	spinner     spinner.Model
	inPagerMode bool // tracks if we're currently in pager mode

	toasts        []toast
	nextToastID   int
	toastDuration time.Duration

	inputHandler *input.Handler
	inputCtx     *input.ModelContext
	renderer     *views.Renderer

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model around sel
func NewModel(sel *selector.Selector, opts Options) *Model {
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = defaultToastDuration
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		sel:           sel,
		logger:        opts.Logger.Named("ui"),
		help:          help.New(),
		keys:          newKeyMap(),
		spinner:       sp,
		toastDuration: opts.ToastDuration,
		inputHandler:  input.New(),
		inputCtx:      &input.ModelContext{Selector: sel},
		renderer:      views.NewRenderer(),
		pager:         NewPagerOps(nil),
	}
	m.inputHandler.SetPlaceholder(sel.Placeholder())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		actions, cmd := m.inputHandler.HandleKey(msg, m.inputCtx)
		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, tea.Batch(cmds...)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.SubmitTextAction:
		return m.submit(a.Text)

	case inputtypes.SelectModeAction:
		m.sel.SelectMode(a.Mode)
		m.inputHandler.ClearText()
		m.inputHandler.SetPlaceholder(m.sel.Placeholder())
		return nil

	case inputtypes.ToggleHelpAction:
		m.help.ShowAll = !m.help.ShowAll
		return nil

	case inputtypes.DismissAction:
		if len(m.toasts) > 0 {
			m.toasts = m.toasts[:len(m.toasts)-1]
		} else {
			m.sel.HideResult()
		}
		return nil

	case inputtypes.OpenPagerAction:
		if rec := m.sel.LastResult(); rec != nil {
			return m.openPager(renderRecordDocument(rec))
		}
		return nil

	case inputtypes.QuitAction:
		m.sel.Close()
		return tea.Quit

	default:
		// UpdateTextAction, UpdateMenuIndexAction: read back at render time
		return nil
	}
}

func (m *Model) submit(text string) tea.Cmd {
	sub := m.sel.Submit(text, selector.KeyEnter)
	if sub.ClearInput {
		m.inputHandler.ClearText()
	}
	if sub.Busy {
		m.logger.Debug("submission ignored while a lookup is in flight")
	}
	if sub.Request == nil {
		return nil
	}
	return tea.Batch(m.runLookup(sub.Request), m.spinner.Tick)
}

// runLookup returns a command that performs req off the update loop
func (m *Model) runLookup(req *selector.Request) tea.Cmd {
	sel := m.sel
	return func() tea.Msg {
		return lookupResultMsg{outcome: sel.Run(context.Background(), req)}
	}
}

// openPager returns a command that shows content in the ov pager, pausing and resuming rendering
func (m *Model) openPager(content string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.Show(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

// pushToast shows n and schedules its expiry
func (m *Model) pushToast(n domain.Notification) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{id: id, n: n})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupResultMsg:
		m.sel.HandleLookupResult(msg.outcome)
		return m, nil

	case EventMsg:
		if e, ok := msg.Event.(eventbus.NotificationRequestedEvent); ok {
			return m, m.pushToast(e.Notification)
		}
		return m, nil

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once the lookup is done
		if !m.sel.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.Error(msg.err))
			return m, m.pushToast(domain.Notification{
				Title:    "Error!",
				Message:  "Could not open the pager: " + msg.err.Error(),
				Severity: domain.SeverityError,
			})
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	default:
		// Cursor blink and other text input messages
		return m, m.inputHandler.Update(msg)
	}
}

// View renders the model
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	menuOpen := m.inputHandler.CurrentMode() == inputtypes.ModeMenu
	m.keys.forMenu(menuOpen, m.sel.LastResult() != nil)

	state := views.ViewState{
		Width:        m.width,
		Height:       m.height,
		Input:        m.inputHandler.TextInput().View(),
		Offline:      !m.sel.HasLookup(),
		Pending:      m.sel.Pending(),
		SpinnerFrame: m.spinner.View(),
		ShowMenu:     menuOpen,
		MenuIndex:    m.inputHandler.MenuIndex(),
		Help:         m.help.View(m.keys),
	}
	if mode, ok := m.sel.Active(); ok {
		state.ModeLabel = mode.Label
	} else {
		state.ModeLabel = "(none)"
	}
	if m.sel.InputHasError() {
		state.InputError = m.sel.InputErrorMessage()
	}
	if m.sel.ResultVisible() {
		state.Record = m.sel.LastResult()
	}
	if menuOpen {
		for _, opt := range m.sel.Options() {
			state.MenuItems = append(state.MenuItems, views.MenuItem{Label: opt.Label, Disabled: opt.Disabled})
		}
	}
	for _, t := range m.toasts {
		state.Toasts = append(state.Toasts, views.Toast{
			Title:   t.n.Title,
			Message: t.n.Message,
			Success: t.n.Severity == domain.SeveritySuccess,
		})
	}

	return m.renderer.Render(state)
}
