package inspector

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/config"
	"github.com/muurk/smartap-inspector/internal/deviceconfig"
	"github.com/muurk/smartap-inspector/internal/discovery"
	"github.com/muurk/smartap-inspector/internal/errfeed"
	"github.com/muurk/smartap-inspector/internal/eventbus"
	"github.com/muurk/smartap-inspector/internal/layout"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/metrics"
	"github.com/muurk/smartap-inspector/internal/panel"
	"github.com/muurk/smartap-inspector/internal/panel/rules"
)

// Focus is the pane receiving key presses.
type Focus int

const (
	FocusList Focus = iota
	FocusPanel
)

// Discoverer finds devices on the network. *discovery.Scanner is one.
type Discoverer interface {
	Scan(ctx context.Context, found func(*discovery.Device)) error
}

// Broadcaster sends messages to error feed clients. *errfeed.Server is one.
type Broadcaster interface {
	Broadcast(msg errfeed.Message)
}

// Options configures an App. Everything is optional.
type Options struct {
	Targets []*Target
	// Scan starts a discovery scan at launch.
	Scan       bool
	Discoverer Discoverer

	Debounce time.Duration
	Rules    *rules.Set

	// Registry supplies device nicknames, outlet labels and the saved
	// layout. Devices the app loads are recorded in it.
	Registry *config.Registry
	// LayoutChanged persists the panel layout.
	LayoutChanged func(layout.Tree)

	Bus     eventbus.Bus
	Metrics *metrics.Panel
	// Feed receives a commit message for every value the panel commits.
	Feed Broadcaster
}

// App is the inspector: a device list beside a properties panel bound to
// the selected device.
//
// Network work runs in commands or, for the error feed and discovery, in
// goroutines that hand results to the program with Send. App state is
// only touched in Update.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	send   func(tea.Msg)

	targets   []*Target
	cursor    int
	marked    map[*Target]bool
	selection []*Target
	focus     Focus

	panel         *panel.Panel
	element       panel.Element
	bus           eventbus.Bus
	registry      *config.Registry
	rules         *rules.Set
	debounce      time.Duration
	discoverer    Discoverer
	feed          Broadcaster
	metrics       *metrics.Panel
	descriptions  panel.DescriptionMap
	layoutChanged func(layout.Tree)

	dirty        bool
	commits      []errfeed.Message
	remoteErrors map[string]string
	shownErrors  map[string]string

	scanOnStart bool
	scanning    bool
	applying    bool
	status      string
	statusStyle lipgloss.Style

	spinner   spinner.Model
	help      help.Model
	listKeys  listKeyMap
	panelKeys panelKeyMap
	width     int
	height    int
}

// NewApp creates the inspector. ctx bounds every device request and scan
// the app starts.
func NewApp(ctx context.Context, opts Options) *App {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	a := &App{
		ctx:           ctx,
		cancel:        cancel,
		targets:       opts.Targets,
		marked:        map[*Target]bool{},
		bus:           opts.Bus,
		registry:      opts.Registry,
		rules:         opts.Rules,
		debounce:      opts.Debounce,
		discoverer:    opts.Discoverer,
		feed:          opts.Feed,
		metrics:       opts.Metrics,
		descriptions:  descriptions(),
		layoutChanged: opts.LayoutChanged,
		scanOnStart:   opts.Scan,
		statusStyle:   StatusInfoStyle,
		spinner:       s,
		help:          help.New(),
		listKeys:      newListKeyMap(),
	}
	if a.bus == nil {
		a.bus = eventbus.New()
	}
	for _, t := range a.targets {
		t.Loading = t.Draft == nil
	}

	layoutConfig := DefaultLayout()
	if a.registry != nil {
		if saved := a.registry.Layout(PanelID); saved != nil {
			layoutConfig = saved
		}
	}

	a.element = a.currentElement()
	props := a.props()
	props.LayoutConfig = layoutConfig
	a.panel = panel.New(props)
	a.panelKeys = newPanelKeyMap(a.panel.KeyMap())

	a.width, a.height = GetTerminalSize()
	a.resize()
	a.showErrors()
	return a
}

// SetSender lets goroutines started by the app deliver messages to the
// running program. Call it before the program starts.
func (a *App) SetSender(send func(tea.Msg)) {
	a.send = send
}

// SetFeed sets the error feed that receives commit messages.
func (a *App) SetFeed(feed Broadcaster) {
	a.feed = feed
}

// Close stops outstanding work and releases the panel.
func (a *App) Close() {
	a.cancel()
	a.panel.Close()
}

// Panel returns the properties panel.
func (a *App) Panel() *panel.Panel {
	return a.panel
}

// Targets returns the targets in list order.
func (a *App) Targets() []*Target {
	return a.targets
}

// Focus returns the pane receiving keys.
func (a *App) Focus() Focus {
	return a.focus
}

// Status returns the status line text.
func (a *App) Status() string {
	return a.status
}

// Init loads every target and starts the discovery scan if requested.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	for _, t := range a.targets {
		if t.Draft == nil {
			cmds = append(cmds, a.load(t))
		}
	}
	if a.scanOnStart {
		cmds = append(cmds, a.startScan())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width - 4
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.panelKeys.Quit) {
			a.Close()
			return a, tea.Quit
		}
		if a.focus == FocusList {
			return a, a.updateList(msg)
		}
		return a, a.updatePanelKeys(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case targetLoadedMsg:
		a.loaded(msg)
		return a, nil

	case deviceFoundMsg:
		return a, a.addDevice(msg.device)

	case scanDoneMsg:
		return a, a.scanDone(msg)

	case applyDoneMsg:
		a.applied(msg)
		return a, nil

	case SignalMsg:
		a.handleSignal(msg.Signal)
		return a, nil

	case panel.GroupChangedMsg:
		a.dirty = true
		return a, a.settle()
	}

	return a, a.updatePanel(msg)
}

func (a *App) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.listKeys.Up):
		if a.cursor > 0 {
			a.cursor--
			a.refresh()
		}
	case key.Matches(msg, a.listKeys.Down):
		if a.cursor < len(a.targets)-1 {
			a.cursor++
			a.refresh()
		}
	case key.Matches(msg, a.listKeys.Mark):
		if t := a.cursorTarget(); t != nil {
			a.toggleMark(t)
			a.refresh()
		}
	case key.Matches(msg, a.listKeys.Inspect):
		if a.current() != nil {
			a.focus = FocusPanel
		}
	case key.Matches(msg, a.listKeys.Rescan):
		return a.startScan()
	case key.Matches(msg, a.listKeys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
	case key.Matches(msg, a.listKeys.Quit):
		a.Close()
		return tea.Quit
	}
	return nil
}

func (a *App) updatePanelKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.panelKeys.Back):
		a.focus = FocusList
		return nil
	case a.applying:
		return nil
	case key.Matches(msg, a.panelKeys.Apply):
		return a.apply()
	case key.Matches(msg, a.panelKeys.Reset):
		a.reset()
		return nil
	}
	return a.updatePanel(msg)
}

// updatePanel forwards msg to the panel, then acts on whatever the
// panel's setters reported.
func (a *App) updatePanel(msg tea.Msg) tea.Cmd {
	cmd := a.panel.Update(msg)
	return tea.Batch(cmd, a.settle())
}

// edit is called by entry setters on the update goroutine.
func (a *App) edit(t *Target, entryID string, value any, mutate func(*deviceconfig.Draft)) {
	if t.Draft == nil {
		return
	}
	if mutate != nil {
		mutate(t.Draft)
	}
	a.commits = append(a.commits, errfeed.CommitMessage(entryID, value))
	a.dirty = true
}

// touch records a change that is not a committed value, such as adding
// or removing a network.
func (a *App) touch() {
	a.dirty = true
}

func (a *App) settle() tea.Cmd {
	if a.dirty {
		a.dirty = false
		a.refresh()
	}
	if len(a.commits) == 0 {
		return nil
	}
	commits := a.commits
	a.commits = nil
	if a.feed == nil {
		return nil
	}
	feed := a.feed
	return func() tea.Msg {
		for _, m := range commits {
			feed.Broadcast(m)
		}
		return nil
	}
}

// refresh hands the panel the current selection and fresh definitions,
// then publishes the validation errors for it.
func (a *App) refresh() {
	el := a.currentElement()
	if !panel.SameElement(el, a.element) {
		a.remoteErrors = nil
	}
	a.element = el
	a.panel.SetProps(a.props())
	a.resize()
	a.showErrors()
}

func (a *App) props() panel.Props {
	props := panel.Props{
		ID:                  PanelID,
		Element:             a.element,
		HeaderProvider:      deviceHeader{registry: a.registry},
		PlaceholderProvider: placeholders{},
		LayoutChanged:       a.saveLayout,
		DescriptionConfig:   a.descriptions,
		DescriptionLoaded: func(m panel.DescriptionMap) {
			logging.Debug("Descriptions loaded", zap.Int("count", len(m)))
		},
		EventBus: a.bus,
		Metrics:  a.metrics,
	}
	if t, ok := a.element.(*Target); ok {
		props.Groups = a.definitions(t)
	}
	return props
}

func (a *App) saveLayout(tree layout.Tree) {
	if a.layoutChanged != nil {
		a.layoutChanged(tree)
	}
}

// showErrors fires the draft's field errors, with errors from the feed
// taking precedence, whenever the combined set changes.
func (a *App) showErrors() {
	errs := map[string]string{}
	if t := a.current(); t != nil && t.Draft != nil {
		errs = t.Draft.FieldErrors()
	}
	maps.Copy(errs, a.remoteErrors)

	if a.shownErrors != nil && maps.Equal(errs, a.shownErrors) {
		return
	}
	a.shownErrors = errs
	a.bus.Fire(eventbus.SetErrorsEvent, eventbus.SetErrors{Errors: errs})
}

func (a *App) handleSignal(sig errfeed.Signal) {
	logging.Debug("Error feed signal", zap.String("event", sig.Event))

	switch sig.Event {
	case eventbus.SetErrorsEvent:
		if p, ok := sig.Payload.(eventbus.SetErrors); ok {
			a.remoteErrors = maps.Clone(p.Errors)
		}
		a.showErrors()
	case eventbus.ShowEntryEvent:
		if a.current() != nil {
			a.focus = FocusPanel
		}
		a.bus.Fire(sig.Event, sig.Payload)
	default:
		a.bus.Fire(sig.Event, sig.Payload)
	}
}

// currentElement is the panel element for the list state: the marked
// targets, or the target under the cursor when none is marked.
func (a *App) currentElement() panel.Element {
	switch len(a.selection) {
	case 0:
		if t := a.cursorTarget(); t != nil {
			return t
		}
		return nil
	case 1:
		return a.selection[0]
	}
	return a.selection
}

// current returns the single target the panel shows, or nil.
func (a *App) current() *Target {
	t, _ := a.element.(*Target)
	return t
}

func (a *App) cursorTarget() *Target {
	if a.cursor < 0 || a.cursor >= len(a.targets) {
		return nil
	}
	return a.targets[a.cursor]
}

// toggleMark rebuilds the selection slice, so its identity changes only
// when the marks do.
func (a *App) toggleMark(t *Target) {
	if a.marked[t] {
		delete(a.marked, t)
	} else {
		a.marked[t] = true
	}
	a.selection = nil
	for _, other := range a.targets {
		if a.marked[other] {
			a.selection = append(a.selection, other)
		}
	}
}

func (a *App) busy() bool {
	if a.scanning || a.applying {
		return true
	}
	return slices.ContainsFunc(a.targets, func(t *Target) bool { return t.Loading })
}

func (a *App) load(t *Target) tea.Cmd {
	t.Loading = true
	ctx := a.ctx
	return func() tea.Msg {
		cfg, err := t.load(ctx)
		return targetLoadedMsg{target: t, config: cfg, err: err}
	}
}

func (a *App) loaded(msg targetLoadedMsg) {
	t := msg.target
	t.Loading = false

	if msg.err != nil {
		t.Err = msg.err
		logging.Warn("Failed to load configuration",
			zap.String("target", t.Source),
			zap.Error(msg.err))
		a.setStatus(t.Name+": "+deviceconfig.ShortMessage(msg.err), StatusErrorStyle)
		a.refresh()
		return
	}

	t.Err = nil
	t.Draft = deviceconfig.NewDraft(msg.config)
	if a.registry != nil && t.Host() != "" {
		a.registry.RecordSeen(t.Serial(), t.Host(), time.Now())
	}
	logging.Info("Configuration loaded",
		zap.String("target", t.Source),
		zap.String("serial", t.Serial()))
	a.refresh()
}

func (a *App) startScan() tea.Cmd {
	if a.discoverer == nil || a.scanning {
		return nil
	}
	a.scanning = true
	a.setStatus("Scanning for devices...", StatusInfoStyle)

	ctx, d, send := a.ctx, a.discoverer, a.send
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		var found []*discovery.Device
		err := d.Scan(ctx, func(dev *discovery.Device) {
			found = append(found, dev)
			if send != nil {
				send(deviceFoundMsg{device: dev})
			}
		})
		return scanDoneMsg{devices: found, err: err}
	})
}

func (a *App) scanDone(msg scanDoneMsg) tea.Cmd {
	a.scanning = false

	// Devices already delivered through Send are skipped by addDevice.
	var cmds []tea.Cmd
	for _, dev := range msg.devices {
		cmds = append(cmds, a.addDevice(dev))
	}

	switch {
	case msg.err != nil:
		a.setStatus("Scan failed: "+msg.err.Error(), StatusErrorStyle)
	case len(a.targets) == 0:
		a.setStatus("No devices found. Press r to scan again.", StatusInfoStyle)
	default:
		a.setStatus(fmt.Sprintf("Scan finished, %d device(s) listed", len(a.targets)), StatusInfoStyle)
	}
	return tea.Batch(cmds...)
}

func (a *App) addDevice(dev *discovery.Device) tea.Cmd {
	for _, t := range a.targets {
		if (dev.Serial != "" && t.Serial() == dev.Serial) || t.Host() == dev.IP {
			return nil
		}
	}

	t := DiscoveredTarget(dev)
	a.targets = append(a.targets, t)
	if a.registry != nil {
		a.registry.RecordSeen(dev.Serial, dev.IP, dev.DiscoveredAt)
	}
	logging.Debug("Device listed", zap.String("serial", dev.Serial), zap.String("ip", dev.IP))

	cmd := a.load(t)
	a.refresh()
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) apply() tea.Cmd {
	t := a.current()
	if t == nil || t.Draft == nil {
		return nil
	}

	update, err := t.Draft.Build()
	if err != nil {
		a.setStatus(deviceconfig.ShortMessage(err), StatusErrorStyle)
		a.revealFirstError(t)
		return nil
	}
	if update.IsEmpty() {
		a.setStatus("Nothing to apply", StatusInfoStyle)
		return nil
	}

	a.applying = true
	a.setStatus("Applying to "+t.Name+"...", StatusInfoStyle)
	logging.Info("Applying configuration", zap.String("target", t.Source))

	result := t.Draft.Result()
	ctx := a.ctx
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return applyDoneMsg{target: t, err: t.apply(ctx, update, result)}
	})
}

func (a *App) applied(msg applyDoneMsg) {
	a.applying = false
	if msg.err != nil {
		logging.Warn("Apply failed", zap.String("target", msg.target.Source), zap.Error(msg.err))
		a.setStatus("Apply failed: "+deviceconfig.ShortMessage(msg.err), StatusErrorStyle)
		return
	}
	msg.target.Draft.Applied()
	a.setStatus("Applied to "+msg.target.Name, StatusSuccessStyle)
	a.refresh()
}

func (a *App) reset() {
	t := a.current()
	if t == nil || !t.Modified() {
		return
	}
	t.Draft.Reset()
	a.setStatus("Discarded edits", StatusInfoStyle)
	a.refresh()
}

// revealFirstError moves focus to the first entry with a field error.
func (a *App) revealFirstError(t *Target) {
	errs := t.Draft.FieldErrors()
	if len(errs) == 0 {
		return
	}
	ids := slices.Sorted(maps.Keys(errs))
	a.bus.Fire(eventbus.ShowEntryEvent, eventbus.ShowEntry{ID: ids[0]})
}

func (a *App) setStatus(text string, style lipgloss.Style) {
	a.status = text
	a.statusStyle = style
}

func (a *App) resize() {
	a.panel.SetSize(a.panelWidth(), a.paneHeight())
}

func (a *App) panelWidth() int {
	return max(a.width-ListPaneWidth-8, 20)
}

func (a *App) paneHeight() int {
	extra := 0
	if a.help.ShowAll {
		extra = 2
	}
	return max(a.height-chromeHeight-extra, 3)
}

// View renders the device list beside the panel.
func (a *App) View() string {
	listStyle, panelStyle := ActivePaneStyle, InactivePaneStyle
	if a.focus == FocusPanel {
		listStyle, panelStyle = InactivePaneStyle, ActivePaneStyle
	}

	height := a.paneHeight()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(ListPaneWidth).Height(height).Render(a.renderList()),
		panelStyle.Width(a.panelWidth()).Height(height).Render(a.panel.View()),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatus())
	return RenderApplicationContainer(content, a.helpView(), a.width, a.height)
}

func (a *App) helpView() string {
	if a.focus == FocusPanel {
		return a.help.View(a.panelKeys)
	}
	return a.help.View(a.listKeys)
}

func (a *App) renderStatus() string {
	text := a.status
	if a.scanning || a.applying {
		text = a.spinner.View() + " " + text
	}
	return a.statusStyle.Render(text)
}

func (a *App) renderList() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Devices"))
	if a.scanning {
		b.WriteString(" " + a.spinner.View())
	}
	b.WriteString("\n\n")

	if len(a.targets) == 0 {
		b.WriteString(SubtitleStyle.Render("Nothing listed yet."))
		return b.String()
	}

	for i, t := range a.targets {
		mark := "[ ]"
		if a.marked[t] {
			mark = "[x]"
		}

		var state string
		switch {
		case t.Loading:
			state = a.spinner.View()
		case t.Err != nil:
			state = StatusErrorStyle.Render("!")
		case t.Modified():
			state = ModifiedStyle.Render("●")
		}

		line := mark + " " + truncate(a.targetName(t), ListPaneWidth-9) + " " + state
		if i == a.cursor {
			b.WriteString(SelectedListItemStyle.Render("→ " + line))
		} else {
			b.WriteString(ListItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) targetName(t *Target) string {
	serial := t.Serial()
	if a.registry == nil || serial == "" {
		return t.Name
	}
	if name := a.registry.DisplayName(serial); name != serial {
		return name
	}
	return t.Name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
