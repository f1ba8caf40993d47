package panel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/eventbus"
	"github.com/muurk/smartap-inspector/internal/layout"
	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/metrics"
)

// Mode is what the panel currently shows.
type Mode int

const (
	// ModeNormal shows the header and groups.
	ModeNormal Mode = iota
	// ModeEmpty shows the empty-selection placeholder.
	ModeEmpty
	// ModeMultiple shows the multi-selection placeholder.
	ModeMultiple
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeMultiple:
		return "multiple"
	default:
		return "normal"
	}
}

// Props configures a panel. Only Groups is required.
type Props struct {
	// ID names the panel in logs.
	ID string

	Element             Element
	HeaderProvider      HeaderProvider
	PlaceholderProvider PlaceholderProvider
	Groups              []Definition

	// LayoutConfig is merged onto the default layout when the panel is
	// created. Later values are ignored; the layout belongs to the panel.
	LayoutConfig layout.Tree
	// LayoutChanged receives the full layout once at creation and after
	// every change.
	LayoutChanged func(layout.Tree)

	DescriptionConfig DescriptionMap
	// DescriptionLoaded is called with the descriptions whenever a new
	// DescriptionConfig map is applied.
	DescriptionLoaded func(DescriptionMap)

	EventBus eventbus.Bus
	Metrics  *metrics.Panel
}

type subscription struct {
	event string
	id    eventbus.Subscription
}

// Panel is a properties panel bound to one selection at a time.
//
// A Panel is a Bubble Tea component: the host forwards messages to Update
// and embeds View. All methods must be called from the goroutine running
// the host's Update, including bus Fire calls that reach the panel.
type Panel struct {
	props Props

	layout       *layout.Store
	descriptions *Descriptions
	errors       *ErrorStore
	svc          *Services
	groups       []GroupComponent

	bus  eventbus.Bus
	subs []subscription

	rows      []Row
	cursor    int
	focused   Entry
	revealing string
	pending   []tea.Cmd

	keys     KeyMap
	viewport viewport.Model
	body     string
	width    int
	height   int
}

// New creates a panel and mounts its groups.
func New(props Props) *Panel {
	p := &Panel{
		props:    props,
		errors:   NewErrorStore(),
		keys:     DefaultKeyMap(),
		viewport: viewport.New(0, 0),
	}

	p.layout = layout.NewStore(props.LayoutConfig, p.layoutChanged)
	if props.LayoutChanged != nil {
		props.LayoutChanged(p.layout.Snapshot())
	}

	p.descriptions = NewDescriptions(nil)
	p.seedDescriptions(props.DescriptionConfig)

	p.subscribe(props.EventBus)
	p.mount()
	return p
}

// Mode returns the current render mode.
func (p *Panel) Mode() Mode {
	return modeOf(p.props)
}

func modeOf(props Props) Mode {
	if props.PlaceholderProvider != nil && IsEmpty(props.Element) {
		return ModeEmpty
	}
	if props.PlaceholderProvider != nil && IsMultiple(props.Element) {
		return ModeMultiple
	}
	return ModeNormal
}

// SetProps applies a new configuration.
//
// A different element, or a change of mode, disposes every group and
// entry and mounts fresh ones. Otherwise groups and entries are matched
// by id and keep their local state.
func (p *Panel) SetProps(next Props) {
	prev := p.props
	p.props = next

	if !sameBus(prev.EventBus, next.EventBus) {
		p.unsubscribe()
		p.subscribe(next.EventBus)
	}
	if !sameDescriptionMap(prev.DescriptionConfig, next.DescriptionConfig) {
		p.seedDescriptions(next.DescriptionConfig)
	}

	if !SameElement(prev.Element, next.Element) || modeOf(prev) != modeOf(next) {
		logging.Debug("Panel selection changed",
			zap.String("panel", next.ID),
			zap.Stringer("mode", modeOf(next)),
		)
		p.unmount()
		p.mount()
		return
	}

	p.reconcile(next.Groups)
	p.settle()
}

// Close unsubscribes from the event bus and disposes every entry.
func (p *Panel) Close() {
	p.unsubscribe()
	p.unmount()
}

// Update handles a message and returns follow-up commands.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmds = append(cmds, p.handleKey(msg))
	case RefreshMsg:
	default:
		for _, e := range p.Entries() {
			cmds = append(cmds, e.Update(msg))
		}
	}

	p.settle()
	cmds = append(cmds, p.pending...)
	p.pending = nil
	return tea.Batch(cmds...)
}

func (p *Panel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.Mode() != ModeNormal || len(p.rows) == 0 {
		return nil
	}

	switch {
	case key.Matches(msg, p.keys.Up, p.keys.Prev):
		p.move(-1)
		return nil
	case key.Matches(msg, p.keys.Down, p.keys.Next):
		p.move(1)
		return nil
	}

	row := p.rows[p.cursor]
	g := p.Group(row.Group)
	if g == nil {
		return nil
	}

	if row.Kind != EntryRow {
		if cmd, ok := g.HandleKey(row, msg); ok {
			return cmd
		}
		if key.Matches(msg, p.keys.Toggle) {
			g.Toggle(row)
		}
		return nil
	}

	if e := g.Entry(row); e != nil {
		return e.Update(msg)
	}
	return nil
}

func (p *Panel) move(delta int) {
	next := p.cursor + delta
	if next < 0 || next >= len(p.rows) {
		return
	}
	p.cursor = next
}

// View renders the panel.
func (p *Panel) View() string {
	switch p.Mode() {
	case ModeEmpty:
		return renderPlaceholder(p.props.PlaceholderProvider.GetEmpty(p.props.Element))
	case ModeMultiple:
		return renderPlaceholder(p.props.PlaceholderProvider.GetMultiple(p.props.Element))
	}

	header := renderPanelHeader(p.props.HeaderProvider, p.props.Element)
	if !p.IsOpen() {
		return header
	}
	if p.height <= 0 {
		return header + p.body
	}
	return header + p.viewport.View()
}

// SetSize sets the area available to the panel.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height

	headerHeight := 0
	if header := renderPanelHeader(p.props.HeaderProvider, p.props.Element); header != "" {
		headerHeight = lipgloss.Height(header) - 1
	}
	p.viewport.Width = width
	p.viewport.Height = max(height-headerHeight, 0)
	p.refreshContent()
}

// IsOpen reports the panel-level open flag stored at the layout root.
func (p *Panel) IsOpen() bool {
	return p.layout.GetBool(layout.Path{"open"}, true)
}

// SetOpen writes the panel-level open flag.
func (p *Panel) SetOpen(open bool) {
	logging.LogLayoutChange(p.props.ID, "open", open)
	p.layout.Set(layout.Path{"open"}, open)
	p.refreshContent()
}

// Layout returns the current layout snapshot.
func (p *Panel) Layout() layout.Tree {
	return p.layout.Snapshot()
}

// Errors returns a copy of the global errors.
func (p *Panel) Errors() map[string]string {
	return p.errors.All()
}

// Services returns the services handed to mounted entries, or nil when
// no groups are mounted.
func (p *Panel) Services() *Services {
	return p.svc
}

// KeyMap returns the panel's bindings for help rendering.
func (p *Panel) KeyMap() KeyMap {
	return p.keys
}

// Groups returns the mounted groups in order.
func (p *Panel) Groups() []GroupComponent {
	return p.groups
}

// Group returns the mounted group with id, or nil.
func (p *Panel) Group(id string) GroupComponent {
	for _, g := range p.groups {
		if g.ID() == id {
			return g
		}
	}
	return nil
}

// Entries returns every mounted entry.
func (p *Panel) Entries() []Entry {
	var out []Entry
	for _, g := range p.groups {
		out = append(out, g.Entries()...)
	}
	return out
}

// Rows returns the visible cursor stops.
func (p *Panel) Rows() []Row {
	return p.rows
}

// Cursor returns the focused row.
func (p *Panel) Cursor() (Row, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return Row{}, false
	}
	return p.rows[p.cursor], true
}

// Focused returns the entry holding keyboard focus, if any.
func (p *Panel) Focused() Entry {
	return p.focused
}

// ShowEntry opens the sections around an entry and focuses it, the same
// as a showEntry event.
func (p *Panel) ShowEntry(id string) {
	p.revealing = id
	p.settle()
}

func (p *Panel) mount() {
	p.groups = nil
	p.focused = nil
	p.cursor = 0
	p.rows = nil
	p.svc = nil

	if p.Mode() == ModeNormal {
		p.svc = NewServices(ServicesConfig{
			PanelID:      p.props.ID,
			Element:      p.props.Element,
			Layout:       p.layout,
			Descriptions: p.descriptions,
			Errors:       p.errors,
			Metrics:      p.props.Metrics,
			Fire:         p.fire,
			Reveal:       p.requestReveal,
		})
		for _, def := range p.props.Groups {
			c := def.newComponent()
			c.Mount(p.svc)
			p.groups = append(p.groups, c)
		}
	}
	p.settle()
}

func (p *Panel) unmount() {
	if p.focused != nil {
		p.focused.Blur()
		p.focused = nil
	}
	for _, g := range p.groups {
		g.Dispose()
	}
	p.groups = nil
	p.rows = nil
	p.revealing = ""
}

func (p *Panel) reconcile(defs []Definition) {
	if p.Mode() != ModeNormal {
		return
	}

	byID := make(map[string]GroupComponent, len(p.groups))
	for _, g := range p.groups {
		byID[g.ID()] = g
	}

	next := make([]GroupComponent, 0, len(defs))
	for _, def := range defs {
		if g, ok := byID[def.GroupID()]; ok {
			delete(byID, def.GroupID())
			if g.Reconcile(def) {
				next = append(next, g)
				continue
			}
			g.Dispose()
		}
		c := def.newComponent()
		c.Mount(p.svc)
		next = append(next, c)
	}

	for _, g := range byID {
		g.Dispose()
	}
	p.groups = next
}

// settle runs after every change: entries pick up the element's current
// values, then groups recompute edited state from what the entries show.
func (p *Panel) settle() {
	for _, e := range p.Entries() {
		e.Sync()
	}
	for _, g := range p.groups {
		g.Settle()
	}

	p.rebuildRows()
	if p.revealing != "" {
		id := p.revealing
		p.revealing = ""
		p.applyReveal(id)
	}
	p.syncFocus()
	p.refreshContent()
}

func (p *Panel) rebuildRows() {
	var current Row
	had := p.cursor >= 0 && p.cursor < len(p.rows)
	if had {
		current = p.rows[p.cursor]
	}

	var rows []Row
	for _, g := range p.groups {
		rows = append(rows, g.Rows()...)
	}
	p.rows = rows

	if had {
		for i, r := range rows {
			if r == current {
				p.cursor = i
				return
			}
		}
		// The focused row was hidden; fall back to its group header.
		for i, r := range rows {
			if r.Kind == GroupHeaderRow && r.Group == current.Group {
				p.cursor = i
				return
			}
		}
	}

	if p.cursor >= len(rows) {
		p.cursor = len(rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *Panel) applyReveal(id string) {
	for _, g := range p.groups {
		if !g.Locate(id) {
			continue
		}
		p.rebuildRows()
		for i, r := range p.rows {
			if r.Kind == EntryRow && r.Group == g.ID() && r.Entry == id {
				p.cursor = i
				return
			}
		}
		return
	}
	logging.Debug("No entry to reveal",
		zap.String("panel", p.props.ID),
		zap.String("entry", id),
	)
}

func (p *Panel) syncFocus() {
	var want Entry
	if row, ok := p.Cursor(); ok && row.Kind == EntryRow {
		if g := p.Group(row.Group); g != nil {
			want = g.Entry(row)
		}
	}
	if want == p.focused {
		return
	}
	if p.focused != nil {
		p.focused.Blur()
	}
	p.focused = want
	if want != nil {
		p.pending = append(p.pending, want.Focus())
	}
}

func (p *Panel) refreshContent() {
	if p.Mode() != ModeNormal {
		p.body = ""
		p.viewport.SetContent("")
		return
	}

	focus, hasFocus := p.Cursor()
	width := p.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	focusLine := -1
	line := 0
	for i, g := range p.groups {
		block, at := g.View(focus, hasFocus, width)
		if at >= 0 {
			focusLine = line + at
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)
		line += lipgloss.Height(block)
	}
	p.body = b.String()
	p.viewport.SetContent(p.body)

	if focusLine < 0 || p.viewport.Height <= 0 {
		return
	}
	if focusLine < p.viewport.YOffset {
		p.viewport.SetYOffset(focusLine)
	} else if focusLine >= p.viewport.YOffset+p.viewport.Height {
		p.viewport.SetYOffset(focusLine - p.viewport.Height + 1)
	}
}

func (p *Panel) layoutChanged(tree layout.Tree) {
	p.props.Metrics.LayoutWrite()
	if p.props.LayoutChanged != nil {
		p.props.LayoutChanged(tree)
	}
}

func (p *Panel) seedDescriptions(config DescriptionMap) {
	p.descriptions.reset(config)
	if p.props.DescriptionLoaded != nil {
		p.props.DescriptionLoaded(p.descriptions.Map())
	}
}

func (p *Panel) fire(event string, payload any) {
	if p.bus != nil {
		p.bus.Fire(event, payload)
	}
}

func (p *Panel) requestReveal(id string) {
	p.revealing = id
}

func (p *Panel) subscribe(bus eventbus.Bus) {
	p.bus = bus
	if bus == nil {
		return
	}
	p.subs = []subscription{
		{event: eventbus.SetErrorsEvent, id: bus.On(eventbus.SetErrorsEvent, p.onSetErrors)},
		{event: eventbus.ShowEntryEvent, id: bus.On(eventbus.ShowEntryEvent, p.onShowEntry)},
	}
}

func (p *Panel) unsubscribe() {
	if p.bus != nil {
		for _, s := range p.subs {
			p.bus.Off(s.event, s.id)
		}
	}
	p.subs = nil
	p.bus = nil
}

func (p *Panel) onSetErrors(payload any) {
	var errs map[string]string
	switch v := payload.(type) {
	case eventbus.SetErrors:
		errs = v.Errors
	case *eventbus.SetErrors:
		if v != nil {
			errs = v.Errors
		}
	case map[string]string:
		errs = v
	default:
		logging.Warn("Ignoring setErrors payload",
			zap.String("panel", p.props.ID),
			zap.String("type", fmt.Sprintf("%T", payload)),
		)
		return
	}

	p.errors.Replace(errs)
	logging.LogErrorsReplaced(errs)
	p.props.Metrics.ErrorSignal()
	p.refreshContent()
}

func (p *Panel) onShowEntry(payload any) {
	var id string
	switch v := payload.(type) {
	case eventbus.ShowEntry:
		id = v.ID
	case *eventbus.ShowEntry:
		if v != nil {
			id = v.ID
		}
	case string:
		id = v
	}
	if id == "" {
		return
	}

	p.props.Metrics.ShowEntrySignal()
	p.ShowEntry(id)
}

func sameBus(a, b eventbus.Bus) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func sameDescriptionMap(a, b DescriptionMap) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
