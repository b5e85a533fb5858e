package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mull-sh/mull/internal/conv"
	"github.com/mull-sh/mull/internal/db"
	"github.com/mull-sh/mull/internal/logger"
	"github.com/mull-sh/mull/internal/stream"
	"github.com/mull-sh/mull/internal/theme"
	"github.com/mull-sh/mull/internal/thinktrack"
	"github.com/mull-sh/mull/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Options wires the model's collaborators. The tracker is the single
// timing-state instance for the whole program; the model never
// creates its own.
type Options struct {
	SocketPath string
	Replay     *stream.Replayer
	Tracker    *thinktrack.Tracker
	Theme      *theme.Theme
	Store      *db.Store
	Log        *logger.Logger
	TickPeriod time.Duration
}

// Model is the root bubbletea model for the mull TUI.
type Model struct {
	// Connection state
	client           *stream.Client
	socketPath       string
	connected        bool
	connError        string
	reconnecting     bool
	reconnectAttempt int

	// Replay state
	replay     *stream.Replayer
	replayDone bool

	// Session state
	sessionID    string
	sessionTitle string
	sessionStart time.Time
	msgs         []*conv.Message
	byTS         map[int64]*conv.Message
	elements     map[int64][]ui.Element

	// Thinking timers
	tracker     *thinktrack.Tracker
	binder      *thinktrack.Binder
	th          *theme.Theme
	tickPeriod  time.Duration
	tickRunning bool
	tickGen     int

	// Archive + logging
	store *db.Store
	log   *logger.Logger

	// UI state
	width      int
	height     int
	scroll     int
	follow     bool
	selected   int
	thinkRefs  []*ui.ThinkingBlock
	renderer   *glamour.TermRenderer
	spin       spinner.Model
	helpView   help.Model
	keys       keyMap
	statusText string
}

// New creates a Model with default state.
func New(opts Options) Model {
	tr := opts.Tracker
	if tr == nil {
		tr = thinktrack.New()
	}
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	tr.SetTheme(th)

	period := opts.TickPeriod
	if period <= 0 {
		period = 100 * time.Millisecond
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = ui.SpinnerStyle

	return Model{
		socketPath: opts.SocketPath,
		replay:     opts.Replay,
		tracker:    tr,
		binder:     thinktrack.NewBinder(tr),
		th:         th,
		tickPeriod: period,
		store:      opts.Store,
		log:        opts.Log,
		byTS:       make(map[int64]*conv.Message),
		elements:   make(map[int64][]ui.Element),
		spin:       spin,
		helpView:   help.New(),
		keys:       keys,
		follow:     true,
	}
}

// Init returns the initial command: connect to the daemon, or start
// pulling from the replay file.
func (m Model) Init() tea.Cmd {
	if m.replay != nil {
		return replayNextCmd(m.replay)
	}
	return connectCmd(m.socketPath)
}

// connectCmd dials the daemon socket.
func connectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		client, err := stream.Connect(path)
		if err != nil {
			return ConnectErrorMsg{Err: err}
		}
		return ConnectedMsg{Client: client}
	}
}

// subscribeCmd performs the subscribe handshake and reads the first
// event.
func subscribeCmd(client *stream.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.SendCommand(stream.Command{Cmd: "subscribe"})
		if err != nil {
			return StreamErrorMsg{Err: err}
		}
		if !resp.OK {
			return StreamErrorMsg{Err: fmt.Errorf("subscribe rejected: %s", resp.Error)}
		}
		return readEventCmd(client)()
	}
}

// readEventCmd reads the next event from the daemon.
func readEventCmd(client *stream.Client) tea.Cmd {
	return func() tea.Msg {
		ev, err := client.ReadEvent()
		if err != nil {
			return StreamErrorMsg{Err: err}
		}
		return StreamEventMsg{Event: ev}
	}
}

// replayNextCmd pulls the next replay event after its recorded delay.
func replayNextCmd(r *stream.Replayer) tea.Cmd {
	return func() tea.Msg {
		ev, delay, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ReplayDoneMsg{}
			}
			return ReplayDoneMsg{Err: err}
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		return StreamEventMsg{Event: ev}
	}
}

// reconnectCmd schedules a reconnection attempt with exponential backoff.
func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second // 1s, 2s, 4s, 8s, 16s cap
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReconnectTickMsg{}
	})
}

// thinkTickCmd schedules the next elapsed-time repaint.
func thinkTickCmd(gen int, period time.Duration) tea.Cmd {
	return tea.Tick(period, func(time.Time) tea.Msg {
		return thinkTickMsg{gen: gen}
	})
}

// archiveCmd writes a finished session to the store. Failures are
// logged, never surfaced; archiving must not disturb the session
// reset.
func archiveCmd(store *db.Store, log *logger.Logger, sess db.Session, spans []db.Span) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := store.ArchiveSession(sess, spans); err != nil {
			log.Warn("archive session %q: %v", sess.ID, err)
		}
		return nil
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.initRenderer()
		m.rebuildAll(time.Now())
		return m, nil

	case spinner.TickMsg:
		if !m.tracker.HasActive() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ConnectedMsg:
		m.client = msg.Client
		m.connected = true
		m.connError = ""
		m.reconnecting = false
		m.reconnectAttempt = 0
		return m, subscribeCmd(m.client)

	case ConnectErrorMsg:
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		return m, reconnectCmd(m.reconnectAttempt)

	case StreamEventMsg:
		cmd := m.handleEvent(msg.Event)
		var next tea.Cmd
		switch {
		case m.replay != nil:
			next = replayNextCmd(m.replay)
		case m.client != nil:
			next = readEventCmd(m.client)
		}
		return m, tea.Batch(cmd, next)

	case StreamErrorMsg:
		m.log.Warn("stream: %v", msg.Err)
		m.connected = false
		m.connError = msg.Err.Error()
		m.reconnecting = true
		if m.client != nil {
			m.client.Close()
			m.client = nil
		}
		// The daemon is gone; whatever session was open is over.
		endCmd := m.endSession(time.Now())
		return m, tea.Batch(endCmd, reconnectCmd(m.reconnectAttempt))

	case ReconnectTickMsg:
		m.reconnectAttempt++
		return m, connectCmd(m.socketPath)

	case ReplayDoneMsg:
		m.replayDone = true
		if msg.Err != nil {
			m.log.Warn("replay: %v", msg.Err)
		}
		return m, nil

	case thinkTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		if !m.tracker.HasActive() {
			m.stopTicker()
			return m, nil
		}
		m.tracker.RepaintActive(time.Now())
		return m, thinkTickCmd(m.tickGen, m.tickPeriod)
	}

	return m, nil
}

// handleEvent folds one stream event into the conversation and timing
// state, returning any resulting command. Unknown events are ignored.
func (m *Model) handleEvent(ev stream.Event) tea.Cmd {
	now := time.Now()

	switch ev.Event {
	case "session_start", "session_switch":
		cmd := m.endSession(now)
		m.sessionID = ev.SessionID
		m.sessionTitle = ev.Title
		m.sessionStart = eventTime(ev.TS, now)
		return cmd

	case "session_end":
		return m.endSession(now)

	case "message_start":
		msg := m.message(ev.MessageTS)
		if ev.Role != "" {
			msg.Role = ev.Role
		}
		m.rebuild(msg, now)

	case "text_update":
		if ev.Segment == nil {
			return nil
		}
		msg := m.message(ev.MessageTS)
		seg := msg.EnsureSegment(*ev.Segment)
		if seg == nil {
			return nil
		}
		if ev.Text != nil {
			seg.Text = *ev.Text
		}
		m.rebuild(msg, now)

	case "thinking_start", "thinking_update":
		if ev.Segment == nil {
			return nil
		}
		msg := m.message(ev.MessageTS)
		seg := msg.EnsureSegment(*ev.Segment)
		if seg == nil {
			return nil
		}
		seg.Kind = conv.KindThinking
		if ev.Text != nil {
			seg.Text = *ev.Text
		}

		m.tracker.SetTheme(m.th)
		key := thinktrack.SegmentKey{MsgTS: ev.MessageTS, Seg: *ev.Segment}
		m.tracker.Begin(key, now)
		m.rebuild(msg, now)
		// Paint right away so the label doesn't wait for the first tick.
		m.tracker.Repaint(key, now)
		return m.ensureTicker()

	case "thinking_end":
		if ev.Segment == nil {
			return nil
		}
		m.tracker.Finish(thinktrack.SegmentKey{MsgTS: ev.MessageTS, Seg: *ev.Segment}, now)
		m.stopTickerIfIdle()

	case "message_end":
		msg := m.message(ev.MessageTS)
		if len(ev.Content) > 0 {
			segs := make([]conv.Segment, 0, len(ev.Content))
			for _, c := range ev.Content {
				segs = append(segs, conv.Segment{Kind: conv.SegmentKind(c.Kind), Text: c.Text})
			}
			msg.Segments = segs
		}
		msg.Done = true
		// Safety net: the stream may never deliver a thinking_end.
		m.tracker.FinishMessage(ev.MessageTS, now)
		m.rebuild(msg, now)
		m.stopTickerIfIdle()

	case "status":
		m.statusText = ev.Message
	}

	return nil
}

// message returns the conversation message with the given timestamp,
// creating it when an event arrives before its message_start.
func (m *Model) message(ts int64) *conv.Message {
	if msg, ok := m.byTS[ts]; ok {
		return msg
	}
	msg := &conv.Message{TS: ts, Role: "assistant"}
	m.byTS[ts] = msg
	m.msgs = append(m.msgs, msg)
	return msg
}

// endSession archives the current session and clears all state. Safe
// to call when no session is open.
func (m *Model) endSession(now time.Time) tea.Cmd {
	var cmd tea.Cmd
	if m.sessionID != "" || len(m.msgs) > 0 {
		spans := m.tracker.FinalizedSpans()
		var total int64
		dbSpans := make([]db.Span, 0, len(spans))
		for _, sp := range spans {
			total += sp.DurationMS
			dbSpans = append(dbSpans, db.Span{
				MessageTS:    sp.MsgTS,
				SegmentIndex: sp.Seg,
				DurationMS:   sp.DurationMS,
			})
		}
		started := m.sessionStart
		if started.IsZero() {
			started = now
		}
		cmd = archiveCmd(m.store, m.log, db.Session{
			ID:         m.sessionID,
			Title:      m.sessionTitle,
			StartedAt:  started,
			EndedAt:    now,
			Messages:   len(m.msgs),
			ThinkingMS: total,
		}, dbSpans)
	}
	m.resetSession()
	return cmd
}

// resetSession drops every piece of per-session state: timers, label
// bindings, transcript, and any leftover status text.
func (m *Model) resetSession() {
	m.stopTicker()
	m.tracker.Reset()
	m.tracker.SetTheme(m.th)
	m.sessionID = ""
	m.sessionTitle = ""
	m.sessionStart = time.Time{}
	m.msgs = nil
	m.byTS = make(map[int64]*conv.Message)
	m.elements = make(map[int64][]ui.Element)
	m.thinkRefs = nil
	m.selected = 0
	m.scroll = 0
	m.follow = true
	m.statusText = ""
}

// ensureTicker starts the repaint ticker when segments are running and
// it isn't already. The spinner rides along.
func (m *Model) ensureTicker() tea.Cmd {
	if m.tickRunning || !m.tracker.HasActive() {
		return nil
	}
	m.tickRunning = true
	m.tickGen++
	return tea.Batch(thinkTickCmd(m.tickGen, m.tickPeriod), m.spin.Tick)
}

// stopTicker invalidates any in-flight tick by bumping the generation.
func (m *Model) stopTicker() {
	if m.tickRunning {
		m.tickRunning = false
		m.tickGen++
	}
}

func (m *Model) stopTickerIfIdle() {
	if !m.tracker.HasActive() {
		m.stopTicker()
	}
}

// rebuildAll regenerates every message's elements, e.g. after a
// resize changed the wrap width.
func (m *Model) rebuildAll(now time.Time) {
	for _, msg := range m.msgs {
		m.rebuild(msg, now)
	}
}

// rebuild regenerates one message's elements and runs the post-render
// hook that rebinds thinking labels to the fresh elements.
func (m *Model) rebuild(msg *conv.Message, now time.Time) {
	if msg == nil {
		return
	}
	els := m.buildElements(msg, m.elements[msg.TS])
	m.elements[msg.TS] = els
	m.refreshThinkRefs()
	m.binder.Rebind(msg, els, now)
}

// buildElements turns a message into renderable blocks. Thinking
// segments start out collapsed under the marker header; expansion
// state carries over from the previous build by thinking ordinal.
func (m *Model) buildElements(msg *conv.Message, old []ui.Element) []ui.Element {
	var prior []*ui.ThinkingBlock
	for _, el := range old {
		if tb, ok := el.(*ui.ThinkingBlock); ok {
			prior = append(prior, tb)
		}
	}

	els := []ui.Element{
		ui.NewRoleHeader(strings.ToUpper(msg.Role), m.th.RoleStyle(msg.Role)),
	}

	var nthThinking int
	for _, seg := range msg.Segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		switch seg.Kind {
		case conv.KindThinking:
			block := ui.NewThinkingBlock(
				m.th.ThinkingIdle(),
				m.wrap(seg.Text),
				m.th.ChevronStyle(),
				m.th.ThinkingBody(),
			)
			if nthThinking < len(prior) {
				block.Expanded = prior[nthThinking].Expanded
			}
			nthThinking++
			els = append(els, block)
		case conv.KindTool:
			els = append(els, ui.NewTextBlock(m.wrap(seg.Text), m.th.ToolStyle()))
		default:
			els = append(els, ui.NewTextBlock(m.markdown(seg.Text), lipgloss.NewStyle()))
		}
	}
	return els
}

// refreshThinkRefs rebuilds the ordered list of thinking blocks the
// tab cursor walks, carrying the selection across rebuilds.
func (m *Model) refreshThinkRefs() {
	m.thinkRefs = m.thinkRefs[:0]
	for _, msg := range m.msgs {
		for _, el := range m.elements[msg.TS] {
			if tb, ok := el.(*ui.ThinkingBlock); ok {
				m.thinkRefs = append(m.thinkRefs, tb)
			}
		}
	}
	if m.selected >= len(m.thinkRefs) {
		m.selected = max(0, len(m.thinkRefs)-1)
	}
	for i, tb := range m.thinkRefs {
		tb.Selected = i == m.selected && len(m.thinkRefs) > 0
	}
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.client != nil {
			m.client.Close()
		}
		if m.replay != nil {
			m.replay.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.follow = false
		if m.scroll > 0 {
			m.scroll--
		}

	case key.Matches(msg, m.keys.Down):
		maxScroll := m.maxScroll()
		m.scroll++
		if m.scroll >= maxScroll {
			m.scroll = maxScroll
			m.follow = true
		}

	case key.Matches(msg, m.keys.Follow):
		m.follow = true
		m.scroll = m.maxScroll()

	case key.Matches(msg, m.keys.NextThought):
		if len(m.thinkRefs) > 0 {
			m.selected = (m.selected + 1) % len(m.thinkRefs)
			m.refreshThinkRefs()
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.selected < len(m.thinkRefs) {
			m.thinkRefs[m.selected].Expanded = !m.thinkRefs[m.selected].Expanded
		}

	case key.Matches(msg, m.keys.Help):
		m.helpView.ShowAll = !m.helpView.ShowAll
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Starting mull..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderTranscript())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.helpView.View(m.keys))

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("MULL")
	if m.sessionTitle != "" {
		title += ui.DimStyle.Render(" — " + m.sessionTitle)
	}
	if m.replay != nil {
		title += " " + ui.ReplayBadgeStyle.Render("REPLAY")
	}
	return title
}

func (m Model) renderStatusBar() string {
	var parts []string

	switch {
	case m.replay != nil && m.replayDone:
		parts = append(parts, ui.DimStyle.Render("■ replay finished"))
	case m.replay != nil:
		parts = append(parts, ui.ConnectedDotStyle.Render("▶ replaying"))
	case m.connected:
		parts = append(parts, ui.ConnectedDotStyle.Render("● connected"))
	case m.reconnecting:
		parts = append(parts, ui.DisconnectedDotStyle.Render("○ reconnecting"))
	default:
		parts = append(parts, ui.DimStyle.Render("○ connecting"))
	}

	if n := m.tracker.ActiveCount(); n > 0 {
		label := fmt.Sprintf("%d thinking", n)
		parts = append(parts, m.spin.View()+" "+ui.StatusStyle.Render(label))
	}

	if m.follow {
		parts = append(parts, ui.LiveBadgeStyle.Render("LIVE"))
	} else {
		parts = append(parts, ui.ScrollBadgeStyle.Render("SCROLL"))
	}

	if m.statusText != "" {
		parts = append(parts, ui.StatusStyle.Render(m.statusText))
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderTranscript() string {
	visible := m.transcriptHeight()
	lines := m.transcriptLines()

	if len(lines) == 0 {
		var empty []string
		if m.reconnecting {
			empty = append(empty, ui.ErrorTextStyle.Render("  Daemon disconnected. Reconnecting..."))
			if m.connError != "" {
				empty = append(empty, ui.DimStyle.Render("  "+m.connError))
			}
		} else {
			empty = append(empty, ui.DimStyle.Render("  Waiting for a session..."))
		}
		lines = empty
	}

	start := m.scroll
	if m.follow && len(lines) > visible {
		start = len(lines) - visible
	}
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	window := lines[start:end]

	out := make([]string, 0, visible)
	out = append(out, window...)
	for len(out) < visible {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// transcriptLines flattens every message's elements, reading each
// block's current lines so freshly painted labels show up.
func (m Model) transcriptLines() []string {
	var lines []string
	for i, msg := range m.msgs {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, el := range m.elements[msg.TS] {
			lines = append(lines, el.Lines()...)
		}
	}
	return lines
}

func (m Model) maxScroll() int {
	total := len(m.transcriptLines())
	visible := m.transcriptHeight()
	if total <= visible {
		return 0
	}
	return total - visible
}

func (m Model) transcriptHeight() int {
	if m.height == 0 {
		return 20
	}
	// header + status + two dividers + help footer
	return max(5, m.height-5)
}

func (m *Model) initRenderer() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.textWidth()),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

func (m Model) textWidth() int {
	if m.width == 0 {
		return 76
	}
	return max(20, m.width-4)
}

// markdown renders a text segment through glamour, falling back to a
// plain word wrap when no renderer is available.
func (m Model) markdown(text string) []string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.Split(strings.Trim(out, "\n"), "\n")
		}
	}
	return m.wrap(text)
}

func (m Model) wrap(text string) []string {
	return strings.Split(wordwrap.String(text, m.textWidth()), "\n")
}

func eventTime(ms int64, fallback time.Time) time.Time {
	if ms == 0 {
		return fallback
	}
	return time.UnixMilli(ms)
}
