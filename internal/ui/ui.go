package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/desertthunder/dsx/internal/browse"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/services"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/desertthunder/dsx/internal/tasks"
	"github.com/desertthunder/dsx/internal/widget"
)

const cueDuration = 800 * time.Millisecond

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MainView ViewState = iota
	PickerView
	BrowseView
)

type focusArea int

const (
	focusZone focusArea = iota
	focusTags
)

// ModelOpts configures a [Model]. Portal and Config are required.
type ModelOpts struct {
	Portal   services.Portal
	Engine   tasks.Engine       // defaults to a [tasks.PortalEngine] over Portal
	Config   *shared.Config     // upload defaults, timeouts, download directory
	Logger   *log.Logger        // defaults to a discarding logger
	StartDir string             // first directory shown by the file picker
	OpenLink func(string) error // defaults to [shared.OpenBrowser]
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	focus    focusArea
	cfg      *shared.Config
	portal   services.Portal
	engine   tasks.Engine
	logger   *log.Logger
	openLink func(string) error
	startDir string

	widget *widget.Widget
	modal  *browse.Modal

	tagInput textinput.Model
	picker   filepicker.Model
	bar      progress.Model
	spin     spinner.Model
	help     help.Model
	keys     keyMap

	status   models.Status
	statusID int

	uploading    bool
	upload       tasks.ProgressUpdate
	progressChan <-chan tasks.ProgressUpdate
	uploadDone   <-chan Msg

	width     int
	height    int
	zone      rect
	removeRow int
	tagsRow   int
	panel     rect
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine := opts.Engine
	if engine == nil {
		engine = tasks.NewPortalEngine(opts.Portal)
	}
	openLink := opts.OpenLink
	if openLink == nil {
		openLink = shared.OpenBrowser
	}

	ti := textinput.New()
	ti.Placeholder = "Add a tag and press enter"
	ti.Prompt = "# "
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.stepOn

	m := &Model{
		ctx:      ctx,
		view:     MainView,
		focus:    focusZone,
		cfg:      cfg,
		portal:   opts.Portal,
		engine:   engine,
		logger:   logger,
		openLink: openLink,
		startDir: opts.StartDir,
		widget:   widget.New(),
		modal:    browse.NewModal(opts.Portal),
		tagInput: ti,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spin:     sp,
		help:     help.New(),
		keys:     newKeyMap(),
	}
	m.picker = m.newPicker()
	return m
}

func (m *Model) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.CurrentDirectory = m.startDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}
	return fp
}

// Init sets the window title; nothing is fetched until the user asks.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("dsx")
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case PickerView:
			return m.handlePickerKeys(msg)
		case BrowseView:
			return m.handleBrowseKeys(msg)
		default:
			return m.handleMainKeys(msg)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmds []tea.Cmd
	if m.view == PickerView {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.focus == focusTags {
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgListingFetched:
		r := msg.data.(browse.Result)
		st, applied := m.modal.Apply(r)
		if !applied {
			m.logger.Debug("dropped stale listing", "ticket", r.Ticket)
			return m, nil
		}
		if r.Err != nil {
			m.logger.Error("listing failed", "error", r.Err)
			m.view = MainView
			return m, m.setStatus(st)
		}
		m.logger.Info("listing loaded", "count", len(m.modal.Cards()))
		m.view = BrowseView
		return m, nil

	case MsgUploadProgress:
		m.upload = msg.data.(tasks.ProgressUpdate)
		return m, waitForUpload(m.progressChan, m.uploadDone)

	case MsgUploadComplete:
		out := msg.data.(uploadOutcome)
		m.uploading = false
		m.progressChan = nil
		m.uploadDone = nil
		if out.err != nil {
			m.logger.Error("upload failed", "error", out.err)
		} else {
			m.logger.Info("upload complete", "file_id", out.result.FileID)
		}
		st := m.widget.FinishSubmit(out.result, out.err)
		if _, staged := m.widget.Staged(); !staged {
			m.picker = m.newPicker()
		}
		return m, m.setStatus(st)

	case MsgDownloadComplete:
		out := msg.data.(downloadOutcome)
		if out.err != nil {
			m.logger.Error("download failed", "file_id", out.fileID, "error", out.err)
			return m, m.setStatus(models.ErrorStatus(fmt.Sprintf("Download failed: %v", out.err)))
		}
		m.logger.Info("downloaded", "file_id", out.fileID, "path", out.path, "bytes", out.bytes)
		return m, m.setStatus(models.SuccessStatus(fmt.Sprintf("Saved %s (%s)", out.path, shared.FormatBytes(out.bytes))))

	case MsgLinkOpened:
		out := msg.data.(linkOutcome)
		if out.err != nil {
			return m, m.setStatus(models.ErrorStatus(fmt.Sprintf("Could not open %s: %v", out.url, out.err)))
		}
		return m, m.setStatus(models.InfoStatus("Opened " + out.url))

	case MsgStatusExpired:
		if msg.data.(int) == m.statusID {
			m.status = models.Status{}
		}
		return m, nil

	case MsgCueExpired:
		if cue, ok := m.widget.Cue(); ok && cue == msg.data.(string) {
			m.widget.ClearCue()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		if cmd, dropped := m.handlePaste(string(msg.Runes)); dropped {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.focus):
		return m, m.toggleFocus()
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	}

	if m.focus == focusTags {
		return m.handleTagKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.exit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.pick):
		return m, m.dispatch(widget.ZoneClick{Target: widget.TargetZone})
	case key.Matches(msg, m.keys.remove):
		return m, m.dispatch(widget.RemoveClick{})
	case key.Matches(msg, m.keys.upload):
		return m, m.submit()
	case key.Matches(msg, m.keys.browse):
		return m, m.openBrowse()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleTagKeys gives the widget the first look at every key, the way a keypress listener can
// prevent the field's default handling.
func (m *Model) handleTagKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.toggleFocus()
	case msg.Type == tea.KeyBackspace && m.tagInput.Value() == "":
		if tag, ok := m.widget.RemoveLastTag(); ok {
			m.logger.Debug("tag removed", "tag", tag)
		}
		return m, nil
	}

	eff := m.widget.Dispatch(widget.TagKey{Key: msg.String(), Text: m.tagInput.Value()})
	if eff.PreventDefault {
		return m, m.apply(eff)
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

// handlePaste treats a paste that names at least one existing file as a drop on the zone.
func (m *Model) handlePaste(text string) (tea.Cmd, bool) {
	files := droppedFiles(text)
	if len(files) == 0 {
		return nil, false
	}
	m.widget.Dispatch(widget.DragEnter{})
	cmd := m.dispatch(widget.Drop{Files: files})
	m.logger.Info("file dropped", "name", files[0].Name, "candidates", len(files))
	return cmd, true
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = MainView
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.view = MainView
		f, err := widget.FileFromPath(path)
		if err != nil {
			return m, m.setStatus(models.ErrorStatus(err.Error()))
		}
		m.logger.Info("file picked", "path", path)
		return m, m.dispatch(widget.PickerChange{Files: []widget.File{f}})
	}
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.exit):
		m.closeBrowse()
	case key.Matches(msg, m.keys.up):
		m.modal.MoveSelection(-1)
	case key.Matches(msg, m.keys.down):
		m.modal.MoveSelection(1)
	case key.Matches(msg, m.keys.download):
		if c, ok := m.modal.Selected(); ok {
			return m, m.download(c)
		}
	case key.Matches(msg, m.keys.open):
		if c, ok := m.modal.Selected(); ok {
			return m, m.open(c.DownloadURL)
		}
	case key.Matches(msg, m.keys.refresh):
		return m, m.openBrowse()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch m.view {
	case BrowseView:
		if m.modal.Click(m.browseTarget(msg.X, msg.Y)) {
			m.view = MainView
		}
		return m, nil

	case MainView:
		switch {
		case m.zone.contains(msg.X, msg.Y):
			if msg.Y == m.removeRow {
				if eff := m.widget.Dispatch(widget.RemoveClick{}); eff.StopPropagation {
					return m, m.apply(eff)
				}
				return m, m.dispatch(widget.ZoneClick{Target: widget.TargetNested})
			}
			return m, m.dispatch(widget.ZoneClick{Target: widget.TargetZone})
		case msg.Y == m.tagsRow && m.focus != focusTags:
			return m, m.toggleFocus()
		}
	}
	return m, nil
}

func (m *Model) browseTarget(x, y int) browse.Target {
	if !m.panel.contains(x, y) {
		return browse.TargetBackdrop
	}
	if y == m.panel.y+1 && x >= m.panel.x+m.panel.w-6 {
		return browse.TargetClose
	}
	return browse.TargetPanel
}

// dispatch sends ev to the widget and carries out the resulting effect.
func (m *Model) dispatch(ev widget.Event) tea.Cmd {
	return m.apply(m.widget.Dispatch(ev))
}

func (m *Model) apply(eff widget.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.ClearTagInput {
		m.tagInput.Reset()
		if tag, ok := m.widget.Cue(); ok {
			cmds = append(cmds, tea.Tick(cueDuration, func(time.Time) tea.Msg { return cueExpiredMsg(tag) }))
		}
	}
	if eff.ResetFileInput {
		m.picker = m.newPicker()
	}
	if eff.OpenPicker {
		m.view = PickerView
		cmds = append(cmds, m.picker.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusTags {
		m.focus = focusZone
		m.tagInput.Blur()
		return nil
	}
	m.focus = focusTags
	return m.tagInput.Focus()
}

func (m *Model) setStatus(st models.Status) tea.Cmd {
	m.statusID++
	m.status = st
	if st.IsZero() {
		return nil
	}
	id := m.statusID
	return tea.Tick(m.cfg.StatusDuration(), func(time.Time) tea.Msg { return statusExpiredMsg(id) })
}

func (m *Model) busy() bool {
	return m.uploading || m.modal.Loading()
}

func (m *Model) metadata() models.Metadata {
	md := models.Metadata{
		DatasetType: m.cfg.Upload.DatasetType,
		ShareLevel:  m.cfg.Upload.ShareLevel,
		Version:     m.cfg.Upload.Version,
	}
	if f, ok := m.widget.Staged(); ok {
		md.Title = strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	}
	return md
}

func (m *Model) submit() tea.Cmd {
	sub, err := m.widget.BeginSubmit(m.metadata())
	if err != nil {
		if errors.Is(err, shared.ErrNothingStaged) {
			return m.setStatus(models.ErrorStatus("Select a file before uploading"))
		}
		return m.setStatus(models.ErrorStatus(err.Error()))
	}

	m.logger.Info("upload started", "name", sub.FileName, "size", sub.Size, "tags", sub.Tags)
	m.uploading = true
	m.upload = tasks.ProgressUpdate{Total: sub.Size, Message: "Starting upload..."}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progressCh
	m.uploadDone = done

	go func() {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout())
		defer cancel()
		result, err := m.engine.Upload(ctx, progressCh, sub)
		done <- uploadCompleteMsg(result, err)
		close(progressCh)
	}()

	return tea.Batch(m.spin.Tick, waitForUpload(progressCh, done))
}

func waitForUpload(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return uploadProgressMsg(update)
	}
}

func (m *Model) openBrowse() tea.Cmd {
	ticket := m.modal.Begin()
	return tea.Batch(m.spin.Tick, m.fetchListing(ticket))
}

func (m *Model) closeBrowse() {
	m.modal.Close()
	m.view = MainView
}

func (m *Model) fetchListing(ticket browse.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout())
		defer cancel()
		return listingFetchedMsg(m.modal.Fetch(ctx, ticket))
	}
}

func (m *Model) download(c browse.Card) tea.Cmd {
	dir := m.cfg.UI.DownloadDir
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return downloadCompleteMsg(c.FileID, "", 0, err)
		}
		path := filepath.Join(dir, filepath.Base(c.FileID))
		f, err := os.Create(path)
		if err != nil {
			return downloadCompleteMsg(c.FileID, path, 0, err)
		}

		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout())
		defer cancel()
		n, err := m.portal.Download(ctx, c.FileID, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
		return downloadCompleteMsg(c.FileID, path, n, err)
	}
}

func (m *Model) open(link string) tea.Cmd {
	return func() tea.Msg {
		return linkOpenedMsg(link, m.openLink(link))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PickerView:
		return m.renderPicker()
	case BrowseView:
		return m.renderBrowse()
	default:
		return m.renderMain()
	}
}

func (m *Model) renderMain() string {
	v := m.widget.View()

	header := styles.title.Render("Dataset Upload")
	steps := m.renderSteps(v)
	zone, removeLine := m.renderZone(v)
	tags := m.renderTags(v)

	top := lipgloss.Height(header) + lipgloss.Height(steps) + 1
	m.zone = rect{x: 0, y: top, w: lipgloss.Width(zone), h: lipgloss.Height(zone)}
	m.tagsRow = top + m.zone.h + 1
	m.removeRow = -1
	if removeLine >= 0 {
		m.removeRow = top + 1 + removeLine
	}

	sections := []string{header, steps, "", zone, "", tags}

	if m.uploading {
		sections = append(sections, "", fmt.Sprintf("%s %s", m.spin.View(), m.upload.Message), m.bar.ViewAs(m.upload.Percent()))
	} else if m.modal.Loading() {
		sections = append(sections, "", fmt.Sprintf("%s Loading datasets...", m.spin.View()))
	}

	sections = append(sections, "", m.renderStatus(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderSteps(v widget.View) string {
	parts := make([]string, len(widget.StepLabels))
	for i, label := range widget.StepLabels {
		if v.Active(i) {
			parts[i] = styles.stepOn.Render("● " + label)
		} else {
			parts[i] = styles.stepOff.Render("○ " + label)
		}
	}
	return strings.Join(parts, styles.muted.Render(" ── "))
}

// renderZone also reports which inner line holds the remove control, or -1.
func (m *Model) renderZone(v widget.View) (string, int) {
	lines := []string{"Drop a file here, or press enter to choose one"}
	if v.DragActive {
		lines[0] = "Release to stage the file"
	}

	removeLine := -1
	if v.FileVisible {
		lines = append(lines, fmt.Sprintf("📄 %s · %s", v.FileName, shared.FormatBytes(v.FileSize)))
		lines = append(lines, styles.err.Render("✕ remove"))
		removeLine = len(lines) - 1
	}

	style := styles.zone
	switch {
	case v.DragActive:
		style = styles.zoneActive
	case m.focus == focusZone:
		style = styles.zoneFocus
	}

	// Each line must stay on one row or the remove control's row drifts from removeLine.
	width := min(max(m.width-2, 40), 72)
	inner := width - style.GetHorizontalPadding()
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner, "…")
	}
	return style.Width(width).Render(strings.Join(lines, "\n")), removeLine
}

func (m *Model) renderTags(v widget.View) string {
	input := m.tagInput.View()
	if m.focus == focusTags {
		input = styles.stepOn.Render("Tags ") + input
	} else {
		input = styles.muted.Render("Tags ") + input
	}

	if len(v.Tags) == 0 {
		return input
	}

	pills := make([]string, len(v.Tags))
	for i, t := range v.Tags {
		if t.Cued {
			pills[i] = styles.pillCued.Render(t.Text)
		} else {
			pills[i] = styles.pill.Render(t.Text)
		}
	}
	return input + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, pills...)
}

func (m *Model) renderStatus() string {
	if m.status.IsZero() {
		return ""
	}
	switch m.status.Kind {
	case models.StatusSuccess:
		return styles.ok.Render("✓ " + m.status.Message)
	case models.StatusError:
		return styles.err.Render("✗ " + m.status.Message)
	default:
		return styles.warn.Render(m.status.Message)
	}
}

func (m *Model) renderPicker() string {
	title := styles.title.Render("Choose a file")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.picker.View(), helpView)
}

func (m *Model) renderBrowse() string {
	panel := m.renderPanel()
	m.panel = centered(m.width, m.height, lipgloss.Width(panel), lipgloss.Height(panel))

	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel,
		lipgloss.WithWhitespaceChars("·"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(styles.backdrop)),
	)
}
