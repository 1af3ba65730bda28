// Package feedback implements the feedback dialog: a modal form with a title,
// a comment and an optional annotated screenshot.
//
// The dialog is controlled by its owner. The owner decides whether it is open
// through SetOpen; the dialog only asks to be closed by calling OnClose.
// Submitting hands a feedback.Payload to OnSubmit and leaves closing to the
// owner.
package feedback

import (
	"image"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/feedback/internal/core/capture"
	corefeedback "github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/core/styles"
	"github.com/colonyops/feedback/internal/tui/annotate"
	"github.com/colonyops/feedback/internal/tui/components/form"
	"github.com/colonyops/feedback/internal/tui/imageview"
)

// Defaults used when Options leaves a value unset.
const (
	DefaultTitle          = "Got any Feedback?"
	DefaultSettleDelay    = 200 * time.Millisecond
	DefaultContentWidth   = 56
	DefaultCaptureTimeout = 30 * time.Second
	DefaultThumbnailRows  = 12
)

// Options configures a Dialog.
type Options struct {
	Title          string
	SettleDelay    time.Duration // delay between close and reset
	ThumbnailWidth int           // cells; 0 fits the dialog
	Provider       capture.Provider
	CaptureTimeout time.Duration
	Surface        annotate.Surface

	// OnClose is called for every user close request: Escape, Cancel and
	// clicks on the backdrop.
	OnClose func() tea.Cmd
	// OnSubmit receives the assembled payload.
	OnSubmit func(corefeedback.Payload) tea.Cmd
}

// resetMsg fires SettleDelay after a close.
type resetMsg struct{ gen uint64 }

// editCompletedMsg carries the image produced by the annotation surface.
type editCompletedMsg struct {
	session uint64
	image   []byte
}

type focusTarget int

const (
	focusTitle focusTarget = iota
	focusComment
	focusScreenshot
	focusCancel
	focusSubmit
)

// zone is a clickable region relative to the dialog's top-left corner.
type zone struct {
	target focusTarget
	rect   image.Rectangle
}

// Dialog is the feedback modal.
type Dialog struct {
	opts Options
	keys KeyMap
	ctrl *Controller

	title   *form.TextField
	comment *form.TextAreaField
	focus   focusTarget

	open         bool
	closeGen     uint64
	resetPending bool
	surfaceOn    bool

	thumbRef string
	thumb    string

	width, height int
}

// New creates a closed dialog.
func New(opts Options) *Dialog {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.CaptureTimeout <= 0 {
		opts.CaptureTimeout = DefaultCaptureTimeout
	}
	if opts.Surface == nil {
		opts.Surface = annotate.Passthrough{}
	}

	d := &Dialog{
		opts: opts,
		keys: DefaultKeyMap(),
		ctrl: NewController(opts.Provider, opts.CaptureTimeout),
		title: form.NewTextField("Title", "Enter a subject", "").
			WithValidation(form.FieldValidation{Required: true}),
		comment: form.NewTextAreaField("Comment", "Explain what bothers you", ""),
		width:   80,
		height:  24,
	}
	d.SetSize(d.width, d.height)
	return d
}

// SetSize records the terminal size used for layout and mouse hit testing.
func (d *Dialog) SetSize(w, h int) {
	if w > 0 {
		d.width = w
	}
	if h > 0 {
		d.height = h
	}
	fw := d.contentWidth() - styles.FormFieldStyle.GetHorizontalFrameSize()
	d.title.SetWidth(fw)
	d.comment.SetWidth(fw)
}

// Open reports the owner-controlled open state.
func (d *Dialog) Open() bool { return d.open }

// Visible reports whether the dialog is on screen. It is hidden while a
// capture is outstanding so the capture sees the unobstructed screen.
func (d *Dialog) Visible() bool { return d.open && !d.ctrl.Capturing() }

// Controller exposes the screenshot workflow state.
func (d *Dialog) Controller() *Controller { return d.ctrl }

// SetOpen applies the owner's open state. Closing schedules the deferred
// reset; only the newest close resets. Reopening while a reset is pending
// applies it immediately so the new session starts clean.
func (d *Dialog) SetOpen(open bool) tea.Cmd {
	if open == d.open {
		return nil
	}
	d.open = open

	if !open {
		d.closeGen++
		d.resetPending = true
		gen := d.closeGen
		return tea.Tick(d.opts.SettleDelay, func(time.Time) tea.Msg {
			return resetMsg{gen: gen}
		})
	}

	if d.resetPending {
		d.closeGen++
		d.reset()
	}
	cmd := d.setFocus(focusTitle)
	return tea.Batch(cmd, d.sync())
}

// reset clears the form and the screenshot workflow. Safe to call repeatedly.
func (d *Dialog) reset() {
	d.resetPending = false
	d.title.Reset()
	d.comment.Reset()
	d.ctrl.Reset()
	d.surfaceOn = false
	d.thumbRef = ""
	d.thumb = ""
	d.title.Blur()
	d.comment.Blur()
	d.focus = focusTitle
}

// Update handles a message. Messages that belong to the dialog's async work
// are accepted in any state; input is handled only while visible.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case resetMsg:
		if msg.gen == d.closeGen && d.resetPending {
			d.reset()
		}
		return d, nil
	case captureDoneMsg:
		d.ctrl.handleCaptureDone(msg)
	case previewEncodedMsg:
		d.ctrl.handlePreviewEncoded(msg)
	case editCompletedMsg:
		if msg.session == d.ctrl.session && d.ctrl.Annotating() {
			cmds = append(cmds, d.ctrl.CompleteEdit(msg.image))
		}
	case annotate.FailedMsg:
		if d.ctrl.Annotating() {
			log.Warn().Err(msg.Err).Msg("screenshot annotation failed")
			d.ctrl.Abandon()
		}
	case tea.WindowSizeMsg:
		d.SetSize(msg.Width, msg.Height)
	case tea.KeyPressMsg:
		if d.Visible() {
			cmds = append(cmds, d.handleKey(msg))
		}
	case tea.MouseClickMsg:
		if d.Visible() {
			cmds = append(cmds, d.handleClick(msg))
		}
	default:
		if d.Visible() {
			cmds = append(cmds, d.forward(msg))
		}
	}

	cmds = append(cmds, d.sync())
	return d, tea.Batch(cmds...)
}

func (d *Dialog) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if isKey(msg, d.keys.Cancel) {
		return d.requestClose()
	}
	if d.ctrl.Annotating() {
		return d.opts.Surface.Update(msg)
	}
	if isKey(msg, d.keys.Submit) {
		return d.submit()
	}

	switch {
	case isKey(msg, d.keys.Next):
		return d.cycleFocus(1)
	case isKey(msg, d.keys.Prev):
		return d.cycleFocus(-1)
	}

	switch d.focus {
	case focusTitle:
		if msg.String() == "enter" {
			return d.submit()
		}
	case focusComment:
		if isKey(msg, d.keys.SubmitComment) {
			return d.submit()
		}
	default:
		if isKey(msg, d.keys.Activate) {
			return d.activate(d.focus)
		}
		return nil
	}
	return d.forward(msg)
}

// handleClick closes on backdrop clicks and activates buttons inside the
// content box. Clicks inside the box never close.
func (d *Dialog) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	m := msg.Mouse()
	if m.Button != tea.MouseLeft {
		return nil
	}

	_, box, zones := d.layout()
	p := image.Pt(m.X, m.Y)
	if !p.In(box) {
		return d.requestClose()
	}

	p = p.Sub(box.Min)
	for _, z := range zones {
		if p.In(z.rect) {
			return d.activate(z.target)
		}
	}
	return nil
}

// forward passes msg to the annotation surface or the focused field.
func (d *Dialog) forward(msg tea.Msg) tea.Cmd {
	if d.ctrl.Annotating() {
		return d.opts.Surface.Update(msg)
	}

	var cmd tea.Cmd
	switch d.focus {
	case focusTitle:
		_, cmd = d.title.Update(msg)
	case focusComment:
		_, cmd = d.comment.Update(msg)
	}
	return cmd
}

func (d *Dialog) activate(t focusTarget) tea.Cmd {
	switch t {
	case focusTitle, focusComment:
		return d.setFocus(t)
	case focusScreenshot:
		if !d.screenshotButton() {
			return nil
		}
		d.setFocus(focusScreenshot)
		return d.ctrl.BeginCapture()
	case focusCancel:
		return d.requestClose()
	case focusSubmit:
		return d.submit()
	}
	return nil
}

func (d *Dialog) requestClose() tea.Cmd {
	if d.opts.OnClose == nil {
		return nil
	}
	return d.opts.OnClose()
}

// screenshotButton reports whether the add screenshot button is shown.
func (d *Dialog) screenshotButton() bool {
	return d.ctrl.CanCapture() && d.ctrl.Preview() == ""
}

func (d *Dialog) focusOrder() []focusTarget {
	order := []focusTarget{focusTitle, focusComment}
	if d.screenshotButton() {
		order = append(order, focusScreenshot)
	}
	return append(order, focusCancel, focusSubmit)
}

func (d *Dialog) cycleFocus(delta int) tea.Cmd {
	order := d.focusOrder()
	idx := 0
	for i, t := range order {
		if t == d.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return d.setFocus(order[idx])
}

func (d *Dialog) setFocus(t focusTarget) tea.Cmd {
	d.focus = t
	d.title.Blur()
	d.comment.Blur()
	switch t {
	case focusTitle:
		return d.title.Focus()
	case focusComment:
		return d.comment.Focus()
	}
	return nil
}

// sync applies derived state after every change: it starts the annotation
// surface when a preview appears without an attached image, rebuilds the
// thumbnail and keeps focus on a control that exists.
func (d *Dialog) sync() tea.Cmd {
	var cmd tea.Cmd

	annotating := d.ctrl.Annotating()
	switch {
	case !annotating:
		d.surfaceOn = false
	case d.open && !d.surfaceOn:
		d.surfaceOn = true
		session := d.ctrl.session
		cmd = d.opts.Surface.Start(d.ctrl.Preview(), func(image []byte) tea.Msg {
			return editCompletedMsg{session: session, image: image}
		})
	}

	if ref := d.ctrl.Preview(); !annotating && ref != d.thumbRef {
		d.thumbRef = ref
		d.thumb = d.renderThumbnail(ref)
	}

	if d.focus == focusScreenshot && !d.screenshotButton() {
		d.setFocus(focusSubmit)
	}
	return cmd
}

func (d *Dialog) renderThumbnail(ref string) string {
	if ref == "" {
		return ""
	}
	img, err := capture.DecodeImage(ref)
	if err != nil {
		log.Warn().Err(err).Msg("cannot render screenshot preview")
		return ""
	}
	cols := d.opts.ThumbnailWidth
	if maxCols := d.contentWidth() - styles.ThumbnailStyle.GetHorizontalFrameSize(); cols <= 0 || cols > maxCols {
		cols = maxCols
	}
	cols = imageview.FitCols(img.Bounds(), cols, d.thumbnailRows())
	return styles.ThumbnailStyle.Render(imageview.Render(img, cols))
}

// thumbnailRows bounds the preview height so the buttons stay on screen.
func (d *Dialog) thumbnailRows() int {
	return min(DefaultThumbnailRows, max(d.height/3, 2))
}

func (d *Dialog) contentWidth() int {
	w := DefaultContentWidth
	if avail := d.width - styles.ModalStyle.GetHorizontalFrameSize() - 2; avail < w {
		w = avail
	}
	return max(w, 20)
}

// View renders the dialog box without positioning it.
func (d *Dialog) View() string {
	view, _, _ := d.layout()
	return view
}

// Overlay composites the dialog centred over bg, which is dimmed as a
// backdrop. bg is returned unchanged when the dialog is not visible.
func (d *Dialog) Overlay(bg string) string {
	if !d.Visible() {
		return bg
	}

	view, box, _ := d.layout()
	backdrop := lipgloss.NewStyle().
		Foreground(styles.ColorMuted).
		Background(styles.ColorBackdrop).
		Render(ansi.Strip(bg))

	bgLayer := lipgloss.NewLayer(backdrop)
	dialogLayer := lipgloss.NewLayer(view).X(box.Min.X).Y(box.Min.Y).Z(1)
	return lipgloss.NewCompositor(bgLayer, dialogLayer).Render()
}

// layout renders the dialog and returns it with its screen box and the
// clickable zones relative to the box.
func (d *Dialog) layout() (string, image.Rectangle, []zone) {
	var (
		rows  []string
		zones []zone
		y     int
	)
	add := func(s string, targets ...zone) {
		for _, z := range targets {
			zones = append(zones, zone{target: z.target, rect: z.rect.Add(image.Pt(0, y))})
		}
		rows = append(rows, s)
		y += lipgloss.Height(s)
	}
	full := func(t focusTarget, s string) zone {
		return zone{target: t, rect: image.Rect(0, 0, d.contentWidth(), lipgloss.Height(s))}
	}

	if d.ctrl.Annotating() {
		add(styles.ModalTitleStyle.Render(styles.IconImage + "  Annotate screenshot"))
		add("")
		add(d.opts.Surface.View())
		add(styles.ModalHelpStyle.Render(helpLine(d.keys.Cancel)))
	} else {
		add(styles.ModalTitleStyle.Render(styles.IconFeedback + "  " + d.opts.Title))
		add("")
		title := d.title.View()
		add(title, full(focusTitle, title))
		add("")
		comment := d.comment.View()
		add(comment, full(focusComment, comment))
		add("")

		switch {
		case d.thumb != "":
			add(d.thumb)
			add("")
		case d.screenshotButton():
			btn := d.button(styles.IconCamera+" Add Screenshot", focusScreenshot, false)
			add(btn, full(focusScreenshot, btn))
			add("")
		}

		cancel := d.button("Cancel", focusCancel, false)
		submit := d.button(styles.IconPaperPlane+" Submit", focusSubmit, true)
		cw, sw := lipgloss.Width(cancel), lipgloss.Width(submit)
		add(lipgloss.JoinHorizontal(lipgloss.Top, cancel, " ", submit),
			zone{target: focusCancel, rect: image.Rect(0, 0, cw, 1)},
			zone{target: focusSubmit, rect: image.Rect(cw+1, 0, cw+1+sw, 1)},
		)
		add(styles.ModalHelpStyle.Render(helpLine(
			d.keys.Next, d.keys.SubmitComment, d.keys.Cancel,
		)))
	}

	view := styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	// Zones are relative to the content; shift them by the frame.
	frame := image.Pt(
		styles.ModalStyle.GetBorderLeftSize()+styles.ModalStyle.GetPaddingLeft(),
		styles.ModalStyle.GetBorderTopSize()+styles.ModalStyle.GetPaddingTop(),
	)
	for i := range zones {
		zones[i].rect = zones[i].rect.Add(frame)
	}

	vw, vh := lipgloss.Width(view), lipgloss.Height(view)
	origin := image.Pt(max((d.width-vw)/2, 0), max((d.height-vh)/2, 0))
	return view, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(vw, vh))}, zones
}

func (d *Dialog) button(label string, t focusTarget, primary bool) string {
	style := styles.ModalButtonStyle
	switch {
	case d.focus == t:
		style = styles.ModalButtonSelectedStyle
	case primary:
		style = styles.ModalButtonPrimaryStyle
	}
	return style.Render(label)
}
