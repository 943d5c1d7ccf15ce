// Package preview is the interactive editor: it routes window input to the
// view and the active tool, composes each frame with the tool overlay and a
// status line, and runs the shiny window loop.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"

	"github.com/example/pixelsuite/internal/clipboard"
	"github.com/example/pixelsuite/internal/crop"
	"github.com/example/pixelsuite/internal/export"
	"github.com/example/pixelsuite/internal/mask"
	"github.com/example/pixelsuite/internal/notify"
	"github.com/example/pixelsuite/internal/pointer"
	"github.com/example/pixelsuite/internal/render"
	"github.com/example/pixelsuite/internal/session"
	"github.com/example/pixelsuite/internal/theme"
	"github.com/example/pixelsuite/internal/watermark"
)

// ErrNoImage is returned by Save and Copy when the session is empty.
var ErrNoImage = errors.New("preview: no image loaded")

// StatusHeight is the strip reserved at the bottom of the window.
const StatusHeight = 20

// messageTime is how long a status message stays up.
const messageTime = 2 * time.Second

// Editor is the window-independent half of the preview. It is driven from
// one goroutine.
type Editor struct {
	session  *session.Session
	renderer *render.Renderer
	pointer  *pointer.Controller
	theme    *theme.Theme
	tool     session.Tool

	exportOpts export.Options
	outputDir  string
	oriented   bool
	notifier   *notify.Notifier
	copyImage  func(image.Image) error
	renderOpts []render.Option
	panButton  mouse.Button

	width, height int
	dirty         bool
	frame         *image.RGBA

	message      string
	messageUntil time.Time
	now          func() time.Time
	onMessage    func(time.Duration)
}

// Option configures an Editor.
type Option func(*Editor)

// WithTheme sets the palette.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithExportOptions sets the encoding used by save.
func WithExportOptions(o export.Options) Option { return func(e *Editor) { e.exportOpts = o } }

// WithOutputDir sets where saved images go.
func WithOutputDir(dir string) Option { return func(e *Editor) { e.outputDir = dir } }

// WithOrientedExport bakes the view's rotation and flips into saved and
// copied images.
func WithOrientedExport(on bool) Option { return func(e *Editor) { e.oriented = on } }

// WithNotifier announces saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }

// WithTool selects the starting tool.
func WithTool(t session.Tool) Option { return func(e *Editor) { e.tool = t } }

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(image.Image) error) Option { return func(e *Editor) { e.copyImage = fn } }

// WithClock replaces time.Now for message expiry.
func WithClock(now func() time.Time) Option { return func(e *Editor) { e.now = now } }

// WithMessageListener is told how long each new status message lasts so the
// window can schedule a repaint when it expires.
func WithMessageListener(fn func(time.Duration)) Option { return func(e *Editor) { e.onMessage = fn } }

// WithRenderOptions forwards opts to the image renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(e *Editor) { e.renderOpts = append(e.renderOpts, opts...) }
}

// WithPanButton selects the mouse button that pans when the active tool does
// not claim the event.
func WithPanButton(b mouse.Button) Option { return func(e *Editor) { e.panButton = b } }

// New creates an editor over s.
func New(s *session.Session, opts ...Option) *Editor {
	e := &Editor{
		session:    s,
		theme:      theme.Default(),
		exportOpts: export.Options{Format: export.PNG, Quality: export.DefaultQuality},
		outputDir:  ".",
		copyImage:  clipboard.WriteImage,
		now:        time.Now,
		dirty:      true,
	}
	for _, o := range opts {
		o(e)
	}
	e.renderer = render.New(s.View(), append([]render.Option{render.WithTheme(e.theme)}, e.renderOpts...)...)
	e.pointer = pointer.New(s.View())
	if e.panButton != mouse.ButtonNone {
		e.pointer.SetPanButton(e.panButton)
	}
	return e
}

// Close releases the renderer's view subscription.
func (e *Editor) Close() { e.renderer.Close() }

// Session returns the edited session.
func (e *Editor) Session() *session.Session { return e.session }

// Tool returns the active tool.
func (e *Editor) Tool() session.Tool { return e.tool }

// SetTool switches the active tool.
func (e *Editor) SetTool(t session.Tool) {
	if t == e.tool {
		return
	}
	e.tool = t
	e.dirty = true
	e.say("tool: %s", t)
}

// SetTheme swaps the palette.
func (e *Editor) SetTheme(t *theme.Theme) {
	e.theme = t
	e.renderer.SetTheme(t)
}

// Message returns the status message if it has not expired.
func (e *Editor) Message() string {
	if e.message == "" || !e.now().Before(e.messageUntil) {
		return ""
	}
	return e.message
}

func (e *Editor) say(format string, args ...interface{}) {
	e.message = fmt.Sprintf(format, args...)
	e.messageUntil = e.now().Add(messageTime)
	log.Print(e.message)
	if e.onMessage != nil {
		e.onMessage(messageTime)
	}
}

// Resize sets the window size. The image area excludes the status strip.
func (e *Editor) Resize(w, h int) {
	e.width, e.height = w, h
	e.renderer.Resize(w, max(h-StatusHeight, 0))
}

// Handle routes one event and reports whether the frame needs repainting.
func (e *Editor) Handle(ev interface{}) bool {
	switch ev := ev.(type) {
	case size.Event:
		e.Resize(ev.WidthPx, ev.HeightPx)
		return true
	case key.Event:
		if ev.Direction == key.DirRelease {
			return false
		}
		if e.tool == session.ToolCrop && e.session.Crop().Handle(ev) {
			return true
		}
		return e.handleKey(ev)
	}
	if e.handleTool(ev) {
		if e.tool != session.ToolCrop {
			e.dirty = true
		}
		return true
	}
	if e.pointer.Handle(ev) {
		return true
	}
	// The brush outline follows the cursor.
	_, moved := ev.(mouse.Event)
	return moved && e.tool == session.ToolMask && e.session.Mask().Shape() == mask.ShapeBrush
}

// Gesturing reports whether a crop drag, mask stroke or pan is in progress.
func (e *Editor) Gesturing() bool {
	if e.pointer.Dragging() {
		return true
	}
	switch e.tool {
	case session.ToolCrop:
		_, dragging := e.session.Crop().Dragging()
		return dragging
	case session.ToolMask:
		return e.session.Mask().Painting()
	}
	return false
}

func (e *Editor) handleTool(ev interface{}) bool {
	if _, ok := e.session.Active(); !ok {
		return false
	}
	switch e.tool {
	case session.ToolCrop:
		return e.session.Crop().Handle(ev)
	case session.ToolWatermark:
		return e.session.Watermark().Handle(ev)
	case session.ToolMask:
		return e.session.Mask().Handle(ev)
	}
	return false
}

func (e *Editor) handleKey(ev key.Event) bool {
	v := e.session.View()
	ctrl := ev.Modifiers&key.ModControl != 0
	switch {
	case ctrl && (ev.Rune == 's' || ev.Code == key.CodeS):
		e.Save()
	case ctrl && (ev.Rune == 'c' || ev.Code == key.CodeC):
		e.Copy()
	case ev.Code == key.CodePageDown || (ev.Code == key.CodeTab && ev.Modifiers&key.ModShift == 0):
		e.cycle(1)
	case ev.Code == key.CodePageUp || ev.Code == key.CodeTab:
		e.cycle(-1)
	case ev.Code == key.CodeDeleteForward:
		e.removeActive()
	case ev.Rune == '1':
		e.SetTool(session.ToolNone)
	case ev.Rune == '2':
		e.SetTool(session.ToolCrop)
	case ev.Rune == '3':
		e.SetTool(session.ToolWatermark)
	case ev.Rune == '4':
		e.SetTool(session.ToolMask)
	case ev.Rune == '+' || ev.Rune == '=':
		v.ZoomIn()
	case ev.Rune == '-':
		v.ZoomOut()
	case ev.Rune == '0':
		v.Fit()
	case ev.Rune == 'r':
		v.RotateRight90()
	case ev.Rune == 'l' || ev.Rune == 'R':
		v.RotateLeft90()
	case ev.Rune == 'h':
		v.FlipHorizontal()
	case ev.Rune == 'v':
		v.FlipVertical()
	case ev.Rune == 'x':
		v.Reset()
	case ev.Rune == 'a':
		e.applyToAll()
	case ev.Rune == 'O':
		e.oriented = !e.oriented
		e.say("export as viewed: %v", e.oriented)
	default:
		return e.toolKey(ev)
	}
	return true
}

// toolKey handles the keys that only mean something to the active tool.
func (e *Editor) toolKey(ev key.Event) bool {
	s := e.session
	switch e.tool {
	case session.ToolCrop:
		switch ev.Rune {
		case 'f':
			s.Crop().SetFree()
		case 's':
			s.Crop().SetRatio(1)
		case 'o':
			s.Crop().SetCircle()
		case 'c':
			s.Crop().ResetRect()
		default:
			return false
		}
		return true
	case session.ToolWatermark:
		r := s.Watermark().Rule()
		switch ev.Rune {
		case 't':
			if r.Mode == watermark.ModeTile {
				r.Mode = watermark.ModeSingle
			} else {
				r.Mode = watermark.ModeTile
			}
		case 'g':
			r.Stagger = !r.Stagger
		case 'p':
			s.Watermark().ApplyPreset(watermark.PresetBottomRight)
			e.dirty = true
			return true
		default:
			return false
		}
		if err := s.Watermark().SetRule(r); err != nil {
			e.say("watermark: %v", err)
		}
		e.dirty = true
		return true
	case session.ToolMask:
		t := s.Mask()
		switch ev.Rune {
		case 'b':
			if t.Shape() == mask.ShapeBrush {
				t.SetShape(mask.ShapeRect)
			} else {
				t.SetShape(mask.ShapeBrush)
			}
		case '[':
			t.SetBrush(t.Brush() / 1.25)
		case ']':
			t.SetBrush(t.Brush() * 1.25)
		case 'e':
			eff := t.Engine().Effect()
			if eff.Kind == mask.EffectMosaic {
				eff.Kind = mask.EffectBlur
			} else {
				eff.Kind = mask.EffectMosaic
			}
			t.Engine().SetEffect(eff)
			e.say("effect: %s", eff.Kind)
		case 'c':
			t.Engine().Clear()
		default:
			return false
		}
		e.dirty = true
		return true
	}
	return false
}

func (e *Editor) cycle(step int) {
	images := e.session.Images()
	if len(images) < 2 {
		return
	}
	cur := 0
	for i, im := range images {
		if im.ID == e.session.ActiveID() {
			cur = i
		}
	}
	next := images[(cur+step+len(images))%len(images)]
	if err := e.session.Activate(next.ID); err != nil {
		e.say("switch: %v", err)
		return
	}
	e.dirty = true
}

func (e *Editor) removeActive() {
	id := e.session.ActiveID()
	if id == "" || e.session.Len() < 2 {
		return
	}
	if err := e.session.Remove(id); err != nil {
		e.say("remove: %v", err)
		return
	}
	e.dirty = true
	e.say("removed %s", id)
}

func (e *Editor) applyToAll() {
	switch e.tool {
	case session.ToolCrop:
		e.session.ApplyCropToAll()
	case session.ToolWatermark:
		e.session.ApplyRuleToAll()
	case session.ToolMask:
		e.session.ApplyMaskToAll()
	default:
		return
	}
	e.say("%s applied to all images", e.tool)
}

// Save exports the active image with the active tool and returns the path.
func (e *Editor) Save() (string, error) {
	id := e.session.ActiveID()
	if id == "" {
		return "", ErrNoImage
	}
	out, err := e.encode(id)
	if err != nil {
		e.say("save: %v", err)
		return "", err
	}
	path, err := export.Save(e.outputDir, out)
	if err != nil {
		e.say("save: %v", err)
		return "", err
	}
	e.notifier.Export(path)
	e.say("saved %s", path)
	return path, nil
}

// Copy places the active tool's result on the clipboard.
func (e *Editor) Copy() error {
	id := e.session.ActiveID()
	if id == "" {
		return ErrNoImage
	}
	img, _, err := e.render(id)
	if err == nil {
		err = e.copyImage(img)
	}
	if err != nil {
		e.say("copy: %v", err)
		return err
	}
	e.notifier.Copy(id)
	e.say("image copied to clipboard")
	return nil
}

// render applies the active tool to id, oriented like the view when
// oriented export is on.
func (e *Editor) render(id string) (image.Image, bool, error) {
	img, alpha, err := e.session.Render(id, e.tool)
	if err != nil || !e.oriented {
		return img, alpha, err
	}
	v := e.session.View()
	fh, fv := v.Flip()
	return render.Orient(img, v.Rotation(), fh, fv), alpha, nil
}

func (e *Editor) encode(id string) (export.Output, error) {
	if !e.oriented {
		return e.session.Export(id, e.tool, e.exportOpts)
	}
	img, alpha, err := e.render(id)
	if err != nil {
		return export.Output{}, err
	}
	im, _ := e.session.Get(id)
	o := e.exportOpts
	o.Alpha = o.Alpha || alpha
	out, err := export.Encode(img, im.Name, e.tool.Suffix(), o)
	if err != nil {
		return export.Output{}, &export.ImageError{ID: id, Op: "encode", Err: err}
	}
	return out, nil
}

// source is the image the renderer should show for the active tool.
func (e *Editor) source() image.Image {
	im, ok := e.session.Active()
	if !ok {
		return nil
	}
	switch e.tool {
	case session.ToolWatermark:
		return e.session.Watermark().Preview(im.Img)
	case session.ToolMask:
		return e.session.Mask().Engine().Result()
	}
	return im.Img
}

// Frame composes the current frame: the rendered image, the active tool's
// overlay and the status line.
func (e *Editor) Frame() *image.RGBA {
	if e.width <= 0 || e.height <= 0 {
		return nil
	}
	if e.dirty {
		if src := e.source(); src != nil {
			e.renderer.SetSource(src)
		}
		e.dirty = false
	}
	if e.frame == nil || e.frame.Rect.Dx() != e.width || e.frame.Rect.Dy() != e.height {
		e.frame = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	}
	draw.Draw(e.frame, e.frame.Rect, image.NewUniform(e.theme.Background), image.Point{}, draw.Src)
	if surf := e.renderer.Surface(); surf != nil {
		draw.Draw(e.frame, surf.Rect, surf, image.Point{}, draw.Src)
	}
	if _, ok := e.session.Active(); ok {
		switch e.tool {
		case session.ToolCrop:
			e.session.Crop().DrawOverlay(e.frame, e.theme)
		case session.ToolWatermark:
			e.session.Watermark().DrawOverlay(e.frame, e.theme)
		case session.ToolMask:
			e.session.Mask().DrawOverlay(e.frame, e.theme)
		}
	}
	e.drawStatus()
	return e.frame
}

func (e *Editor) status() string {
	im, ok := e.session.Active()
	if !ok {
		return "no image"
	}
	v := e.session.View()
	w, h := im.Size()
	line := fmt.Sprintf("%s %s %dx%d  %s  zoom %.0f%%  rot %d", im.ID, im.Name, w, h, e.tool, v.Zoom()*100, v.Rotation())
	if e.tool == session.ToolCrop {
		r := e.session.Crop().Rect()
		line += fmt.Sprintf("  crop %.0fx%.0f", r.W, r.H)
		if e.session.Crop().Mode() == crop.ModeCircle {
			line += " circle"
		}
	}
	if m := e.Message(); m != "" {
		line += "  | " + m
	}
	return line
}

func (e *Editor) drawStatus() {
	bar := image.Rect(0, e.height-StatusHeight, e.width, e.height)
	draw.Draw(e.frame, bar, image.NewUniform(color.RGBA{0, 0, 0, 200}), image.Point{}, draw.Over)
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: e.frame, Src: image.NewUniform(color.White), Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	d.Dot = fixed.P(6, bar.Min.Y+(StatusHeight+ascent)/2-1)
	d.DrawString(e.status())
}
