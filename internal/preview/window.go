package preview

import (
	"image"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/gesture"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pixelsuite/internal/config"
	"github.com/example/pixelsuite/internal/theme"
)

// Window size used when the options leave it unset.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// ReloadFunc returns the palette to use after watched files changed.
type ReloadFunc func(paths []string) (*theme.Theme, error)

// Window hosts an Editor in a shiny window.
type Window struct {
	Editor *Editor
	Width  int
	Height int
	Title  string

	// Watch lists files whose changes call Reload.
	Watch  []string
	Reload ReloadFunc
}

// reloadEvent is posted from the watcher goroutine onto the window queue.
type reloadEvent struct{ paths []string }

// Run opens the window and blocks until it is closed.
func (w *Window) Run() { driver.Main(w.Main) }

// Main is the window event loop for screen s.
func (w *Window) Main(s screen.Screen) {
	width, height := w.Width, w.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()
	defer w.Editor.Close()

	w.Editor.onMessage = func(d time.Duration) {
		time.AfterFunc(d, func() { win.Send(paint.Event{}) })
	}

	if len(w.Watch) > 0 && w.Reload != nil {
		watcher, err := config.Watch(w.Watch, config.DefaultWatchDebounce, func(paths []string) {
			win.Send(reloadEvent{paths: paths})
		})
		if err != nil {
			log.Printf("watch config: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	ef := gesture.EventFilter{EventDeque: win}
	for {
		e := ef.Filter(win.NextEvent())
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case reloadEvent:
			th, err := w.Reload(e.paths)
			names := make([]string, len(e.paths))
			for i, p := range e.paths {
				names[i] = filepath.Base(p)
			}
			if err != nil {
				w.Editor.say("reload %s: %v", strings.Join(names, ", "), err)
			} else if th != nil {
				w.Editor.SetTheme(th)
				w.Editor.say("reloaded %s", strings.Join(names, ", "))
			}
			win.Send(paint.Event{})
		case size.Event:
			w.Editor.Handle(e)
			win.Send(paint.Event{})
		case paint.Event:
			w.paint(s, win)
		case key.Event:
			if e.Direction != key.DirRelease && w.quits(e) {
				return
			}
			if w.Editor.Handle(e) {
				win.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		default:
			if w.Editor.Handle(e) {
				win.Send(paint.Event{})
			}
		}
	}
}

// quits reports whether e closes the window. Escape is left to the editor
// while a drag or paint gesture is in progress.
func (w *Window) quits(e key.Event) bool {
	switch {
	case e.Rune == 'q':
		return true
	case e.Code == key.CodeEscape:
		return !w.Editor.Gesturing()
	}
	return false
}

func (w *Window) paint(s screen.Screen, win screen.Window) {
	frame := w.Editor.Frame()
	if frame == nil {
		return
	}
	b, err := s.NewBuffer(frame.Rect.Size())
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	copy(b.RGBA().Pix, frame.Pix)
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}
