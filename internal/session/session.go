// Package session tracks the imported images, which one is active, and the
// per-image crop, watermark and mask state that follows each image across
// switches.
package session

import (
	"errors"
	"fmt"
	"image"

	"github.com/example/pixelsuite/internal/cache"
	"github.com/example/pixelsuite/internal/crop"
	"github.com/example/pixelsuite/internal/geom"
	"github.com/example/pixelsuite/internal/logging"
	"github.com/example/pixelsuite/internal/mask"
	"github.com/example/pixelsuite/internal/view"
	"github.com/example/pixelsuite/internal/watermark"
)

// ErrUnknownImage is returned for ids that are not in the session.
var ErrUnknownImage = errors.New("session: unknown image")

// Image is one imported picture.
type Image struct {
	ID   string
	Name string
	Img  image.Image
}

// Size returns the pixel dimensions.
func (i *Image) Size() (int, int) {
	b := i.Img.Bounds()
	return b.Dx(), b.Dy()
}

// Session owns the ordered image list, the shared view and the three tools.
// Tool state lives in the tools for the active image and in the caches for
// every other one.
type Session struct {
	view   *view.View
	images []*Image
	byID   map[string]*Image
	next   int
	active string

	cropRatio float64
	minSize   float64
	rule      watermark.Rule
	effect    mask.Effect
	brush     float64

	Crops *cache.Registry[crop.Normalized]
	Rules *cache.Registry[watermark.Rule]
	Masks *cache.Registry[mask.State]

	crop      *crop.Tool
	watermark *watermark.Tool
	engine    *mask.Engine
	mask      *mask.Tool
}

// Option configures a Session.
type Option func(*Session)

// WithCropRatio makes new crop rects ratio-locked.
func WithCropRatio(r float64) Option { return func(s *Session) { s.cropRatio = r } }

// WithCropMinSize overrides crop.MinSize.
func WithCropMinSize(m float64) Option { return func(s *Session) { s.minSize = m } }

// WithDefaultRule sets the watermark rule new images start with.
func WithDefaultRule(r watermark.Rule) Option { return func(s *Session) { s.rule = r } }

// WithEffect sets the mask effect new images start with.
func WithEffect(e mask.Effect) Option { return func(s *Session) { s.effect = e } }

// WithBrush sets the mask brush diameter.
func WithBrush(d float64) Option { return func(s *Session) { s.brush = d } }

// New creates an empty session driving v.
func New(v *view.View, opts ...Option) (*Session, error) {
	s := &Session{
		view:    v,
		byID:    map[string]*Image{},
		minSize: crop.MinSize,
		rule:    watermark.DefaultRule(),
		effect:  mask.DefaultEffect(),
		brush:   mask.DefaultBrush,
	}
	for _, o := range opts {
		o(s)
	}
	s.Crops = cache.New(s.defaultCrop)
	s.Rules = cache.New(func(string) watermark.Rule { return s.rule })
	s.Masks = cache.New(func(string) mask.State { return mask.State{Effect: s.effect} })

	cropOpts := []crop.Option{crop.WithMinSize(s.minSize)}
	if s.cropRatio > 0 {
		cropOpts = append(cropOpts, crop.WithRatio(s.cropRatio))
	}
	s.crop = crop.NewTool(v, cropOpts...)
	wt, err := watermark.NewTool(v, s.rule, nil)
	if err != nil {
		return nil, fmt.Errorf("watermark tool: %w", err)
	}
	s.watermark = wt
	s.engine = mask.NewEngine(image.NewRGBA(image.Rect(0, 0, 1, 1)), s.effect)
	s.mask = mask.NewTool(v, s.engine, mask.WithBrush(s.brush))
	return s, nil
}

func (s *Session) defaultCrop(id string) crop.Normalized {
	img, ok := s.byID[id]
	if !ok {
		return crop.Normalized{}
	}
	w, h := img.Size()
	r := crop.Default(float64(w), float64(h), s.cropRatio)
	mode := crop.ModeFree
	if s.cropRatio > 0 {
		mode = crop.ModeRatio
	}
	return crop.Normalize(r, float64(w), float64(h), mode, s.cropRatio)
}

// View returns the shared view.
func (s *Session) View() *view.View { return s.view }

// Crop returns the crop tool for the active image.
func (s *Session) Crop() *crop.Tool { return s.crop }

// Watermark returns the watermark tool for the active image.
func (s *Session) Watermark() *watermark.Tool { return s.watermark }

// Mask returns the mask tool for the active image.
func (s *Session) Mask() *mask.Tool { return s.mask }

// Add imports img and returns its id. The first image becomes active.
func (s *Session) Add(name string, img image.Image) (string, error) {
	s.next++
	im := &Image{ID: fmt.Sprintf("img-%d", s.next), Name: name, Img: img}
	s.images = append(s.images, im)
	s.byID[im.ID] = im
	if s.active == "" {
		if err := s.Activate(im.ID); err != nil {
			return im.ID, err
		}
	}
	return im.ID, nil
}

// Images returns the images in import order.
func (s *Session) Images() []*Image { return append([]*Image(nil), s.images...) }

// Len returns the number of images.
func (s *Session) Len() int { return len(s.images) }

// Get looks up an image by id.
func (s *Session) Get(id string) (*Image, bool) {
	im, ok := s.byID[id]
	return im, ok
}

// Active returns the active image.
func (s *Session) Active() (*Image, bool) { return s.Get(s.active) }

// ActiveID returns the active image id, or "" when the session is empty.
func (s *Session) ActiveID() string { return s.active }

// Activate makes id the active image. The outgoing image's tool state is
// written to the caches first, then the incoming image's state is resolved
// and loaded into the tools.
func (s *Session) Activate(id string) error {
	im, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	if id == s.active {
		return nil
	}
	s.Commit()
	s.active = id
	return s.load(im)
}

func (s *Session) load(im *Image) error {
	w, h := im.Size()
	s.view.SetImageSize(w, h)
	s.view.Fit()

	n, src := s.Crops.Resolve(im.ID)
	s.crop.Restore(n)
	rule, _ := s.Rules.Resolve(im.ID)
	if err := s.watermark.SetRule(rule); err != nil {
		return fmt.Errorf("watermark %s: %w", im.ID, err)
	}
	ms, _ := s.Masks.Resolve(im.ID)
	s.engine.Load(im.Img, ms)
	logging.Logger().Debug("session: activated", "id", im.ID, "crop", src.String())
	return nil
}

// Commit writes the active image's tool state into the caches.
func (s *Session) Commit() {
	if s.active == "" {
		return
	}
	s.Crops.Set(s.active, s.crop.Snapshot())
	s.Rules.Set(s.active, s.watermark.Rule())
	s.Masks.Set(s.active, s.engine.State())
}

// Remove drops an image and its cached state. Removing the active image
// activates its neighbour.
func (s *Session) Remove(id string) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	idx := 0
	for i, im := range s.images {
		if im.ID == id {
			idx = i
			break
		}
	}
	s.images = append(s.images[:idx], s.images[idx+1:]...)
	delete(s.byID, id)
	s.Crops.Remove(id)
	s.Rules.Remove(id)
	s.Masks.Remove(id)
	if id != s.active {
		return nil
	}
	s.active = ""
	if len(s.images) == 0 {
		return nil
	}
	next := s.images[min(idx, len(s.images)-1)]
	s.active = next.ID
	return s.load(next)
}

// Reselect discards every image and all cached state.
func (s *Session) Reselect() {
	s.images = nil
	s.byID = map[string]*Image{}
	s.active = ""
	s.Crops.Reset()
	s.Rules.Reset()
	s.Masks.Reset()
}

// ApplyCropToAll makes the active crop the rule for every image.
func (s *Session) ApplyCropToAll() { s.Crops.Broadcast(s.crop.Snapshot()) }

// ApplyRuleToAll makes the active watermark rule the rule for every image.
func (s *Session) ApplyRuleToAll() { s.Rules.Broadcast(s.watermark.Rule()) }

// ApplyMaskToAll paints the active mask onto every image. Other images get
// it resampled to their own size on activation and export.
func (s *Session) ApplyMaskToAll() { s.Masks.Broadcast(s.engine.State()) }

// CropFor returns the crop rect for id in that image's pixels and whether it
// is circular.
func (s *Session) CropFor(id string) (geom.Rect, bool, error) {
	im, ok := s.byID[id]
	if !ok {
		return geom.Rect{}, false, fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	if id == s.active {
		return s.crop.Rect(), s.crop.Circle(), nil
	}
	n, _ := s.Crops.Resolve(id)
	w, h := im.Size()
	return n.Expand(float64(w), float64(h), s.minSize), n.Mode == crop.ModeCircle, nil
}

// RuleFor returns the watermark rule that applies to id.
func (s *Session) RuleFor(id string) watermark.Rule {
	if id == s.active {
		return s.watermark.Rule()
	}
	r, _ := s.Rules.Resolve(id)
	return r
}

// MaskFor returns the mask state that applies to id.
func (s *Session) MaskFor(id string) mask.State {
	if id == s.active {
		return s.engine.State()
	}
	m, _ := s.Masks.Resolve(id)
	if m.Alpha == nil {
		if im, ok := s.byID[id]; ok {
			w, h := im.Size()
			m = mask.NewState(w, h, m.Effect)
		}
	}
	return m
}
