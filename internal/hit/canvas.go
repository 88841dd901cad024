package hit

import (
	"errors"
	"image"
	"math/rand/v2"

	goerrors "github.com/go-errors/errors"
	"github.com/mj1618/opi-cli/internal/raster"
)

// ErrNoParent is wrapped into the panic raised when TransferToParent is
// called on a root canvas.
var ErrNoParent = errors.New("hit canvas has no parent to transfer into")

// table is the color-to-region map shared by every canvas in one tree.
type table struct {
	regions map[Key]*Region
	gen     *generator
	count   int
}

// Canvas is an offscreen picking surface.
//
// Canvases form a tree: the root owns the key table, and children created
// with CreateChild register their keys in the root's table so keys stay
// unique after children are composited into their parents.
type Canvas struct {
	surface *raster.Canvas
	parent  *Canvas
	root    *Canvas
	tab     *table
}

// Option configures a root Canvas.
type Option func(*generator)

// WithExpander sets the key expansion strategy. The default is Exact.
func WithExpander(e Expander) Option {
	return func(g *generator) { g.expander = e }
}

// WithSeed makes key generation deterministic.
func WithSeed(seed uint64) Option {
	return func(g *generator) { g.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// NewCanvas returns a root canvas, cleared to the background.
func NewCanvas(width, height int, opts ...Option) *Canvas {
	gen := &generator{
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		expander: Exact{},
	}
	for _, opt := range opts {
		opt(gen)
	}
	gen.reserveBackground()
	c := &Canvas{
		surface: newSurface(width, height),
		tab:     &table{regions: make(map[Key]*Region), gen: gen},
	}
	c.root = c
	c.surface.Clear(Background.Color())
	return c
}

func newSurface(width, height int) *raster.Canvas {
	s := raster.NewCanvas(width, height)
	s.Aliased = true
	return s
}

// Surface is the raster the caller paints region shapes onto.
func (c *Canvas) Surface() raster.Surface { return c.surface }

// Image returns the key surface, e.g. to dump it for inspection.
func (c *Canvas) Image() *image.RGBA { return c.surface.Image() }

// Root returns the outermost canvas of the tree.
func (c *Canvas) Root() *Canvas { return c.root }

// Parent returns the canvas this one composites into, or nil for a root.
func (c *Canvas) Parent() *Canvas { return c.parent }

// BeginRegion assigns region a fresh key, records it in the root table and
// sets the surface fill and stroke color to that key. Subsequent fills and
// strokes paint the region's identity.
func (c *Canvas) BeginRegion(r *Region) Key {
	k, keys := c.tab.gen.next(c.tab.regions)
	for _, kk := range keys {
		c.tab.regions[kk] = r
	}
	c.tab.count++
	col := k.Color()
	c.surface.SetFill(col)
	c.surface.SetStroke(col, 1, nil)
	return k
}

// Clear fills the surface with the background. On a root canvas it also
// empties the key table; a child's keys live in the root table and are
// dropped when the root is cleared.
func (c *Canvas) Clear() {
	if c.parent == nil {
		c.tab.regions = make(map[Key]*Region)
		c.tab.count = 0
	}
	c.surface.Clear(Background.Color())
}

// RegionAt returns the region painted at (x, y), or nil.
func (c *Canvas) RegionAt(x, y int) *Region {
	px := c.surface.At(x, y)
	if px.A == 0 {
		return nil
	}
	k := KeyOf(px)
	if k == Background {
		return nil
	}
	return c.tab.regions[k]
}

// Len returns the number of regions registered since the last root Clear.
func (c *Canvas) Len() int { return c.tab.count }

// CreateChild returns a canvas of its own size that shares this tree's key
// table and composites into c.
func (c *Canvas) CreateChild(width, height int) *Canvas {
	child := &Canvas{
		surface: newSurface(width, height),
		parent:  c,
		root:    c.root,
		tab:     c.tab,
	}
	child.surface.Clear(Background.Color())
	return child
}

// TransferToParent composites this surface into the parent at the
// destination rectangle, scaling with nearest-neighbour sampling so every
// transferred pixel is still an exact key. Background pixels are not
// transferred, leaving the parent's regions beneath them reachable.
// It panics on a root canvas.
func (c *Canvas) TransferToParent(dx, dy, dw, dh float64) {
	if c.parent == nil {
		panic(goerrors.Wrap(ErrNoParent, 1))
	}
	c.parent.surface.DrawImage(c.keyedImage(), dx, dy, dw, dh)
}

// keyedImage copies the surface with background pixels made transparent.
func (c *Canvas) keyedImage() *image.RGBA {
	src := c.surface.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	bg := Background.Color()
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i] == bg.R && out.Pix[i+1] == bg.G && out.Pix[i+2] == bg.B {
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 0, 0, 0, 0
		}
	}
	return out
}
