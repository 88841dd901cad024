package hit

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

// Key is a 24-bit RGB color used as a region identity.
type Key uint32

// Background is the reserved key a cleared hit surface is filled with. It is
// never assigned to a region.
const Background Key = 0xFFFFFF

// KeyOf converts a pixel to its key, ignoring alpha.
func KeyOf(c color.RGBA) Key {
	return Key(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

// Color returns the opaque color painting k.
func (k Key) Color() color.RGBA {
	return color.RGBA{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k), A: 0xff}
}

func (k Key) String() string {
	return fmt.Sprintf("#%06x", uint32(k))
}

// Expander maps a chosen key to every key that must resolve to the same
// region when read back.
type Expander interface {
	Expand(k Key) []Key
}

// Exact registers only the chosen key.
type Exact struct{}

func (Exact) Expand(k Key) []Key { return []Key{k} }

// Neighborhood registers the chosen key plus every key within Chebyshev
// distance 1 of it (up to 27 keys). It keeps lookups correct on hosts that
// perturb pixel readback by ±1 per channel.
type Neighborhood struct{}

func (Neighborhood) Expand(k Key) []Key {
	c := k.Color()
	keys := make([]Key, 0, 27)
	for dr := -1; dr <= 1; dr++ {
		r := int(c.R) + dr
		if r < 0 || r > 255 {
			continue
		}
		for dg := -1; dg <= 1; dg++ {
			g := int(c.G) + dg
			if g < 0 || g > 255 {
				continue
			}
			for db := -1; db <= 1; db++ {
				b := int(c.B) + db
				if b < 0 || b > 255 {
					continue
				}
				keys = append(keys, Key(r<<16|g<<8|b))
			}
		}
	}
	return keys
}

// generator draws random keys that do not collide with the table.
type generator struct {
	rnd      *rand.Rand
	expander Expander
	// reserved holds the background's own expansion: no region may claim a
	// key that a perturbed background pixel could read back as.
	reserved map[Key]bool
}

func (g *generator) reserveBackground() {
	g.reserved = make(map[Key]bool)
	for _, k := range g.expander.Expand(Background) {
		g.reserved[k] = true
	}
	g.reserved[Background] = true
}

// next returns a key whose expansion is free in the table and avoids the
// background. The loop has no cap; with 2^24 keys and a per-frame region
// count in the hundreds, expected retries are close to zero.
func (g *generator) next(table map[Key]*Region) (Key, []Key) {
	for {
		k := Key(g.rnd.Uint32() & 0xFFFFFF)
		keys := g.expander.Expand(k)
		if g.free(keys, table) {
			return k, keys
		}
	}
}

func (g *generator) free(keys []Key, table map[Key]*Region) bool {
	for _, k := range keys {
		if g.reserved[k] {
			return false
		}
		if _, used := table[k]; used {
			return false
		}
	}
	return true
}
