package mask

import (
	"container/list"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/webp"
)

// transparentSentinel is the colour index reserved for "no robot here" in
// a decoded custom graphic; any other colour index is opaque.
const transparentSentinel = 0

// GraphicCache decodes a robot's optional custom graphic into a
// collision-load-bearing Mask exactly once per distinct path, evicting
// the least-recently-used entry once full.
type GraphicCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	path string
	mask *Mask
}

// NewGraphicCache creates a cache holding up to capacity decoded masks.
func NewGraphicCache(capacity int) *GraphicCache {
	if capacity < 1 {
		capacity = 1
	}
	return &GraphicCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Load decodes the image at path into a Mask, or returns a cached one.
// Non-transparent pixels (alpha > 0) become opaque collision cells.
func (c *GraphicCache) Load(path string) (*Mask, error) {
	c.mu.Lock()
	if el, ok := c.entries[path]; ok {
		c.order.MoveToFront(el)
		m := el.Value.(*cacheEntry).mask
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	m, err := decodeToMask(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[path]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).mask, nil
	}
	el := c.order.PushFront(&cacheEntry{path: path, mask: m})
	c.entries[path] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).path)
		}
	}
	return m, nil
}

func decodeToMask(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	colour := uint8(1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a > 0 {
				m.Set(x-b.Min.X, y-b.Min.Y, colour)
			}
		}
	}
	return m, nil
}
