package viewport

import (
	"context"
	"sync"
)

// MemoryMap is an in-process MapHandle. The terminal front end renders
// its state as text; tests inspect it directly.
type MemoryMap struct {
	mu      sync.Mutex
	lat     float64
	lng     float64
	zoom    int
	width   int
	height  int
	onClick func(ClickEvent)
}

func NewMemoryMap(width, height int) *MemoryMap {
	return &MemoryMap{width: width, height: height}
}

func (m *MemoryMap) Pan(lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lat, m.lng = lat, lng
}

func (m *MemoryMap) SetZoom(zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = zoom
}

func (m *MemoryMap) Zoom() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoom
}

func (m *MemoryMap) OnClick(fn func(ClickEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

func (m *MemoryMap) Center() (lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lat, m.lng
}

// ClickAt simulates a click at geographic coordinates.
func (m *MemoryMap) ClickAt(lat, lng float64) {
	m.fire(ClickEvent{HasLatLng: true, Lat: lat, Lng: lng})
}

// ClickPixel simulates a click at a pixel offset inside the map container.
func (m *MemoryMap) ClickPixel(x, y float64) {
	m.mu.Lock()
	w, h := m.width, m.height
	m.mu.Unlock()
	m.fire(ClickEvent{X: x, Y: y, Width: w, Height: h})
}

func (m *MemoryMap) fire(ev ClickEvent) {
	m.mu.Lock()
	fn := m.onClick
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// FixedGeolocator always reports the same position, or Err when set.
type FixedGeolocator struct {
	Lat, Lng float64
	Err      error
}

func (g FixedGeolocator) Locate(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if g.Err != nil {
		return 0, 0, g.Err
	}
	return g.Lat, g.Lng, nil
}
