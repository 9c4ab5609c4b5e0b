// Package viewport tracks what part of the map is visible and turns user
// gestures (locate, zoom, pan, click) into map handle calls and coordinates.
package viewport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/placemark/internal/logging"
)

const (
	MinZoom    = 0
	MaxZoom    = 21
	LocateZoom = 12

	DefaultLat  = 51.1657
	DefaultLng  = 10.4515
	DefaultZoom = 12
)

// ClickEvent is a click on the map. When HasLatLng is false the event only
// carries the pixel offset inside a container of Width x Height.
type ClickEvent struct {
	HasLatLng bool
	Lat, Lng  float64

	X, Y          float64
	Width, Height int
}

// MapHandle is the rendered map widget. The viewport does not own it.
type MapHandle interface {
	Pan(lat, lng float64)
	SetZoom(zoom int)
	Zoom() int
	OnClick(fn func(ClickEvent))
}

// Geolocator reports the device position.
type Geolocator interface {
	Locate(ctx context.Context) (lat, lng float64, err error)
}

// GeoError is a failed position lookup. It is meant to be shown to the user
// and dismissed; it never ends the session.
type GeoError struct {
	Reason string
	Err    error
}

func (e *GeoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location unavailable: %s: %v", e.Reason, e.Err)
	}
	return "location unavailable: " + e.Reason
}

func (e *GeoError) Unwrap() error { return e.Err }

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidClick     = errors.New("click event has neither coordinates nor a container size")
)

// Viewport is safe for concurrent use. Handle calls are made without
// holding the internal lock.
type Viewport struct {
	geo        Geolocator
	geoTimeout time.Duration
	log        logging.Logger

	mu        sync.Mutex
	centerLat float64
	centerLng float64
	zoom      int
	handle    MapHandle
	onSelect  func(lat, lng float64)
}

// New returns a viewport centred on the default position. geo may be nil
// when the device cannot report its position.
func New(geo Geolocator, geoTimeout time.Duration, log logging.Logger) *Viewport {
	return &Viewport{
		geo:        geo,
		geoTimeout: geoTimeout,
		log:        log.With("component", "viewport"),
		centerLat:  DefaultLat,
		centerLng:  DefaultLng,
		zoom:       DefaultZoom,
	}
}

// Attach binds the map widget and syncs it to the current center and zoom.
// Clicks on the widget are projected and forwarded to the OnSelect callback.
func (v *Viewport) Attach(h MapHandle) {
	v.mu.Lock()
	v.handle = h
	lat, lng, zoom := v.centerLat, v.centerLng, v.zoom
	v.mu.Unlock()

	h.Pan(lat, lng)
	h.SetZoom(zoom)
	h.OnClick(v.dispatch)
}

// Detach releases the widget. Later zoom calls are no-ops.
func (v *Viewport) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.handle = nil
}

// OnSelect sets the consumer of projected map clicks.
func (v *Viewport) OnSelect(fn func(lat, lng float64)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onSelect = fn
}

func (v *Viewport) dispatch(ev ClickEvent) {
	lat, lng, err := v.Click(ev)
	if err != nil {
		v.log.Warn(context.Background(), "ignoring map click", "error", err)
		return
	}
	v.mu.Lock()
	fn := v.onSelect
	v.mu.Unlock()
	if fn != nil {
		fn(lat, lng)
	}
}

// Center returns the current center and zoom.
func (v *Viewport) Center() (lat, lng float64, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.centerLat, v.centerLng, v.zoom
}

// LocateMe centres the map on the device position at LocateZoom.
// Failures are returned as *GeoError and leave the view unchanged.
func (v *Viewport) LocateMe(ctx context.Context) error {
	if v.geo == nil {
		return &GeoError{Reason: "geolocation is not supported"}
	}

	ctx, cancel := context.WithTimeout(ctx, v.geoTimeout)
	defer cancel()

	lat, lng, err := v.locate(ctx)
	if err != nil {
		reason := "position lookup failed"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timed out"
		case errors.Is(err, ErrPermissionDenied):
			reason = "permission denied"
		}
		v.log.Info(ctx, "locate failed", "reason", reason, "error", err)
		return &GeoError{Reason: reason, Err: err}
	}

	v.mu.Lock()
	v.centerLat, v.centerLng = clampLat(lat), wrapLng(lng)
	v.zoom = LocateZoom
	h := v.handle
	lat, lng = v.centerLat, v.centerLng
	v.mu.Unlock()

	if h != nil {
		h.Pan(lat, lng)
		h.SetZoom(LocateZoom)
	}
	v.log.Debug(ctx, "located", "lat", lat, "lng", lng)
	return nil
}

type position struct {
	lat, lng float64
	err      error
}

// locate gives up when ctx is done even if the geolocator ignores it.
func (v *Viewport) locate(ctx context.Context) (float64, float64, error) {
	res := make(chan position, 1)
	go func() {
		lat, lng, err := v.geo.Locate(ctx)
		res <- position{lat, lng, err}
	}()

	select {
	case p := <-res:
		return p.lat, p.lng, p.err
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
}

func (v *Viewport) ZoomIn()  { v.zoomBy(1) }
func (v *Viewport) ZoomOut() { v.zoomBy(-1) }

// zoomBy reads the zoom from the widget so user gestures on the widget
// itself are respected.
func (v *Viewport) zoomBy(delta int) {
	v.mu.Lock()
	h := v.handle
	v.mu.Unlock()
	if h == nil {
		return
	}

	z := clampZoom(h.Zoom() + delta)
	h.SetZoom(z)

	v.mu.Lock()
	v.zoom = z
	v.mu.Unlock()
}

// Pan moves the center. Latitude is clamped to the Mercator range and
// longitude wrapped to [-180, 180).
func (v *Viewport) Pan(lat, lng float64) {
	v.mu.Lock()
	v.centerLat, v.centerLng = clampLat(lat), wrapLng(lng)
	h := v.handle
	lat, lng = v.centerLat, v.centerLng
	v.mu.Unlock()

	if h != nil {
		h.Pan(lat, lng)
	}
}

// Click converts ev into geographic coordinates.
func (v *Viewport) Click(ev ClickEvent) (lat, lng float64, err error) {
	if ev.HasLatLng {
		return ev.Lat, ev.Lng, nil
	}
	if ev.Width <= 0 || ev.Height <= 0 {
		return 0, 0, ErrInvalidClick
	}

	v.mu.Lock()
	cLat, cLng, zoom := v.centerLat, v.centerLng, v.zoom
	v.mu.Unlock()

	cx, cy := project(cLat, cLng, zoom)
	px := cx + ev.X - float64(ev.Width)/2
	py := cy + ev.Y - float64(ev.Height)/2
	lat, lng = unproject(px, py, zoom)
	return lat, lng, nil
}

func clampZoom(z int) int {
	return max(MinZoom, min(MaxZoom, z))
}
