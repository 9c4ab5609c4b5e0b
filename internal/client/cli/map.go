package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/placemark/internal/client/flow"
)

var errUsage = errors.New("usage")

func (a *App) List(ctx context.Context) error {
	items, err := a.catalog.Fetch(ctx)
	if err != nil {
		printWarning("Could not refresh locations (%v), showing the last known list", err)
		items = a.catalog.All()
	}
	printlnFn(renderLocations(items))
	return err
}

func (a *App) Locate(ctx context.Context) error {
	if err := a.viewport.LocateMe(ctx); err != nil {
		printWarning("%v", err)
		return err
	}
	lat, lng, zoom := a.viewport.Center()
	printSuccess("Centred on %.5f, %.5f (zoom %d)", lat, lng, zoom)
	return nil
}

func (a *App) Zoom(ctx context.Context, delta int) error {
	if delta > 0 {
		a.viewport.ZoomIn()
	} else {
		a.viewport.ZoomOut()
	}
	printMuted("zoom %d", a.mapView.Zoom())
	return nil
}

func (a *App) Pan(ctx context.Context, args []string) error {
	lat, lng, err := parseLatLng(args)
	if err != nil {
		printlnFn("Usage: pan <lat> <lng>")
		return err
	}
	a.viewport.Pan(lat, lng)
	cLat, cLng := a.mapView.Center()
	printMuted("centre %.5f, %.5f", cLat, cLng)
	return nil
}

// Click feeds a click into the map handle. The viewport projects it and
// calls selectPoint.
func (a *App) Click(ctx context.Context, args []string) error {
	if len(args) == 3 && args[0] == "px" {
		x, errX := strconv.ParseFloat(args[1], 64)
		y, errY := strconv.ParseFloat(args[2], 64)
		if errX != nil || errY != nil {
			printlnFn("Usage: click px <x> <y>")
			return errUsage
		}
		a.mapView.ClickPixel(x, y)
		return nil
	}

	lat, lng, err := parseLatLng(args)
	if err != nil {
		printlnFn("Usage: click <lat> <lng> | click px <x> <y>")
		return err
	}
	a.mapView.ClickAt(lat, lng)
	return nil
}

func (a *App) selectPoint(ctx context.Context, lat, lng float64) {
	if err := a.flow.Click(ctx, lat, lng); err != nil {
		if errors.Is(err, flow.ErrMustAuthenticate) {
			printWarning("Only signed-in users can add locations")
			return
		}
		printError(err)
		return
	}
	printlnFn(renderDraft(a.flow))
}

func (a *App) View(ctx context.Context) error {
	lat, lng, zoom := a.viewport.Center()
	printlnFn(fmt.Sprintf("%s %.5f, %.5f  %s %d  %s %d",
		labelStyle.Render("centre"), lat, lng,
		labelStyle.Render("zoom"), zoom,
		labelStyle.Render("locations"), a.catalog.Len()))
	if a.flow.State() != flow.Idle {
		printlnFn(renderDraft(a.flow))
	}
	return nil
}

func parseLatLng(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, errUsage
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errUsage
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, errUsage
	}
	return lat, lng, nil
}
