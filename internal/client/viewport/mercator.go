package viewport

import "math"

const (
	tileSize = 256.0
	// MaxLat is the latitude at which the Web Mercator square ends.
	MaxLat = 85.05112878
)

func worldSize(zoom int) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

// project returns the world pixel coordinates of a point.
func project(lat, lng float64, zoom int) (x, y float64) {
	ws := worldSize(zoom)
	phi := clampLat(lat) * math.Pi / 180
	x = (lng + 180) / 360 * ws
	y = (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2 * ws
	return x, y
}

func unproject(x, y float64, zoom int) (lat, lng float64) {
	ws := worldSize(zoom)
	lng = wrapLng(x/ws*360 - 180)
	lat = math.Atan(math.Sinh(math.Pi*(1-2*y/ws))) * 180 / math.Pi
	return clampLat(lat), lng
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxLat, math.Min(MaxLat, lat))
}

func wrapLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
