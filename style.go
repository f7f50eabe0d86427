package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dave/mapmerge/kml"
	"github.com/dave/mapmerge/route"
)

// Style is the fixed visual treatment applied to every route. It is
// passed explicitly rather than held as a package global so tests can
// substitute their own values.
type Style struct {
	LineColor string // KML aabbggrr
	FillAlpha uint8
	LineWidth float64
}

// DefaultStyle is the highlighter look: hot pink (#FF69B4, "ffb469ff" in
// KML byte order) outline with a semi-transparent fill.
var DefaultStyle = Style{
	LineColor: "ffb469ff",
	FillAlpha: 100,
	LineWidth: 2,
}

// Endpoints closer than this are treated as already forming a loop.
const closeTolerance = 1e-6

// buildPlacemark renders one route as a filled polygon placemark. The
// route line is closed if needed so the fill can be drawn.
func buildPlacemark(r route.Route, s Style) *kml.Placemark {
	ring := r.Line.Closed(closeTolerance)
	return &kml.Placemark{
		Name:        r.Name,
		Description: placemarkDescription(r),
		Visibility:  1,
		Polygon: &kml.Polygon{
			Tessellate: true,
			OuterBoundaryIs: kml.OuterBoundary{
				LinearRing: kml.LinearRing{
					Coordinates: kml.LineCoordinates(ring),
				},
			},
		},
		Style: &kml.Style{
			LineStyle: &kml.LineStyle{
				Color: s.LineColor,
				Width: s.LineWidth,
			},
			PolyStyle: &kml.PolyStyle{
				Color:   withAlpha(s.LineColor, s.FillAlpha),
				Fill:    1,
				Outline: 1,
			},
		},
	}
}

func placemarkDescription(r route.Route) string {
	var parts []string
	if r.Desc != "" {
		parts = append(parts, r.Desc)
	}
	if len(r.Line) > 1 {
		parts = append(parts, fmt.Sprintf("%.1f km", r.Line.Length()))
	}
	if r.Source != "" {
		parts = append(parts, "from "+filepath.Base(r.Source))
	}
	return strings.Join(parts, "\n")
}

// withAlpha replaces the alpha byte of an aabbggrr KML color.
func withAlpha(color string, alpha uint8) string {
	if len(color) != 8 {
		return color
	}
	return fmt.Sprintf("%02x%s", alpha, color[2:])
}
