package main

import (
	"log/slog"
	"net/http"

	"github.com/tkrajina/go-elevations/geoelevations"

	"github.com/dave/mapmerge/applog"
	"github.com/dave/mapmerge/geo"
	"github.com/dave/mapmerge/route"
)

// fillElevations looks up SRTM elevations for routes that carry none.
// Garmin KMZ exports frequently zero out the altitude column. A failed
// lookup leaves the route as-is and logs a warning; elevation data is
// cosmetic here and never worth failing a run over.
func fillElevations(srtm *geoelevations.Srtm, routes []route.Route, logger *applog.Logger) {
	for _, r := range routes {
		if !needsElevation(r.Line) {
			continue
		}
		for i := range r.Line {
			ele, err := srtm.GetElevation(http.DefaultClient, r.Line[i].Lat, r.Line[i].Lon)
			if err != nil {
				logger.Warn("elevation lookup failed",
					slog.String("route", r.ID),
					slog.String("error", err.Error()))
				break
			}
			r.Line[i].Ele = ele
		}
	}
}

// needsElevation reports whether every point in the line has a zero
// elevation, meaning the source carried no altitude data at all.
func needsElevation(line geo.Line) bool {
	for _, pos := range line {
		if pos.Ele != 0 {
			return false
		}
	}
	return len(line) > 0
}
