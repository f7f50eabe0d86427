package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/mapmerge/applog"
	"github.com/dave/mapmerge/kml"
	"github.com/dave/mapmerge/kmz"
	"github.com/dave/mapmerge/route"
)

// scanDir reads every .kmz and .kml file in dir (non-recursively) and
// extracts their routes. A file that can't be read or parsed is logged
// and skipped; one bad archive must not abort processing of the rest.
func scanDir(dir string, logger *applog.Logger) ([]route.Route, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %q: %w", dir, err)
	}

	var routes []route.Route
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fpath := filepath.Join(dir, e.Name())

		var root kml.Root
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".kmz":
			root, err = kmz.Load(fpath)
		case ".kml":
			root, err = kml.Load(fpath)
		default:
			continue
		}
		if err != nil {
			logger.Warn("skipping archive",
				slog.String("path", fpath),
				slog.String("error", err.Error()))
			continue
		}

		routes = append(routes, extractRoutes(root, fpath, logger)...)
	}
	return routes, nil
}

// extractRoutes produces one route per LineString in the document. The
// placemark name is the display name, falling back to "Route N" when the
// placemark is unnamed; N counts LineStrings within the source archive.
func extractRoutes(root kml.Root, source string, logger *applog.Logger) []route.Route {
	stem := kml.Basename(source)

	var routes []route.Route
	var n int
	for _, p := range root.Placemarks() {
		for _, ls := range p.LineStrings() {
			n++
			line := ls.Line()
			if len(line) == 0 {
				logger.Warn("skipping placemark with no usable coordinates",
					slog.String("source", source),
					slog.String("placemark", p.Name))
				continue
			}
			name := strings.TrimSpace(p.Name)
			if name == "" {
				name = route.Fallback(n)
			}
			routes = append(routes, route.Route{
				ID:     route.ID(stem, strings.TrimSpace(p.Name), n),
				Name:   name,
				Desc:   descText(p.Description),
				Source: source,
				Line:   line,
			})
		}
	}
	return routes
}
