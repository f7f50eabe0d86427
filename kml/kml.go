package kml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dave/mapmerge/geo"
)

// ErrParse wraps all decode failures so callers can skip a malformed
// document without aborting the whole run.
var ErrParse = errors.New("kml parse error")

func Load(fpath string) (Root, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return Root{}, fmt.Errorf("reading kml %q: %w", fpath, err)
	}
	return Decode(bytes.NewBuffer(b))
}

func Decode(reader io.Reader) (Root, error) {
	var r Root
	if err := xml.NewDecoder(reader).Decode(&r); err != nil {
		return Root{}, fmt.Errorf("decoding kml: %w: %v", ErrParse, err)
	}
	return r, nil
}

type Root struct {
	Xmlns    string   `xml:"xmlns,attr"`
	Document Document `xml:"Document"`
}

func (r Root) Encode(w io.Writer) error {
	wrapper := struct {
		Root
		XMLName struct{} `xml:"kml"`
	}{Root: r}
	bw, err := xml.MarshalIndent(wrapper, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling kml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header+string(bw)); err != nil {
		return fmt.Errorf("writing kml: %w", err)
	}
	return nil
}

// Save writes to a temp file next to the destination and renames it into
// place, so a failed run never leaves a partial document behind.
func (r Root) Save(fpath string) error {
	tmp := fpath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating kml file %q: %w", tmp, err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing kml file %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing kml file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, fpath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming kml file to %q: %w", fpath, err)
	}
	return nil
}

// Placemarks returns every placemark in the document, walking nested
// folders depth first.
func (r Root) Placemarks() []*Placemark {
	var out []*Placemark
	var walk func(f *Folder)
	walk = func(f *Folder) {
		out = append(out, f.Placemarks...)
		for _, sub := range f.Folders {
			walk(sub)
		}
	}
	out = append(out, r.Document.Placemarks...)
	for _, f := range r.Document.Folders {
		walk(f)
	}
	return out
}

type Document struct {
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	Visibility  int          `xml:"visibility"`
	Open        int          `xml:"open"`
	Styles      []*Style     `xml:"Style"`
	Placemarks  []*Placemark `xml:"Placemark"`
	Folders     []*Folder    `xml:"Folder"`
}

type Style struct {
	Id        string     `xml:"id,attr,omitempty"`
	LineStyle *LineStyle `xml:"LineStyle,omitempty"`
	PolyStyle *PolyStyle `xml:"PolyStyle,omitempty"`
}

type LineStyle struct {
	Color string  `xml:"color"`
	Width float64 `xml:"width,omitempty"`
}

type PolyStyle struct {
	Color   string `xml:"color"`
	Fill    int    `xml:"fill"`
	Outline int    `xml:"outline"`
}

type Folder struct {
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	Visibility  int          `xml:"visibility"`
	Open        int          `xml:"open"`
	Placemarks  []*Placemark `xml:"Placemark"`
	Folders     []*Folder    `xml:"Folder"`
}

type Placemark struct {
	Name          string         `xml:"name"`
	Description   string         `xml:"description"`
	Visibility    int            `xml:"visibility"`
	Open          int            `xml:"open"`
	StyleUrl      string         `xml:"styleUrl,omitempty"`
	Point         *Point         `xml:"Point,omitempty"`
	LineString    *LineString    `xml:"LineString,omitempty"`
	Polygon       *Polygon       `xml:"Polygon,omitempty"`
	MultiGeometry *MultiGeometry `xml:"MultiGeometry,omitempty"`
	Style         *Style         `xml:"Style"`
}

// LineStrings returns the placemark's line geometries, looking inside
// MultiGeometry wrappers. Garmin exports use both forms.
func (p *Placemark) LineStrings() []*LineString {
	var out []*LineString
	if p.LineString != nil {
		out = append(out, p.LineString)
	}
	if p.MultiGeometry != nil {
		out = append(out, p.MultiGeometry.LineStrings...)
	}
	return out
}

type Point struct {
	Coordinates string `xml:"coordinates"`
}

func (p Point) Pos() geo.Pos {
	pos, _ := ParsePos(p.Coordinates)
	return pos
}

func PosPoint(pos geo.Pos) *Point {
	return &Point{Coordinates: PosCoordinates(pos)}
}

type LineString struct {
	Extrude      bool   `xml:"extrude"`
	Tessellate   bool   `xml:"tessellate"`
	AltitudeMode string `xml:"altitudeMode"`
	Coordinates  string `xml:"coordinates"`
}

// Line parses the coordinate string, dropping tuples that aren't valid
// "lon,lat[,ele]" rather than failing the whole geometry.
func (l LineString) Line() geo.Line {
	var line geo.Line
	for _, csv := range strings.Fields(strings.TrimSpace(l.Coordinates)) {
		pos, err := ParsePos(csv)
		if err != nil {
			continue
		}
		line = append(line, pos)
	}
	return line
}

type Polygon struct {
	Extrude         bool          `xml:"extrude"`
	Tessellate      bool          `xml:"tessellate"`
	AltitudeMode    string        `xml:"altitudeMode"`
	OuterBoundaryIs OuterBoundary `xml:"outerBoundaryIs"`
}

type OuterBoundary struct {
	LinearRing LinearRing `xml:"LinearRing"`
}

type LinearRing struct {
	Coordinates string `xml:"coordinates"`
}

func (p Polygon) Ring() geo.Line {
	return LineString{Coordinates: p.OuterBoundaryIs.LinearRing.Coordinates}.Line()
}

type MultiGeometry struct {
	LineStrings []*LineString `xml:"LineString"`
}

// ParsePos decodes a single "lon,lat[,ele]" coordinate tuple.
func ParsePos(csv string) (geo.Pos, error) {
	parts := strings.Split(strings.TrimSpace(csv), ",")
	if len(parts) < 2 {
		return geo.Pos{}, fmt.Errorf("coordinate %q: expected lon,lat", csv)
	}
	var pos geo.Pos
	var err error
	if pos.Lon, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return geo.Pos{}, fmt.Errorf("coordinate %q: parsing lon: %w", csv, err)
	}
	if pos.Lat, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return geo.Pos{}, fmt.Errorf("coordinate %q: parsing lat: %w", csv, err)
	}
	if len(parts) > 2 {
		pos.Ele, _ = strconv.ParseFloat(parts[2], 64)
	}
	return pos, nil
}

func LineCoordinates(line geo.Line) string {
	var sb strings.Builder
	for i, pos := range line {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(PosCoordinates(pos))
	}
	return sb.String()
}

func PosCoordinates(pos geo.Pos) string {
	return fmt.Sprintf("%v,%v,%v", pos.Lon, pos.Lat, pos.Ele)
}

// Basename is the source filename without directory or extension, used
// as the fallback route name for unnamed placemarks.
func Basename(fpath string) string {
	base := filepath.Base(fpath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
