package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions lists the file types Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt"}

// Load reads any supported file by extension.
func Load(path string) (*Geometry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseWKT(string(data))
	}
	return nil, fmt.Errorf("unsupported file: %s", filepath.Ext(path))
}

// Save writes g as WKT or GeoJSON depending on the extension.
func Save(path string, g *Geometry) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		b, err := EncodeGeoJSON(g)
		if err != nil {
			return err
		}
		data = b
	case ".wkt":
		data = []byte(FormatWKT(g) + "\n")
	default:
		return fmt.Errorf("cannot write %s files", filepath.Ext(path))
	}
	return os.WriteFile(path, data, 0o644)
}
