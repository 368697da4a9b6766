package geom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	g, err := LoadCSV(write(t, "pts.csv", "name,Latitude,lon\na,43.2,-2.9\nb,bad,1\nc,43.3,-2.8\n"))
	require.NoError(t, err)
	assert.Equal(t, MultiPoint, g.Type)
	require.Len(t, g.Geometries, 2)
	assert.Equal(t, []Coordinate{c(-2.9, 43.2)}, g.Geometries[0].Coordinates)

	_, err = LoadCSV(write(t, "nocols.csv", "a,b\n1,2\n"))
	assert.ErrorIs(t, err, ErrCSV)

	_, err = LoadCSV(write(t, "bad.csv", "lat,lon\nx,y\n"))
	assert.ErrorIs(t, err, ErrCSV)
}

func TestLoadKML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark><Point><coordinates>-2.93,43.26,0</coordinates></Point></Placemark>
    <Placemark><name>no point</name></Placemark>
    <Placemark><Point><coordinates>-2.90,43.30</coordinates></Point></Placemark>
  </Document>
</kml>`
	g, err := LoadKML(write(t, "pts.kml", doc))
	require.NoError(t, err)
	require.Len(t, g.Geometries, 2)
	assert.Equal(t, []Coordinate{c(-2.93, 43.26)}, g.Geometries[0].Coordinates)

	_, err = LoadKML(write(t, "empty.kml", `<kml><Document/></kml>`))
	assert.ErrorIs(t, err, ErrKML)
}

func TestLoadKMLShapes(t *testing.T) {
	doc := `<kml><Document><Folder>
  <Placemark><Polygon>
    <outerBoundaryIs><LinearRing><coordinates>0,0 10,0 10,10 0,10</coordinates></LinearRing></outerBoundaryIs>
    <innerBoundaryIs><LinearRing><coordinates>4,4 6,4 6,6 4,4</coordinates></LinearRing></innerBoundaryIs>
  </Polygon></Placemark>
</Folder></Document></kml>`
	g, err := LoadKML(write(t, "poly.kml", doc))
	require.NoError(t, err)
	assert.Equal(t, MultiPolygon, g.Type)
	require.Len(t, g.Geometries, 1)
	shell := g.Geometries[0].Geometries[0].Coordinates
	require.Len(t, shell, 5, "open rings are closed")
	assert.Equal(t, shell[0], shell[4])
	assert.Len(t, g.Geometries[0].Geometries, 2)

	line := `<kml><Placemark><LineString><coordinates>0,0 1,1 2,0</coordinates></LineString></Placemark></kml>`
	g, err = LoadKML(write(t, "line.kml", line))
	require.NoError(t, err)
	assert.Equal(t, MultiLineString, g.Type)
	assert.Len(t, g.Geometries[0].Coordinates, 3)

	mixed := `<kml><Document>
  <Placemark><Point><coordinates>1,1</coordinates></Point></Placemark>
  <Placemark><LineString><coordinates>0,0 1,1</coordinates></LineString></Placemark>
</Document></kml>`
	_, err = LoadKML(write(t, "mixed.kml", mixed))
	assert.ErrorIs(t, err, ErrKML)
}

func TestLoadDispatch(t *testing.T) {
	g, err := Load(write(t, "line.WKT", "LINESTRING (0 0, 1 1)"))
	require.NoError(t, err)
	assert.Equal(t, LineString, g.Type)

	g, err = Load(write(t, "pt.json", `{"type":"Point","coordinates":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, Point, g.Type)

	_, err = Load(write(t, "shape.shp", "x"))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	g, err := ParseWKT("POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	require.NoError(t, err)
	dir := t.TempDir()

	wkt := filepath.Join(dir, "out.wkt")
	require.NoError(t, Save(wkt, g))
	back, err := Load(wkt)
	require.NoError(t, err)
	assert.True(t, g.Equals(back))

	gj := filepath.Join(dir, "out.geojson")
	require.NoError(t, Save(gj, g))
	back, err = Load(gj)
	require.NoError(t, err)
	assert.True(t, g.Equals(back))

	assert.Error(t, Save(filepath.Join(dir, "out.csv"), g))
}

func TestBoundsAndConvert(t *testing.T) {
	g, err := ParseWKT("MULTIPOINT ((1 2), (5 -3))")
	require.NoError(t, err)
	bb, ok := Bounds(g)
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: 1, MinY: -3, MaxX: 5, MaxY: 2}, bb)
	assert.Equal(t, 4.0, bb.Width())
	assert.Equal(t, 5.0, bb.Height())

	_, ok = Bounds(NewEmpty(Polygon))
	assert.False(t, ok)

	_, err = ToGeom(NewEmpty(Point))
	assert.ErrorIs(t, err, ErrUnsupported)

	cg, err := ToGeom(g)
	require.NoError(t, err)
	back, err := FromGeom(cg)
	require.NoError(t, err)
	assert.True(t, g.Equals(back))
}
