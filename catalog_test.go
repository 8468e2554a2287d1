package fstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCatalogRoundTrip(t *testing.T) {
	src := newTestRegistry(t, DescriptorOf[Point3](), DescriptorOf[Tagged](), DescriptorOf[Telemetry]())
	data, err := src.MarshalCatalog()
	require.NoError(t, err)

	var c Catalog
	require.NoError(t, yaml.Unmarshal(data, &c))
	require.Len(t, c.Structs, 3)
	assert.Equal(t, CatalogEntry{Type: "tagged", Size: 13, Schema: "point3 p;int8 flag;"}, c.Structs[1])

	dst := NewRegistry(Options{})
	loaded, err := dst.LoadCatalog(data)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	for _, d := range src.All() {
		got, ok := dst.Lookup(d.TypeName())
		require.True(t, ok, d.TypeName())
		assert.Equal(t, d.Size(), got.Size())
		assert.Equal(t, d.Schema(), got.Schema())

		want, err := src.Resolve(d)
		require.NoError(t, err)
		have, err := dst.Resolve(got)
		require.NoError(t, err)
		assert.Equal(t, want.Fields, have.Fields)
	}
}

func TestLoadCatalogOutOfOrder(t *testing.T) {
	doc := `
structs:
  - type: robot
    size: 25
    schema: "pose3 pose; char tag[1];"
  - type: pose3
    size: 24
    schema: "vec3 pos; vec3 rot;"
  - type: vec3
    size: 12
    schema: "float x; float y; float z;"
`
	r := NewRegistry(Options{})
	loaded, err := r.LoadCatalog([]byte(doc))
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "vec3", loaded[0].TypeName())
	assert.Equal(t, "pose3", loaded[1].TypeName())
	assert.Equal(t, "robot", loaded[2].TypeName())

	robot, _ := r.Lookup("robot")
	buf := make([]byte, 25)
	v, err := r.NewDynamicView(robot, buf)
	require.NoError(t, err)
	require.NoError(t, v.Set("pose.rot.z", float32(3.5)))
	require.NoError(t, v.Set("tag", "A"))
	f, _ := v.Field("pose.rot.z")
	assert.Equal(t, 20, f.Offset)
	assert.Equal(t, float32(3.5), Float32At(buf, 20))
	assert.Equal(t, byte('A'), buf[24])
}

func TestLoadCatalogReportsUnresolvable(t *testing.T) {
	doc := `
structs:
  - type: ok
    size: 2
    schema: "int16 v;"
  - type: orphan
    size: 4
    schema: "ghost g;"
  - type: wrong
    size: 3
    schema: "int16 v;"
`
	r := NewRegistry(Options{})
	loaded, err := r.LoadCatalog([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedStruct)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	require.Len(t, loaded, 1)
	assert.True(t, r.Contains("ok"))
	assert.False(t, r.Contains("orphan"))
	assert.False(t, r.Contains("wrong"))
}

func TestLoadCatalogRejectsOversizedArrays(t *testing.T) {
	doc := `
structs:
  - type: evil
    size: 0
    schema: "int64 a[1152921504606846976]; int64 b[1152921504606846976];"
  - type: wrap
    size: 4
    schema: "int64 a[2305843009213693952]; int32 x;"
`
	r := NewRegistry(Options{})
	loaded, err := r.LoadCatalog([]byte(doc))
	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.Empty(t, loaded)
	assert.False(t, r.Contains("evil"))
	assert.False(t, r.Contains("wrap"))
}

func TestLoadCatalogInvalidDocument(t *testing.T) {
	r := NewRegistry(Options{})
	_, err := r.LoadCatalog([]byte("structs: {"))
	require.Error(t, err)

	_, err = r.LoadCatalog([]byte("structs:\n  - size: 1\n    schema: \"uint8 v;\"\n"))
	require.ErrorIs(t, err, ErrMalformedSchema)
	assert.Zero(t, r.Len())
}

func TestLoadCatalogKeepsExisting(t *testing.T) {
	r := newTestRegistry(t, DescriptorOf[Point3]())
	orig, _ := r.Lookup("point3")
	loaded, err := r.LoadCatalog([]byte("structs:\n  - type: point3\n    size: 12\n    schema: \"float32 a;float32 b;float32 c;\"\n"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Same(t, orig, loaded[0])
}
