package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/qmuntal/gltf"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := LoadGLB("/nonexistent/model.obj")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

func TestDecodeErrors(t *testing.T) {
	loader := NewGLTFLoader()

	if _, err := loader.Decode(bytes.NewReader([]byte("plain text")), "surface.gz"); err == nil {
		t.Error("Expected error for non-gzip input")
	}
	if _, err := loader.Decode(bytes.NewReader(nil), "surface.bz2"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("not a gltf document"))
	gz.Close()
	if _, err := loader.Decode(&buf, "surface.glb.gz"); err == nil {
		t.Error("Expected decode error for garbage payload")
	}
}

// triangleDocument builds a one-triangle document with embedded data.
func triangleDocument(withIndices bool) *gltf.Document {
	var data bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&data, binary.LittleEndian, math.Float32bits(f))
	}
	posView := 0
	doc := &gltf.Document{
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: 36}},
		Accessors: []*gltf.Accessor{{
			BufferView:    &posView,
			ComponentType: gltf.ComponentFloat,
			Count:         3,
			Type:          gltf.AccessorVec3,
		}},
	}
	prim := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: 0},
		Mode:       gltf.PrimitiveTriangles,
	}
	if withIndices {
		for _, idx := range []uint16{0, 1, 2} {
			binary.Write(&data, binary.LittleEndian, idx)
		}
		idxView := 1
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{Buffer: 0, ByteOffset: 36, ByteLength: 6})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    &idxView,
			ComponentType: gltf.ComponentUshort,
			Count:         3,
			Type:          gltf.AccessorScalar,
		})
		indices := 1
		prim.Indices = &indices
	}
	doc.Buffers = []*gltf.Buffer{{ByteLength: data.Len(), Data: data.Bytes()}}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestBuildTriangle(t *testing.T) {
	for _, withIndices := range []bool{false, true} {
		mesh, err := NewGLTFLoader().build(triangleDocument(withIndices), "tri")
		if err != nil {
			t.Fatalf("build(indices=%v): %v", withIndices, err)
		}
		if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
			t.Fatalf("got %d vertices, %d faces", mesh.VertexCount(), mesh.TriangleCount())
		}
		if got := mesh.GetFace(0); got != [3]int{0, 1, 2} {
			t.Errorf("face = %v, want [0 1 2]", got)
		}
		if mesh.FacePrimitive(0) != 0 {
			t.Errorf("face primitive = %d, want 0", mesh.FacePrimitive(0))
		}
		if mesh.Vertices[0].Normal.Len() < 0.99 {
			t.Error("normals should be computed when absent")
		}
		size := mesh.Size()
		if size.X != 1 || size.Y != 1 || size.Z != 0 {
			t.Errorf("size = %v, want (1,1,0)", size)
		}
	}
}

func TestBuildNoGeometry(t *testing.T) {
	_, err := NewGLTFLoader().build(&gltf.Document{}, "empty")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("Expected ErrNoGeometry, got %v", err)
	}
}
