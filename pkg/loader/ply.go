package loader

import (
	"fmt"
	"os"

	"github.com/chenzhekl/goply"

	"github.com/opensbvh/sbvh/pkg/geom"
)

// LoadPLY reads vertex/face elements out of an ASCII or binary PLY mesh via
// goply and fan-triangulates polygonal faces, the same way LoadOBJ does.
// Viam's rdk pulls in goply for point-cloud/mesh ingestion; this is the
// pack's other real PLY reader, used here instead of hand-rolling one.
func LoadPLY(filename string) ([]geom.Primitive, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	parser := goply.New(f)

	vertexElems := parser.Elements("vertex")
	vertices := make([]geom.Vec3, len(vertexElems))
	for i, v := range vertexElems {
		x, okX := v["x"].(float64)
		y, okY := v["y"].(float64)
		z, okZ := v["z"].(float64)
		if !okX || !okY || !okZ {
			return nil, fmt.Errorf("loader: %s: vertex %d has non-float64 coordinates", filename, i)
		}
		vertices[i] = geom.XYZ(float32(x), float32(y), float32(z))
	}

	var primitives []geom.Primitive
	for _, face := range parser.Elements("face") {
		raw, ok := face["vertex_indices"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("loader: %s: face record missing vertex_indices", filename)
		}

		idx := make([]int, len(raw))
		for i, v := range raw {
			n, ok := v.(int64)
			if !ok {
				return nil, fmt.Errorf("loader: %s: non-integer vertex index in face", filename)
			}
			if n < 0 || int(n) >= len(vertices) {
				return nil, fmt.Errorf("loader: %s: vertex index %d out of range", filename, n)
			}
			idx[i] = int(n)
		}

		for i := 1; i < len(idx)-1; i++ {
			primitives = append(primitives, geom.NewTriangle(vertices[idx[0]], vertices[idx[i]], vertices[idx[i+1]], 0))
		}
	}

	return primitives, nil
}
