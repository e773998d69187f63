// Package loader supplies geom.Primitive slices to cmd/sbvhtool from real
// mesh files. It sits outside the core per spec.md §1/§6 ("no ... wire
// formats are part of the core") — the builder only ever sees
// []geom.Primitive.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opensbvh/sbvh/pkg/geom"
)

// LoadOBJ reads the vertex/face records of a Wavefront OBJ file and returns
// one Triangle per face, fan-triangulating faces with more than 3 vertices.
// Materials are not modelled; every triangle gets MaterialID 0. This mirrors
// the teacher's hand-rolled scene/parser.go line-oriented scanning style,
// trimmed to the handful of record types the builder's input view needs.
func LoadOBJ(filename string) ([]geom.Primitive, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	var vertices []geom.Vec3
	var primitives []geom.Primitive

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("loader: %s:%d: %w", filename, line, err)
			}
			vertices = append(vertices, v)

		case "f":
			tris, err := parseFace(fields[1:], vertices)
			if err != nil {
				return nil, fmt.Errorf("loader: %s:%d: %w", filename, line, err)
			}
			primitives = append(primitives, tris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", filename, err)
	}

	return primitives, nil
}

func parseVertex(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("vertex record needs 3 coordinates, got %d", len(fields))
	}
	var c [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", fields[i], err)
		}
		c[i] = float32(v)
	}
	return geom.XYZ(c[0], c[1], c[2]), nil
}

// parseFace fan-triangulates an OBJ polygon record ("f v1 v2 v3 ...", each
// token possibly carrying /vt/vn suffixes which are ignored) against the
// vertex list seen so far.
func parseFace(fields []string, vertices []geom.Vec3) ([]geom.Primitive, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face record needs at least 3 vertices, got %d", len(fields))
	}

	idx := make([]int, len(fields))
	for i, f := range fields {
		token := strings.SplitN(f, "/", 2)[0]
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q: %w", f, err)
		}
		if n < 0 {
			n = len(vertices) + n + 1
		}
		if n < 1 || n > len(vertices) {
			return nil, fmt.Errorf("vertex index %d out of range (have %d vertices)", n, len(vertices))
		}
		idx[i] = n - 1
	}

	tris := make([]geom.Primitive, 0, len(idx)-2)
	for i := 1; i < len(idx)-1; i++ {
		t := geom.NewTriangle(vertices[idx[0]], vertices[idx[i]], vertices[idx[i+1]], 0)
		tris = append(tris, t)
	}
	return tris, nil
}
