package main

import (
	"fmt"
	"strings"

	"github.com/opensbvh/sbvh/pkg/geom"
	"github.com/opensbvh/sbvh/pkg/loader"
)

func loadMesh(filename string) ([]geom.Primitive, error) {
	switch {
	case strings.HasSuffix(filename, ".obj"):
		return loader.LoadOBJ(filename)
	case strings.HasSuffix(filename, ".ply"):
		return loader.LoadPLY(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", filename)
	}
}
