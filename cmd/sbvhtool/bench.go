package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/opensbvh/sbvh/pkg/bvh"
)

var benchCommand = cli.Command{
	Name:      "bench",
	Usage:     "build both the plain BVH and the SBVH over the same mesh and compare them",
	ArgsUsage: "mesh.obj",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "leaf-size",
			Value: bvh.DefaultConfig().MaxPrimitivesInLeaf,
			Usage: "max primitives per SBVH leaf",
		},
		cli.IntFlag{
			Name:  "bins",
			Value: bvh.DefaultConfig().BinCount,
			Usage: "spatial-split bin count",
		},
		cli.Float64Flag{
			Name:  "alpha",
			Value: float64(bvh.DefaultConfig().Alpha),
			Usage: "spatial-split overlap threshold",
		},
		cli.Float64Flag{
			Name:  "over-allocation",
			Value: float64(bvh.DefaultConfig().OverAllocationFactor),
			Usage: "SBVH node array over-allocation factor",
		},
	},
	Action: func(ctx *cli.Context) error {
		setupLogging(ctx)

		if ctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one mesh file argument")
		}
		filename := ctx.Args().Get(0)

		primitives, err := loadMesh(filename)
		if err != nil {
			return err
		}
		logger.Infof("loaded %d triangles from %s", len(primitives), filename)

		cfg := bvh.Config{
			MaxPrimitivesInLeaf:  ctx.Int("leaf-size"),
			BinCount:             ctx.Int("bins"),
			Alpha:                float32(ctx.Float64("alpha")),
			OverAllocationFactor: float32(ctx.Float64("over-allocation")),
		}

		plainStart := time.Now()
		plainTree, err := bvh.Build(primitives, cfg)
		if err != nil {
			return fmt.Errorf("plain BVH: %w", err)
		}
		plainElapsed := time.Since(plainStart)

		sbvhStart := time.Now()
		sbvhTree, sbvhStats, err := bvh.BuildSBVH(primitives, cfg)
		if err != nil {
			return fmt.Errorf("SBVH: %w", err)
		}
		sbvhElapsed := time.Since(sbvhStart)

		printComparison(filename, len(primitives), plainTree, plainElapsed, sbvhTree, sbvhStats, sbvhElapsed)
		return nil
	},
}

func printComparison(filename string, primitiveCount int, plainTree *bvh.Tree, plainElapsed time.Duration, sbvhTree *bvh.Tree, sbvhStats bvh.Stats, sbvhElapsed time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Plain BVH", "SBVH"})
	table.Append([]string{"build time", plainElapsed.String(), sbvhElapsed.String()})
	table.Append([]string{"node count", fmt.Sprintf("%d", plainTree.NodeCount), fmt.Sprintf("%d", sbvhTree.NodeCount)})
	table.Append([]string{"reference count", fmt.Sprintf("%d", plainTree.IndexCount), fmt.Sprintf("%d", sbvhTree.IndexCount)})
	table.Append([]string{"reference overhead", "1.00x", fmt.Sprintf("%.2fx", float64(sbvhTree.IndexCount)/float64(primitiveCount))})
	table.Append([]string{"spatial splits", "-", fmt.Sprintf("%d", sbvhStats.SpatialSplits)})
	table.Append([]string{"unsplit left/right", "-", fmt.Sprintf("%d / %d", sbvhStats.UnsplitLeft, sbvhStats.UnsplitRight)})
	table.Append([]string{"max depth", "-", fmt.Sprintf("%d", sbvhStats.MaxDepth)})
	table.Render()

	logger.Noticef("%s: %d primitives\n%s", filename, primitiveCount, buf.String())
}
