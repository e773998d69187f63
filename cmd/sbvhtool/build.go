package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/opensbvh/sbvh/pkg/bvh"
)

var buildCommand = cli.Command{
	Name:      "build",
	Usage:     "build a (S)BVH over a mesh and print its statistics",
	ArgsUsage: "mesh.obj",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "sbvh",
			Usage: "use the spatial-split builder instead of the plain object-split builder",
		},
		cli.IntFlag{
			Name:  "leaf-size",
			Value: bvh.DefaultConfig().MaxPrimitivesInLeaf,
			Usage: "max primitives per leaf (SBVH only; plain BVH always leafs below 3)",
		},
		cli.IntFlag{
			Name:  "bins",
			Value: bvh.DefaultConfig().BinCount,
			Usage: "spatial-split bin count",
		},
		cli.Float64Flag{
			Name:  "alpha",
			Value: float64(bvh.DefaultConfig().Alpha),
			Usage: "spatial-split overlap threshold; 1 disables spatial splits",
		},
		cli.Float64Flag{
			Name:  "over-allocation",
			Value: float64(bvh.DefaultConfig().OverAllocationFactor),
			Usage: "node array over-allocation factor (SBVH only)",
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

		start := time.Now()

		var tree *bvh.Tree
		var stats bvh.Stats
		if ctx.Bool("sbvh") {
			tree, stats, err = bvh.BuildSBVH(primitives, cfg)
		} else {
			tree, err = bvh.Build(primitives, cfg)
		}
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		printTreeStats(filename, len(primitives), tree, stats, elapsed)
		return nil
	},
}

func printTreeStats(filename string, primitiveCount int, tree *bvh.Tree, stats bvh.Stats, elapsed time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"mesh", filename})
	table.Append([]string{"primitives", fmt.Sprintf("%d", primitiveCount)})
	table.Append([]string{"build time", elapsed.String()})
	table.Append([]string{"node count", fmt.Sprintf("%d", tree.NodeCount)})
	table.Append([]string{"index count", fmt.Sprintf("%d", tree.IndexCount)})
	table.Append([]string{"leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"object splits", fmt.Sprintf("%d", stats.ObjectSplits)})
	table.Append([]string{"spatial splits", fmt.Sprintf("%d", stats.SpatialSplits)})
	table.Append([]string{"unsplit left/right", fmt.Sprintf("%d / %d", stats.UnsplitLeft, stats.UnsplitRight)})
	table.Append([]string{"rejected left/right", fmt.Sprintf("%d / %d", stats.RejectedLeft, stats.RejectedRight)})
	table.Append([]string{"max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Render()

	logger.Noticef("build statistics\n%s", buf.String())
}
