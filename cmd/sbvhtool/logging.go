package main

import (
	"github.com/urfave/cli"

	"github.com/opensbvh/sbvh/pkg/log"
)

var logger = log.New("sbvhtool")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
