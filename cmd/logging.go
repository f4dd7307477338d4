package cmd

import (
	"github.com/urfave/cli"

	"github.com/ericlu327/photonforge-raytracing/log"
)

var logger = log.New("photonforge")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
