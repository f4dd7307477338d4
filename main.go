package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/ericlu327/photonforge-raytracing/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "photonforge"
	app.Usage = "progressive path tracing renderer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 960,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 540,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "max-bounce",
			Value: 4,
			Usage: "highest bounce index traced per sample",
		},
		cli.StringSliceFlag{
			Name:  "blacklist, b",
			Value: &cli.StringSlice{},
			Usage: "blacklist devices whose names contain this value",
		},
		cli.StringFlag{
			Name:  "force-primary",
			Usage: "force a device whose name contains this value to be the primary tracer",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "list-devices",
			Usage:  "list available compute devices",
			Action: cmd.ListDevices,
		},
		{
			Name:   "render",
			Usage:  "render the scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Accumulate a fixed number of frames and write the result to a png file.`,
					Flags: append(frameFlags,
						cli.IntFlag{
							Name:  "samples",
							Value: 64,
							Usage: "number of frames to accumulate",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:        "interactive",
					Usage:       "render interactive view of the scene",
					Description: `Open an opengl window that progressively refines the image. WASDQE and the arrow keys move the camera, dragging with the left mouse button rotates it and the scroll wheel dollies; any input restarts the accumulation.`,
					Flags:       frameFlags,
					Action:      cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}
