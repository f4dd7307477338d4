package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/ericlu327/photonforge-raytracing/renderer"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
	"github.com/ericlu327/photonforge-raytracing/tracer/compute"
)

func rendererOptions(ctx *cli.Context) renderer.Options {
	return renderer.Options{
		FrameW:    uint32(ctx.Int("width")),
		FrameH:    uint32(ctx.Int("height")),
		MaxBounce: uint32(ctx.Int("max-bounce")),
		Samples:   uint32(ctx.Int("samples")),
		//
		BlackListedDevices: ctx.StringSlice("blacklist"),
		ForcePrimaryDevice: ctx.String("force-primary"),
	}
}

// Render a still frame and write it out as a png image.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := rendererOptions(ctx)
	r, err := renderer.NewDefault(scene.Default(), tracer.PerfectScheduler(), compute.DefaultPipeline(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame with %d samples", opts.FrameW, opts.FrameH, opts.Samples)
	start := time.Now()
	if err = r.Render(); err != nil {
		return err
	}
	logger.Noticef("rendered frame in %d ms", time.Since(start).Nanoseconds()/1e6)

	// Display stats
	displayFrameStats(r.Stats())

	frame := r.(interface{ Frame() *image.RGBA }).Frame()
	return writePNG(ctx.String("out"), frame)
}

// Render a continuously accumulating view of the scene in an opengl
// window.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := rendererOptions(ctx)
	r, err := renderer.NewInteractive(scene.Default(), tracer.PerfectScheduler(), compute.DefaultPipeline(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}

func writePNG(imgFile string, frame *image.RGBA) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Primary", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
