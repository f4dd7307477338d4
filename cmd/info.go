package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/ericlu327/photonforge-raytracing/tracer/compute"
)

// List the compute devices available for rendering.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Device", "Workers", "Speed estimate"})
	for _, dev := range compute.Devices() {
		table.Append([]string{
			dev.Name,
			fmt.Sprintf("%d", dev.Workers()),
			fmt.Sprintf("%d", dev.Speed()),
		})
	}

	table.Render()
	logger.Noticef("available compute devices\n%s", buf.String())
	return nil
}
