package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/animate"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// frameInfo is the animation state of one topology at one instant.
type frameInfo struct {
	Topology scene.Topology     `json:"topology"`
	Time     float64            `json:"t"`
	Group    animate.Transform  `json:"group"`
	Pulse    float64            `json:"pulse,omitempty"`
	Boundary *animate.Transform `json:"boundary,omitempty"`
}

func newFrameInfo(t scene.Topology, at float64) frameInfo {
	f := frameInfo{Topology: t, Time: at, Group: animate.Group(t, at)}
	switch t {
	case scene.TopologyNetwork:
		f.Pulse = animate.Pulse(at)
	case scene.TopologyScatter:
		b := animate.Boundary(at)
		f.Boundary = &b
	}
	return f
}

// frameCommand creates the frame command, which prints animation transforms.
func (c *CLI) frameCommand() *cobra.Command {
	var (
		at     float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "frame [topology]",
		Short: "Print the animation transforms at a point in time",
		Long: `Print the animation transforms at a point in time.

The group transform sways the network and convolutional views and spins the
scatter view. The network also reports its activation pulse scale and the
scatter view the wobble of its decision boundary. All values are pure
functions of time.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: topologyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := topologyArg(args)
			if err != nil {
				return err
			}
			f := newFrameInfo(t, max(at, 0))
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			printFrame(f)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&at, "time", "t", 0, "time in seconds")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printFrame(f frameInfo) {
	fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%s at t=%.2fs", f.Topology, f.Time)))
	printKeyValue("rotation x", fmt.Sprintf("%.4f", f.Group.RotationX))
	printKeyValue("rotation y", fmt.Sprintf("%.4f", f.Group.RotationY))
	printKeyValue("scale", fmt.Sprintf("%.4f", f.Group.Scale))
	if f.Pulse != 0 {
		printKeyValue("pulse", fmt.Sprintf("%.4f", f.Pulse))
	}
	if f.Boundary != nil {
		printKeyValue("boundary z", fmt.Sprintf("%.4f", f.Boundary.RotationZ))
	}
}
