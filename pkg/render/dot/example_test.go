package dot_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/neuroscene/pkg/render/dot"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

func ExampleToDOT() {
	s := &scene.Scene{
		Topology: scene.TopologyNetwork,
		Groups: []scene.Group{
			{Index: 0, Role: scene.RoleInput, Name: "Input", Size: 1},
			{Index: 1, Role: scene.RoleOutput, Name: "Output", Size: 1},
		},
		Nodes: []scene.Node{
			{ID: "g0n0", Group: 0, Role: scene.RoleInput, SizeHint: 0.3, Color: scene.ColorInput},
			{ID: "g1n0", Group: 1, Role: scene.RoleOutput, SizeHint: 0.3, Color: scene.ColorOutput},
		},
		Edges: []scene.Edge{{From: "g0n0", To: "g1n0", Weight: 0.5, Color: scene.ColorPositive, Opacity: 0.3}},
	}

	src, err := dot.ToDOT(s)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, line := range strings.Split(src, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "g0n0" -> "g1n0" [color="#60a5fa4d", penwidth=1.10, tooltip="0.5000"];
}
