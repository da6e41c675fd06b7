package layout_test

import (
	"fmt"

	"github.com/matzehuels/neuroscene/pkg/layout"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

func ExampleFor() {
	eng, err := layout.For(scene.TopologyNetwork)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	l := eng.Layout(params.Default(), layout.NewRand(42))
	for _, g := range l.Groups {
		fmt.Printf("%-8s x=%5.1f nodes=%d\n", g.Name, g.Nodes[0].Position.X, len(g.Nodes))
	}
	// Output:
	// Input    x= -4.0 nodes=3
	// Hidden 1 x=  0.0 nodes=5
	// Output   x=  4.0 nodes=3
}

func ExampleConvExtent() {
	for i := range 4 {
		e := layout.ConvExtent(i, 4)
		fmt.Printf("%.1f x %.1f x %.1f\n", e.X, e.Y, e.Z)
	}
	// Output:
	// 3.0 x 3.0 x 0.2
	// 2.5 x 2.5 x 0.3
	// 2.3 x 2.3 x 0.4
	// 1.5 x 1.5 x 0.5
}
