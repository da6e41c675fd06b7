package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/neuroscene/pkg/assemble"
	"github.com/matzehuels/neuroscene/pkg/connect"
	"github.com/matzehuels/neuroscene/pkg/layout"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Build lays out, connects and assembles one scene from already clamped
// parameters. Layout and connection share one generator seeded from seed, so
// the result is a pure function of its arguments.
func Build(t scene.Topology, p params.Params, seed uint64) (scene.Scene, error) {
	eng, err := layout.For(t)
	if err != nil {
		return scene.Scene{}, err
	}
	rng := layout.NewRand(seed)
	l := eng.Layout(p, rng)
	s := assemble.Assemble(l, connect.Connect(l.Groups, p.LearningRate, rng), p)
	s.Seed = seed
	return s, nil
}

// FreshSeed returns a random non-zero seed.
func FreshSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
