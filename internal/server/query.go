package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Bounds on requested frame sizes, in pixels.
const (
	minFrame = 64
	maxFrame = 4096
)

func topology(r *http.Request) (scene.Topology, error) {
	return scene.ParseTopology(chi.URLParam(r, "topology"))
}

// sceneOptions reads generation options from the path and query. Numbers that
// do not parse and unknown activation names are rejected; numbers that parse
// are clamped later by the pipeline. Omitted fields keep the server defaults.
func (s *Server) sceneOptions(r *http.Request) (pipeline.Options, error) {
	t, err := topology(r)
	if err != nil {
		return pipeline.Options{}, err
	}

	p := s.defaults
	if p.LearningRate, err = floatQuery(r, "learning_rate", p.LearningRate); err != nil {
		return pipeline.Options{}, err
	}
	if p.LayerCount, err = intQuery(r, "layers", p.LayerCount); err != nil {
		return pipeline.Options{}, err
	}
	if p.Neurons, err = intQuery(r, "neurons", p.Neurons); err != nil {
		return pipeline.Options{}, err
	}
	if p.Epochs, err = intQuery(r, "epochs", p.Epochs); err != nil {
		return pipeline.Options{}, err
	}
	if a := r.URL.Query().Get("activation"); a != "" {
		if p.Activation, err = params.ParseActivation(a); err != nil {
			return pipeline.Options{}, err
		}
	}

	opts := pipeline.Options{Topology: t, Params: p, Logger: s.logger}
	if raw := r.URL.Query().Get("seed"); raw != "" {
		if opts.Seed, err = errors.ParseUint64("seed", raw); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func (s *Server) renderOptions(r *http.Request, opts *pipeline.Options) error {
	var err error
	if opts.Time, err = floatQuery(r, "t", 0); err != nil {
		return err
	}
	if opts.Width, err = floatQuery(r, "width", pipeline.DefaultWidth); err != nil {
		return err
	}
	if opts.Height, err = floatQuery(r, "height", pipeline.DefaultHeight); err != nil {
		return err
	}
	opts.Time = max(opts.Time, 0)
	opts.Width = min(max(opts.Width, minFrame), maxFrame)
	opts.Height = min(max(opts.Height, minFrame), maxFrame)
	return nil
}

func floatQuery(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return errors.ParseFloat(key, raw)
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return errors.ParseInt(key, raw)
}
