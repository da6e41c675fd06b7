package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/neuroscene/pkg/animate"
	"github.com/matzehuels/neuroscene/pkg/assemble"
	"github.com/matzehuels/neuroscene/pkg/buildinfo"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

func (s *Server) handleHealth(*http.Request) ([]byte, string, error) {
	return jsonBody(struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

type topologyInfo struct {
	Name  scene.Topology `json:"name"`
	Title string         `json:"title"`
}

func (s *Server) handleTopologies(*http.Request) ([]byte, string, error) {
	out := make([]topologyInfo, 0, len(scene.Topologies))
	for _, t := range scene.Topologies {
		out = append(out, topologyInfo{Name: t, Title: assemble.Title(t, s.defaults)})
	}
	return jsonBody(out)
}

type paramRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (s *Server) handleDefaultParams(*http.Request) ([]byte, string, error) {
	return jsonBody(struct {
		Params      params.Params         `json:"params"`
		Ranges      map[string]paramRange `json:"ranges"`
		Activations []params.Activation   `json:"activations"`
	}{
		Params: s.defaults,
		Ranges: map[string]paramRange{
			"learning_rate": {params.MinLearningRate, params.MaxLearningRate, params.LearningRateStep},
			"layers":        {params.MinLayers, params.MaxLayers, 1},
			"neurons":       {params.MinNeurons, params.MaxNeurons, 1},
			"epochs":        {params.MinEpochs, params.MaxEpochs, params.EpochsStep},
		},
		Activations: params.Activations,
	})
}

func (s *Server) handleScene(r *http.Request) ([]byte, string, error) {
	opts, err := s.sceneOptions(r)
	if err != nil {
		return nil, "", err
	}
	sc, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		return nil, "", err
	}
	return jsonBody(sc)
}

type frameResponse struct {
	Topology scene.Topology     `json:"topology"`
	Time     float64            `json:"t"`
	Group    animate.Transform  `json:"group"`
	Pulse    float64            `json:"pulse,omitempty"`
	Boundary *animate.Transform `json:"boundary,omitempty"`
}

func (s *Server) handleFrame(r *http.Request) ([]byte, string, error) {
	t, err := topology(r)
	if err != nil {
		return nil, "", err
	}
	at, err := floatQuery(r, "t", 0)
	if err != nil {
		return nil, "", err
	}

	resp := frameResponse{Topology: t, Time: at, Group: animate.Group(t, at)}
	switch t {
	case scene.TopologyNetwork:
		resp.Pulse = animate.Pulse(at)
	case scene.TopologyScatter:
		b := animate.Boundary(at)
		resp.Boundary = &b
	}
	return jsonBody(resp)
}

func (s *Server) handleRender(r *http.Request) ([]byte, string, error) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		return nil, "", err
	}
	opts, err := s.sceneOptions(r)
	if err != nil {
		return nil, "", err
	}
	if err := s.renderOptions(r, &opts); err != nil {
		return nil, "", err
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		return nil, "", err
	}
	return res.Artifacts[format], pipeline.ContentTypes[format], nil
}
