// Package params defines the visualization parameter record shared by every
// scene generator.
//
// A [Params] value arrives from an external control surface (CLI flags, a
// config file, an HTTP query, the interactive tuner). Each field has a closed
// range. The generators assume their input is already inside those ranges, so
// every boundary calls [Params.Clamp] before handing the record on. Nothing in
// the engine returns an error for an out-of-range value.
//
// Learning rate and epochs are decorative: they scale edge weights and appear
// in text readouts, but no training takes place.
package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/neuroscene/pkg/errors"
)

// Activation names the activation function shown in the network title.
type Activation string

// Supported activation kinds.
const (
	ActivationReLU    Activation = "relu"
	ActivationSigmoid Activation = "sigmoid"
	ActivationTanh    Activation = "tanh"
	ActivationSoftmax Activation = "softmax"
)

// Activations lists the supported activation kinds in selector order.
var Activations = []Activation{ActivationReLU, ActivationSigmoid, ActivationTanh, ActivationSoftmax}

// Field ranges (closed intervals).
const (
	MinLearningRate = 0.001
	MaxLearningRate = 0.1

	MinLayers = 2
	MaxLayers = 10

	MinNeurons = 3
	MaxNeurons = 12

	MinEpochs = 5
	MaxEpochs = 100
)

// Slider steps used by interactive control surfaces.
const (
	LearningRateStep = 0.001
	EpochsStep       = 5
)

// Params is the validated parameter schema consumed by all topologies.
type Params struct {
	LearningRate float64    `json:"learning_rate" toml:"learning_rate"`
	LayerCount   int        `json:"layers" toml:"layers"`
	Neurons      int        `json:"neurons" toml:"neurons"`
	Activation   Activation `json:"activation" toml:"activation"`
	Epochs       int        `json:"epochs" toml:"epochs"`
}

// Default returns the parameters a fresh session starts with.
func Default() Params {
	return Params{
		LearningRate: 0.01,
		LayerCount:   3,
		Neurons:      5,
		Activation:   ActivationReLU,
		Epochs:       10,
	}
}

// ParseActivation resolves an activation name case-insensitively.
func ParseActivation(s string) (Activation, error) {
	a := Activation(strings.ToLower(strings.TrimSpace(s)))
	if a.Valid() {
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParameter,
		"invalid activation: %q (must be one of: relu, sigmoid, tanh, softmax)", s)
}

// Valid reports whether a is a supported activation kind.
func (a Activation) Valid() bool {
	switch a {
	case ActivationReLU, ActivationSigmoid, ActivationTanh, ActivationSoftmax:
		return true
	}
	return false
}

// Validate reports the first field outside its declared range.
func (p Params) Validate() error {
	if math.IsNaN(p.LearningRate) || p.LearningRate < MinLearningRate || p.LearningRate > MaxLearningRate {
		return errors.New(errors.ErrCodeInvalidParameter,
			"learning_rate %v out of range [%v, %v]", p.LearningRate, MinLearningRate, MaxLearningRate)
	}
	if p.LayerCount < MinLayers || p.LayerCount > MaxLayers {
		return errors.New(errors.ErrCodeInvalidParameter,
			"layers %d out of range [%d, %d]", p.LayerCount, MinLayers, MaxLayers)
	}
	if p.Neurons < MinNeurons || p.Neurons > MaxNeurons {
		return errors.New(errors.ErrCodeInvalidParameter,
			"neurons %d out of range [%d, %d]", p.Neurons, MinNeurons, MaxNeurons)
	}
	if !p.Activation.Valid() {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid activation: %q", p.Activation)
	}
	if p.Epochs < MinEpochs || p.Epochs > MaxEpochs {
		return errors.New(errors.ErrCodeInvalidParameter,
			"epochs %d out of range [%d, %d]", p.Epochs, MinEpochs, MaxEpochs)
	}
	return nil
}

// Clamp returns p with every field forced into its range.
// An unknown activation falls back to relu and a NaN learning rate to the default.
func (p Params) Clamp() Params {
	c, _ := p.Clamped()
	return c
}

// Clamped is Clamp that also reports which fields were changed, so callers at
// the input boundary can tell the user.
func (p Params) Clamped() (Params, []string) {
	var changed []string
	def := Default()

	lr := p.LearningRate
	if math.IsNaN(lr) {
		lr = def.LearningRate
	}
	lr = min(max(lr, MinLearningRate), MaxLearningRate)
	if lr != p.LearningRate {
		changed = append(changed, "learning_rate")
	}

	layers := min(max(p.LayerCount, MinLayers), MaxLayers)
	if layers != p.LayerCount {
		changed = append(changed, "layers")
	}

	neurons := min(max(p.Neurons, MinNeurons), MaxNeurons)
	if neurons != p.Neurons {
		changed = append(changed, "neurons")
	}

	act := Activation(strings.ToLower(string(p.Activation)))
	if !act.Valid() {
		act = def.Activation
	}
	if act != p.Activation {
		changed = append(changed, "activation")
	}

	epochs := min(max(p.Epochs, MinEpochs), MaxEpochs)
	if epochs != p.Epochs {
		changed = append(changed, "epochs")
	}

	return Params{
		LearningRate: lr,
		LayerCount:   layers,
		Neurons:      neurons,
		Activation:   act,
		Epochs:       epochs,
	}, changed
}

// WeightScale is the decorative factor applied to edge weights: learningRate*100.
// It exaggerates weight magnitudes so the learning-rate slider has a visible
// effect and bears no relation to real gradient magnitudes.
func (p Params) WeightScale() float64 {
	return p.LearningRate * 100
}

// String renders the record in the compact form used in logs.
func (p Params) String() string {
	return fmt.Sprintf("lr=%.3f layers=%d neurons=%d activation=%s epochs=%d",
		p.LearningRate, p.LayerCount, p.Neurons, p.Activation, p.Epochs)
}
