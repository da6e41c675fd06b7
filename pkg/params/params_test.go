package params

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/neuroscene/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"default", func(p *Params) {}, false},
		{"lower bounds", func(p *Params) {
			p.LearningRate, p.LayerCount, p.Neurons, p.Epochs = MinLearningRate, MinLayers, MinNeurons, MinEpochs
		}, false},
		{"upper bounds", func(p *Params) {
			p.LearningRate, p.LayerCount, p.Neurons, p.Epochs = MaxLearningRate, MaxLayers, MaxNeurons, MaxEpochs
		}, false},
		{"learning rate too small", func(p *Params) { p.LearningRate = 0.0001 }, true},
		{"learning rate NaN", func(p *Params) { p.LearningRate = math.NaN() }, true},
		{"one layer", func(p *Params) { p.LayerCount = 1 }, true},
		{"too many layers", func(p *Params) { p.LayerCount = 11 }, true},
		{"too few neurons", func(p *Params) { p.Neurons = 2 }, true},
		{"unknown activation", func(p *Params) { p.Activation = "gelu" }, true},
		{"too many epochs", func(p *Params) { p.Epochs = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidParameter) {
				t.Errorf("Validate() code = %v, want INVALID_PARAMETER", errors.GetCode(err))
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name        string
		in          Params
		want        Params
		wantChanged []string
	}{
		{
			name: "in range untouched",
			in:   Default(),
			want: Default(),
		},
		{
			name:        "everything too low",
			in:          Params{LearningRate: 0, LayerCount: 0, Neurons: -4, Activation: "relu", Epochs: 0},
			want:        Params{LearningRate: MinLearningRate, LayerCount: MinLayers, Neurons: MinNeurons, Activation: "relu", Epochs: MinEpochs},
			wantChanged: []string{"learning_rate", "layers", "neurons", "epochs"},
		},
		{
			name:        "everything too high",
			in:          Params{LearningRate: 5, LayerCount: 50, Neurons: 99, Activation: "tanh", Epochs: 1000},
			want:        Params{LearningRate: MaxLearningRate, LayerCount: MaxLayers, Neurons: MaxNeurons, Activation: "tanh", Epochs: MaxEpochs},
			wantChanged: []string{"learning_rate", "layers", "neurons", "epochs"},
		},
		{
			name:        "unknown activation",
			in:          Params{LearningRate: 0.05, LayerCount: 4, Neurons: 6, Activation: "gelu", Epochs: 20},
			want:        Params{LearningRate: 0.05, LayerCount: 4, Neurons: 6, Activation: "relu", Epochs: 20},
			wantChanged: []string{"activation"},
		},
		{
			name:        "uppercase activation folded",
			in:          Params{LearningRate: 0.05, LayerCount: 4, Neurons: 6, Activation: "SIGMOID", Epochs: 20},
			want:        Params{LearningRate: 0.05, LayerCount: 4, Neurons: 6, Activation: "sigmoid", Epochs: 20},
			wantChanged: []string{"activation"},
		},
		{
			name:        "NaN learning rate",
			in:          Params{LearningRate: math.NaN(), LayerCount: 3, Neurons: 5, Activation: "relu", Epochs: 10},
			want:        Default(),
			wantChanged: []string{"learning_rate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.in.Clamped()
			if got != tt.want {
				t.Errorf("Clamped() = %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(changed, tt.wantChanged) {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("clamped params should validate: %v", err)
			}
			if tt.in.Clamp() != got {
				t.Error("Clamp() and Clamped() disagree")
			}
		})
	}
}

func TestClampIdempotent(t *testing.T) {
	p := Params{LearningRate: 9, LayerCount: -1, Neurons: 100, Activation: "x", Epochs: 3}
	once := p.Clamp()
	if twice := once.Clamp(); twice != once {
		t.Errorf("Clamp not idempotent: %+v != %+v", twice, once)
	}
}

func TestParseActivation(t *testing.T) {
	tests := []struct {
		in      string
		want    Activation
		wantErr bool
	}{
		{"relu", ActivationReLU, false},
		{"ReLU", ActivationReLU, false},
		{" tanh ", ActivationTanh, false},
		{"Softmax", ActivationSoftmax, false},
		{"sigmoid", ActivationSigmoid, false},
		{"swish", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseActivation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseActivation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseActivation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeightScale(t *testing.T) {
	p := Default()
	if got := p.WeightScale(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("WeightScale() = %v, want 1", got)
	}
	p.LearningRate = MaxLearningRate
	if got := p.WeightScale(); math.Abs(got-10.0) > 1e-12 {
		t.Errorf("WeightScale() = %v, want 10", got)
	}
}

func TestString(t *testing.T) {
	want := "lr=0.010 layers=3 neurons=5 activation=relu epochs=10"
	if got := Default().String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
