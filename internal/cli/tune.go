package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/neuroscene/pkg/assemble"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
	"github.com/matzehuels/neuroscene/pkg/scene"
	"github.com/matzehuels/neuroscene/pkg/session"
)

// =============================================================================
// Tune Command
// =============================================================================

// tuneCommand creates the interactive parameter editor.
func (c *CLI) tuneCommand() *cobra.Command {
	var (
		flags       sceneFlags
		output      string
		sessionName string
		forget      string
	)

	cmd := &cobra.Command{
		Use:   "tune [topology]",
		Short: "Edit parameters interactively and watch the scene change",
		Long: `Edit parameters interactively and watch the scene change.

Every edit regenerates the whole scene. Without --seed each edit draws a new
seed, so weights and point positions change too; with --seed only the
parameters do. Press enter to keep the result (written to --output when
given) or q to discard it.

With --session the accepted state is saved under that name and the next
'tune --session' with the same name resumes from it. Flags and a topology
argument still override the saved values. --forget NAME deletes a saved
session. Sessions untouched for 30 days are removed automatically.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: topologyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if forget != "" {
				return c.forgetSession(cmd.Context(), forget)
			}
			t, err := topologyArg(args)
			if err != nil {
				return err
			}
			opts, err := c.sceneOptions(cmd, &flags, t)
			if err != nil {
				return err
			}

			var store session.Store
			if sessionName != "" {
				if store, err = c.sessionStore(cmd.Context()); err != nil {
					return err
				}
				saved, err := store.Get(cmd.Context(), sessionName)
				if err != nil {
					return err
				}
				if saved != nil {
					c.Logger.Info("resuming session", "name", sessionName, "topology", saved.Topology)
					if len(args) == 0 {
						opts.Topology = saved.Topology
					}
					if opts.Params, err = flags.merge(cmd, saved.Params); err != nil {
						return err
					}
					if !cmd.Flags().Changed("seed") {
						opts.Seed = saved.Seed
					}
				}
			}
			return c.runTune(cmd.Context(), opts, output, store, sessionName)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the accepted scene to this file")
	cmd.Flags().StringVar(&sessionName, "session", "", "resume and save the named session")
	cmd.Flags().StringVar(&forget, "forget", "", "delete the named session and exit")
	cmd.MarkFlagsMutuallyExclusive("session", "forget")
	return cmd
}

// sessionStore opens the session directory and prunes expired sessions.
func (c *CLI) sessionStore(ctx context.Context) (*session.FileStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}
	store, err := session.NewFileStore(filepath.Join(dir, "sessions"))
	if err != nil {
		return nil, err
	}
	if err := store.Cleanup(ctx); err != nil {
		c.Logger.Debug("session cleanup failed", "err", err)
	}
	return store, nil
}

func (c *CLI) forgetSession(ctx context.Context, name string) error {
	store, err := c.sessionStore(ctx)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	printSuccess("Forgot session %s", name)
	return nil
}

func (c *CLI) runTune(ctx context.Context, opts pipeline.Options, output string, store session.Store, name string) error {
	m := newTuneModel(opts.Topology, opts.Params, opts.Seed)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("tune: %w", err)
	}

	tm := final.(tuneModel)
	if !tm.accepted {
		printInfo("Discarded")
		return nil
	}
	if tm.err != nil {
		return tm.err
	}

	s := tm.scene
	printSuccess("Tuned %s", StyleTitle.Render(assemble.Title(s.Topology, s.Params)))
	printStats(len(s.Groups), len(s.Nodes), len(s.Edges), false)
	if output != "" {
		if err := scene.WriteFile(s, output); err != nil {
			return err
		}
		printFile(output)
	}
	if store != nil {
		if err := saveSession(ctx, store, name, tm); err != nil {
			return err
		}
		printDetail("Saved session %s", name)
	}
	printNextStep("Reproduce it", tm.command())
	return nil
}

// saveSession stores the model's state. The seed is saved only when it was
// pinned, so an unpinned session stays unpinned on resume.
func saveSession(ctx context.Context, store session.Store, name string, m tuneModel) error {
	sess, err := store.Get(ctx, name)
	if err != nil {
		return err
	}
	if sess == nil {
		if sess, err = session.New(name, m.topology, m.params, m.seed, session.DefaultTTL); err != nil {
			return err
		}
	}
	sess.Topology, sess.Params, sess.Seed = m.topology, m.params, m.seed
	sess.Touch(session.DefaultTTL)
	return store.Set(ctx, sess)
}

// =============================================================================
// tuneModel - one slider row per parameter plus a topology selector
// =============================================================================

type tuneField int

const (
	fieldTopology tuneField = iota
	fieldLearningRate
	fieldLayers
	fieldNeurons
	fieldActivation
	fieldEpochs
	fieldCount
)

var fieldLabels = [fieldCount]string{"Topology", "Learning rate", "Layers", "Neurons", "Activation", "Epochs"}

const sliderWidth = 24

var (
	tuneCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuneLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(15)
	tuneFillStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	tuneErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// tuneModel is the bubbletea model behind the tune command. Each edit
// rebuilds the scene synchronously and swaps it in whole.
type tuneModel struct {
	topology scene.Topology
	params   params.Params
	seed     uint64 // 0 draws a fresh seed per edit
	cursor   tuneField

	scene scene.Scene
	err   error

	accepted bool
}

func newTuneModel(t scene.Topology, p params.Params, seed uint64) tuneModel {
	m := tuneModel{topology: t, params: p.Clamp(), seed: seed}
	m.regenerate()
	return m
}

func (m *tuneModel) regenerate() {
	seed := m.seed
	if seed == 0 {
		seed = pipeline.FreshSeed()
	}
	s, err := pipeline.Build(m.topology, m.params, seed)
	if err != nil {
		m.err = err
		return
	}
	m.scene, m.err = s, nil
}

func (m tuneModel) Init() tea.Cmd {
	return nil
}

func (m tuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.err == nil {
			m.scene.ID = uuid.NewString()
		}
		m.accepted = true
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor + fieldCount - 1) % fieldCount
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % fieldCount
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(+1)
	case "r":
		m.params = params.Default()
		m.regenerate()
	case "n":
		if m.seed != 0 {
			m.seed = pipeline.FreshSeed()
		}
		m.regenerate()
	}
	return m, nil
}

// adjust moves the selected field one step and regenerates when it changed.
func (m *tuneModel) adjust(delta int) {
	before, topo := m.params, m.topology
	p := m.params

	switch m.cursor {
	case fieldTopology:
		m.topology = cycle(scene.Topologies, m.topology, delta)
	case fieldLearningRate:
		steps := math.Round(p.LearningRate/params.LearningRateStep) + float64(delta)
		p.LearningRate = steps * params.LearningRateStep
	case fieldLayers:
		p.LayerCount += delta
	case fieldNeurons:
		p.Neurons += delta
	case fieldActivation:
		p.Activation = cycle(params.Activations, p.Activation, delta)
	case fieldEpochs:
		p.Epochs += delta * params.EpochsStep
	}

	m.params = p.Clamp()
	if m.params != before || m.topology != topo {
		m.regenerate()
	}
}

func cycle[T comparable](values []T, cur T, delta int) T {
	i := slices.Index(values, cur)
	n := len(values)
	return values[((i+delta)%n+n)%n]
}

func (m tuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(assemble.Title(m.topology, m.params)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  ←/→ adjust  r reset  n reseed  ⏎ keep  q quit"))
	b.WriteString("\n\n")

	for f := fieldTopology; f < fieldCount; f++ {
		cursor := "  "
		if f == m.cursor {
			cursor = tuneCursorStyle.Render("▸ ")
		}
		b.WriteString(cursor + tuneLabelStyle.Render(fieldLabels[f]) + " " + m.fieldView(f) + "\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(tuneErrorStyle.Render(m.err.Error()))
		return b.String()
	}

	b.WriteString(m.groupTable())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d edges · %d labels · seed %d",
		len(m.scene.Edges), len(m.scene.Labels), m.scene.Seed)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  " + assemble.Readout(m.params)))
	b.WriteString("\n")
	return b.String()
}

func (m tuneModel) fieldView(f tuneField) string {
	p := m.params
	switch f {
	case fieldTopology:
		return choices(scene.Topologies, m.topology)
	case fieldLearningRate:
		return slider(p.LearningRate, params.MinLearningRate, params.MaxLearningRate) +
			StyleNumber.Render(fmt.Sprintf(" %.3f", p.LearningRate))
	case fieldLayers:
		return slider(float64(p.LayerCount), params.MinLayers, params.MaxLayers) +
			StyleNumber.Render(fmt.Sprintf(" %d", p.LayerCount))
	case fieldNeurons:
		return slider(float64(p.Neurons), params.MinNeurons, params.MaxNeurons) +
			StyleNumber.Render(fmt.Sprintf(" %d", p.Neurons))
	case fieldActivation:
		return choices(params.Activations, p.Activation)
	case fieldEpochs:
		return slider(float64(p.Epochs), params.MinEpochs, params.MaxEpochs) +
			StyleNumber.Render(fmt.Sprintf(" %d", p.Epochs))
	}
	return ""
}

// slider draws v's position in [lo, hi] as a filled bar.
func slider(v, lo, hi float64) string {
	filled := int(math.Round((v - lo) / (hi - lo) * sliderWidth))
	filled = min(max(filled, 0), sliderWidth)
	return tuneFillStyle.Render(strings.Repeat("━", filled)) +
		StyleDim.Render(strings.Repeat("─", sliderWidth-filled))
}

func choices[T ~string](values []T, cur T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v == cur {
			parts[i] = tuneCursorStyle.Render(string(v))
		} else {
			parts[i] = StyleDim.Render(string(v))
		}
	}
	return strings.Join(parts, "  ")
}

func (m tuneModel) groupTable() string {
	rows := make([][]string, 0, len(m.scene.Groups))
	for _, g := range m.scene.Groups {
		rows = append(rows, []string{fmt.Sprint(g.Index), g.Name, string(g.Role), fmt.Sprint(g.Size), fmt.Sprintf("%.2f", g.Spread)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Group", "Role", "Size", "Spread").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Render()
}

// command returns the CLI invocation that reproduces the current scene.
func (m tuneModel) command() string {
	p := m.params
	return fmt.Sprintf("%s generate %s --learning-rate %.3f --layers %d --neurons %d --activation %s --epochs %d --seed %d",
		appName, m.topology, p.LearningRate, p.LayerCount, p.Neurons, p.Activation, p.Epochs, m.scene.Seed)
}
