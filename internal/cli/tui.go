package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphorder/pkg/bisect"
	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/observability"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// =============================================================================
// Messages
// =============================================================================

type splitMsg struct{}

type leafMsg struct{ size int }

type reorderDoneMsg struct{ err error }

type tickMsg time.Time

// teaHooks forwards bisection events into the bubbletea program.
type teaHooks struct {
	observability.NoopBisectionHooks
	prog *tea.Program
}

func (h *teaHooks) OnSplit(_ context.Context, depth, size int) {
	h.prog.Send(splitMsg{})
}

func (h *teaHooks) OnLeaf(_ context.Context, depth, size int) {
	h.prog.Send(leafMsg{size: size})
}

// =============================================================================
// Model
// =============================================================================

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 40

// reorderModel is the bubbletea model for live reordering progress. Nodes
// become "assigned" when their leaf is committed, so the bar tracks how
// much of the permutation is fixed.
type reorderModel struct {
	total    int
	assigned int
	splits   int
	leaves   int
	frame    int
	start    time.Time
	frames   []string
	cancel   context.CancelFunc
	done     bool
	err      error
}

func newReorderModel(total int, cancel context.CancelFunc) reorderModel {
	return reorderModel{
		total:  total,
		start:  time.Now(),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		cancel: cancel,
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m reorderModel) Init() tea.Cmd {
	return tick()
}

func (m reorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case splitMsg:
		m.splits++
	case leafMsg:
		m.leaves++
		m.assigned += msg.size
	case reorderDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m reorderModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Reordering"))
	b.WriteString("\n\n")

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.assigned) / float64(m.total)
	}
	filled := int(ratio * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	spinner := m.frames[m.frame%len(m.frames)]
	b.WriteString("  " + styleIconSpinner.Render(spinner) + " ")
	b.WriteString(barFilledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %3.0f%%", ratio*100))
	b.WriteString("\n\n")

	b.WriteString("  " + StyleDim.Render(fmt.Sprintf(
		"%d/%d nodes placed · %d splits · %d leaves · %s",
		m.assigned, m.total, m.splits, m.leaves,
		time.Since(m.start).Round(time.Second))))
	b.WriteString("\n")
	b.WriteString("  " + StyleDim.Render("q to abort"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Runner
// =============================================================================

type reorderResult struct {
	perm perm.Permutation
	err  error
}

// reorderWithTUI runs the reordering while showing a live progress view.
// Quitting the view cancels the computation.
func reorderWithTUI(ctx context.Context, g *graph.Graph, opts bisect.Options) (perm.Permutation, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(
		newReorderModel(g.NumNodes(), cancel),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)

	observability.SetBisectionHooks(&teaHooks{prog: prog})
	defer observability.Reset()

	results := make(chan reorderResult, 1)
	go func() {
		p, err := bisect.Reorder(ctx, g, opts)
		results <- reorderResult{perm: p, err: err}
		prog.Send(reorderDoneMsg{err: err})
	}()

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		// The UI failing should not kill the computation; fall through
		// and wait for the result.
		loggerFromContext(ctx).Debugf("progress view stopped: %v", err)
	}

	select {
	case res := <-results:
		return res.perm, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
