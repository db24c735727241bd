// Package repl implements an interactive Read-Eval-Print Loop for the
// complexity analyzer.
//
// Unlike a language REPL that evaluates one expression at a time, this
// one accepts a whole function definition (the unit spec.md's reporter
// operates on) typed across one or more lines, and reports its inferred
// complexity as soon as a blank line signals the definition is
// complete. It uses the Charm libraries (Bubbletea, Bubbles, and
// Lipgloss) for the terminal UI, the same stack and the same
// model/history/spinner shape the teacher's Monkey REPL uses, restyled
// around this tool's diagnostics instead of Monkey runtime errors.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mortal/complexity/diag"
	"github.com/Mortal/complexity/interp"
	"github.com/Mortal/complexity/lexer"
	"github.com/Mortal/complexity/parser"
	"github.com/Mortal/complexity/report"
)

// Prompt is shown while no function definition is buffered yet.
const Prompt = ">> "

// ContPrompt is the continuation prompt shown once a `def` line has been
// entered but the block has not yet been closed by a blank line.
const ContPrompt = ".. "

// Options configures the REPL.
type Options struct {
	// NoColor disables lipgloss styling of the output.
	NoColor bool
	// Annotate additionally prints the per-line derivation trace for
	// each analyzed function, the same detail `-a` adds to file mode.
	Annotate bool
}

// Start runs the REPL until the user quits (Esc, Ctrl+C, or Ctrl+D).
func Start(options Options) {
	p := tea.NewProgram(initialModel(options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

// diagStyle picks an error color per diagnostic kind, mirroring the
// teacher's parseErrorStyle/runtimeErrorStyle split, generalized to
// this tool's six diagnostic kinds.
func diagStyle(k diag.Kind) lipgloss.Style {
	switch k {
	case diag.UnsupportedSyntax, diag.UnknownName:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	case diag.UnsupportedRecurrence, diag.UnsolvableTermination:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8700")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	}
}

type evalResultMsg struct {
	output  string
	isError bool
	kind    diag.Kind
	elapsed time.Duration
}

type historyEntry struct {
	input          string
	output         string
	isError        bool
	kind           diag.Kind
	evaluationTime time.Duration
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	buffer     string
	inBlock    bool
	evaluating bool
	current    string

	options Options
}

func (m model) style(s lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return s.Render(text)
}

func initialModel(options Options) model {
	ti := textinput.New()
	ti.Placeholder = "def f(n): ..."
	ti.Focus()
	ti.Width = 80
	ti.Prompt = Prompt

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{textInput: ti, spinner: s, options: options}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// analyzeCmd runs one function definition through the same
// lexer/parser/interp pipeline the CLI uses, asynchronously so the
// spinner can animate while it runs.
func analyzeCmd(source string, annotate bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		l := lexer.New(source)
		p := parser.New(l)
		mod := p.ParseModule()

		if errs := p.Errors(); len(errs) > 0 {
			var b strings.Builder
			for _, e := range errs {
				d := &diag.Diagnostic{Kind: diag.UnsupportedSyntax, Msg: e.Msg, Line: e.Line, Col: e.Col}
				b.WriteString(d.Render(source))
				b.WriteByte('\n')
			}
			return evalResultMsg{output: strings.TrimRight(b.String(), "\n"), isError: true, kind: diag.UnsupportedSyntax, elapsed: time.Since(start)}
		}
		if len(mod.Functions) == 0 {
			return evalResultMsg{output: "no function definition found", isError: true, kind: diag.UnsupportedSyntax, elapsed: time.Since(start)}
		}

		var results []*interp.FunctionResult
		var b strings.Builder
		for _, fn := range mod.Functions {
			in := interp.New()
			res, err := in.AnalyzeFunction(fn)
			if err != nil {
				if d, ok := err.(*diag.Diagnostic); ok {
					return evalResultMsg{output: d.Render(source), isError: true, kind: d.Kind, elapsed: time.Since(start)}
				}
				return evalResultMsg{output: err.Error(), isError: true, kind: diag.UnsupportedSyntax, elapsed: time.Since(start)}
			}
			results = append(results, res)
			if annotate {
				for _, line := range sortedKeys(res.Annotations) {
					for _, msg := range res.Annotations[line] {
						b.WriteString(fmt.Sprintf("  %d: %s\n", line+1, msg))
					}
				}
			}
		}
		b.WriteString(report.Format(results))

		return evalResultMsg{output: strings.TrimRight(b.String(), "\n"), elapsed: time.Since(start)}
	}
}

func sortedKeys(m map[int][]string) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.current,
			output:         msg.output,
			isError:        msg.isError,
			kind:           msg.kind,
			evaluationTime: msg.elapsed,
		})
		m.current = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.textInput.Value()
			m.textInput.SetValue("")

			if line == "" {
				if !m.inBlock || m.buffer == "" {
					m.inBlock = false
					return m, nil
				}
				m.evaluating = true
				m.current = m.buffer
				m.inBlock = false
				buf := m.buffer
				m.buffer = ""
				return m, analyzeCmd(buf, m.options.Annotate)
			}

			if m.inBlock {
				m.buffer += "\n" + line
				return m, nil
			}
			m.buffer = line
			m.inBlock = true
			return m, nil
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.style(titleStyle, " complexity REPL "))
	s.WriteString("\n\nType one function definition, then an empty line to analyze it.\n\n")

	for _, entry := range m.history {
		for i, line := range strings.Split(entry.input, "\n") {
			if i == 0 {
				s.WriteString(m.style(promptStyle, Prompt))
			} else {
				s.WriteString(m.style(promptStyle, ContPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}
		if entry.isError {
			s.WriteString(m.style(diagStyle(entry.kind), entry.output))
		} else {
			s.WriteString(m.style(resultStyle, entry.output))
		}
		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(m.style(historyStyle, fmt.Sprintf(" (%.3fs)", entry.evaluationTime.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.style(promptStyle, Prompt))
		s.WriteString(m.current)
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" analyzing...\n\n")
	}

	if !m.evaluating {
		if m.inBlock {
			m.textInput.Prompt = m.style(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.style(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(m.style(historyStyle, "\nEsc/Ctrl+C/Ctrl+D to exit"))
	return s.String()
}
