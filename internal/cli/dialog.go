package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soypat/wardrobe/addin"
	"github.com/soypat/wardrobe/cad"
	"github.com/spf13/cobra"
)

var (
	dialogSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	dialogNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dialogLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(18)
	dialogBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// dialogModel is the bubbletea model of the wardrobe command dialog.
type dialogModel struct {
	ctx    context.Context
	cmd    *addin.Command
	inputs []addin.Input
	cursor int

	editing bool
	buf     string

	status addin.ValidateEvent
	err    error

	executed bool
}

func newDialogModel(ctx context.Context, cmd *addin.Command) dialogModel {
	return dialogModel{
		ctx:    ctx,
		cmd:    cmd,
		inputs: cmd.Inputs.All(),
		status: cmd.Validate(),
	}
}

func (m dialogModel) Init() tea.Cmd { return nil }

func (m dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.inputs)-1 {
			m.cursor++
		}
	case "left", "h", "-":
		m.step(-1)
	case "right", "l", "+":
		m.step(1)
	case "enter":
		if v, ok := m.inputs[m.cursor].(*addin.ValueInput); ok {
			m.editing = true
			m.buf = v.Expression()
			m.err = nil
		}
	case "ctrl+s", "x":
		if err := m.cmd.Execute(m.ctx); err != nil {
			m.err = err
			return m, nil
		}
		m.executed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m dialogModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		v := m.inputs[m.cursor].(*addin.ValueInput)
		if err := v.SetExpression(m.buf); err != nil {
			m.err = err
			return m, nil
		}
		m.editing = false
		m.err = nil
		m.status = m.cmd.Changed(v)
	case tea.KeyBackspace:
		if len(m.buf) > 0 {
			r := []rune(m.buf)
			m.buf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.buf += " "
	case tea.KeyRunes:
		m.buf += string(key.Runes)
	}
	return m, nil
}

// step moves spinners by n steps and cycles drop down selections.
func (m *dialogModel) step(n int) {
	in := m.inputs[m.cursor]
	switch in := in.(type) {
	case *addin.IntegerSpinner:
		in.Increment(n)
	case *addin.DropDown:
		if len(in.Items) == 0 {
			return
		}
		i := 0
		if name, ok := in.Selected(); ok {
			for j, it := range in.Items {
				if it == name {
					i = j
				}
			}
			i = (i + n + len(in.Items)) % len(in.Items)
		}
		in.SelectIndex(i)
	default:
		return
	}
	m.status = m.cmd.Changed(in)
}

func (m dialogModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.cmd.Definition.Name))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		cursor, style := "  ", dialogNormalStyle
		if i == m.cursor {
			cursor, style = "▸ ", dialogSelectedStyle
		}
		value := inputValue(in)
		if i == m.cursor && m.editing {
			value = m.buf + "█"
		}
		b.WriteString(cursor + dialogLabelStyle.Render(in.InputLabel()) + style.Render(value) + "\n")
	}
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(m.err.Error()))
	case !m.status.Valid:
		b.WriteString(StyleWarning.Render(m.status.Reason))
	default:
		b.WriteString(styleIconSuccess.Render(iconSuccess + " ready"))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ edit  ←/→ adjust  x build  q quit"))
	return dialogBoxStyle.Render(b.String())
}

func inputValue(in addin.Input) string {
	switch in := in.(type) {
	case *addin.ValueInput:
		return in.Expression()
	case *addin.IntegerSpinner:
		return fmt.Sprintf("‹ %d ›", in.Value)
	case *addin.DropDown:
		if name, ok := in.Selected(); ok {
			return "‹ " + name + " ›"
		}
		return "‹ none ›"
	}
	return ""
}

func (c *CLI) dialogCommand() *cobra.Command {
	var opts buildOpts
	cmd := &cobra.Command{
		Use:   "dialog",
		Short: "Edit wardrobe parameters interactively and build",
		Args:  cobra.NoArgs,
	}
	flags := addSpecFlags(cmd)
	cmd.Flags().StringVarP(&opts.stl, "output", "o", "", "STL output file")
	cmd.Flags().BoolVar(&opts.cutList, "cut-list", false, "print the panel cut list")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		spec, err := flags.spec(cmd, c.cfg.Defaults)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		mats, err := c.resolver()
		if err != nil {
			return err
		}
		host := addin.NewHost(addin.WorkspaceID)
		host.SetActiveDocument(cad.NewDocument("wardrobe"))
		// No logging while the dialog owns the terminal.
		a := addin.New(host, mats, nil)
		if err := a.Run(ctx); err != nil {
			return err
		}
		defer a.Stop()
		command, err := a.Start()
		if err != nil {
			return err
		}
		if err := addin.ApplySpec(command.Inputs, spec); err != nil {
			loggerFromContext(ctx).Warn("keeping dialog defaults", "err", err)
		}
		final, err := tea.NewProgram(newDialogModel(ctx, command), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		return finishDialog(cmd.OutOrStdout(), a, host, final.(dialogModel), opts)
	}
	return cmd
}

func finishDialog(w io.Writer, a *addin.AddIn, host *addin.Host, m dialogModel, opts buildOpts) error {
	if !m.executed {
		printInfo(w, "Dialog closed without building")
		return nil
	}
	report, ok := a.Command().LastReport()
	if !ok {
		return errors.New("dialog executed without a report")
	}
	printReport(w, report)
	if opts.stl != "" {
		sess, err := host.ActiveDocument().Session()
		if err != nil {
			return err
		}
		r, err := sess.Root.Renderer()
		if err != nil {
			return err
		}
		if err := writeSTL(opts.stl, r); err != nil {
			return err
		}
		printFile(w, opts.stl)
	}
	if opts.cutList {
		printCutList(w, report.Parts)
	}
	return nil
}
