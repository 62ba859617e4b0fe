package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Panel emulates a character LCD by redrawing a bordered box on a writer
// after every change.
type Panel struct {
	Out  io.Writer
	Cols int
	Rows int

	lines []string
	style lipgloss.Style
	lock  sync.Mutex
}

// NewPanel creates a Panel with the reference geometry.
func NewPanel(out io.Writer) *Panel {
	return &Panel{Out: out, Cols: DefaultCols, Rows: DefaultRows}
}

// Init implements Display.
func (p *Panel) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.Out == nil {
		return ErrNoOutput
	}
	if p.Cols <= 0 || p.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrGeometry, p.Cols, p.Rows)
	}
	p.style = lipgloss.NewRenderer(p.Out).NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("34")).
		Foreground(lipgloss.Color("120")).
		Padding(0, 1)
	p.lines = make([]string, p.Rows)
	return p.render()
}

// Clear implements Display.
func (p *Panel) Clear() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.lines == nil {
		return ErrNotInitialized
	}
	for n := range p.lines {
		p.lines[n] = ""
	}
	return p.render()
}

// WriteLine implements Display.
func (p *Panel) WriteLine(row int, text string) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.lines == nil {
		return ErrNotInitialized
	}
	if row < 0 || row >= len(p.lines) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	p.lines[row] = Fit(text, p.Cols)
	return p.render()
}

// Width implements Display.
func (p *Panel) Width() int {
	return p.Cols
}

// Lines returns what the rows currently show.
func (p *Panel) Lines() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]string(nil), p.lines...)
}

func (p *Panel) render() error {
	rows := make([]string, len(p.lines))
	for n, line := range p.lines {
		rows[n] = line + strings.Repeat(" ", p.Cols-utf8.RuneCountInString(line))
	}
	_, err := fmt.Fprintln(p.Out, p.style.Render(strings.Join(rows, "\n")))
	return err
}
