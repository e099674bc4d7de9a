package progress

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
)

// Enabled reports whether f is an interactive terminal the display can
// draw on.
func Enabled(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Display runs the progress Model in its own goroutine and feeds it
// orchestrator events.
type Display struct {
	prog *tea.Program
	done chan struct{}
	err  error
}

// Start launches the display on out.
func Start(out io.Writer, visited func() int64, cancel func()) *Display {
	d := &Display{done: make(chan struct{})}
	d.prog = tea.NewProgram(NewModel(visited, cancel, 0), tea.WithOutput(out))
	go func() {
		defer close(d.done)
		_, d.err = d.prog.Run()
	}()
	return d
}

// Observe forwards an event to the display. It has the orchestrator.Observer
// signature.
func (d *Display) Observe(ev orchestrator.Event) {
	d.prog.Send(eventMsg(ev))
}

// Stop draws the final frame and waits for the display to exit.
func (d *Display) Stop() error {
	d.prog.Send(finishMsg{})
	<-d.done
	return d.err
}
