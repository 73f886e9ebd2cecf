package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// Console reads line-oriented answers and writes styled output.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	eof bool

	// set by Bind; reads then stop when ctx is done
	ctx   context.Context
	lines chan readResult
}

type readResult struct {
	text string
	err  error
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Closed reports whether input has been exhausted.
func (c *Console) Closed() bool { return c.eof }

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Bind makes reads give up when ctx is done, which Closed then reports as
// end of input. A blocked read of the underlying reader is left behind.
func (c *Console) Bind(ctx context.Context) {
	c.ctx = ctx
}

// ReadLine returns the next input line without its line ending.
func (c *Console) ReadLine() string {
	if c.eof {
		return ""
	}
	if c.ctx == nil {
		return c.accept(c.in.ReadString('\n'))
	}

	if c.lines == nil {
		c.lines = make(chan readResult)
		go c.pump()
	}
	select {
	case r := <-c.lines:
		return c.accept(r.text, r.err)
	case <-c.ctx.Done():
		c.eof = true
		return ""
	}
}

func (c *Console) accept(line string, err error) string {
	if err != nil {
		c.eof = true
	}
	return strings.TrimRight(line, "\r\n")
}

func (c *Console) pump() {
	for {
		line, err := c.in.ReadString('\n')
		select {
		case c.lines <- readResult{line, err}:
		case <-c.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// Prompt prints label and reads the answer.
func (c *Console) Prompt(label string) string {
	fmt.Fprint(c.out, label)
	return c.ReadLine()
}

// Choice reads a number in [0, max]. Anything else yields -1.
func (c *Console) Choice(max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.ReadLine()))
	if err != nil || n < 0 || n > max {
		return -1
	}
	return n
}

// Pause waits for Enter.
func (c *Console) Pause() {
	fmt.Fprintln(c.out, HelpStyle.Render("\nPress Enter to continue..."))
	c.ReadLine()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
