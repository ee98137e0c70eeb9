package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Console writes status lines and spinners. Results never go through it.
type Console struct {
	out     io.Writer
	spinner bool

	info    *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
}

type Options struct {
	Color   bool
	Spinner bool
}

func New(out io.Writer, opts Options) *Console {
	c := &Console{
		out:     out,
		spinner: opts.Spinner,
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	if !opts.Color {
		for _, col := range []*color.Color{c.info, c.success, c.warn, c.failure} {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Info(format string, args ...any) {
	c.info.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) Success(format string, args ...any) {
	c.success.Fprintf(c.out, "✓ "+format+"\n", args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.warn.Fprintf(c.out, "! "+format+"\n", args...)
}

func (c *Console) Error(err error) {
	c.failure.Fprintf(c.out, "Error: %v\n", err)
}

// Spinner animates until the returned stop func is called. Stop is safe to
// call more than once.
func (c *Console) Spinner(description string) (stop func()) {
	if !c.spinner {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription(c.info.Sprint(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			bar.Finish()
			fmt.Fprint(c.out, "\r")
		})
	}
}
