package progress

import (
	"io"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Bar is a single progress bar. A disabled Bar ignores every call.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar
}

// New returns a bar counting to total, drawn on stderr. The bar is only
// enabled when asked for and stderr is a terminal.
func New(total int, name string, enabled bool) *Bar {
	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return &Bar{}
	}
	return NewWithOutput(os.Stderr, total, name)
}

// NewWithOutput returns an enabled bar writing to w.
func NewWithOutput(w io.Writer, total int, name string) *Bar {
	container := mpb.New(
		mpb.WithOutput(w),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
		mpb.WithAutoRefresh(),
	)

	bar := container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	return &Bar{container: container, bar: bar}
}

// Set moves the bar to done out of total and completes it once done reaches
// total. Callers must serialize calls.
func (b *Bar) Set(done, total int) {
	if b.bar == nil {
		return
	}
	b.bar.SetCurrent(int64(done))
	b.bar.SetTotal(int64(total), done >= total)
}

// Completed reports whether the bar reached its total.
func (b *Bar) Completed() bool {
	return b.bar != nil && b.bar.Completed()
}

// Finish completes the bar and waits for it to be drawn.
func (b *Bar) Finish() {
	if b.container == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.container.Wait()
}
