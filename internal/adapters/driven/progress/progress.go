// Package progress renders extraction progress and rate limit countdowns on
// a terminal using progressbar.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// Ensure implementations satisfy the interface.
var (
	_ driven.Progress = (*Bar)(nil)
	_ driven.Progress = Nop{}
)

// Bar shows one item bar per task and a countdown bar while waiting for a
// rate limit reset.
type Bar struct {
	mu        sync.Mutex
	w         io.Writer
	items     *progressbar.ProgressBar
	countdown *progressbar.ProgressBar
	waitTotal int
}

// New creates a Bar writing to w.
func New(w io.Writer) *Bar {
	return &Bar{w: w}
}

// ForFile returns a Bar on f when f is a terminal and progress is enabled,
// and Nop otherwise.
func ForFile(f *os.File, enabled bool) driven.Progress {
	if !enabled || f == nil || !term.IsTerminal(int(f.Fd())) {
		return Nop{}
	}
	return New(f)
}

// Start begins a task of total steps.
func (b *Bar) Start(description string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.finishItems()
	b.items = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(b.newline),
	)
}

// Step advances the current task by one.
func (b *Bar) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.finishCountdown()
	if b.items != nil {
		_ = b.items.Add(1)
	}
}

// Finish ends the current task.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.finishCountdown()
	b.finishItems()
}

// Wait shows the time left until the rate limit resets.
func (b *Bar) Wait(remaining time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	secs := int(remaining.Round(time.Second) / time.Second)
	if b.countdown == nil {
		b.waitTotal = max(secs, 1)
		b.countdown = progressbar.NewOptions(b.waitTotal,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionSetDescription(countdownLabel(remaining)),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
		_ = b.countdown.RenderBlank()
		return
	}

	b.countdown.Describe(countdownLabel(remaining))
	_ = b.countdown.Set(b.waitTotal - secs)
	if secs <= 1 {
		b.finishCountdown()
	}
}

func (b *Bar) finishItems() {
	if b.items != nil {
		_ = b.items.Finish()
		b.items = nil
	}
}

func (b *Bar) finishCountdown() {
	if b.countdown != nil {
		_ = b.countdown.Finish()
		b.countdown = nil
		b.waitTotal = 0
	}
}

func (b *Bar) newline() {
	fmt.Fprintln(b.w)
}

// countdownLabel renders the wait as "Rate limit reset in MM:SS".
func countdownLabel(remaining time.Duration) string {
	return "Rate limit reset in " + FormatCountdown(remaining)
}

// FormatCountdown renders d as MM:SS, rounding to the second.
// Minutes are not capped at 59.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Nop discards progress updates.
type Nop struct{}

func (Nop) Start(string, int)  {}
func (Nop) Step()              {}
func (Nop) Finish()            {}
func (Nop) Wait(time.Duration) {}
