package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
)

// progressObserver drives a spinner with the number of bars received.
type progressObserver struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer) *progressObserver {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching bars"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("bars"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	return &progressObserver{bar: bar}
}

func (p *progressObserver) OnRequest(provider.RequestEvent) {}

func (p *progressObserver) OnPage(event provider.PageEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar.Describe(fmt.Sprintf("Fetching %s page %d", strings.Join(event.Symbols, ","), event.Page))
	_ = p.bar.Add(event.PageBars)
}

func (p *progressObserver) OnRetry(event provider.RetryEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar.Describe(fmt.Sprintf("Retrying in %s (%d/%d): %s", event.Delay, event.Attempt, event.MaxAttempts, event.Kind))
}

// Finish stops the spinner.
func (p *progressObserver) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.bar.Finish()
}
