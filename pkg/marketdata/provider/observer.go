package provider

import "time"

// RequestEvent is emitted after every HTTP attempt.
type RequestEvent struct {
	Provider   ProviderType
	Attempt    int
	StatusCode int
	Outcome    FailureKind
}

// PageEvent is emitted after every page has been received.
type PageEvent struct {
	Provider  ProviderType
	Symbols   []string
	Page      int
	PageBars  int
	TotalBars int
	HasMore   bool
}

// RetryEvent is emitted before sleeping ahead of another attempt.
type RetryEvent struct {
	Provider    ProviderType
	Attempt     int
	MaxAttempts int
	Kind        FailureKind
	Delay       time.Duration
	Err         error
}

// FetchObserver receives progress signals from a provider.
type FetchObserver interface {
	OnRequest(event RequestEvent)
	OnPage(event PageEvent)
	OnRetry(event RetryEvent)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnRequest(RequestEvent) {}
func (NopObserver) OnPage(PageEvent)       {}
func (NopObserver) OnRetry(RetryEvent)     {}

// MultiObserver fans events out to several observers. Nil entries are skipped.
type MultiObserver []FetchObserver

func (m MultiObserver) OnRequest(event RequestEvent) {
	for _, o := range m {
		if o != nil {
			o.OnRequest(event)
		}
	}
}

func (m MultiObserver) OnPage(event PageEvent) {
	for _, o := range m {
		if o != nil {
			o.OnPage(event)
		}
	}
}

func (m MultiObserver) OnRetry(event RetryEvent) {
	for _, o := range m {
		if o != nil {
			o.OnRetry(event)
		}
	}
}

func observerOrNop(observer FetchObserver) FetchObserver {
	if observer == nil {
		return NopObserver{}
	}

	return observer
}
