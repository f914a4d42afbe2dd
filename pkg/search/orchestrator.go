package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long color keystrokes are coalesced before a fetch.
const DefaultDebounce = 400 * time.Millisecond

// Fetcher fetches one page of listings. *Client implements it; tests swap in
// a fake.
type Fetcher interface {
	ListListings(ctx context.Context, f FilterState, page, limit int) (*ListResult, error)
}

// History receives the canonical query string after every user-driven state
// change, typically backed by the host UI's address bar.
type History interface {
	Push(query string)
}

// Snapshot is an immutable view of the orchestrator state. Err and Listings
// are mutually exclusive: a failed fetch clears the data, a successful fetch
// clears the error.
type Snapshot struct {
	Listings   []Listing
	Pagination Pagination
	Filters    FilterState
	Page       int
	Loading    bool
	Err        error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHistory wires a history sink for URL synchronization.
func WithHistory(h History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// WithDebounce overrides the color debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) { o.debounce = d }
}

// WithPageSize sets the page size requested from the API.
func WithPageSize(n int) Option {
	return func(o *Orchestrator) { o.pageSize = n }
}

// WithOnChange registers a callback invoked after every state change. The
// callback must not call back into the orchestrator.
func WithOnChange(fn func(Snapshot)) Option {
	return func(o *Orchestrator) { o.onChange = fn }
}

// Orchestrator coordinates filter state, pagination, URL synchronization and
// fetches. Every fetch carries a sequence number; only the newest response is
// ever applied, so a slow earlier response can never overwrite a later one.
type Orchestrator struct {
	fetcher  Fetcher
	history  History
	debounce time.Duration
	pageSize int
	onChange func(Snapshot)

	mu         sync.Mutex
	filters    FilterState
	page       int
	listings   []Listing
	pagination Pagination
	loading    bool
	err        error

	seq        uint64
	cancel     context.CancelFunc
	colorTimer *time.Timer
}

// New creates an orchestrator. No fetch happens until Refresh, Restore or a
// state change.
func New(fetcher Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:  fetcher,
		debounce: DefaultDebounce,
		page:     1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetFilter updates one filter and refetches from page one. Color changes are
// debounced so per-keystroke input does not translate into per-keystroke
// requests; all other fields fetch immediately.
func (o *Orchestrator) SetFilter(field Field, value string) {
	if field == FieldColor {
		o.mu.Lock()
		if o.colorTimer != nil {
			o.colorTimer.Stop()
		}
		o.colorTimer = time.AfterFunc(o.debounce, func() {
			o.applyFilter(field, value)
		})
		o.mu.Unlock()
		return
	}
	o.applyFilter(field, value)
}

func (o *Orchestrator) applyFilter(field Field, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.filters.Set(field, value)
	o.page = 1
	o.pushURLLocked()
	o.startFetchLocked()
}

// SetPage navigates to another page of the current result set.
func (o *Orchestrator) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if page == o.page {
		return
	}
	o.page = page
	o.pushURLLocked()
	o.startFetchLocked()
}

// ClearFilters resets every filter to its default and refetches.
func (o *Orchestrator) ClearFilters() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.filters.Clear()
	o.page = 1
	o.pushURLLocked()
	o.startFetchLocked()
}

// Refresh refetches the current state without touching history.
func (o *Orchestrator) Refresh() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startFetchLocked()
}

// Restore replaces the state from a raw query string, typically on history
// navigation. Nothing is pushed back to history, and a no-op restore (the
// decoded state already matches) skips the fetch entirely.
func (o *Orchestrator) Restore(rawQuery string) {
	filters, page := Decode(rawQuery)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.filters.Equals(filters) && o.page == page {
		return
	}
	o.filters = filters
	o.page = page
	o.startFetchLocked()
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Close cancels any in-flight fetch and pending debounce.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.colorTimer != nil {
		o.colorTimer.Stop()
		o.colorTimer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	// Advance past every issued fetch so late responses are dropped.
	o.seq++
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		Listings:   o.listings,
		Pagination: o.pagination,
		Filters:    o.filters,
		Page:       o.page,
		Loading:    o.loading,
		Err:        o.err,
	}
}

func (o *Orchestrator) pushURLLocked() {
	if o.history != nil {
		o.history.Push(Encode(o.filters, o.page))
	}
}

func (o *Orchestrator) startFetchLocked() {
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	o.seq++
	seq := o.seq
	filters := o.filters
	page := o.page
	o.loading = true
	o.notifyLocked()

	go func() {
		result, err := o.fetcher.ListListings(ctx, filters, page, o.pageSize)

		o.mu.Lock()
		defer o.mu.Unlock()
		if seq != o.seq {
			// A newer fetch superseded this one.
			return
		}
		o.loading = false
		if err != nil {
			o.err = err
			o.listings = nil
			o.pagination = Pagination{}
		} else {
			o.err = nil
			o.listings = result.Data
			o.pagination = result.Pagination
		}
		o.notifyLocked()
	}()
}

func (o *Orchestrator) notifyLocked() {
	if o.onChange != nil {
		o.onChange(o.snapshotLocked())
	}
}
