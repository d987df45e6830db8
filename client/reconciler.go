package client

import (
	"context"
	"sync"

	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/realtime"
)

// PageSize is the fixed feed page size served by the API.
const PageSize = 3

// Fetcher loads one page of a feed, newest first.
type Fetcher func(ctx context.Context, page int) ([]models.Article, error)

// Reconciler keeps one view's article list consistent by merging broadcast
// events into the locally paginated sequence. All state lives in a single
// goroutine; pagination completions and event application are serialized
// through it, so the sequence is never mutated concurrently. The sequence
// never holds two entries with the same identifier.
//
// Merge rules: a created event is prepended (feeds are newest-first) unless
// the id is already present or, on a tag feed, the article lacks the active
// tag; an updated event replaces a present entry in place and is otherwise
// ignored — membership is not re-checked, so an edit that removed the active
// tag leaves the entry where it is; a deleted event removes the entry.
type Reconciler struct {
	fetch Fetcher
	tag   string

	cmds    chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// owned by the run goroutine
	articles []models.Article
	page     int
	hasMore  bool
	loading  bool
}

// NewReconciler builds a global-feed reconciler in its initial state
// (empty sequence, cursor at page 1, more pages assumed).
func NewReconciler(fetch Fetcher) *Reconciler {
	return newReconciler(fetch, "")
}

// NewTagReconciler builds a reconciler filtered to one tag. Switching tags
// means closing this instance and starting a fresh one.
func NewTagReconciler(fetch Fetcher, tag string) *Reconciler {
	return newReconciler(fetch, tag)
}

func newReconciler(fetch Fetcher, tag string) *Reconciler {
	r := &Reconciler{
		fetch:   fetch,
		tag:     tag,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		page:    1,
		hasMore: true,
	}
	go r.run()
	return r
}

func (r *Reconciler) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case fn := <-r.cmds:
			fn()
		}
	}
}

// exec runs fn on the state goroutine and waits for it. After Close the
// command is dropped and exec reports false.
func (r *Reconciler) exec(fn func()) bool {
	ran := make(chan struct{})
	wrapped := func() {
		fn()
		close(ran)
	}
	select {
	case r.cmds <- wrapped:
	case <-r.done:
		return false
	}
	select {
	case <-ran:
		return true
	case <-r.done:
		// Close raced with execution; wait out the loop so fn either ran
		// or never will.
		<-r.stopped
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// read evaluates fn against the state either on the loop or, once the loop
// has fully stopped, directly.
func (r *Reconciler) read(fn func()) {
	if !r.exec(fn) {
		<-r.stopped
		fn()
	}
}

// Close tears the reconciler down. A fetch still in flight will have its
// result discarded rather than applied after teardown.
func (r *Reconciler) Close() {
	r.once.Do(func() {
		close(r.done)
	})
}

// Tag returns the active tag filter, empty for the global feed.
func (r *Reconciler) Tag() string {
	return r.tag
}

// Snapshot returns a copy of the current sequence.
func (r *Reconciler) Snapshot() []models.Article {
	var out []models.Article
	r.read(func() {
		out = append(out, r.articles...)
	})
	return out
}

// HasMore reports whether another page may still be fetched.
func (r *Reconciler) HasMore() bool {
	var more bool
	r.read(func() {
		more = r.hasMore
	})
	return more
}

// Page returns the next page the reconciler would fetch.
func (r *Reconciler) Page() int {
	var page int
	r.read(func() {
		page = r.page
	})
	return page
}

func (r *Reconciler) index(id uint) int {
	for i := range r.articles {
		if r.articles[i].ID == id {
			return i
		}
	}
	return -1
}

// Apply merges one broadcast event into the sequence.
func (r *Reconciler) Apply(event realtime.Event) {
	r.exec(func() {
		switch event.Name {
		case realtime.EventCreated:
			if event.Article == nil {
				return
			}
			if r.tag != "" && !event.Article.HasTag(r.tag) {
				return
			}
			if r.index(event.Article.ID) >= 0 {
				return
			}
			r.articles = append([]models.Article{*event.Article}, r.articles...)
		case realtime.EventUpdated:
			if event.Article == nil {
				return
			}
			if i := r.index(event.Article.ID); i >= 0 {
				r.articles[i] = *event.Article
			}
		case realtime.EventDeleted:
			if i := r.index(event.ID); i >= 0 {
				r.articles = append(r.articles[:i], r.articles[i+1:]...)
			}
		}
	})
}

// Consume applies events from the channel until it closes or the reconciler
// is closed.
func (r *Reconciler) Consume(events <-chan realtime.Event) {
	go func() {
		for {
			select {
			case <-r.done:
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				r.Apply(event)
			}
		}
	}()
}

// LoadMore fetches the next page and appends its articles, skipping ids
// already present. The cursor advances only on success; a failed fetch
// leaves the state untouched. hasMore turns false exactly when the fetched
// page is short. Calls while a fetch is in flight, after the feed is
// exhausted, or after Close are no-ops.
func (r *Reconciler) LoadMore(ctx context.Context) error {
	page := 0
	ok := r.exec(func() {
		if r.loading || !r.hasMore {
			return
		}
		r.loading = true
		page = r.page
	})
	if !ok || page == 0 {
		return nil
	}

	items, err := r.fetch(ctx, page)

	r.exec(func() {
		r.loading = false
		if err != nil {
			return
		}
		for i := range items {
			if r.index(items[i].ID) < 0 {
				r.articles = append(r.articles, items[i])
			}
		}
		r.page++
		r.hasMore = len(items) == PageSize
	})
	return err
}
