package usecase

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/secmon-lab/juno/pkg/domain/model"
	"github.com/secmon-lab/juno/pkg/service/juno"
	"github.com/secmon-lab/juno/pkg/utils/debounce"
	"github.com/secmon-lab/juno/pkg/utils/errutil"
)

// SearchPreset is the debounce window and minimum query length of a search box
type SearchPreset struct {
	Delay     time.Duration
	MinLength int
}

var (
	GlobalSearch   = SearchPreset{Delay: 500 * time.Millisecond, MinLength: 3}
	AssigneeSearch = SearchPreset{Delay: 300 * time.Millisecond, MinLength: 1}
	MemberSearch   = SearchPreset{Delay: 300 * time.Millisecond, MinLength: 2}
)

// SearchResponse is delivered once per settled input
type SearchResponse[T any] struct {
	Query   string
	Result  T
	Skipped bool
	Err     error
}

// SearchBox runs a fetch for the input that stays unchanged for the preset
// delay. Inputs shorter than the minimum length are delivered as skipped
// without a request. Deliveries are serialized and deliver must not call
// Close.
type SearchBox[T any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	preset  SearchPreset
	fetch   func(ctx context.Context, q string) (T, error)
	deliver func(SearchResponse[T])

	debouncer *debounce.Debouncer[string]

	mu     sync.Mutex
	closed bool
}

func NewSearchBox[T any](ctx context.Context, preset SearchPreset, fetch func(ctx context.Context, q string) (T, error), deliver func(SearchResponse[T])) *SearchBox[T] {
	ctx, cancel := context.WithCancel(ctx)
	b := &SearchBox[T]{
		ctx:     ctx,
		cancel:  cancel,
		preset:  preset,
		fetch:   fetch,
		deliver: deliver,
	}
	b.debouncer = debounce.New(preset.Delay, b.run)
	return b
}

// Input records the current content of the box
func (b *SearchBox[T]) Input(q string) {
	b.debouncer.Trigger(q)
}

// Flush runs the pending search now and waits for its delivery
func (b *SearchBox[T]) Flush() bool {
	ok := b.debouncer.Flush()
	b.debouncer.Wait()
	return ok
}

// Wait blocks until running searches have been delivered
func (b *SearchBox[T]) Wait() {
	b.debouncer.Wait()
}

// Close cancels the pending search and aborts a running one. Nothing is
// delivered after Close returns.
func (b *SearchBox[T]) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.debouncer.Stop()
	b.cancel()
}

func (b *SearchBox[T]) run(q string) {
	var resp SearchResponse[T]
	if utf8.RuneCountInString(q) < b.preset.MinLength {
		resp = SearchResponse[T]{Query: q, Skipped: true}
	} else {
		result, err := b.fetch(b.ctx, q)
		resp = SearchResponse[T]{Query: q, Result: result, Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if resp.Err != nil {
		_ = errutil.Handle(b.ctx, resp.Err, "search failed")
	}
	b.deliver(resp)
}

type SearchUseCase struct {
	client *juno.Client
}

func NewSearchUseCase(client *juno.Client) *SearchUseCase {
	return &SearchUseCase{client: client}
}

// Search runs the global search. Queries under the minimum length return
// an empty result without a request.
func (uc *SearchUseCase) Search(ctx context.Context, q string) (*model.SearchResult, error) {
	if utf8.RuneCountInString(q) < GlobalSearch.MinLength {
		return &model.SearchResult{}, nil
	}
	return uc.client.Search(ctx, q)
}

// NewSearchBox returns the debounced global search
func (uc *SearchUseCase) NewSearchBox(ctx context.Context, deliver func(SearchResponse[*model.SearchResult])) *SearchBox[*model.SearchResult] {
	return NewSearchBox(ctx, GlobalSearch, uc.client.Search, deliver)
}
