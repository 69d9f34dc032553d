package articles

import (
	"sync"
	"time"

	"github.com/darkkaiser/rss-feed-reader/model"
)

// VisibleRange 화면에 보이는 게시글의 위치 범위
type VisibleRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AtTop 목록의 맨 위가 화면에 보이는 상태인지 확인한다.
func (r VisibleRange) AtTop() bool {
	return r.Start == 0
}

type Settings struct {
	PageSize        int
	Filter          model.Filter
	Sort            model.Sort
	ShowHiddenFeeds bool
}

// Pagination 페이지 단위 조회 상태
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	HasMore     bool `json:"has_more"`
}

// Snapshot 특정 시점의 상태를 복사한 값
type Snapshot struct {
	Articles        model.Articles
	Scope           model.Scope
	Filter          model.Filter
	Sort            model.Sort
	ShowHiddenFeeds bool
	Loading         bool
	LoadingMore     bool
	Err             error
	Pagination      Pagination
	VisibleRange    VisibleRange
	LastSync        time.Time
}

// State 화면에 표시되는 게시글 목록과 조회 조건을 보관한다.
// 게시글 목록은 항상 새로운 슬라이스로 교체되며 제자리에서 수정되지 않는다.
type State struct {
	mu sync.RWMutex

	articles model.Articles

	scope           model.Scope
	filter          model.Filter
	sort            model.Sort
	showHiddenFeeds bool

	loading     bool
	loadingMore bool
	err         error

	currentPage int
	pageSize    int
	hasMore     bool

	visibleRange VisibleRange
	lastSync     time.Time

	subscribersMu sync.Mutex
	subscribers   map[chan struct{}]struct{}
}

func NewState(settings Settings) *State {
	if settings.PageSize < 1 {
		settings.PageSize = 50
	}
	if settings.Filter.Valid() == false {
		settings.Filter = model.FilterAll
	}
	if settings.Sort.Field.Valid() == false {
		settings.Sort.Field = model.SortFieldPublishedAt
	}
	if settings.Sort.Direction.Valid() == false {
		settings.Sort.Direction = model.SortDirectionDesc
	}

	return &State{
		scope:           model.ScopeAll,
		filter:          settings.Filter,
		sort:            settings.Sort,
		showHiddenFeeds: settings.ShowHiddenFeeds,

		currentPage: 1,
		pageSize:    settings.PageSize,

		subscribers: make(map[chan struct{}]struct{}),
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Articles:        s.articles.Clone(),
		Scope:           s.scope,
		Filter:          s.filter,
		Sort:            s.sort,
		ShowHiddenFeeds: s.showHiddenFeeds,
		Loading:         s.loading,
		LoadingMore:     s.loadingMore,
		Err:             s.err,
		Pagination:      Pagination{CurrentPage: s.currentPage, PageSize: s.pageSize, HasMore: s.hasMore},
		VisibleRange:    s.visibleRange,
		LastSync:        s.lastSync,
	}
}

func (s *State) Articles() model.Articles {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.articles.Clone()
}

func (s *State) Scope() model.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scope
}

func (s *State) SetScope(scope model.Scope) {
	s.update(func() { s.scope = scope })
}

func (s *State) Filter() model.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter
}

func (s *State) SetFilter(filter model.Filter) {
	s.update(func() { s.filter = filter })
}

func (s *State) Sort() model.Sort {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sort
}

func (s *State) SetSort(sort model.Sort) {
	s.update(func() { s.sort = sort })
}

func (s *State) ShowHiddenFeeds() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.showHiddenFeeds
}

func (s *State) SetShowHiddenFeeds(show bool) {
	s.update(func() { s.showHiddenFeeds = show })
}

func (s *State) Loading() (loading, loadingMore bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading, s.loadingMore
}

func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

func (s *State) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Pagination{CurrentPage: s.currentPage, PageSize: s.pageSize, HasMore: s.hasMore}
}

func (s *State) VisibleRange() VisibleRange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.visibleRange
}

func (s *State) SetVisibleRange(r VisibleRange) {
	s.update(func() { s.visibleRange = r })
}

func (s *State) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync
}

// SetLastSync 원격 서비스와의 동기화가 완료된 시각을 기록한다.
func (s *State) SetLastSync(t time.Time) {
	s.update(func() { s.lastSync = t })
}

// Subscribe 상태가 변경될 때마다 신호를 받을 채널을 등록한다.
// 신호는 합쳐질 수 있으므로 수신측은 신호를 받은 뒤 Snapshot()으로 최신 상태를 읽어야 한다.
func (s *State) Subscribe() (<-chan struct{}, func()) {
	c := make(chan struct{}, 1)

	s.subscribersMu.Lock()
	s.subscribers[c] = struct{}{}
	s.subscribersMu.Unlock()

	var once sync.Once
	return c, func() {
		once.Do(func() {
			s.subscribersMu.Lock()
			delete(s.subscribers, c)
			s.subscribersMu.Unlock()
		})
	}
}

func (s *State) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()

	s.notify()
}

func (s *State) notify() {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()

	for c := range s.subscribers {
		select {
		case c <- struct{}{}:
		default:
		}
	}
}

// applyToArticles 대상 게시글에 변경을 적용한 새 목록으로 교체한다.
// 변경 전/후의 게시글을 ID별로 반환한다.
func (s *State) applyToArticles(ids map[int64]struct{}, mutate func(model.Article) model.Article) (previous, written map[int64]model.Article) {
	return s.applyToSelected(func(model.Articles) map[int64]struct{} { return ids }, mutate)
}

// applyToSelected 현재 목록에서 selectTargets가 고른 게시글에 변경을 적용한다.
// 대상 선택과 변경은 하나의 잠금 안에서 이루어지므로 동시에 실행된 다른 변경이 같은 게시글을 중복으로 고르지 않는다.
// selectTargets는 잠금을 잡은 상태에서 호출되며 전달받은 목록을 수정해서는 안 된다.
func (s *State) applyToSelected(selectTargets func(model.Articles) map[int64]struct{}, mutate func(model.Article) model.Article) (previous, written map[int64]model.Article) {
	previous = make(map[int64]model.Article)
	written = make(map[int64]model.Article)

	s.update(func() {
		ids := selectTargets(s.articles)

		next := make(model.Articles, len(s.articles))
		for i, a := range s.articles {
			if _, ok := ids[a.ID]; ok == true {
				previous[a.ID] = a
				a = mutate(a)
				written[a.ID] = a
			}
			next[i] = a
		}
		s.articles = next
	})

	return previous, written
}

// revertArticles 이 변경이 기록한 값이 그대로 남아있는 게시글에 대해서만 변경 전의 상태값으로 되돌린다.
func (s *State) revertArticles(previous, written map[int64]model.Article) {
	if len(previous) == 0 {
		return
	}

	s.update(func() {
		next := make(model.Articles, len(s.articles))
		for i, a := range s.articles {
			w, ok := written[a.ID]
			if ok == true && a.Status == w.Status && a.Starred == w.Starred {
				a.Status = previous[a.ID].Status
				a.Starred = previous[a.ID].Starred
			}
			next[i] = a
		}
		s.articles = next
	})
}
