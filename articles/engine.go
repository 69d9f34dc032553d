package articles

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/darkkaiser/rss-feed-reader/metrics"
	"github.com/darkkaiser/rss-feed-reader/model"
	log "github.com/sirupsen/logrus"
)

// LoadResult 한 페이지 분량의 게시글 조회 결과
type LoadResult struct {
	Articles model.Articles `json:"articles"`
	Total    int            `json:"total"`
	IsMore   bool           `json:"is_more"`
}

// Engine 현재 범위의 게시글 목록을 로컬 저장소에서 페이지 단위로 읽어들인다.
type Engine struct {
	state *State
	store Store

	// 목록을 교체하는 요청이 시작될 때마다 증가한다.
	// 조회를 시작한 시점의 값과 다르면 그 결과는 반영하지 않는다.
	generation atomic.Uint64
}

func NewEngine(state *State, store Store) *Engine {
	return &Engine{
		state: state,
		store: store,
	}
}

// LoadArticles 범위에 해당하는 게시글을 한 페이지 읽어들인다.
// appendToList가 true이면 읽어들인 게시글을 현재 목록 뒤에 붙이고 페이지 상태를 갱신한다.
// false이면 목록은 변경하지 않으며 결과의 반영은 호출자의 몫이다.
func (e *Engine) LoadArticles(ctx context.Context, scope model.Scope, page int, appendToList bool) (LoadResult, error) {
	res, err := e.load(ctx, e.generation.Load(), scope, page, appendToList)
	if err == nil && appendToList == false {
		metrics.LoadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	}
	return res, err
}

// Refresh 현재 범위와 조건으로 첫 페이지부터 다시 읽어들여 목록을 교체한다.
// 진행중인 다른 조회의 결과는 더 이상 반영되지 않는다.
func (e *Engine) Refresh(ctx context.Context) (LoadResult, error) {
	gen := e.generation.Add(1)

	var scope model.Scope
	e.state.update(func() {
		scope = e.state.scope
		e.state.articles = nil
		e.state.currentPage = 0
		e.state.hasMore = false
		e.state.loading = true
		e.state.loadingMore = false
		e.state.err = nil
	})

	res, err := e.load(ctx, gen, scope, 1, false)
	if err != nil {
		e.commit(gen, func() { e.state.loading = false })
		return res, err
	}

	committed := e.commit(gen, func() {
		e.state.articles = res.Articles.Clone()
		e.state.currentPage = 1
		e.state.hasMore = res.IsMore
		e.state.loading = false
	})
	if committed == false {
		metrics.LoadsTotal.WithLabelValues(metrics.ResultSuperseded).Inc()
		return res, ErrLoadSuperseded
	}

	metrics.LoadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	return res, nil
}

// LoadMore 다음 페이지를 읽어들여 현재 목록 뒤에 붙인다.
// 이미 조회중이거나 더 읽어들일 게시글이 없으면 아무것도 하지 않는다.
func (e *Engine) LoadMore(ctx context.Context) (LoadResult, error) {
	gen := e.generation.Load()

	var scope model.Scope
	var page int
	started := false
	e.state.update(func() {
		if e.state.loading == true || e.state.loadingMore == true || e.state.hasMore == false {
			return
		}
		scope = e.state.scope
		page = e.state.currentPage + 1
		e.state.loadingMore = true
		started = true
	})
	if started == false {
		return LoadResult{}, nil
	}

	res, err := e.load(ctx, gen, scope, page, true)

	// 목록이 교체되었다면 새 목록의 조회 상태는 건드리지 않는다.
	e.commit(gen, func() { e.state.loadingMore = false })

	return res, err
}

func (e *Engine) load(ctx context.Context, gen uint64, scope model.Scope, page int, appendToList bool) (LoadResult, error) {
	if page < 1 {
		page = 1
	}

	var filter model.Filter
	var sort model.Sort
	var pageSize int
	var showHiddenFeeds bool
	e.state.update(func() {
		filter = e.state.filter
		sort = e.state.sort
		pageSize = e.state.pageSize
		showHiddenFeeds = e.state.showHiddenFeeds
	})

	res, err := e.fetch(ctx, scope, filter, sort, page, pageSize, showHiddenFeeds)
	if err != nil {
		m := fmt.Sprintf("게시글 목록을 읽어들이는 중에 오류가 발생하였습니다.(범위:%s, 페이지:%d)", scope, page)
		log.Errorf("%s (error:%s)", m, err)

		err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		e.commit(gen, func() { e.state.err = err })

		metrics.LoadsTotal.WithLabelValues(metrics.ResultFailure).Inc()

		return LoadResult{}, err
	}

	if appendToList == true {
		committed := e.commit(gen, func() {
			e.state.articles = appendUnique(e.state.articles, res.Articles)
			e.state.currentPage = page
			e.state.hasMore = res.IsMore
			e.state.err = nil
		})
		if committed == false {
			metrics.LoadsTotal.WithLabelValues(metrics.ResultSuperseded).Inc()
			return res, ErrLoadSuperseded
		}

		metrics.LoadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	}

	log.Debugf("게시글 목록을 읽어들였습니다.(범위:%s, 필터:%s, 페이지:%d, 게시글:%d, 전체:%d)", scope, filter, page, len(res.Articles), res.Total)

	return res, nil
}

func (e *Engine) fetch(ctx context.Context, scope model.Scope, filter model.Filter, sort model.Sort, page, pageSize int, showHiddenFeeds bool) (LoadResult, error) {
	feeds, err := e.store.GetFeeds(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	feedIDs := resolveFeedIDs(feeds, scope, showHiddenFeeds)

	total, err := e.store.GetArticlesCount(ctx, feedIDs, filter)
	if err != nil {
		return LoadResult{}, err
	}

	articles, err := e.store.GetArticlesByPage(ctx, model.PageQuery{
		FeedIDs:  feedIDs,
		Filter:   filter,
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
	})
	if err != nil {
		return LoadResult{}, err
	}

	return LoadResult{
		Articles: articles,
		Total:    total,
		IsMore:   len(articles) == pageSize,
	}, nil
}

// commit 조회를 시작한 이후 목록을 교체하는 요청이 없었던 경우에만 변경을 반영한다.
func (e *Engine) commit(gen uint64, fn func()) bool {
	committed := false
	e.state.update(func() {
		if e.generation.Load() != gen {
			return
		}
		fn()
		committed = true
	})
	return committed
}

// resolveFeedIDs 범위를 조회 대상 피드 ID 목록으로 변환한다.
// 숨김 피드는 범위와 관계없이 showHiddenFeeds가 true일 때만 포함되며, 존재하지 않는 피드는 빈 목록이 된다.
func resolveFeedIDs(feeds []model.Feed, scope model.Scope, showHiddenFeeds bool) []int64 {
	ids := make([]int64, 0, len(feeds))
	for _, f := range feeds {
		switch scope.Type {
		case model.ScopeTypeFeed:
			if f.ID != scope.ID {
				continue
			}
		case model.ScopeTypeCategory:
			if f.CategoryID != scope.ID {
				continue
			}
		}
		if f.HideGlobally == true && showHiddenFeeds == false {
			continue
		}
		ids = append(ids, f.ID)
	}
	return ids
}

// categoryFeedIDs 숨김 여부와 관계없이 카테고리에 속한 모든 피드의 ID를 반환한다.
func categoryFeedIDs(feeds []model.Feed, categoryID int64) []int64 {
	var ids []int64
	for _, f := range feeds {
		if f.CategoryID == categoryID {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func appendUnique(articles, more model.Articles) model.Articles {
	seen := make(map[int64]struct{}, len(articles)+len(more))
	next := make(model.Articles, 0, len(articles)+len(more))
	for _, a := range articles {
		seen[a.ID] = struct{}{}
		next = append(next, a)
	}
	for _, a := range more {
		if _, ok := seen[a.ID]; ok == true {
			continue
		}
		seen[a.ID] = struct{}{}
		next = append(next, a)
	}
	return next
}
