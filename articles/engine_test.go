package articles

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/darkkaiser/rss-feed-reader/metrics"
	"github.com/darkkaiser/rss-feed-reader/model"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeeds = []model.Feed{
	{ID: 1, CategoryID: 10, Title: "피드1"},
	{ID: 2, CategoryID: 10, Title: "피드2"},
	{ID: 3, CategoryID: 20, Title: "피드3", HideGlobally: true},
}

func TestResolveFeedIDs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]int64{1, 2}, resolveFeedIDs(testFeeds, model.ScopeAll, false))
	assert.Equal([]int64{1, 2, 3}, resolveFeedIDs(testFeeds, model.ScopeAll, true))
	assert.Equal([]int64{1, 2}, resolveFeedIDs(testFeeds, model.CategoryScope(10), false))
	assert.Equal([]int64{}, resolveFeedIDs(testFeeds, model.CategoryScope(20), false))
	assert.Equal([]int64{3}, resolveFeedIDs(testFeeds, model.CategoryScope(20), true))
	assert.Equal([]int64{1}, resolveFeedIDs(testFeeds, model.FeedScope(1), false))
	assert.Equal([]int64{}, resolveFeedIDs(testFeeds, model.FeedScope(3), false))
	assert.Equal([]int64{3}, resolveFeedIDs(testFeeds, model.FeedScope(3), true))
	assert.Equal([]int64{}, resolveFeedIDs(testFeeds, model.FeedScope(99), true))

	assert.Equal([]int64{3}, categoryFeedIDs(testFeeds, 20))
	assert.Nil(categoryFeedIDs(testFeeds, 99))
}

func loadsTotal(t *testing.T, result string) float64 {
	m := &dto.Metric{}
	require.NoError(t, metrics.LoadsTotal.WithLabelValues(result).Write(m))
	return m.GetCounter().GetValue()
}

func TestEngine_HiddenFeedScope(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(10, testFeeds,
		newArticle(1, 3, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
	)

	// 숨김 피드는 피드 범위로 지정하더라도 숨김 피드 표시가 꺼져 있으면 조회되지 않는다.
	f.state.SetScope(model.FeedScope(3))
	res, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(0, res.Total)
	assert.Empty(f.state.Articles())
	assert.False(f.state.Pagination().HasMore)

	f.state.SetShowHiddenFeeds(true)
	res, err = f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(1, res.Total)
	assert.Equal([]int64{1}, f.state.Articles().IDs())

	// 존재하지 않는 피드
	f.state.SetScope(model.FeedScope(99))
	res, err = f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(0, res.Total)
	assert.Empty(f.state.Articles())
}

func TestEngine_Refresh(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(2, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusRead, false, 2),
		newArticle(3, 2, model.ArticleStatusUnread, true, 3),
		newArticle(4, 3, model.ArticleStatusUnread, false, 4),
	)

	res, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(3, res.Total)
	assert.True(res.IsMore)
	assert.Equal([]int64{3, 2}, f.state.Articles().IDs())

	p := f.state.Pagination()
	assert.Equal(1, p.CurrentPage)
	assert.Equal(2, p.PageSize)
	assert.True(p.HasMore)

	loading, loadingMore := f.state.Loading()
	assert.False(loading)
	assert.False(loadingMore)

	// 다음 페이지
	res, err = f.engine.LoadMore(context.Background())
	require.NoError(err)
	assert.False(res.IsMore)
	assert.Equal([]int64{3, 2, 1}, f.state.Articles().IDs())
	assert.Equal(2, f.state.Pagination().CurrentPage)
	assert.False(f.state.Pagination().HasMore)

	// 더 읽어들일 게시글이 없으면 아무것도 하지 않는다.
	res, err = f.engine.LoadMore(context.Background())
	require.NoError(err)
	assert.Empty(res.Articles)
	assert.Equal(2, f.state.Pagination().CurrentPage)
}

func TestEngine_RefreshWithFilterAndSort(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(10, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusRead, true, 2),
		newArticle(3, 2, model.ArticleStatusUnread, true, 3),
		newArticle(4, 3, model.ArticleStatusUnread, false, 4),
	)

	f.state.SetFilter(model.FilterUnread)
	f.state.SetSort(model.Sort{Field: model.SortFieldPublishedAt, Direction: model.SortDirectionAsc})

	res, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(2, res.Total)
	assert.False(res.IsMore)
	assert.Equal([]int64{1, 3}, f.state.Articles().IDs())
	assert.False(f.state.Pagination().HasMore)

	f.state.SetFilter(model.FilterStarred)
	f.state.SetScope(model.FeedScope(1))

	_, err = f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal([]int64{2}, f.state.Articles().IDs())

	// 숨김 피드
	f.state.SetFilter(model.FilterAll)
	f.state.SetScope(model.ScopeAll)
	f.state.SetShowHiddenFeeds(true)

	res, err = f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal(4, res.Total)
	assert.Equal([]int64{1, 2, 3, 4}, f.state.Articles().IDs())
}

func TestEngine_LoadArticles(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(2, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
		newArticle(3, 1, model.ArticleStatusUnread, false, 3),
	)

	// append가 false이면 목록을 변경하지 않는다.
	res, err := f.engine.LoadArticles(context.Background(), model.FeedScope(1), 1, false)
	require.NoError(err)
	assert.Equal([]int64{3, 2}, model.Articles(res.Articles).IDs())
	assert.True(res.IsMore)
	assert.Empty(f.state.Articles())

	res, err = f.engine.LoadArticles(context.Background(), model.FeedScope(1), 1, true)
	require.NoError(err)
	assert.Equal([]int64{3, 2}, f.state.Articles().IDs())

	// 같은 페이지를 다시 붙여도 중복되지 않는다.
	_, err = f.engine.LoadArticles(context.Background(), model.FeedScope(1), 1, true)
	require.NoError(err)
	assert.Equal([]int64{3, 2}, f.state.Articles().IDs())

	res, err = f.engine.LoadArticles(context.Background(), model.FeedScope(1), 2, true)
	require.NoError(err)
	assert.False(res.IsMore)
	assert.Equal([]int64{3, 2, 1}, f.state.Articles().IDs())
	assert.Equal(2, f.state.Pagination().CurrentPage)
	assert.False(f.state.Pagination().HasMore)
}

func TestEngine_IsMoreHeuristic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// 전체 게시글 수가 페이지 크기의 배수이면 마지막 페이지 이후에 빈 페이지를 한번 더 읽는다.
	f := newFixture(2, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
	)

	res, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.True(res.IsMore)

	res, err = f.engine.LoadMore(context.Background())
	require.NoError(err)
	assert.Empty(res.Articles)
	assert.False(res.IsMore)
	assert.False(f.state.Pagination().HasMore)
	assert.Equal([]int64{2, 1}, f.state.Articles().IDs())
}

func TestEngine_LoadFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(10, testFeeds, newArticle(1, 1, model.ArticleStatusUnread, false, 1))

	_, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	require.Equal([]int64{1}, f.state.Articles().IDs())

	// 다음 페이지 조회 실패시 기존 목록은 유지된다.
	f.store.setErr(func(s *fakeStore) { s.pageErr = errors.New("disk I/O error") })

	_, err = f.engine.LoadArticles(context.Background(), model.ScopeAll, 2, true)
	assert.ErrorIs(err, ErrLoadFailed)
	assert.ErrorIs(f.state.Err(), ErrLoadFailed)
	assert.Equal([]int64{1}, f.state.Articles().IDs())

	// 새로 조회를 시작하면 이전 오류는 지워진다.
	f.store.setErr(func(s *fakeStore) { s.pageErr = nil })

	_, err = f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.NoError(f.state.Err())

	f.store.setErr(func(s *fakeStore) { s.getFeedsErr = errors.New("database is locked") })

	_, err = f.engine.Refresh(context.Background())
	assert.ErrorIs(err, ErrLoadFailed)

	loading, _ := f.state.Loading()
	assert.False(loading)
	assert.Error(f.state.Err())
}

func TestEngine_SupersededRefresh(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(10, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 2, model.ArticleStatusUnread, false, 2),
	)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.store.beforePage = func(q model.PageQuery) {
		if len(q.FeedIDs) == 1 && q.FeedIDs[0] == 1 {
			close(entered)
			<-release
		}
	}

	f.state.SetScope(model.FeedScope(1))

	successBefore := loadsTotal(t, metrics.ResultSuccess)
	supersededBefore := loadsTotal(t, metrics.ResultSuperseded)

	type result struct {
		res LoadResult
		err error
	}
	done := make(chan result)
	go func() {
		res, err := f.engine.Refresh(context.Background())
		done <- result{res, err}
	}()

	<-entered

	// 첫번째 조회가 끝나기 전에 다른 범위를 조회한다.
	f.state.SetScope(model.FeedScope(2))
	_, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	assert.Equal([]int64{2}, f.state.Articles().IDs())

	close(release)
	r := <-done

	assert.ErrorIs(r.err, ErrLoadSuperseded)
	assert.Equal([]int64{1}, r.res.Articles.IDs())
	assert.Equal([]int64{2}, f.state.Articles().IDs())

	// 반영되지 않은 조회는 성공으로 집계되지 않는다.
	assert.Equal(1.0, loadsTotal(t, metrics.ResultSuccess)-successBefore)
	assert.Equal(1.0, loadsTotal(t, metrics.ResultSuperseded)-supersededBefore)

	loading, _ := f.state.Loading()
	assert.False(loading)
}

func TestEngine_SupersededLoadMore(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(1, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
		newArticle(3, 2, model.ArticleStatusUnread, false, 3),
	)
	f.state.SetScope(model.FeedScope(1))

	_, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	require.True(f.state.Pagination().HasMore)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.store.beforePage = func(q model.PageQuery) {
		if q.Page == 2 {
			close(entered)
			<-release
		}
	}

	done := make(chan error)
	go func() {
		_, err := f.engine.LoadMore(context.Background())
		done <- err
	}()

	<-entered

	f.state.SetScope(model.FeedScope(2))
	_, err = f.engine.Refresh(context.Background())
	require.NoError(err)

	close(release)
	assert.ErrorIs(<-done, ErrLoadSuperseded)
	assert.Equal([]int64{3}, f.state.Articles().IDs())
	assert.Equal(1, f.state.Pagination().CurrentPage)
}

func TestEngine_StaleLoadMoreKeepsLoadingFlag(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(1, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
		newArticle(3, 2, model.ArticleStatusUnread, false, 3),
		newArticle(4, 2, model.ArticleStatusUnread, false, 4),
	)
	f.state.SetScope(model.FeedScope(1))

	_, err := f.engine.Refresh(context.Background())
	require.NoError(err)

	var calls atomic.Int32
	enteredFirst, releaseFirst := make(chan struct{}), make(chan struct{})
	enteredSecond, releaseSecond := make(chan struct{}), make(chan struct{})
	f.store.beforePage = func(q model.PageQuery) {
		if q.Page != 2 {
			return
		}
		if calls.Add(1) == 1 {
			close(enteredFirst)
			<-releaseFirst
		} else {
			close(enteredSecond)
			<-releaseSecond
		}
	}

	first := make(chan error)
	go func() {
		_, err := f.engine.LoadMore(context.Background())
		first <- err
	}()
	<-enteredFirst

	f.state.SetScope(model.FeedScope(2))
	_, err = f.engine.Refresh(context.Background())
	require.NoError(err)

	second := make(chan error)
	go func() {
		_, err := f.engine.LoadMore(context.Background())
		second <- err
	}()
	<-enteredSecond

	// 이전 목록의 조회가 끝나더라도 새 목록의 조회 상태는 유지된다.
	close(releaseFirst)
	assert.ErrorIs(<-first, ErrLoadSuperseded)

	_, loadingMore := f.state.Loading()
	assert.True(loadingMore)

	close(releaseSecond)
	require.NoError(<-second)

	_, loadingMore = f.state.Loading()
	assert.False(loadingMore)
	assert.Equal([]int64{4, 3}, f.state.Articles().IDs())
}

func TestEngine_LoadMoreKeepsRefreshFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(1, testFeeds,
		newArticle(1, 1, model.ArticleStatusUnread, false, 1),
		newArticle(2, 1, model.ArticleStatusUnread, false, 2),
	)

	_, err := f.engine.Refresh(context.Background())
	require.NoError(err)
	require.True(f.state.Pagination().HasMore)

	f.store.setErr(func(s *fakeStore) { s.countErr = errors.New("database is locked") })
	_, err = f.engine.Refresh(context.Background())
	require.ErrorIs(err, ErrLoadFailed)
	f.store.setErr(func(s *fakeStore) { s.countErr = nil })

	// 실패한 갱신 이후의 다음 페이지 요청은 오류를 지우지 않는다.
	res, err := f.engine.LoadMore(context.Background())
	require.NoError(err)
	assert.Empty(res.Articles)
	assert.ErrorIs(f.state.Err(), ErrLoadFailed)
	assert.Empty(f.state.Articles())
	assert.False(f.state.Pagination().HasMore)

	// 다음 페이지가 반영되면 오류가 지워진다.
	_, err = f.engine.Refresh(context.Background())
	require.NoError(err)

	f.store.setErr(func(s *fakeStore) { s.pageErr = errors.New("disk I/O error") })
	_, err = f.engine.LoadMore(context.Background())
	require.ErrorIs(err, ErrLoadFailed)
	assert.ErrorIs(f.state.Err(), ErrLoadFailed)

	f.store.setErr(func(s *fakeStore) { s.pageErr = nil })
	_, err = f.engine.LoadMore(context.Background())
	require.NoError(err)
	assert.NoError(f.state.Err())
	assert.Equal([]int64{2, 1}, f.state.Articles().IDs())
}
