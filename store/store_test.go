package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkkaiser/rss-feed-reader/db"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	d, err := db.Open(filepath.Join(t.TempDir(), "store-testing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	s, err := New(d)
	require.NoError(t, err)

	return s
}

func testArticle(id, feedID int64, status model.ArticleStatus, starred bool, publishedAt time.Time) model.Article {
	return model.Article{
		ID:          id,
		FeedID:      feedID,
		Status:      status,
		Starred:     starred,
		Title:       "게시글",
		URL:         "https://example.com/articles",
		PublishedAt: publishedAt,
		CreatedAt:   publishedAt,
	}
}

func TestStore_AddArticles(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(s.AddArticles(ctx, nil))
	assert.NoError(s.AddArticles(ctx, []model.Article{
		testArticle(1, 10, model.ArticleStatusUnread, false, t0),
		testArticle(2, 10, model.ArticleStatusUnread, true, t0.Add(time.Hour)),
	}))

	a, err := s.GetArticle(ctx, 1)
	assert.NoError(err)
	assert.Equal(model.ArticleStatusUnread, a.Status)
	assert.True(t0.Equal(a.PublishedAt))

	// 같은 ID로 저장하면 덮어쓴다.
	a.Status = model.ArticleStatusRead
	a.Starred = true
	assert.NoError(s.AddArticles(ctx, []model.Article{a}))

	a, err = s.GetArticle(ctx, 1)
	assert.NoError(err)
	assert.Equal(model.ArticleStatusRead, a.Status)
	assert.True(a.Starred)

	count, err := s.GetArticlesCount(ctx, []int64{10}, model.FilterAll)
	assert.NoError(err)
	assert.Equal(2, count)

	// 유효하지 않은 상태값은 저장하지 않는다.
	assert.Error(s.AddArticles(ctx, []model.Article{testArticle(3, 10, "deleted", false, t0)}))

	_, err = s.GetArticle(ctx, 3)
	assert.ErrorIs(err, ErrNotFound)
}

func TestStore_GetArticlesByPage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	var articles []model.Article
	for i := int64(1); i <= 7; i++ {
		status := model.ArticleStatusUnread
		if i%2 == 0 {
			status = model.ArticleStatusRead
		}
		articles = append(articles, testArticle(i, 10+i%2, status, i == 3, t0.Add(time.Duration(i)*time.Minute)))
	}
	articles = append(articles, testArticle(100, 99, model.ArticleStatusUnread, false, t0))
	require.NoError(t, s.AddArticles(ctx, articles))

	q := model.PageQuery{
		FeedIDs:  []int64{10, 11},
		Filter:   model.FilterAll,
		Page:     1,
		PageSize: 3,
		Sort:     model.Sort{Field: model.SortFieldPublishedAt, Direction: model.SortDirectionDesc},
	}

	page, err := s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Equal([]int64{7, 6, 5}, model.Articles(page).IDs())

	q.Page = 3
	page, err = s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Equal([]int64{1}, model.Articles(page).IDs())

	q.Page = 4
	page, err = s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Empty(page)

	// 오름차순 + 읽지 않은 게시글
	q.Page = 1
	q.Filter = model.FilterUnread
	q.Sort.Direction = model.SortDirectionAsc
	page, err = s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Equal([]int64{1, 3, 5}, model.Articles(page).IDs())

	count, err := s.GetArticlesCount(ctx, q.FeedIDs, model.FilterUnread)
	assert.NoError(err)
	assert.Equal(4, count)

	// 별표 게시글
	q.Filter = model.FilterStarred
	page, err = s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Equal([]int64{3}, model.Articles(page).IDs())

	// 대상 피드가 없는 경우
	q.FeedIDs = nil
	page, err = s.GetArticlesByPage(ctx, q)
	assert.NoError(err)
	assert.Empty(page)

	count, err = s.GetArticlesCount(ctx, nil, model.FilterAll)
	assert.NoError(err)
	assert.Equal(0, count)

	// 페이지 크기가 유효하지 않은 경우
	_, err = s.GetArticlesByPage(ctx, model.PageQuery{FeedIDs: []int64{10}, Page: 1})
	assert.Error(err)
}

func TestStore_Counts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	t0 := time.Now()
	require.NoError(t, s.AddArticles(ctx, []model.Article{
		testArticle(1, 1, model.ArticleStatusUnread, true, t0),
		testArticle(2, 1, model.ArticleStatusUnread, false, t0),
		testArticle(3, 1, model.ArticleStatusRead, true, t0),
		testArticle(4, 2, model.ArticleStatusUnread, false, t0),
	}))

	n, err := s.GetUnreadCount(ctx, 1)
	assert.NoError(err)
	assert.Equal(2, n)

	n, err = s.GetStarredCount(ctx, 1)
	assert.NoError(err)
	assert.Equal(2, n)

	n, err = s.GetUnreadCount(ctx, 3)
	assert.NoError(err)
	assert.Equal(0, n)

	unread, err := s.GetUnreadCounts(ctx)
	assert.NoError(err)
	assert.Equal(map[int64]int{1: 2, 2: 1}, unread)

	starred, err := s.GetStarredCounts(ctx)
	assert.NoError(err)
	assert.Equal(map[int64]int{1: 2}, starred)
}

func TestStore_Feeds(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	assert.NoError(s.AddCategories(ctx, []model.Category{{ID: 1, Title: "개발"}, {ID: 2, Title: "뉴스"}}))
	assert.NoError(s.AddFeeds(ctx, []model.Feed{
		{ID: 10, CategoryID: 1, Title: "Go Blog", FeedURL: "https://go.dev/blog/feed.atom"},
		{ID: 11, CategoryID: 2, Title: "Hidden", HideGlobally: true, RewriteRules: "add_image_title"},
	}))

	categories, err := s.GetCategories(ctx)
	assert.NoError(err)
	assert.Len(categories, 2)

	feeds, err := s.GetFeeds(ctx)
	assert.NoError(err)
	assert.Len(feeds, 2)
	assert.Equal("https://go.dev/blog/feed.atom", feeds[0].FeedURL)
	assert.True(feeds[1].HideGlobally)
	assert.Equal("add_image_title", feeds[1].RewriteRules)

	// 피드 정보를 덮어쓴다.
	feeds[1].HideGlobally = false
	assert.NoError(s.AddFeeds(ctx, feeds[1:]))

	feeds, err = s.GetFeeds(ctx)
	assert.NoError(err)
	assert.Len(feeds, 2)
	assert.False(feeds[1].HideGlobally)
}

func TestStore_FeedPreference(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.GetFeedPreference(ctx, 10)
	assert.NoError(err)
	assert.Equal(model.FeedPreference{FeedID: 10}, p)

	assert.NoError(s.SetFeedPreference(ctx, model.FeedPreference{FeedID: 10, OpenArticlesInBrowser: true}))

	p, err = s.GetFeedPreference(ctx, 10)
	assert.NoError(err)
	assert.True(p.OpenArticlesInBrowser)

	assert.NoError(s.RemoveFeedPreference(ctx, 10))

	p, err = s.GetFeedPreference(ctx, 10)
	assert.NoError(err)
	assert.False(p.OpenArticlesInBrowser)
}

func TestStore_LastSyncTime(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	last, err := s.LastSyncTime(ctx)
	assert.NoError(err)
	assert.True(last.IsZero())

	now := time.Date(2024, 5, 1, 9, 30, 15, 123, time.Local)
	assert.NoError(s.SetLastSyncTime(ctx, now))

	last, err = s.LastSyncTime(ctx)
	assert.NoError(err)
	assert.True(now.Equal(last))
}
