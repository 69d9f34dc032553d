package view

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkkaiser/rss-feed-reader/db"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/store"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	d, err := db.Open(filepath.Join(t.TempDir(), "view-testing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	s, err := store.New(d)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.AddCategories(ctx, []model.Category{
		{ID: 10, Title: "A 카테고리"},
		{ID: 20, Title: "B 카테고리"},
	}))
	require.NoError(t, s.AddFeeds(ctx, []model.Feed{
		{ID: 1, CategoryID: 10, Title: "피드1"},
		{ID: 2, CategoryID: 10, Title: "피드2"},
		{ID: 3, CategoryID: 20, Title: "피드3"},
		{ID: 4, CategoryID: 20, Title: "피드4", HideGlobally: true},
	}))

	return s
}

func testArticle(id, feedID int64, status model.ArticleStatus, minutes int) model.Article {
	return model.Article{
		ID:          id,
		FeedID:      feedID,
		Status:      status,
		Title:       "게시글",
		URL:         "https://example.com/articles",
		PublishedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
		CreatedAt:   baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}
