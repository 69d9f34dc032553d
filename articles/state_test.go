package articles

import (
	"testing"
	"time"

	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	assert := assert.New(t)

	s := NewState(Settings{})
	assert.Equal(50, s.Pagination().PageSize)
	assert.Equal(1, s.Pagination().CurrentPage)
	assert.Equal(model.FilterAll, s.Filter())
	assert.Equal(model.Sort{Field: model.SortFieldPublishedAt, Direction: model.SortDirectionDesc}, s.Sort())
	assert.True(s.Scope().IsAll())
	assert.True(s.VisibleRange().AtTop())
	assert.True(s.LastSync().IsZero())

	s = NewState(Settings{PageSize: 20, Filter: model.FilterUnread, Sort: model.Sort{Field: model.SortFieldTitle, Direction: model.SortDirectionAsc}, ShowHiddenFeeds: true})
	assert.Equal(20, s.Pagination().PageSize)
	assert.Equal(model.FilterUnread, s.Filter())
	assert.Equal(model.SortFieldTitle, s.Sort().Field)
	assert.True(s.ShowHiddenFeeds())
}

func TestState_Snapshot(t *testing.T) {
	assert := assert.New(t)

	s := NewState(defaultSettings(10))
	s.update(func() {
		s.articles = model.Articles{newArticle(1, 1, model.ArticleStatusUnread, false, 1)}
	})
	s.SetScope(model.FeedScope(3))
	s.SetVisibleRange(VisibleRange{Start: 5, End: 15})
	s.SetLastSync(baseTime)

	snapshot := s.Snapshot()
	assert.Equal(model.FeedScope(3), snapshot.Scope)
	assert.Equal(VisibleRange{Start: 5, End: 15}, snapshot.VisibleRange)
	assert.False(snapshot.VisibleRange.AtTop())
	assert.Equal(baseTime, snapshot.LastSync)

	// 반환된 목록을 변경해도 상태에는 영향이 없다.
	snapshot.Articles[0].Status = model.ArticleStatusRead
	assert.Equal(model.ArticleStatusUnread, s.Articles()[0].Status)
}

func TestState_Subscribe(t *testing.T) {
	assert := assert.New(t)

	s := NewState(defaultSettings(10))

	c, unsubscribe := s.Subscribe()

	// 여러번의 변경은 하나의 신호로 합쳐질 수 있다.
	s.SetFilter(model.FilterStarred)
	s.SetLastSync(time.Now())

	select {
	case <-c:
	default:
		assert.Fail("상태 변경 신호가 전달되지 않았습니다")
	}

	unsubscribe()
	unsubscribe()

	s.SetFilter(model.FilterAll)
	select {
	case <-c:
		assert.Fail("구독 해지 이후에 신호가 전달되었습니다")
	default:
	}
}

func TestState_ApplyAndRevertArticles(t *testing.T) {
	assert := assert.New(t)

	a := newArticle(1, 1, model.ArticleStatusUnread, false, 1)
	b := newArticle(2, 1, model.ArticleStatusUnread, false, 2)

	s := NewState(defaultSettings(10))
	s.update(func() { s.articles = model.Articles{a, b} })

	markRead := func(x model.Article) model.Article {
		x.Status = model.ArticleStatusRead
		return x
	}

	previous, written := s.applyToArticles(map[int64]struct{}{1: {}, 2: {}}, markRead)
	assert.Len(previous, 2)
	assert.Len(written, 2)
	assert.Equal(model.ArticleStatusRead, s.Articles()[0].Status)

	// 그 사이에 다른 변경이 기록한 값은 되돌리지 않는다.
	s.applyToArticles(map[int64]struct{}{2: {}}, func(x model.Article) model.Article {
		x.Starred = true
		return x
	})

	s.revertArticles(previous, written)

	articles := s.Articles()
	assert.Equal(a, articles[0])
	assert.Equal(model.ArticleStatusRead, articles[1].Status)
	assert.True(articles[1].Starred)
}
