package articles

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/darkkaiser/rss-feed-reader/model"
)

// fakeStore 테스트용 메모리 저장소
type fakeStore struct {
	mu sync.Mutex

	feeds    []model.Feed
	articles map[int64]model.Article

	getFeedsErr error
	countErr    error
	pageErr     error
	addErr      error
	unreadErr   error
	starredErr  error

	// 페이지 조회 직전에 호출된다.
	beforePage func(q model.PageQuery)

	addCalls int
}

func newFakeStore(feeds []model.Feed, articles ...model.Article) *fakeStore {
	s := &fakeStore{
		feeds:    feeds,
		articles: make(map[int64]model.Article),
	}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return s
}

func (s *fakeStore) GetFeeds(_ context.Context) ([]model.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getFeedsErr != nil {
		return nil, s.getFeedsErr
	}
	return append([]model.Feed(nil), s.feeds...), nil
}

func (s *fakeStore) GetArticlesCount(_ context.Context, feedIDs []int64, filter model.Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.match(feedIDs, filter)), nil
}

func (s *fakeStore) GetArticlesByPage(_ context.Context, q model.PageQuery) ([]model.Article, error) {
	s.mu.Lock()
	hook := s.beforePage
	s.mu.Unlock()

	if hook != nil {
		hook(q)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pageErr != nil {
		return nil, s.pageErr
	}

	matched := s.match(q.FeedIDs, q.Filter)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]

		var c int
		switch q.Sort.Field {
		case model.SortFieldTitle:
			c = strings.Compare(a.Title, b.Title)
		case model.SortFieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = a.PublishedAt.Compare(b.PublishedAt)
		}
		if c == 0 {
			c = int(a.ID - b.ID)
		}
		if q.Sort.Direction == model.SortDirectionDesc {
			return c > 0
		}
		return c < 0
	})

	offset := q.Offset()
	if offset >= len(matched) {
		return []model.Article{}, nil
	}
	end := offset + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *fakeStore) AddArticles(_ context.Context, articles []model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addCalls++
	if s.addErr != nil {
		return s.addErr
	}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return nil
}

func (s *fakeStore) GetUnreadCount(_ context.Context, feedID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unreadErr != nil {
		return 0, s.unreadErr
	}
	return len(s.match([]int64{feedID}, model.FilterUnread)), nil
}

func (s *fakeStore) GetStarredCount(_ context.Context, feedID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.starredErr != nil {
		return 0, s.starredErr
	}
	return len(s.match([]int64{feedID}, model.FilterStarred)), nil
}

func (s *fakeStore) article(id int64) model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.articles[id]
}

func (s *fakeStore) setErr(fn func(s *fakeStore)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s)
}

func (s *fakeStore) match(feedIDs []int64, filter model.Filter) []model.Article {
	var matched []model.Article
	for _, a := range s.articles {
		found := false
		for _, id := range feedIDs {
			if a.FeedID == id {
				found = true
				break
			}
		}
		if found == false {
			continue
		}
		if filter == model.FilterUnread && a.IsRead() == true {
			continue
		}
		if filter == model.FilterStarred && a.Starred == false {
			continue
		}
		matched = append(matched, a)
	}
	return matched
}
