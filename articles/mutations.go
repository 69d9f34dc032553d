package articles

import (
	"context"
	"fmt"

	"github.com/darkkaiser/rss-feed-reader/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	OpToggleStatus    = "toggle_status"
	OpToggleStarred   = "toggle_starred"
	OpMarkAllRead     = "mark_all_read"
	OpMarkAboveAsRead = "mark_above_as_read"
	OpMarkBelowAsRead = "mark_below_as_read"
)

// ToggleStatus 게시글의 읽음 상태를 반전한다.
// 원격 서비스 반영 실패는 기록만 하며, 로컬 저장소 반영 또는 카운터 재집계가 실패하면 변경 전 상태로 되돌린다.
func (c *Coordinator) ToggleStatus(ctx context.Context, article model.Article) (model.Article, error) {
	updated := article
	updated.Status = article.Status.Toggle()

	err := c.run(ctx, mutation{
		op:      OpToggleStatus,
		targets: map[int64]struct{}{article.ID: {}},
		mutate: func(a model.Article) model.Article {
			a.Status = updated.Status
			return a
		},
		remote: func(ctx context.Context) error {
			return c.remote.UpdateEntryStatus(ctx, updated)
		},
		store: func(ctx context.Context) error {
			return c.store.AddArticles(ctx, []model.Article{updated})
		},
		counters: func(ctx context.Context) (func(), error) {
			n, err := c.store.GetUnreadCount(ctx, updated.FeedID)
			if err != nil {
				return nil, err
			}
			c.counters.SetUnread(updated.FeedID, n)
			return nil, nil
		},
	})
	if err != nil {
		return article, err
	}

	return updated, nil
}

// ToggleStarred 게시글의 별표 여부를 반전한다.
func (c *Coordinator) ToggleStarred(ctx context.Context, article model.Article) (model.Article, error) {
	updated := article
	updated.Starred = !article.Starred

	err := c.run(ctx, mutation{
		op:      OpToggleStarred,
		targets: map[int64]struct{}{article.ID: {}},
		mutate: func(a model.Article) model.Article {
			a.Starred = updated.Starred
			return a
		},
		remote: func(ctx context.Context) error {
			return c.remote.UpdateEntryStarred(ctx, updated)
		},
		store: func(ctx context.Context) error {
			return c.store.AddArticles(ctx, []model.Article{updated})
		},
		counters: func(ctx context.Context) (func(), error) {
			n, err := c.store.GetStarredCount(ctx, updated.FeedID)
			if err != nil {
				return nil, err
			}
			c.counters.SetStarred(updated.FeedID, n)
			return nil, nil
		},
	})
	if err != nil {
		return article, err
	}

	return updated, nil
}

// MarkAllRead 현재 목록에 읽어들인 게시글 중 범위에 속하는 읽지 않은 게시글을 모두 읽음으로 표시한다.
// 카운터까지 반영되면 즉시 반환하며, 원격 서비스와 로컬 저장소 반영은 백그라운드에서 진행되고 실패하더라도 되돌리지 않는다.
func (c *Coordinator) MarkAllRead(ctx context.Context, scope model.Scope) error {
	var feedIDs []int64
	switch scope.Type {
	case model.ScopeTypeFeed:
		feedIDs = []int64{scope.ID}

	case model.ScopeTypeCategory:
		feeds, err := c.store.GetFeeds(ctx)
		if err != nil {
			m := fmt.Sprintf("카테고리에 속한 피드 목록을 읽어들이는 중에 오류가 발생하였습니다.(범위:%s)", scope)
			log.Errorf("%s (error:%s)", m, err)

			return fmt.Errorf("%w: %w", ErrMutationFailed, err)
		}
		feedIDs = categoryFeedIDs(feeds, scope.ID)
	}

	inScope := func(a model.Article) bool {
		if scope.IsAll() == true {
			return true
		}
		for _, id := range feedIDs {
			if a.FeedID == id {
				return true
			}
		}
		return false
	}

	var affected model.Articles
	selectTargets := func(list model.Articles) map[int64]struct{} {
		targets := make(map[int64]struct{})
		for _, a := range list {
			if a.IsRead() == false && inScope(a) == true {
				a.Status = model.ArticleStatusRead
				affected = append(affected, a)
				targets[a.ID] = struct{}{}
			}
		}
		return targets
	}

	return c.run(ctx, mutation{
		op:            OpMarkAllRead,
		selectTargets: selectTargets,
		mutate: func(a model.Article) model.Article {
			a.Status = model.ArticleStatusRead
			return a
		},
		remote: func(ctx context.Context) error {
			return c.remote.MarkAllAsRead(ctx, scope)
		},
		store: func(ctx context.Context) error {
			if len(affected) == 0 {
				return nil
			}
			return c.store.AddArticles(ctx, affected)
		},
		counters: func(ctx context.Context) (func(), error) {
			if scope.IsAll() == true {
				c.counters.ZeroAllUnread()
			} else {
				c.counters.ZeroUnread(feedIDs)
			}
			return nil, nil
		},
		detached: true,
	})
}

// MarkAboveAsRead 목록에서 기준 게시글과 그 위에 있는 읽지 않은 게시글을 모두 읽음으로 표시한다.
func (c *Coordinator) MarkAboveAsRead(ctx context.Context, articleID int64) error {
	return c.markRangeAsRead(ctx, OpMarkAboveAsRead, func(list model.Articles) model.Articles {
		i := list.IndexOf(articleID)
		if i == -1 {
			return nil
		}
		return list[:i+1]
	})
}

// MarkBelowAsRead 목록에서 기준 게시글과 그 아래에 있는 읽지 않은 게시글을 모두 읽음으로 표시한다.
// 기준 게시글이 목록의 마지막이면 아무것도 하지 않는다.
func (c *Coordinator) MarkBelowAsRead(ctx context.Context, articleID int64) error {
	return c.markRangeAsRead(ctx, OpMarkBelowAsRead, func(list model.Articles) model.Articles {
		i := list.IndexOf(articleID)
		if i == -1 || i == len(list)-1 {
			return nil
		}
		return list[i:]
	})
}

// markRangeAsRead pick이 현재 목록에서 고른 범위의 읽지 않은 게시글을 읽음으로 표시한다.
// 범위 선택, 화면 반영, 카운터 차감량 계산이 같은 목록을 기준으로 한번에 이루어지므로
// 같은 범위를 동시에 표시하더라도 카운터가 두번 차감되지 않는다.
func (c *Coordinator) markRangeAsRead(ctx context.Context, op string, pick func(model.Articles) model.Articles) error {
	var marked model.Articles
	var deltas map[int64]int

	return c.run(ctx, mutation{
		op: op,
		selectTargets: func(list model.Articles) map[int64]struct{} {
			unread := pick(list).Unread()
			deltas = unread.CountByFeed()

			targets := make(map[int64]struct{}, len(unread))
			for _, a := range unread {
				a.Status = model.ArticleStatusRead
				marked = append(marked, a)
				targets[a.ID] = struct{}{}
			}
			return targets
		},
		requireTargets: true,
		mutate: func(a model.Article) model.Article {
			a.Status = model.ArticleStatusRead
			return a
		},
		remote: func(ctx context.Context) error {
			var g errgroup.Group
			for _, a := range marked {
				g.Go(func() error { return c.remote.UpdateEntryStatus(ctx, a) })
			}
			return g.Wait()
		},
		store: func(ctx context.Context) error {
			return c.store.AddArticles(ctx, marked)
		},
		counters: func(ctx context.Context) (func(), error) {
			previous, written := c.counters.SubtractUnread(deltas)
			return func() { c.counters.RestoreUnread(previous, written) }, nil
		},
		remoteFatal: true,
	})
}
