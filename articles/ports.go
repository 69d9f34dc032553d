package articles

import (
	"context"

	"github.com/darkkaiser/rss-feed-reader/model"
)

// Store 게시글 캐시로 사용하는 로컬 저장소
type Store interface {
	GetFeeds(ctx context.Context) ([]model.Feed, error)

	GetArticlesCount(ctx context.Context, feedIDs []int64, filter model.Filter) (int, error)
	GetArticlesByPage(ctx context.Context, q model.PageQuery) ([]model.Article, error)

	// AddArticles 게시글을 ID 기준으로 추가하거나 덮어쓴다.
	AddArticles(ctx context.Context, articles []model.Article) error

	GetUnreadCount(ctx context.Context, feedID int64) (int, error)
	GetStarredCount(ctx context.Context, feedID int64) (int, error)
}

// Remote 게시글 상태의 원본을 가진 원격 서비스
// 전달되는 게시글은 변경 후의 상태값을 가진다.
type Remote interface {
	UpdateEntryStatus(ctx context.Context, article model.Article) error
	UpdateEntryStarred(ctx context.Context, article model.Article) error
	MarkAllAsRead(ctx context.Context, scope model.Scope) error
}

type Connectivity interface {
	Online() bool
}
