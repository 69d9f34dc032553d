package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/darkkaiser/rss-feed-reader/model"
)

// AddArticles 게시글을 ID 기준으로 추가하거나 덮어쓴다.
//
//noinspection GoUnhandledErrorResult
func (s *Store) AddArticles(ctx context.Context, articles []model.Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE
		  INTO article (id, feed_id, status, starred, title, url, author, content, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		if a.Status.Valid() == false {
			return fmt.Errorf("게시글(ID:%d)의 상태값(%s)이 유효하지 않습니다", a.ID, a.Status)
		}

		if _, err = stmt.ExecContext(ctx, a.ID, a.FeedID, string(a.Status), boolToInt(a.Starred), a.Title, a.URL, a.Author, a.Content, a.PublishedAt.UTC(), a.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("게시글(ID:%d) 저장이 실패하였습니다: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func filterClause(filter model.Filter) string {
	switch filter {
	case model.FilterUnread:
		return fmt.Sprintf(" AND status = '%s'", model.ArticleStatusUnread)
	case model.FilterStarred:
		return " AND starred = 1"
	}
	return ""
}

// GetArticlesCount 대상 피드들에서 필터 조건을 만족하는 게시글 수를 구한다.
func (s *Store) GetArticlesCount(ctx context.Context, feedIDs []int64, filter model.Filter) (int, error) {
	if len(feedIDs) == 0 {
		return 0, nil
	}

	in, args := inClause(feedIDs)

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM article WHERE feed_id "+in+filterClause(filter), args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// GetArticlesByPage 대상 피드들에서 필터 조건을 만족하는 게시글을 정렬하여 한 페이지만큼 읽어들인다.
//
//noinspection GoUnhandledErrorResult
func (s *Store) GetArticlesByPage(ctx context.Context, q model.PageQuery) ([]model.Article, error) {
	if len(q.FeedIDs) == 0 {
		return []model.Article{}, nil
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("페이지 크기(%d)가 유효하지 않습니다", q.PageSize)
	}

	field := q.Sort.Field
	if field.Valid() == false {
		field = model.SortFieldPublishedAt
	}
	direction := "DESC"
	if q.Sort.Direction == model.SortDirectionAsc {
		direction = "ASC"
	}

	in, args := inClause(q.FeedIDs)
	args = append(args, q.PageSize, q.Offset())

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, feed_id, status, starred, title, url, author, content, published_at, created_at
		  FROM article
		 WHERE feed_id %s%s
		 ORDER BY %s %s, id %s
		 LIMIT ? OFFSET ?
	`, in, filterClause(q.Filter), field, direction, direction), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]model.Article, 0, q.PageSize)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (s *Store) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, feed_id, status, starred, title, url, author, content, published_at, created_at
		  FROM article
		 WHERE id = ?
	`, id)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return model.Article{}, ErrNotFound
	}

	return a, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (model.Article, error) {
	var a model.Article
	var status string
	var url, author, content sql.NullString
	var publishedAt, createdAt sql.NullTime

	if err := row.Scan(&a.ID, &a.FeedID, &status, &a.Starred, &a.Title, &url, &author, &content, &publishedAt, &createdAt); err != nil {
		return model.Article{}, err
	}

	a.Status = model.ArticleStatus(status)
	a.URL = url.String
	a.Author = author.String
	a.Content = content.String
	a.PublishedAt = publishedAt.Time
	a.CreatedAt = createdAt.Time

	return a, nil
}

func (s *Store) GetUnreadCount(ctx context.Context, feedID int64) (int, error) {
	return s.countByFeed(ctx, feedID, model.FilterUnread)
}

func (s *Store) GetStarredCount(ctx context.Context, feedID int64) (int, error) {
	return s.countByFeed(ctx, feedID, model.FilterStarred)
}

func (s *Store) countByFeed(ctx context.Context, feedID int64, filter model.Filter) (int, error) {
	return s.GetArticlesCount(ctx, []int64{feedID}, filter)
}

// GetUnreadCounts 피드별 읽지 않은 게시글 수를 모두 구한다.
func (s *Store) GetUnreadCounts(ctx context.Context) (map[int64]int, error) {
	return s.countsGroupByFeed(ctx, model.FilterUnread)
}

// GetStarredCounts 피드별 별표 게시글 수를 모두 구한다.
func (s *Store) GetStarredCounts(ctx context.Context) (map[int64]int, error) {
	return s.countsGroupByFeed(ctx, model.FilterStarred)
}

//noinspection GoUnhandledErrorResult
func (s *Store) countsGroupByFeed(ctx context.Context, filter model.Filter) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT feed_id, COUNT(*) FROM article WHERE 1 = 1"+filterClause(filter)+" GROUP BY feed_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var feedID int64
		var count int
		if err := rows.Scan(&feedID, &count); err != nil {
			return nil, err
		}
		counts[feedID] = count
	}

	return counts, rows.Err()
}
