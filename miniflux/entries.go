package miniflux

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/darkkaiser/rss-feed-reader/model"
)

type entry struct {
	ID          int64     `json:"id"`
	FeedID      int64     `json:"feed_id"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	Starred     bool      `json:"starred"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e entry) article() model.Article {
	return model.Article{
		ID:          e.ID,
		FeedID:      e.FeedID,
		Status:      model.ArticleStatus(e.Status),
		Starred:     e.Starred,
		Title:       e.Title,
		URL:         e.URL,
		Author:      e.Author,
		Content:     e.Content,
		PublishedAt: e.PublishedAt,
		CreatedAt:   e.CreatedAt,
	}
}

type entriesResponse struct {
	Total   int     `json:"total"`
	Entries []entry `json:"entries"`
}

// EntryQuery 게시글 목록 조회 조건
type EntryQuery struct {
	ChangedAfter time.Time
	Limit        int
	Offset       int
}

// GetEntries 조건에 맞는 게시글을 읽어들인다. 삭제(removed) 상태의 게시글은 제외한다.
func (c *Client) GetEntries(ctx context.Context, q EntryQuery) ([]model.Article, int, error) {
	values := url.Values{}
	values.Add("status", string(model.ArticleStatusUnread))
	values.Add("status", string(model.ArticleStatusRead))
	values.Set("order", "published_at")
	values.Set("direction", "desc")
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.ChangedAfter.IsZero() == false {
		values.Set("changed_after", strconv.FormatInt(q.ChangedAfter.Unix(), 10))
	}

	var res entriesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/entries?"+values.Encode(), nil, &res); err != nil {
		return nil, 0, err
	}

	articles := make([]model.Article, 0, len(res.Entries))
	for _, e := range res.Entries {
		a := e.article()
		if a.Status.Valid() == false {
			continue
		}
		articles = append(articles, a)
	}

	return articles, res.Total, nil
}

type updateEntriesRequest struct {
	EntryIDs []int64 `json:"entry_ids"`
	Status   string  `json:"status"`
}

// UpdateEntryStatus 게시글의 읽음 상태를 article.Status 값으로 변경한다.
func (c *Client) UpdateEntryStatus(ctx context.Context, article model.Article) error {
	return c.UpdateEntriesStatus(ctx, []int64{article.ID}, article.Status)
}

func (c *Client) UpdateEntriesStatus(ctx context.Context, ids []int64, status model.ArticleStatus) error {
	if len(ids) == 0 {
		return nil
	}
	if status.Valid() == false {
		return fmt.Errorf("게시글 상태값(%s)이 유효하지 않습니다", status)
	}

	return c.do(ctx, http.MethodPut, "/v1/entries", updateEntriesRequest{EntryIDs: ids, Status: string(status)}, nil)
}

// UpdateEntryStarred 게시글의 별표 상태를 article.Starred 값으로 변경한다.
// Miniflux는 별표 상태를 반전하는 API만 제공하므로 현재 상태를 확인한 후 다를 때만 반전한다.
func (c *Client) UpdateEntryStarred(ctx context.Context, article model.Article) error {
	var current entry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/entries/%d", article.ID), nil, &current); err != nil {
		return err
	}
	if current.Starred == article.Starred {
		return nil
	}

	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/entries/%d/bookmark", article.ID), nil, nil)
}

// MarkAllAsRead 범위 안의 모든 게시글을 읽음 처리한다.
func (c *Client) MarkAllAsRead(ctx context.Context, scope model.Scope) error {
	switch scope.Type {
	case model.ScopeTypeFeed:
		return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/feeds/%d/mark-all-as-read", scope.ID), nil, nil)
	case model.ScopeTypeCategory:
		return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/categories/%d/mark-all-as-read", scope.ID), nil, nil)
	}

	userID, err := c.currentUserID(ctx)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/users/%d/mark-all-as-read", userID), nil, nil)
}
