package model

import (
	"fmt"
	"time"
)

type ArticleStatus string

const (
	ArticleStatusRead   ArticleStatus = "read"
	ArticleStatusUnread ArticleStatus = "unread"
)

// Toggle 읽음 상태를 반전한 값을 반환한다.
func (s ArticleStatus) Toggle() ArticleStatus {
	if s == ArticleStatusRead {
		return ArticleStatusUnread
	}
	return ArticleStatusRead
}

func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusRead || s == ArticleStatusUnread
}

type Article struct {
	ID      int64         `json:"id"`
	FeedID  int64         `json:"feed_id"`
	Status  ArticleStatus `json:"status"`
	Starred bool          `json:"starred"`

	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Article) IsRead() bool {
	return a.Status == ArticleStatusRead
}

func (a Article) String() string {
	return fmt.Sprintf("[%d, %d, %s, %t, %s, %s]", a.ID, a.FeedID, a.Status, a.Starred, a.Title, a.PublishedAt.Format("2006-01-02 15:04:05"))
}

// Articles 순서가 있는 게시글 목록
type Articles []Article

// IndexOf 게시글 ID의 위치를 반환한다. 존재하지 않으면 -1을 반환한다.
func (s Articles) IndexOf(id int64) int {
	for i, a := range s {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s Articles) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for _, a := range s {
		ids = append(ids, a.ID)
	}
	return ids
}

// Unread 읽지 않은 게시글만 골라낸다.
func (s Articles) Unread() Articles {
	var unread Articles
	for _, a := range s {
		if a.IsRead() == false {
			unread = append(unread, a)
		}
	}
	return unread
}

// CountByFeed 피드별 게시글 수를 구한다.
func (s Articles) CountByFeed() map[int64]int {
	counts := make(map[int64]int)
	for _, a := range s {
		counts[a.FeedID]++
	}
	return counts
}

// Clone 슬라이스를 복사한다. 게시글은 값 타입이므로 얕은 복사로 충분하다.
func (s Articles) Clone() Articles {
	if s == nil {
		return nil
	}
	c := make(Articles, len(s))
	copy(c, s)
	return c
}
