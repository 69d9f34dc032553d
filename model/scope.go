package model

import (
	"fmt"
	"strconv"
)

type ScopeType string

const (
	ScopeTypeAll      ScopeType = ""
	ScopeTypeFeed     ScopeType = "feed"
	ScopeTypeCategory ScopeType = "category"
)

// Scope 게시글 목록을 좁히는 범위(전체, 카테고리, 피드)
type Scope struct {
	Type ScopeType `json:"type"`
	ID   int64     `json:"id"`
}

var ScopeAll = Scope{Type: ScopeTypeAll}

func FeedScope(feedID int64) Scope {
	return Scope{Type: ScopeTypeFeed, ID: feedID}
}

func CategoryScope(categoryID int64) Scope {
	return Scope{Type: ScopeTypeCategory, ID: categoryID}
}

func (s Scope) IsAll() bool {
	return s.Type == ScopeTypeAll
}

func (s Scope) String() string {
	if s.IsAll() == true {
		return "all"
	}
	return fmt.Sprintf("%s:%d", s.Type, s.ID)
}

// ParseScope 문자열 형태의 범위를 해석한다. 타입이 비어있거나 "all"이면 전체 범위이다.
func ParseScope(scopeType, id string) (Scope, error) {
	switch ScopeType(scopeType) {
	case ScopeTypeAll, "all":
		return ScopeAll, nil
	case ScopeTypeFeed, ScopeTypeCategory:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Scope{}, fmt.Errorf("유효하지 않은 범위 ID입니다(%s): %w", id, err)
		}
		return Scope{Type: ScopeType(scopeType), ID: n}, nil
	}

	return Scope{}, fmt.Errorf("지원하지 않는 범위 타입입니다(%s)", scopeType)
}

// Filter 범위 안에서 게시글을 추가로 거르는 조건
type Filter string

const (
	FilterAll     Filter = "all"
	FilterUnread  Filter = "unread"
	FilterStarred Filter = "starred"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterUnread, FilterStarred:
		return true
	}
	return false
}

type SortField string

const (
	SortFieldPublishedAt SortField = "published_at"
	SortFieldCreatedAt   SortField = "created_at"
	SortFieldTitle       SortField = "title"
)

func (f SortField) Valid() bool {
	switch f {
	case SortFieldPublishedAt, SortFieldCreatedAt, SortFieldTitle:
		return true
	}
	return false
}

type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == SortDirectionAsc || d == SortDirectionDesc
}

type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// PageQuery 로컬 저장소에 한 페이지 분량의 게시글을 요청할 때 사용한다.
type PageQuery struct {
	FeedIDs  []int64
	Filter   Filter
	Page     int
	PageSize int
	Sort     Sort
}

func (q PageQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}
