package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/darkkaiser/rss-feed-reader/model"
)

var ErrAllRead = errors.New("모든 게시글을 읽었습니다")

type NavigatorStore interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetFeeds(ctx context.Context) ([]model.Feed, error)
}

type UnreadCounter interface {
	TotalUnread() int
}

// Item 사이드바에서 이동할 수 있는 항목
type Item struct {
	Scope      model.Scope `json:"scope"`
	CategoryID int64       `json:"category_id,omitempty"`
	Expanded   bool        `json:"expanded,omitempty"`
}

// Navigator 사이드바의 전체, 카테고리, 펼쳐진 카테고리의 피드 순서로 이전/다음 항목을 찾는다.
type Navigator struct {
	store    NavigatorStore
	counters UnreadCounter

	showHiddenFeeds func() bool

	defaultExpandCategory bool

	mu       sync.Mutex
	expanded map[int64]bool
}

func NewNavigator(store NavigatorStore, counters UnreadCounter, showHiddenFeeds func() bool, defaultExpandCategory bool) *Navigator {
	return &Navigator{
		store:    store,
		counters: counters,

		showHiddenFeeds: showHiddenFeeds,

		defaultExpandCategory: defaultExpandCategory,

		expanded: make(map[int64]bool),
	}
}

func (n *Navigator) Expanded(categoryID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.expandedLocked(categoryID)
}

func (n *Navigator) SetExpanded(categoryID int64, expanded bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.expanded[categoryID] = expanded
}

func (n *Navigator) expandedLocked(categoryID int64) bool {
	if v, ok := n.expanded[categoryID]; ok == true {
		return v
	}
	return n.defaultExpandCategory
}

// Items 이동할 수 있는 항목을 사이드바에 표시되는 순서대로 반환한다.
func (n *Navigator) Items(ctx context.Context) ([]Item, error) {
	categories, err := n.store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("카테고리 목록을 읽어들일 수 없습니다: %w", err)
	}
	feeds, err := n.store.GetFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("피드 목록을 읽어들일 수 없습니다: %w", err)
	}

	showHidden := n.showHiddenFeeds != nil && n.showHiddenFeeds() == true

	n.mu.Lock()
	defer n.mu.Unlock()

	items := []Item{{Scope: model.ScopeAll}}
	for _, cat := range categories {
		expanded := n.expandedLocked(cat.ID)
		items = append(items, Item{Scope: model.CategoryScope(cat.ID), CategoryID: cat.ID, Expanded: expanded})

		if expanded == false {
			continue
		}
		for _, f := range feeds {
			if f.CategoryID != cat.ID || (f.HideGlobally == true && showHidden == false) {
				continue
			}
			items = append(items, Item{Scope: model.FeedScope(f.ID), CategoryID: cat.ID})
		}
	}

	return items, nil
}

func indexOf(items []Item, current model.Scope) int {
	for i, item := range items {
		if item.Scope == current {
			return i
		}
	}
	return -1
}

// Previous 바로 앞의 항목을 반환한다. 앞의 항목이 없으면 false를 반환한다.
func (n *Navigator) Previous(ctx context.Context, current model.Scope) (model.Scope, bool, error) {
	items, err := n.Items(ctx)
	if err != nil {
		return model.Scope{}, false, err
	}

	i := indexOf(items, current)
	if i <= 0 {
		return model.Scope{}, false, nil
	}

	return items[i-1].Scope, true, nil
}

// Next 다음 항목을 반환한다.
// 다음 항목이 전체이면 그 뒤의 첫번째 피드로, 마지막 항목이면 처음 피드로 이동한다.
// 읽지 않은 게시글이 하나도 없으면 ErrAllRead를 반환한다.
func (n *Navigator) Next(ctx context.Context, current model.Scope) (model.Scope, bool, error) {
	if n.counters.TotalUnread() == 0 {
		return model.Scope{}, false, ErrAllRead
	}

	items, err := n.Items(ctx)
	if err != nil {
		return model.Scope{}, false, err
	}

	firstFeed := func(from int) (model.Scope, bool) {
		for i := from; i < len(items); i++ {
			if items[i].Scope.Type == model.ScopeTypeFeed {
				return items[i].Scope, true
			}
		}
		return model.Scope{}, false
	}

	i := indexOf(items, current)
	if i < len(items)-1 {
		next := items[i+1]
		if next.Scope.IsAll() == true {
			if s, ok := firstFeed(i + 2); ok == true {
				return s, true, nil
			}
		}
		return next.Scope, true, nil
	}

	s, ok := firstFeed(0)
	return s, ok, nil
}

// ToggleCategory 현재 항목이 속한 카테고리의 펼침 상태를 반전한다.
// 현재 항목이 피드이면 그 피드가 속한 카테고리를 이동할 항목으로 반환한다.
func (n *Navigator) ToggleCategory(ctx context.Context, current model.Scope) (model.Scope, bool, error) {
	switch current.Type {
	case model.ScopeTypeCategory:
		n.toggle(current.ID)
		return current, true, nil

	case model.ScopeTypeFeed:
		items, err := n.Items(ctx)
		if err != nil {
			return model.Scope{}, false, err
		}
		i := indexOf(items, current)
		if i == -1 || items[i].CategoryID == 0 {
			return model.Scope{}, false, nil
		}
		n.toggle(items[i].CategoryID)
		return model.CategoryScope(items[i].CategoryID), true, nil
	}

	return model.Scope{}, false, nil
}

func (n *Navigator) toggle(categoryID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.expanded[categoryID] = !n.expandedLocked(categoryID)
}
