package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/model"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidArgument = errors.New("유효하지 않은 인자입니다")

// Session 조회 조건이 바뀌거나 동기화가 끝났을 때 목록을 언제 다시 읽어들일지 결정한다.
// 동기화로 인한 갱신은 목록의 맨 위가 보이지 않는 동안 미뤄지며, 맨 위로 돌아오면 실행된다.
type Session struct {
	state  *articles.State
	engine *articles.Engine

	showUnreadByDefault bool

	mu sync.Mutex

	// 마지막으로 처리한 동기화 시각
	handledSync time.Time

	// 미뤄진 동기화 갱신이 있는지의 여부
	pendingSync bool
}

func NewSession(state *articles.State, engine *articles.Engine, showUnreadByDefault bool) *Session {
	s := &Session{
		state:  state,
		engine: engine,

		showUnreadByDefault: showUnreadByDefault,
	}

	if showUnreadByDefault == true && state.Scope().IsAll() == true {
		state.SetFilter(model.FilterUnread)
	}

	return s
}

// Open 첫 페이지를 읽어들인다.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.handledSync = s.state.LastSync()
	s.pendingSync = false
	s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *Session) SetScope(ctx context.Context, scope model.Scope) error {
	if scope == s.state.Scope() {
		return nil
	}

	s.state.SetScope(scope)

	return s.refresh(ctx)
}

func (s *Session) SetFilter(ctx context.Context, filter model.Filter) error {
	if filter.Valid() == false {
		return fmt.Errorf("%w: filter(%s)", ErrInvalidArgument, filter)
	}
	if filter == s.state.Filter() {
		return nil
	}

	s.state.SetFilter(filter)

	return s.refresh(ctx)
}

func (s *Session) SetSort(ctx context.Context, sort model.Sort) error {
	if sort.Field.Valid() == false || sort.Direction.Valid() == false {
		return fmt.Errorf("%w: sort(%s %s)", ErrInvalidArgument, sort.Field, sort.Direction)
	}
	if sort == s.state.Sort() {
		return nil
	}

	s.state.SetSort(sort)

	return s.refresh(ctx)
}

func (s *Session) SetShowHiddenFeeds(ctx context.Context, show bool) error {
	if show == s.state.ShowHiddenFeeds() {
		return nil
	}

	s.state.SetShowHiddenFeeds(show)

	return s.refresh(ctx)
}

// SetVisibleRange 화면에 보이는 범위를 기록하고, 맨 위로 돌아왔을 때 미뤄진 동기화 갱신이 있으면 실행한다.
func (s *Session) SetVisibleRange(ctx context.Context, r articles.VisibleRange) (bool, error) {
	if r.Start < 0 || r.End < r.Start {
		return false, fmt.Errorf("%w: visible range(%d~%d)", ErrInvalidArgument, r.Start, r.End)
	}

	s.state.SetVisibleRange(r)

	s.mu.Lock()
	run := s.pendingSync == true && r.AtTop() == true
	if run == true {
		s.pendingSync = false
	}
	s.mu.Unlock()

	if run == false {
		return false, nil
	}

	log.Debug("목록의 맨 위로 돌아와 미뤄두었던 동기화 갱신을 실행합니다.")

	return true, s.refresh(ctx)
}

// OnSync 동기화 완료 시각을 전달받는다. 목록의 맨 위가 보이지 않으면 갱신을 미룬다.
func (s *Session) OnSync(ctx context.Context, syncedAt time.Time) (bool, error) {
	s.state.SetLastSync(syncedAt)

	s.mu.Lock()
	if syncedAt.Equal(s.handledSync) == true {
		s.mu.Unlock()
		return false, nil
	}
	s.handledSync = syncedAt

	if s.state.VisibleRange().AtTop() == false {
		s.pendingSync = true
		s.mu.Unlock()

		log.Debugf("목록의 맨 위가 보이지 않아 동기화 갱신을 미룹니다.(동기화 시각:%s)", syncedAt.Format(time.RFC3339))

		return false, nil
	}
	s.pendingSync = false
	s.mu.Unlock()

	return true, s.refresh(ctx)
}

func (s *Session) PendingSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingSync
}

// LoadMore 다음 페이지를 읽어들인다.
func (s *Session) LoadMore(ctx context.Context) (articles.LoadResult, error) {
	res, err := s.engine.LoadMore(ctx)
	if errors.Is(err, articles.ErrLoadSuperseded) == true {
		return res, nil
	}
	return res, err
}

func (s *Session) refresh(ctx context.Context) error {
	_, err := s.engine.Refresh(ctx)

	// 더 최근의 갱신 요청이 목록을 책임진다.
	if errors.Is(err, articles.ErrLoadSuperseded) == true {
		return nil
	}
	return err
}
