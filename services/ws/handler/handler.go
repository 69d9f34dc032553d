package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/g"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	"github.com/darkkaiser/rss-feed-reader/services/syncing"
	"github.com/darkkaiser/rss-feed-reader/store"
	"github.com/darkkaiser/rss-feed-reader/view"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type Store interface {
	GetArticle(ctx context.Context, id int64) (model.Article, error)
	AddFeeds(ctx context.Context, feeds []model.Feed) error

	GetFeedPreference(ctx context.Context, feedID int64) (model.FeedPreference, error)
	SetFeedPreference(ctx context.Context, p model.FeedPreference) error
	RemoveFeedPreference(ctx context.Context, feedID int64) error
}

type FeedEditor interface {
	UpdateFeed(ctx context.Context, feedID int64, modification model.FeedModification) (model.Feed, error)
}

type Syncer interface {
	Sync(ctx context.Context) (syncing.Result, error)
	Trigger()
}

//
// Handler
//
type Handler struct {
	config *g.AppConfig

	state       *articles.State
	counters    *articles.Counters
	coordinator *articles.Coordinator

	session   *view.Session
	navigator *view.Navigator

	store      Store
	feedEditor FeedEditor
	syncer     Syncer
}

type Options struct {
	State       *articles.State
	Counters    *articles.Counters
	Coordinator *articles.Coordinator

	Session   *view.Session
	Navigator *view.Navigator

	Store      Store
	FeedEditor FeedEditor
	Syncer     Syncer
}

func New(config *g.AppConfig, o Options) *Handler {
	return &Handler{
		config: config,

		state:       o.State,
		counters:    o.Counters,
		coordinator: o.Coordinator,

		session:   o.Session,
		navigator: o.Navigator,

		store:      o.Store,
		feedEditor: o.FeedEditor,
		syncer:     o.Syncer,
	}
}

// Close 백그라운드에서 진행중인 게시글 상태 반영이 끝나기를 기다린다.
func (h *Handler) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.coordinator.Shutdown(ctx); err != nil {
		m := "백그라운드 작업이 끝나기를 기다리는 중에 제한시간이 초과되었습니다."

		log.Errorf("%s (error:%s)", m, err)

		notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("유효하지 않은 ID입니다(%s)", c.Param("id")))
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// httpError 오류 종류에 맞는 HTTP 오류로 변환한다.
func httpError(m string, err error) error {
	switch {
	case errors.Is(err, view.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, syncing.ErrOffline):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	log.Errorf("%s (error:%s)", m, err)

	return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("%s (error:%s)", m, err))
}
