package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/utils"
	"github.com/darkkaiser/rss-feed-reader/view"
	"github.com/labstack/echo/v4"
)

type articlesResponse struct {
	Articles        model.Articles        `json:"articles"`
	Scope           model.Scope           `json:"scope"`
	Filter          model.Filter          `json:"filter"`
	Sort            model.Sort            `json:"sort"`
	ShowHiddenFeeds bool                  `json:"show_hidden_feeds"`
	Loading         bool                  `json:"loading"`
	LoadingMore     bool                  `json:"loading_more"`
	Error           string                `json:"error,omitempty"`
	Pagination      articles.Pagination   `json:"pagination"`
	VisibleRange    articles.VisibleRange `json:"visible_range"`
	LastSync        *time.Time            `json:"last_sync,omitempty"`
	PendingSync     bool                  `json:"pending_sync"`
}

func (h *Handler) articlesResponse() articlesResponse {
	s := h.state.Snapshot()

	res := articlesResponse{
		Articles:        s.Articles,
		Scope:           s.Scope,
		Filter:          s.Filter,
		Sort:            s.Sort,
		ShowHiddenFeeds: s.ShowHiddenFeeds,
		Loading:         s.Loading,
		LoadingMore:     s.LoadingMore,
		Pagination:      s.Pagination,
		VisibleRange:    s.VisibleRange,
		PendingSync:     h.session.PendingSync(),
	}
	if res.Articles == nil {
		res.Articles = model.Articles{}
	}
	if s.Err != nil {
		res.Error = s.Err.Error()
	}
	if s.LastSync.IsZero() == false {
		res.LastSync = &s.LastSync
	}

	return res
}

// GetArticlesHandler godoc
// @Summary 현재 게시글 목록
// @Tags articles
// @Produce json
// @Success 200 {object} articlesResponse
// @Router /api/articles [get]
func (h *Handler) GetArticlesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.articlesResponse())
}

// LoadMoreArticlesHandler godoc
// @Summary 다음 페이지 읽기
// @Tags articles
// @Produce json
// @Success 200 {object} articles.LoadResult
// @Router /api/articles/more [post]
func (h *Handler) LoadMoreArticlesHandler(c echo.Context) error {
	res, err := h.session.LoadMore(c.Request().Context())
	if err != nil {
		return httpError("다음 페이지의 게시글을 읽어들이는 중에 오류가 발생하였습니다.", err)
	}
	if res.Articles == nil {
		res.Articles = model.Articles{}
	}

	return c.JSON(http.StatusOK, res)
}

type scopeRequest struct {
	Type model.ScopeType `json:"type" validate:"omitempty,oneof=all feed category"`
	ID   int64           `json:"id" validate:"min=0,required_if=Type feed,required_if=Type category"`
}

func (r scopeRequest) scope() model.Scope {
	switch r.Type {
	case model.ScopeTypeFeed:
		return model.FeedScope(r.ID)
	case model.ScopeTypeCategory:
		return model.CategoryScope(r.ID)
	}
	return model.ScopeAll
}

// SetScopeHandler godoc
// @Summary 조회 범위 변경
// @Tags articles
// @Accept json
// @Produce json
// @Param scope body scopeRequest true "범위"
// @Success 200 {object} articlesResponse
// @Router /api/scope [put]
func (h *Handler) SetScopeHandler(c echo.Context) error {
	req := scopeRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.session.SetScope(c.Request().Context(), req.scope()); err != nil {
		return httpError("조회 범위를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, h.articlesResponse())
}

type filterRequest struct {
	Filter model.Filter `json:"filter" validate:"required,oneof=all unread starred"`
}

// SetFilterHandler godoc
// @Summary 필터 변경
// @Tags articles
// @Accept json
// @Produce json
// @Param filter body filterRequest true "필터"
// @Success 200 {object} articlesResponse
// @Router /api/filter [put]
func (h *Handler) SetFilterHandler(c echo.Context) error {
	req := filterRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.session.SetFilter(c.Request().Context(), req.Filter); err != nil {
		return httpError("필터를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, h.articlesResponse())
}

type sortRequest struct {
	Field     model.SortField     `json:"field" validate:"required,oneof=published_at created_at title"`
	Direction model.SortDirection `json:"direction" validate:"required,oneof=asc desc"`
}

// SetSortHandler godoc
// @Summary 정렬 기준 변경
// @Tags articles
// @Accept json
// @Produce json
// @Param sort body sortRequest true "정렬"
// @Success 200 {object} articlesResponse
// @Router /api/sort [put]
func (h *Handler) SetSortHandler(c echo.Context) error {
	req := sortRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.session.SetSort(c.Request().Context(), model.Sort{Field: req.Field, Direction: req.Direction}); err != nil {
		return httpError("정렬 기준을 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, h.articlesResponse())
}

type showHiddenRequest struct {
	Show bool `json:"show"`
}

// SetShowHiddenFeedsHandler godoc
// @Summary 숨김 피드 표시 여부 변경
// @Tags articles
// @Accept json
// @Produce json
// @Param show body showHiddenRequest true "표시 여부"
// @Success 200 {object} articlesResponse
// @Router /api/show-hidden [put]
func (h *Handler) SetShowHiddenFeedsHandler(c echo.Context) error {
	req := showHiddenRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.session.SetShowHiddenFeeds(c.Request().Context(), req.Show); err != nil {
		return httpError("숨김 피드 표시 여부를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, h.articlesResponse())
}

type visibleRangeRequest struct {
	Start int `json:"start" validate:"min=0"`
	End   int `json:"end" validate:"gtefield=Start"`
}

type visibleRangeResponse struct {
	Refreshed bool `json:"refreshed"`
}

// SetVisibleRangeHandler godoc
// @Summary 화면에 보이는 범위 전달
// @Tags articles
// @Accept json
// @Produce json
// @Param range body visibleRangeRequest true "범위"
// @Success 200 {object} visibleRangeResponse
// @Router /api/visible-range [put]
func (h *Handler) SetVisibleRangeHandler(c echo.Context) error {
	req := visibleRangeRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	refreshed, err := h.session.SetVisibleRange(c.Request().Context(), articles.VisibleRange{Start: req.Start, End: req.End})
	if err != nil {
		return httpError("미뤄두었던 목록 갱신을 실행하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, visibleRangeResponse{Refreshed: refreshed})
}

// article 현재 목록에서 게시글을 찾고, 없으면 로컬 저장소에서 읽어들인다.
func (h *Handler) article(c echo.Context) (model.Article, error) {
	id, err := paramID(c)
	if err != nil {
		return model.Article{}, err
	}

	list := h.state.Articles()
	if i := list.IndexOf(id); i != -1 {
		return list[i], nil
	}

	a, err := h.store.GetArticle(c.Request().Context(), id)
	if err != nil {
		return model.Article{}, httpError("게시글을 읽어들이는 중에 오류가 발생하였습니다.", err)
	}
	return a, nil
}

// ToggleStatusHandler godoc
// @Summary 읽음 상태 반전
// @Tags mutations
// @Produce json
// @Param id path int true "게시글 ID"
// @Success 200 {object} model.Article
// @Router /api/articles/{id}/status [put]
func (h *Handler) ToggleStatusHandler(c echo.Context) error {
	a, err := h.article(c)
	if err != nil {
		return err
	}

	updated, err := h.coordinator.ToggleStatus(c.Request().Context(), a)
	if err != nil {
		return httpError("게시글의 읽음 상태를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, updated)
}

// ToggleStarredHandler godoc
// @Summary 별표 반전
// @Tags mutations
// @Produce json
// @Param id path int true "게시글 ID"
// @Success 200 {object} model.Article
// @Router /api/articles/{id}/starred [put]
func (h *Handler) ToggleStarredHandler(c echo.Context) error {
	a, err := h.article(c)
	if err != nil {
		return err
	}

	updated, err := h.coordinator.ToggleStarred(c.Request().Context(), a)
	if err != nil {
		return httpError("게시글의 별표를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, updated)
}

// MarkAboveAsReadHandler godoc
// @Summary 기준 게시글과 그 위의 게시글을 모두 읽음으로 표시
// @Tags mutations
// @Param id path int true "기준 게시글 ID"
// @Success 204
// @Router /api/articles/{id}/mark-above [post]
func (h *Handler) MarkAboveAsReadHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.coordinator.MarkAboveAsRead(c.Request().Context(), id); err != nil {
		return httpError("게시글을 읽음으로 표시하는 중에 오류가 발생하였습니다.", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkBelowAsReadHandler godoc
// @Summary 기준 게시글과 그 아래의 게시글을 모두 읽음으로 표시
// @Tags mutations
// @Param id path int true "기준 게시글 ID"
// @Success 204
// @Router /api/articles/{id}/mark-below [post]
func (h *Handler) MarkBelowAsReadHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.coordinator.MarkBelowAsRead(c.Request().Context(), id); err != nil {
		return httpError("게시글을 읽음으로 표시하는 중에 오류가 발생하였습니다.", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAllReadHandler godoc
// @Summary 범위의 게시글을 모두 읽음으로 표시
// @Description 화면과 카운터에 반영된 뒤 바로 응답하며 원격 서비스 반영은 백그라운드에서 진행된다.
// @Tags mutations
// @Accept json
// @Param scope body scopeRequest true "범위"
// @Success 202
// @Router /api/mark-all-read [post]
func (h *Handler) MarkAllReadHandler(c echo.Context) error {
	req := scopeRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.coordinator.MarkAllRead(c.Request().Context(), req.scope()); err != nil {
		return httpError("게시글을 모두 읽음으로 표시하는 중에 오류가 발생하였습니다.", err)
	}

	return c.NoContent(http.StatusAccepted)
}

type countersResponse struct {
	Unread           map[int64]int `json:"unread"`
	Starred          map[int64]int `json:"starred"`
	TotalUnread      int           `json:"total_unread"`
	TotalUnreadLabel string        `json:"total_unread_label"`
}

// GetCountersHandler godoc
// @Summary 피드별 읽지 않은 게시글 수와 별표 게시글 수
// @Tags articles
// @Produce json
// @Success 200 {object} countersResponse
// @Router /api/counters [get]
func (h *Handler) GetCountersHandler(c echo.Context) error {
	total := h.counters.TotalUnread()

	return c.JSON(http.StatusOK, countersResponse{
		Unread:           h.counters.Unread(),
		Starred:          h.counters.Starred(),
		TotalUnread:      total,
		TotalUnreadLabel: utils.FormatCommas(total),
	})
}

// GetNavigationItemsHandler godoc
// @Summary 사이드바에서 이동할 수 있는 항목
// @Tags navigation
// @Produce json
// @Success 200 {array} view.Item
// @Router /api/navigation [get]
func (h *Handler) GetNavigationItemsHandler(c echo.Context) error {
	items, err := h.navigator.Items(c.Request().Context())
	if err != nil {
		return httpError("사이드바 항목을 읽어들이는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, items)
}

type expandedRequest struct {
	Expanded bool `json:"expanded"`
}

// SetCategoryExpandedHandler godoc
// @Summary 카테고리 펼침 상태 변경
// @Tags navigation
// @Accept json
// @Param id path int true "카테고리 ID"
// @Param expanded body expandedRequest true "펼침 여부"
// @Success 204
// @Router /api/categories/{id}/expanded [put]
func (h *Handler) SetCategoryExpandedHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	req := expandedRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.navigator.SetExpanded(id, req.Expanded)

	return c.NoContent(http.StatusNoContent)
}

type navigationResponse struct {
	Scope   model.Scope `json:"scope"`
	Moved   bool        `json:"moved"`
	AllRead bool        `json:"all_read,omitempty"`
}

// NavigateHandler godoc
// @Summary 사이드바 이동
// @Tags navigation
// @Produce json
// @Param direction path string true "prev, next, toggle"
// @Success 200 {object} navigationResponse
// @Router /api/navigation/{direction} [get]
func (h *Handler) NavigateHandler(c echo.Context) error {
	ctx := c.Request().Context()
	current := h.state.Scope()

	var next model.Scope
	var ok bool
	var err error
	switch c.Param("direction") {
	case "prev":
		next, ok, err = h.navigator.Previous(ctx, current)
	case "next":
		next, ok, err = h.navigator.Next(ctx, current)
	case "toggle":
		next, ok, err = h.navigator.ToggleCategory(ctx, current)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "지원하지 않는 이동 방향입니다")
	}
	if errors.Is(err, view.ErrAllRead) == true {
		return c.JSON(http.StatusOK, navigationResponse{Scope: current, AllRead: true})
	}
	if err != nil {
		return httpError("이동할 항목을 찾는 중에 오류가 발생하였습니다.", err)
	}
	if ok == false {
		return c.JSON(http.StatusOK, navigationResponse{Scope: current})
	}

	if err := h.session.SetScope(ctx, next); err != nil {
		return httpError("조회 범위를 변경하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, navigationResponse{Scope: next, Moved: true})
}
