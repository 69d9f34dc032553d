package handler

import (
	"net/http"

	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type updateFeedRequest struct {
	Title          *string `json:"title,omitempty" validate:"omitempty,min=1"`
	CategoryID     *int64  `json:"category_id,omitempty" validate:"omitempty,min=1"`
	HideGlobally   *bool   `json:"hide_globally,omitempty"`
	Crawler        *bool   `json:"crawler,omitempty"`
	KeeplistRules  *string `json:"keeplist_rules,omitempty"`
	BlocklistRules *string `json:"blocklist_rules,omitempty"`
	RewriteRules   *string `json:"rewrite_rules,omitempty"`
}

// UpdateFeedHandler godoc
// @Summary 피드 정보 수정
// @Description 원격 서비스의 피드 정보를 수정한 뒤 동기화를 요청한다.
// @Tags feeds
// @Accept json
// @Produce json
// @Param id path int true "피드 ID"
// @Param feed body updateFeedRequest true "수정할 항목"
// @Success 200 {object} model.Feed
// @Router /api/feeds/{id} [put]
func (h *Handler) UpdateFeedHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	req := updateFeedRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	feed, err := h.feedEditor.UpdateFeed(c.Request().Context(), id, model.FeedModification(req))
	if err != nil {
		return httpError("원격 서비스의 피드 정보를 수정하는 중에 오류가 발생하였습니다.", err)
	}

	if err := h.store.AddFeeds(c.Request().Context(), []model.Feed{feed}); err != nil {
		return httpError("수정된 피드 정보를 저장하는 중에 오류가 발생하였습니다.", err)
	}

	log.Infof("피드 정보를 수정하였습니다.(피드:%d, %s)", feed.ID, feed.Title)

	h.syncer.Trigger()

	return c.JSON(http.StatusOK, feed)
}

// GetFeedPreferenceHandler godoc
// @Summary 피드별 설정 조회
// @Tags feeds
// @Produce json
// @Param id path int true "피드 ID"
// @Success 200 {object} model.FeedPreference
// @Router /api/feeds/{id}/preferences [get]
func (h *Handler) GetFeedPreferenceHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	p, err := h.store.GetFeedPreference(c.Request().Context(), id)
	if err != nil {
		return httpError("피드 설정을 읽어들이는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, p)
}

type feedPreferenceRequest struct {
	OpenArticlesInBrowser bool `json:"open_articles_in_browser"`
}

// SetFeedPreferenceHandler godoc
// @Summary 피드별 설정 저장
// @Tags feeds
// @Accept json
// @Produce json
// @Param id path int true "피드 ID"
// @Param preference body feedPreferenceRequest true "설정"
// @Success 200 {object} model.FeedPreference
// @Router /api/feeds/{id}/preferences [put]
func (h *Handler) SetFeedPreferenceHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	req := feedPreferenceRequest{}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := model.FeedPreference{FeedID: id, OpenArticlesInBrowser: req.OpenArticlesInBrowser}
	if err := h.store.SetFeedPreference(c.Request().Context(), p); err != nil {
		return httpError("피드 설정을 저장하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, p)
}

// RemoveFeedPreferenceHandler godoc
// @Summary 피드별 설정 삭제
// @Tags feeds
// @Param id path int true "피드 ID"
// @Success 204
// @Router /api/feeds/{id}/preferences [delete]
func (h *Handler) RemoveFeedPreferenceHandler(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.store.RemoveFeedPreference(c.Request().Context(), id); err != nil {
		return httpError("피드 설정을 삭제하는 중에 오류가 발생하였습니다.", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SyncHandler godoc
// @Summary 원격 서비스와 즉시 동기화
// @Tags sync
// @Produce json
// @Success 200 {object} syncing.Result
// @Failure 503 {object} errorResponse
// @Router /api/sync [post]
func (h *Handler) SyncHandler(c echo.Context) error {
	res, err := h.syncer.Sync(c.Request().Context())
	if err != nil {
		return httpError("원격 서비스와 동기화하는 중에 오류가 발생하였습니다.", err)
	}

	return c.JSON(http.StatusOK, res)
}
