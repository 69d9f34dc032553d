package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/rss-feed-reader/g"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	"github.com/darkkaiser/rss-feed-reader/utils"
	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const summaryMaxLength = 300

// exportFeed 현재 목록의 게시글로 피드를 만든다.
func (h *Handler) exportFeed(c echo.Context) *feeds.Feed {
	s := h.state.Snapshot()

	serviceUrl := fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)

	// 가장 최근에 작성된 게시글의 작성시간을 구한다.
	var updated time.Time
	for _, a := range s.Articles {
		if a.PublishedAt.After(updated) == true {
			updated = a.PublishedAt
		}
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s (%s, %s)", g.AppName, s.Scope, s.Filter),
		Link:        &feeds.Link{Href: serviceUrl},
		Description: fmt.Sprintf("%s에서 보고 있는 게시글 목록", g.AppName),
		Id:          fmt.Sprintf("%s/api/articles?scope=%s", serviceUrl, s.Scope),
		Created:     time.Now(),
		Updated:     updated,
	}

	for _, a := range s.Articles {
		feed.Items = append(feed.Items, exportItem(a))
	}

	return feed
}

func exportItem(a model.Article) *feeds.Item {
	item := &feeds.Item{
		Id:          fmt.Sprintf("%d", a.ID),
		Title:       a.Title,
		Link:        &feeds.Link{Href: a.URL},
		Description: utils.Ellipsis(utils.HTMLToText(a.Content), summaryMaxLength),
		Content:     a.Content,
		Created:     a.PublishedAt,
		Updated:     a.CreatedAt,
	}
	if strings.TrimSpace(a.Author) != "" {
		item.Author = &feeds.Author{Name: a.Author}
	}
	return item
}

// GetRssFeedHandler godoc
// @Summary 현재 목록을 RSS 2.0으로 내보내기
// @Tags export
// @Produce xml
// @Success 200
// @Router /api/articles.rss [get]
func (h *Handler) GetRssFeedHandler(c echo.Context) error {
	rss, err := h.exportFeed(c).ToRss()
	if err != nil {
		return h.exportFailed("RSS", err)
	}

	return c.Blob(http.StatusOK, "application/rss+xml; charset=UTF-8", []byte(rss))
}

// GetAtomFeedHandler godoc
// @Summary 현재 목록을 Atom으로 내보내기
// @Tags export
// @Produce xml
// @Success 200
// @Router /api/articles.atom [get]
func (h *Handler) GetAtomFeedHandler(c echo.Context) error {
	atom, err := h.exportFeed(c).ToAtom()
	if err != nil {
		return h.exportFailed("Atom", err)
	}

	return c.Blob(http.StatusOK, "application/atom+xml; charset=UTF-8", []byte(atom))
}

func (h *Handler) exportFailed(format string, err error) error {
	m := fmt.Sprintf("게시글 목록을 %s 피드로 변환하는 중에 오류가 발생하였습니다.", format)

	log.Errorf("%s (error:%s)", m, err)

	notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)

	return echo.NewHTTPError(http.StatusInternalServerError, err)
}
