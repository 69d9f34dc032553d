package router

import (
	"net/http"

	"github.com/darkkaiser/rss-feed-reader/g"
	_ "github.com/darkkaiser/rss-feed-reader/services/ws/docs"
	"github.com/darkkaiser/rss-feed-reader/services/ws/handler"
	_middleware_ "github.com/darkkaiser/rss-feed-reader/services/ws/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func New(config *g.AppConfig, h *handler.Handler) *echo.Echo {
	e := echo.New()

	e.Debug = config.Debug
	e.HideBanner = true
	e.HidePort = true

	// echo에서 출력되는 로그를 Logrus Logger로 출력되도록 한다.
	e.Logger = _middleware_.Logger{Logger: log.StandardLogger()}
	e.Validator = &requestValidator{validator: validator.New()}

	e.Use(_middleware_.LogrusLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())

	api := e.Group("/api")
	{
		api.GET("/articles", h.GetArticlesHandler)
		api.POST("/articles/more", h.LoadMoreArticlesHandler)
		api.GET("/articles.rss", h.GetRssFeedHandler)
		api.GET("/articles.atom", h.GetAtomFeedHandler)

		api.PUT("/scope", h.SetScopeHandler)
		api.PUT("/filter", h.SetFilterHandler)
		api.PUT("/sort", h.SetSortHandler)
		api.PUT("/show-hidden", h.SetShowHiddenFeedsHandler)
		api.PUT("/visible-range", h.SetVisibleRangeHandler)

		api.PUT("/articles/:id/status", h.ToggleStatusHandler)
		api.PUT("/articles/:id/starred", h.ToggleStarredHandler)
		api.POST("/articles/:id/mark-above", h.MarkAboveAsReadHandler)
		api.POST("/articles/:id/mark-below", h.MarkBelowAsReadHandler)
		api.POST("/mark-all-read", h.MarkAllReadHandler)

		api.GET("/counters", h.GetCountersHandler)
		api.GET("/navigation", h.GetNavigationItemsHandler)
		api.GET("/navigation/:direction", h.NavigateHandler)
		api.PUT("/categories/:id/expanded", h.SetCategoryExpandedHandler)

		api.PUT("/feeds/:id", h.UpdateFeedHandler)
		api.GET("/feeds/:id/preferences", h.GetFeedPreferenceHandler)
		api.PUT("/feeds/:id/preferences", h.SetFeedPreferenceHandler)
		api.DELETE("/feeds/:id/preferences", h.RemoveFeedPreferenceHandler)

		api.POST("/sync", h.SyncHandler)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
