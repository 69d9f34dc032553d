package miniflux

import (
	"context"
	"fmt"
	"net/http"

	"github.com/darkkaiser/rss-feed-reader/model"
)

type category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type feed struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	SiteURL        string    `json:"site_url"`
	FeedURL        string    `json:"feed_url"`
	HideGlobally   bool      `json:"hide_globally"`
	Crawler        bool      `json:"crawler"`
	KeeplistRules  string    `json:"keeplist_rules"`
	BlocklistRules string    `json:"blocklist_rules"`
	RewriteRules   string    `json:"rewrite_rules"`
	Category       *category `json:"category"`
}

func (f feed) model() model.Feed {
	m := model.Feed{
		ID:             f.ID,
		Title:          f.Title,
		SiteURL:        f.SiteURL,
		FeedURL:        f.FeedURL,
		HideGlobally:   f.HideGlobally,
		Crawler:        f.Crawler,
		KeeplistRules:  f.KeeplistRules,
		BlocklistRules: f.BlocklistRules,
		RewriteRules:   f.RewriteRules,
	}
	if f.Category != nil {
		m.CategoryID = f.Category.ID
	}

	return m
}

func (c *Client) GetFeeds(ctx context.Context) ([]model.Feed, error) {
	var feeds []feed
	if err := c.do(ctx, http.MethodGet, "/v1/feeds", nil, &feeds); err != nil {
		return nil, err
	}

	result := make([]model.Feed, 0, len(feeds))
	for _, f := range feeds {
		result = append(result, f.model())
	}

	return result, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []category
	if err := c.do(ctx, http.MethodGet, "/v1/categories", nil, &categories); err != nil {
		return nil, err
	}

	result := make([]model.Category, 0, len(categories))
	for _, cat := range categories {
		result = append(result, model.Category{ID: cat.ID, Title: cat.Title})
	}

	return result, nil
}

// UpdateFeed 피드 정보를 수정하고, 수정된 피드 정보를 반환한다.
func (c *Client) UpdateFeed(ctx context.Context, feedID int64, modification model.FeedModification) (model.Feed, error) {
	var updated feed
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/feeds/%d", feedID), modification, &updated); err != nil {
		return model.Feed{}, err
	}

	return updated.model(), nil
}
