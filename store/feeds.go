package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/darkkaiser/rss-feed-reader/model"
)

//noinspection GoUnhandledErrorResult
func (s *Store) AddCategories(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO category (id, title) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range categories {
		if _, err = stmt.ExecContext(ctx, c.ID, c.Title); err != nil {
			return err
		}
	}

	return tx.Commit()
}

//noinspection GoUnhandledErrorResult
func (s *Store) GetCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM category ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// AddFeeds 피드 정보를 ID 기준으로 추가하거나 덮어쓴다.
//
//noinspection GoUnhandledErrorResult
func (s *Store) AddFeeds(ctx context.Context, feeds []model.Feed) error {
	if len(feeds) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE
		  INTO feed (id, category_id, title, site_url, feed_url, hide_globally, crawler, keeplist_rules, blocklist_rules, rewrite_rules)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range feeds {
		if _, err = stmt.ExecContext(ctx, f.ID, f.CategoryID, f.Title, f.SiteURL, f.FeedURL, boolToInt(f.HideGlobally), boolToInt(f.Crawler), f.KeeplistRules, f.BlocklistRules, f.RewriteRules); err != nil {
			return err
		}
	}

	return tx.Commit()
}

//noinspection GoUnhandledErrorResult
func (s *Store) GetFeeds(ctx context.Context) ([]model.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, title, site_url, feed_url, hide_globally, crawler, keeplist_rules, blocklist_rules, rewrite_rules
		  FROM feed
		 ORDER BY category_id, title, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []model.Feed
	for rows.Next() {
		var f model.Feed
		var siteURL, feedURL, keeplist, blocklist, rewrite sql.NullString
		if err := rows.Scan(&f.ID, &f.CategoryID, &f.Title, &siteURL, &feedURL, &f.HideGlobally, &f.Crawler, &keeplist, &blocklist, &rewrite); err != nil {
			return nil, err
		}
		f.SiteURL = siteURL.String
		f.FeedURL = feedURL.String
		f.KeeplistRules = keeplist.String
		f.BlocklistRules = blocklist.String
		f.RewriteRules = rewrite.String

		feeds = append(feeds, f)
	}

	return feeds, rows.Err()
}

func (s *Store) GetFeedPreference(ctx context.Context, feedID int64) (model.FeedPreference, error) {
	p := model.FeedPreference{FeedID: feedID}

	err := s.db.QueryRowContext(ctx, `SELECT open_articles_in_browser FROM feed_preference WHERE feed_id = ?`, feedID).Scan(&p.OpenArticlesInBrowser)
	if err != nil && errors.Is(err, sql.ErrNoRows) == false {
		return model.FeedPreference{}, err
	}

	// 저장된 설정이 없으면 기본값을 반환한다.
	return p, nil
}

func (s *Store) SetFeedPreference(ctx context.Context, p model.FeedPreference) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO feed_preference (feed_id, open_articles_in_browser) VALUES (?, ?)`, p.FeedID, boolToInt(p.OpenArticlesInBrowser))
	return err
}

func (s *Store) RemoveFeedPreference(ctx context.Context, feedID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM feed_preference WHERE feed_id = ?`, feedID)
	return err
}
