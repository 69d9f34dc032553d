package model

type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Feed struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
	SiteURL    string `json:"site_url"`
	FeedURL    string `json:"feed_url"`

	HideGlobally bool `json:"hide_globally"`
	Crawler      bool `json:"crawler"`

	KeeplistRules  string `json:"keeplist_rules"`
	BlocklistRules string `json:"blocklist_rules"`
	RewriteRules   string `json:"rewrite_rules"`
}

// FeedModification 원격 서비스에서 수정 가능한 피드 항목
// nil 인 항목은 변경하지 않는다.
type FeedModification struct {
	Title          *string `json:"title,omitempty"`
	CategoryID     *int64  `json:"category_id,omitempty"`
	HideGlobally   *bool   `json:"hide_globally,omitempty"`
	Crawler        *bool   `json:"crawler,omitempty"`
	KeeplistRules  *string `json:"keeplist_rules,omitempty"`
	BlocklistRules *string `json:"blocklist_rules,omitempty"`
	RewriteRules   *string `json:"rewrite_rules,omitempty"`
}

// FeedPreference 원격 서비스가 지원하지 않아 로컬에만 저장하는 피드별 설정
type FeedPreference struct {
	FeedID                int64 `json:"feed_id"`
	OpenArticlesInBrowser bool  `json:"open_articles_in_browser"`
}
