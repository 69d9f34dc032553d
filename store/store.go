package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("항목을 찾을 수 없습니다")
)

// Store 게시글, 피드 정보를 오프라인에서도 사용할 수 있도록 보관하는 로컬 저장소
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) (*Store, error) {
	s := &Store{
		db: db,
	}

	if err := s.createTables(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) createTables() error {
	statements := []string{
		//
		// category 테이블
		//
		`CREATE TABLE IF NOT EXISTS category (
			id 		INTEGER PRIMARY KEY NOT NULL,
			title 	VARCHAR(200) NOT NULL
		)`,

		//
		// feed 테이블
		//
		`CREATE TABLE IF NOT EXISTS feed (
			id 					INTEGER PRIMARY KEY NOT NULL,
			category_id 		INTEGER NOT NULL,
			title 				VARCHAR(400) NOT NULL,
			site_url 			VARCHAR(1000),
			feed_url 			VARCHAR(1000),
			hide_globally 		INTEGER NOT NULL DEFAULT 0,
			crawler 			INTEGER NOT NULL DEFAULT 0,
			keeplist_rules 		TEXT,
			blocklist_rules 	TEXT,
			rewrite_rules 		TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS feed_index01 ON feed(category_id)`,

		//
		// article 테이블
		//
		`CREATE TABLE IF NOT EXISTS article (
			id 				INTEGER PRIMARY KEY NOT NULL,
			feed_id 		INTEGER NOT NULL,
			status 			VARCHAR(10) NOT NULL,
			starred 		INTEGER NOT NULL DEFAULT 0,
			title 			VARCHAR(400) NOT NULL,
			url 			VARCHAR(1000),
			author 			VARCHAR(200),
			content 		TEXT,
			published_at 	DATETIME,
			created_at 		DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS article_index01 ON article(feed_id, status)`,
		`CREATE INDEX IF NOT EXISTS article_index02 ON article(feed_id, starred)`,
		`CREATE INDEX IF NOT EXISTS article_index03 ON article(published_at)`,

		//
		// feed_preference 테이블
		// 원격 서비스에서 지원하지 않는 피드별 설정을 보관한다.
		//
		`CREATE TABLE IF NOT EXISTS feed_preference (
			feed_id 					INTEGER PRIMARY KEY NOT NULL,
			open_articles_in_browser 	INTEGER NOT NULL DEFAULT 0
		)`,

		//
		// sync_meta 테이블
		//
		`CREATE TABLE IF NOT EXISTS sync_meta (
			key 	VARCHAR(50) PRIMARY KEY NOT NULL,
			value 	TEXT NOT NULL
		)`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}

const lastSyncTimeKey = "last_sync_time"

func (s *Store) LastSyncTime(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM sync_meta WHERE key = ?`, lastSyncTimeKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) == true {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	return time.Parse(time.RFC3339Nano, value)
}

func (s *Store) SetLastSyncTime(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO sync_meta (key, value) VALUES (?, ?)`, lastSyncTimeKey, t.UTC().Format(time.RFC3339Nano))
	return err
}

// inClause 피드 ID 목록을 'IN (?, ?, ...)' 구문과 인자 목록으로 변환한다.
func inClause(ids []int64) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	return fmt.Sprintf("IN (%s)", strings.Join(placeholders, ", ")), args
}

func boolToInt(b bool) int {
	if b == true {
		return 1
	}
	return 0
}
