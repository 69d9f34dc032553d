package syncing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/g"
	"github.com/darkkaiser/rss-feed-reader/metrics"
	"github.com/darkkaiser/rss-feed-reader/miniflux"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const entriesPageSize = 100

var ErrOffline = errors.New("원격 서비스에 접속할 수 없어 동기화를 건너뛰었습니다")

type Remote interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetFeeds(ctx context.Context) ([]model.Feed, error)
	GetEntries(ctx context.Context, q miniflux.EntryQuery) ([]model.Article, int, error)
}

type Store interface {
	AddCategories(ctx context.Context, categories []model.Category) error
	AddFeeds(ctx context.Context, feeds []model.Feed) error
	AddArticles(ctx context.Context, articles []model.Article) error

	GetUnreadCounts(ctx context.Context) (map[int64]int, error)
	GetStarredCounts(ctx context.Context) (map[int64]int, error)

	LastSyncTime(ctx context.Context) (time.Time, error)
	SetLastSyncTime(ctx context.Context, t time.Time) error
}

type Connectivity interface {
	Online() bool
	Probe(ctx context.Context) bool
}

// SyncedFunc 동기화가 끝난 뒤 호출된다.
type SyncedFunc func(ctx context.Context, syncedAt time.Time)

type Result struct {
	Categories int       `json:"categories"`
	Feeds      int       `json:"feeds"`
	Articles   int       `json:"articles"`
	SyncedAt   time.Time `json:"synced_at"`
}

//
// SyncService
//
type SyncService struct {
	config *g.AppConfig

	cron *cron.Cron

	remote       Remote
	store        Store
	connectivity Connectivity
	counters     *articles.Counters

	onSynced SyncedFunc

	// 동기화는 한번에 하나만 실행된다.
	syncMu sync.Mutex

	triggerC chan struct{}

	running   bool
	runningMu sync.Mutex
}

func NewService(config *g.AppConfig, remote Remote, store Store, connectivity Connectivity, counters *articles.Counters, onSynced SyncedFunc) *SyncService {
	return &SyncService{
		config: config,

		cron: cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.StandardLogger()))),

		remote:       remote,
		store:        store,
		connectivity: connectivity,
		counters:     counters,

		onSynced: onSynced,

		triggerC: make(chan struct{}, 1),

		running:   false,
		runningMu: sync.Mutex{},
	}
}

func (s *SyncService) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	log.Debug("동기화 서비스 시작중...")

	if s.running == true {
		defer serviceStopWaiter.Done()

		log.Warn("동기화 서비스가 이미 시작됨!!!")

		return
	}

	if _, err := s.cron.AddFunc(s.config.Sync.TimeSpec, func() { s.Trigger() }); err != nil {
		m := fmt.Sprintf("동기화 작업의 스케쥴러 등록이 실패하였습니다. (error:%s)", err)

		notifyapi.Send(m, true)

		log.Panic(m)
	}
	if _, err := s.cron.AddFunc(s.config.Sync.ConnectivityTimeSpec, func() { s.connectivity.Probe(serviceStopCtx) }); err != nil {
		m := fmt.Sprintf("원격 서비스 상태 확인 작업의 스케쥴러 등록이 실패하였습니다. (error:%s)", err)

		notifyapi.Send(m, true)

		log.Panic(m)
	}

	s.cron.Start()

	// 시작하자마자 한번 동기화한다.
	s.Trigger()

	go s.run0(serviceStopCtx, serviceStopWaiter)

	s.running = true

	log.Debug("동기화 서비스 시작됨")
}

func (s *SyncService) run0(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	for {
		select {
		case <-s.triggerC:
			if _, err := s.Sync(serviceStopCtx); err != nil && errors.Is(err, ErrOffline) == false && serviceStopCtx.Err() == nil {
				m := "원격 서비스와 동기화하는 중에 오류가 발생하였습니다."

				log.Errorf("%s (error:%s)", m, err)

				notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
			}

		case <-serviceStopCtx.Done():
			log.Debug("동기화 서비스 중지중...")

			s.runningMu.Lock()
			{
				// 동기화 스케쥴러를 중지한다.
				ctx := s.cron.Stop()
				<-ctx.Done()

				s.running = false
			}
			s.runningMu.Unlock()

			log.Debug("동기화 서비스 중지됨")

			return
		}
	}
}

// Trigger 백그라운드 동기화를 요청한다. 이미 요청이 대기중이면 합쳐진다.
func (s *SyncService) Trigger() {
	select {
	case s.triggerC <- struct{}{}:
	default:
	}
}

// Sync 원격 서비스에서 카테고리, 피드, 마지막 동기화 이후 변경된 게시글을 읽어와 로컬 저장소에 저장하고
// 로컬 저장소 기준으로 카운터를 다시 집계한다.
func (s *SyncService) Sync(ctx context.Context) (Result, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.connectivity != nil && s.connectivity.Online() == false {
		metrics.SyncRunsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		log.Info("원격 서비스에 접속할 수 없어 동기화를 건너뜁니다.")
		return Result{}, ErrOffline
	}

	res, err := s.sync(ctx)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return res, err
	}
	metrics.SyncRunsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.SyncedArticlesTotal.Add(float64(res.Articles))

	log.WithFields(log.Fields{
		"categories": res.Categories,
		"feeds":      res.Feeds,
		"articles":   res.Articles,
	}).Info("원격 서비스와 동기화를 완료하였습니다.")

	if s.onSynced != nil {
		s.onSynced(ctx, res.SyncedAt)
	}

	return res, nil
}

func (s *SyncService) sync(ctx context.Context) (Result, error) {
	startedAt := time.Now()

	since, err := s.store.LastSyncTime(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("마지막 동기화 시각을 읽을 수 없습니다: %w", err)
	}

	var categories []model.Category
	var feeds []model.Feed

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		categories, err = s.remote.GetCategories(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		feeds, err = s.remote.GetFeeds(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Result{}, fmt.Errorf("피드 목록을 읽어들일 수 없습니다: %w", err)
	}

	if err := s.store.AddCategories(ctx, categories); err != nil {
		return Result{}, fmt.Errorf("카테고리를 저장할 수 없습니다: %w", err)
	}
	if err := s.store.AddFeeds(ctx, feeds); err != nil {
		return Result{}, fmt.Errorf("피드를 저장할 수 없습니다: %w", err)
	}

	stored := 0
	for offset := 0; offset < s.config.Sync.MaxEntries; {
		limit := entriesPageSize
		if remaining := s.config.Sync.MaxEntries - offset; remaining < limit {
			limit = remaining
		}

		entries, total, err := s.remote.GetEntries(ctx, miniflux.EntryQuery{ChangedAfter: since, Limit: limit, Offset: offset})
		if err != nil {
			return Result{}, fmt.Errorf("게시글 목록을 읽어들일 수 없습니다: %w", err)
		}
		if err := s.store.AddArticles(ctx, entries); err != nil {
			return Result{}, fmt.Errorf("게시글을 저장할 수 없습니다: %w", err)
		}
		stored += len(entries)

		offset += limit
		if len(entries) == 0 || offset >= total {
			break
		}
	}

	if err := s.reloadCounters(ctx); err != nil {
		return Result{}, err
	}

	if err := s.store.SetLastSyncTime(ctx, startedAt); err != nil {
		return Result{}, fmt.Errorf("동기화 시각을 저장할 수 없습니다: %w", err)
	}

	return Result{
		Categories: len(categories),
		Feeds:      len(feeds),
		Articles:   stored,
		SyncedAt:   startedAt,
	}, nil
}

// reloadCounters 로컬 저장소 기준으로 카운터 전체를 다시 집계한다.
func (s *SyncService) reloadCounters(ctx context.Context) error {
	unread, err := s.store.GetUnreadCounts(ctx)
	if err != nil {
		return fmt.Errorf("읽지 않은 게시글 수를 집계할 수 없습니다: %w", err)
	}
	starred, err := s.store.GetStarredCounts(ctx)
	if err != nil {
		return fmt.Errorf("별표 게시글 수를 집계할 수 없습니다: %w", err)
	}

	s.counters.ReplaceUnread(unread)
	s.counters.ReplaceStarred(starred)

	return nil
}

// LoadCounters 원격 서비스와 관계없이 로컬 저장소 기준으로 카운터를 채운다.
func (s *SyncService) LoadCounters(ctx context.Context) error {
	return s.reloadCounters(ctx)
}
