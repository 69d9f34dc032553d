package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/db"
	"github.com/darkkaiser/rss-feed-reader/g"
	_log_ "github.com/darkkaiser/rss-feed-reader/log"
	"github.com/darkkaiser/rss-feed-reader/miniflux"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	"github.com/darkkaiser/rss-feed-reader/services"
	"github.com/darkkaiser/rss-feed-reader/services/syncing"
	"github.com/darkkaiser/rss-feed-reader/services/ws"
	"github.com/darkkaiser/rss-feed-reader/services/ws/handler"
	"github.com/darkkaiser/rss-feed-reader/store"
	"github.com/darkkaiser/rss-feed-reader/view"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	banner = `
  ____   ____   ____    _____                 _   ____                _
 |  _ \ / ___| / ___|  |  ___| ___   ___   __| | |  _ \  ___  __ _  __| | ___ _ __
 | |_) |\___ \ \___ \  | |_   / _ \ / _ \ / _| | | |_) |/ _ \/ _' |/ _| |/ _ \ '__|
 |  _ <  ___) | ___) | |  _| |  __/|  __/| (_| | |  _ <|  __/ (_| | (_| |  __/ |
 |_| \_\|____/ |____/  |_|    \___| \___| \__,_| |_| \_\\___|\__,_|\__,_|\___|_| v%s
                                                            developed by DarkKaiser
-------------------------------------------------------------------------------------
`
)

var configFile string

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU()) // 모든 CPU 사용

	rootCmd := &cobra.Command{
		Use:           g.AppName,
		Short:         "Miniflux 서버와 동기화되는 로컬 우선 RSS 리더",
		Version:       g.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", g.AppConfigFileName, "환경설정 파일")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "동기화 서비스와 웹 서비스를 실행한다(기본 명령)",
			RunE:  runServe,
		},
		newSyncCommand(),
		newArticlesCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

//
// app
//
type app struct {
	config *g.AppConfig

	db    *sql.DB
	store *store.Store

	client       *miniflux.Client
	connectivity *miniflux.Connectivity

	state       *articles.State
	counters    *articles.Counters
	engine      *articles.Engine
	coordinator *articles.Coordinator

	session   *view.Session
	navigator *view.Navigator

	syncService *syncing.SyncService
}

// newApp 환경설정 정보를 읽어들이고 로그, NotifyAPI, 저장소 및 서비스를 초기화한다.
// 명령행 도구로 실행되면 로그 파일을 만들지 않고 경고 이상의 로그만 표준 에러로 출력한다.
func newApp(cli bool) (*app, func(), error) {
	config, err := g.LoadAppConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%s 파일의 내용이 유효하지 않습니다: %w", configFile, err)
	}

	// 로그를 초기화하고, 일정 시간이 지난 로그 파일을 모두 삭제한다.
	var logFile io.Closer
	if cli == false {
		logFile = _log_.Init(config.Debug, g.AppName, 30.)
	} else if config.Debug == false {
		log.SetLevel(log.WarnLevel)
	}

	// NotifyAPI를 초기화한다.
	notifyapi.Init(&notifyapi.Config{
		Url:           config.NotifyAPI.Url,
		APIKey:        config.NotifyAPI.APIKey,
		ApplicationID: config.NotifyAPI.ApplicationID,
	})

	// 데이터베이스를 초기화한다.
	d, err := db.Open(config.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(d)
	if err != nil {
		_ = d.Close()
		return nil, nil, err
	}

	a := &app{
		config: config,

		db:    d,
		store: s,
	}

	a.client = miniflux.New(&config.Miniflux)
	a.connectivity = miniflux.NewConnectivity(a.client)

	a.state = articles.NewState(articles.Settings{
		PageSize: config.Reader.PageSize,
		Filter:   model.FilterAll,
		Sort: model.Sort{
			Field:     model.SortField(config.Reader.SortField),
			Direction: model.SortDirection(config.Reader.SortDirection),
		},
		ShowHiddenFeeds: config.Reader.ShowHiddenFeeds,
	})
	a.counters = articles.NewCounters()
	a.engine = articles.NewEngine(a.state, s)
	a.coordinator = articles.NewCoordinator(a.state, a.counters, s, a.client, a.connectivity)

	a.session = view.NewSession(a.state, a.engine, config.Reader.ShowUnreadByDefault)
	a.navigator = view.NewNavigator(s, a.counters, a.state.ShowHiddenFeeds, config.Reader.DefaultExpandCategory)

	a.syncService = syncing.NewService(config, a.client, s, a.connectivity, a.counters, a.onSynced)

	closeFn := func() {
		if err := d.Close(); err != nil {
			m := "DB를 닫는 중에 오류가 발생하였습니다."

			log.Errorf("%s (error:%s)", m, err)

			notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
		}
		if logFile != nil {
			_ = logFile.Close()
		}
	}

	return a, closeFn, nil
}

func (a *app) onSynced(ctx context.Context, syncedAt time.Time) {
	if _, err := a.session.OnSync(ctx, syncedAt); err != nil {
		log.Errorf("동기화 이후 게시글 목록을 갱신하는 중에 오류가 발생하였습니다. (error:%s)", err)
	}
}

// open 로컬 저장소의 카운터와 첫 페이지를 읽어들인다.
func (a *app) open(ctx context.Context) error {
	if err := a.syncService.LoadCounters(ctx); err != nil {
		return err
	}

	lastSync, err := a.store.LastSyncTime(ctx)
	if err != nil {
		return err
	}
	a.state.SetLastSync(lastSync)

	return a.session.Open(ctx)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, closeFn, err := newApp(false)
	if err != nil {
		return err
	}
	defer closeFn()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, g.AppVersion)

	if err := a.open(context.Background()); err != nil {
		m := "로컬 저장소의 게시글을 읽어들이는 중에 오류가 발생하였습니다."

		log.Errorf("%s (error:%s)", m, err)

		notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
	}

	h := handler.New(a.config, handler.Options{
		State:       a.state,
		Counters:    a.counters,
		Coordinator: a.coordinator,
		Session:     a.session,
		Navigator:   a.navigator,
		Store:       a.store,
		FeedEditor:  a.client,
		Syncer:      a.syncService,
	})

	// 서비스를 생성하고 초기화한다.
	webService := ws.NewService(a.config, h)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	// 서비스를 시작한다.
	for _, s := range []services.Service{a.syncService, webService} {
		serviceStopWaiter.Add(1)
		s.Run(serviceStopCtx, serviceStopWaiter)
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	<-termC // Blocks here until interrupted

	// Handle shutdown
	log.Info("Shutdown signal received")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done

	return nil
}
