package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/rss-feed-reader/g"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	"github.com/darkkaiser/rss-feed-reader/services/ws/handler"
	"github.com/darkkaiser/rss-feed-reader/services/ws/router"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

//
// WebService
//
type WebService struct {
	config *g.AppConfig

	handler *handler.Handler

	running   bool
	runningMu sync.Mutex
}

func NewService(config *g.AppConfig, h *handler.Handler) *WebService {
	return &WebService{
		config: config,

		handler: h,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

func (s *WebService) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	log.Debug("웹 서비스 시작중...")

	if s.running == true {
		defer serviceStopWaiter.Done()

		log.Warn("웹 서비스가 이미 시작됨!!!")

		return
	}

	e := router.New(s.config, s.handler)

	go func(listenPort int) {
		log.Debugf("웹 서비스 > http 서버 시작(포트:%d)", listenPort)

		var err error
		if s.config.WS.TLSServer == true {
			err = e.StartTLS(fmt.Sprintf(":%d", listenPort), s.config.WS.TLSCertFile, s.config.WS.TLSKeyFile)
		} else {
			err = e.Start(fmt.Sprintf(":%d", listenPort))
		}
		if err != nil {
			if errors.Is(err, http.ErrServerClosed) == true {
				log.Debug("웹 서비스 > http 서버 중지됨")
			} else {
				m := "웹 서비스를 구성하는 중에 치명적인 오류가 발생하였습니다."

				log.Errorf("%s (error:%s)", m, err)

				notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
			}
		}
	}(s.config.WS.ListenPort)

	go s.run0(e, serviceStopCtx, serviceStopWaiter)

	s.running = true

	log.Debug("웹 서비스 시작됨")
}

func (s *WebService) run0(e *echo.Echo, serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	<-serviceStopCtx.Done()

	log.Debug("웹 서비스 중지중...")

	s.runningMu.Lock()
	{
		// 웹 서비스를 중지한다.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := e.Shutdown(ctx); err != nil {
			m := "웹 서비스를 중지하는 중에 오류가 발생하였습니다."

			log.Errorf("%s (error:%s)", m, err)

			notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)
		}

		// 백그라운드에서 진행중인 게시글 상태 반영이 끝나기를 기다린다.
		s.handler.Close()

		s.running = false
	}
	s.runningMu.Unlock()

	log.Debug("웹 서비스 중지됨")
}
