package miniflux

import (
	"context"
	"sync/atomic"

	"github.com/darkkaiser/rss-feed-reader/metrics"
	log "github.com/sirupsen/logrus"
)

// Connectivity 원격 서비스의 접속 가능 여부를 보관한다.
// 오프라인 상태에서는 원격 서비스 호출을 건너뛴다.
type Connectivity struct {
	client *Client

	online atomic.Bool
}

func NewConnectivity(client *Client) *Connectivity {
	c := &Connectivity{client: client}
	c.online.Store(true)
	metrics.SetRemoteOnline(true)

	return c
}

func (c *Connectivity) Online() bool {
	return c.online.Load()
}

func (c *Connectivity) SetOnline(online bool) {
	metrics.SetRemoteOnline(online)

	if c.online.Swap(online) != online {
		if online == true {
			log.Info("원격 서비스에 다시 접속되었습니다.")
		} else {
			log.Warn("원격 서비스에 접속할 수 없어 오프라인 상태로 전환합니다.")
		}
	}
}

// Probe 원격 서비스의 상태를 확인하여 접속 가능 여부를 갱신한다.
func (c *Connectivity) Probe(ctx context.Context) bool {
	err := c.client.Healthcheck(ctx)
	if err != nil {
		log.Debugf("원격 서비스 상태 확인이 실패하였습니다. (error:%s)", err)
	}
	c.SetOnline(err == nil)

	return err == nil
}
