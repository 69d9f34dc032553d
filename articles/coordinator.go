package articles

import (
	"context"
	"fmt"
	"sync"

	"github.com/darkkaiser/rss-feed-reader/metrics"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/notifyapi"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Coordinator 게시글 상태 변경을 화면 상태에 먼저 반영한 뒤 로컬 저장소, 원격 서비스, 카운터에 동시에 반영한다.
type Coordinator struct {
	state    *State
	counters *Counters

	store        Store
	remote       Remote
	connectivity Connectivity

	// 호출자가 기다리지 않는 백그라운드 작업
	backgroundTasks sync.WaitGroup
}

func NewCoordinator(state *State, counters *Counters, store Store, remote Remote, connectivity Connectivity) *Coordinator {
	return &Coordinator{
		state:    state,
		counters: counters,

		store:        store,
		remote:       remote,
		connectivity: connectivity,
	}
}

func (c *Coordinator) Counters() *Counters {
	return c.counters
}

// Wait 진행중인 백그라운드 작업이 모두 끝날 때까지 기다린다.
func (c *Coordinator) Wait() {
	c.backgroundTasks.Wait()
}

// Shutdown 백그라운드 작업이 끝나기를 기다리되 ctx가 종료되면 먼저 반환한다.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.backgroundTasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type mutation struct {
	op string

	// 변경 대상 게시글 ID와 각 게시글에 적용할 변경
	// selectTargets가 있으면 화면 목록을 잠근 상태에서 대상을 고른다.
	targets       map[int64]struct{}
	selectTargets func(model.Articles) map[int64]struct{}
	mutate        func(model.Article) model.Article

	// true이면 변경된 게시글이 없을 때 아무것도 하지 않는다.
	requireTargets bool

	remote func(ctx context.Context) error
	store  func(ctx context.Context) error

	// 로컬 저장소 반영이 끝난 뒤 실행된다. 실패시 카운터를 되돌리는 함수를 반환한다.
	counters func(ctx context.Context) (func(), error)

	// 원격 서비스 반영 실패를 변경 실패로 간주할지의 여부
	remoteFatal bool

	// true이면 카운터까지만 반영한 뒤 원격 서비스와 로컬 저장소 반영은 백그라운드에서 진행한다.
	detached bool
}

func (c *Coordinator) online() bool {
	return c.connectivity == nil || c.connectivity.Online() == true
}

func (c *Coordinator) run(ctx context.Context, task mutation) error {
	// 어떤 I/O보다도 먼저 화면 상태에 반영한다.
	var previous, written map[int64]model.Article
	if task.selectTargets != nil {
		previous, written = c.state.applyToSelected(task.selectTargets, task.mutate)
	} else {
		previous, written = c.state.applyToArticles(task.targets, task.mutate)
	}
	if task.requireTargets == true && len(written) == 0 {
		return nil
	}

	online := c.online()
	if online == false {
		log.Debugf("원격 서비스에 연결할 수 없어 원격 반영을 건너뜁니다.(작업:%s)", task.op)
	}

	if task.detached == true {
		return c.runDetached(ctx, task, online)
	}

	var g errgroup.Group
	if online == true && task.remote != nil {
		g.Go(func() error {
			if err := task.remote(ctx); err != nil {
				if task.remoteFatal == true {
					return fmt.Errorf("원격 서비스 반영 실패: %w", err)
				}

				m := fmt.Sprintf("원격 서비스에 게시글 상태를 반영하는 중에 오류가 발생하였습니다.(작업:%s)", task.op)
				log.Warnf("%s (error:%s)", m, err)
			}
			return nil
		})
	}

	var undoCounters func()
	g.Go(func() error {
		if task.store != nil {
			if err := task.store(ctx); err != nil {
				return fmt.Errorf("로컬 저장소 반영 실패: %w", err)
			}
		}
		if task.counters != nil {
			undo, err := task.counters(ctx)
			undoCounters = undo
			if err != nil {
				return fmt.Errorf("카운터 갱신 실패: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		c.state.revertArticles(previous, written)
		if undoCounters != nil {
			undoCounters()
		}

		m := fmt.Sprintf("게시글 상태 변경이 실패하여 변경 전 상태로 되돌렸습니다.(작업:%s, 게시글:%d)", task.op, len(written))
		log.Errorf("%s (error:%s)", m, err)

		metrics.RollbacksTotal.WithLabelValues(task.op).Inc()
		metrics.RecordMutation(task.op, err)

		return fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}

	metrics.RecordMutation(task.op, nil)

	log.WithFields(log.Fields{
		"op":       task.op,
		"articles": len(written),
		"online":   online,
	}).Debug("게시글 상태를 변경하였습니다.")

	return nil
}

func (c *Coordinator) runDetached(ctx context.Context, task mutation, online bool) error {
	// 화면에는 이미 반영이 끝났으므로 카운터까지 동기적으로 반영한다.
	if task.counters != nil {
		if _, err := task.counters(ctx); err != nil {
			m := fmt.Sprintf("카운터를 갱신하는 중에 오류가 발생하였습니다.(작업:%s)", task.op)
			log.Errorf("%s (error:%s)", m, err)
		}
	}

	metrics.RecordMutation(task.op, nil)

	// 요청이 끝나더라도 백그라운드 반영은 계속되어야 한다.
	bgCtx := context.WithoutCancel(ctx)

	c.backgroundTasks.Add(1)
	go func() {
		defer c.backgroundTasks.Done()

		var g errgroup.Group
		if online == true && task.remote != nil {
			g.Go(func() error { return c.logBackgroundFailure(task.op, "원격 서비스", task.remote(bgCtx)) })
		}
		if task.store != nil {
			g.Go(func() error { return c.logBackgroundFailure(task.op, "로컬 저장소", task.store(bgCtx)) })
		}
		_ = g.Wait()
	}()

	return nil
}

func (c *Coordinator) logBackgroundFailure(op, target string, err error) error {
	if err == nil {
		return nil
	}

	m := fmt.Sprintf("백그라운드에서 %s에 게시글 상태를 반영하는 중에 오류가 발생하였습니다.(작업:%s)", target, op)
	log.Errorf("%s (error:%s)", m, err)

	notifyapi.Send(fmt.Sprintf("%s\r\n\r\n%s", m, err), true)

	metrics.BackgroundSyncFailuresTotal.WithLabelValues(op).Inc()

	return err
}
