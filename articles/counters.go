package articles

import (
	"sync"
)

// Counters 피드별 읽지 않은 게시글 수와 별표 게시글 수
// 맵은 변경될 때마다 통째로 새 맵으로 교체되므로 읽는 쪽에서 일부만 변경된 맵을 보는 일은 없다.
type Counters struct {
	mu sync.RWMutex

	unread  map[int64]int
	starred map[int64]int
}

func NewCounters() *Counters {
	return &Counters{
		unread:  make(map[int64]int),
		starred: make(map[int64]int),
	}
}

func (c *Counters) Unread() map[int64]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyCounts(c.unread)
}

func (c *Counters) Starred() map[int64]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return copyCounts(c.starred)
}

func (c *Counters) UnreadCount(feedID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.unread[feedID]
}

func (c *Counters) StarredCount(feedID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.starred[feedID]
}

func (c *Counters) TotalUnread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, n := range c.unread {
		total += n
	}
	return total
}

// ReplaceUnread 로컬 저장소에서 다시 집계한 값으로 전체를 교체한다.
func (c *Counters) ReplaceUnread(counts map[int64]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unread = floorCounts(counts)
}

func (c *Counters) ReplaceStarred(counts map[int64]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.starred = floorCounts(counts)
}

func (c *Counters) SetUnread(feedID int64, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unread = withCount(c.unread, feedID, n)
}

func (c *Counters) SetStarred(feedID int64, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.starred = withCount(c.starred, feedID, n)
}

// ZeroUnread 지정된 피드들의 읽지 않은 게시글 수를 0으로 설정한다.
func (c *Counters) ZeroUnread(feedIDs []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := copyCounts(c.unread)
	for _, id := range feedIDs {
		next[id] = 0
	}
	c.unread = next
}

// ZeroAllUnread 알고 있는 모든 피드의 읽지 않은 게시글 수를 0으로 설정한다.
func (c *Counters) ZeroAllUnread() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[int64]int, len(c.unread))
	for id := range c.unread {
		next[id] = 0
	}
	c.unread = next
}

// SubtractUnread 피드별로 주어진 개수만큼 읽지 않은 게시글 수를 줄인다. 결과는 0 미만으로 내려가지 않는다.
// 변경 전 값과 이번에 기록한 값을 반환하며, 변경 전에 항목이 없던 피드는 previous에 포함되지 않는다.
func (c *Counters) SubtractUnread(deltas map[int64]int) (previous, written map[int64]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous = make(map[int64]int, len(deltas))
	written = make(map[int64]int, len(deltas))

	next := copyCounts(c.unread)
	for id, delta := range deltas {
		cur, ok := next[id]
		if ok == true {
			previous[id] = cur
		}
		n := cur - delta
		if n < 0 {
			n = 0
		}
		next[id] = n
		written[id] = n
	}
	c.unread = next

	return previous, written
}

// RestoreUnread SubtractUnread()가 기록한 값이 그대로 남아있는 피드만 변경 전 값으로 되돌린다.
func (c *Counters) RestoreUnread(previous, written map[int64]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := copyCounts(c.unread)
	for id, w := range written {
		if cur, ok := next[id]; ok == false || cur != w {
			continue
		}
		if p, ok := previous[id]; ok == true {
			next[id] = p
		} else {
			delete(next, id)
		}
	}
	c.unread = next
}

func withCount(m map[int64]int, feedID int64, n int) map[int64]int {
	if n < 0 {
		n = 0
	}
	next := copyCounts(m)
	next[feedID] = n
	return next
}

func copyCounts(m map[int64]int) map[int64]int {
	c := make(map[int64]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func floorCounts(m map[int64]int) map[int64]int {
	c := make(map[int64]int, len(m))
	for k, v := range m {
		if v < 0 {
			v = 0
		}
		c[k] = v
	}
	return c
}
