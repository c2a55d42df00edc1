package state

import "sync"

type delivery struct {
	state State
	seq   uint64
}

type subscriber struct {
	fn func(State)

	mu      sync.Mutex
	last    State
	lastSeq uint64
	queue   []delivery
	busy    bool
}

// deliver 同一订阅者的推送串行执行；回调里再次修改 Store 时排队，由外层循环继续推送
func (sub *subscriber) deliver(st State, seq uint64) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, delivery{state: st, seq: seq})
	if sub.busy {
		sub.mu.Unlock()
		return
	}
	sub.busy = true
	sub.drain()
}

// drain 调用前持有 sub.mu 且 busy=true
func (sub *subscriber) drain() {
	for len(sub.queue) > 0 {
		next := sub.queue[0]
		sub.queue = sub.queue[1:]
		// 并发发布时后修改的可能先到，旧的直接丢弃
		if next.seq <= sub.lastSeq {
			continue
		}
		sub.lastSeq = next.seq
		if next.state.Equal(sub.last) {
			continue
		}
		sub.last = next.state
		sub.mu.Unlock()
		sub.fn(next.state)
		sub.mu.Lock()
	}
	sub.busy = false
	sub.mu.Unlock()
}

// Subscribe 订阅状态变化，订阅时立即收到当前状态
// 推送在发布方的 goroutine 中同步执行，订阅者之间没有顺序保证
// 与上一次推送相同的状态不会重复推送
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	sub := &subscriber{fn: fn, busy: true}

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.subMu.Unlock()

	// 注册之后到首次推送之间的发布进入队列
	s.mu.RLock()
	current, seq := s.state, s.seq
	s.mu.RUnlock()
	sub.mu.Lock()
	sub.last = current
	sub.lastSeq = seq
	sub.mu.Unlock()
	fn(current)

	sub.mu.Lock()
	sub.drain()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// broadcast 必须在 s.mu 之外调用
func (s *Store) broadcast(st State, seq uint64) {
	s.subMu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.deliver(st, seq)
	}
}

// Subscribers 当前订阅者数量
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
