package xtpool

import "github.com/omeyang/xtpool/pkg/observability/xmetrics"

// Stats 是 pool 某一时刻的只读快照。
type Stats struct {
	Name             string
	ID               string
	State            State
	Workers          int
	LiveWorkers      int
	WaitingWorkers   int
	ExecutingWorkers int
	Capacity         int
	Queued           int
	Submitted        uint64
	Rejected         uint64
	Executed         uint64
	Discarded        uint64
	Released         bool
}

// Stats 返回当前状态快照。nil Pool 返回零值。
func (p *Pool) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	p.mu.Lock()
	s := Stats{
		Name:           p.name,
		ID:             p.id,
		State:          p.state,
		Workers:        len(p.workers),
		LiveWorkers:    p.live,
		WaitingWorkers: p.waiting,
		Capacity:       p.capacity,
		Queued:         p.queue.Len(),
		Released:       p.released,
	}
	for _, w := range p.workers {
		if w.getState() == WorkerExecuting {
			s.ExecutingWorkers++
		}
	}
	p.mu.Unlock()

	s.Submitted = p.submitted.Load()
	s.Rejected = p.rejected.Load()
	s.Executed = p.executed.Load()
	s.Discarded = p.discarded.Load()
	return s
}

// WorkerStates 返回每个 worker 的当前状态，下标即 worker 编号。
// 资源释放后返回 nil。
func (p *Pool) WorkerStates() []WorkerState {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.workers) == 0 {
		return nil
	}
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = w.getState()
	}
	return states
}

// ID 返回 pool 实例 ID。
func (p *Pool) ID() string {
	if p == nil {
		return ""
	}
	return p.id
}

// Name 返回 pool 名称。
func (p *Pool) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// snapshot 为指标回调提供观测值。
func (p *Pool) snapshot() xmetrics.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return xmetrics.Snapshot{
		Queued:      p.queue.Len(),
		Capacity:    p.capacity,
		LiveWorkers: p.live,
		IdleWorkers: p.waiting,
	}
}
