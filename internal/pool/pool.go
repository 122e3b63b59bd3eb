// Package pool runs the native ephemeris math in isolated worker
// subprocesses, one job at a time per worker, and schedules requests onto
// them from a bounded FIFO queue. Isolation exists because the native
// interpolation library underneath internal/nativeeph keeps file-handle and
// buffer state that is not safe to share across goroutines; a crash in one
// worker must not take the server down with it.
package pool

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/workerproto"
)

// ErrQueueFull means the bounded job queue had no room for a new submission.
var ErrQueueFull = apierr.ErrQueueFull

// ErrPoolClosed means Submit was called after Shutdown.
var ErrPoolClosed = apierr.ErrPoolClosed

// Config controls pool sizing and failure handling.
type Config struct {
	WorkerCount           int
	QueueSize             int
	JobTimeout            time.Duration
	MaxReplacementsPerMin int
	WorkerBinaryPath      string
	BundleID              string
}

// job is a queued unit of work plus the channel its result is delivered on.
type job struct {
	ctx     context.Context
	req     compute.Request
	replyCh chan jobReply
}

type jobReply struct {
	result compute.Result
	err    error
}

// Pool owns a fixed set of worker subprocesses and a FIFO job queue.
type Pool struct {
	cfg    Config
	log    *logrus.Logger
	queue  chan job
	slots  []*WorkerSlot
	nextID int

	mu       sync.Mutex
	closed   bool
	closedCh chan struct{}

	replacements *replacementLimiter
}

// New builds a Pool and starts its worker subprocesses. The caller must
// call Shutdown to release them.
func New(cfg Config, log *logrus.Logger) (*Pool, error) {
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("pool: worker count must be positive")
	}
	p := &Pool{
		cfg:          cfg,
		log:          log,
		queue:        make(chan job, cfg.QueueSize),
		closedCh:     make(chan struct{}),
		replacements: newReplacementLimiter(cfg.MaxReplacementsPerMin),
	}
	for i := 0; i < cfg.WorkerCount; i++ {
		slot, err := p.spawn()
		if err != nil {
			p.Shutdown(context.Background())
			return nil, fmt.Errorf("pool: spawn worker %d: %w", i, err)
		}
		p.slots = append(p.slots, slot)
		go p.run(slot)
	}
	return p, nil
}

// Submit enqueues req and blocks until a worker processes it, ctx is
// cancelled, or the job's own timeout elapses.
func (p *Pool) Submit(ctx context.Context, req compute.Request) (compute.Result, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return compute.Result{}, ErrPoolClosed
	}
	p.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, p.cfg.JobTimeout)
	defer cancel()

	j := job{ctx: jobCtx, req: req, replyCh: make(chan jobReply, 1)}
	select {
	case p.queue <- j:
	default:
		return compute.Result{}, ErrQueueFull
	}

	select {
	case r := <-j.replyCh:
		return r.result, r.err
	case <-jobCtx.Done():
		return compute.Result{}, fmt.Errorf("%w: %v", apierr.ErrTimeout, jobCtx.Err())
	}
}

// Shutdown drains in-flight work and terminates every worker process.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.closedCh)
	p.mu.Unlock()

	for _, s := range p.slots {
		s.setState(StateDraining)
		_ = s.send(workerproto.Message{Kind: workerproto.KindShutdown})
	}
	done := make(chan struct{})
	go func() {
		for _, s := range p.slots {
			<-s.exited
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		for _, s := range p.slots {
			s.kill()
		}
		return ctx.Err()
	}
}

// Status is a point-in-time snapshot of slot states and queue depth, used
// by the /healthz aggregate.
type Status struct {
	SlotsByState map[string]int
	QueueDepth   int
	QueueSize    int
}

// Status reports the current slot states and queue depth without
// interrupting scheduling.
func (p *Pool) Status() Status {
	counts := make(map[string]int)
	p.mu.Lock()
	slots := make([]*WorkerSlot, len(p.slots))
	copy(slots, p.slots)
	p.mu.Unlock()

	for _, s := range slots {
		counts[s.State().String()]++
	}
	return Status{SlotsByState: counts, QueueDepth: len(p.queue), QueueSize: cap(p.queue)}
}

// run is the per-slot scheduler loop: it pulls jobs off the shared queue
// and feeds them to this slot one at a time, watching for the slot to die.
func (p *Pool) run(slot *WorkerSlot) {
	for {
		select {
		case <-p.closedCh:
			return
		case <-slot.exited:
			p.replaceOrGiveUp(slot)
			return
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.serve(slot, j)
		}
	}
}

func (p *Pool) serve(slot *WorkerSlot, j job) {
	if j.ctx.Err() != nil {
		j.replyCh <- jobReply{err: j.ctx.Err()}
		return
	}
	slot.setState(StateBusy)
	defer slot.setState(StateIdle)

	payload, err := marshalJob(j.req)
	if err != nil {
		j.replyCh <- jobReply{err: err}
		return
	}
	if err := slot.send(workerproto.Message{Kind: workerproto.KindJob, Payload: payload}); err != nil {
		j.replyCh <- jobReply{err: fmt.Errorf("%w: %v", apierr.ErrWorkerCrashed, err)}
		return
	}

	resultCh := make(chan jobReply, 1)
	go func() {
		msg, err := slot.receive()
		if err != nil {
			resultCh <- jobReply{err: fmt.Errorf("%w: %v", apierr.ErrWorkerCrashed, err)}
			return
		}
		resultCh <- unmarshalReply(msg)
	}()

	select {
	case r := <-resultCh:
		j.replyCh <- r
	case <-j.ctx.Done():
		slot.kill() // a timed-out worker may be wedged; don't reuse it
		j.replyCh <- jobReply{err: fmt.Errorf("%w: %v", apierr.ErrTimeout, j.ctx.Err())}
	}
}

// replaceOrGiveUp is called when a slot's process has exited unexpectedly.
// It respects the replacement-rate limit so a worker that crashes
// immediately on every launch (a bad kernel bundle, say) doesn't spin the
// server into a fork bomb.
func (p *Pool) replaceOrGiveUp(slot *WorkerSlot) {
	slot.setState(StateDead)
	if !p.replacements.allow() {
		p.log.WithField("slot", slot.ID()).Error("worker crashed and replacement rate limit exceeded; slot left dead")
		return
	}
	backoff.Retry(func() error {
		select {
		case <-p.closedCh:
			return nil
		default:
		}
		newSlot, err := p.spawn()
		if err != nil {
			p.log.WithError(err).WithField("slot", slot.ID()).Warn("worker respawn failed, retrying")
			return err
		}
		p.mu.Lock()
		p.slots[indexOf(p.slots, slot)] = newSlot
		p.mu.Unlock()
		go p.run(newSlot)
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
}

func indexOf(slots []*WorkerSlot, s *WorkerSlot) int {
	for i, c := range slots {
		if c == s {
			return i
		}
	}
	return 0
}

// spawn starts one worker subprocess, wires its stdio, and waits for its
// KindReady handshake before returning an idle slot.
func (p *Pool) spawn() (*WorkerSlot, error) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.mu.Unlock()

	cmd := exec.Command(p.cfg.WorkerBinaryPath, "--bundle", p.cfg.BundleID)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = logrusStderrWriter{log: p.log, slotID: id}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	slot := &WorkerSlot{
		id:     id,
		state:  StateInitializing,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		exited: make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(slot.exited)
	}()

	msg, err := slot.receive()
	if err != nil || msg.Kind != workerproto.KindReady {
		slot.kill()
		return nil, fmt.Errorf("pool: worker %d did not become ready: %w", id, err)
	}
	slot.setState(StateIdle)
	return slot, nil
}
