package bench

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/lfring/mpmcbench/internal/affinity"
	"github.com/lfring/mpmcbench/internal/cycle"
	"github.com/lfring/mpmcbench/internal/pause"
	"github.com/lfring/mpmcbench/internal/payload"
	"github.com/lfring/mpmcbench/internal/ring"
	"github.com/lfring/mpmcbench/internal/signal"
)

// sampleRate is the 1-in-N latency sampling rate: every Nth successful
// operation's latency is recorded into the histogram, weighted by N, so
// the histogram estimates the full population without timing every op.
const sampleRate = 100

// maxBackoffCycles caps the exponential backoff applied after a failed
// non-blocking push or pop.
const maxBackoffCycles = 256

// RunOnce runs a single harness pass to completion and returns the
// combined Results. It blocks for approximately cfg.warmup()+cfg.duration()
// (plus calibration and goroutine startup/teardown), or returns early with
// ctx.Err() if ctx is cancelled first.
func RunOnce(ctx context.Context, cfg Config) (Results, error) {
	if err := cfg.Validate(); err != nil {
		return Results{}, err
	}

	switch {
	case !cfg.LargePayload && !cfg.MoveOnlyPayload:
		return runOnce(ctx, cfg, payload.NewScalar)
	case cfg.LargePayload && !cfg.MoveOnlyPayload:
		return runOnce(ctx, cfg, payload.NewLarge)
	case !cfg.LargePayload && cfg.MoveOnlyPayload:
		return runOnce(ctx, cfg, payload.NewScalarPtr)
	default:
		return runOnce(ctx, cfg, payload.NewLargePtr)
	}
}

func runOnce[T any](ctx context.Context, cfg Config, newItem func(uint64) T) (Results, error) {
	var ringOpts []ring.Option
	if cfg.PaddingOn {
		ringOpts = append(ringOpts, ring.WithPadding())
	}
	r, err := ring.New[T](cfg.Capacity, ringOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("bench: %w", err)
	}

	counter := cycle.New()
	nsPerTick := cycle.Calibrate(counter, 100*time.Millisecond)

	collecting := signal.New()
	done := signal.New()

	numCPU := runtime.NumCPU()
	total := cfg.NumProducers + cfg.NumConsumers

	resultsCh := make(chan Results, total)
	bindErrCh := make(chan error, total)
	var wg sync.WaitGroup

	for p := 0; p < cfg.NumProducers; p++ {
		wg.Add(1)
		core := p % numCPU
		go func(p, core int) {
			defer wg.Done()
			res := newResults(cfg)
			runProducer(r, newItem, uint64(p), cfg.NumProducers, cfg, core, counter, nsPerTick, collecting, done, bindErrCh, &res)
			resultsCh <- res
		}(p, core)
	}

	for c := 0; c < cfg.NumConsumers; c++ {
		wg.Add(1)
		core := (c + cfg.NumProducers) % numCPU
		go func(core int) {
			defer wg.Done()
			res := newResults(cfg)
			runConsumer(r, cfg, core, counter, nsPerTick, collecting, done, bindErrCh, &res)
			resultsCh <- res
		}(core)
	}

	start := time.Now()
	if err := waitPhase(ctx, cfg.warmup(), bindErrCh); err != nil {
		done.Set()
		wg.Wait()
		return Results{}, err
	}
	collecting.Set()

	if err := waitPhase(ctx, cfg.duration()-cfg.warmup(), bindErrCh); err != nil {
		done.Set()
		wg.Wait()
		return Results{}, err
	}
	done.Set()

	wg.Wait()
	close(resultsCh)
	wallTime := time.Since(start) - cfg.warmup()

	combined := newResults(cfg)
	combined.WallTime = wallTime
	for res := range resultsCh {
		combined.combine(res)
	}
	combined.finalize()

	r.Close()

	return combined, nil
}

// waitPhase sleeps for d, but returns early with ctx.Err() if ctx is
// cancelled or with a worker's reported error if one arrives on errCh
// (e.g. a failed CPU pin, which spec.md §7 treats as fatal to the run).
func waitPhase(ctx context.Context, d time.Duration, errCh <-chan error) error {
	if d <= 0 {
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runProducer drives one producer goroutine: optional pinning, a warmup
// loop that runs the same operation but discards timing, and a
// measurement loop that samples latency into res until done is set.
func runProducer[T any](
	r *ring.Ring[T],
	newItem func(uint64) T,
	id uint64,
	numProducers int,
	cfg Config,
	core int,
	counter cycle.Counter,
	nsPerTick float64,
	collecting, done *signal.Flag,
	bindErrCh chan<- error,
	res *Results,
) {
	if cfg.PinningOn {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := affinity.Bind(core); err != nil {
			bindErrCh <- fmt.Errorf("bench: producer %d: %w", id, err)
			return
		}
	}

	var seq uint64 = id
	var sampleCounter uint64

	// warmup: run the same code path, but don't touch res's latency fields.
	for !collecting.Is() && !done.Is() {
		v := newItem(seq)
		seq += uint64(numProducers)
		if cfg.Blocking {
			r.Push(v)
		} else {
			if ok := tryPushBackoff(r, v, done, nil); !ok {
				return
			}
		}
	}

	for !done.Is() {
		v := newItem(seq)
		seq += uint64(numProducers)

		startTick := counter.Read()
		if cfg.Blocking {
			r.Push(v)
		} else {
			if ok := tryPushBackoff(r, v, done, res); !ok {
				break
			}
		}
		endTick := counter.Read()

		res.PushesOK++
		latencyNS := int64(float64(endTick-startTick) * nsPerTick)
		res.PushLatencies.MinNS = min64(res.PushLatencies.MinNS, latencyNS)
		res.PushLatencies.MaxNS = max64(res.PushLatencies.MaxNS, latencyNS)

		sampleCounter++
		if sampleCounter%sampleRate == 0 {
			res.PushHistogram.Record(latencyNS, sampleRate)
		}
	}
}

// runConsumer is runProducer's mirror image on the pop side.
func runConsumer[T any](
	r *ring.Ring[T],
	cfg Config,
	core int,
	counter cycle.Counter,
	nsPerTick float64,
	collecting, done *signal.Flag,
	bindErrCh chan<- error,
	res *Results,
) {
	if cfg.PinningOn {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := affinity.Bind(core); err != nil {
			bindErrCh <- fmt.Errorf("bench: consumer: %w", err)
			return
		}
	}

	var sampleCounter uint64

	for !collecting.Is() && !done.Is() {
		if cfg.Blocking {
			r.Pop()
		} else {
			if ok := tryPopBackoff(r, done, nil); !ok {
				return
			}
		}
	}

	for !done.Is() {
		startTick := counter.Read()
		if cfg.Blocking {
			r.Pop()
		} else {
			if ok := tryPopBackoff(r, done, res); !ok {
				break
			}
		}
		endTick := counter.Read()

		res.PopsOK++
		latencyNS := int64(float64(endTick-startTick) * nsPerTick)
		res.PopLatencies.MinNS = min64(res.PopLatencies.MinNS, latencyNS)
		res.PopLatencies.MaxNS = max64(res.PopLatencies.MaxNS, latencyNS)

		sampleCounter++
		if sampleCounter%sampleRate == 0 {
			res.PopHistogram.Record(latencyNS, sampleRate)
		}
	}
}

// tryPushBackoff retries TryPush with exponential pause-backoff until it
// succeeds or done is set; returns false in the latter case. res may be
// nil (warmup), in which case failures go untallied.
func tryPushBackoff[T any](r *ring.Ring[T], v T, done *signal.Flag, res *Results) bool {
	k := uint32(1)
	for {
		if r.TryPush(v) {
			return true
		}
		if res != nil {
			res.TryPushFailures++
		}
		if done.Is() {
			return false
		}
		pause.CPU(k)
		if k < maxBackoffCycles {
			k *= 2
		}
	}
}

// tryPopBackoff is tryPushBackoff's pop-side mirror.
func tryPopBackoff[T any](r *ring.Ring[T], done *signal.Flag, res *Results) bool {
	k := uint32(1)
	for {
		if _, ok := r.TryPop(); ok {
			return true
		}
		if res != nil {
			res.TryPopFailures++
		}
		if done.Is() {
			return false
		}
		pause.CPU(k)
		if k < maxBackoffCycles {
			k *= 2
		}
	}
}
