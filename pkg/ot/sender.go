package ot

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/optable/baseot/internal/curve"
	"github.com/optable/baseot/internal/kdf"
	baselog "github.com/optable/baseot/internal/log"
	"github.com/optable/baseot/internal/wire"
)

// Sender is the sender side of a batched Naor-Pinkas base OT. A Sender is
// bound to one io.ReadWriter for the duration of a Send call; it holds no
// state across calls, and nothing about it is safe to share across
// concurrent Send calls on the same Transport (spec.md §5).
type Sender struct {
	rw  io.ReadWriter
	cfg config
}

// NewSender returns a Sender that uses rw as its communication layer.
func NewSender(rw io.ReadWriter, opts ...Option) *Sender {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Sender{rw: rw, cfg: cfg}
}

// senderShare holds the per-instance randomness and precomputed points the
// sender needs before it can see the receiver's s_i (spec.md §4.4 steps
// 1-2), kept separate from the points derived afterward so the ordering
// contract (M and A_i precede seeing any s_i) is visible in the types.
type senderShare struct {
	r curve.Scalar // r_i
	a curve.Point  // A_i = g^{r_i}
	b curve.Point  // B_i = M^{r_i}
}

// Send runs the sender side of a batch of n oblivious transfers over s's
// Transport. It returns the two message slots m0, m1 for every instance;
// the receiver's Receive call against a matching choice bit recovers
// m0[i] or m1[i] accordingly. Any error aborts the whole batch: no partial
// results are returned.
func (s *Sender) Send(ctx context.Context, n int) (m0, m1 []kdf.Key, err error) {
	if n < 0 {
		return nil, nil, ErrInvalidArgument
	}

	logger := s.logger(ctx).WithValues("protocol", "naor-pinkas-ot", "role", "sender", "n", n)
	state := senderInit

	fail := func(err error) (senderState, error) {
		logger.Error(err, "base OT batch failed", "fromState", state)
		return senderFailed, err
	}

	kdfImpl, kerr := kdf.New(s.cfg.kdfMode)
	if kerr != nil {
		state, err = fail(&CryptoError{Err: kerr})
		return nil, nil, err
	}

	// step 1: sample the batch-wide point M and send it. A fresh M is
	// sampled for every batch and never reused.
	M, perr := curve.RandomPoint()
	if perr != nil {
		state, err = fail(&CryptoError{Err: perr})
		return nil, nil, err
	}
	if werr := wire.SendPoint(s.rw, M); werr != nil {
		state, err = fail(classifyPointErr(werr))
		return nil, nil, err
	}
	state = senderSentM
	logger.V(1).Info("sent M", "state", state)

	if n == 0 {
		state = senderDone
		return nil, nil, nil
	}

	// step 2: precompute r_i, A_i = g^{r_i}, B_i = M^{r_i} for every
	// instance, before looking at any s_i (the ordering contract this
	// enforces is what keeps the receiver from choosing s_i adaptively
	// after it has seen A_i).
	shares, serr := s.precompute(ctx, n, M)
	if serr != nil {
		state, err = fail(serr)
		return nil, nil, err
	}
	// r_i is sensitive (spec.md §3); scrub every share's scalar once this
	// call is done with it, on every exit path from here on.
	defer func() {
		for i := range shares {
			shares[i].r.Zeroize()
		}
	}()

	// step 3: receive all s_i, in index order, before sending any A_i.
	points := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		p, rerr := wire.ReceivePoint(s.rw)
		if rerr != nil {
			state, err = fail(classifyPointErr(rerr))
			return nil, nil, err
		}
		points[i] = p
	}
	state = senderRecvAllS
	logger.V(1).Info("received all s_i", "state", state)

	// step 4: send all A_i, in index order.
	for i := 0; i < n; i++ {
		if werr := wire.SendPoint(s.rw, shares[i].a); werr != nil {
			state, err = fail(classifyPointErr(werr))
			return nil, nil, err
		}
	}
	state = senderSentAllA
	logger.V(1).Info("sent all A_i", "state", state)

	// step 5-6: T0_i = s_i^{r_i}, T1_i = M^{r_i} . (T0_i)^{-1}; derive keys.
	m0 = make([]kdf.Key, n)
	m1 = make([]kdf.Key, n)
	g, gctx := errgroup.WithContext(ctx)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				t0 := points[i].Mul(shares[i].r)
				t1 := shares[i].b.Sub(t0)
				m0[i] = kdfImpl.HashPoint(t0, 0)
				m1[i] = kdfImpl.HashPoint(t1, 1)
			}
			return nil
		})
	}
	if werr := g.Wait(); werr != nil {
		zeroKeys(m0)
		zeroKeys(m1)
		state, err = fail(werr)
		return nil, nil, err
	}

	state = senderDone
	logger.V(1).Info("batch complete", "state", state)
	return m0, m1, nil
}

// precompute samples r_i and derives A_i, B_i for every instance in
// parallel. This is pure CPU-bound group arithmetic with no dependency
// between instances, the same shape as kkrtpsi.Sender's bucket-encoding
// fan-out.
func (s *Sender) precompute(ctx context.Context, n int, M curve.Point) ([]senderShare, error) {
	shares := make([]senderShare, n)

	g, gctx := errgroup.WithContext(ctx)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				r, err := curve.RandomScalar()
				if err != nil {
					return &CryptoError{Err: fmt.Errorf("sampling r_%d: %w", i, err)}
				}
				shares[i] = senderShare{
					r: r,
					a: curve.GeneratorMul(r),
					b: M.Mul(r),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shares, nil
}

func (s *Sender) logger(ctx context.Context) logr.Logger {
	if s.cfg.logger != nil {
		return *s.cfg.logger
	}
	return baselog.FromContextOrDiscard(ctx)
}
