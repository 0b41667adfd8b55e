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

// Receiver is the receiver side of a batched Naor-Pinkas base OT. Like
// Sender, it is bound to one io.ReadWriter for the duration of a Receive
// call and carries no state across calls.
type Receiver struct {
	rw  io.ReadWriter
	cfg config
}

// NewReceiver returns a Receiver that uses rw as its communication layer.
func NewReceiver(rw io.ReadWriter, opts ...Option) *Receiver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Receiver{rw: rw, cfg: cfg}
}

// receiverShare holds the per-instance randomness the receiver samples
// before it sees any A_i, and the candidate S_c. The other candidate,
// S_{1-c}, is computed from it in Receive's send loop for every instance.
// S_c and S_{1-c} are always both computed, regardless of the choice bit,
// so that which branch of step 2d fires never shows up as a difference in
// the sequence of group operations performed (spec.md §4.5, §9).
type receiverShare struct {
	d curve.Scalar // d_i
	s curve.Point  // S_{c_i} = g^{d_i}, the candidate the receiver can open
}

// Receive runs the receiver side of a batch of len(choices) oblivious
// transfers. choices[i] selects which of the sender's two messages
// instance i recovers. Any error aborts the whole batch: no partial
// results are returned.
func (r *Receiver) Receive(ctx context.Context, choices []uint8) (m []kdf.Key, err error) {
	n := len(choices)
	for i, c := range choices {
		if c != 0 && c != 1 {
			return nil, fmt.Errorf("%w: choices[%d] = %d is not a binary bit", ErrInvalidArgument, i, c)
		}
	}

	logger := r.logger(ctx).WithValues("protocol", "naor-pinkas-ot", "role", "receiver", "n", n)
	state := receiverInit

	fail := func(err error) (receiverState, error) {
		logger.Error(err, "base OT batch failed", "fromState", state)
		return receiverFailed, err
	}

	kdfImpl, kerr := kdf.New(r.cfg.kdfMode)
	if kerr != nil {
		state, err = fail(&CryptoError{Err: kerr})
		return nil, err
	}

	// step 1: receive the batch-wide point M.
	M, rerr := wire.ReceivePoint(r.rw)
	if rerr != nil {
		state, err = fail(classifyPointErr(rerr))
		return nil, err
	}
	state = receiverRecvM
	logger.V(1).Info("received M", "state", state)

	if n == 0 {
		state = receiverDone
		return nil, nil
	}

	// step 2: for every instance, sample d_i and compute both candidate
	// points, then send S_0, always S_0, regardless of choice, per the
	// constant-time discipline spec.md §4.5/§9 require.
	shares := make([]receiverShare, n)
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
				d, err := curve.RandomScalarNonzero()
				if err != nil {
					return &CryptoError{Err: fmt.Errorf("sampling d_%d: %w", i, err)}
				}
				shares[i] = receiverShare{d: d, s: curve.GeneratorMul(d)}
			}
			return nil
		})
	}
	if werr := g.Wait(); werr != nil {
		state, err = fail(werr)
		return nil, err
	}
	// d_i is sensitive (spec.md §3); scrub every share's scalar once this
	// call is done with it, on every exit path from here on.
	defer func() {
		for i := range shares {
			shares[i].d.Zeroize()
		}
	}()

	for i := 0; i < n; i++ {
		sc := shares[i].s               // S_{c_i} = g^{d_i}
		sOther := M.Sub(sc)             // S_{1-c_i} = M . (S_{c_i})^{-1}, always computed
		var s0 curve.Point
		if choices[i] == 1 {
			s0 = sOther
		} else {
			s0 = sc
		}
		if werr := wire.SendPoint(r.rw, s0); werr != nil {
			state, err = fail(classifyPointErr(werr))
			return nil, err
		}
	}
	state = receiverSentAllS
	logger.V(1).Info("sent all S0_i", "state", state)

	// step 3: receive all A_i = g^{r_i}, in index order.
	a := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		p, rerr := wire.ReceivePoint(r.rw)
		if rerr != nil {
			state, err = fail(classifyPointErr(rerr))
			return nil, err
		}
		a[i] = p
	}
	state = receiverRecvAllA
	logger.V(1).Info("received all A_i", "state", state)

	// step 4: K_i = A_i^{d_i}; derive the key for the chosen slot.
	m = make([]kdf.Key, n)
	g2, gctx2 := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g2.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gctx2.Done():
					return gctx2.Err()
				default:
				}
				k := a[i].Mul(shares[i].d)
				m[i] = kdfImpl.HashPoint(k, uint64(choices[i]))
			}
			return nil
		})
	}
	if werr := g2.Wait(); werr != nil {
		zeroKeys(m)
		state, err = fail(werr)
		return nil, err
	}

	state = receiverDone
	logger.V(1).Info("batch complete", "state", state)
	return m, nil
}

func (r *Receiver) logger(ctx context.Context) logr.Logger {
	if r.cfg.logger != nil {
		return *r.cfg.logger
	}
	return baselog.FromContextOrDiscard(ctx)
}
