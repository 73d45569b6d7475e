// Package runner serializes access to one order book. The book itself
// is strictly single-threaded; callers that live on multiple
// goroutines enqueue closures here and a single dedicated goroutine
// applies them in arrival order.
package runner

import (
	"errors"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"skoll/internal/engine"
)

const commandBufferSize = 1024

var ErrStopped = errors.New("runner stopped")

type command func(*engine.OrderBook)

// Runner owns an order book and the goroutine that mutates it.
type Runner struct {
	book *engine.OrderBook
	cmds chan command
	t    *tomb.Tomb
}

// Start takes ownership of book and begins applying commands. The
// caller must not touch book directly afterwards.
func Start(book *engine.OrderBook) *Runner {
	r := &Runner{
		book: book,
		cmds: make(chan command, commandBufferSize),
		t:    new(tomb.Tomb),
	}
	r.t.Go(r.loop)
	return r
}

func (r *Runner) loop() error {
	log.Info().Msg("book runner started")
	for {
		select {
		case <-r.t.Dying():
			log.Info().Msg("book runner stopping")
			return nil
		case cmd := <-r.cmds:
			cmd(r.book)
		}
	}
}

// Do enqueues cmd to run on the book goroutine, blocking while the
// command buffer is full.
func (r *Runner) Do(cmd func(*engine.OrderBook)) error {
	// Checked on its own first: the enqueue select below picks
	// arbitrarily when both channels are ready.
	select {
	case <-r.t.Dying():
		return ErrStopped
	default:
	}
	select {
	case <-r.t.Dying():
		return ErrStopped
	case r.cmds <- cmd:
		return nil
	}
}

// Sync blocks until every command enqueued before it has been applied.
func (r *Runner) Sync() error {
	done := make(chan struct{})
	if err := r.Do(func(*engine.OrderBook) { close(done) }); err != nil {
		return err
	}
	select {
	case <-r.t.Dying():
		return ErrStopped
	case <-done:
		return nil
	}
}

// Stop shuts the runner down and waits for the book goroutine to exit.
// Commands still queued are dropped; call Sync first if they matter.
func (r *Runner) Stop() error {
	r.t.Kill(nil)
	return r.t.Wait()
}
