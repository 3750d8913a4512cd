// Package shutdown cancels a command's context on SIGINT or SIGTERM so that
// pending conversions in a batch are abandoned instead of started.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/diagram-common/logger"
)

// Handler owns the signal subscription of one command run.
type Handler struct {
	mut     sync.Mutex
	hooks   []func()
	signals chan os.Signal
	cancel  context.CancelFunc
	once    sync.Once
	done    chan struct{}
}

// SetupHandler subscribes to SIGINT and SIGTERM and returns a context that is
// canceled when either arrives, after the registered hooks have run.
// Call Stop when the run is over.
func SetupHandler(parent context.Context) (context.Context, *Handler) {
	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		signals: make(chan os.Signal, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)

	go h.wait(ctx)

	return ctx, h
}

func (h *Handler) wait(ctx context.Context) {
	defer close(h.done)

	select {
	case sig := <-h.signals:
		logger.Get(ctx).WarnContext(ctx, "Received "+sig.String()+", shutting down")
		h.cleanup()
		h.cancel()
	case <-ctx.Done():
	}
}

// BeforeShutdown registers a hook that runs before the context is canceled.
func (h *Handler) BeforeShutdown(hook func()) {
	h.mut.Lock()
	defer h.mut.Unlock()

	h.hooks = append(h.hooks, hook)
}

// Shutdown triggers the shutdown sequence as if a signal had been received.
func (h *Handler) Shutdown() {
	select {
	case h.signals <- os.Interrupt:
	default:
	}
}

// Stop unsubscribes from signals and releases the context. Hooks do not run.
func (h *Handler) Stop() {
	h.once.Do(func() {
		signal.Stop(h.signals)
		h.cancel()
		<-h.done
	})
}

func (h *Handler) cleanup() {
	h.mut.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mut.Unlock()

	for _, hook := range hooks {
		hook()
	}
}
