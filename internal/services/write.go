package services

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"risk-registry/internal/apperr"
	"risk-registry/internal/logger"
	"risk-registry/internal/metrics"
)

type writeState string

const (
	statePending    writeState = "pending"
	stateValidating writeState = "validating"
	stateWriting    writeState = "writing"
	stateCommitted  writeState = "committed"
	stateRejected   writeState = "rejected"
	stateRolledBack writeState = "rolled_back"
)

// write follows one mutating request through
// pending -> validating -> writing -> committed, ending early in rejected
// (nothing written) or rolled_back (the transaction failed).
type write struct {
	entity  string
	op      string
	state   writeState
	log     *logger.Logger
	metrics *metrics.Metrics
}

func newWrite(log *logger.Logger, m *metrics.Metrics, entity, op string) *write {
	return &write{
		entity:  entity,
		op:      op,
		state:   statePending,
		log:     log.With("entity", entity, "op", op),
		metrics: m,
	}
}

func (w *write) to(next writeState) {
	w.log.Debug("write state", "from", w.state, "to", next)
	w.state = next
}

func (w *write) finish(final writeState) {
	w.to(final)
	w.metrics.ObserveWrite(w.entity, string(final))
}

func (w *write) commit() {
	w.finish(stateCommitted)
}

// reject ends a write that failed validation before anything was written.
func (w *write) reject(err error) error {
	if errors.Is(err, apperr.ErrValidation) {
		w.metrics.ObserveValidationFailure(w.entity)
	}
	w.finish(stateRejected)
	return err
}

// fail ends a write whose transaction did not commit. Not-found and
// validation outcomes are passed through as rejections; anything else
// becomes a storage error unless it already carries an application kind.
func (w *write) fail(err error, options ...goerr.Option) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrValidation):
		return w.reject(err)
	case errors.Is(err, apperr.ErrInvalidState):
		w.log.Error("invariant violated", "error", err)
		w.finish(stateRolledBack)
		return err
	default:
		w.log.Error("transaction rolled back", "error", err)
		w.finish(stateRolledBack)
		options = append(options, goerr.V(apperr.EntityKey, w.entity), goerr.V("op", w.op))
		return apperr.Storage(err, w.op+" "+w.entity, options...)
	}
}
