package checks

import (
	"context"

	"go.uber.org/zap"
)

const (
	CheckNameAddress  = "address"
	CheckNameIdentity = "identity"
)

// Recorder receives the outcome of every check.
type Recorder interface {
	ObserveCheck(check string, approved bool)
}

type Option func(*Handler)

// WithRecorder reports every outcome to rec.
func WithRecorder(rec Recorder) Option {
	return func(h *Handler) { h.recorder = rec }
}

// WithRawIdentityLogging logs SSN and email unmasked.
func WithRawIdentityLogging() Option {
	return func(h *Handler) { h.rawIdentity = true }
}

// Handler runs the checks as workflow steps: one diagnostic line per call,
// then the result wrapped in a Response.
type Handler struct {
	logger      *zap.Logger
	recorder    Recorder
	rawIdentity bool
}

func NewHandler(logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Address(_ context.Context, req AddressRequest) (Response, error) {
	h.logger.Info("address information",
		zap.Stringp("street", req.Street),
		zap.Stringp("city", req.City),
		zap.Stringp("state", req.State),
		zap.Stringp("zip", req.Zip),
	)
	res := CheckAddress(req)
	h.observe(CheckNameAddress, res)
	return NewResponse(res), nil
}

func (h *Handler) Identity(_ context.Context, req IdentityRequest) (Response, error) {
	if h.rawIdentity {
		h.logger.Info("identity information",
			zap.Stringp("ssn", req.SSN),
			zap.Stringp("email", req.Email),
		)
	} else {
		h.logger.Info("identity information",
			zap.String("ssn", maskOrRedact(req.SSN, MaskSSN)),
			zap.String("email", maskOrRedact(req.Email, MaskEmail)),
		)
	}
	res := CheckIdentity(req)
	h.observe(CheckNameIdentity, res)
	return NewResponse(res), nil
}

func (h *Handler) observe(check string, res Result) {
	if h.recorder != nil {
		h.recorder.ObserveCheck(check, res.Approved)
	}
}
