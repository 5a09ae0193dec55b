// Package server provides Connect RPC handlers for the study service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/session"
	"github.com/at-ishikawa/recall/internal/statistics"
	"github.com/at-ishikawa/recall/internal/study"
)

const (
	StudyServiceName = "recall.study.v1.StudyService"

	StartSessionProcedure     = "/" + StudyServiceName + "/StartSession"
	RecordAnswerProcedure     = "/" + StudyServiceName + "/RecordAnswer"
	EndSessionProcedure       = "/" + StudyServiceName + "/EndSession"
	GetModuleSummaryProcedure = "/" + StudyServiceName + "/GetModuleSummary"

	errorDomain = "recall.study.v1"
)

//go:generate mockgen -source=study_handler.go -destination=../mocks/server/mock_study_service.go -package=mock_server

// StudyService is the study logic served over RPC.
type StudyService interface {
	StartSession(ctx context.Context, learnerID, moduleID int64, mode session.Mode) (*study.StartedSession, error)
	RecordAnswer(ctx context.Context, learnerID int64, sessionID string, itemID int64, quality int, durationMs int64) (*scheduler.State, error)
	EndSession(ctx context.Context, learnerID int64, sessionID string) error
	ModuleSummary(ctx context.Context, learnerID, moduleID int64) (statistics.Summary, error)
}

// StudyHandler serves StudyService. The caller's learner ID is taken from a
// header set by the authenticating gateway.
type StudyHandler struct {
	service       StudyService
	learnerHeader string
	validator     *validator.Validate
	translator    ut.Translator
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(service StudyService, cfg config.StudyConfig) (*StudyHandler, error) {
	validate, trans, err := config.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("config.NewValidator() > %w", err)
	}
	return &StudyHandler{
		service:       service,
		learnerHeader: cfg.LearnerHeader,
		validator:     validate,
		translator:    trans,
	}, nil
}

// NewStudyServiceHandler builds the HTTP handler for every StudyService
// procedure and returns the path prefix to mount it on.
func NewStudyServiceHandler(h *StudyHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(StartSessionProcedure, connect.NewUnaryHandler(StartSessionProcedure, h.StartSession, opts...))
	mux.Handle(RecordAnswerProcedure, connect.NewUnaryHandler(RecordAnswerProcedure, h.RecordAnswer, opts...))
	mux.Handle(EndSessionProcedure, connect.NewUnaryHandler(EndSessionProcedure, h.EndSession, opts...))
	mux.Handle(GetModuleSummaryProcedure, connect.NewUnaryHandler(GetModuleSummaryProcedure, h.GetModuleSummary, opts...))
	return "/" + StudyServiceName + "/", mux
}

// StartSession opens a session over the module's items selected by mode.
func (h *StudyHandler) StartSession(
	ctx context.Context,
	req *connect.Request[StartSessionRequest],
) (*connect.Response[StartSessionResponse], error) {
	learnerID, err := h.learnerID(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	mode := session.ModeNormal
	if req.Msg.Mode != "" {
		mode, err = session.ParseMode(req.Msg.Mode)
		if err != nil {
			return nil, badRequest("mode", err.Error())
		}
	}

	started, err := h.service.StartSession(ctx, learnerID, req.Msg.ModuleID, mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	items := make([]ItemView, 0, len(started.Items))
	for _, v := range started.Items {
		items = append(items, ItemView{
			ItemID:        v.Item.ID,
			Type:          string(v.Item.Type),
			Payload:       v.Item.Payload,
			ContentHash:   v.Item.ContentHash,
			Version:       v.Item.Version,
			LastResult:    string(v.LastResult),
			StrengthScore: v.StrengthScore,
			Box:           v.Box,
			Interval:      v.Interval,
			EaseFactor:    v.EaseFactor,
			Repetition:    v.Repetition,
			NextReviewAt:  v.NextReviewAt,
			IsRetired:     v.IsRetired,
			Stale:         v.Stale,
		})
	}
	return connect.NewResponse(&StartSessionResponse{
		SessionID: started.ID,
		ModuleID:  started.ModuleID,
		Mode:      string(started.Mode),
		StartedAt: started.StartedAt,
		Items:     items,
	}), nil
}

// RecordAnswer grades one item of an open session.
func (h *StudyHandler) RecordAnswer(
	ctx context.Context,
	req *connect.Request[RecordAnswerRequest],
) (*connect.Response[RecordAnswerResponse], error) {
	learnerID, err := h.learnerID(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	st, err := h.service.RecordAnswer(ctx, learnerID, req.Msg.SessionID, req.Msg.ItemID, req.Msg.Quality, req.Msg.DurationMs)
	if err != nil {
		return nil, toConnectError(err)
	}

	var resp RecordAnswerResponse
	if st != nil {
		resp.State = &SchedulerState{
			Interval:     st.Interval,
			EaseFactor:   st.EaseFactor,
			Repetition:   st.Repetition,
			IsRetired:    st.IsRetired,
			NextReviewAt: st.NextReviewAt,
		}
	}
	return connect.NewResponse(&resp), nil
}

// EndSession closes an open session.
func (h *StudyHandler) EndSession(
	ctx context.Context,
	req *connect.Request[EndSessionRequest],
) (*connect.Response[EndSessionResponse], error) {
	learnerID, err := h.learnerID(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := h.service.EndSession(ctx, learnerID, req.Msg.SessionID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&EndSessionResponse{}), nil
}

// GetModuleSummary returns the caller's progress through a module.
func (h *StudyHandler) GetModuleSummary(
	ctx context.Context,
	req *connect.Request[GetModuleSummaryRequest],
) (*connect.Response[GetModuleSummaryResponse], error) {
	learnerID, err := h.learnerID(req.Header())
	if err != nil {
		return nil, err
	}
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	s, err := h.service.ModuleSummary(ctx, learnerID, req.Msg.ModuleID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetModuleSummaryResponse{
		ModuleID:       s.ModuleID,
		TotalItems:     s.TotalItems,
		StudiedItems:   s.StudiedItems,
		DueItems:       s.DueItems,
		RetiredItems:   s.RetiredItems,
		StaleItems:     s.StaleItems,
		CorrectAnswers: s.CorrectAnswers,
		WrongAnswers:   s.WrongAnswers,
		Accuracy:       s.Accuracy,
		Boxes:          s.Boxes[:],
	}), nil
}

func (h *StudyHandler) learnerID(header http.Header) (int64, error) {
	raw := header.Get(h.learnerHeader)
	if raw == "" {
		return 0, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("missing %s header", h.learnerHeader))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("invalid %s header %q", h.learnerHeader, raw))
	}
	return id, nil
}

func (h *StudyHandler) validateRequest(msg any) *connect.Error {
	err := h.validator.Struct(msg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	connectErr := connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid request: %w", err))
	var fieldViolations []*errdetails.BadRequest_FieldViolation
	for _, e := range validationErrors {
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       e.Field(),
			Description: e.Translate(h.translator),
		})
	}
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

func badRequest(field, description string) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid %s: %s", field, description))
	if detail, err := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: description}},
	}); err == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, study.ErrAccessDenied), errors.Is(err, study.ErrUnauthorized):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, study.ErrModuleNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, study.ErrNoItemsAvailable):
		reason := "NO_ITEMS_AVAILABLE"
		if errors.Is(err, study.ErrModuleEmpty) {
			reason = "MODULE_EMPTY"
		}
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		if detail, detailErr := connect.NewErrorDetail(&errdetails.ErrorInfo{
			Reason: reason,
			Domain: errorDomain,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, study.ErrInvalidSession), errors.Is(err, study.ErrItemMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	slog.Default().Error("study service failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// NewLoggingInterceptor logs every unary call with its duration and result code.
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("rpc failed", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
				return resp, err
			}
			logger.Debug("rpc", attrs...)
			return resp, nil
		}
	}
}
