package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"blog-service/apperror"
	"blog-service/logging"
	"blog-service/validation"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies read by decodeBody.
const maxBodyBytes = 1 << 20

type routeKey struct{}
type requestIDKey struct{}

// RouteInfo names the route a request was matched to.
type RouteInfo struct {
	Name   string
	Method string
	Path   string
}

// WithRoute returns ctx carrying the matched route.
func WithRoute(ctx context.Context, info RouteInfo) context.Context {
	return context.WithValue(ctx, routeKey{}, info)
}

// Route returns the route stored by WithRoute, or the zero RouteInfo.
func Route(ctx context.Context) RouteInfo {
	info, _ := ctx.Value(routeKey{}).(RouteInfo)
	return info
}

// WithRequestID returns ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// logRequest logs message with the route, method, path and request id of the
// request being served.
func logRequest(ctx context.Context, log logging.Logger, level string, message string, fields ...zap.Field) {
	route := Route(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + route.Name + " - " + route.Method + " - " + route.Path
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", route.Name),
		zap.String("method", route.Method),
		zap.String("path", route.Path),
		zap.String("request_id", RequestID(ctx)),
	}, fields...)

	switch level {
	case "info":
		log.Info(logMsg, allFields...)
	case "error":
		log.Error(logMsg, allFields...)
	case "debug":
		log.Debug(logMsg, allFields...)
	}
}

type successResponse struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, key string, value any) {
	writeJSON(w, status, successResponse{Status: "success", Data: map[string]any{key: value}})
}

func writeList[T any](w http.ResponseWriter, key string, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Results: &n, Data: map[string]any{key: items}})
}

func writeUpdated(w http.ResponseWriter, message, key string, value any) {
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Message: message, Data: map[string]any{key: value}})
}

// WriteError writes the error envelope for err. Errors that are not
// *apperror.Error are reported as Internal with the fallback message, and
// causes are never written to the client.
func WriteError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(apperror.Internal, fallback, err)
	}

	resp := errorResponse{Status: "error", Message: appErr.Message}
	if appErr.Kind == apperror.Internal {
		if resp.Message == "" {
			resp.Message = fallback
		}
	} else {
		resp.Errors = appErr.Fields
	}
	writeJSON(w, appErr.Kind.Status(), resp)
}

// fail logs err at a level matching its kind and writes the error envelope.
func fail(ctx context.Context, log logging.Logger, w http.ResponseWriter, err error, fallback string) {
	if apperror.KindOf(err) == apperror.Internal {
		logRequest(ctx, log, "error", fallback, zap.Error(err))
	} else {
		logRequest(ctx, log, "info", "Request rejected", zap.String("reason", err.Error()))
	}
	WriteError(w, err, fallback)
}

// decodeBody reads a JSON object from r, checks it against schema and then
// unmarshals it into dst. Malformed JSON yields the Invalid JSON error and
// schema violations a Validation error.
func decodeBody(r *http.Request, schema validation.Schema, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperror.Wrap(apperror.Validation, apperror.MsgInvalidJSON, err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return apperror.Wrap(apperror.Validation, apperror.MsgInvalidJSON, err)
	}

	if fields := validation.Validate(body, schema); len(fields) > 0 {
		return apperror.NewValidation(fields)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperror.Wrap(apperror.Validation, apperror.MsgInvalidJSON, err)
	}
	return nil
}
