package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"rohatours/internal/domain"
)

// Action is the closed set of things a bookings request can ask for.
type Action int

const (
	ActionRejected Action = iota
	ActionCreate
	ActionList
	ActionPreflight
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionList:
		return "list"
	case ActionPreflight:
		return "preflight"
	default:
		return "rejected"
	}
}

// Classify maps an HTTP method onto an Action.
func Classify(method string) Action {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return ActionCreate
	case http.MethodGet:
		return ActionList
	case http.MethodOptions:
		return ActionPreflight
	default:
		return ActionRejected
	}
}

// Request is a transport-neutral bookings request.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Response is a transport-neutral bookings response. Header always carries
// the CORS set.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Bookings is what the router needs from the application layer.
type Bookings interface {
	Create(ctx context.Context, raw map[string]any) (string, error)
	List(ctx context.Context) ([]domain.Booking, error)
}

type handlerFunc func(ctx context.Context, req Request) Response

type Router struct {
	svc      Bookings
	handlers map[Action]handlerFunc
}

func NewRouter(svc Bookings) *Router {
	rt := &Router{svc: svc}
	rt.handlers = map[Action]handlerFunc{
		ActionCreate:    rt.create,
		ActionList:      rt.list,
		ActionPreflight: preflight,
		ActionRejected:  rejected,
	}
	return rt
}

// Route answers one request. It never panics on service errors and never
// returns them; every failure becomes a JSON response.
func (rt *Router) Route(ctx context.Context, req Request) Response {
	action := Classify(req.Method)
	resp := rt.handlers[action](ctx, req)
	withCORS(&resp)
	return resp
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

func withCORS(resp *Response) {
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	setCORS(resp.Header)
}

func setCORS(h http.Header) {
	for k, v := range corsHeaders {
		h.Set(k, v)
	}
}

type createdBody struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (rt *Router) create(ctx context.Context, req Request) Response {
	raw, err := decodeRecord(req.Body)
	if err != nil {
		return ErrorResponse(err)
	}
	id, err := rt.svc.Create(ctx, raw)
	if err != nil {
		return ErrorResponse(err)
	}
	return jsonResponse(http.StatusCreated, createdBody{Success: true, ID: id, Message: "Booking created successfully"})
}

func (rt *Router) list(ctx context.Context, _ Request) Response {
	bookings, err := rt.svc.List(ctx)
	if err != nil {
		return ErrorResponse(err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return jsonResponse(http.StatusOK, bookings)
}

func preflight(context.Context, Request) Response {
	return Response{Status: http.StatusOK, Header: http.Header{}}
}

func rejected(_ context.Context, req Request) Response {
	resp := jsonResponse(http.StatusMethodNotAllowed, errorBody{
		Success: false,
		Message: fmt.Sprintf("method %s not allowed", req.Method),
	})
	resp.Header.Set("Allow", "GET, POST")
	return resp
}

// decodeRecord parses a JSON object body. An empty body is an empty record.
func decodeRecord(body []byte) (map[string]any, error) {
	raw := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON body: trailing data after object", domain.ErrValidation)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// ErrorResponse converts an error into the failure response for its class.
func ErrorResponse(err error) Response {
	status, msg := classifyError(err)
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg("bookings request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("bookings request rejected")
	}
	resp := jsonResponse(status, errorBody{Success: false, Message: msg, Error: err.Error()})
	withCORS(&resp)
	return resp
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, "Server configuration error: database connection string is missing"
	case errors.Is(err, domain.ErrConnection):
		return http.StatusInternalServerError, "Could not connect to the database"
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError, "Database operation failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrValidation.Error())+2:]
	}
	if msg == "" {
		return "Invalid booking request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func jsonResponse(status int, v any) Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		status = http.StatusInternalServerError
		body = []byte(`{"success":false,"message":"Internal server error"}`)
	}
	return Response{Status: status, Header: h, Body: body}
}
