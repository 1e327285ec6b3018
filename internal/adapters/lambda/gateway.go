package lambda

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	httpserver "rohatours/internal/adapters/http_server"
	"rohatours/internal/domain"
)

// Handler answers API Gateway proxy events with the bookings router.
type Handler struct{ Router *httpserver.Router }

func (h *Handler) Handle(ctx context.Context, evt events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(evt.Body)
	if evt.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return toProxy(httpserver.ErrorResponse(fmt.Errorf("%w: body is not valid base64: %v", domain.ErrValidation, err))), nil
		}
		body = b
	}
	if len(body) > httpserver.MaxBodyBytes {
		return toProxy(httpserver.ErrorResponse(fmt.Errorf("%w: request body too large", domain.ErrValidation))), nil
	}
	resp := h.Router.Route(ctx, httpserver.Request{Method: evt.HTTPMethod, Path: evt.Path, Body: body})
	return toProxy(resp), nil
}

func toProxy(resp httpserver.Response) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}
