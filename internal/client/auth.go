package client

import (
	"context"

	"connectrpc.com/connect"
)

const apiKeyHeader = "X-API-Key"

type apiKeyInterceptor struct {
	apiKey string
}

func newAPIKeyInterceptor(apiKey string) *apiKeyInterceptor {
	return &apiKeyInterceptor{apiKey: apiKey}
}

func (i *apiKeyInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if i.apiKey != "" {
			req.Header().Set(apiKeyHeader, i.apiKey)
		}
		return next(ctx, req)
	}
}

func (i *apiKeyInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if i.apiKey != "" {
			conn.RequestHeader().Set(apiKeyHeader, i.apiKey)
		}
		return conn
	}
}

func (i *apiKeyInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
