package cerr

import (
	"context"

	"connectrpc.com/connect"
)

type convertConnectErrorInterceptor struct{}

// NewConvertConnectErrorInterceptor turns handler errors into connect errors
// carrying the Code and the violation details of the underlying *Error.
// Client calls pass through untouched.
func NewConvertConnectErrorInterceptor() connect.Interceptor {
	return convertConnectErrorInterceptor{}
}

func (convertConnectErrorInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		resp, err := next(ctx, req)
		if err != nil {
			return nil, ExtractConnectError(ctx, err)
		}
		return resp, nil
	}
}

func (convertConnectErrorInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler treats a stream cut short by the peer going away as
// a normal end, since watchers disconnect by cancelling.
func (convertConnectErrorInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		err := next(ctx, conn)
		if err != nil && ctx.Err() != nil && isCanceled(err) {
			return nil
		}
		return ExtractConnectError(ctx, err)
	}
}
