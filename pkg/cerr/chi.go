package cerr

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type responseReceiverKey struct{}

// responseReceiver holds what a handler wants written. Handlers under
// NewConvertJSONErrorChiMiddleware set it instead of writing the body.
type responseReceiver struct {
	response any
	err      error
	set      bool
}

func receiverFrom(ctx context.Context) *responseReceiver {
	rr, _ := ctx.Value(responseReceiverKey{}).(*responseReceiver)
	return rr
}

func SetJSONResponse(ctx context.Context, response any) {
	if rr := receiverFrom(ctx); rr != nil {
		rr.response, rr.err, rr.set = response, nil, true
	}
}

func SetJSONError(ctx context.Context, err error) {
	if rr := receiverFrom(ctx); rr != nil {
		rr.response, rr.err, rr.set = nil, err, true
	}
}

func SetNewJSONError(ctx context.Context, code Code, msg string, err error) {
	SetJSONError(ctx, NewError(code, msg, err))
}

// NewConvertJSONErrorChiMiddleware writes whatever the handler stored with
// SetJSONResponse or SetJSONError as the JSON body of the response. A
// handler that wrote the response itself is left alone, and one that set
// nothing gets a coded Internal error.
func NewConvertJSONErrorChiMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rr := &responseReceiver{}
			ctx := context.WithValue(r.Context(), responseReceiverKey{}, rr)
			ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			if ww.Status() != 0 {
				return
			}
			if !rr.set {
				rr.err = NewError(Internal, "server error", nil)
			}
			ExtractToHTTPResponse(ctx, ww, rr)
		})
	}
}
