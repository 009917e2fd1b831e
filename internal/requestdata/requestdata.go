package requestdata

import "context"

type ctxKey struct{}

// RequestData carries the authenticated identity for the lifetime of a request.
type RequestData struct {
	UserID uint
	Email  string
	Role   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, ctxKey{}, rd)
}

func GetRequestData(ctx context.Context) (*RequestData, bool) {
	rd, ok := ctx.Value(ctxKey{}).(*RequestData)
	return rd, ok && rd != nil
}
