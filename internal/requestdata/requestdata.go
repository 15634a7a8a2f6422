package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData is the authenticated identity attached to each request's
// context. CompanyID is uuid.Nil for users not yet attached to a company.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        string
	CompanyID   uuid.UUID
}
