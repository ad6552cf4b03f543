package ctxutil

import "context"

type visitorKey struct{}

// VisitorData identifies the browser a request belongs to.
type VisitorData struct {
	VisitorID string
	New       bool
}

func WithVisitor(ctx context.Context, vd *VisitorData) context.Context {
	return context.WithValue(ctx, visitorKey{}, vd)
}

func GetVisitor(ctx context.Context) *VisitorData {
	if vd, ok := ctx.Value(visitorKey{}).(*VisitorData); ok {
		return vd
	}
	return nil
}

type editorKey struct{}

func WithEditor(ctx context.Context, editorID string) context.Context {
	return context.WithValue(ctx, editorKey{}, editorID)
}

func GetEditor(ctx context.Context) string {
	s, _ := ctx.Value(editorKey{}).(string)
	return s
}
