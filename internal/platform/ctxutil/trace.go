package ctxutil

import "context"

type traceDataKey struct{}

// TraceData ties log lines and spans for one request together.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// LogFields returns the request identity attached to ctx as logger
// key/value pairs. Unset values are omitted.
func LogFields(ctx context.Context) []interface{} {
	var out []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if vd := GetVisitor(ctx); vd != nil && vd.VisitorID != "" {
		out = append(out, "visitor_id", vd.VisitorID)
	}
	if editor := GetEditor(ctx); editor != "" {
		out = append(out, "editor", editor)
	}
	return out
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
