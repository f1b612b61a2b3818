package logger

import "context"

type traceKey struct{}

// GetTraceID 取出 context 中的链路追踪 id，未注入时返回空串
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(traceKey{}).(string)
	return v
}

// WithTraceID 把链路追踪 id 注入 context，供 *Ctx 日志变体自动附带
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, traceID)
}
