package services

import "context"

// persistentContext keeps request values but drops the request's
// cancellation, for work that outlives the response.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
