package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homesplit_rpc_requests_total",
		Help: "RPC requests by procedure and result code.",
	}, []string{"procedure", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homesplit_rpc_duration_seconds",
		Help:    "RPC handling time by procedure.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})
)

// Metrics returns a Connect interceptor that counts and times every RPC.
func Metrics() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			timer := prometheus.NewTimer(rpcDuration.WithLabelValues(procedure))
			defer timer.ObserveDuration()

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = "internal"
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			rpcRequests.WithLabelValues(procedure, code).Inc()

			return resp, err
		}
	}
}
