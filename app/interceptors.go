package app

import (
	"context"
	"time"

	"cosmossdk.io/log"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// inBandResult is implemented by responses that report failures in-band.
type inBandResult interface {
	GetSuccess() bool
}

// RecoveryInterceptor turns handler panics into codes.Internal.
func RecoveryInterceptor(logger log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", "method", info.FullMethod, "panic", r)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// RateLimitInterceptor rejects calls beyond rps with codes.ResourceExhausted.
// A non-positive rps disables limiting.
func RateLimitInterceptor(rps float64, burst int) grpc.UnaryServerInterceptor {
	if rps <= 0 {
		return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
			return handler(ctx, req)
		}
	}
	if burst <= 0 {
		burst = max(int(rps*2), 1)
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// TelemetryInterceptor records every call on tm, counting in-band failures
// as failed.
func TelemetryInterceptor(tm *TelemetryMiddleware) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		tm.RecordRequest(ctx, "grpc", info.FullMethod, time.Since(start), callSucceeded(resp, err))
		return resp, err
	}
}

// LoggingInterceptor logs each call at debug level and transport errors at
// error level.
func LoggingInterceptor(logger log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []interface{}{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if err != nil {
			logger.Error("grpc call failed", append(fields, "error", err)...)
			return resp, err
		}
		logger.Debug("grpc call served", append(fields, "success", callSucceeded(resp, nil))...)
		return resp, nil
	}
}

func callSucceeded(resp interface{}, err error) bool {
	if err != nil {
		return false
	}
	if r, ok := resp.(inBandResult); ok {
		return r.GetSuccess()
	}
	return true
}
