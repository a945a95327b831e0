// Copyright 2026 The convlog Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package convloggrpc adapts the convlog facade to gRPC interceptor
// chains: one record per RPC carrying method, status code, duration, peer
// address, and optionally proto payload sizes.
package convloggrpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"github.com/convlog/convlog"
)

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that logs
// one record per unary RPC through logger after the handler returns.
func UnaryServerInterceptor(logger *convlog.Logger, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := rpcFields(ctx, info.FullMethod, "unary", status.Code(err), time.Since(start), cfg)
		if cfg.includeSizes {
			fields = append(fields, sizeFields(req, resp)...)
		}
		emit(ctx, logger, cfg, status.Code(err), fields)
		return resp, err
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that logs
// one record per streaming RPC when the stream ends.
func StreamServerInterceptor(logger *convlog.Logger, opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)

		ctx := ss.Context()
		fields := rpcFields(ctx, info.FullMethod, streamKind(info), status.Code(err), time.Since(start), cfg)
		emit(ctx, logger, cfg, status.Code(err), fields)
		return err
	}
}

// UnaryClientInterceptor returns a grpc.UnaryClientInterceptor that logs
// one record per outgoing unary RPC.
func UnaryClientInterceptor(logger *convlog.Logger, opts ...Option) grpc.UnaryClientInterceptor {
	cfg := applyOptions(opts)

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, callOpts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, callOpts...)

		fields := []convlog.Field{
			convlog.F("method", method),
			convlog.F("kind", "unary"),
			convlog.F("code", status.Code(err).String()),
			convlog.F("duration_ms", time.Since(start).Milliseconds()),
		}
		if cfg.includeSizes {
			fields = append(fields, sizeFields(req, reply)...)
		}
		emit(ctx, logger, cfg, status.Code(err), fields)
		return err
	}
}

// rpcFields assembles the common field set for a server-side record.
func rpcFields(ctx context.Context, method, kind string, code codes.Code, elapsed time.Duration, cfg *config) []convlog.Field {
	fields := []convlog.Field{
		convlog.F("method", method),
		convlog.F("kind", kind),
		convlog.F("code", code.String()),
		convlog.F("duration_ms", elapsed.Milliseconds()),
	}
	if cfg.includePeer {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			fields = append(fields, convlog.F("peer", p.Addr.String()))
		}
	}
	return fields
}

// sizeFields reports serialized proto sizes for the request and response
// when both are proto messages.
func sizeFields(req, resp any) []convlog.Field {
	var fields []convlog.Field
	if m, ok := req.(proto.Message); ok {
		fields = append(fields, convlog.F("request_bytes", proto.Size(m)))
	}
	if m, ok := resp.(proto.Message); ok {
		fields = append(fields, convlog.F("response_bytes", proto.Size(m)))
	}
	return fields
}

// emit writes the RPC record at a severity derived from the status code.
// The assembled field set contains no reserved keys, so the logging call
// cannot fail.
func emit(ctx context.Context, logger *convlog.Logger, cfg *config, code codes.Code, fields []convlog.Field) {
	_ = logger.Log(ctx, severityForCode(code), convlog.Text(cfg.message), fields...)
}

// severityForCode maps a gRPC status code onto a record severity,
// following the usual server/client fault split.
func severityForCode(code codes.Code) convlog.Severity {
	switch code {
	case codes.OK:
		return convlog.SeverityInfo
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.ResourceExhausted,
		codes.FailedPrecondition, codes.Aborted, codes.OutOfRange:
		return convlog.SeverityWarning
	case codes.DeadlineExceeded, codes.Unimplemented, codes.Internal,
		codes.Unavailable, codes.DataLoss, codes.Unknown:
		return convlog.SeverityError
	default:
		return convlog.SeverityError
	}
}

// streamKind classifies a streaming RPC for the record's kind field.
func streamKind(info *grpc.StreamServerInfo) string {
	switch {
	case info.IsClientStream && info.IsServerStream:
		return "bidi_stream"
	case info.IsClientStream:
		return "client_stream"
	case info.IsServerStream:
		return "server_stream"
	default:
		return "stream"
	}
}
