package grpc_server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"strings"

	"lifequest/internal/application/usecase"
	"lifequest/internal/domain"
	"lifequest/internal/logger"
	"lifequest/internal/middleware"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "lifequest.v1.Analytics"

type userIDKey struct{}

// AnalyticsServer exposes the analytics reports over gRPC. Requests and
// replies are google.protobuf.Struct; requests may carry a numeric "days".
type AnalyticsServer struct {
	useCase *usecase.AnalyticsUseCase
}

func NewAnalyticsServer(uc *usecase.AnalyticsUseCase) *AnalyticsServer {
	return &AnalyticsServer{useCase: uc}
}

func (s *AnalyticsServer) Dashboard(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.useCase.Dashboard(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *AnalyticsServer) Habits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	days, err := daysOf(req)
	if err != nil {
		return nil, err
	}
	res, err := s.useCase.Habits(ctx, userID, days)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *AnalyticsServer) Tasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	days, err := daysOf(req)
	if err != nil {
		return nil, err
	}
	res, err := s.useCase.Tasks(ctx, userID, days)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *AnalyticsServer) Journals(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	days, err := daysOf(req)
	if err != nil {
		return nil, err
	}
	res, err := s.useCase.Journals(ctx, userID, days)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *AnalyticsServer) MoodStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	days, err := daysOf(req)
	if err != nil {
		return nil, err
	}
	res, err := s.useCase.MoodStats(ctx, userID, days)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]interface{}{"moods": res})
}

type analyticsService interface {
	Dashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Habits(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tasks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Journals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MoodStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(analyticsService, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(analyticsService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(analyticsService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*analyticsService)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Dashboard", analyticsService.Dashboard),
		unaryHandler("Habits", analyticsService.Habits),
		unaryHandler("Tasks", analyticsService.Tasks),
		unaryHandler("Journals", analyticsService.Journals),
		unaryHandler("MoodStats", analyticsService.MoodStats),
	},
	Metadata: "lifequest/v1/analytics",
}

// Server bundles the analytics service with the standard health and
// reflection services.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

func NewServer(analytics *AnalyticsServer, tokens middleware.TokenValidator) *Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor,
		AuthInterceptor(tokens),
	))
	grpcServer.RegisterService(&serviceDesc, analytics)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	reflection.Register(grpcServer)
	return &Server{grpcServer: grpcServer, health: hs}
}

// SetServing flips the health status reported for the whole server and
// for the analytics service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// AuthInterceptor checks the bearer token in the "authorization" metadata
// of analytics calls. Health and reflection calls pass through.
func AuthInterceptor(tokens middleware.TokenValidator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization metadata is required")
		}
		parts := strings.Split(values[0], " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
		}
		userID, err := tokens.ValidateAccess(parts[1])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(context.WithValue(ctx, userIDKey{}, userID), req)
	}
}

func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		logger.Warn("rpc", "method", info.FullMethod, "code", status.Code(err))
	} else {
		logger.Debug("rpc", "method", info.FullMethod)
	}
	return resp, err
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}

// daysOf reads the optional "days" field. Absent or null means the
// default window; anything other than a whole number is rejected.
func daysOf(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["days"]
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, status.Error(codes.InvalidArgument, "days must be a whole number")
		}
		return int(n), nil
	default:
		return 0, status.Error(codes.InvalidArgument, "days must be a whole number")
	}
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode reply")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, "encode reply")
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	default:
		logger.Error("rpc failed", "err", err)
		return status.Error(codes.Internal, "internal error")
	}
}
