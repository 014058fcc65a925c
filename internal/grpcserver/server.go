package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	workflowpb "github.com/Leganyst/clinic-booking/internal/api/workflow/v1"
	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/service"
	"github.com/Leganyst/clinic-booking/internal/view"
)

// WorkflowServer — gRPC-фасад над сервисами записи, оплаты и допуска врачей.
type WorkflowServer struct {
	workflowpb.UnimplementedWorkflowServiceServer

	appointments *service.AppointmentService
	payments     *service.PaymentService
	doctors      *service.DoctorService
	dashboard    *service.DashboardService
}

func NewWorkflowServer(
	appointments *service.AppointmentService,
	payments *service.PaymentService,
	doctors *service.DoctorService,
	dashboard *service.DashboardService,
) *WorkflowServer {
	return &WorkflowServer{
		appointments: appointments,
		payments:     payments,
		doctors:      doctors,
		dashboard:    dashboard,
	}
}

// New собирает *grpc.Server с логированием вызовов.
func New(log *zap.Logger, srv workflowpb.WorkflowServiceServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(loggingInterceptor(log))}, opts...)
	s := grpc.NewServer(opts...)
	workflowpb.RegisterWorkflowServiceServer(s, srv)
	return s
}

func (s *WorkflowServer) BookAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	patientID, err := uuidField(fields, "patientId")
	if err != nil {
		return nil, err
	}
	doctorID, err := uuidField(fields, "doctorId")
	if err != nil {
		return nil, err
	}
	date, err := calendar.ParseDate(fields["date"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	tod, err := calendar.ParseTimeOfDay(fields["time"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	a, err := s.appointments.Book(ctx, service.BookInput{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      tod,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromAppointment(a))
}

func (s *WorkflowServer) ApproveAppointment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.Approve(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromAppointment(a))
}

func (s *WorkflowServer) CompleteAppointment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.Complete(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromAppointment(a))
}

func (s *WorkflowServer) PayAppointment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	p, err := s.payments.Pay(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromPayment(p))
}

func (s *WorkflowServer) ApproveDoctor(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.Approve(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromDoctor(d))
}

func (s *WorkflowServer) ListPendingDoctors(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	items, err := s.doctors.ListPending(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out := &structpb.ListValue{}
	for _, d := range view.FromDoctors(items) {
		st, err := toStruct(d)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(st))
	}
	return out, nil
}

func (s *WorkflowServer) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	d, err := s.dashboard.Get(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view.FromDashboard(d))
}

func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, status.Error(codes.InvalidArgument, "id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id %q", raw)
	}
	return id, nil
}

func uuidField(fields map[string]*structpb.Value, name string) (uuid.UUID, error) {
	raw := fields[name].GetStringValue()
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s %q", name, raw)
	}
	return id, nil
}

// toStruct переводит view-структуру в Struct через JSON, чтобы имена полей
// совпадали с REST.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// toStatus сопоставляет ошибки ядра с кодами gRPC.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, service.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrDoctorNotEligible):
		code = codes.FailedPrecondition
	case errors.Is(err, service.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, service.ErrInvalidCredentials):
		code = codes.Unauthenticated
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error("grpc.panic", zap.String("method", info.FullMethod), zap.Any("panic", r))
				err = status.Error(codes.Internal, fmt.Sprintf("panic in %s", info.FullMethod))
			}
			code := status.Code(err)
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("took", time.Since(start)),
			}
			if code == codes.Internal {
				log.Error("grpc.call", append(fields, zap.Error(err))...)
				return
			}
			log.Info("grpc.call", fields...)
		}()
		return handler(ctx, req)
	}
}
