// Package workflowv1 описывает gRPC-сервис clinic.workflow.v1.WorkflowService.
//
// Сообщения — стандартные well-known типы protobuf: идентификаторы передаются
// как StringValue, сущности — как Struct с теми же полями, что и в REST.
package workflowv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "clinic.workflow.v1.WorkflowService"

const (
	WorkflowService_BookAppointment_FullMethodName     = "/" + ServiceName + "/BookAppointment"
	WorkflowService_ApproveAppointment_FullMethodName  = "/" + ServiceName + "/ApproveAppointment"
	WorkflowService_CompleteAppointment_FullMethodName = "/" + ServiceName + "/CompleteAppointment"
	WorkflowService_PayAppointment_FullMethodName      = "/" + ServiceName + "/PayAppointment"
	WorkflowService_ApproveDoctor_FullMethodName       = "/" + ServiceName + "/ApproveDoctor"
	WorkflowService_ListPendingDoctors_FullMethodName  = "/" + ServiceName + "/ListPendingDoctors"
	WorkflowService_GetDashboard_FullMethodName        = "/" + ServiceName + "/GetDashboard"
)

// WorkflowServiceServer — серверная сторона сервиса.
type WorkflowServiceServer interface {
	// Поля запроса: patientId, doctorId, date (YYYY-MM-DD), time (HH:MM).
	BookAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApproveAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CompleteAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	PayAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ApproveDoctor(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListPendingDoctors(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetDashboard(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	mustEmbedUnimplementedWorkflowServiceServer()
}

// UnimplementedWorkflowServiceServer нужно встраивать в реализацию.
type UnimplementedWorkflowServiceServer struct{}

func (UnimplementedWorkflowServiceServer) BookAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method BookAppointment not implemented")
}
func (UnimplementedWorkflowServiceServer) ApproveAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveAppointment not implemented")
}
func (UnimplementedWorkflowServiceServer) CompleteAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteAppointment not implemented")
}
func (UnimplementedWorkflowServiceServer) PayAppointment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PayAppointment not implemented")
}
func (UnimplementedWorkflowServiceServer) ApproveDoctor(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveDoctor not implemented")
}
func (UnimplementedWorkflowServiceServer) ListPendingDoctors(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPendingDoctors not implemented")
}
func (UnimplementedWorkflowServiceServer) GetDashboard(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDashboard not implemented")
}
func (UnimplementedWorkflowServiceServer) mustEmbedUnimplementedWorkflowServiceServer() {}

func RegisterWorkflowServiceServer(s grpc.ServiceRegistrar, srv WorkflowServiceServer) {
	s.RegisterService(&WorkflowService_ServiceDesc, srv)
}

// unaryHandler собирает grpc.MethodHandler для метода с запросом Req.
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(WorkflowServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WorkflowServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WorkflowServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var WorkflowService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkflowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "BookAppointment",
			Handler:    unaryHandler(WorkflowService_BookAppointment_FullMethodName, WorkflowServiceServer.BookAppointment),
		},
		{
			MethodName: "ApproveAppointment",
			Handler:    unaryHandler(WorkflowService_ApproveAppointment_FullMethodName, WorkflowServiceServer.ApproveAppointment),
		},
		{
			MethodName: "CompleteAppointment",
			Handler:    unaryHandler(WorkflowService_CompleteAppointment_FullMethodName, WorkflowServiceServer.CompleteAppointment),
		},
		{
			MethodName: "PayAppointment",
			Handler:    unaryHandler(WorkflowService_PayAppointment_FullMethodName, WorkflowServiceServer.PayAppointment),
		},
		{
			MethodName: "ApproveDoctor",
			Handler:    unaryHandler(WorkflowService_ApproveDoctor_FullMethodName, WorkflowServiceServer.ApproveDoctor),
		},
		{
			MethodName: "ListPendingDoctors",
			Handler:    unaryHandler(WorkflowService_ListPendingDoctors_FullMethodName, WorkflowServiceServer.ListPendingDoctors),
		},
		{
			MethodName: "GetDashboard",
			Handler:    unaryHandler(WorkflowService_GetDashboard_FullMethodName, WorkflowServiceServer.GetDashboard),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// WorkflowServiceClient — клиентская сторона сервиса.
type WorkflowServiceClient interface {
	BookAppointment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ApproveAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	CompleteAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	PayAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ApproveDoctor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListPendingDoctors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type workflowServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkflowServiceClient(cc grpc.ClientConnInterface) WorkflowServiceClient {
	return &workflowServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *workflowServiceClient) BookAppointment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_BookAppointment_FullMethodName, in, opts)
}

func (c *workflowServiceClient) ApproveAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_ApproveAppointment_FullMethodName, in, opts)
}

func (c *workflowServiceClient) CompleteAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_CompleteAppointment_FullMethodName, in, opts)
}

func (c *workflowServiceClient) PayAppointment(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_PayAppointment_FullMethodName, in, opts)
}

func (c *workflowServiceClient) ApproveDoctor(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_ApproveDoctor_FullMethodName, in, opts)
}

func (c *workflowServiceClient) ListPendingDoctors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, WorkflowService_ListPendingDoctors_FullMethodName, in, opts)
}

func (c *workflowServiceClient) GetDashboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, WorkflowService_GetDashboard_FullMethodName, in, opts)
}
