package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "rodeo.v1.BookingService"

// FullMethod returns the gRPC path for a method name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type BookingServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateAppointment(context.Context, *AppointmentInput) (*CreateAppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	SendAppointmentEmail(context.Context, *AppointmentInput) (*SendAppointmentEmailResponse, error)
	CreateMessage(context.Context, *CreateMessageRequest) (*MessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	ReplyMessage(context.Context, *ReplyMessageRequest) (*MessageResponse, error)
}

// unary builds a MethodDesc for one BookingServer method. PReq pins the
// request to a pointer type that knows its wire encoding.
func unary[Req any, PReq interface {
	*Req
	Wire
}, Resp any](name string, call func(BookingServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	full := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(BookingServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(PReq))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary[RegisterRequest]("Register", BookingServer.Register),
		unary[LoginRequest]("Login", BookingServer.Login),
		unary[AppointmentInput]("CreateAppointment", BookingServer.CreateAppointment),
		unary[ListAppointmentsRequest]("ListAppointments", BookingServer.ListAppointments),
		unary[AppointmentInput]("SendAppointmentEmail", BookingServer.SendAppointmentEmail),
		unary[CreateMessageRequest]("CreateMessage", BookingServer.CreateMessage),
		unary[ListMessagesRequest]("ListMessages", BookingServer.ListMessages),
		unary[ReplyMessageRequest]("ReplyMessage", BookingServer.ReplyMessage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rodeo/v1/booking.proto",
}

func RegisterBookingServer(s grpc.ServiceRegistrar, srv BookingServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Method looks up a method by its full path, e.g. "/rodeo.v1.BookingService/Login".
func Method(fullMethod string) (grpc.MethodDesc, bool) {
	for _, m := range ServiceDesc.Methods {
		if FullMethod(m.MethodName) == fullMethod {
			return m, true
		}
	}
	return grpc.MethodDesc{}, false
}
