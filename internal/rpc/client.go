package rpc

import (
	"context"

	"google.golang.org/grpc"
)

type BookingClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingClient(cc grpc.ClientConnInterface) *BookingClient {
	return &BookingClient{cc: cc}
}

func (c *BookingClient) invoke(ctx context.Context, name string, in, out Wire, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.ForceCodec(Codec{}))
	return c.cc.Invoke(ctx, FullMethod(name), in, out, opts...)
}

func (c *BookingClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	return out, c.invoke(ctx, "Register", in, out, opts...)
}

func (c *BookingClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	return out, c.invoke(ctx, "Login", in, out, opts...)
}

func (c *BookingClient) CreateAppointment(ctx context.Context, in *AppointmentInput, opts ...grpc.CallOption) (*CreateAppointmentResponse, error) {
	out := new(CreateAppointmentResponse)
	return out, c.invoke(ctx, "CreateAppointment", in, out, opts...)
}

func (c *BookingClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	return out, c.invoke(ctx, "ListAppointments", in, out, opts...)
}

func (c *BookingClient) SendAppointmentEmail(ctx context.Context, in *AppointmentInput, opts ...grpc.CallOption) (*SendAppointmentEmailResponse, error) {
	out := new(SendAppointmentEmailResponse)
	return out, c.invoke(ctx, "SendAppointmentEmail", in, out, opts...)
}

func (c *BookingClient) CreateMessage(ctx context.Context, in *CreateMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	out := new(MessageResponse)
	return out, c.invoke(ctx, "CreateMessage", in, out, opts...)
}

func (c *BookingClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	out := new(ListMessagesResponse)
	return out, c.invoke(ctx, "ListMessages", in, out, opts...)
}

func (c *BookingClient) ReplyMessage(ctx context.Context, in *ReplyMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	out := new(MessageResponse)
	return out, c.invoke(ctx, "ReplyMessage", in, out, opts...)
}
