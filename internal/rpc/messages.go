package rpc

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

func (m *RegisterRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	return appendString(b, 3, m.Name)
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		_ = str(f, 1, &m.Email) || str(f, 2, &m.Password) || str(f, 3, &m.Name)
		return nil
	})
}

type RegisterResponse struct {
	UserId string
	Token  string
}

func (m *RegisterResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserId)
	return appendString(b, 2, m.Token)
}

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		_ = str(f, 1, &m.UserId) || str(f, 2, &m.Token)
		return nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		_ = str(f, 1, &m.Email) || str(f, 2, &m.Password)
		return nil
	})
}

type LoginResponse struct {
	Token   string
	UserId  string
	Name    string
	IsAdmin bool
}

func (m *LoginResponse) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendString(b, 2, m.UserId)
	b = appendString(b, 3, m.Name)
	return appendBool(b, 4, m.IsAdmin)
}

func (m *LoginResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 4 && f.typ == protowire.VarintType {
			m.IsAdmin = f.varint != 0
			return nil
		}
		_ = str(f, 1, &m.Token) || str(f, 2, &m.UserId) || str(f, 3, &m.Name)
		return nil
	})
}

type Appointment struct {
	Id        string
	Name      string
	Email     string
	Phone     string
	Date      string
	Time      string
	CreatedAt *timestamppb.Timestamp
}

func (m *Appointment) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Email)
	b = appendString(b, 4, m.Phone)
	b = appendString(b, 5, m.Date)
	b = appendString(b, 6, m.Time)
	return appendTimestamp(b, 7, m.CreatedAt)
}

func (m *Appointment) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 7 && f.typ == protowire.BytesType {
			ts, err := parseTimestamp(f.bytes)
			m.CreatedAt = ts
			return err
		}
		_ = str(f, 1, &m.Id) || str(f, 2, &m.Name) || str(f, 3, &m.Email) ||
			str(f, 4, &m.Phone) || str(f, 5, &m.Date) || str(f, 6, &m.Time)
		return nil
	})
}

// AppointmentInput is the booking form payload, shared by
// CreateAppointment and SendAppointmentEmail.
type AppointmentInput struct {
	Name  string
	Email string
	Phone string
	Date  string
	Time  string
}

func (m *AppointmentInput) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Phone)
	b = appendString(b, 4, m.Date)
	return appendString(b, 5, m.Time)
}

func (m *AppointmentInput) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		_ = str(f, 1, &m.Name) || str(f, 2, &m.Email) || str(f, 3, &m.Phone) ||
			str(f, 4, &m.Date) || str(f, 5, &m.Time)
		return nil
	})
}

type CreateAppointmentResponse struct {
	Appointment *Appointment
	EmailSent   bool
}

func (m *CreateAppointmentResponse) AppendWire(b []byte) []byte {
	if m.Appointment != nil {
		b = appendMessage(b, 1, m.Appointment)
	}
	return appendBool(b, 2, m.EmailSent)
}

func (m *CreateAppointmentResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.BytesType:
			m.Appointment = &Appointment{}
			return m.Appointment.UnmarshalWire(f.bytes)
		case f.num == 2 && f.typ == protowire.VarintType:
			m.EmailSent = f.varint != 0
		}
		return nil
	})
}

type ListAppointmentsRequest struct{}

func (m *ListAppointmentsRequest) AppendWire(b []byte) []byte { return b }

func (m *ListAppointmentsRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment
}

func (m *ListAppointmentsResponse) AppendWire(b []byte) []byte {
	for _, a := range m.Appointments {
		b = appendMessage(b, 1, a)
	}
	return b
}

func (m *ListAppointmentsResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			a := &Appointment{}
			if err := a.UnmarshalWire(f.bytes); err != nil {
				return err
			}
			m.Appointments = append(m.Appointments, a)
		}
		return nil
	})
}

type SendAppointmentEmailResponse struct {
	Success bool
}

func (m *SendAppointmentEmailResponse) AppendWire(b []byte) []byte {
	return appendBool(b, 1, m.Success)
}

func (m *SendAppointmentEmailResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.VarintType {
			m.Success = f.varint != 0
		}
		return nil
	})
}

type Message struct {
	Id          string
	Content     string
	Reply       *string
	AuthorEmail string
	CreatedAt   *timestamppb.Timestamp
	UpdatedAt   *timestamppb.Timestamp
}

func (m *Message) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.Content)
	b = appendOptional(b, 3, m.Reply)
	b = appendString(b, 4, m.AuthorEmail)
	b = appendTimestamp(b, 5, m.CreatedAt)
	return appendTimestamp(b, 6, m.UpdatedAt)
}

func (m *Message) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.typ != protowire.BytesType {
			return nil
		}
		var err error
		switch f.num {
		case 3:
			r := string(f.bytes)
			m.Reply = &r
		case 5:
			m.CreatedAt, err = parseTimestamp(f.bytes)
		case 6:
			m.UpdatedAt, err = parseTimestamp(f.bytes)
		default:
			_ = str(f, 1, &m.Id) || str(f, 2, &m.Content) || str(f, 4, &m.AuthorEmail)
		}
		return err
	})
}

type CreateMessageRequest struct {
	Content string
}

func (m *CreateMessageRequest) AppendWire(b []byte) []byte {
	return appendString(b, 1, m.Content)
}

func (m *CreateMessageRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		str(f, 1, &m.Content)
		return nil
	})
}

// MessageResponse wraps a single message; CreateMessage and ReplyMessage
// both answer with it.
type MessageResponse struct {
	Message *Message
}

func (m *MessageResponse) AppendWire(b []byte) []byte {
	if m.Message == nil {
		return b
	}
	return appendMessage(b, 1, m.Message)
}

func (m *MessageResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			m.Message = &Message{}
			return m.Message.UnmarshalWire(f.bytes)
		}
		return nil
	})
}

type ListMessagesRequest struct{}

func (m *ListMessagesRequest) AppendWire(b []byte) []byte { return b }

func (m *ListMessagesRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

type ListMessagesResponse struct {
	Messages []*Message
}

func (m *ListMessagesResponse) AppendWire(b []byte) []byte {
	for _, msg := range m.Messages {
		b = appendMessage(b, 1, msg)
	}
	return b
}

func (m *ListMessagesResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			msg := &Message{}
			if err := msg.UnmarshalWire(f.bytes); err != nil {
				return err
			}
			m.Messages = append(m.Messages, msg)
		}
		return nil
	})
}

type ReplyMessageRequest struct {
	Id    string
	Reply string
}

func (m *ReplyMessageRequest) AppendWire(b []byte) []byte {
	b = appendString(b, 1, m.Id)
	return appendString(b, 2, m.Reply)
}

func (m *ReplyMessageRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		_ = str(f, 1, &m.Id) || str(f, 2, &m.Reply)
		return nil
	})
}
