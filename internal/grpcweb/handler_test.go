package grpcweb

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/auth"
	"rodeo-drive-api/internal/middleware"
	"rodeo-drive-api/internal/rpc"
)

// stubServer answers Login and ListAppointments; anything else panics.
type stubServer struct {
	rpc.BookingServer
	lastEmail string
}

func (s *stubServer) Login(_ context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	if req.Password != "testpass123" {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	return &rpc.LoginResponse{Token: "tok", UserId: "u-1", Name: "Ann"}, nil
}

func (s *stubServer) ListAppointments(ctx context.Context, _ *rpc.ListAppointmentsRequest) (*rpc.ListAppointmentsResponse, error) {
	s.lastEmail = middleware.Email(ctx)
	return &rpc.ListAppointmentsResponse{Appointments: []*rpc.Appointment{{Id: "a-1", Name: "Layla"}}}, nil
}

const secret = "bridge-secret"

var codec rpc.Codec

func newBridge(origins ...string) (*Bridge, *stubServer) {
	srv := &stubServer{}
	gate := middleware.NewGate(secret, "boss@rodeo.test")
	return New(srv, gate.Unary(), origins, log.New(io.Discard, "", 0)), srv
}

func call(t *testing.T, b *Bridge, method string, req rpc.Wire, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := rpc.Codec{}.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, rpc.FullMethod(method), bytes.NewReader(frame(0x00, payload)))
	r.Header.Set("Content-Type", "application/grpc-web+proto")
	for k, v := range hdr {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	return w
}

// frames splits a response body into data payload and trailer text.
func frames(t *testing.T, body []byte) (data []byte, trailer string) {
	t.Helper()
	for len(body) >= 5 {
		n := int(binary.BigEndian.Uint32(body[1:5]))
		chunk := body[5 : 5+n]
		if body[0]&0x80 != 0 {
			trailer = string(chunk)
		} else {
			data = chunk
		}
		body = body[5+n:]
	}
	return data, trailer
}

func TestBridgeLogin(t *testing.T) {
	b, _ := newBridge()
	w := call(t, b, "Login", &rpc.LoginRequest{Email: "ann@example.com", Password: "testpass123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	data, trailer := frames(t, w.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("trailer %q", trailer)
	}
	var resp rpc.LoginResponse
	if err := codec.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token != "tok" || resp.Name != "Ann" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestBridgeErrors(t *testing.T) {
	b, _ := newBridge()

	w := call(t, b, "Login", &rpc.LoginRequest{Email: "ann@example.com", Password: "nope"}, nil)
	_, trailer := frames(t, w.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:16") || !strings.Contains(trailer, "invalid%20credentials") {
		t.Errorf("trailer %q", trailer)
	}

	w = call(t, b, "Nope", &rpc.ListMessagesRequest{}, nil)
	_, trailer = frames(t, w.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:12") {
		t.Errorf("unknown method trailer %q", trailer)
	}

	r := httptest.NewRequest(http.MethodPost, rpc.FullMethod("Login"), bytes.NewReader([]byte{0, 0, 0, 0, 9, 1}))
	r.Header.Set("Content-Type", "application/grpc-web+proto")
	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, r)
	_, trailer = frames(t, rec.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:3") {
		t.Errorf("short frame trailer %q", trailer)
	}
}

func TestBridgeRunsInterceptors(t *testing.T) {
	b, srv := newBridge()

	w := call(t, b, "ListAppointments", &rpc.ListAppointmentsRequest{}, nil)
	_, trailer := frames(t, w.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:16") {
		t.Fatalf("anonymous admin call: %q", trailer)
	}

	tok, _ := auth.MakeToken("u-9", "boss@rodeo.test", secret)
	w = call(t, b, "ListAppointments", &rpc.ListAppointmentsRequest{}, map[string]string{"Authorization": "Bearer " + tok})
	data, trailer := frames(t, w.Body.Bytes())
	if !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("admin call: %q", trailer)
	}
	var resp rpc.ListAppointmentsResponse
	if err := codec.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Appointments) != 1 || srv.lastEmail != "boss@rodeo.test" {
		t.Errorf("resp=%+v email=%q", resp.Appointments, srv.lastEmail)
	}
}

func TestBridgeTextMode(t *testing.T) {
	b, _ := newBridge()
	payload, _ := rpc.Codec{}.Marshal(&rpc.LoginRequest{Email: "a@b.c", Password: "testpass123"})
	body := base64.StdEncoding.EncodeToString(frame(0x00, payload))
	r := httptest.NewRequest(http.MethodPost, rpc.FullMethod("Login"), strings.NewReader(body))
	r.Header.Set("Content-Type", "application/grpc-web-text")
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)

	if ct := w.Header().Get("Content-Type"); ct != "application/grpc-web-text+proto" {
		t.Fatalf("content type %q", ct)
	}
	// each frame is encoded on its own
	var raw []byte
	rest := w.Body.String()
	for rest != "" {
		i := strings.Index(rest, "=")
		var chunk string
		if i < 0 {
			chunk, rest = rest, ""
		} else {
			j := i
			for j < len(rest) && rest[j] == '=' {
				j++
			}
			chunk, rest = rest[:j], rest[j:]
		}
		dec, err := base64.StdEncoding.DecodeString(chunk)
		if err != nil {
			t.Fatalf("decode %q: %v", chunk, err)
		}
		raw = append(raw, dec...)
	}
	_, trailer := frames(t, raw)
	if !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("trailer %q", trailer)
	}
}

func TestBridgeTextChunks(t *testing.T) {
	b, _ := newBridge()
	payload, _ := rpc.Codec{}.Marshal(&rpc.LoginRequest{Email: "ann@example.com", Password: "testpass123"})
	msg := frame(0x00, payload)
	// two separately padded chunks, with a line break between them
	body := base64.StdEncoding.EncodeToString(msg[:7]) + "\r\n" + base64.StdEncoding.EncodeToString(msg[7:])
	if !strings.Contains(body, "=") {
		t.Fatalf("first chunk not padded: %q", body)
	}

	r := httptest.NewRequest(http.MethodPost, rpc.FullMethod("Login"), strings.NewReader(body))
	r.Header.Set("Content-Type", "application/grpc-web-text")
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	raw, err := decodeText(w.Body.Bytes())
	if err != nil {
		t.Fatalf("response: %v", err)
	}
	if _, trailer := frames(t, raw); !strings.Contains(trailer, "grpc-status:0") {
		t.Fatalf("trailer %q", trailer)
	}

	got, err := decodeText([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Errorf("decoded %x, want %x", got, msg)
	}
	if _, err := decodeText([]byte("abc")); err == nil {
		t.Error("truncated base64 accepted")
	}
}

func TestBridgeOpenCORS(t *testing.T) {
	b, _ := newBridge()
	r := httptest.NewRequest(http.MethodOptions, rpc.FullMethod("Login"), nil)
	r.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("ACAC = %q", got)
	}
}

func TestBridgeCORS(t *testing.T) {
	b, _ := newBridge("https://rodeodrive.qa")

	r := httptest.NewRequest(http.MethodOptions, rpc.FullMethod("Login"), nil)
	r.Header.Set("Origin", "https://rodeodrive.qa")
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "https://rodeodrive.qa" {
		t.Fatalf("preflight: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	r = httptest.NewRequest(http.MethodOptions, rpc.FullMethod("Login"), nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, rpc.FullMethod("Login"), nil)
	w = httptest.NewRecorder()
	b.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET: %d", w.Code)
	}
}
