package grpcweb

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/rpc"
)

const maxBody = 1 << 20

// Bridge serves gRPC-Web (browser HTTP/1.1) by calling the service in
// process. Requests go through the same interceptor chain as native gRPC.
type Bridge struct {
	srv         rpc.BookingServer
	interceptor grpc.UnaryServerInterceptor
	origins     []string
	log         *log.Logger
}

// New builds a bridge. An empty origins list echoes any Origin.
func New(srv rpc.BookingServer, interceptor grpc.UnaryServerInterceptor, origins []string, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{srv: srv, interceptor: interceptor, origins: origins, log: logger}
}

// Handler returns an http.Handler that serves gRPC-Web calls.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := b.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, X-Grpc-Web, X-User-Agent, Authorization, x-grpc-web")
		w.Header().Set("Access-Control-Expose-Headers",
			"Grpc-Status, Grpc-Message, Grpc-Status-Details-Bin, grpc-status, grpc-message")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/grpc-web") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}

		f := framer{w: w, text: strings.HasPrefix(ct, "application/grpc-web-text")}
		b.serve(f, r)
	})
}

func (b *Bridge) allowOrigin(origin string) string {
	if len(b.origins) == 0 {
		return "*"
	}
	if slices.Contains(b.origins, origin) {
		return origin
	}
	return ""
}

func (b *Bridge) serve(f framer, r *http.Request) {
	m, ok := rpc.Method(r.URL.Path)
	if !ok {
		f.writeError(codes.Unimplemented, "unknown method "+r.URL.Path)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		f.writeError(codes.Internal, "read body failed")
		return
	}
	if f.text {
		body, err = decodeText(body)
		if err != nil {
			f.writeError(codes.InvalidArgument, "bad base64 body")
			return
		}
	}
	payload, err := unframe(body)
	if err != nil {
		f.writeError(codes.InvalidArgument, err.Error())
		return
	}

	// forward metadata
	md := metadata.MD{}
	if vals := r.Header.Values("Authorization"); len(vals) > 0 {
		md.Set("authorization", vals...)
	}
	ctx := metadata.NewIncomingContext(r.Context(), md)
	ctx = peer.NewContext(ctx, &peer.Peer{Addr: remoteAddr(r.RemoteAddr)})

	dec := func(v any) error {
		return rpc.Codec{}.Unmarshal(payload, v)
	}
	resp, err := m.Handler(b.srv, ctx, dec, b.interceptor)
	if err != nil {
		st, _ := status.FromError(err)
		b.log.Printf("grpc-web %s: %s: %s", r.URL.Path, st.Code(), st.Message())
		f.writeError(st.Code(), st.Message())
		return
	}
	out, err := rpc.Codec{}.Marshal(resp)
	if err != nil {
		f.writeError(codes.Internal, "encode response")
		return
	}
	f.writeSuccess(out)
}

// decodeText decodes a grpc-web-text body. Clients may send several
// separately padded base64 chunks back to back, so each padded group ends
// a chunk.
func decodeText(body []byte) ([]byte, error) {
	body = bytes.Join(bytes.Fields(body), nil)
	out := make([]byte, 0, base64.StdEncoding.DecodedLen(len(body)))
	for len(body) > 0 {
		n := len(body)
		if i := bytes.IndexByte(body, '='); i >= 0 {
			n = min((i/4+1)*4, len(body))
		}
		var err error
		out, err = base64.StdEncoding.AppendDecode(out, body[:n])
		if err != nil {
			return nil, err
		}
		body = body[n:]
	}
	return out, nil
}

// unframe strips the 5-byte grpc-web prefix: 1-byte flag + 4-byte
// big-endian length.
func unframe(body []byte) ([]byte, error) {
	if len(body) < 5 {
		return nil, errBodyTooShort
	}
	msgLen := binary.BigEndian.Uint32(body[1:5])
	if int(msgLen)+5 > len(body) {
		return nil, errIncompleteFrame
	}
	return body[5 : 5+msgLen], nil
}

type frameError string

func (e frameError) Error() string { return string(e) }

const (
	errBodyTooShort    frameError = "body too short"
	errIncompleteFrame frameError = "incomplete frame"
)

type remoteAddr string

func (a remoteAddr) Network() string { return "tcp" }
func (a remoteAddr) String() string  { return string(a) }

var _ net.Addr = remoteAddr("")

// framer writes grpc-web frames, base64 encoded for grpc-web-text.
type framer struct {
	w    http.ResponseWriter
	text bool
}

func frame(flag byte, data []byte) []byte {
	out := make([]byte, 5+len(data))
	out[0] = flag
	binary.BigEndian.PutUint32(out[1:5], uint32(len(data)))
	copy(out[5:], data)
	return out
}

func (f framer) header() {
	ct := "application/grpc-web+proto"
	if f.text {
		ct = "application/grpc-web-text+proto"
	}
	f.w.Header().Set("Content-Type", ct)
	f.w.WriteHeader(http.StatusOK)
}

func (f framer) write(b []byte) {
	if f.text {
		b = []byte(base64.StdEncoding.EncodeToString(b))
	}
	f.w.Write(b)
}

func (f framer) writeError(code codes.Code, msg string) {
	f.header()
	trailer := "grpc-status:" + strconv.Itoa(int(code)) + "\r\ngrpc-message:" + url.PathEscape(msg) + "\r\n"
	f.write(frame(0x80, []byte(trailer)))
}

func (f framer) writeSuccess(data []byte) {
	f.header()
	f.write(frame(0x00, data))
	f.write(frame(0x80, []byte("grpc-status:0\r\n")))
}
