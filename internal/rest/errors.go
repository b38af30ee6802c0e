package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// fail writes {"error": msg} and, for auth failures, where the client
// should go next.
func fail(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		st = status.New(codes.Internal, "internal error")
	}
	code := httpStatus(st.Code())
	body := gin.H{"error": st.Message()}
	switch code {
	case http.StatusUnauthorized:
		body["redirect"] = "/login"
	case http.StatusForbidden:
		body["redirect"] = "/home"
	}
	c.AbortWithStatusJSON(code, body)
}

func badJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
}
