package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"

	"rodeo-drive-api/internal/rpc"
)

type appointmentIn struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

func (in appointmentIn) input() *rpc.AppointmentInput {
	return &rpc.AppointmentInput{Name: in.Name, Email: in.Email, Phone: in.Phone, Date: in.Date, Time: in.Time}
}

type appointmentOut struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func appointmentJSON(a *rpc.Appointment) appointmentOut {
	out := appointmentOut{ID: a.Id, Name: a.Name, Email: a.Email, Phone: a.Phone, Date: a.Date, Time: a.Time}
	if a.CreatedAt != nil {
		t := a.CreatedAt.AsTime()
		out.CreatedAt = &t
	}
	return out
}

func (s *Server) createAppointment(c *gin.Context) {
	var in appointmentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	resp, err := s.h.CreateAppointment(c.Request.Context(), in.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"appointment": appointmentJSON(resp.Appointment),
		"emailSent":   resp.EmailSent,
	})
}

func (s *Server) listAppointments(c *gin.Context) {
	resp, err := s.h.ListAppointments(c.Request.Context(), &rpc.ListAppointmentsRequest{})
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]appointmentOut, len(resp.Appointments))
	for i, a := range resp.Appointments {
		out[i] = appointmentJSON(a)
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

// sendAppointmentEmail keeps the {"success": bool} shape the site expects:
// 200 when the mail went out, 500 for every failure, bad input included.
func (s *Server) sendAppointmentEmail(c *gin.Context) {
	var in appointmentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	if _, err := s.h.SendAppointmentEmail(c.Request.Context(), in.input()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": status.Convert(err).Message()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
