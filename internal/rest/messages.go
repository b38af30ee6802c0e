package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rodeo-drive-api/internal/rpc"
)

type messageOut struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Reply       *string    `json:"reply"`
	AuthorEmail string     `json:"authorEmail,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func messageJSON(m *rpc.Message) messageOut {
	out := messageOut{ID: m.Id, Content: m.Content, Reply: m.Reply, AuthorEmail: m.AuthorEmail}
	if m.CreatedAt != nil {
		t := m.CreatedAt.AsTime()
		out.CreatedAt = &t
	}
	if m.UpdatedAt != nil {
		t := m.UpdatedAt.AsTime()
		out.UpdatedAt = &t
	}
	return out
}

func (s *Server) createMessage(c *gin.Context) {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	resp, err := s.h.CreateMessage(c.Request.Context(), &rpc.CreateMessageRequest{Content: in.Content})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": messageJSON(resp.Message)})
}

func (s *Server) listMessages(c *gin.Context) {
	resp, err := s.h.ListMessages(c.Request.Context(), &rpc.ListMessagesRequest{})
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]messageOut, len(resp.Messages))
	for i, m := range resp.Messages {
		out[i] = messageJSON(m)
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func (s *Server) replyMessage(c *gin.Context) {
	var in struct {
		Reply string `json:"reply"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	resp, err := s.h.ReplyMessage(c.Request.Context(), &rpc.ReplyMessageRequest{Id: c.Param("id"), Reply: in.Reply})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageJSON(resp.Message)})
}
