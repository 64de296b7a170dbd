package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/api/websocket"
	"github.com/KevinKickass/OpenPanelIO/internal/iotable"
	"github.com/KevinKickass/OpenPanelIO/internal/session"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/gin-gonic/gin"
)

type ReassignRequest struct {
	// Value is the raw field content; strings and numbers are both accepted.
	Value json.RawMessage `json:"value" binding:"required"`
}

// raw returns the edit value as the user typed it.
func (r ReassignRequest) raw() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Value))
}

func sessionPayload(sess session.Session) gin.H {
	result := sess.Result()
	return gin.H{
		"session_id": sess.ID,
		"data":       result,
		"stats":      result.Stats(),
	}
}

func (s *Server) resolveSession(c *gin.Context) (session.Session, bool) {
	sess, err := s.lm.Sessions().Resolve(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeSessionNotFound, "Session not found", err.Error()))
		return session.Session{}, false
	}
	return sess, true
}

func deviceIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeRequestInvalid, "Invalid device index", c.Param("index")))
		return 0, false
	}
	return index, true
}

// GET /api/v1/results
func (s *Server) getLatestResults(c *gin.Context) {
	sess, err := s.lm.Sessions().Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeSessionNotFound, "No results available", nil))
		return
	}
	c.JSON(http.StatusOK, sessionPayload(sess))
}

// GET /api/v1/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionPayload(sess))
}

// GET /api/v1/sessions/:id/devices/:index/channels
func (s *Server) getDeviceChannels(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}
	index, ok := deviceIndexParam(c)
	if !ok {
		return
	}

	snapshot := sess.Snapshot()
	view, err := snapshot.DeviceChannels(index)
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeDeviceNotFound, "Device not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"device":     snapshot.Devices()[index],
		"channels":   view,
	})
}

// PUT /api/v1/sessions/:id/devices/:index/io-device
func (s *Server) reassignController(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}
	index, ok := deviceIndexParam(c)
	if !ok {
		return
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeRequestInvalid, "Invalid request body", err.Error()))
		return
	}

	updated, outcome, err := s.lm.Sessions().Reassign(sess.ID, index, req.raw())
	switch {
	case errors.Is(err, iotable.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeDeviceNotFound, "Device not found", err.Error()))
		return
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeSessionNotFound, "Session not found", err.Error()))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeRequestInvalid, "Re-assignment failed", err.Error()))
		return
	}

	s.wsHub.Broadcast(websocket.NewSessionUpdatedMessage(websocket.SessionUpdatedData{
		SessionID:        updated.ID.String(),
		DeviceIndex:      outcome.DeviceIndex,
		DeviceKey:        outcome.DeviceKey,
		ControllerNumber: outcome.ControllerNumber,
		RowsRewritten:    outcome.RowsRewritten,
	}))

	payload := sessionPayload(updated)
	payload["outcome"] = outcome
	c.JSON(http.StatusOK, payload)
}
