package rest

import (
	"net/http"
	"path/filepath"

	"github.com/KevinKickass/OpenPanelIO/internal/api/websocket"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POST /api/v1/upload
func (s *Server) uploadDrawing(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeUploadInvalid, "No file part", err.Error()))
		return
	}

	filename := filepath.Base(file.Filename)
	if file.Filename == "" || filename == "." {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeUploadInvalid, "No selected file", nil))
		return
	}

	if !types.IsDXFFilename(filename) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeUploadInvalid, "Only DXF files are allowed", filename))
		return
	}

	if limit := s.lm.Config().Server.MaxUploadBytes; limit > 0 && file.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, types.NewErrorResponse(types.CodeUploadInvalid, "File too large", gin.H{
			"size":  file.Size,
			"limit": limit,
		}))
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeUploadFailed, "Failed to read upload", err.Error()))
		return
	}
	defer f.Close()

	result, err := s.lm.Extractor().Extract(f, filename)
	if err != nil {
		s.logger.Error("Extraction failed",
			zap.String("source_file", filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeUploadFailed, "Failed to process drawing", err.Error()))
		return
	}

	sess := s.lm.Sessions().Create(result)
	stats := result.Stats()

	s.wsHub.Broadcast(websocket.NewSessionCreatedMessage(websocket.SessionCreatedData{
		SessionID:       sess.ID.String(),
		SourceFile:      sess.SourceFile,
		TotalComponents: stats.TotalComponents,
		TotalIO:         stats.TotalIO,
	}))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"data":       sess.Result(),
		"stats":      stats,
	})
}
