package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/services"
)

type DocumentHandler struct {
	svc *services.DocumentService
}

func NewDocumentHandler(svc *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// maxDocumentBytes caps a single uploaded exhibit.
const maxDocumentBytes = 20 << 20

// POST /api/documents/extract (multipart field "file")
func (h *DocumentHandler) ExtractText(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, apierr.Wrap(apierr.KindValidation, "missing file upload", err))
		return
	}
	if fileHeader.Size > maxDocumentBytes {
		RespondError(c, apierr.New(apierr.KindValidation, "file exceeds 20MB limit"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, apierr.Wrap(apierr.KindValidation, "could not open upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
	if err != nil {
		RespondError(c, apierr.Wrap(apierr.KindValidation, "could not read upload", err))
		return
	}

	text, err := h.svc.ExtractText(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"text": text})
}
