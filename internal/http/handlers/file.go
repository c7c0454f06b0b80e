package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shikhonhub/shikhon-backend/internal/http/response"
	"github.com/shikhonhub/shikhon-backend/internal/services"
)

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart upload under the "file" field and returns the
// stored attachment metadata.
func (fh *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	attachment, err := fh.fileService.Upload(c.Request.Context(), fileHeader.Filename, mimeType, fileHeader.Size, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, attachment)
}

func (fh *FileHandler) Delete(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("missing key"))
		return
	}
	if err := fh.fileService.Delete(c.Request.Context(), key); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
