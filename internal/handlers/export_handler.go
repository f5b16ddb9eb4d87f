package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"referral-tracker/internal/services"
)

type ExportHandler struct {
	exportService *services.ExportService
	log           logrus.FieldLogger
}

func NewExportHandler(exportService *services.ExportService, log logrus.FieldLogger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		log:           log,
	}
}

// DownloadDB streams a spreadsheet snapshot of all users and referrals
// GET /download_db
func (h *ExportHandler) DownloadDB(c *gin.Context) {
	data, err := h.exportService.Export(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+services.ExportFilename+`"`)
	c.Data(http.StatusOK, services.ExportContentType, data)
}
