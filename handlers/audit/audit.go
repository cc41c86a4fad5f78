package audit

import (
	"net/http"
	"strconv"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetAuditLog(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	query := utils.PortalDB.Order("created_at DESC").Limit(limit)

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_log": entries})
}
