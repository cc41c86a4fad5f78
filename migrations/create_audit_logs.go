package migrations

import (
	"investor-portal-server/models"
	"investor-portal-server/utils"
)

func MigrateAuditLogs() {
	utils.PortalDB.AutoMigrate(&models.AuditLog{})
}
