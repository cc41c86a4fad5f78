package migrations

import (
	"investor-portal-server/models"
	"investor-portal-server/utils"
)

func MigrateNotifications() {
	utils.PortalDB.AutoMigrate(&models.Notification{})
}
