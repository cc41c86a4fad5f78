package seed

import (
	"log"
	"os"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdminUser creates the initial CEO account when the users table is
// empty so a fresh deployment can be logged into.
func SeedAdminUser() error {
	var count int64
	if err := utils.PortalDB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set; skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: "Portal Admin",
		Title:       "CEO",
	}
	if err := utils.PortalDB.Create(&admin).Error; err != nil {
		return err
	}

	if err := utils.PortalDB.Create(&models.Persona{UserID: admin.ID, Name: "ceo"}).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}
