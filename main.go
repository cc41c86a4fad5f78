package main

import (
	"log"
	"os"
	"time"

	"investor-portal-server/handlers/announcements"
	"investor-portal-server/handlers/audit"
	"investor-portal-server/handlers/auth"
	"investor-portal-server/handlers/commissions"
	"investor-portal-server/handlers/deals"
	"investor-portal-server/handlers/feeplans"
	"investor-portal-server/handlers/introducers"
	"investor-portal-server/handlers/investors"
	"investor-portal-server/handlers/me"
	"investor-portal-server/handlers/notifications"
	"investor-portal-server/handlers/partners"
	"investor-portal-server/handlers/payments"
	"investor-portal-server/handlers/users"
	"investor-portal-server/migrations"
	"investor-portal-server/models"
	"investor-portal-server/seed"
	"investor-portal-server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
    if err := godotenv.Load(); err != nil {
        log.Println("No .env file found or error loading .env file:", err)
    }
}

func main() {
    r := gin.Default()

    r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{os.Getenv("PORTAL_ORIGIN")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
	}))

    utils.ConnectDatabase()

    migrations.MigrateNotifications()
    migrations.MigrateAuditLogs()

    // Migrate models
    utils.PortalDB.AutoMigrate(&models.User{})
    utils.PortalDB.AutoMigrate(&models.Persona{})
    utils.PortalDB.AutoMigrate(&models.Deal{})
    utils.PortalDB.AutoMigrate(&models.DealMembership{})
    utils.PortalDB.AutoMigrate(&models.Investor{})
    utils.PortalDB.AutoMigrate(&models.InvestorUser{})
    utils.PortalDB.AutoMigrate(&models.CommercialPartner{})
    utils.PortalDB.AutoMigrate(&models.CommercialPartnerUser{})
    utils.PortalDB.AutoMigrate(&models.Introducer{})
    utils.PortalDB.AutoMigrate(&models.IntroducerUser{})
    utils.PortalDB.AutoMigrate(&models.IntroducerAgreement{})
    utils.PortalDB.AutoMigrate(&models.FeePlan{})
    utils.PortalDB.AutoMigrate(&models.Commission{})
    utils.PortalDB.AutoMigrate(&models.Announcement{})
    utils.PortalDB.AutoMigrate(&models.CapitalCallPayment{})

    // Seed Initial Data
    if err := seed.SeedAdminUser(); err != nil {
        log.Fatalf("Failed to seed admin user: %v", err)
    }

    r.POST("/login", auth.Login)
    r.POST("/logout", auth.AuthMiddleware(), auth.Logout)
    r.POST("/refresh", auth.RefreshToken)
    r.POST("/request-otp", auth.RequestOTP)
    r.POST("/verify-otp-reset", auth.VerifyOTPReset)
    r.POST("/reset-password", auth.ResetPassword)
    r.POST("/stripe/webhook", payments.HandleStripeWebhook)

    protected := r.Group("/api")
    protected.Use(auth.AuthMiddleware())
    {
        protected.GET("/me/deals", me.GetMyDeals)
        protected.GET("/me/commissions", me.GetMyCommissions)
        protected.GET("/announcements", announcements.GetAnnouncements)
        protected.GET("/announcements/featured", announcements.GetFeaturedAnnouncement)
        protected.POST("/payments/capital-call", payments.CreateCapitalCallPayment)
        notifications.RegisterNotificationsRoutes(protected)
    }

    staff := r.Group("/api")
    staff.Use(auth.AuthMiddleware(), auth.RequirePersona("ceo", "staff"))
    {
        staff.GET("/users", users.GetUsers)
        staff.POST("/users", users.CreateUser)
        staff.POST("/users/:user_id/personas", users.GrantPersona)

        staff.GET("/deals", deals.GetDeals)
        staff.POST("/deals", deals.CreateDeal)
        staff.GET("/deals/:deal_id", deals.GetDeal)
        staff.PUT("/deals/:deal_id/status", deals.UpdateDealStatus)
        staff.GET("/deals/:deal_id/dispatch", deals.GetDispatch)
        staff.POST("/deals/:deal_id/dispatch", deals.DispatchUsers)
        staff.GET("/deals/:deal_id/fee-plans", feeplans.GetFeePlansByDeal)
        staff.POST("/deals/:deal_id/fee-plans", feeplans.CreateFeePlan)

        staff.PUT("/fee-plans/:fee_plan_id/status", feeplans.UpdateFeePlanStatus)
        staff.POST("/fee-plans/:fee_plan_id/deactivate", feeplans.DeactivateFeePlan)

        staff.GET("/investors", investors.GetInvestors)
        staff.POST("/investors", investors.CreateInvestor)
        staff.GET("/investors/:investor_id", investors.GetInvestor)
        staff.PUT("/investors/:investor_id", investors.UpdateInvestor)
        staff.POST("/investors/:investor_id/users", investors.LinkUser)
        staff.POST("/investors/:investor_id/kyc/approve", investors.ApproveKYC)
        staff.POST("/investors/:investor_id/kyc/reject", investors.RejectKYC)
        staff.POST("/investors/:investor_id/blacklist", investors.BlacklistInvestor)

        staff.GET("/commercial-partners", partners.GetCommercialPartners)
        staff.POST("/commercial-partners", partners.CreateCommercialPartner)
        staff.GET("/commercial-partners/:partner_id", partners.GetCommercialPartner)
        staff.POST("/commercial-partners/:partner_id/users", partners.LinkUser)

        staff.GET("/introducers", introducers.GetIntroducers)
        staff.POST("/introducers", introducers.CreateIntroducer)
        staff.GET("/introducers/:introducer_id", introducers.GetIntroducer)
        staff.POST("/introducers/:introducer_id/users", introducers.LinkUser)
        staff.GET("/introducers/:introducer_id/agreements", introducers.GetAgreements)
        staff.POST("/introducers/:introducer_id/agreements", introducers.CreateAgreement)
        staff.POST("/agreements/:agreement_id/activate", introducers.ActivateAgreement)

        staff.GET("/commissions", commissions.GetCommissions)
        staff.POST("/commissions", commissions.AccrueCommission)
        staff.POST("/commissions/:commission_id/invoice", commissions.MarkInvoiced)

        staff.POST("/announcements", announcements.CreateAnnouncement)

        staff.GET("/audit-log", audit.GetAuditLog)
    }

    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }

    if err := r.Run(":" + port); err != nil {
        log.Fatalf("Failed to run server: %v", err)
    }
}
