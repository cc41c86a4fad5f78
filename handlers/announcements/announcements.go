package announcements

import (
	"net/http"
	"time"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetFeaturedAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := utils.PortalDB.Where("featured = ?", true).Order("published_at DESC").First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No featured announcement found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcement": announcement,
	})
}

func GetAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := utils.PortalDB.Order("published_at DESC").Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

func CreateAnnouncement(c *gin.Context) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		Featured    bool   `json:"featured"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	announcement := models.Announcement{
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		Featured:    input.Featured,
		PublishedAt: time.Now(),
	}

	if err := utils.PortalDB.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}
