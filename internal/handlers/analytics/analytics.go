package handlers_analytics

import (
	"littlefolio/internal/models/pfanalytics"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *pfanalytics.AnalyticsService
}

func NewAnalyticsHandler(service *pfanalytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// GetStats retourne les compteurs de la période demandée (?period=day|week|month)
func (ah *AnalyticsHandler) GetStats(c *gin.Context) {
	period := pfanalytics.ParsePeriod(c.Query("period"))
	stats, err := ah.service.GetVisitorStats(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve analytics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTraffic retourne la série temporelle des vues de page
func (ah *AnalyticsHandler) GetTraffic(c *gin.Context) {
	period := pfanalytics.ParsePeriod(c.Query("period"))
	series, err := ah.service.GetTrafficSeries(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve traffic series",
		})
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetDevices retourne l'histogramme desktop/mobile/tablet
func (ah *AnalyticsHandler) GetDevices(c *gin.Context) {
	period := pfanalytics.ParsePeriod(c.Query("period"))
	stats, err := ah.service.GetDeviceStats(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve device stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentEvents retourne les derniers évènements (?limit=10)
func (ah *AnalyticsHandler) GetRecentEvents(c *gin.Context) {
	period := pfanalytics.ParsePeriod(c.Query("period"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	events, err := ah.service.GetRecentEvents(period, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve events",
		})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetRealtimeStats retourne les compteurs du jour depuis Redis
func (ah *AnalyticsHandler) GetRealtimeStats(c *gin.Context) {
	stats, err := ah.service.GetRealtimeStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve realtime stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
