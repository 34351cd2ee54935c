package pfanalytics

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/oschwald/geoip2-golang/v2"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Fenêtre de temps du tableau de bord
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"

	// Fenêtre glissante des visiteurs "live"
	liveWindow = 15 * time.Minute
)

func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodDay
	}
}

// StartDate calcule le début de la fenêtre : minuit pour "day",
// maintenant moins 7 ou 30 jours sinon
func (p Period) StartDate(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

func (p Period) bucketDays() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 1
	}
}

type AnalyticsService struct {
	db        *gorm.DB
	redis     *redis.Client
	geoip     *geoip2.Reader
	cron      *cron.Cron
	retention int
}

// VisitorStats regroupe les compteurs du tableau de bord
type VisitorStats struct {
	TotalVisitors  int64 `json:"total_visitors"`
	TotalPageViews int64 `json:"total_page_views"`
	LiveVisitors   int64 `json:"live_visitors"`
	EventsCount    int64 `json:"events_count"`
}

// TrafficSeries est la série temporelle pour le graphique de trafic
type TrafficSeries struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// DeviceStats est l'histogramme desktop/mobile/tablet
type DeviceStats struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// EventLog est un évènement enrichi des infos visiteur pour l'admin
type EventLog struct {
	ID        uint64    `json:"id"`
	Category  string    `json:"event_category"`
	Action    string    `json:"event_action"`
	Label     string    `json:"event_label"`
	CreatedAt time.Time `json:"created_at"`
	Country   string    `json:"country"`
	Device    string    `json:"device_type"`
}

func NewAnalyticsService(db *gorm.DB, redisClient *redis.Client, geoipPath string, retentionDays int) *AnalyticsService {
	var geoReader *geoip2.Reader
	if geoipPath != "" {
		var err error
		geoReader, err = geoip2.Open(geoipPath)
		if err != nil {
			log.Warn().Err(err).Str("path", geoipPath).Msg("GeoIP indisponible, pays ignoré")
			geoReader = nil
		}
	}

	if retentionDays <= 0 {
		retentionDays = 90
	}

	as := &AnalyticsService{
		db:        db,
		redis:     redisClient,
		geoip:     geoReader,
		retention: retentionDays,
	}
	as.cron = as.setupCleanupCron()
	return as
}

// BootstrapVisitor crée le visiteur d'une session si besoin.
// Idempotent : si une ligne existe déjà pour cette session, elle est réutilisée.
func (as *AnalyticsService) BootstrapVisitor(sessionID, userAgent, referrer, ip string) (*Visitor, error) {
	var existing Visitor
	err := as.db.Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("error looking up visitor: %w", err)
	}

	info := SniffUserAgent(userAgent)
	if referrer == "" {
		referrer = "direct"
	}

	visitor := Visitor{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		DeviceType: info.DeviceType,
		OS:         info.OS,
		Browser:    info.Browser,
		UserAgent:  userAgent,
		Referrer:   referrer,
		Country:    as.lookupCountry(ip),
		CreatedAt:  time.Now(),
	}

	if err := as.db.Create(&visitor).Error; err != nil {
		return nil, fmt.Errorf("error creating visitor: %w", err)
	}
	return &visitor, nil
}

// lookupCountry résout le code pays depuis l'IP, "" si indisponible
func (as *AnalyticsService) lookupCountry(ip string) string {
	if as.geoip == nil || ip == "" {
		return ""
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	record, err := as.geoip.Country(addr)
	if err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// RecordPageView insère une vue de page et met à jour les compteurs Redis
func (as *AnalyticsService) RecordPageView(visitorID, path string) error {
	now := time.Now()
	pageView := PageView{
		VisitorID: visitorID,
		Path:      path,
		CreatedAt: now,
	}

	if err := as.db.Create(&pageView).Error; err != nil {
		return fmt.Errorf("error recording page view: %w", err)
	}

	// Compteurs Redis journaliers pour un accès rapide
	if as.redis != nil {
		ctx := context.Background()
		day := now.Format("2006-01-02")
		cacheKey := "analytics:daily:" + day
		as.redis.HIncrBy(ctx, cacheKey, "page_views", 1)
		as.redis.Expire(ctx, cacheKey, 31*24*time.Hour)

		visitorKey := "analytics:visitors:" + day
		as.redis.SAdd(ctx, visitorKey, visitorID)
		as.redis.Expire(ctx, visitorKey, 31*24*time.Hour)
	}

	return nil
}

// RecordEvent insère un évènement d'interaction
func (as *AnalyticsService) RecordEvent(visitorID, category, action, label string) error {
	event := Event{
		VisitorID: visitorID,
		Category:  category,
		Action:    action,
		Label:     label,
		CreatedAt: time.Now(),
	}

	if err := as.db.Create(&event).Error; err != nil {
		return fmt.Errorf("error recording event: %w", err)
	}
	return nil
}

// GetVisitorStats calcule les compteurs de la fenêtre demandée.
// Le compteur "live" est indépendant de la période : vues de page
// des 15 dernières minutes.
func (as *AnalyticsService) GetVisitorStats(period Period) (*VisitorStats, error) {
	now := time.Now()
	start := period.StartDate(now)

	stats := &VisitorStats{}

	err := as.db.Model(&Visitor{}).
		Where("created_at >= ?", start).
		Count(&stats.TotalVisitors).Error
	if err != nil {
		return nil, fmt.Errorf("error counting visitors: %w", err)
	}

	err = as.db.Model(&PageView{}).
		Where("created_at >= ?", start).
		Count(&stats.TotalPageViews).Error
	if err != nil {
		return nil, fmt.Errorf("error counting page views: %w", err)
	}

	err = as.db.Model(&PageView{}).
		Where("created_at >= ?", now.Add(-liveWindow)).
		Count(&stats.LiveVisitors).Error
	if err != nil {
		return nil, fmt.Errorf("error counting live visitors: %w", err)
	}

	err = as.db.Model(&Event{}).
		Where("created_at >= ?", start).
		Count(&stats.EventsCount).Error
	if err != nil {
		return nil, fmt.Errorf("error counting events: %w", err)
	}

	return stats, nil
}

// GetTrafficSeries répartit les vues de page en buckets : par heure
// pour "day" (24 buckets), par jour calendaire sinon (7 ou 30 buckets)
func (as *AnalyticsService) GetTrafficSeries(period Period) (*TrafficSeries, error) {
	now := time.Now()
	start := period.StartDate(now)

	var rows []PageView
	err := as.db.Model(&PageView{}).
		Select("created_at").
		Where("created_at >= ?", start).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error loading page views: %w", err)
	}

	if period == PeriodDay {
		return hourlySeries(rows), nil
	}
	return dailySeries(rows, now, period), nil
}

func hourlySeries(rows []PageView) *TrafficSeries {
	labels := make([]string, 24)
	data := make([]int64, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i)
	}

	for _, row := range rows {
		data[row.CreatedAt.Local().Hour()]++
	}

	return &TrafficSeries{Labels: labels, Data: data}
}

func dailySeries(rows []PageView, now time.Time, period Period) *TrafficSeries {
	days := period.bucketDays()
	labelFormat := "Jan 2"
	if period == PeriodWeek {
		labelFormat = "Mon 2"
	}

	// Premier jour couvert par les buckets (aujourd'hui inclus)
	firstDay := midnight(now.AddDate(0, 0, -(days - 1)))

	labels := make([]string, days)
	data := make([]int64, days)
	for i := range labels {
		labels[i] = firstDay.AddDate(0, 0, i).Format(labelFormat)
	}

	// Bucket par index calendaire calculé, pas par libellé : une ligne
	// hors fenêtre est ignorée au lieu d'être perdue silencieusement
	for _, row := range rows {
		offset := daysBetween(firstDay, midnight(row.CreatedAt.Local()))
		if offset >= 0 && offset < days {
			data[offset]++
		}
	}

	return &TrafficSeries{Labels: labels, Data: data}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}

// GetDeviceStats compte les visiteurs par type d'appareil.
// Les types inconnus sont repliés sur desktop.
func (as *AnalyticsService) GetDeviceStats(period Period) (*DeviceStats, error) {
	start := period.StartDate(time.Now())

	var visitors []Visitor
	err := as.db.Model(&Visitor{}).
		Select("device_type").
		Where("created_at >= ?", start).
		Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("error loading visitors: %w", err)
	}

	counts := map[string]int64{}
	for _, v := range visitors {
		counts[NormalizeDeviceType(v.DeviceType)]++
	}

	return &DeviceStats{
		Labels: []string{"Desktop", "Mobile", "Tablet"},
		Data:   []int64{counts[DeviceDesktop], counts[DeviceMobile], counts[DeviceTablet]},
	}, nil
}

// GetRecentEvents liste les derniers évènements avec les infos visiteur
func (as *AnalyticsService) GetRecentEvents(period Period, limit int) ([]EventLog, error) {
	if limit <= 0 {
		limit = 10
	}
	start := period.StartDate(time.Now())

	var events []EventLog
	err := as.db.Model(&Event{}).
		Select("analytics_events.id, analytics_events.category, analytics_events.action, analytics_events.label, analytics_events.created_at, analytics_visitors.country, analytics_visitors.device_type as device").
		Joins("LEFT JOIN analytics_visitors ON analytics_visitors.id = analytics_events.visitor_id").
		Where("analytics_events.created_at >= ?", start).
		Order("analytics_events.created_at DESC").
		Limit(limit).
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("error loading events: %w", err)
	}
	return events, nil
}

// GetRealtimeStats récupère les compteurs du jour depuis Redis
func (as *AnalyticsService) GetRealtimeStats() (map[string]interface{}, error) {
	if as.redis == nil {
		return map[string]interface{}{}, nil
	}

	ctx := context.Background()
	today := time.Now().Format("2006-01-02")

	pageViews, err := as.redis.HGet(ctx, "analytics:daily:"+today, "page_views").Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	uniqueVisitors, err := as.redis.SCard(ctx, "analytics:visitors:"+today).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	return map[string]interface{}{
		"today_page_views":      pageViews,
		"today_unique_visitors": uniqueVisitors,
	}, nil
}

// cleanupOldRows purge les lignes analytics au-delà de la rétention
func (as *AnalyticsService) cleanupOldRows() error {
	cutoff := time.Now().AddDate(0, 0, -as.retention)

	result := as.db.Where("created_at < ?", cutoff).Delete(&PageView{})
	if result.Error != nil {
		return result.Error
	}
	log.Info().Int64("rows", result.RowsAffected).Msg("Purge des vues de page")

	result = as.db.Where("created_at < ?", cutoff).Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	log.Info().Int64("rows", result.RowsAffected).Msg("Purge des évènements")

	result = as.db.Where("created_at < ?", cutoff).Delete(&Visitor{})
	if result.Error != nil {
		return result.Error
	}
	log.Info().Int64("rows", result.RowsAffected).Msg("Purge des visiteurs")

	return nil
}

func (as *AnalyticsService) setupCleanupCron() *cron.Cron {
	c := cron.New()

	// Exécuter tous les jours à 3h du matin
	c.AddFunc("0 3 * * *", func() {
		if err := as.cleanupOldRows(); err != nil {
			log.Error().Err(err).Msg("Purge analytics échouée")
		}
	})

	c.Start()
	return c
}
