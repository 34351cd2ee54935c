package pfsite

import (
	"fmt"
	"littlefolio/internal/gormzerologger"
	"littlefolio/internal/models/pfanalytics"
	"littlefolio/internal/models/pfauth"
	"littlefolio/internal/models/pfcaptchas"
	"littlefolio/internal/models/pfconfig"
	"littlefolio/internal/models/pfmessages"
	"littlefolio/internal/models/pfportfolio"
	"littlefolio/internal/pfnotify"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	instance *Littlefolio
)

// Littlefolio regroupe l'état partagé du site : base, config, services
type Littlefolio struct {
	Db            *gorm.DB
	Configuration *pfconfig.Config
	Captcha       *pfcaptchas.Captchas
	Analytics     *pfanalytics.AnalyticsService
	Portfolio     *pfportfolio.PortfolioService
	Messages      *pfmessages.MessageService
	OTP           *pfauth.OTPService
	Notifier      *pfnotify.Notifier
	EmailJS       *pfnotify.EmailJS
	Version       string
	BuildID       string
}

func GetInstance() *Littlefolio {
	if instance == nil {
		instance = &Littlefolio{}
	}
	return instance
}

func Init(config *pfconfig.Config, version string, buildid string) *Littlefolio {
	instance = &Littlefolio{
		Configuration: config,
		Version:       version,
		BuildID:       buildid,
	}
	instance.initDatabase()
	instance.initServices()
	instance.initCaptcha()
	instance.initNotifier()
	if config.Analytics.Enabled {
		instance.initAnalytics()
	}
	return instance
}

func (lf *Littlefolio) initDatabase() {
	db, err := openDatabase(lf.Configuration, lf.Configuration.Database.Db,
		lf.Configuration.Database.Path, lf.Configuration.Database.Dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Erreur connexion base de données")
	}

	err = db.AutoMigrate(
		&pfportfolio.Project{},
		&pfportfolio.Skill{},
		&pfportfolio.Qualification{},
		&pfmessages.ContactMessage{},
		&pfauth.OTPCode{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Erreur migration")
	}

	lf.Db = db
}

func (lf *Littlefolio) initServices() {
	lf.Portfolio = pfportfolio.NewPortfolioService(lf.Db)
	lf.Messages = pfmessages.NewMessageService(lf.Db)
	lf.OTP = pfauth.NewOTPService(lf.Db)

	// Purge horaire des codes OTP périmés
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := lf.OTP.CleanupExpired(); err != nil {
			log.Error().Err(err).Msg("Purge des codes OTP échouée")
		}
	})
	c.Start()
}

func (lf *Littlefolio) initCaptcha() {
	lf.Captcha = pfcaptchas.New(lf.Configuration.Database.Redis.Addr, lf.Configuration.Database.Redis.Db)
}

func (lf *Littlefolio) initNotifier() {
	notify := lf.Configuration.Notify

	lf.EmailJS = pfnotify.NewEmailJS(
		notify.EmailJS.URL,
		notify.EmailJS.ServiceID,
		notify.EmailJS.UserID,
		notify.EmailJS.OTPTmpl,
		notify.EmailJS.NotifyTmpl,
		notify.EmailJS.To,
	)

	var channels []pfnotify.Channel
	if t := pfnotify.NewTelegram(notify.Telegram.BotToken, notify.Telegram.ChatID); t != nil {
		channels = append(channels, t)
	}
	if w := pfnotify.NewWablas(notify.Wablas.URL, notify.Wablas.APIKey, notify.Wablas.Secret, notify.Wablas.Phone); w != nil {
		channels = append(channels, w)
	}
	if lf.EmailJS != nil && notify.EmailJS.NotifyTmpl != "" {
		channels = append(channels, lf.EmailJS)
	}

	lf.Notifier = pfnotify.NewNotifier(channels...)
}

// initAnalytics ouvre la base analytics, qui peut être séparée de la
// base principale, et démarre le service d'agrégation
func (lf *Littlefolio) initAnalytics() {
	config := lf.Configuration

	var err error
	var db *gorm.DB
	switch config.Analytics.Db {
	case "sqlite", "mysql":
		db, err = openDatabase(config, config.Analytics.Db,
			config.Analytics.Path, config.Analytics.Dsn)
	default:
		db = lf.Db
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Erreur connexion base analytics")
	}

	err = db.AutoMigrate(&pfanalytics.Visitor{}, &pfanalytics.PageView{}, &pfanalytics.Event{})
	if err != nil {
		log.Fatal().Err(err).Msg("Erreur migration analytics")
	}

	var redisClient *redis.Client
	if config.Analytics.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: config.Analytics.Redis.Addr,
			DB:   config.Analytics.Redis.Db,
		})
	}

	lf.Analytics = pfanalytics.NewAnalyticsService(db, redisClient,
		config.Analytics.GeoIPPath, config.Analytics.RetentionDays)
}

func openDatabase(config *pfconfig.Config, dbtype, path, dsn string) (*gorm.DB, error) {
	// Créer le logger GORM avec Zerolog
	level := "warn"
	if config.Logger.Level == "debug" || !config.Production {
		level = "trace"
	}
	gormLogger := gormzerologger.New(level)

	switch dbtype {
	case "sqlite":
		return gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: gormLogger,
		})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormLogger,
		})
	}
	return nil, fmt.Errorf("le type de database doit etre sqlite ou mysql")
}
