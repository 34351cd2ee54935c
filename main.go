package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	handlers_admin "littlefolio/internal/handlers/admin"
	handlers_analytics "littlefolio/internal/handlers/analytics"
	handlers_auth "littlefolio/internal/handlers/auth"
	handlers_public "littlefolio/internal/handlers/public"
	"littlefolio/internal/models/pfconfig"
	"littlefolio/internal/models/pflog"
	"littlefolio/internal/models/pfmarkdown"
	"littlefolio/internal/models/pfsite"
	"littlefolio/internal/pfmiddleware"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const VERSION string = "0.2.0"

var BuildID string

func parseCommandLineArgs() (configFile string, shouldCreateExample bool, versionDisplay bool, err error) {
	var config = flag.String("config", "", "Fichier de configuration YAML")
	var example = flag.Bool("example", false, "Créer un fichier de configuration exemple")
	var version = flag.Bool("version", false, "version du produit")
	flag.Parse()

	if *version {
		return "", false, true, nil
	}

	if *example {
		return "", true, false, nil
	}

	if *config == "" {
		return "", false, false, fmt.Errorf("fichier de configuration requis")
	}

	return *config, false, false, nil
}

func initConfiguration() *pfconfig.Config {
	configFile, shouldCreateExample, versionDisplay, err := parseCommandLineArgs()
	if err != nil {
		fmt.Println("Usage:")
		fmt.Println("  littlefolio -config littlefolio.yaml")
		fmt.Println("  littlefolio -example  (pour créer un fichier exemple)")
		fmt.Println("  littlefolio -version  (affiche la version)")
		os.Exit(1)
	}

	if versionDisplay {
		println(VERSION)
		os.Exit(0)
	}

	pfconfig.CreateExample(shouldCreateExample, configFile)

	conf, err := loadAndValidateConfig(configFile)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	return conf
}

func loadAndValidateConfig(configFile string) (*pfconfig.Config, error) {
	conf, err := pfconfig.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("erreur chargement config: %v", err)
	}

	if conf.Database.Db == "sqlite" && conf.Database.Path == "" {
		return nil, fmt.Errorf("database.path ne peut pas être vide")
	}
	if conf.Database.Db == "mysql" && conf.Database.Dsn == "" {
		return nil, fmt.Errorf("database.dsn ne peut pas être vide")
	}
	if conf.Database.Db == "" {
		return nil, fmt.Errorf("database.db ne peut pas être vide")
	}

	if conf.Listen.Website == "" {
		conf.Listen.Website = "localhost:8080"
	}
	if strings.HasPrefix(conf.Listen.Website, ":") {
		conf.Listen.Website = "localhost" + conf.Listen.Website
	}

	if conf.AdminPath == "" {
		conf.AdminPath = "/admin"
	}
	if !strings.HasPrefix(conf.AdminPath, "/") {
		conf.AdminPath = "/" + conf.AdminPath
	}

	// Le mot de passe en clair est hashé en argon2 puis effacé du yaml
	if conf.User.Pass != "" {
		if len(conf.User.Pass) < 8 {
			return nil, fmt.Errorf("le mot de passe doit contenir au moins 8 caractères")
		}

		hash, err := argon2.GenerateFromPassword([]byte(conf.User.Pass), argon2.DefaultParams)
		if err != nil {
			return nil, err
		}
		conf.User.Hash = string(hash)
		conf.User.Pass = ""
		err = pfconfig.WriteConfigYaml(configFile, conf)
		if err != nil {
			return nil, err
		}
	}

	return conf, nil
}

func newServer(config *pfconfig.Config) *gin.Engine {
	if config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if config.TrustedProxies != nil {
		r.SetTrustedProxies(config.TrustedProxies)
	}
	if config.TrustedPlatform != "" {
		switch config.TrustedPlatform {
		case "cloudflare":
			r.TrustedPlatform = "CF-Connecting-IP"
		case "google":
			r.TrustedPlatform = gin.PlatformGoogleAppEngine
		case "flyio":
			r.TrustedPlatform = gin.PlatformFlyIO
		default:
			r.TrustedPlatform = config.TrustedPlatform
		}
	}

	return r
}

// ServeMinifiedStatic sert les CSS/JS du frontend minifiés à la volée,
// avec en-têtes de cache immutable
func ServeMinifiedStatic(m *minify.M, staticPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := strings.TrimPrefix(c.Request.URL.Path, "/assets/")
		if strings.Contains(rel, "..") {
			c.AbortWithStatus(404)
			return
		}

		content, err := os.ReadFile(filepath.Join(staticPath, "assets", rel))
		if err != nil {
			c.AbortWithStatus(404)
			return
		}

		ext := filepath.Ext(rel)
		var contentType string
		var minified []byte

		switch ext {
		case ".css":
			contentType = "text/css"
			minified, err = m.Bytes("text/css", content)
		case ".js":
			contentType = "application/javascript"
			minified, err = m.Bytes("application/javascript", content)
		default:
			c.Data(200, "application/octet-stream", content)
			return
		}

		if err != nil {
			minified = content
		}

		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Data(200, contentType, minified)
	}
}

func setRoutes(r *gin.Engine, site *pfsite.Littlefolio) {
	config := site.Configuration

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	// middleware rate limiter
	middlewareLimiter := pfmiddleware.NewLimiter()

	publicHandler := handlers_public.NewPublicHandler(site)
	authHandler := handlers_auth.NewAuthHandler(site)
	adminHandler := handlers_admin.NewAdminHandler(site)

	// Le frontend est une SPA : toute route inconnue hors API sert l'index
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(404, gin.H{"error": "Route non trouvée"})
			return
		}
		c.File(filepath.Join(config.StaticPath, "index.html"))
	})

	// Routes statiques
	r.Static("/static/", config.StaticPath)
	r.GET("/assets/*filepath", ServeMinifiedStatic(m, config.StaticPath))
	r.GET("/files/captcha", func(c *gin.Context) {
		site.Captcha.CaptchaHandler(c, config.Production)
	})

	// API publiques
	api := r.Group("/api")
	{
		api.GET("/projects", publicHandler.GetProjects)
		api.GET("/skills", publicHandler.GetSkills)
		api.GET("/qualifications", publicHandler.GetQualifications)
		api.Any("/contact", middlewareLimiter, publicHandler.Contact)
		api.POST("/events", publicHandler.RecordEvent)
	}

	// Routes d'authentification, sous le préfixe admin configurable
	r.POST(config.AdminPath+"/login", middlewareLimiter, authHandler.Login)
	r.POST(config.AdminPath+"/verify", middlewareLimiter, authHandler.Verify)
	r.POST(config.AdminPath+"/resend", middlewareLimiter, authHandler.Resend)
	r.POST(config.AdminPath+"/logout", authHandler.Logout)

	// Routes d'administration protégées
	admin := r.Group(config.AdminPath + "/api")
	admin.Use(pfmiddleware.AuthRequired())
	{
		admin.GET("/projects", adminHandler.ListProjects)
		admin.POST("/projects", adminHandler.CreateProject)
		admin.PUT("/projects/:id", adminHandler.UpdateProject)
		admin.DELETE("/projects/:id", adminHandler.DeleteProject)

		admin.GET("/skills", adminHandler.ListSkills)
		admin.POST("/skills", adminHandler.CreateSkill)
		admin.PUT("/skills/:id", adminHandler.UpdateSkill)
		admin.DELETE("/skills/:id", adminHandler.DeleteSkill)

		admin.GET("/qualifications", adminHandler.ListQualifications)
		admin.POST("/qualifications", adminHandler.CreateQualification)
		admin.PUT("/qualifications/:id", adminHandler.UpdateQualification)
		admin.DELETE("/qualifications/:id", adminHandler.DeleteQualification)

		admin.GET("/messages", adminHandler.ListMessages)
		admin.PUT("/messages/:id/read", adminHandler.MarkMessageRead)
		admin.DELETE("/messages/:id", adminHandler.DeleteMessage)

		admin.POST("/upload/image", adminHandler.UploadImage)

		if site.Analytics != nil {
			analyticsHandler := handlers_analytics.NewAnalyticsHandler(site.Analytics)
			admin.GET("/analytics/stats", analyticsHandler.GetStats)
			admin.GET("/analytics/traffic", analyticsHandler.GetTraffic)
			admin.GET("/analytics/devices", analyticsHandler.GetDevices)
			admin.GET("/analytics/events", analyticsHandler.GetRecentEvents)
			admin.GET("/analytics/realtime", analyticsHandler.GetRealtimeStats)
		}
	}
}

func startServer(r *gin.Engine, config *pfconfig.Config) {
	log.Info().Msgf("Website démarré sur http://%s", config.Listen.Website)
	log.Info().Msgf("Admin: http://%s%s", config.Listen.Website, config.AdminPath)
	r.Run(config.Listen.Website)
}

func main() {
	if BuildID == "" {
		BuildID = VERSION
	}

	config := initConfiguration()
	pflog.InitLogger(config.Logger, config.Production)
	pfconfig.DisplayConfiguration(config, VERSION)
	pfmarkdown.InitMarkdown()

	site := pfsite.Init(config, VERSION, BuildID)

	r := newServer(config)
	pfmiddleware.InitMiddleware(r, config.Production)

	if site.Analytics != nil {
		am := pfmiddleware.NewAnalyticsMiddleware(site.Analytics, config.AdminPath)
		r.Use(am.Middleware())
	}

	setRoutes(r, site)

	startServer(r, config)
}
