package pfconfig

import (
	"fmt"
	"log/syslog"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TrustedProxies  []string        `yaml:"trustedproxies"`
	TrustedPlatform string          `yaml:"trustedplatform"`
	Database        DatabaseConfig  `yaml:"database"`
	StaticPath      string          `yaml:"staticpath"`
	AdminPath       string          `yaml:"adminpath"`
	User            UserConfig      `yaml:"user"`
	Production      bool            `yaml:"production"`
	Listen          ListenConfig    `yaml:"listen"`
	Logger          LoggerConfig    `yaml:"logger"`
	Site            SiteConfig      `yaml:"site"`
	Analytics       AnalyticsConfig `yaml:"analytics"`
	Notify          NotifyConfig    `yaml:"notify"`
}

type SiteConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"baseurl"`
}

type AnalyticsConfig struct {
	Enabled       bool        `yaml:"enabled"`
	Db            string      `yaml:"db"`
	Path          string      `yaml:"path"`
	Dsn           string      `yaml:"dsn"`
	RetentionDays int         `yaml:"retentiondays"`
	GeoIPPath     string      `yaml:"geoippath"`
	Redis         RedisConfig `yaml:"redis"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Wablas   WablasConfig   `yaml:"wablas"`
	EmailJS  EmailJSConfig  `yaml:"emailjs"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bottoken"`
	ChatID   string `yaml:"chatid"`
}

type WablasConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"apikey"`
	Secret string `yaml:"secret"`
	Phone  string `yaml:"phone"`
}

type EmailJSConfig struct {
	URL        string `yaml:"url"`
	ServiceID  string `yaml:"serviceid"`
	UserID     string `yaml:"userid"`
	OTPTmpl    string `yaml:"otptemplate"`
	NotifyTmpl string `yaml:"notifytemplate"`
	To         string `yaml:"to"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	Db   int    `yaml:"db"`
}

type LoggerConfig struct {
	Level  string             `yaml:"level"`
	File   LoggerFileConfig   `yaml:"file"`
	Syslog LoggerSyslogConfig `yaml:"syslog"`
}

type LoggerFileConfig struct {
	Enable     bool   `yaml:"enable"`
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxsize"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAge     int    `yaml:"maxage"`
	Compress   bool   `yaml:"compress"`
}

type LoggerSyslogConfig struct {
	Enable   bool            `yaml:"enable"`
	Protocol string          `yaml:"protocol"`
	Address  string          `yaml:"address"`
	Tag      string          `yaml:"tag"`
	Priority syslog.Priority `yaml:"priority"`
}

type ListenConfig struct {
	Website string `yaml:"website"`
}

type UserConfig struct {
	Login string `yaml:"login"`
	Email string `yaml:"email"`
	Pass  string `yaml:"pass"`
	Hash  string `yaml:"hash"`
}

type DatabaseConfig struct {
	Redis RedisConfig `yaml:"redis"`
	Db    string      `yaml:"db"`
	Path  string      `yaml:"path"`
	Dsn   string      `yaml:"dsn"`
}

func CreateExampleConfig(filename string) (string, error) {
	example := &Config{
		Database: DatabaseConfig{
			Db:   "sqlite",
			Path: "./littlefolio.db",
		},
		Analytics: AnalyticsConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
		User: UserConfig{
			Login: "admin",
			Email: "admin@example.com",
			Pass:  "admin1234",
		},
		StaticPath: "./static",
		AdminPath:  "/cp-7x9k2m",
		Production: false,
		Logger: LoggerConfig{
			Level: "info",
			File: LoggerFileConfig{
				Enable: false,
			},
			Syslog: LoggerSyslogConfig{
				Enable: false,
			},
		},
		Listen: ListenConfig{
			Website: "0.0.0.0:8080",
		},
		Site: SiteConfig{
			Name:        "Mon Portfolio",
			Description: "Portfolio qui utilise littlefolio",
			BaseURL:     "http://localhost:8080",
		},
	}

	if filename == "/etc/" {
		example.Listen.Website = "127.0.0.1:8000"
		example.Production = true
		example.Database.Path = "/var/lib/littlefolio/sqlite.db"
		example.StaticPath = "/var/lib/littlefolio/static"
		example.Logger.File = LoggerFileConfig{
			Enable:     true,
			Path:       "/var/log/littlefolio/littlefolio.log",
			MaxSize:    100,
			MaxBackups: 30,
			MaxAge:     7,
			Compress:   true,
		}
		filename = "/etc/littlefolio/config.yaml"
	}

	return filename, WriteConfigYaml(filename, example)
}

func WriteConfigYaml(filename string, conf *Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

// Charger la configuration YAML
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("impossible de lire le fichier %s: %v", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("erreur de parsing YAML: %v", err)
	}

	return &config, nil
}

func CreateExample(shouldCreateExample bool, configFile string) {
	// Handle example creation
	if shouldCreateExample {
		if err := handleExampleCreation(configFile); err != nil {
			fmt.Printf("❌ %v\n", err)
		}
		os.Exit(1)
	}

	_, err := os.Stat(configFile)
	if err != nil && os.IsNotExist(err) {
		if err := handleExampleCreation(configFile); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

	}
}

func handleExampleCreation(filename string) error {
	if filename == "" {
		filename = "littlefolio.yaml"
	}
	filename, err := CreateExampleConfig(filename)
	if err != nil {
		return fmt.Errorf("erreur création exemple: %v", err)
	}

	fmt.Printf("✅ Fichier exemple créé: %s", filename)
	fmt.Println("⚠️  Admin_pass sera automatiquement hash en argon2 dans Admin_hash au premier lancement")
	return nil
}

func DisplayConfiguration(config *Config, version string) {
	logPrintf("Littlefolio version %s", version)

	logPrintf("Mode Production %v", config.Production)
	logPrintf("Administrateur login %s", config.User.Login)
	logPrintf("Chemin admin %s", config.AdminPath)

	logPrintf("Database")
	if config.Database.Db == "sqlite" {
		logPrintf("  • Type sqlite")
		logPrintf("  • Path %s", config.Database.Path)
	}
	if config.Database.Db == "mysql" {
		logPrintf("  • Type mysql")
		logPrintf("  • DSN %s", config.Database.Dsn)
	}
	if config.Database.Redis.Addr != "" {
		logPrintf("  • Cache redis %s", config.Database.Redis.Addr)
	}

	if config.Analytics.Enabled {
		logPrintf("Analytics activé")
		if config.Analytics.Db == "sqlite" && config.Analytics.Path != "" {
			logPrintf("  • Sqlite path %s", config.Analytics.Path)
		} else if config.Analytics.Db == "mysql" && config.Analytics.Dsn != "" {
			logPrintf("  • mysql dsn %s", config.Analytics.Dsn)
		} else {
			logPrintf("  • La base est la même que la principale")
		}
		if config.Analytics.Redis.Addr != "" {
			logPrintf("  • Redis addr %s", config.Analytics.Redis.Addr)
		}
		if config.Analytics.GeoIPPath != "" {
			logPrintf("  • GeoIP mmdb %s", config.Analytics.GeoIPPath)
		}
		logPrintf("  • Rétention %d jours", config.Analytics.RetentionDays)
	} else {
		logPrintf("Analytics désactivé")
	}

	logPrintf("Notifications")
	if config.Notify.Telegram.BotToken != "" {
		logPrintf("  • Telegram chat %s", config.Notify.Telegram.ChatID)
	}
	if config.Notify.Wablas.APIKey != "" {
		logPrintf("  • Wablas vers %s", config.Notify.Wablas.Phone)
	}
	if config.Notify.EmailJS.ServiceID != "" {
		logPrintf("  • EmailJS service %s", config.Notify.EmailJS.ServiceID)
	}

	// Logger
	logPrintf("Logger en level %s", config.Logger.Level)
	if config.Logger.File.Enable {
		logPrintf("  Log en fichier activé")
		logPrintf("  • Path %s", config.Logger.File.Path)
		logPrintf("  • Max size %d", config.Logger.File.MaxSize)
		logPrintf("  • Max age %d", config.Logger.File.MaxAge)
		logPrintf("  • Max backup %d", config.Logger.File.MaxBackups)
		logPrintf("  • Compression %v", config.Logger.File.Compress)
	} else {
		logPrintf("  Log en fichier désactivé")
	}
	if config.Logger.Syslog.Enable {
		logPrintf("  Log en syslog activé")
		logPrintf("  • Protocol %s", config.Logger.Syslog.Protocol)
		logPrintf("  • Address %s", config.Logger.Syslog.Address)
		logPrintf("  • Tag %s", config.Logger.Syslog.Tag)
		logPrintf("  • Priority %v", config.Logger.Syslog.Priority)
	} else {
		logPrintf("  Log en syslog désactivé")
	}
}

// Info logue avec printf
func logPrintf(format string, a ...any) {
	log.Info().Msg(fmt.Sprintf(format, a...))
}
