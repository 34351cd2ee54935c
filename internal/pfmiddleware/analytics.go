package pfmiddleware

import (
	"littlefolio/internal/models/pfanalytics"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionKeySessionID = "analytics_session_id"
	sessionKeyVisitorID = "visitor_id"
)

// AnalyticsMiddleware initialise le visiteur d'une session et
// enregistre les vues de page. Doit être monté après le middleware
// de session : l'identifiant visiteur est posé dans la session avant
// que les handlers ne s'exécutent, il n'y a donc jamais de course
// entre le bootstrap et l'enregistrement d'un évènement.
type AnalyticsMiddleware struct {
	service     *pfanalytics.AnalyticsService
	adminPrefix string
}

func NewAnalyticsMiddleware(service *pfanalytics.AnalyticsService, adminPrefix string) *AnalyticsMiddleware {
	return &AnalyticsMiddleware{
		service:     service,
		adminPrefix: adminPrefix,
	}
}

func (am *AnalyticsMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ne pas tracker les assets statiques, l'admin et les endpoints API
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, am.adminPrefix) ||
			strings.HasPrefix(path, "/files/") ||
			strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}

		visitorID := am.ensureVisitor(c)

		// Enregistrer de manière asynchrone pour ne pas bloquer la requête
		if visitorID != "" {
			go func() {
				if err := am.service.RecordPageView(visitorID, path); err != nil {
					log.Error().Err(err).Str("path", path).Msg("Error recording page view")
				}
			}()
		}

		c.Next()
	}
}

// ensureVisitor garantit qu'un visiteur existe pour la session courante.
// Idempotent : une session déjà initialisée est un no-op. En cas
// d'échec l'identifiant reste vide et les enregistrements suivants
// deviennent des no-ops, sans interrompre la requête.
func (am *AnalyticsMiddleware) ensureVisitor(c *gin.Context) string {
	session := sessions.Default(c)

	if visitorID, ok := session.Get(sessionKeyVisitorID).(string); ok && visitorID != "" {
		return visitorID
	}

	sessionID, ok := session.Get(sessionKeySessionID).(string)
	if !ok || sessionID == "" {
		sessionID = uuid.NewString()
	}

	referrer := c.Request.Referer()
	visitor, err := am.service.BootstrapVisitor(sessionID, c.Request.UserAgent(), referrer, c.ClientIP())
	if err != nil {
		log.Error().Err(err).Msg("Error bootstrapping visitor")
		return ""
	}

	session.Set(sessionKeySessionID, sessionID)
	session.Set(sessionKeyVisitorID, visitor.ID)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Msg("Error saving analytics session")
	}

	return visitor.ID
}

// VisitorID lit l'identifiant visiteur de la session courante, "" si absent
func VisitorID(c *gin.Context) string {
	session := sessions.Default(c)
	if visitorID, ok := session.Get(sessionKeyVisitorID).(string); ok {
		return visitorID
	}
	return ""
}
