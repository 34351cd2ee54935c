package handlers_public

import (
	"errors"
	"littlefolio/internal/models/pfmessages"
	"littlefolio/internal/models/pfsite"
	"littlefolio/internal/pfmiddleware"
	"littlefolio/internal/pfnotify"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PublicHandler struct {
	site *pfsite.Littlefolio
}

func NewPublicHandler(site *pfsite.Littlefolio) *PublicHandler {
	return &PublicHandler{site: site}
}

type ContactRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Message       string `json:"message"`
	CaptchaID     string `json:"captchaID"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

type EventRequest struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label"`
}

// GetProjects liste les projets visibles
func (ph *PublicHandler) GetProjects(c *gin.Context) {
	projects, err := ph.site.Portfolio.VisibleProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération projets"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetSkills liste les compétences visibles
func (ph *PublicHandler) GetSkills(c *gin.Context) {
	skills, err := ph.site.Portfolio.VisibleSkills()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération compétences"})
		return
	}
	c.JSON(http.StatusOK, skills)
}

// GetQualifications liste le parcours visible
func (ph *PublicHandler) GetQualifications(c *gin.Context) {
	qualifications, err := ph.site.Portfolio.VisibleQualifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération parcours"})
		return
	}
	c.JSON(http.StatusOK, qualifications)
}

// Contact traite le formulaire de contact. Monté en Any : seules les
// méthodes POST sont acceptées, les préflights OPTIONS sont déjà
// traités par le middleware CORS.
func (ph *PublicHandler) Contact(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Méthode non autorisée"})
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Données invalides",
		})
		return
	}

	// Le CAPTCHA n'est contrôlé que si le client en a fourni un
	if req.CaptchaID != "" || req.CaptchaAnswer != "" {
		if err := ph.site.Captcha.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
	}

	msg, err := ph.site.Messages.Create(req.Name, req.Email, req.Message)
	if errors.Is(err, pfmessages.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Les champs nom, email et message sont obligatoires",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Erreur enregistrement du message de contact")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	// Relayer au propriétaire, au mieux : un échec d'envoi n'annule
	// pas la soumission déjà enregistrée
	if ph.site.Notifier.HasChannels() {
		go ph.site.Notifier.NotifyContact(pfnotify.ContactNotification{
			Name:    msg.Name,
			Email:   msg.Email,
			Message: msg.Message,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    msg,
	})
}

// RecordEvent enregistre une interaction. Fire-and-forget : le client
// n'attend pas l'écriture.
func (ph *PublicHandler) RecordEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == "" || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category et action sont obligatoires"})
		return
	}

	if ph.site.Analytics == nil {
		c.JSON(http.StatusAccepted, gin.H{"accepted": true})
		return
	}

	// Le visiteur est posé dans la session par le middleware analytics
	// avant les handlers : pas d'attente ni de retry nécessaires
	visitorID := pfmiddleware.VisitorID(c)
	if visitorID == "" {
		log.Debug().Str("category", req.Category).Msg("Évènement sans visiteur, ignoré")
		c.JSON(http.StatusAccepted, gin.H{"accepted": true})
		return
	}

	go func() {
		if err := ph.site.Analytics.RecordEvent(visitorID, req.Category, req.Action, req.Label); err != nil {
			log.Error().Err(err).Msg("Error recording event")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}
