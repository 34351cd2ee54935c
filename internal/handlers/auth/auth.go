package handlers_auth

import (
	"littlefolio/internal/models/pfsite"
	"net/http"

	"github.com/andskur/argon2-hashing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Clé de session posée entre le premier facteur (mot de passe) et le
// second (code OTP). Aucune session authentifiée n'existe tant que le
// code n'a pas été vérifié.
const sessionKeyOTPPending = "otp_pending"

type AuthHandler struct {
	site *pfsite.Littlefolio
}

func NewAuthHandler(site *pfsite.Littlefolio) *AuthHandler {
	return &AuthHandler{site: site}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// Login vérifie le premier facteur puis génère et envoie le code OTP.
// La session ne contient pas encore d'utilisateur : seul le marqueur
// otp_pending est posé.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	config := ah.site.Configuration

	// Vérification login / pass
	err := argon2.CompareHashAndPassword([]byte(config.User.Hash), []byte(req.Password))
	if err != nil || req.Username != config.User.Login {
		log.Warn().Str("user", req.Username).Str("ip", c.ClientIP()).Msg("Tentative de connexion échouée")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}

	if err := ah.sendOTP(req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi du code"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyOTPPending, req.Username)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur session"})
		return
	}

	log.Info().Str("user", req.Username).Str("ip", c.ClientIP()).Msg("Premier facteur validé, code envoyé")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Code envoyé",
		"otp_required": true,
	})
}

// Verify contrôle le code OTP et établit la session authentifiée.
// Le code rejeté ne fait pas perdre l'étape : otp_pending reste posé.
func (ah *AuthHandler) Verify(c *gin.Context) {
	session := sessions.Default(c)
	login, ok := session.Get(sessionKeyOTPPending).(string)
	if !ok || login == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Aucune connexion en attente"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := ah.site.OTP.Verify(login, req.Code); err != nil {
		log.Warn().Str("user", login).Str("ip", c.ClientIP()).Msg("Code OTP rejeté")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	// Second facteur validé : établir la session
	session.Delete(sessionKeyOTPPending)
	session.Set("user_id", "admin")
	session.Set("username", login)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur session"})
		return
	}

	log.Info().Str("user", login).Str("ip", c.ClientIP()).Msg("Connexion réussie")
	c.JSON(http.StatusOK, gin.H{
		"message":  "Connexion réussie",
		"redirect": ah.site.Configuration.AdminPath,
	})
}

// Resend regénère un code et invalide le précédent
func (ah *AuthHandler) Resend(c *gin.Context) {
	session := sessions.Default(c)
	login, ok := session.Get(sessionKeyOTPPending).(string)
	if !ok || login == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Aucune connexion en attente"})
		return
	}

	if err := ah.sendOTP(login); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi du code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Nouveau code envoyé"})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (ah *AuthHandler) sendOTP(login string) error {
	code, err := ah.site.OTP.Generate(login)
	if err != nil {
		return err
	}

	if ah.site.EmailJS != nil {
		if err := ah.site.EmailJS.SendOTP(code); err != nil {
			log.Error().Err(err).Msg("Échec d'envoi du code OTP par email")
			return err
		}
		return nil
	}

	// Sans relai email configuré, le code part dans les logs (dev)
	if !ah.site.Configuration.Production {
		log.Info().Str("code", code).Msg("Code OTP généré")
		return nil
	}
	return nil
}
