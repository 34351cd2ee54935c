package handlers_admin

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"littlefolio/internal/models/pfimages"
	"littlefolio/internal/models/pfportfolio"
	"littlefolio/internal/models/pfsite"
	mrand "math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	site *pfsite.Littlefolio
}

func NewAdminHandler(site *pfsite.Littlefolio) *AdminHandler {
	return &AdminHandler{site: site}
}

type ProjectRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	BannerImage  string   `json:"banner_image"`
	Aspect       string   `json:"aspect"`
	TechStack    []string `json:"tech_stack"`
	GithubURL    string   `json:"github_url"`
	DemoURL      string   `json:"demo_url"`
	Category     string   `json:"category"`
	DisplayOrder int      `json:"display_order"`
	IsVisible    *bool    `json:"is_visible"`
}

type SkillRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	IconSlug     string `json:"icon_slug"`
	DisplayOrder int    `json:"display_order"`
	IsVisible    *bool  `json:"is_visible"`
}

type QualificationRequest struct {
	Type         string `json:"type" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Subtitle     string `json:"subtitle"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsVisible    *bool  `json:"is_visible"`
}

// ============= PROJETS =============

func (ah *AdminHandler) ListProjects(c *gin.Context) {
	projects, err := ah.site.Portfolio.AllProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération projets"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (ah *AdminHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	project := projectFromRequest(&req)
	if err := ah.site.Portfolio.CreateProject(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création projet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Projet créé avec succès",
		"project_id": project.ID,
	})
}

func (ah *AdminHandler) UpdateProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	project, err := ah.site.Portfolio.GetProject(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Projet non trouvé"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	updated := projectFromRequest(&req)
	updated.ID = project.ID
	// Save écrit toutes les colonnes : conserver la date de création
	updated.CreatedAt = project.CreatedAt
	if err := ah.site.Portfolio.UpdateProject(updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour projet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projet mis à jour avec succès"})
}

func (ah *AdminHandler) DeleteProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ah.site.Portfolio.DeleteProject(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression projet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projet supprimé avec succès"})
}

// ============= COMPÉTENCES =============

func (ah *AdminHandler) ListSkills(c *gin.Context) {
	skills, err := ah.site.Portfolio.AllSkills()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération compétences"})
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (ah *AdminHandler) CreateSkill(c *gin.Context) {
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	skill := skillFromRequest(&req)
	if err := ah.site.Portfolio.CreateSkill(skill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Compétence créée avec succès",
		"skill_id": skill.ID,
	})
}

func (ah *AdminHandler) UpdateSkill(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	existing, err := ah.site.Portfolio.GetSkill(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Compétence non trouvée"})
		return
	}

	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	skill := skillFromRequest(&req)
	skill.ID = existing.ID
	skill.CreatedAt = existing.CreatedAt
	if err := ah.site.Portfolio.UpdateSkill(skill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compétence mise à jour avec succès"})
}

func (ah *AdminHandler) DeleteSkill(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ah.site.Portfolio.DeleteSkill(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression compétence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compétence supprimée avec succès"})
}

// ============= PARCOURS =============

func (ah *AdminHandler) ListQualifications(c *gin.Context) {
	qualifications, err := ah.site.Portfolio.AllQualifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération parcours"})
		return
	}
	c.JSON(http.StatusOK, qualifications)
}

func (ah *AdminHandler) CreateQualification(c *gin.Context) {
	var req QualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	q := qualificationFromRequest(&req)
	if err := ah.site.Portfolio.CreateQualification(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Parcours créé avec succès",
		"qualification_id": q.ID,
	})
}

func (ah *AdminHandler) UpdateQualification(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	existing, err := ah.site.Portfolio.GetQualification(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcours non trouvé"})
		return
	}

	var req QualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	q := qualificationFromRequest(&req)
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	if err := ah.site.Portfolio.UpdateQualification(q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour parcours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parcours mis à jour avec succès"})
}

func (ah *AdminHandler) DeleteQualification(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ah.site.Portfolio.DeleteQualification(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression parcours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parcours supprimé avec succès"})
}

// ============= MESSAGES =============

func (ah *AdminHandler) ListMessages(c *gin.Context) {
	messages, err := ah.site.Messages.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (ah *AdminHandler) MarkMessageRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ah.site.Messages.MarkRead(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message non trouvé"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marqué comme lu"})
}

func (ah *AdminHandler) DeleteMessage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	if err := ah.site.Messages.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message supprimé avec succès"})
}

// ============= UPLOAD =============

// UploadImage reçoit une bannière de projet, la redimensionne et la
// sauvegarde sous static/uploads
func (ah *AdminHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier non trouvé"})
		return
	}
	defer file.Close()

	// Vérifier le type MIME
	buffer := make([]byte, 512)
	_, err = file.Read(buffer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture fichier"})
		return
	}

	contentType := http.DetectContentType(buffer)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le fichier doit être une image"})
		return
	}

	// Limiter la taille (10MB avant compression)
	if header.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop grande (max 10MB)"})
		return
	}

	// Réinitialiser le curseur du fichier
	file.Seek(0, 0)

	img, format, err := image.Decode(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage image"})
		return
	}

	processedImg := pfimages.Resize(img, 1920)

	uploadsDir := filepath.Join(ah.site.Configuration.StaticPath, "uploads")
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création dossier"})
		return
	}

	var ext string
	switch format {
	case "jpeg", "jpg":
		ext = ".jpg"
	case "png":
		ext = ".png"
	case "gif":
		ext = ".gif"
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seule les images jpg, png et gif sont supportées"})
		return
	}

	filename := fmt.Sprintf("%d_%s%s",
		time.Now().Unix(),
		generateRandomString(8),
		ext)

	outPath := filepath.Join(uploadsDir, filename)

	out, err := os.Create(outPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création fichier"})
		return
	}
	defer out.Close()

	switch format {
	case "png":
		// Garder le PNG pour préserver la transparence
		err = png.Encode(out, processedImg)
	case "gif":
		// Garder le GIF original si c'est un GIF
		file.Seek(0, 0)
		_, err = io.Copy(out, file)
	default:
		err = jpeg.Encode(out, processedImg, &jpeg.Options{Quality: 85})
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde image"})
		return
	}

	fileInfo, _ := os.Stat(outPath)
	finalSize := fileInfo.Size()

	imageURL := fmt.Sprintf("/static/uploads/%s", filename)
	c.JSON(http.StatusOK, gin.H{
		"url":      imageURL,
		"filename": filename,
		"size":     finalSize,
		"format":   format,
	})
}

// ============= HELPERS =============

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func projectFromRequest(req *ProjectRequest) *pfportfolio.Project {
	project := &pfportfolio.Project{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		BannerImage:  req.BannerImage,
		Aspect:       req.Aspect,
		TechList:     req.TechStack,
		GithubURL:    req.GithubURL,
		DemoURL:      req.DemoURL,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		IsVisible:    true,
	}
	if req.IsVisible != nil {
		project.IsVisible = *req.IsVisible
	}
	return project
}

func skillFromRequest(req *SkillRequest) *pfportfolio.Skill {
	skill := &pfportfolio.Skill{
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		IconSlug:     req.IconSlug,
		DisplayOrder: req.DisplayOrder,
		IsVisible:    true,
	}
	if req.IsVisible != nil {
		skill.IsVisible = *req.IsVisible
	}
	return skill
}

func qualificationFromRequest(req *QualificationRequest) *pfportfolio.Qualification {
	q := &pfportfolio.Qualification{
		Type:         req.Type,
		Title:        strings.TrimSpace(req.Title),
		Subtitle:     req.Subtitle,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  strings.TrimSpace(req.Description),
		DisplayOrder: req.DisplayOrder,
		IsVisible:    true,
	}
	if req.IsVisible != nil {
		q.IsVisible = *req.IsVisible
	}
	return q
}

func generateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.Intn(len(charset))]
	}
	return string(b)
}
