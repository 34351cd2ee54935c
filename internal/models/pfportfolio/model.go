package pfportfolio

import (
	"html/template"
	"littlefolio/internal/models/pfmarkdown"
	"strings"
	"time"
	"unicode/utf8"

	stripmd "github.com/writeas/go-strip-markdown"
	"gorm.io/gorm"
)

// Catégories de projets
const (
	CategoryWebsite = "website"
	CategoryMobile  = "mobile"
	CategoryDesktop = "desktop"
)

// Catégories de compétences
const (
	SkillFrontend  = "frontend"
	SkillBackend   = "backend"
	SkillLanguages = "languages"
	SkillTools     = "tools"
)

// Types de parcours
const (
	QualificationEducation  = "education"
	QualificationExperience = "experience"
)

// Models avec tags GORM
type Project struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Title           string        `json:"title" gorm:"not null"`
	Description     string        `json:"description" gorm:"type:text"`
	DescriptionHTML template.HTML `json:"description_html" gorm:"-"`
	Excerpt         string        `json:"excerpt" gorm:"-"`
	BannerImage     string        `json:"banner_image" gorm:"type:text"`
	Aspect          string        `json:"aspect" gorm:"default:landscape"`
	TechStack       string        `json:"-" gorm:"type:text"`
	TechList        []string      `json:"tech_stack" gorm:"-"`
	GithubURL       string        `json:"github_url"`
	DemoURL         string        `json:"demo_url"`
	Category        string        `json:"category" gorm:"index;default:website"`
	DisplayOrder    int           `json:"display_order" gorm:"index"`
	IsVisible       bool          `json:"is_visible" gorm:"index"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

type Skill struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Category     string    `json:"category" gorm:"index;not null"`
	IconSlug     string    `json:"icon_slug"`
	IconURL      string    `json:"icon_url" gorm:"-"`
	DisplayOrder int       `json:"display_order" gorm:"index"`
	IsVisible    bool      `json:"is_visible" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type Qualification struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Type            string        `json:"type" gorm:"index;not null"`
	Title           string        `json:"title" gorm:"not null"`
	Subtitle        string        `json:"subtitle"`
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	Description     string        `json:"description" gorm:"type:text"`
	DescriptionHTML template.HTML `json:"description_html" gorm:"-"`
	DisplayOrder    int           `json:"display_order" gorm:"index"`
	IsVisible       bool          `json:"is_visible" gorm:"index"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// Hooks GORM
func (p *Project) AfterFind(tx *gorm.DB) error {
	if p.TechStack != "" {
		p.TechList = strings.Split(p.TechStack, ",")
	}
	p.DescriptionHTML = pfmarkdown.ConvertMarkdownToHTML(p.Description)
	p.Excerpt = ExtractExcerpt(stripmd.Strip(p.Description), 200)
	return nil
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	if len(p.TechList) > 0 {
		p.TechStack = strings.Join(p.TechList, ",")
	}
	if p.Aspect != "portrait" {
		p.Aspect = "landscape"
	}
	return nil
}

// Résoudre le slug d'icône si l'admin n'en a pas fourni
func (s *Skill) BeforeSave(tx *gorm.DB) error {
	if s.IconSlug == "" {
		s.IconSlug = ResolveIconSlug(s.Name)
	}
	return nil
}

func (s *Skill) AfterFind(tx *gorm.DB) error {
	s.IconURL = SkillIconURL(s.IconSlug, "")
	return nil
}

func (q *Qualification) AfterFind(tx *gorm.DB) error {
	q.DescriptionHTML = pfmarkdown.ConvertMarkdownToHTML(q.Description)
	return nil
}

// ExtractExcerpt coupe le texte à une longueur maximale sur un espace
func ExtractExcerpt(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	runes := []rune(text)
	cutPoint := maxLength
	for i := maxLength - 1; i >= maxLength-50 && i >= 0; i-- {
		if runes[i] == ' ' {
			cutPoint = i
			break
		}
	}

	return strings.TrimSpace(string(runes[:cutPoint])) + "..."
}
