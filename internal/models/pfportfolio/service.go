package pfportfolio

import (
	"fmt"

	"gorm.io/gorm"
)

type PortfolioService struct {
	db *gorm.DB
}

func NewPortfolioService(db *gorm.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

// Lectures publiques : uniquement les éléments visibles, triés par ordre d'affichage

func (s *PortfolioService) VisibleProjects() ([]Project, error) {
	var projects []Project
	err := s.db.Where("is_visible = ?", true).
		Order("display_order ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("error loading projects: %w", err)
	}
	return projects, nil
}

func (s *PortfolioService) VisibleSkills() ([]Skill, error) {
	var skills []Skill
	err := s.db.Where("is_visible = ?", true).
		Order("display_order ASC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("error loading skills: %w", err)
	}
	return skills, nil
}

func (s *PortfolioService) VisibleQualifications() ([]Qualification, error) {
	var qualifications []Qualification
	err := s.db.Where("is_visible = ?", true).
		Order("display_order ASC").
		Find(&qualifications).Error
	if err != nil {
		return nil, fmt.Errorf("error loading qualifications: %w", err)
	}
	return qualifications, nil
}

// Lectures admin : tout, y compris les éléments masqués

func (s *PortfolioService) AllProjects() ([]Project, error) {
	var projects []Project
	err := s.db.Order("display_order ASC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("error loading projects: %w", err)
	}
	return projects, nil
}

func (s *PortfolioService) AllSkills() ([]Skill, error) {
	var skills []Skill
	err := s.db.Order("display_order ASC").Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("error loading skills: %w", err)
	}
	return skills, nil
}

func (s *PortfolioService) AllQualifications() ([]Qualification, error) {
	var qualifications []Qualification
	err := s.db.Order("display_order ASC").Find(&qualifications).Error
	if err != nil {
		return nil, fmt.Errorf("error loading qualifications: %w", err)
	}
	return qualifications, nil
}

// Écritures admin

func (s *PortfolioService) GetProject(id uint) (*Project, error) {
	var project Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *PortfolioService) CreateProject(project *Project) error {
	if project.Title == "" {
		return fmt.Errorf("titre obligatoire")
	}
	return s.db.Create(project).Error
}

func (s *PortfolioService) UpdateProject(project *Project) error {
	if project.ID == 0 {
		return fmt.Errorf("identifiant manquant")
	}
	return s.db.Save(project).Error
}

func (s *PortfolioService) DeleteProject(id uint) error {
	return s.db.Delete(&Project{}, id).Error
}

func (s *PortfolioService) GetSkill(id uint) (*Skill, error) {
	var skill Skill
	if err := s.db.First(&skill, id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *PortfolioService) CreateSkill(skill *Skill) error {
	if skill.Name == "" {
		return fmt.Errorf("nom obligatoire")
	}
	if !validSkillCategory(skill.Category) {
		return fmt.Errorf("catégorie inconnue: %s", skill.Category)
	}
	return s.db.Create(skill).Error
}

func (s *PortfolioService) UpdateSkill(skill *Skill) error {
	if skill.ID == 0 {
		return fmt.Errorf("identifiant manquant")
	}
	if !validSkillCategory(skill.Category) {
		return fmt.Errorf("catégorie inconnue: %s", skill.Category)
	}
	return s.db.Save(skill).Error
}

func (s *PortfolioService) DeleteSkill(id uint) error {
	return s.db.Delete(&Skill{}, id).Error
}

func (s *PortfolioService) GetQualification(id uint) (*Qualification, error) {
	var q Qualification
	if err := s.db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *PortfolioService) CreateQualification(q *Qualification) error {
	if q.Title == "" {
		return fmt.Errorf("titre obligatoire")
	}
	if q.Type != QualificationEducation && q.Type != QualificationExperience {
		return fmt.Errorf("type inconnu: %s", q.Type)
	}
	return s.db.Create(q).Error
}

func (s *PortfolioService) UpdateQualification(q *Qualification) error {
	if q.ID == 0 {
		return fmt.Errorf("identifiant manquant")
	}
	return s.db.Save(q).Error
}

func (s *PortfolioService) DeleteQualification(id uint) error {
	return s.db.Delete(&Qualification{}, id).Error
}

func validSkillCategory(c string) bool {
	switch c {
	case SkillFrontend, SkillBackend, SkillLanguages, SkillTools:
		return true
	}
	return false
}
