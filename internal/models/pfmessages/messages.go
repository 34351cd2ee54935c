package pfmessages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrMissingFields signale qu'un champ obligatoire du formulaire est vide
var ErrMissingFields = errors.New("champs obligatoires manquants")

// ContactMessage est une soumission du formulaire de contact public
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"index;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Create valide et enregistre une soumission.
// Les trois champs sont obligatoires.
func (s *MessageService) Create(name, email, message string) (*ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return nil, ErrMissingFields
	}

	msg := ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("error storing message: %w", err)
	}
	return &msg, nil
}

// List renvoie tous les messages, les plus récents d'abord
func (s *MessageService) List() ([]ContactMessage, error) {
	var messages []ContactMessage
	err := s.db.Order("created_at DESC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("error loading messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) CountUnread() (int64, error) {
	var count int64
	err := s.db.Model(&ContactMessage{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (s *MessageService) MarkRead(id uint) error {
	result := s.db.Model(&ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *MessageService) Delete(id uint) error {
	return s.db.Delete(&ContactMessage{}, id).Error
}
