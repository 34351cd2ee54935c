package pfauth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

// Durée de validité d'un code à usage unique
const OTPValidity = 5 * time.Minute

// OTPCode est un code de second facteur envoyé par email à l'admin.
// Une seule ligne existe par login : chaque génération remplace la précédente.
type OTPCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Login     string    `gorm:"index;not null" json:"login"`
	Code      string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}

type OTPService struct {
	db *gorm.DB
}

func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{db: db}
}

// Generate crée un nouveau code à 6 chiffres pour le login donné.
// Tout code précédent du même login est invalidé.
func (s *OTPService) Generate(login string) (string, error) {
	code, err := randomDigits(6)
	if err != nil {
		return "", fmt.Errorf("error generating code: %w", err)
	}

	if err := s.db.Where("login = ?", login).Delete(&OTPCode{}).Error; err != nil {
		return "", fmt.Errorf("error invalidating previous code: %w", err)
	}

	otp := OTPCode{
		Login:     login,
		Code:      code,
		ExpiresAt: time.Now().Add(OTPValidity),
	}
	if err := s.db.Create(&otp).Error; err != nil {
		return "", fmt.Errorf("error storing code: %w", err)
	}

	return code, nil
}

// Verify contrôle le code soumis. Un code valide est consommé :
// il ne peut pas servir deux fois.
func (s *OTPService) Verify(login, code string) error {
	var otp OTPCode
	err := s.db.Where("login = ? AND code = ?", login, code).First(&otp).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("code invalide")
	}
	if err != nil {
		return fmt.Errorf("error looking up code: %w", err)
	}

	if time.Now().After(otp.ExpiresAt) {
		s.db.Delete(&otp)
		return fmt.Errorf("code expiré")
	}

	if err := s.db.Delete(&otp).Error; err != nil {
		return fmt.Errorf("error consuming code: %w", err)
	}
	return nil
}

// CleanupExpired supprime les codes périmés
func (s *OTPService) CleanupExpired() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&OTPCode{}).Error
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
