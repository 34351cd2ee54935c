package pfnotify

import "fmt"

// EmailJS envoie des emails via le relai EmailJS : un identifiant de
// template et un dictionnaire plat de paramètres. Sert à la fois aux
// notifications de contact et à l'envoi du code OTP de connexion.
type EmailJS struct {
	URL            string
	ServiceID      string
	UserID         string
	OTPTemplate    string
	NotifyTemplate string
	To             string
}

func NewEmailJS(url, serviceID, userID, otpTemplate, notifyTemplate, to string) *EmailJS {
	if serviceID == "" || userID == "" {
		return nil
	}
	if url == "" {
		url = "https://api.emailjs.com/api/v1.0/email/send"
	}
	return &EmailJS{
		URL:            url,
		ServiceID:      serviceID,
		UserID:         userID,
		OTPTemplate:    otpTemplate,
		NotifyTemplate: notifyTemplate,
		To:             to,
	}
}

func (e *EmailJS) Name() string {
	return "emailjs"
}

func (e *EmailJS) SendContact(n ContactNotification) error {
	if e.NotifyTemplate == "" {
		return fmt.Errorf("template de notification non configuré")
	}
	return e.send(e.NotifyTemplate, map[string]string{
		"to_email":   e.To,
		"from_name":  n.Name,
		"from_email": n.Email,
		"message":    n.Message,
	})
}

// SendOTP envoie le code de second facteur à l'adresse de l'admin
func (e *EmailJS) SendOTP(code string) error {
	if e.OTPTemplate == "" {
		return fmt.Errorf("template OTP non configuré")
	}
	return e.send(e.OTPTemplate, map[string]string{
		"to_email": e.To,
		"otp_code": code,
	})
}

func (e *EmailJS) send(templateID string, params map[string]string) error {
	payload := map[string]any{
		"service_id":      e.ServiceID,
		"template_id":     templateID,
		"user_id":         e.UserID,
		"template_params": params,
	}
	return postJSON(e.URL, nil, payload, nil)
}
