package pfnotify

import (
	"fmt"
	"time"
)

// Wablas relaie les soumissions vers WhatsApp via la passerelle Wablas
type Wablas struct {
	URL    string
	APIKey string
	Secret string
	Phone  string
}

func NewWablas(url, apiKey, secret, phone string) *Wablas {
	if url == "" || apiKey == "" || phone == "" {
		return nil
	}
	return &Wablas{
		URL:    url,
		APIKey: apiKey,
		Secret: secret,
		Phone:  phone,
	}
}

func (w *Wablas) Name() string {
	return "wablas"
}

func (w *Wablas) SendContact(n ContactNotification) error {
	text := fmt.Sprintf(
		"📩 *Nouveau message depuis le site*\n\n"+
			"*Nom*  : %s\n"+
			"*Email* : %s\n"+
			"*Date* : %s\n\n"+
			"*Message*:\n%s",
		n.Name,
		n.Email,
		time.Now().Format("02/01/2006 15:04:05"),
		n.Message,
	)

	payload := map[string]any{
		"phone":   w.Phone,
		"message": text,
		"secret":  w.Secret,
		"retry":   false,
		"isGroup": false,
	}

	headers := map[string]string{
		"Authorization": w.APIKey,
	}

	// La passerelle signale le succès via un champ booléen "status"
	var result struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}

	if err := postJSON(w.URL+"/api/send-message", headers, payload, &result); err != nil {
		return err
	}
	if !result.Status {
		return fmt.Errorf("wablas gateway error: %s", result.Message)
	}
	return nil
}
