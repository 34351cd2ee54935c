package pfnotify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ContactNotification est le contenu relayé au propriétaire du site
// quand le formulaire de contact est soumis
type ContactNotification struct {
	Name    string
	Email   string
	Message string
}

// Channel est un relai de notification sortant
type Channel interface {
	Name() string
	SendContact(n ContactNotification) error
}

// Notifier diffuse une notification sur tous les canaux configurés.
// Chaque échec est journalisé et n'empêche pas les autres canaux.
type Notifier struct {
	channels []Channel
}

func NewNotifier(channels ...Channel) *Notifier {
	var active []Channel
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	return &Notifier{channels: active}
}

// NotifyContact envoie la notification sur chaque canal, au mieux.
// Renvoie le nombre de canaux ayant accepté le message.
func (n *Notifier) NotifyContact(notification ContactNotification) int {
	sent := 0
	for _, ch := range n.channels {
		if err := ch.SendContact(notification); err != nil {
			log.Error().Err(err).Str("channel", ch.Name()).Msg("Échec d'envoi de notification")
			continue
		}
		log.Info().Str("channel", ch.Name()).Msg("Notification envoyée")
		sent++
	}
	return sent
}

func (n *Notifier) HasChannels() bool {
	return len(n.channels) > 0
}

// Client HTTP partagé par tous les relais
var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

func postJSON(url string, headers map[string]string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}
