package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"time"
)

const graphAPIURL = "https://graph.facebook.com/v18.0"

var ErrNotConfigured = errors.New("whatsapp: meta credentials not configured")

var nonDigits = regexp.MustCompile(`\D`)

// MetaProvider delivers messages through the Meta WhatsApp Cloud API.
type MetaProvider struct {
	apiURL        string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

func NewMetaProviderFromEnv() *MetaProvider {
	return &MetaProvider{
		apiURL:        graphAPIURL,
		phoneNumberID: os.Getenv("META_PHONE_NUMBER_ID"),
		accessToken:   os.Getenv("META_ACCESS_TOKEN"),
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *MetaProvider) Name() string { return "Meta WhatsApp Cloud API" }

func (p *MetaProvider) IsConfigured() bool {
	return p.phoneNumberID != "" && p.accessToken != ""
}

// SendMessage posts a text message to the Cloud API. The recipient is
// normalized to digits only (the API rejects formatted numbers).
func (p *MetaProvider) SendMessage(ctx context.Context, to, text string) error {
	if !p.IsConfigured() {
		return ErrNotConfigured
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                nonDigits.ReplaceAllString(to, ""),
		"type":              "text",
		"text": map[string]any{
			"preview_url": false,
			"body":        text,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", p.apiURL, p.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("[whatsapp][send_failed] status=%d body=%s", resp.StatusCode, data)
		return fmt.Errorf("meta api returned status %d", resp.StatusCode)
	}
	log.Printf("[whatsapp][sent] to=%s", nonDigits.ReplaceAllString(to, ""))
	return nil
}
