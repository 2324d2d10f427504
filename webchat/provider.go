package webchat

import (
	"context"
	"log"
)

// Provider implements bot.Provider by appending to the transcript
// table instead of calling an external messaging API.
type Provider struct {
	repo *Repository
}

func NewProvider(repo *Repository) *Provider {
	return &Provider{repo: repo}
}

func (p *Provider) Name() string { return "WebChat (development)" }

// IsConfigured always holds: the web chat needs no credentials.
func (p *Provider) IsConfigured() bool { return true }

func (p *Provider) SendMessage(_ context.Context, to, text string) error {
	if err := p.repo.Save(to, SenderBot, text); err != nil {
		log.Printf("[webchat][send_failed] user_id=%s err=%v", to, err)
		return err
	}
	return nil
}
