package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// Completer is the LLM dependency; satisfied by *openai.Client.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// Store is the cache dependency; satisfied by *cache.Client. A miss
// is reported as an error, and any error is treated as a miss.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Request struct {
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	NumberOfPeople int
	Budget         float64
}

// Structured is the best-effort derivative of the prose itinerary.
// The prose itself remains the source of truth shown to the user;
// empty fields here mean extraction found nothing.
type Structured struct {
	Days            int                `json:"days"`
	DailyActivities []string           `json:"dailyActivities"`
	EstimatedCosts  map[string]float64 `json:"estimatedCosts"`
	Tips            []string           `json:"tips"`
}

type Response struct {
	Text       string     `json:"text"`
	Structured Structured `json:"structured"`
}

const cacheTTL = 24 * time.Hour

const systemPrompt = "You are a specialist travel assistant. Write detailed, personalized and practical itineraries."

type Generator struct {
	ai    Completer
	cache Store
}

func NewGenerator(ai Completer, cache Store) *Generator {
	return &Generator{ai: ai, cache: cache}
}

// Generate returns the itinerary for the request, serving identical
// requests from cache within the TTL. Cache failures are non-fatal
// and simply bypass the cache.
func (g *Generator) Generate(ctx context.Context, req Request) (*Response, error) {
	key := cacheKey(req)

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, key); err == nil {
			var resp Response
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				log.Printf("[itinerary][cache_hit] key=%s", key)
				return &resp, nil
			}
		}
	}

	days := tripDays(req.StartDate, req.EndDate)
	log.Printf("[itinerary][generate] destination=%q days=%d people=%d", req.Destination, days, req.NumberOfPeople)

	text, err := g.ai.Complete(ctx, systemPrompt, buildPrompt(req, days), 0.7, 2000)
	if err != nil {
		return nil, err
	}

	resp := &Response{Text: text, Structured: parseItinerary(text, days)}

	if g.cache != nil {
		b, _ := json.Marshal(resp)
		if err := g.cache.Set(ctx, key, string(b), cacheTTL); err != nil {
			log.Printf("[itinerary][cache_skip] key=%s err=%v", key, err)
		}
	}
	return resp, nil
}

func tripDays(start, end time.Time) int {
	d := int(end.Sub(start).Hours()/24 + 0.5)
	if d < 1 {
		d = 1
	}
	return d
}

func buildPrompt(req Request, days int) string {
	budget := "no specific budget restriction"
	if req.Budget > 0 {
		budget = fmt.Sprintf("budget of R$ %.2f", req.Budget)
	}
	return fmt.Sprintf(`Create a detailed travel itinerary with the following information:

📍 Destination: %s
📅 Period: %d days (%s to %s)
👥 Number of people: %d
💰 Budget: %s

Please include:
1. Trip summary
2. Day-by-day itinerary with the main attractions, each day introduced as "Day N:"
3. Restaurant and accommodation suggestions
4. Cost estimate per category (transportation, food, accommodation, attractions)
5. Important tips and practical information
6. Best times of year to visit

Format: clear, organized text with emojis for easy reading on WhatsApp.`,
		req.Destination, days,
		req.StartDate.Format("02/01/2006"), req.EndDate.Format("02/01/2006"),
		req.NumberOfPeople, budget)
}

var (
	dayRe = regexp.MustCompile(`(?s)Day \d+:.*?(?:\n\s*\n|$)`)
	tipRe = regexp.MustCompile(`(?m)^[-•💡]\s*(?:Tip|Dica)[:\s]+(.+)$`)
)

// parseItinerary performs best-effort regex extraction of a daily
// activity list from the prose. Failures yield empty fields.
func parseItinerary(text string, days int) Structured {
	s := Structured{
		Days:            days,
		DailyActivities: []string{},
		EstimatedCosts:  map[string]float64{},
		Tips:            []string{},
	}
	for _, m := range dayRe.FindAllString(text, -1) {
		s.DailyActivities = append(s.DailyActivities, strings.TrimSpace(m))
	}
	for _, m := range tipRe.FindAllStringSubmatch(text, -1) {
		s.Tips = append(s.Tips, strings.TrimSpace(m[1]))
	}
	return s
}

// cacheKey derives the cache key from every request field,
// lower-cased with whitespace collapsed to dashes, so identical
// requests hit the same entry.
func cacheKey(req Request) string {
	key := fmt.Sprintf("itinerary:%s:%s:%s:%d:%.0f",
		req.Destination,
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		req.NumberOfPeople,
		req.Budget)
	key = strings.ToLower(key)
	return strings.Join(strings.Fields(key), "-")
}
