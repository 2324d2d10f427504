package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"travelbot-backend/expenses"
	"travelbot-backend/itinerary"
	"travelbot-backend/plans"
	"travelbot-backend/trips"
	"travelbot-backend/users"
)

// UserStore, TripStore and ExpenseStore are the persistence slices
// the router touches; satisfied by the concrete repositories.
type UserStore interface {
	GiveConsent(id string) error
	CanCreateTrip(id string) (bool, error)
	ConsumeTripSlot(id string, limit int) (bool, error)
}

type TripStore interface {
	Create(t *trips.Trip) error
	FindAll(userID string) ([]trips.Trip, error)
	FindActiveOrLatest(userID string, at time.Time) (*trips.Trip, error)
	TotalSpent(id string) (float64, error)
	SaveItinerary(id, text string, structured map[string]any) error
}

type ExpenseStore interface {
	Create(e *expenses.Expense) error
}

// TokenIssuer mints dashboard tokens; satisfied by *auth.Tokens.
type TokenIssuer interface {
	GenerateDashboardToken(userID string) (string, error)
}

// Generator produces itineraries; satisfied by *itinerary.Generator.
type Generator interface {
	Generate(ctx context.Context, req itinerary.Request) (*itinerary.Response, error)
}

// DashboardURL builds the user-facing link for a dashboard token.
type DashboardURL func(token string) string

// Router turns one inbound message plus the sender's user record into
// exactly one reply, applying side effects (consent capture, trip and
// expense creation) along the way. It is the single canonical command
// handler shared by the WhatsApp and web chat transports.
type Router struct {
	users    UserStore
	trips    TripStore
	expenses ExpenseStore
	llm      LLM
	gen      Generator
	tokens   TokenIssuer
	dashURL  DashboardURL
}

func NewRouter(userStore UserStore, tripStore TripStore, expenseStore ExpenseStore,
	llm LLM, gen Generator, tokens TokenIssuer, dashURL DashboardURL) *Router {
	return &Router{
		users:    userStore,
		trips:    tripStore,
		expenses: expenseStore,
		llm:      llm,
		gen:      gen,
		tokens:   tokens,
		dashURL:  dashURL,
	}
}

var greetingTokens = map[string]bool{
	"/start": true, "hi": true, "hello": true, "hey": true, "start": true,
	"oi": true, "ola": true, "olá": true,
}

// Handle never returns an error to the transport: every internal
// failure is converted into the apology string.
func (r *Router) Handle(ctx context.Context, user *users.User, raw string) string {
	msg := strings.ToLower(strings.TrimSpace(raw))

	// Greetings and onboarding come before the consent gate so a new
	// contact always gets the consent request.
	if greetingTokens[msg] {
		if !user.HasConsented {
			return consentMessage
		}
		return welcomeMessage(user)
	}

	if (msg == "accept" || msg == "aceito") && !user.HasConsented {
		if err := r.users.GiveConsent(user.ID); err != nil {
			log.Printf("[bot][consent_failed] user_id=%s err=%v", user.ID, err)
			return apologyMessage
		}
		user.HasConsented = true
		return welcomeMessage(user)
	}

	if msg == "/help" || msg == "help" || msg == "ajuda" {
		return helpMessage
	}

	// Consent gate: nothing below runs, and no domain state is
	// mutated, until the user has opted in.
	if !user.HasConsented {
		return consentReminderMessage
	}

	switch {
	case msg == "/new" || strings.HasPrefix(msg, "/new ") || strings.Contains(msg, "plan a trip"):
		return newTripMessage
	case msg == "/trips" || msg == "/viagens":
		return tripsCommandMessage
	case msg == "/expenses" || msg == "/gastos":
		return expensesCommandMessage
	case msg == "/dashboard" || strings.Contains(msg, "dashboard"):
		return r.dashboardReply(user)
	case msg == "/upgrade" || strings.Contains(msg, "upgrade"):
		return upgradeMessage(user)
	}

	// Quota is checked before any LLM spend: a user over their
	// monthly allowance only ever sees the upgrade prompt here.
	ok, err := r.users.CanCreateTrip(user.ID)
	if err != nil {
		log.Printf("[bot][quota_check_failed] user_id=%s err=%v", user.ID, err)
		return apologyMessage
	}
	if !ok {
		return upgradeMessage(user)
	}

	reply, err := r.handleNatural(ctx, user, raw)
	if err != nil {
		log.Printf("[bot][natural_failed] user_id=%s err=%v", user.ID, err)
		return apologyMessage
	}
	return reply
}

func (r *Router) dashboardReply(user *users.User) string {
	token, err := r.tokens.GenerateDashboardToken(user.ID)
	if err != nil {
		log.Printf("[bot][dashboard_token_failed] user_id=%s err=%v", user.ID, err)
		return apologyMessage
	}
	return dashboardMessage(r.dashURL(token))
}

func (r *Router) handleNatural(ctx context.Context, user *users.User, raw string) (string, error) {
	intent, err := detectIntent(ctx, r.llm, raw)
	if err != nil {
		return "", err
	}
	log.Printf("[bot][intent] user_id=%s type=%s confidence=%.2f", user.ID, intent.Type, intent.Confidence)

	switch intent.Type {
	case IntentPlanTrip:
		return r.planTrip(ctx, user, raw)
	case IntentTrackExpense:
		return r.trackExpense(ctx, user, raw)
	case IntentCheckTrips:
		return r.listTrips(user)
	default:
		return naturalReply(ctx, r.llm, raw)
	}
}

func (r *Router) planTrip(ctx context.Context, user *users.User, raw string) (string, error) {
	data, err := extractTripData(ctx, r.llm, raw)
	if err != nil {
		return "", err
	}
	if !data.Complete() {
		return missingTripInfoMessage(data), nil
	}
	start, err1 := time.Parse("2006-01-02", data.StartDate)
	end, err2 := time.Parse("2006-01-02", data.EndDate)
	if err1 != nil || err2 != nil {
		return missingTripInfoMessage(data), nil
	}

	// Guarded increment: the slot is only consumed while the counter
	// is under the plan limit, so concurrent messages cannot
	// overshoot the allowance.
	consumed, err := r.users.ConsumeTripSlot(user.ID, plans.TripsPerMonth(user.Plan))
	if err != nil {
		return "", err
	}
	if !consumed {
		return upgradeMessage(user), nil
	}

	trip := &trips.Trip{
		UserID:          user.ID,
		Destination:     data.Destination,
		StartDate:       start,
		EndDate:         end,
		NumberOfPeople:  data.NumberOfPeople,
		EstimatedBudget: data.EstimatedBudget,
	}
	if err := r.trips.Create(trip); err != nil {
		return "", err
	}

	itin, err := r.gen.Generate(ctx, itinerary.Request{
		Destination:    data.Destination,
		StartDate:      start,
		EndDate:        end,
		NumberOfPeople: data.NumberOfPeople,
		Budget:         data.EstimatedBudget,
	})
	if err != nil {
		// The trip row stays behind; no rollback on itinerary failure.
		return "", err
	}
	structured := map[string]any{
		"days":            itin.Structured.Days,
		"dailyActivities": itin.Structured.DailyActivities,
		"estimatedCosts":  itin.Structured.EstimatedCosts,
		"tips":            itin.Structured.Tips,
	}
	if err := r.trips.SaveItinerary(trip.ID, itin.Text, structured); err != nil {
		return "", err
	}

	days := int(end.Sub(start).Hours()/24 + 0.5)
	if days < 1 {
		days = 1
	}
	budget := "not set"
	if data.EstimatedBudget > 0 {
		budget = fmt.Sprintf("R$ %.2f", data.EstimatedBudget)
	}
	return fmt.Sprintf(`✅ Trip created!

📍 Destination: %s
📅 Period: %d days
👥 People: %d
💰 Budget: %s

%s

💡 Type /trips to see all of your trips!`,
		data.Destination, days, data.NumberOfPeople, budget, itin.Text), nil
}

func missingTripInfoMessage(data TripData) string {
	missing := []string{}
	if data.Destination == "" {
		missing = append(missing, "📍 Destination")
	}
	if data.StartDate == "" {
		missing = append(missing, "📅 Start date")
	}
	if data.EndDate == "" {
		missing = append(missing, "📅 End date")
	}
	if data.NumberOfPeople <= 0 {
		missing = append(missing, "👥 Number of people")
	}
	return fmt.Sprintf(`To create your trip I still need:

%s

Please tell me and I'll take care of the rest! 😊`, strings.Join(missing, "\n"))
}

func (r *Router) trackExpense(ctx context.Context, user *users.User, raw string) (string, error) {
	data, err := extractExpenseData(ctx, r.llm, raw)
	if err != nil {
		return "", err
	}
	if !data.Complete() {
		return `I couldn't identify the amount. Please tell me the amount, what it was and where you spent it. Example: "I spent R$ 50 on a taxi"`, nil
	}

	trip, err := r.trips.FindActiveOrLatest(user.ID, time.Now())
	if err != nil {
		return "", err
	}
	if trip == nil {
		return "You don't have any trips yet. Create a trip first! Type /new to start. ✈️", nil
	}

	date, err := time.Parse("2006-01-02", data.Date)
	if err != nil {
		date = time.Now()
	}
	category := expenses.Category(data.Category)
	if !expenses.ValidCategory(data.Category) {
		category = expenses.Other
	}
	exp := &expenses.Expense{
		TripID:      trip.ID,
		Amount:      data.Amount,
		Currency:    "BRL",
		Category:    category,
		Description: data.Description,
		Date:        date,
	}
	if err := r.expenses.Create(exp); err != nil {
		return "", err
	}

	totalSpent, err := r.trips.TotalSpent(trip.ID)
	if err != nil {
		return "", err
	}
	budget := trip.EstimatedBudget
	remaining := budget - totalSpent
	percentUsed := 0.0
	if budget > 0 {
		percentUsed = totalSpent / budget * 100
	}
	budgetLine := fmt.Sprintf("✅ Remaining: R$ %.2f", remaining)
	if remaining < 0 {
		budgetLine = fmt.Sprintf("⚠️ Over budget by: R$ %.2f", -remaining)
	}
	return fmt.Sprintf(`✅ Expense logged!

💰 Amount: R$ %.2f
📁 Category: %s
📝 Description: %s
🗓️ Trip: %s

💵 Total spent: R$ %.2f
💼 Budget: R$ %.2f
📊 Used: %.1f%%
%s

Type /dashboard to see the full picture!`,
		data.Amount, expenses.CategoryLabel(category), data.Description, trip.Destination,
		totalSpent, budget, percentUsed, budgetLine), nil
}

func (r *Router) listTrips(user *users.User) (string, error) {
	all, err := r.trips.FindAll(user.ID)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return `📋 You don't have any trips yet.

Say something like "I want to go to Paris" to get started! ✈️`, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Your Trips (%d):\n\n", len(all))
	for i, t := range all {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, t.Destination, t.Status)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
