package bot

import (
	"context"
	"encoding/json"
	"time"
)

// LLM is the language-model dependency; satisfied by *openai.Client.
type LLM interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
	CompleteJSON(ctx context.Context, system, user string, temperature float32) (string, error)
}

type IntentType string

const (
	IntentPlanTrip     IntentType = "plan_trip"
	IntentTrackExpense IntentType = "track_expense"
	IntentCheckTrips   IntentType = "check_trips"
	IntentGeneral      IntentType = "general_question"
	IntentOther        IntentType = "other"
)

type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
}

const intentSystemPrompt = `You are an intent classifier. Analyze the message and return JSON:
{
  "type": "plan_trip" | "track_expense" | "check_trips" | "general_question" | "other",
  "confidence": 0.0-1.0
}

plan_trip: the user wants to plan/create a trip
track_expense: the user wants to log an expense
check_trips: the user wants to see their trips
general_question: a general travel question
other: anything else`

func detectIntent(ctx context.Context, llm LLM, message string) (Intent, error) {
	raw, err := llm.CompleteJSON(ctx, intentSystemPrompt, message, 0.3)
	if err != nil {
		return Intent{}, err
	}
	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return Intent{}, err
	}
	return intent, nil
}

// TripData holds the fields extracted from a free-text trip request.
// Nil fields were not identified in the message.
type TripData struct {
	Destination     string  `json:"destination"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	NumberOfPeople  int     `json:"numberOfPeople"`
	EstimatedBudget float64 `json:"estimatedBudget"`
}

func (d TripData) Complete() bool {
	return d.Destination != "" && d.StartDate != "" && d.EndDate != "" && d.NumberOfPeople > 0
}

const tripExtractionPrompt = `Extract trip data from the text as JSON:
{
  "destination": "city/country" or null,
  "startDate": "YYYY-MM-DD" or null,
  "endDate": "YYYY-MM-DD" or null,
  "numberOfPeople": number or null,
  "estimatedBudget": amount in BRL or null
}

Allowed inferences:
- If the user says "in March" and it is January, assume March of the current year
- If the user gives a duration ("7 days"), compute endDate from startDate
- Normalize city names ("rio" -> "Rio de Janeiro")`

func extractTripData(ctx context.Context, llm LLM, message string) (TripData, error) {
	raw, err := llm.CompleteJSON(ctx, tripExtractionPrompt, message, 0.2)
	if err != nil {
		return TripData{}, err
	}
	var data TripData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return TripData{}, err
	}
	return data, nil
}

type ExpenseData struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func (d ExpenseData) Complete() bool {
	return d.Amount > 0 && d.Category != "" && d.Description != ""
}

const expenseExtractionPrompt = `Extract expense information from the user's message. Return JSON:
{
  "amount": numeric amount,
  "category": "accommodation" | "transportation" | "food" | "entertainment" | "shopping" | "other",
  "description": short description,
  "date": "YYYY-MM-DD" (today when unspecified)
}

Categories:
- accommodation: hotel, hostel, airbnb
- transportation: taxi, ride share, bus, metro, flight
- food: restaurant, snack, groceries
- entertainment: tours, tickets
- shopping: stores, purchases
- other: everything else`

func extractExpenseData(ctx context.Context, llm LLM, message string) (ExpenseData, error) {
	raw, err := llm.CompleteJSON(ctx, expenseExtractionPrompt, message, 0.2)
	if err != nil {
		return ExpenseData{}, err
	}
	var data ExpenseData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ExpenseData{}, err
	}
	if data.Date == "" {
		data.Date = time.Now().Format("2006-01-02")
	}
	return data, nil
}

const naturalReplyPrompt = `You are TravelBot Pro, a friendly travel assistant.
Answer concisely (200 characters max) and naturally.
Use fitting emojis.
Be helpful and encourage the user to plan trips.`

func naturalReply(ctx context.Context, llm LLM, message string) (string, error) {
	reply, err := llm.Complete(ctx, naturalReplyPrompt, message, 0.8, 100)
	if err != nil {
		return "", err
	}
	return reply + "\n\n💡 Type /help to see what I can do!", nil
}
