package bot

import (
	"fmt"

	"travelbot-backend/plans"
	"travelbot-backend/users"
)

// Every internal failure surfaces to the user as this string; the
// router never propagates errors to its transports.
const apologyMessage = "Sorry, something went wrong while processing your message. Please try again in a few moments."

const consentMessage = `🌍 *Welcome to TravelBot Pro!*

Before we start, we need your consent to:
• Process your travel data
• Store your information securely
• Send you relevant notifications

Your data is protected under LGPD/GDPR.

Reply *"accept"* to continue, or /help for more information.`

const consentReminderMessage = `Please reply "accept" to agree to our terms and start using TravelBot Pro! 🚀`

const helpMessage = `📚 *Available commands:*

*🚀 Trips*
/new - Plan a new trip
/trips - See your trips
/expenses - See your expenses

*⚙️ Settings*
/upgrade - Upgrade your plan

*💬 General*
/start - Back to the start
/help - Show this help

*Or just talk to me naturally!*
Tell me where you want to go and when, and I'll help you plan everything! 🎉

Example:
_"I want to go to Paris in May"_
_"I need an itinerary for Portugal"_`

const newTripMessage = `🗺️ *Let's plan your trip!*

To create a trip, tell me:

📍 Destination
📅 Dates (start and end)
👥 How many people
💰 Estimated budget

Example: "I want to go to Paris from 10/03 to 20/03, 2 people, budget of R$ 15,000"`

const tripsCommandMessage = `📋 *Your Trips*

Ask me "show my trips" and I'll list everything.

Or type /new to plan a new one! ✈️`

const expensesCommandMessage = `💰 *Expense Tracking*

Tell me about an expense ("I spent R$ 50 on a taxi") or send a receipt photo and I'll log it automatically (OCR)!`

func welcomeMessage(u *users.User) string {
	greeting := "🎉 Hello"
	if u.Name != "" {
		greeting += ", " + u.Name
	}
	return greeting + `!

I'm your smart travel assistant! 🤖✈️

I can help you:
✅ Plan personalized trips
💰 Track expenses
🗺️ Build detailed itineraries
🏨 Find hotels and flights

Type /new to start a trip or /help to see every command.

Current plan: *` + planName(u.Plan) + `*`
}

func upgradeMessage(u *users.User) string {
	limits := map[plans.Tier]string{
		plans.Free:  "1 trip/month",
		plans.Basic: "10 trips/month",
		plans.Pro:   "unlimited trips",
	}
	return fmt.Sprintf(`⚠️ You reached the limit of the %s plan!

Current limit: %s

💎 Upgrade options:
• BASIC - R$ %d/month - 10 trips
• PRO - R$ %d/month - Unlimited + extra features

To upgrade, visit: https://travelbot.pro/upgrade

Type /help to see the other commands.`,
		planName(u.Plan), limits[u.Plan],
		plans.Prices[plans.Basic]/100, plans.Prices[plans.Pro]/100)
}

func dashboardMessage(url string) string {
	return `📊 *Your Personal Dashboard*

🔗 ` + url + `

This link is valid for 30 days and shows:
✅ All of your trips
✅ Real-time spending
✅ Charts and statistics
✅ Budget vs. actual

Save the link to come back any time! 🔖`
}

func planName(t plans.Tier) string {
	switch t {
	case plans.Pro:
		return "PRO"
	case plans.Basic:
		return "BASIC"
	default:
		return "FREE"
	}
}
