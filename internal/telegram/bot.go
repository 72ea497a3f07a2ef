package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"ai-travel-planner/internal/app"
	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/metrics"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/trip"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const planUsage = "Usage:\n`/plan Destination; YYYY-MM-DD; YYYY-MM-DD; budget; travelers[; origin]`\n\n" +
	"Example:\n`/plan Paris, France; 2024-06-01; 2024-06-05; 2000; 2; New York`"

// ItineraryService generates itineraries for the bot.
type ItineraryService interface {
	GenerateItinerary(ctx context.Context, req trip.Request) (*app.Result, error)
}

// botAPI is the subset of tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Bot wraps the Telegram API and the itinerary service.
type Bot struct {
	api        botAPI
	service    ItineraryService
	allowedIDs []int64
	timeout    time.Duration
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, service ItineraryService) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return newBot(bot, service, cfg.TelegramAllowedUserIDs, cfg.ProviderTimeout+cfg.GenerationTimeout), nil
}

func newBot(api botAPI, service ItineraryService, allowedIDs []int64, timeout time.Duration) *Bot {
	return &Bot{
		api:        api,
		service:    service,
		allowedIDs: allowedIDs,
		timeout:    timeout,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	return lo.Contains(b.allowedIDs, userID)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "plan":
		b.handlePlanRequest(msg)
	default:
		b.reply(msg.Chat.ID, "🧭 *AI Travel Planner*\n\n"+planUsage)
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	req, err := ParsePlanCommand(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s\n\n%s", escapeMarkdown(err.Error()), planUsage))
		return
	}

	statusText := fmt.Sprintf("✈️ *Planning your trip to %s...*\n(Searching flights, hotels and sights)", escapeMarkdown(req.Destination))
	sentMsg, err := b.reply(msg.Chat.ID, statusText)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	log.Printf("Generating itinerary for user %d: %s", msg.From.ID, req.Destination)
	res, err := b.service.GenerateItinerary(ctx, req)

	var finalText string
	if err != nil {
		log.Printf("Error generating itinerary: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error generating itinerary:*\n```\n%v\n```", safeErr)
	} else {
		finalText = formatItineraryMarkdown(res)
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to send itinerary: %v", err)
	}
}

func (b *Bot) reply(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return b.api.Send(msg)
}

// ParsePlanCommand parses "Destination; start; end; budget; travelers[; origin]".
func ParsePlanCommand(args string) (trip.Request, error) {
	parts := lo.Map(strings.Split(args, ";"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	if len(parts) < 5 || len(parts) > 6 {
		return trip.Request{}, fmt.Errorf("expected 5 or 6 fields separated by ';', got %d", len(parts))
	}

	start, err := trip.ParseDate(parts[1])
	if err != nil {
		return trip.Request{}, trip.NewValidation("start_date", "use YYYY-MM-DD")
	}
	end, err := trip.ParseDate(parts[2])
	if err != nil {
		return trip.Request{}, trip.NewValidation("end_date", "use YYYY-MM-DD")
	}
	budget, err := strconv.ParseFloat(strings.TrimPrefix(parts[3], "$"), 64)
	if err != nil {
		return trip.Request{}, trip.NewValidation("budget", "must be a number")
	}
	travelers, err := strconv.Atoi(parts[4])
	if err != nil {
		return trip.Request{}, trip.NewValidation("travelers", "must be a whole number")
	}

	p := trip.Request{
		Destination: parts[0],
		StartDate:   start,
		EndDate:     end,
		Budget:      budget,
		Travelers:   travelers,
	}
	if len(parts) == 6 {
		p.Origin = parts[5]
	}
	return trip.NewRequest(p)
}

func formatItineraryMarkdown(res *app.Result) string {
	it := res.Itinerary

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗺 *%s*\n", escapeMarkdown(it.Destination))
	fmt.Fprintf(&sb, "%s to %s, %d days, %d traveler(s), budget $%s\n\n",
		it.StartDate.Format(trip.DateLayout), it.EndDate.Format(trip.DateLayout),
		it.DurationDays, it.Travelers, planner.FormatBudget(it.Budget))

	for i, d := range it.Days {
		fmt.Fprintf(&sb, "*Day %d* (%s)\n", i+1, d.Date.Format("Mon Jan 2"))
		for _, a := range d.Activities {
			fmt.Fprintf(&sb, "• %s %s\n", escapeMarkdown(a.Time), escapeMarkdown(a.Name))
		}
		for _, m := range d.Meals {
			line := m.Meal
			if m.Restaurant != "" {
				line += " at " + m.Restaurant
			}
			fmt.Fprintf(&sb, "🍽 %s\n", escapeMarkdown(line))
		}
		sb.WriteString("\n")
	}

	if len(it.Flights) > 0 {
		f := it.Flights[0]
		fmt.Fprintf(&sb, "✈️ From $%.0f (%s)\n", f.Price, escapeMarkdown(f.Airline))
	}
	if len(it.Lodging) > 0 {
		l := it.Lodging[0]
		fmt.Fprintf(&sb, "🏨 %s, $%.0f/night\n", escapeMarkdown(l.Name), l.PricePerNight)
	}
	if it.FromFallback {
		sb.WriteString("\n_The planner could not generate a full schedule, so this is a starter plan._\n")
	}

	fmt.Fprintf(&sb, "\n`%s`", strings.ReplaceAll(metrics.FormatUsage(res.Metas), "`", "'"))
	return sb.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
