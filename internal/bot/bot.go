package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/trendlens/internal/analyzer"
	"github.com/xaenox/trendlens/internal/insights"
	"github.com/xaenox/trendlens/internal/models"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the bot talks to
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api        *tgbotapi.BotAPI
	sender     sender
	analyzer   *analyzer.Analyzer
	summarizer insights.Summarizer
	logger     *zap.Logger
	now        func() time.Time
}

var mediaURLPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".m3u8"}

func New(token string, a *analyzer.Analyzer, summarizer insights.Summarizer, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := newBot(api, a, summarizer, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, a *analyzer.Analyzer, summarizer insights.Summarizer, logger *zap.Logger) *Bot {
	if summarizer == nil {
		summarizer = insights.NewTemplateSummarizer()
	}
	return &Bot{
		sender:     s,
		analyzer:   a,
		summarizer: summarizer,
		logger:     logger,
		now:        time.Now,
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}

	descriptors := descriptorsFromText(content, b.now())
	if len(descriptors) == 0 {
		b.sendMessage(message.Chat.ID, "Send me media links or use /analyze <page url>. Use /help to see all commands.")
		return
	}

	records, skipped, err := b.analyzer.IngestBatch(ctx, descriptors)
	if err != nil {
		b.logger.Error("Failed to record media",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't record your media. Please try again.")
		return
	}

	b.sendMarkdown(message.Chat.ID, message.MessageID, formatRecorded(records, skipped))
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "analyze":
		b.handleAnalyze(ctx, message)
	case "trends":
		b.handleTrends(ctx, message)
	case "context":
		b.handleContext(ctx, message)
	case "realtime":
		b.handleRealtime(ctx, message)
	case "recommend":
		b.handleRecommend(ctx, message)
	case "alerts":
		b.handleAlerts(ctx, message)
	case "insights":
		b.handleInsights(ctx, message)
	case "clear":
		b.handleClear(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to trendlens! 📈
I spot visual content trends: which media types, formats and styles are taking off.

Send me a page with /analyze <url>, or just paste image and video links.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/analyze <url> - Scrape a page and replace the collection with its media
/trends - Show characteristic clusters
/context - Show top keywords, topics and associations
/realtime - Show what was collected in the last hour
/recommend - Show content, topic and timing recommendations
/alerts - Show active trend alerts
/insights - Show a short narrative summary
/clear - Clear the collection

You can also send image, GIF or video links and I'll record them.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleAnalyze(ctx context.Context, message *tgbotapi.Message) {
	pageURL := strings.TrimSpace(message.CommandArguments())
	if pageURL == "" {
		b.sendMessage(message.Chat.ID, "Usage: /analyze <page url>")
		return
	}

	result, err := b.analyzer.IngestPage(ctx, pageURL)
	if err != nil {
		b.logger.Error("Failed to analyze page",
			zap.Error(err),
			zap.String("url", pageURL))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't analyze that page.")
		return
	}
	b.sendMarkdown(message.Chat.ID, message.MessageID, formatPageResult(result))
}

func (b *Bot) handleTrends(ctx context.Context, message *tgbotapi.Message) {
	clusters, err := b.analyzer.Clusters(ctx)
	if err != nil {
		b.replyFailure(message, "clusters", err)
		return
	}
	b.sendMarkdown(message.Chat.ID, 0, formatClusters(clusters))
}

func (b *Bot) handleContext(ctx context.Context, message *tgbotapi.Message) {
	analysis, err := b.analyzer.Context(ctx)
	if err != nil {
		b.replyFailure(message, "context", err)
		return
	}
	b.sendMarkdown(message.Chat.ID, 0, formatContext(analysis))
}

func (b *Bot) handleRealtime(ctx context.Context, message *tgbotapi.Message) {
	groups, err := b.analyzer.Realtime(ctx, b.now())
	if err != nil {
		b.replyFailure(message, "realtime trends", err)
		return
	}
	b.sendMarkdown(message.Chat.ID, 0, formatRealtime(groups))
}

func (b *Bot) handleRecommend(ctx context.Context, message *tgbotapi.Message) {
	recs, err := b.analyzer.Recommendations(ctx)
	if err != nil {
		b.replyFailure(message, "recommendations", err)
		return
	}
	b.sendMarkdown(message.Chat.ID, 0, formatRecommendations(recs))
}

func (b *Bot) handleAlerts(ctx context.Context, message *tgbotapi.Message) {
	alerts, err := b.analyzer.Alerts(ctx, b.now())
	if err != nil {
		b.replyFailure(message, "alerts", err)
		return
	}
	b.sendMarkdown(message.Chat.ID, 0, formatAlerts(alerts))
}

func (b *Bot) handleInsights(ctx context.Context, message *tgbotapi.Message) {
	report, err := b.analyzer.Report(ctx, b.now())
	if err != nil {
		b.replyFailure(message, "insights", err)
		return
	}
	text, err := b.summarizer.Summarize(ctx, report)
	if err != nil {
		b.replyFailure(message, "insights", err)
		return
	}
	b.sendMessage(message.Chat.ID, text)
}

func (b *Bot) handleClear(ctx context.Context, message *tgbotapi.Message) {
	if err := b.analyzer.Reset(ctx); err != nil {
		b.replyFailure(message, "the collection", err)
		return
	}
	b.sendMessage(message.Chat.ID, "Collection cleared.")
}

func (b *Bot) replyFailure(message *tgbotapi.Message, what string, err error) {
	b.logger.Error("Failed to handle command",
		zap.Error(err),
		zap.String("command", message.Command()),
		zap.Int64("chat_id", message.Chat.ID))
	b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("Sorry, failed to retrieve %s. Please try again later.", what))
}

// descriptorsFromText turns every http(s) link in text into a media descriptor
func descriptorsFromText(text string, observedAt time.Time) []models.RawDescriptor {
	links := mediaURLPattern.FindAllString(text, -1)
	descriptors := make([]models.RawDescriptor, 0, len(links))
	for _, link := range links {
		link = strings.TrimRight(link, ".,;:!?)")
		tag := models.TagImage
		lower := strings.ToLower(link)
		for _, ext := range videoExtensions {
			if strings.Contains(lower, ext) {
				tag = models.TagVideo
				break
			}
		}
		if strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be") || strings.Contains(lower, "vimeo.com") {
			tag = models.TagIFrame
		}
		descriptors = append(descriptors, models.RawDescriptor{
			Tag:        tag,
			Src:        link,
			ObservedAt: observedAt.UnixMilli(),
		})
	}
	return descriptors
}

// escapeMarkdown escapes every MarkdownV2 special character, backslash first
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, replyToID int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyToMessageID = replyToID
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send formatted message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
