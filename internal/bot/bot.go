package bot

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"gist/internal/domain"
	"gist/internal/fetch"
	"gist/internal/ratelimiter"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	updateProcessingTimeout = 5 * time.Minute
	downloadTimeout         = time.Minute

	// Bots may not download files larger than this.
	maxDocumentBytes = 20 << 20

	MinWordBudget = 10
	MaxWordBudget = 1000
)

// Collector turns links and uploads into sources.
type Collector interface {
	Collect(ctx context.Context, links []string, uploads []fetch.Upload) []domain.Source
}

// Runner summarizes sources.
type Runner interface {
	Run(ctx context.Context, sources []domain.Source, wordBudget int) domain.Result
}

type Bot struct {
	api           *bot.Bot
	rateLimiter   *ratelimiter.RateLimiter
	collector     Collector
	runner        Runner
	allowedUsers  []int64
	defaultBudget int
	wordsKeyboard *models.InlineKeyboardMarkup
	httpClient    *http.Client
	log           *slog.Logger

	mu      sync.Mutex
	budgets map[int64]int
}

func New(
	token string,
	collector Collector,
	runner Runner,
	allowedUsers []int64,
	defaultBudget int,
	log *slog.Logger,
	opts ...bot.Option,
) (*Bot, error) {
	b := &Bot{
		rateLimiter:   ratelimiter.New(log),
		collector:     collector,
		runner:        runner,
		allowedUsers:  allowedUsers,
		defaultBudget: defaultBudget,
		wordsKeyboard: getWordsKeyboard(),
		httpClient:    &http.Client{Timeout: downloadTimeout},
		log:           log,
		budgets:       make(map[int64]int),
	}

	opts = append([]bot.Option{bot.WithDefaultHandler(b.handleUpdate)}, opts...)

	api, err := bot.New(strings.TrimSpace(token), opts...)
	if err != nil {
		b.rateLimiter.Stop()
		return nil, err
	}
	b.api = api

	return b, nil
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.api.Start(ctx)
}

func (b *Bot) Stop() {
	if b.rateLimiter != nil {
		b.rateLimiter.Stop()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	updateCtx, cancel := context.WithTimeout(ctx, updateProcessingTimeout)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.From != nil:
		message := update.Message
		chatID, chatType := message.Chat.ID, message.Chat.Type

		userID := message.From.ID
		if !b.userAllowed(userID) {
			b.log.DebugContext(updateCtx, "User is not allowed",
				"userID", userID,
				"chatID", chatID,
				"username", message.From.Username,
				"chatType", chatType)

			return
		}

		if err := b.handleMessage(updateCtx, message); err != nil {
			b.log.ErrorContext(updateCtx, "Failed to handle message",
				"error", err,
				"chatID", chatID,
				"userID", userID,
				"chatType", chatType,
				"messageID", message.ID)
		}

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery

		if !b.userAllowed(cb.From.ID) {
			b.log.DebugContext(updateCtx, "User is not allowed",
				"userID", cb.From.ID,
				"username", cb.From.Username,
				"data", cb.Data)

			return
		}

		if err := b.handleCallbackQuery(updateCtx, cb); err != nil {
			b.log.ErrorContext(updateCtx, "Failed to handle callback query",
				"error", err,
				"chatID", callbackChatID(cb),
				"userID", cb.From.ID,
				"data", cb.Data)
		}
	}
}

func (b *Bot) userAllowed(userID int64) bool {
	return len(b.allowedUsers) == 0 || slices.Contains(b.allowedUsers, userID)
}

func callbackChatID(cb *models.CallbackQuery) int64 {
	if cb != nil && cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}

	return 0
}

// wordBudget returns the budget chosen in chatID, or the default.
func (b *Bot) wordBudget(chatID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if budget, ok := b.budgets[chatID]; ok {
		return budget
	}

	return b.defaultBudget
}

func (b *Bot) setWordBudget(chatID int64, budget int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.budgets[chatID] = budget
}
