package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, cb *models.CallbackQuery) error {
	var errs []error

	if _, err := b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
	}); err != nil {
		errs = append(errs, fmt.Errorf("answer callback query: %w", err))
	}

	chatID := callbackChatID(cb)
	if chatID == 0 {
		return errors.Join(append(errs, errors.New("callback message is inaccessible"))...)
	}

	raw, ok := strings.CutPrefix(cb.Data, wordsCallbackPrefix)
	if !ok {
		return errors.Join(append(errs, fmt.Errorf("unknown callback data %q", cb.Data))...)
	}

	budget, err := strconv.Atoi(raw)
	if err == nil {
		err = validateWordBudget(budget)
	}
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("parse word budget: %w", err))...)
	}

	b.setWordBudget(chatID, budget)

	if err := b.sendMessage(ctx, chatID, fmt.Sprintf("✅ Summaries are now up to %d words\\.", budget)); err != nil {
		errs = append(errs, fmt.Errorf("send message: %w", err))
	}

	return errors.Join(errs...)
}
