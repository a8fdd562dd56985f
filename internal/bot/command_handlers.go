package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const welcomeText = `🧠 *Welcome to Gist\!*

I condense articles, videos and documents into short extractive summaries\. Send me:

– Links to web pages, RSS / Atom feeds or public Telegram channels
– YouTube links \(English transcripts, translated when needed\)
– PDF or TXT documents

I answer with a summary per source, a consolidated summary and a few takeaways\.
Use /words to change the summary length\.`

const wordsText = `*📏 Summary length*

Current budget is %d words\.

Choose a preset below or send /words N \(%d to %d\)\.`

var errWordBudgetRange = fmt.Errorf("word budget must be between %d and %d", MinWordBudget, MaxWordBudget)

func (b *Bot) handleStartCommand(ctx context.Context, chatID int64) error {
	return b.sendMessage(ctx, chatID, welcomeText)
}

func (b *Bot) handleWordsCommand(ctx context.Context, text string, chatID int64) error {
	budget, ok, err := parseWordsCommand(text)
	if err != nil {
		sendErr := b.sendMessage(ctx, chatID,
			fmt.Sprintf("✖️ Send /words N with N between %d and %d\\.", MinWordBudget, MaxWordBudget))

		return errors.Join(err, sendErr)
	}

	if !ok {
		return b.sendMessageWithKeyboard(ctx, chatID,
			fmt.Sprintf(wordsText, b.wordBudget(chatID), MinWordBudget, MaxWordBudget),
			b.wordsKeyboard)
	}

	b.setWordBudget(chatID, budget)

	return b.sendMessage(ctx, chatID, fmt.Sprintf("✅ Summaries are now up to %d words\\.", budget))
}

// parseWordsCommand reads "/words N". ok is false when no number was given.
func parseWordsCommand(text string) (int, bool, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, false, nil
	}

	budget, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false, fmt.Errorf("parse word budget: %w", err)
	}

	if err := validateWordBudget(budget); err != nil {
		return 0, false, err
	}

	return budget, true, nil
}

func validateWordBudget(budget int) error {
	if budget < MinWordBudget || budget > MaxWordBudget {
		return errWordBudgetRange
	}

	return nil
}
