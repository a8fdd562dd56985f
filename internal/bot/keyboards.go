package bot

import (
	"strconv"

	"github.com/go-telegram/bot/models"
)

const wordsCallbackPrefix = "words_"

//nolint:gochecknoglobals // Immutable preset list.
var wordBudgetPresets = []int{50, 100, 150, 250, 400}

func getWordsKeyboard() *models.InlineKeyboardMarkup {
	row := make([]models.InlineKeyboardButton, 0, len(wordBudgetPresets))
	for _, budget := range wordBudgetPresets {
		n := strconv.Itoa(budget)
		row = append(row, models.InlineKeyboardButton{
			Text:         n,
			CallbackData: wordsCallbackPrefix + n,
		})
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{row},
	}
}
