// Package i18n provides the English/Russian string tables used by the
// pollen tracker for level names, day labels, and user-facing messages.
package i18n

import "fmt"

// Supported language codes.
const (
	LangEN = "en"
	LangRU = "ru"
)

// Text is a localized string pair.
type Text struct {
	EN string `json:"en"`
	RU string `json:"ru"`
}

// Get returns the text for the given language, falling back to English.
func (t Text) Get(lang string) string {
	if lang == LangRU && t.RU != "" {
		return t.RU
	}
	return t.EN
}

// Normalize maps any unrecognized language code to English.
func Normalize(lang string) string {
	if lang == LangRU {
		return LangRU
	}
	return LangEN
}

// messages holds general UI strings keyed by their English form.
var messages = map[string]Text{
	"Today":     {EN: "Today", RU: "Сегодня"},
	"Yesterday": {EN: "Yesterday", RU: "Вчера"},
	"Tomorrow":  {EN: "Tomorrow", RU: "Завтра"},
	"No data":   {EN: "No data", RU: "Нет данных"},
	"Max":       {EN: "Max", RU: "Макс"},

	"Location access denied": {
		EN: "Location access denied. Please allow location access and try again.",
		RU: "Доступ к местоположению запрещен. Разрешите доступ к местоположению и попробуйте снова.",
	},
	"Location not available": {
		EN: "Location services are not available on this device.",
		RU: "Службы определения местоположения недоступны на этом устройстве.",
	},
	"Location timeout": {
		EN: "Location request timed out. Please try again.",
		RU: "Время запроса местоположения истекло. Попробуйте снова.",
	},
	"Failed to load pollen data": {
		EN: "Failed to load pollen data. Please check your internet connection.",
		RU: "Не удалось загрузить данные о пыльце. Проверьте подключение к интернету.",
	},
	"Failed to load weather data": {
		EN: "Failed to load weather data.",
		RU: "Не удалось загрузить данные о погоде.",
	},
	"No pollen data": {
		EN: "No significant pollen data found for your location today.",
		RU: "Значимых данных о пыльце для вашего местоположения сегодня не найдено.",
	},
}

// T translates a message key. Unknown keys are returned unchanged.
func T(lang, key string) string {
	if t, ok := messages[key]; ok {
		return t.Get(Normalize(lang))
	}
	return key
}

// levels maps concentration category labels to their localized forms.
// Both the English and Russian spellings are accepted as keys because the
// upstream API localizes categories by request language.
var levels = map[string]Text{
	"Very Low":      {EN: "Very Low", RU: "Очень низкий"},
	"Low":           {EN: "Low", RU: "Низкий"},
	"Moderate":      {EN: "Moderate", RU: "Умеренный"},
	"High":          {EN: "High", RU: "Высокий"},
	"Very High":     {EN: "Very High", RU: "Очень высокий"},
	"Очень низкий":  {EN: "Very Low", RU: "Очень низкий"},
	"Низкий":        {EN: "Low", RU: "Низкий"},
	"Умеренный":     {EN: "Moderate", RU: "Умеренный"},
	"Высокий":       {EN: "High", RU: "Высокий"},
	"Очень высокий": {EN: "Very High", RU: "Очень высокий"},
}

// Level translates a concentration category label.
// Unrecognized categories are returned unchanged.
func Level(lang, category string) string {
	if t, ok := levels[category]; ok {
		return t.Get(Normalize(lang))
	}
	return category
}

// PluralTypes renders a pollen type count with the correct plural form.
func PluralTypes(lang string, n int) string {
	if Normalize(lang) == LangRU {
		switch {
		case n == 1:
			return fmt.Sprintf("%d тип", n)
		case n < 5:
			return fmt.Sprintf("%d типа", n)
		default:
			return fmt.Sprintf("%d типов", n)
		}
	}
	if n == 1 {
		return fmt.Sprintf("%d type", n)
	}
	return fmt.Sprintf("%d types", n)
}

// weekdays is indexed by time.Weekday (Sunday = 0).
var weekdays = [7]Text{
	{EN: "Sun", RU: "вс"},
	{EN: "Mon", RU: "пн"},
	{EN: "Tue", RU: "вт"},
	{EN: "Wed", RU: "ср"},
	{EN: "Thu", RU: "чт"},
	{EN: "Fri", RU: "пт"},
	{EN: "Sat", RU: "сб"},
}

// months is indexed by time.Month - 1.
var months = [12]Text{
	{EN: "Jan", RU: "янв"},
	{EN: "Feb", RU: "фев"},
	{EN: "Mar", RU: "мар"},
	{EN: "Apr", RU: "апр"},
	{EN: "May", RU: "мая"},
	{EN: "Jun", RU: "июн"},
	{EN: "Jul", RU: "июл"},
	{EN: "Aug", RU: "авг"},
	{EN: "Sep", RU: "сен"},
	{EN: "Oct", RU: "окт"},
	{EN: "Nov", RU: "ноя"},
	{EN: "Dec", RU: "дек"},
}

// Weekday returns the abbreviated weekday name (Sunday = 0).
func Weekday(lang string, wd int) string {
	if wd < 0 || wd > 6 {
		return ""
	}
	return weekdays[wd].Get(Normalize(lang))
}

// Month returns the abbreviated month name (January = 1).
func Month(lang string, m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return months[m-1].Get(Normalize(lang))
}
