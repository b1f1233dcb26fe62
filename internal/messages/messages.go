// Package messages holds the localized user-facing strings sent to the chat.
package messages

import "strings"

var catalogs = map[string]map[string]string{
	"en": {
		"common.error": "⚠️ Error:",
		"common.downloading": "⏬ Downloading media...",
		"common.transcribing": "🎙️ Transcribing audio, this can take a few minutes...",
		"common.normalizing": "📝 Normalizing text...",
		"common.packing": "📦 Packing archive...",
		"common.sending": "📤 Sending...",
		"error.download_failed": "⚠️ Download failed, the media may be unavailable.",
		"task.completed.video": "🎬 Here is your video",
		"task.completed.audio": "🎵 Here is your audio",
		"task.completed.bundle": "📦 Here is the full bundle: video, audio, transcript and normalized text",
		"label.transcript": "📄 Transcript",
		"label.normalized": "📝 Normalized text",
		"common.done_next": "✅ Done! Send another link to continue.",
	},
	"ru": {
		"common.error": "⚠️ Ошибка:",
		"common.downloading": "⏬ Скачиваю медиа...",
		"common.transcribing": "🎙️ Распознаю речь, это может занять несколько минут...",
		"common.normalizing": "📝 Нормализую текст...",
		"common.packing": "📦 Собираю архив...",
		"common.sending": "📤 Отправляю...",
		"error.download_failed": "⚠️ Не удалось скачать, медиа может быть недоступно.",
		"task.completed.video": "🎬 Ваше видео",
		"task.completed.audio": "🎵 Ваше аудио",
		"task.completed.bundle": "📦 Полный комплект: видео, аудио, транскрипция и нормализованный текст",
		"label.transcript": "📄 Транскрипция",
		"label.normalized": "📝 Нормализованный текст",
		"common.done_next": "✅ Готово! Отправьте ещё одну ссылку, чтобы продолжить.",
	},
	"uk": {
		"common.error": "⚠️ Помилка:",
		"common.downloading": "⏬ Завантажую медіа...",
		"common.transcribing": "🎙️ Розпізнаю мову, це може зайняти кілька хвилин...",
		"common.normalizing": "📝 Нормалізую текст...",
		"common.packing": "📦 Збираю архів...",
		"common.sending": "📤 Надсилаю...",
		"error.download_failed": "⚠️ Не вдалося завантажити, медіа може бути недоступне.",
		"task.completed.video": "🎬 Ваше відео",
		"task.completed.audio": "🎵 Ваше аудіо",
		"task.completed.bundle": "📦 Повний комплект: відео, аудіо, транскрипція та нормалізований текст",
		"label.transcript": "📄 Транскрипція",
		"label.normalized": "📝 Нормалізований текст",
		"common.done_next": "✅ Готово! Надішліть ще одне посилання, щоб продовжити.",
	},
}

// Get resolves a message key for a locale, falling back to English and then
// to the key itself for unknown keys.
func Get(key, locale string) string {
	if m, ok := catalogs[normalize(locale)]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := catalogs["en"][key]; ok {
		return s
	}
	return key
}

func normalize(locale string) string {
	switch strings.ToLower(locale) {
	case "ru":
		return "ru"
	case "uk", "ua":
		return "uk"
	default:
		return "en"
	}
}
