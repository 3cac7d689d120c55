package i18n

import (
	"log"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

var (
	mu   sync.RWMutex
	lang = "en"
)

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Boss": {
		"pt": "Chefe",
		"es": "Jefe",
		"ru": "Босс",
	},
	"Select a boss": {
		"pt": "Escolha um chefe",
		"es": "Elige un jefe",
		"ru": "Выберите босса",
	},
	"Skills": {
		"pt": "Habilidades",
		"es": "Habilidades",
		"ru": "Умения",
	},
	"Start encounter": {
		"pt": "Iniciar luta",
		"es": "Iniciar combate",
		"ru": "Начать бой",
	},
	"Stop all": {
		"pt": "Parar tudo",
		"es": "Parar todo",
		"ru": "Остановить все",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"done": {
		"pt": "pronto",
		"es": "listo",
		"ru": "готово",
	},
	"Timers": {
		"pt": "Temporizadores",
		"es": "Temporizadores",
		"ru": "Таймеры",
	},
	"Busy, try again": {
		"pt": "Ocupado, tente novamente",
		"es": "Ocupado, inténtalo de nuevo",
		"ru": "Занято, попробуйте снова",
	},
}

// Setup picks the UI language. A non-empty forced value wins over the
// system locale.
func Setup(forced string) string {
	l := resolve(forced)
	mu.Lock()
	lang = l
	mu.Unlock()
	log.Printf("Language set to: %s", l)
	return l
}

func resolve(forced string) string {
	if forced = strings.TrimSpace(forced); forced != "" {
		log.Printf("Language forced to: '%s'", forced)
		return match(forced)
	}
	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		return "en"
	}
	if len(userLocales) == 0 {
		log.Println("No user locale detected, defaulting to english")
		return "en"
	}
	log.Printf("Detected user locale: %s", userLocales[0])
	return match(userLocales[0])
}

// match maps a locale tag such as "pt_BR" or "es-419" to a supported
// language, falling back to english.
func match(tag string) string {
	tag = strings.ToLower(tag)
	for _, l := range supported {
		if strings.HasPrefix(tag, l) {
			return l
		}
	}
	return "en"
}

func T(key string) string {
	mu.RLock()
	l := lang
	mu.RUnlock()
	if translated, ok := translations[key][l]; ok {
		return translated
	}
	return key
}

func Lang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
