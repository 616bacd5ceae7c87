package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// LocalParse resultado del parser local: comandos listos para aplicar y la
// respuesta de confirmación para el chat.
type LocalParse struct {
	Commands []entity.Command
	Reply    string
}

// Hora por defecto cuando la frase no la indica
const defaultHour = 10

var (
	rescheduleVerbRe = regexp.MustCompile(`(?i)\b(reprogram\w*|muev\w*|mover|pospon\w*|aplaz\w*|adelant\w*|retras\w*)\b`)
	meetingNounRe    = regexp.MustCompile(`(?i)\b(reuni[oó]n|cita|tarea)\b`)

	// Título entre el sustantivo y la marca de fecha
	titleAfterNounRe = regexp.MustCompile(`(?i)\b(?:reuni[oó]n|cita|tarea)(?:\s+(?:de\s+las?|de\s+los|del|de|con|sobre|para))?\s+(.+?)(?:\s+(?:el|al|para|a\s+las?|hoy|mañana|manana|pasado)\b.*)?$`)
	// Alternativa "sobre/para/con X"
	titleFallbackRe = regexp.MustCompile(`(?i)\b(?:sobre|para|con)\s+(.+?)(?:\s+(?:el|al|a\s+las?|hoy|mañana|manana|pasado)\b.*)?$`)

	// Una captura que empieza por marca de fecha no es un título
	titleIsDateRe = regexp.MustCompile(`(?i)^(?:el|al|para|hoy|ma[ñn]ana|pasado|a\s+las?)\b|^\d{1,2}/\d{1,2}`)

	relativeDayRe  = regexp.MustCompile(`(?i)\b(pasado\s+ma[ñn]ana|ma[ñn]ana|hoy)\b`)
	timeOfDayRe    = regexp.MustCompile(`(?i)\ba\s+las?\s+(\d{1,2})(?::(\d{2}))?`)
	absoluteDateRe = regexp.MustCompile(`(?i)\b(?:el|al)\s+(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?(?:\s+a\s+las?\s+(\d{1,2})(?::(\d{2}))?)?`)
)

// ParseLocalCommands reconoce la orden "reprogramar reunión/cita/tarea" sin
// pasar por el backend. Devuelve nil cuando la frase no encaja; cualquier
// fallo interno también cuenta como "no reconocido", nunca como error.
func ParseLocalCommands(text string, now time.Time) (result *LocalParse) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()

	if !rescheduleVerbRe.MatchString(text) || !meetingNounRe.MatchString(text) {
		return nil
	}

	start := resolveDate(text, now)
	if start == nil {
		return nil
	}
	end := start.Add(60 * time.Minute)

	title := extractTitle(text)

	target := "la reunión"
	if title != "" {
		target = fmt.Sprintf("la reunión de %s", title)
	}
	reply := fmt.Sprintf("Hecho, he reprogramado %s al %s a las %s.",
		target, start.Format("02/01/2006"), start.Format("15:04"))

	return &LocalParse{
		Commands: []entity.Command{{
			Entity: entity.EntityMeeting,
			Action: "update",
			Payload: map[string]any{
				"title": title,
				"start": start.Format(time.RFC3339),
				"end":   end.Format(time.RFC3339),
			},
		}},
		Reply: reply,
	}
}

func extractTitle(text string) string {
	if m := titleAfterNounRe.FindStringSubmatch(text); m != nil {
		if title := cleanTitle(m[1]); title != "" && !titleIsDateRe.MatchString(title) {
			return title
		}
	}
	if m := titleFallbackRe.FindStringSubmatch(text); m != nil {
		if title := cleanTitle(m[1]); title != "" && !titleIsDateRe.MatchString(title) {
			return title
		}
	}
	return ""
}

func cleanTitle(title string) string {
	return strings.Trim(strings.TrimSpace(title), ".,;:¡!¿?\"'")
}

// resolveDate resuelve primero fechas relativas (hoy/mañana/pasado mañana) y
// después absolutas (el|al DD/MM[/YY[YY]]). nil cuando no hay fecha legible.
func resolveDate(text string, now time.Time) *time.Time {
	if m := relativeDayRe.FindStringSubmatch(text); m != nil {
		days := 0
		switch {
		case strings.HasPrefix(strings.ToLower(m[1]), "pasado"):
			days = 2
		case strings.EqualFold(m[1], "hoy"):
			days = 0
		default:
			days = 1
		}

		hour, minute := defaultHour, 0
		if tm := timeOfDayRe.FindStringSubmatch(text); tm != nil {
			hour = atoi(tm[1])
			minute = atoi(tm[2])
		}
		if hour > 23 || minute > 59 {
			return nil
		}

		base := now.AddDate(0, 0, days)
		t := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, now.Location())
		return &t
	}

	if m := absoluteDateRe.FindStringSubmatch(text); m != nil {
		day := atoi(m[1])
		month := atoi(m[2])
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return nil
		}

		year := now.Year()
		if m[3] != "" {
			year = atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}

		hour, minute := defaultHour, 0
		if m[4] != "" {
			hour = atoi(m[4])
			minute = atoi(m[5])
		}
		if hour > 23 || minute > 59 {
			return nil
		}

		t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
		return &t
	}

	return nil
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
