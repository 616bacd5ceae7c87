package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Categoría por defecto de tareas y reuniones
const categoryOther = "OTROS"

var diacriticsCleaner = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCategory quita acentos, descarta todo lo que no sea letra o dígito
// y pasa a mayúsculas. Vacío o irreconocible acaba en OTROS.
func NormalizeCategory(cat string) string {
	if cat == "" {
		return categoryOther
	}
	clean, _, err := transform.String(diacriticsCleaner, cat)
	if err != nil {
		clean = cat
	}

	var b strings.Builder
	for _, r := range clean {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return categoryOther
	}
	return b.String()
}

var (
	catVenueRe    = regexp.MustCompile(`lugar|finca|sal[oó]n`)
	catPhotoRe    = regexp.MustCompile(`foto|fot[oó]graf`)
	catMusicRe    = regexp.MustCompile(`m[uú]sica|dj|banda`)
	catOutfitRe   = regexp.MustCompile(`vestido|traje|vestuari|zapato`)
	catCateringRe = regexp.MustCompile(`catering|banquete|men[uú]`)
)

// GuessCategory adivina la categoría por el título de la tarea
func GuessCategory(title string) string {
	t := strings.ToLower(title)
	switch {
	case catVenueRe.MatchString(t):
		return "LUGAR"
	case catPhotoRe.MatchString(t):
		return "FOTOGRAFO"
	case catMusicRe.MatchString(t):
		return "MUSICA"
	case catOutfitRe.MatchString(t):
		return "VESTUARIO"
	case catCateringRe.MatchString(t):
		return "CATERING"
	default:
		return categoryOther
	}
}

// payloadString primer valor no vacío de las claves dadas, formateado a texto
func payloadString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case bool:
			// un booleano no identifica nada
		default:
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

// coerceNumber convierte cualquier cosa parecida a número; 0 si no lo es
func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// coerceInt igual que coerceNumber pero truncando a entero
func coerceInt(v any) int {
	return int(coerceNumber(v))
}
