// Package i18n provides internationalization support for the loan request service.
// It handles translation of user-facing messages and error messages.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale. The form is used in a Mexican school.
	DefaultLocale = "es"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found, and to the key itself
// if no locale knows it.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// Translatef translates key and formats the result with args.
func (t *Translator) Translatef(key, locale string, args ...interface{}) string {
	msg := t.Translate(key, locale)
	if len(args) == 0 || !strings.Contains(msg, "%") {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// IsSupported reports whether locale has a message table.
func (t *Translator) IsSupported(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	return ParseAcceptLanguage(c.GetHeader(AcceptLanguageHeader))
}

// ParseAcceptLanguage picks the first language of an Accept-Language value,
// e.g. "es-MX,es;q=0.9,en;q=0.8" -> "es".
func ParseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return DefaultLocale
	}

	parts := strings.Split(acceptLang, ",")
	lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
	if idx := strings.Index(lang, "-"); idx > 0 {
		lang = lang[:idx]
	}
	lang = strings.ToLower(lang)
	if GetTranslator().IsSupported(lang) {
		return lang
	}

	return DefaultLocale
}

func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"es": {
			"error.invalid_request":              "Solicitud inválida",
			"error.invalid_request_body":         "Cuerpo de la solicitud inválido",
			"error.internal_error":               "Ocurrió un error inesperado",
			"error.unauthorized":                 "No autorizado",
			"error.api_key_required":             "Se requiere una clave de API",
			"error.invalid_api_key":              "Clave de API inválida",
			"error.forbidden":                    "Prohibido",
			"error.not_found":                    "No encontrado",
			"error.rate_limit_exceeded":          "Demasiadas solicitudes, intenta de nuevo más tarde",
			"error.conflict":                     "Conflicto",
			"error.timeout":                      "La solicitud tardó demasiado",
			"error.session_not_found":            "La sesión no existe o expiró",
			"error.invalid_session_token":        "Sesión inválida",
			"error.item_not_found":               "El equipo no está en la lista",
			"error.quantity_not_numeric":         "La cantidad solo puede contener números",
			"error.invalid_kind":                 "Tipo de solicitud inválido",
			"error.submission_in_progress":       "Ya se está enviando la solicitud",
			"error.submission_failed":            "No se pudo registrar la solicitud",
			"error.nothing_to_retry":             "No hay equipos pendientes de reenviar",
			"error.upstream_unavailable":         "El sistema de inventario no está disponible",
			"error.catalog_not_ready":            "Cargando lista de equipos...",
			"validation.terms_required":          "Debes aceptar el reglamento antes de enviar",
			"validation.cart_empty":              "Agrega al menos un equipo a la solicitud",
			"validation.requester_name_required": "Ingresa tu nombre completo",
			"validation.control_number_required": "Ingresa tu número de control",
			"validation.control_number_digits":   "El número de control solo puede contener números",
			"validation.item_quantity_invalid":   "La cantidad de \"%s\" debe ser mayor a 0",
			"validation.member_count_required":   "Indica el número de integrantes (1 a 5)",
			"validation.instructor_required":     "Ingresa el nombre del profesor",
			"validation.subject_required":        "Ingresa la materia",
			"validation.group_required":          "Ingresa el grupo",
			"validation.reconfirmation_required": "Confirma nuevamente que leíste el reglamento",
			"warning.member_count_clamped":       "El máximo de integrantes es 5; se ajustó a 5",
			"advisory.free_text":                 "\"%s\" no está en el inventario; se enviará como texto libre",
			"success.submission_completed":       "¡Solicitud registrada con éxito!",
		},
		"en": {
			"error.invalid_request":              "Invalid request",
			"error.invalid_request_body":         "Invalid request body",
			"error.internal_error":               "An unexpected error occurred",
			"error.unauthorized":                 "Unauthorized",
			"error.api_key_required":             "API key is required",
			"error.invalid_api_key":              "Invalid API key",
			"error.forbidden":                    "Forbidden",
			"error.not_found":                    "Not found",
			"error.rate_limit_exceeded":          "Too many requests, please try again later",
			"error.conflict":                     "Conflict",
			"error.timeout":                      "Request timeout",
			"error.session_not_found":            "Session not found or expired",
			"error.invalid_session_token":        "Invalid session",
			"error.item_not_found":               "Item is not in the request",
			"error.quantity_not_numeric":         "Quantity may only contain digits",
			"error.invalid_kind":                 "Invalid request kind",
			"error.submission_in_progress":       "A submission is already in progress",
			"error.submission_failed":            "The request could not be registered",
			"error.nothing_to_retry":             "There are no failed items to resend",
			"error.upstream_unavailable":         "The inventory system is unavailable",
			"error.catalog_not_ready":            "Loading equipment list...",
			"validation.terms_required":          "You must accept the regulations before submitting",
			"validation.cart_empty":              "Add at least one item to the request",
			"validation.requester_name_required": "Enter your full name",
			"validation.control_number_required": "Enter your control number",
			"validation.control_number_digits":   "The control number may only contain digits",
			"validation.item_quantity_invalid":   "The quantity for \"%s\" must be greater than 0",
			"validation.member_count_required":   "Enter the number of members (1 to 5)",
			"validation.instructor_required":     "Enter the instructor's name",
			"validation.subject_required":        "Enter the subject",
			"validation.group_required":          "Enter the group",
			"validation.reconfirmation_required": "Please confirm again that you have read the regulations",
			"warning.member_count_clamped":       "At most 5 members are allowed; the value was set to 5",
			"advisory.free_text":                 "\"%s\" is not in the inventory; it will be submitted as free text",
			"success.submission_completed":       "Request registered successfully!",
		},
	}
}
