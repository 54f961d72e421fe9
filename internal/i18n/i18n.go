// Package i18n provides lightweight localization for user-facing strings.
// Resolution order: requested locale → English → caller-provided fallback.
// Translations are compiled into the binary.
package i18n

// DefaultLocale is used when a key has no entry for the requested locale.
const DefaultLocale = "en"

// Translator is the contract display code depends on. Keeping it an
// interface means the resolver never learns which engine backs it, and
// tests can substitute a fixed mapping.
type Translator interface {
	// Translate renders the message identified by key for the given locale.
	// fallback is returned verbatim when neither the requested locale nor
	// English has an entry for key.
	Translate(locale, key, fallback string) string
}

// Table is the compiled-in Translator used by the application.
type Table struct{}

// Translate looks up key for locale, falling back to English and then to
// the provided fallback string. It never returns an error and never panics.
func (Table) Translate(locale, key, fallback string) string {
	langMap, ok := translations[key]
	if !ok {
		return fallback
	}
	if locale == "" {
		locale = DefaultLocale
	}
	if msg, ok := langMap[locale]; ok {
		return msg
	}
	if msg, ok := langMap[DefaultLocale]; ok {
		return msg
	}
	return fallback
}

// Message keys for page-level and per-item texts.
const (
	KeyNoDescription = "msg.no_description"
	KeyDeprecated    = "msg.deprecated"
	KeyUnavailable   = "msg.unavailable"
	KeyNoTypes       = "msg.no_types"
	KeyLoading       = "msg.loading"
	KeyAuthRequired  = "msg.auth_required"
	KeySessionEnded  = "msg.session_ended"
	KeyFetchFailed   = "msg.fetch_failed"
	KeyStaleCache    = "msg.stale_cache"
)

// LabelKey returns the translation key for a notification type label.
func LabelKey(typeKey string) string {
	return "type." + typeKey
}

// translations maps message key → locale → text.
var translations = map[string]map[string]string{
	// Notification type labels.
	"type.email_alert": {
		"en": "Email alerts",
		"fr": "Alertes par email",
	},
	"type.sms_alert": {
		"en": "SMS alerts",
		"fr": "Alertes SMS",
	},
	"type.push_alert": {
		"en": "Push notifications",
		"fr": "Notifications push",
	},
	"type.legacy_alert": {
		"en": "Legacy alerts",
		"fr": "Alertes héritées",
	},
	"type.fax_alert": {
		"en": "Fax alerts",
		"fr": "Alertes par fax",
	},

	// Per-item texts.
	KeyNoDescription: {
		"en": "No description available.",
		"fr": "Aucune description disponible.",
	},
	KeyDeprecated: {
		"en": "This notification type is deprecated and will be removed.",
		"fr": "Ce type de notification est obsolète et sera supprimé.",
	},
	KeyUnavailable: {
		"en": "This notification type is currently unavailable.",
		"fr": "Ce type de notification est actuellement indisponible.",
	},

	// Page-level texts.
	KeyNoTypes: {
		"en": "No notification types available.",
		"fr": "Aucun type de notification disponible.",
	},
	KeyLoading: {
		"en": "Loading notification types...",
		"fr": "Chargement des types de notification...",
	},
	KeyAuthRequired: {
		"en": "Authentication required. Please log in.",
		"fr": "Authentification requise. Veuillez vous connecter.",
	},
	KeySessionEnded: {
		"en": "Session expired. Please log in again.",
		"fr": "Session expirée. Veuillez vous reconnecter.",
	},
	KeyFetchFailed: {
		"en": "Failed to fetch notification types. Please try again later.",
		"fr": "Échec du chargement des types de notification. Veuillez réessayer plus tard.",
	},
	KeyStaleCache: {
		"en": "offline: showing cached data",
		"fr": "hors ligne : données en cache",
	},
}
