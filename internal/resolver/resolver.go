// Package resolver turns raw notification type records into display-ready
// values. Everything here is pure: no I/O, no state, safe to call on every
// render. Localized text comes through the injected i18n.Translator so the
// localization engine never leaks into this contract.
package resolver

import (
	"github.com/nhle/notifyprefs/internal/i18n"
	"github.com/nhle/notifyprefs/internal/model"
)

// Display is the resolved view of one notification type for one locale.
// It is recomputed from the record on every render and never persisted,
// so a locale switch can never serve stale text.
type Display struct {
	// Key is carried through for identity in lists.
	Key string

	// Label is the localized display name.
	Label string

	// Description is the localized description, with fallbacks applied.
	Description string

	// Inactive reports that the type is unavailable or deprecated.
	Inactive bool

	// Explanation is the inactivity rationale. Empty iff Inactive is false.
	Explanation string

	// Visible reports whether the item should be rendered at all.
	Visible bool
}

// Visible reports whether a record should appear in the list. A type that
// is unavailable and not deprecated was removed without a formal
// deprecation and is suppressed entirely.
func Visible(rec model.NotificationType) bool {
	return rec.Available || rec.Deprecated
}

// Inactive reports whether a record should be rendered in the
// phased-out/unavailable state.
func Inactive(rec model.NotificationType) bool {
	return !rec.Available || rec.Deprecated
}

// ResolveDescription returns the record's description for locale.
// Lookup order is fixed: requested locale, then English, then the
// localized "no description available" message.
func ResolveDescription(tr i18n.Translator, rec model.NotificationType, locale string) string {
	if rec.Descriptions != nil {
		if d := rec.Descriptions[locale]; d != "" {
			return d
		}
		if d := rec.Descriptions[i18n.DefaultLocale]; d != "" {
			return d
		}
	}
	return tr.Translate(locale, i18n.KeyNoDescription, "No description available.")
}

// ResolveLabel returns the localized label for the record's key. Unknown
// keys render the raw key verbatim; a record with no key at all renders a
// fixed placeholder. Never empty.
func ResolveLabel(tr i18n.Translator, rec model.NotificationType, locale string) string {
	if rec.Key == "" {
		return "(unknown)"
	}
	return tr.Translate(locale, i18n.LabelKey(rec.Key), rec.Key)
}

// ResolveExplanation returns the inactivity rationale for the record, or
// the empty string when the record is active. The backend-provided reason
// wins when present; otherwise a template message is synthesized. The
// unavailable-and-not-deprecated template is kept for completeness but is
// unreachable for rendered items, since Visible filters those records out.
func ResolveExplanation(tr i18n.Translator, rec model.NotificationType, locale string) string {
	if !Inactive(rec) {
		return ""
	}
	if rec.DeprecatedReason != nil && *rec.DeprecatedReason != "" {
		return *rec.DeprecatedReason
	}
	if rec.Deprecated {
		return tr.Translate(locale, i18n.KeyDeprecated,
			"This notification type is deprecated and will be removed.")
	}
	return tr.Translate(locale, i18n.KeyUnavailable,
		"This notification type is currently unavailable.")
}

// Resolve produces the full display model for one record and locale.
func Resolve(tr i18n.Translator, rec model.NotificationType, locale string) Display {
	return Display{
		Key:         rec.Key,
		Label:       ResolveLabel(tr, rec, locale),
		Description: ResolveDescription(tr, rec, locale),
		Inactive:    Inactive(rec),
		Explanation: ResolveExplanation(tr, rec, locale),
		Visible:     Visible(rec),
	}
}

// ResolveAll resolves a sequence of records, dropping invisible ones and
// preserving the input order. It never re-sorts: ordering is owned by the
// fetch collaborator.
func ResolveAll(tr i18n.Translator, recs []model.NotificationType, locale string) []Display {
	displays := make([]Display, 0, len(recs))
	for _, rec := range recs {
		d := Resolve(tr, rec, locale)
		if !d.Visible {
			continue
		}
		displays = append(displays, d)
	}
	return displays
}
