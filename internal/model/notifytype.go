package model

import "time"

// NotificationType describes one category of notification the backend can
// send, together with its localized descriptions and lifecycle flags.
// Records are owned by the backend; this client only reads them.
type NotificationType struct {
	// ID is the backend-assigned identifier. Treated as opaque here;
	// Key is what identifies a type for display and localization.
	ID int64 `json:"id"`

	// Key is the stable machine identifier (e.g., "email_alert").
	Key string `json:"key"`

	// Descriptions maps a locale code to human-readable text. Any locale
	// may be missing, including "en".
	Descriptions map[string]string `json:"descriptions"`

	// Available reports whether the type is currently offered.
	Available bool `json:"available"`

	// Deprecated reports whether the type is being phased out.
	// Available and Deprecated are independent; all four combinations occur.
	Deprecated bool `json:"deprecated"`

	// DeprecatedReason is the backend's free-text rationale, nil unless set.
	DeprecatedReason *string `json:"deprecated_reason"`

	// CreatedAt and UpdatedAt are backend audit timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
