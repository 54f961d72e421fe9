package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. The
// notification_types DDL mirrors the backend's table so the cache can hold
// rows exactly as fetched; descriptions is a JSON object mapping locale to
// text, and deprecated_reason is nullable.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_types (
	id                INTEGER PRIMARY KEY,
	key               TEXT NOT NULL UNIQUE,
	descriptions      TEXT NOT NULL DEFAULT '{}',
	available         INTEGER NOT NULL DEFAULT 1 CHECK(available IN (0, 1)),
	deprecated        INTEGER NOT NULL DEFAULT 0 CHECK(deprecated IN (0, 1)),
	deprecated_reason TEXT,
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notification_types_available
	ON notification_types(available);
CREATE INDEX IF NOT EXISTS idx_notification_types_deprecated
	ON notification_types(deprecated);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		// Seed rows covering every availability/deprecation combination so a
		// fresh install renders something meaningful before the first fetch.
		version: 2,
		sql: `
INSERT OR IGNORE INTO notification_types
	(id, key, descriptions, available, deprecated, deprecated_reason)
VALUES
	(1, 'email_alert',
	 '{"en": "Email alerts", "fr": "Alertes par email"}',
	 1, 0, NULL),
	(2, 'sms_alert',
	 '{"en": "SMS alerts", "fr": "Alertes SMS"}',
	 1, 1, 'Replaced by push notifications'),
	(3, 'push_alert',
	 '{"en": "Push notifications", "fr": "Notifications push"}',
	 1, 0, NULL),
	(4, 'legacy_alert',
	 '{"en": "Legacy alerts", "fr": "Alertes héritées"}',
	 0, 1, 'Deprecated and unavailable'),
	(5, 'fax_alert',
	 '{"en": "Fax alerts", "fr": "Alertes par fax"}',
	 0, 0, NULL);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
