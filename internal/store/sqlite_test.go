package store_test

import (
	"context"
	"testing"

	"github.com/nhle/notifyprefs/internal/model"
	"github.com/nhle/notifyprefs/internal/store"
	"github.com/nhle/notifyprefs/tests/testutil"
)

func TestSeedRowsPresent(t *testing.T) {
	s := testutil.NewTestStore(t)

	types, err := s.GetTypes(context.Background())
	if err != nil {
		t.Fatalf("GetTypes: %v", err)
	}
	if len(types) != 5 {
		t.Fatalf("got %d seed rows, want 5", len(types))
	}

	byKey := make(map[string]model.NotificationType, len(types))
	for _, nt := range types {
		byKey[nt.Key] = nt
	}

	email, ok := byKey["email_alert"]
	if !ok {
		t.Fatal("email_alert seed row missing")
	}
	if !email.Available || email.Deprecated {
		t.Errorf("email_alert flags = available=%v deprecated=%v", email.Available, email.Deprecated)
	}
	if email.DeprecatedReason != nil {
		t.Errorf("email_alert reason = %q, want nil", *email.DeprecatedReason)
	}
	if email.Descriptions["fr"] != "Alertes par email" {
		t.Errorf("email_alert fr description = %q", email.Descriptions["fr"])
	}

	sms := byKey["sms_alert"]
	if !sms.Deprecated || sms.DeprecatedReason == nil ||
		*sms.DeprecatedReason != "Replaced by push notifications" {
		t.Errorf("sms_alert = %+v", sms)
	}

	// All four availability/deprecation combinations are seeded.
	fax := byKey["fax_alert"]
	if fax.Available || fax.Deprecated {
		t.Errorf("fax_alert flags = available=%v deprecated=%v", fax.Available, fax.Deprecated)
	}
	legacy := byKey["legacy_alert"]
	if legacy.Available || !legacy.Deprecated {
		t.Errorf("legacy_alert flags = available=%v deprecated=%v", legacy.Available, legacy.Deprecated)
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	reason := "Superseded"
	in := []model.NotificationType{
		{
			ID:               1,
			Key:              "email_alert",
			Descriptions:     map[string]string{"en": "Updated email alerts"},
			Available:        true,
			Deprecated:       true,
			DeprecatedReason: &reason,
		},
		{
			ID:           42,
			Key:          "webhook_alert",
			Descriptions: map[string]string{"en": "Webhook calls"},
			Available:    true,
		},
	}

	if err := s.UpsertTypes(ctx, in); err != nil {
		t.Fatalf("UpsertTypes: %v", err)
	}

	types, err := s.GetTypes(ctx)
	if err != nil {
		t.Fatalf("GetTypes: %v", err)
	}

	byKey := make(map[string]model.NotificationType, len(types))
	for _, nt := range types {
		byKey[nt.Key] = nt
	}

	// The email_alert seed row was replaced, not duplicated.
	email := byKey["email_alert"]
	if email.Descriptions["en"] != "Updated email alerts" {
		t.Errorf("email_alert description = %q", email.Descriptions["en"])
	}
	if !email.Deprecated || email.DeprecatedReason == nil || *email.DeprecatedReason != reason {
		t.Errorf("email_alert = %+v", email)
	}

	hook := byKey["webhook_alert"]
	if hook.ID != 42 || hook.DeprecatedReason != nil {
		t.Errorf("webhook_alert = %+v", hook)
	}
}

func TestGetTypesOrderedByKey(t *testing.T) {
	s := testutil.NewTestStore(t)

	types, err := s.GetTypes(context.Background())
	if err != nil {
		t.Fatalf("GetTypes: %v", err)
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].Key > types[i].Key {
			t.Errorf("rows out of order: %q before %q", types[i-1].Key, types[i].Key)
		}
	}
}

func TestUpsertEmptyBatchIsNoop(t *testing.T) {
	s := testutil.NewTestStore(t)

	if err := s.UpsertTypes(context.Background(), nil); err != nil {
		t.Fatalf("UpsertTypes(nil): %v", err)
	}
}

var _ store.Store = (*store.SQLiteStore)(nil)
