package service

import (
	"context"
	"testing"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

type mockNewsletterRepo struct {
	getByEmailFunc func(ctx context.Context, email string) (*model.NewsletterSubscription, error)
	upsertFunc     func(ctx context.Context, sub *model.NewsletterSubscription) error
}

func (m *mockNewsletterRepo) GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockNewsletterRepo) Upsert(ctx context.Context, sub *model.NewsletterSubscription) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, sub)
	}
	return nil
}

func TestSubscribe_NewEmail(t *testing.T) {
	var saved *model.NewsletterSubscription
	svc := NewNewsletterService(&mockNewsletterRepo{
		upsertFunc: func(ctx context.Context, sub *model.NewsletterSubscription) error {
			saved = sub
			return nil
		},
	})

	already, err := svc.Subscribe(context.Background(), " Reader@Example.COM ", "Reader")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if already {
		t.Error("expected fresh subscription, got alreadySubscribed")
	}
	if saved == nil || saved.Email != "reader@example.com" {
		t.Errorf("expected normalized email saved, got %+v", saved)
	}
	if saved.Status != "subscribed" {
		t.Errorf("expected status subscribed, got %q", saved.Status)
	}
}

// An active subscription short-circuits: nothing is written again.
func TestSubscribe_AlreadySubscribed(t *testing.T) {
	upserted := false
	svc := NewNewsletterService(&mockNewsletterRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
			return &model.NewsletterSubscription{Email: email, Status: "subscribed"}, nil
		},
		upsertFunc: func(ctx context.Context, sub *model.NewsletterSubscription) error {
			upserted = true
			return nil
		},
	})

	already, err := svc.Subscribe(context.Background(), "reader@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !already {
		t.Error("expected alreadySubscribed=true")
	}
	if upserted {
		t.Error("expected no write for an active subscription")
	}
}

// A previously unsubscribed address resubscribes with a fresh upsert.
func TestSubscribe_ResubscribeAfterUnsubscribe(t *testing.T) {
	upserted := false
	svc := NewNewsletterService(&mockNewsletterRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
			return &model.NewsletterSubscription{Email: email, Status: "unsubscribed"}, nil
		},
		upsertFunc: func(ctx context.Context, sub *model.NewsletterSubscription) error {
			upserted = true
			return nil
		},
	})

	already, err := svc.Subscribe(context.Background(), "reader@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if already || !upserted {
		t.Errorf("expected resubscription write, got already=%v upserted=%v", already, upserted)
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	svc := NewNewsletterService(&mockNewsletterRepo{})

	if _, err := svc.Subscribe(context.Background(), "not-an-email", ""); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// sanitizeText
// ---------------------------------------------------------------------------

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<script>alert(1)</script>", "&lt;script>alert(1)</script>"},
		{"<SCRIPT src=x>", "&lt;script src=x>"},
		{"< script >", "&lt;script >"},
		{"nul\x00byte", "nulbyte"},
	}
	for _, c := range cases {
		if got := sanitizeText(c.in); got != c.want {
			t.Errorf("sanitizeText(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
