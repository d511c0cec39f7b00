package session_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/moonandjupiter/consign-tracker/internal/session"
	"github.com/sirupsen/logrus"
)

type staticSource []core.RawRecord

func (s staticSource) Fetch(context.Context) ([]core.RawRecord, error) { return s, nil }
func (s staticSource) Name() string                                    { return "static" }

func newStore(t *testing.T) (*session.Store, *time.Time) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := app.NewAppService(staticSource{{SRID: "SR1", CONo: "C1", QtySold: "1"}}, log)
	st := session.NewStore(svc, time.Minute, log)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return now })
	return st, &now
}

func TestStore_GetOrCreate(t *testing.T) {
	st, _ := newStore(t)

	a, created := st.GetOrCreate("")
	if !created || a.ID == "" || a.Dashboard == nil {
		t.Fatalf("first call: created=%v session=%+v", created, a)
	}
	b, created := st.GetOrCreate(a.ID)
	if created || b != a {
		t.Error("known id must return the same session")
	}
	c, created := st.GetOrCreate("unknown")
	if !created || c.ID == a.ID {
		t.Error("unknown id must create a new session")
	}
	if st.Len() != 2 {
		t.Errorf("Len = %d, want 2", st.Len())
	}
}

func TestStore_Expiry(t *testing.T) {
	st, now := newStore(t)
	a := st.Create()
	b := st.Create()

	*now = now.Add(45 * time.Second)
	if _, ok := st.Get(a.ID); !ok {
		t.Fatal("session expired too early")
	}

	*now = now.Add(45 * time.Second)
	if _, ok := st.Get(b.ID); ok {
		t.Error("idle session should have expired")
	}
	if n := st.Purge(); n != 0 {
		t.Errorf("Purge removed %d, want 0 (b already evicted by Get)", n)
	}

	*now = now.Add(2 * time.Minute)
	if n := st.Purge(); n != 1 || st.Len() != 0 {
		t.Errorf("Purge removed %d, Len = %d", n, st.Len())
	}
}

func TestSession_DashboardUsesSessionSearchStore(t *testing.T) {
	st, _ := newStore(t)
	sess := st.Create()
	if _, err := sess.Dashboard.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Dashboard.Search("C1"); err != nil {
		t.Fatal(err)
	}
	if got := sess.Search.LastSearchTerm(); got != "c1" {
		t.Errorf("stored term = %q", got)
	}

	other := st.Create()
	if other.Search.LastSearchTerm() != "" {
		t.Error("search state leaked between sessions")
	}

	st.Delete(sess.ID)
	if _, ok := st.Get(sess.ID); ok {
		t.Error("deleted session still reachable")
	}
}
