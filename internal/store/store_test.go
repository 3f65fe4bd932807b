package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/asplabs/maia/internal/convo"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "maia-test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserLifecycle(t *testing.T) {
	s := testStore(t)

	u, err := s.CreateUser("pablo@example.com", "Pablo", "hash123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUserByEmail("pablo@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != u.ID || got.DisplayName != "Pablo" || got.PasswordHash != "hash123" {
		t.Errorf("user = %+v", got)
	}

	if _, err := s.CreateUser("pablo@example.com", "Outro", "x"); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate email error = %v, want ErrExists", err)
	}

	if _, err := s.GetUserByEmail("ninguem@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}

func TestSessionOwnership(t *testing.T) {
	s := testStore(t)
	owner, _ := s.CreateUser("a@x.com", "A", "h")
	other, _ := s.CreateUser("b@x.com", "B", "h")

	sess, err := s.CreateSession(owner.ID, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Title != "Novo Chat" {
		t.Errorf("default title = %q", sess.Title)
	}

	if _, err := s.GetSession(sess.ID, other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user get error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSession(sess.ID, other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSession(sess.ID, owner.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

// Two sequential turns persisted between calls must round
// trip with full fidelity.
func TestHistoryRoundTripFidelity(t *testing.T) {
	s := testStore(t)
	user, _ := s.CreateUser("c@x.com", "C", "h")
	sess, _ := s.CreateSession(user.ID, "Teste")

	first := []convo.Turn{
		convo.NewUserText("crie a lista Mercado"),
		{Role: convo.RoleModel, Parts: []convo.Part{{FunctionCall: &convo.FunctionCall{
			Name: "gerenciar_notas",
			Args: map[string]any{"operacao": "CREATE_LIST", "title": "Mercado"},
		}}}},
		convo.NewFunctionResponse("gerenciar_notas", "Sucesso: A lista 'Mercado' foi criada."),
		convo.NewModelText("Lista criada."),
	}
	if err := s.SaveHistory(sess.ID, user.ID, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.LoadHistory(sess.ID, user.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != len(first) {
		t.Fatalf("loaded %d turns, want %d", len(loaded), len(first))
	}
	if loaded[1].Parts[0].FunctionCall.Args["title"] != "Mercado" {
		t.Errorf("function call args lost: %+v", loaded[1].Parts[0])
	}
	if loaded[2].Parts[0].FunctionResponse.Output() != "Sucesso: A lista 'Mercado' foi criada." {
		t.Errorf("function response lost: %+v", loaded[2].Parts[0])
	}

	// Second turn starts from the loaded history.
	second := append(loaded, convo.NewUserText("adicione leite"), convo.NewModelText("Adicionado."))
	if err := s.SaveHistory(sess.ID, user.ID, second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	reloaded, _ := s.LoadHistory(sess.ID, user.ID)
	if len(reloaded) != 6 {
		t.Errorf("reloaded %d turns, want 6", len(reloaded))
	}
}

func TestSaveHistoryUnknownSession(t *testing.T) {
	s := testStore(t)
	user, _ := s.CreateUser("d@x.com", "D", "h")
	err := s.SaveHistory("no-such-session", user.ID, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListSessionsOrder(t *testing.T) {
	s := testStore(t)
	user, _ := s.CreateUser("e@x.com", "E", "h")

	first, _ := s.CreateSession(user.ID, "primeira")
	second, _ := s.CreateSession(user.ID, "segunda")

	// Touch the first session so it becomes most recent.
	time.Sleep(5 * time.Millisecond)
	if err := s.SaveHistory(first.ID, user.ID, []convo.Turn{convo.NewUserText("oi")}); err != nil {
		t.Fatalf("save: %v", err)
	}

	infos, err := s.ListSessions(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("sessions = %d, want 2", len(infos))
	}
	if infos[0].ID != first.ID || infos[1].ID != second.ID {
		t.Errorf("order = [%s %s], want most recently updated first", infos[0].Title, infos[1].Title)
	}
	// Listing never includes history payloads.
}

func TestNoteListsCRUD(t *testing.T) {
	s := testStore(t)
	user, _ := s.CreateUser("f@x.com", "F", "h")

	if _, err := s.CreateNoteList(user.ID, "Mercado"); err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := s.CreateNoteList(user.ID, "mercado"); !errors.Is(err, ErrExists) {
		t.Errorf("case-insensitive duplicate error = %v, want ErrExists", err)
	}

	list, err := s.AddNoteItems(user.ID, "MERCADO", []string{"leite", "pão"})
	if err != nil {
		t.Fatalf("add items: %v", err)
	}
	if len(list.Items) != 2 || list.Items[0].ItemID != 1 || list.Items[1].ItemID != 2 {
		t.Errorf("items = %+v, want sequential ids", list.Items)
	}

	if err := s.DeleteNoteItem(user.ID, "Mercado", 1); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := s.DeleteNoteItem(user.ID, "Mercado", 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteNoteList(user.ID, "Mercado"); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	if _, err := s.FindNoteList(user.ID, "Mercado"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted list error = %v, want ErrNotFound", err)
	}
}

func TestNoteListsScopedPerUser(t *testing.T) {
	s := testStore(t)
	a, _ := s.CreateUser("g@x.com", "G", "h")
	b, _ := s.CreateUser("h@x.com", "H", "h")

	if _, err := s.CreateNoteList(a.ID, "Privada"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FindNoteList(b.ID, "Privada"); !errors.Is(err, ErrNotFound) {
		t.Errorf("user B sees user A's list: %v", err)
	}
	// Same title is allowed for a different user.
	if _, err := s.CreateNoteList(b.ID, "Privada"); err != nil {
		t.Errorf("per-user title uniqueness too broad: %v", err)
	}
}

func TestEvents(t *testing.T) {
	s := testStore(t)
	user, _ := s.CreateUser("i@x.com", "I", "h")

	past := time.Now().Add(-2 * time.Hour)
	future := time.Now().Add(2 * time.Hour)
	later := time.Now().Add(4 * time.Hour)

	s.CreateEvent(user.ID, "passado", "", past, past.Add(time.Hour))
	evLater, _ := s.CreateEvent(user.ID, "depois", "", later, later.Add(time.Hour))
	evSoon, _ := s.CreateEvent(user.ID, "em breve", "", future, future.Add(time.Hour))

	events, err := s.UpcomingEvents(user.ID, 10)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (past excluded)", len(events))
	}
	if events[0].ID != evSoon.ID || events[1].ID != evLater.ID {
		t.Errorf("order = [%s %s], want soonest first", events[0].Title, events[1].Title)
	}

	if err := s.DeleteEvent(user.ID, evSoon.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteEvent(user.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing event error = %v, want ErrNotFound", err)
	}
}
