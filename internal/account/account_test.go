package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minpaixinyu/minpai/internal/api"
)

func backend(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func TestExploredListMapsNames(t *testing.T) {
	client := backend(t, func(w http.ResponseWriter, r *http.Request) {
		// Mixed stored-form and display names.
		w.Write([]byte(`{"explorations": ["闽派新语 - 福州", "泉州"]}`))
	})
	ctl := New(client)

	list, err := ctl.ExploredList(context.Background())
	if err != nil {
		t.Fatalf("ExploredList: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("list length = %d, want every interactive city", len(list))
	}

	byName := map[string]bool{}
	for _, s := range list {
		byName[s.Name] = s.Explored
	}
	if !byName["福州"] || !byName["泉州"] {
		t.Errorf("explored statuses wrong: %v", byName)
	}
	if byName["莆田"] {
		t.Error("莆田 was never explored")
	}
}

func TestUploadAvatarGuards(t *testing.T) {
	called := false
	client := backend(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"success": true}`))
	})
	ctl := New(client)
	ctx := context.Background()

	if err := ctl.UploadAvatar(ctx, "avatar.bmp"); err == nil {
		t.Error("expected rejection of unsupported type")
	}

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	os.WriteFile(empty, nil, 0o644)
	if err := ctl.UploadAvatar(ctx, empty); err == nil {
		t.Error("expected rejection of empty file")
	}

	big := filepath.Join(dir, "big.jpg")
	os.WriteFile(big, make([]byte, MaxAvatarSize+1), 0o644)
	if err := ctl.UploadAvatar(ctx, big); err == nil {
		t.Error("expected rejection of oversized file")
	}
	if called {
		t.Fatal("no upload may start before the guards pass")
	}

	ok := filepath.Join(dir, "ok.png")
	os.WriteFile(ok, []byte("fake image bytes"), 0o644)
	if err := ctl.UploadAvatar(ctx, ok); err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if !called {
		t.Error("valid file was not uploaded")
	}
}

func TestChangePasswordValidation(t *testing.T) {
	client := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	})
	ctl := New(client)
	ctx := context.Background()

	cases := []struct {
		name string
		form PasswordChange
		ok   bool
	}{
		{"valid", PasswordChange{Old: "oldpass", New: "newpass1", Confirm: "newpass1"}, true},
		{"too short", PasswordChange{Old: "oldpass", New: "abc", Confirm: "abc"}, false},
		{"mismatch", PasswordChange{Old: "oldpass", New: "newpass1", Confirm: "newpass2"}, false},
		{"same as old", PasswordChange{Old: "samepass", New: "samepass", Confirm: "samepass"}, false},
		{"missing old", PasswordChange{New: "newpass1", Confirm: "newpass1"}, false},
	}
	for _, tc := range cases {
		err := ctl.ChangePassword(ctx, tc.form)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestChangePasswordServerRejection(t *testing.T) {
	client := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "旧密码错误"}`))
	})
	ctl := New(client)

	err := ctl.ChangePassword(context.Background(), PasswordChange{Old: "x12345", New: "y12345", Confirm: "y12345"})
	if !api.IsValidation(err) {
		t.Errorf("err = %v, want a ValidationError carrying the server message", err)
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	client := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	})
	ctl := New(client)

	if err := ctl.DeleteAccount(context.Background(), ""); err == nil {
		t.Error("expected error for missing password")
	}
	if err := ctl.DeleteAccount(context.Background(), "hunter22"); err != nil {
		t.Errorf("DeleteAccount: %v", err)
	}
}
