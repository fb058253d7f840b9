package auth

import (
	"testing"

	"pondok/internal/storage"
)

func TestLogin_DefaultCredentials(t *testing.T) {
	svc := NewService(storage.NewMemoryKV())

	user, ok := svc.Login(DefaultEmail, "admin123")
	if !ok {
		t.Fatal("default credentials must log in on a fresh store")
	}
	if user.Email != DefaultEmail || user.Role != "admin" {
		t.Fatalf("user = %+v", user)
	}

	got, ok := svc.CurrentUser()
	if !ok || got.Email != DefaultEmail {
		t.Fatalf("CurrentUser = (%+v, %v)", got, ok)
	}
}

func TestLogin_Rejections(t *testing.T) {
	svc := NewService(storage.NewMemoryKV())

	cases := []struct {
		email, password string
	}{
		{DefaultEmail, "wrong"},
		{"other@pondok.com", "admin123"},
		{"", ""},
	}
	for i, tc := range cases {
		if _, ok := svc.Login(tc.email, tc.password); ok {
			t.Fatalf("case %d: login must fail", i)
		}
	}

	if _, ok := svc.CurrentUser(); ok {
		t.Fatal("no user may be stored after failed logins")
	}
}

func TestLogout(t *testing.T) {
	svc := NewService(storage.NewMemoryKV())

	if _, ok := svc.Login(DefaultEmail, "admin123"); !ok {
		t.Fatal("login failed")
	}
	svc.Logout()
	if _, ok := svc.CurrentUser(); ok {
		t.Fatal("CurrentUser must be empty after logout")
	}
}

func TestUpdatePassword(t *testing.T) {
	svc := NewService(storage.NewMemoryKV())

	if svc.UpdatePassword("wrong", "newpass") {
		t.Fatal("password change with a wrong current password must fail")
	}
	if !svc.UpdatePassword("admin123", "newpass") {
		t.Fatal("password change with the correct current password must succeed")
	}

	if _, ok := svc.Login(DefaultEmail, "admin123"); ok {
		t.Fatal("old password must no longer work")
	}
	if _, ok := svc.Login(DefaultEmail, "newpass"); !ok {
		t.Fatal("new password must work")
	}
}

func TestCredentialsPersistAcrossServices(t *testing.T) {
	kv := storage.NewMemoryKV()

	first := NewService(kv)
	if !first.UpdatePassword("admin123", "rotated") {
		t.Fatal("password change failed")
	}

	second := NewService(kv)
	if _, ok := second.Login(DefaultEmail, "rotated"); !ok {
		t.Fatal("rotated password must survive a new service over the same store")
	}
}
