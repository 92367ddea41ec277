package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sumire/leaveportal/internal/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds.Email != "jane@example.com" {
			t.Errorf("unexpected email %q", creds.Email)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "abc.def.ghi"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, err := c.Login(context.Background(), Credentials{Email: "jane@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("unexpected token %q", token)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Login(context.Background(), Credentials{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBearerTokenReplayedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc.def.ghi" {
			t.Errorf("unexpected authorization header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"users": []domain.User{{ID: 1}}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	users, err := c.GetUsers(context.Background(), "Bearer abc.def.ghi", UserFilter{})
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if len(users) != 1 || users[0].ID != 1 {
		t.Errorf("unexpected users %v", users)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := New(srv.URL)
			err := c.DeleteUser(context.Background(), "Bearer t", 9)
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d mapped to %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestUpdateNotificationAck(t *testing.T) {
	var gotPatch NotificationPatch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/notifications/n1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPatch); err != nil {
			t.Errorf("decode patch: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	isRead := true
	if err := c.UpdateNotification(context.Background(), "Bearer t", "n1", NotificationPatch{IsRead: &isRead}); err != nil {
		t.Fatalf("update notification: %v", err)
	}
	if gotPatch.IsRead == nil || !*gotPatch.IsRead {
		t.Error("expected isRead=true in patch body")
	}
}

func TestUpdateNotificationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	isRead := true
	if err := c.UpdateNotification(context.Background(), "Bearer t", "n1", NotificationPatch{IsRead: &isRead}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestGetLeaveRecordsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user") != "7" || q.Get("status") != "PENDING" || q.Get("year") != "2026" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{"records": []domain.LeaveRecord{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetLeaveRecords(context.Background(), "Bearer t", 7, RecordFilter{Status: domain.LeaveStatusPending, Year: 2026})
	if err != nil {
		t.Fatalf("get records: %v", err)
	}
}
