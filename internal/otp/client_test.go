package otp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSend(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/otp/generate" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/otp/", "ParkoSpace India", "ParkoSpace Login Verification", time.Second)
	if err := c.Send(context.Background(), "owner@example.com"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	want := generateRequest{Email: "owner@example.com", Type: "numeric", Organization: "ParkoSpace India", Subject: "ParkoSpace Login Verification"}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}

func TestSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	if err := NewClient(srv.URL, "o", "s", time.Second).Send(context.Background(), "a@b.c"); err == nil {
		t.Fatal("expected error")
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/verify" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if req.OTP != "123456" {
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "o", "s", time.Second)

	cases := []struct {
		code string
		want bool
	}{{"123456", true}, {"000000", false}}
	for _, tc := range cases {
		ok, err := c.Verify(context.Background(), "a@b.c", tc.code)
		if err != nil {
			t.Fatalf("Verify(%s): %v", tc.code, err)
		}
		if ok != tc.want {
			t.Errorf("Verify(%s) = %v, want %v", tc.code, ok, tc.want)
		}
	}
}

func TestVerifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	if _, err := NewClient(url, "o", "s", time.Second).Verify(context.Background(), "a@b.c", "1"); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}
