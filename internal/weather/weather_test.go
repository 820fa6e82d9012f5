package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const upstreamBody = `{
	"name": "Wellington",
	"main": {"temp": 14.6, "humidity": 81},
	"weather": [{"description": "light rain", "icon": "10d"}],
	"wind": {"speed": 9.3}
}`

func TestCurrentReshapesUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Wellington,NZ" {
			t.Errorf("query city = %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q", got)
		}
		if got := r.URL.Query().Get("appid"); got != "key123" {
			t.Errorf("appid = %q", got)
		}
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	sum, err := c.Current(context.Background(), "key123", "Wellington,NZ")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	want := Summary{City: "Wellington", Temp: 15, Desc: "light rain", Icon: "10d", Humidity: 81, Wind: 9.3}
	if sum != want {
		t.Fatalf("got %+v, want %+v", sum, want)
	}
}

func TestCurrentMapsUnknownCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	if _, err := c.Current(context.Background(), "k", "Atlantis"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("want ErrCityNotFound, got %v", err)
	}
}

func TestCurrentUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.Current(context.Background(), "k", "Wellington")
	if err == nil || errors.Is(err, ErrCityNotFound) {
		t.Fatalf("want generic upstream error, got %v", err)
	}
}
