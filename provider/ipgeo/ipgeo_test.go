package ipgeo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nevindra/locality"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocateSuccess(t *testing.T) {
	srv := serve(t, 200, `{"status":"success","country":"Indonesia","city":"Jakarta","lat":-6.2,"lon":106.8}`)

	loc, err := New(WithEndpoint(srv.URL)).Locate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if loc.City != "Jakarta" || loc.Country != "Indonesia" {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.Coordinates == nil || loc.Coordinates.Latitude != -6.2 || loc.Coordinates.Longitude != 106.8 {
		t.Errorf("unexpected coordinates %+v", loc.Coordinates)
	}
}

func TestLocateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"provider fail", 200, `{"status":"fail","message":"private range"}`},
		{"missing coordinates", 200, `{"status":"success","country":"X","city":"Y"}`},
		{"server error", 500, `oops`},
		{"not json", 200, `<html></html>`},
	}
	for _, tt := range tests {
		srv := serve(t, tt.status, tt.body)
		_, err := New(WithEndpoint(srv.URL)).Locate(context.Background())
		var le *locality.LocationError
		if !errors.As(err, &le) {
			t.Errorf("%s: expected *LocationError, got %v", tt.name, err)
		}
	}
}

func TestLocateUnreachable(t *testing.T) {
	srv := serve(t, 200, `{}`)
	url := srv.URL
	srv.Close()

	_, err := New(WithEndpoint(url)).Locate(context.Background())
	var le *locality.LocationError
	if !errors.As(err, &le) {
		t.Errorf("expected *LocationError, got %v", err)
	}
}
