package vindecoder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const decodeBody = `{
	"success": true,
	"decode": [
		{"label": "Make", "value": "Ford", "id": 1},
		{"label": "Model", "value": "Focus", "id": 2},
		{"label": "Model Year", "value": 2011.0, "id": 3},
		{"label": "Engine Power (HP)", "value": 105, "id": 4},
		{"label": "Fuel Type - Primary", "value": "Gasoline", "id": 5},
		{"label": "Number of Doors", "value": 5, "id": 6}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli := NewClient(ClientConfig{
		BaseURL:   srv.URL,
		APIKey:    "apikey",
		SecretKey: "secret",
	})
	return cli, srv
}

func TestClient_Decode_RequestShape(t *testing.T) {
	vin := "wf0mxxgbwm8r43240" // lowercase on purpose
	wantPath := fmt.Sprintf("/apikey/%s/decode/WF0MXXGBWM8R43240.json",
		ControlSum(vin, "apikey", "secret"))

	var gotPath string
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, decodeBody)
	})

	vehicle, err := cli.Decode(context.Background(), vin)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if gotPath != wantPath {
		t.Errorf("request path = %q, want %q", gotPath, wantPath)
	}

	if vehicle.VIN != "WF0MXXGBWM8R43240" {
		t.Errorf("vehicle VIN = %q, want uppercased input", vehicle.VIN)
	}
	if vehicle.Make != "Ford" || vehicle.Model != "Focus" {
		t.Errorf("make/model = %q/%q, want Ford/Focus", vehicle.Make, vehicle.Model)
	}
	if vehicle.Year != "2011" {
		t.Errorf("year = %q, want 2011 (integral number drops decimal)", vehicle.Year)
	}
	if vehicle.HP != "105" {
		t.Errorf("hp = %q, want 105", vehicle.HP)
	}
	if vehicle.NumberOfDoors != "5" {
		t.Errorf("doors = %q, want 5", vehicle.NumberOfDoors)
	}
	// Labels the service did not return stay empty, never an error.
	if vehicle.Color != "" || vehicle.Transmission != "" {
		t.Errorf("absent labels should be empty, got color=%q transmission=%q", vehicle.Color, vehicle.Transmission)
	}
}

func TestClient_Decode_ErrorStatus(t *testing.T) {
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": "invalid control sum"}`)
	})

	_, err := cli.Decode(context.Background(), "1HGCM82633A004352")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
	}
	if svcErr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", svcErr.Status)
	}
}

func TestClient_Decode_EmptyDecodeList(t *testing.T) {
	// A 200 with no decode entries is still a service failure: nothing
	// may be persisted from it.
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": false, "decode": []}`)
	})

	_, err := cli.Decode(context.Background(), "1HGCM82633A004352")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
	}
}

func TestClient_Decode_MalformedBody(t *testing.T) {
	cli, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})

	_, err := cli.Decode(context.Background(), "1HGCM82633A004352")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T (%v)", err, err)
	}
}
