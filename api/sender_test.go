package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostmon/errors"
	"hostmon/models"
)

func testReport() *models.Report {
	return &models.Report{
		Host: models.HostInfo{Hostname: "box"},
		CPU:  &models.CPUSnapshot{Percent: 33, PerCore: []float64{33}, PhysicalCores: 1, LogicalCores: 1},
		Processes: &models.ProcessSnapshot{Records: []models.ProcessRecord{
			{PID: 1, Name: "init", Status: "sleep"},
		}},
	}
}

func TestSendReport(t *testing.T) {
	var got models.ReportPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"success":true,"agent":"box","interval":12}`))
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "secret", "test")
	interval, err := s.SendReport(context.Background(), testReport())
	if err != nil {
		t.Fatalf("SendReport() error: %v", err)
	}
	if interval != 12*time.Second {
		t.Fatalf("interval = %v, want 12s", interval)
	}
	if got.Hostname != "box" || got.CPU != 33 || len(got.Processes) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendReportAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"bad key","code":"AUTH"}`))
	}))
	defer srv.Close()

	_, err := NewSender(srv.URL, "wrong", "test").SendReport(context.Background(), testReport())
	if !errors.Is(err, errors.ErrTypeReport) {
		t.Fatalf("expected report error, got %v", err)
	}
}

func TestSendReportNoInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	interval, err := NewSender(srv.URL, "k", "test").SendReport(context.Background(), testReport())
	if err != nil || interval != 0 {
		t.Fatalf("got %v, %v", interval, err)
	}
}
