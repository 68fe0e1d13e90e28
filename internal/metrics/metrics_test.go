// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()
	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/falla" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/", "/", "/falla"} {
		req := httptest.NewRequest("GET", path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()

	if !strings.Contains(body, `campana_http_requests_total{method="GET",status="200"} 2`) {
		t.Errorf("200 counter missing:\n%s", body)
	}
	if !strings.Contains(body, `campana_http_requests_total{method="GET",status="500"} 1`) {
		t.Errorf("500 counter missing:\n%s", body)
	}
	if !strings.Contains(body, "campana_http_request_duration_seconds") {
		t.Errorf("duration histogram missing")
	}
}

func TestWebsocketClientsGauge(t *testing.T) {
	m := New()
	m.SetWebsocketClients(3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(w.Body.String(), "campana_websocket_clients 3") {
		t.Errorf("gauge missing:\n%s", w.Body.String())
	}
}
