package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestCountersExportedOverHTTP(t *testing.T) {
	Generations.WithLabelValues("mock").Inc()
	Undos.WithLabelValues("restored").Inc()
	CountRepairs([]string{"cost_coerced", "cost_coerced"})

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	for _, name := range []string{
		"novatrip_generations_total",
		"novatrip_undo_total",
		"novatrip_repairs_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("scrape output missing %s", name)
		}
	}
	if !strings.Contains(string(body), `novatrip_repairs_total{code="cost_coerced"} 2`) {
		t.Error("repair counter did not count per warning code")
	}
}
