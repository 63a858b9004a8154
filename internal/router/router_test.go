package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dairy-farm-management/internal/platform/metrics"
	"dairy-farm-management/internal/router"
)

func TestHTTP_EndToEnd_HerdAndInventory(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Metrics: metrics.New()}))
	defer ts.Close()

	// 1) Sin token no se puede leer el hato
	{
		st, _ := doReq(t, ts.URL, "GET", "/cows", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// 2) El primer usuario queda como owner, el segundo como worker
	owner := registerAndLogin(t, ts.URL, "owner@farm.test")
	worker := registerAndLogin(t, ts.URL, "worker@farm.test")

	// 3) Owner crea raza y vaca
	breedID := create(t, ts.URL, "/cow-breeds", owner, map[string]any{"name": "Jersey"})
	cowID := create(t, ts.URL, "/cows", owner, map[string]any{
		"name":          "Daisy",
		"breed_id":      breedID,
		"date_of_birth": "2022-01-01",
		"gender":        "Female",
		"category":      "Heifer",
	})

	// 4) Worker puede leer pero no borrar
	{
		st, body := doReq(t, ts.URL, "GET", "/cows/"+cowID, worker, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get cow by worker, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/cows/"+cowID, worker, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete cow by worker, got %d", st)
		}
	}

	// 5) El inventario refleja la vaca nueva
	{
		st, body := doReq(t, ts.URL, "GET", "/cow-inventory", owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cow inventory, got %d body=%s", st, string(body))
		}
		var inv struct {
			Total  int `json:"total_number_of_cows"`
			Female int `json:"number_of_female_cows"`
		}
		mustUnmarshal(t, body, &inv)
		if inv.Total != 1 || inv.Female != 1 {
			t.Fatalf("unexpected inventory: %+v", inv)
		}
	}

	// 6) Celo: se registra y no se puede editar
	heatID := create(t, ts.URL, "/heat-records", owner, map[string]any{"cow_id": cowID})
	{
		st, _ := doReq(t, ts.URL, "PUT", "/heat-records/"+heatID, owner, map[string]any{"cow_id": cowID})
		if st != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405 updating heat, got %d", st)
		}
	}

	// 7) La vaca con registros no se puede borrar
	{
		st, body := doReq(t, ts.URL, "DELETE", "/cows/"+cowID, owner, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 delete cow with records, got %d body=%s", st, string(body))
		}
	}

	// 8) El inventario no acepta escrituras
	{
		st, _ := doReq(t, ts.URL, "POST", "/cow-inventory", owner, map[string]any{})
		if st != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405 writing cow inventory, got %d", st)
		}
	}

	// 9) Métricas expuestas con los gauges del inventario
	{
		st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 metrics, got %d", st)
		}
		if !strings.Contains(string(body), "dairy_cows") {
			t.Fatalf("expected cow gauges in metrics output")
		}
	}
}

func TestHTTP_MilkFeedsInventory(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	owner := registerAndLogin(t, ts.URL, "owner@farm.test")
	worker := registerAndLogin(t, ts.URL, "worker@farm.test")

	breedID := create(t, ts.URL, "/cow-breeds", owner, map[string]any{"name": "Holstein"})
	cowID := create(t, ts.URL, "/cows", owner, map[string]any{
		"name":          "Bella",
		"breed_id":      breedID,
		"date_of_birth": "2022-01-01",
		"gender":        "Female",
		"category":      "Milking Cow",
	})

	// 1) El worker puede registrar leche
	create(t, ts.URL, "/milk-records", worker, map[string]any{
		"cow_id":        cowID,
		"session":       "Morning",
		"amount_in_kgs": 12.5,
	})

	// 2) El inventario general refleja el volumen
	{
		st, body := doReq(t, ts.URL, "GET", "/milk-inventory", owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 milk inventory, got %d body=%s", st, string(body))
		}
		var inv struct {
			Total   float64 `json:"total_milk_kgs"`
			Records int     `json:"number_of_records"`
		}
		mustUnmarshal(t, body, &inv)
		if inv.Total != 12.5 || inv.Records != 1 {
			t.Fatalf("unexpected milk inventory: %+v", inv)
		}
	}

	// 3) Y también el inventario de la vaca
	{
		st, body := doReq(t, ts.URL, "GET", "/milk-inventory/cows/"+cowID, owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cow milk, got %d body=%s", st, string(body))
		}
		var cm struct {
			CowID string  `json:"cow_id"`
			Total float64 `json:"total_kgs"`
		}
		mustUnmarshal(t, body, &cm)
		if cm.CowID != cowID || cm.Total != 12.5 {
			t.Fatalf("unexpected cow milk: %+v", cm)
		}
	}
}

func TestHTTP_RecordsReadBackAndWorkerCannotWrite(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	owner := registerAndLogin(t, ts.URL, "owner@farm.test")
	worker := registerAndLogin(t, ts.URL, "worker@farm.test")

	breedID := create(t, ts.URL, "/cow-breeds", owner, map[string]any{"name": "Ayrshire"})
	cowID := create(t, ts.URL, "/cows", owner, map[string]any{
		"name":          "Canela",
		"breed_id":      breedID,
		"date_of_birth": "2022-01-01",
		"gender":        "Female",
		"category":      "Heifer",
	})

	// 1) Peso: lo leído es lo guardado
	weightID := create(t, ts.URL, "/weight-records", owner, map[string]any{
		"cow_id":        cowID,
		"weight_in_kgs": 432.5,
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/weight-records/"+weightID, owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get weight, got %d body=%s", st, string(body))
		}
		var w struct {
			ID     string  `json:"id"`
			CowID  string  `json:"cow_id"`
			Weight float64 `json:"weight_in_kgs"`
		}
		mustUnmarshal(t, body, &w)
		if w.ID != weightID || w.CowID != cowID || w.Weight != 432.5 {
			t.Fatalf("unexpected weight record: %+v", w)
		}
	}

	// 2) Preñez: lo leído es lo guardado
	pregnancyID := create(t, ts.URL, "/pregnancy-records", owner, map[string]any{
		"cow_id":          cowID,
		"start_date":      "2024-06-01",
		"pregnancy_notes": "monta natural",
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/pregnancy-records/"+pregnancyID, owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pregnancy, got %d body=%s", st, string(body))
		}
		var p struct {
			ID        string `json:"id"`
			CowID     string `json:"cow_id"`
			StartDate string `json:"start_date"`
			Status    string `json:"pregnancy_status"`
			Notes     string `json:"pregnancy_notes"`
		}
		mustUnmarshal(t, body, &p)
		if p.ID != pregnancyID || p.CowID != cowID || p.StartDate != "2024-06-01" ||
			p.Status != "Unconfirmed" || p.Notes != "monta natural" {
			t.Fatalf("unexpected pregnancy record: %+v", p)
		}
	}

	// 3) El worker no crea ni edita pesos ni preñeces
	forbidden := []struct {
		method, path string
		payload      map[string]any
	}{
		{"POST", "/weight-records", map[string]any{"cow_id": cowID, "weight_in_kgs": 400}},
		{"PATCH", "/weight-records/" + weightID, map[string]any{"weight_in_kgs": 400}},
		{"POST", "/pregnancy-records", map[string]any{"cow_id": cowID, "start_date": "2024-06-01"}},
		{"PATCH", "/pregnancy-records/" + pregnancyID, map[string]any{"pregnancy_notes": "x"}},
	}
	for _, tc := range forbidden {
		st, body := doReq(t, ts.URL, tc.method, tc.path, worker, tc.payload)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for worker %s %s, got %d body=%s", tc.method, tc.path, st, string(body))
		}
	}
}

func TestHTTP_FilteredListWithoutResults(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	owner := registerAndLogin(t, ts.URL, "owner@farm.test")

	st, body := doReq(t, ts.URL, "GET", "/cows", owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 empty list, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/cows?gender=Male", owner, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for empty filtered list, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response: %d %s", st, string(body))
	}
}

// -------------------------
// Helpers
// -------------------------

func registerAndLogin(t *testing.T, baseURL, email string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/register", "", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, baseURL, "POST", "/auth/login", "", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var out struct {
		Token string `json:"token"`
	}
	mustUnmarshal(t, body, &out)
	if out.Token == "" {
		t.Fatalf("missing token in login response")
	}
	return out.Token
}

func create(t *testing.T, baseURL, path, token string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d body=%s", path, st, string(body))
	}

	var out struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &out)
	if out.ID == "" {
		t.Fatalf("missing id creating %s", path)
	}
	return out.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func mustUnmarshal(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(b))
	}
}
