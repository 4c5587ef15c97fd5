package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/store"
)

func newTestServer(t *testing.T, readOnly bool) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	st := store.Store{Dir: dir}
	db := &store.DB{
		Version:       1,
		CurrentUserID: "usr-1",
		Users:         []model.User{{ID: "usr-1", Name: "Home"}},
		Categories:    []model.Category{{ID: "cat-1", Name: "Electronics"}},
		Locations:     []model.Location{{ID: "loc-1", Name: "Garage"}},
		Items: []model.Item{
			{
				ID:        "item-1",
				Name:      "Arduino Uno",
				Quantity:  1,
				Specs:     []model.SpecEntry{{Key: "voltage", Value: "5V"}},
				CreatedBy: "usr-1",
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			},
		},
	}
	if err := st.Save(db); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	return NewServer(ServerConfig{Dir: dir, ReadOnly: readOnly}), dir
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return out.Data
}

func specsOf(t *testing.T, data map[string]any) []any {
	t.Helper()
	attrs, ok := data["attributes"].(map[string]any)
	if !ok {
		t.Fatalf("missing attributes: %v", data)
	}
	list, ok := attrs["specifications"].([]any)
	if !ok {
		t.Fatalf("specifications not an array: %v", attrs["specifications"])
	}
	return list
}

func TestGetItem_ArrayShapeDefault(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doJSON(t, s.Handler(), "GET", "/items/item-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	list := specsOf(t, decodeData(t, rec))
	if len(list) != 1 {
		t.Fatalf("expected 1 spec; got %v", list)
	}
	e := list[0].(map[string]any)
	if e["key"] != "voltage" || e["value"] != "5V" {
		t.Fatalf("unexpected entry: %v", e)
	}
}

func TestGetItem_MapShape(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doJSON(t, s.Handler(), "GET", "/items/item-1?shape=map", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	attrs := data["attributes"].(map[string]any)
	m, ok := attrs["specifications"].(map[string]any)
	if !ok {
		t.Fatalf("specifications not a map: %v", attrs["specifications"])
	}
	if m["voltage"] != "5V" {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestPutItem_AddSpecRoundTripsOrder(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	body := map[string]any{
		"attributes": map[string]any{
			"specifications": []map[string]any{
				{"key": "voltage", "value": "5V"},
				{"key": "current", "value": "40mA"},
			},
		},
	}
	rec := doJSON(t, h, "PUT", "/items/item-1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	// Reload through a fresh GET: order must survive persistence.
	rec = doJSON(t, h, "GET", "/items/item-1", nil)
	list := specsOf(t, decodeData(t, rec))
	if len(list) != 2 {
		t.Fatalf("expected 2 specs; got %v", list)
	}
	first := list[0].(map[string]any)
	second := list[1].(map[string]any)
	if first["key"] != "voltage" || second["key"] != "current" || second["value"] != "40mA" {
		t.Fatalf("order or content lost: %v", list)
	}
}

func TestPutItem_ReorderedSpecsPersist(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	seed := map[string]any{
		"attributes": map[string]any{
			"specifications": []map[string]any{
				{"key": "voltage", "value": "5V"},
				{"key": "current", "value": "40mA"},
				{"key": "frequency", "value": "16MHz"},
			},
		},
	}
	if rec := doJSON(t, h, "PUT", "/items/item-1", seed); rec.Code != http.StatusOK {
		t.Fatalf("seed put: %d", rec.Code)
	}

	// Client dragged "current" onto "voltage".
	moved := map[string]any{
		"attributes": map[string]any{
			"specifications": []map[string]any{
				{"key": "current", "value": "40mA"},
				{"key": "voltage", "value": "5V"},
				{"key": "frequency", "value": "16MHz"},
			},
		},
	}
	if rec := doJSON(t, h, "PUT", "/items/item-1", moved); rec.Code != http.StatusOK {
		t.Fatalf("reorder put: %d", rec.Code)
	}

	rec := doJSON(t, h, "GET", "/items/item-1", nil)
	list := specsOf(t, decodeData(t, rec))
	want := []string{"current", "voltage", "frequency"}
	if len(list) != len(want) {
		t.Fatalf("expected %d specs; got %v", len(want), list)
	}
	for i, k := range want {
		if list[i].(map[string]any)["key"] != k {
			t.Fatalf("position %d: expected %q; got %v", i, k, list[i])
		}
	}
}

func TestPutItem_AcceptsMapShapeBody(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	rec := doJSON(t, h, "PUT", "/items/item-1", map[string]any{
		"specs": map[string]any{"voltage": "5V", "pins": 14},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	list := specsOf(t, decodeData(t, rec))
	if len(list) != 2 {
		t.Fatalf("expected 2 specs; got %v", list)
	}
	for _, e := range list {
		m := e.(map[string]any)
		if m["key"] == "pins" {
			if v, ok := m["value"].(float64); !ok || v != 14 {
				t.Fatalf("pins should be numeric: %v", m["value"])
			}
		}
	}
}

func TestPutItem_PassThroughFields(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	qty := 3
	rec := doJSON(t, h, "PUT", "/items/item-1", map[string]any{
		"name":       "Arduino Uno R3",
		"quantity":   qty,
		"locationId": "loc-1",
		"categoryId": "cat-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["name"] != "Arduino Uno R3" || data["quantity"] != float64(qty) {
		t.Fatalf("pass-through fields lost: %v", data)
	}
	// Specs were not in the body and must be untouched.
	if list := specsOf(t, data); len(list) != 1 {
		t.Fatalf("specs changed by unrelated update: %v", list)
	}
}

func TestPutItem_UnknownIDs(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	if rec := doJSON(t, h, "PUT", "/items/item-nope", map[string]any{"name": "x"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404; got %d", rec.Code)
	}
	if rec := doJSON(t, h, "PUT", "/items/item-1", map[string]any{"locationId": "loc-nope"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown location; got %d", rec.Code)
	}
}

func TestReadOnly_RejectsWrites(t *testing.T) {
	s, _ := newTestServer(t, true)
	h := s.Handler()

	if rec := doJSON(t, h, "PUT", "/items/item-1", map[string]any{"name": "x"}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403; got %d", rec.Code)
	}
	if rec := doJSON(t, h, "POST", "/items", map[string]any{"name": "x"}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403; got %d", rec.Code)
	}
	if rec := doJSON(t, h, "GET", "/items/item-1", nil); rec.Code != http.StatusOK {
		t.Fatalf("read should still work; got %d", rec.Code)
	}
}

func TestCreateItem_WithSpecs(t *testing.T) {
	s, dir := newTestServer(t, false)
	h := s.Handler()

	rec := doJSON(t, h, "POST", "/items", map[string]any{
		"name":       "Multimeter",
		"quantity":   2,
		"categoryId": "cat-1",
		"attributes": map[string]any{
			"specifications": map[string]any{"range": "600V"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("missing id: %v", data)
	}

	// The create must be durable.
	db, err := (store.Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	it, ok := db.FindItem(id)
	if !ok {
		t.Fatalf("created item not persisted")
	}
	if len(it.Specs) != 1 || it.Specs[0].Key != "range" {
		t.Fatalf("unexpected persisted specs: %+v", it.Specs)
	}
}

func TestItemEvents(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	if rec := doJSON(t, h, "PUT", "/items/item-1", map[string]any{"name": "Renamed"}); rec.Code != http.StatusOK {
		t.Fatalf("put: %d", rec.Code)
	}
	rec := doJSON(t, h, "GET", "/items/item-1/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("events: %d", rec.Code)
	}
	var out struct {
		Data []model.Event `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].Type != "item.rename" {
		t.Fatalf("unexpected events: %+v", out.Data)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doJSON(t, s.Handler(), "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
}
