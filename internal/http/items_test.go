package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateItemSellerIsCaller(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")

	// a seller field in the payload is ignored
	resp := doJSON(t, app, "POST", "/items", tok, map[string]any{
		"name": "Widget", "description": "d", "price": "5.00",
		"seller": map[string]any{"id": "someone-else", "username": "mallory"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	seller, _ := got["seller"].(map[string]any)
	if seller["username"] != "alice" {
		t.Fatalf("expected seller alice, got %v", seller)
	}
	if got["available"] != true {
		t.Fatalf("expected available=true by default, got %v", got["available"])
	}
	if got["price"] != "5.00" {
		t.Fatalf("expected price 5.00, got %v", got["price"])
	}
}

func TestCreateItemRequiresAuth(t *testing.T) {
	app, _ := newApp(t)
	resp := doJSON(t, app, "POST", "/items", "", map[string]any{
		"name": "Widget", "description": "d", "price": "5.00",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestItemPriceValidation(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")

	cases := []struct {
		price  any
		status int
	}{
		{"0.1", http.StatusCreated}, // lowest allowed
		{"0.09", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
		{"-3", http.StatusBadRequest},
		{"5.123", http.StatusBadRequest}, // too many fraction digits
		{"19.99", http.StatusCreated},
		{12.5, http.StatusCreated}, // bare JSON number accepted too
		{"junk", http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := doJSON(t, app, "POST", "/items", tok, map[string]any{
			"name": "Thing", "description": "d", "price": tc.price,
		})
		if resp.StatusCode != tc.status {
			t.Fatalf("price %v: expected %d, got %d", tc.price, tc.status, resp.StatusCode)
		}
		if tc.status == http.StatusBadRequest {
			errs, _ := decode(t, resp)["errors"].(map[string]any)
			if _, ok := errs["price"]; !ok {
				t.Fatalf("price %v: expected a price field error, got %v", tc.price, errs)
			}
		}
	}
}

func TestGetItemAnonymous(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")
	id := createItem(t, app, tok, "Radio", "49.00")

	// trailing slash tolerated
	resp := doJSON(t, app, "GET", "/items/"+id+"/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	seller, _ := got["seller"].(map[string]any)
	if seller["username"] != "alice" {
		t.Fatalf("expected nested seller, got %v", got["seller"])
	}
	if photos, ok := got["photos"].([]any); !ok || len(photos) != 0 {
		t.Fatalf("expected empty photos list, got %v", got["photos"])
	}
	if reviews, ok := got["reviews"].([]any); !ok || len(reviews) != 0 {
		t.Fatalf("expected empty reviews list, got %v", got["reviews"])
	}

	resp = doJSON(t, app, "GET", "/items/does-not-exist", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListItems(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")
	createItem(t, app, tok, "One", "1.00")
	createItem(t, app, tok, "Two", "2.00")
	createItem(t, app, tok, "Three", "3.00")

	resp := doJSON(t, app, "GET", "/items", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	items := decodeList(t, resp)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestUpdateItemSellerOnly(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	signup(t, app, "bob", "pw")
	aliceTok := loginAs(t, app, "alice", "pw")
	bobTok := loginAs(t, app, "bob", "pw")
	id := createItem(t, app, aliceTok, "Lamp", "10.00")

	resp := doJSON(t, app, "PUT", "/items/"+id, "", map[string]any{"name": "Nope"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "PUT", "/items/"+id, bobTok, map[string]any{"name": "Nope"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/items/"+id, aliceTok, map[string]any{
		"name": "Desk Lamp", "price": "12.50", "available": false,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	if got["name"] != "Desk Lamp" || got["price"] != "12.50" || got["available"] != false {
		t.Fatalf("update not applied: %v", got)
	}
}

func TestUpdateItemImmutableFields(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")
	id := createItem(t, app, tok, "Amp", "30.00")

	resp := doJSON(t, app, "GET", "/items/"+id, "", nil)
	before := decode(t, resp)

	resp = doJSON(t, app, "PUT", "/items/"+id, tok, map[string]any{
		"name": "Tube Amp", "created_at": "1999-01-01T00:00:00Z",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	after := decode(t, resp)
	if after["created_at"] != before["created_at"] {
		t.Fatalf("created_at changed on update: %v -> %v", before["created_at"], after["created_at"])
	}
	if after["seller"].(map[string]any)["id"] != before["seller"].(map[string]any)["id"] {
		t.Fatal("seller changed on update")
	}
}

func TestDeleteItemCascades(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	bobID := signup(t, app, "bob", "pw")
	aliceTok := loginAs(t, app, "alice", "pw")
	bobTok := loginAs(t, app, "bob", "pw")
	id := createItem(t, app, aliceTok, "Clock", "15.00")

	doJSON(t, app, "POST", "/items/"+id+"/review", bobTok, map[string]any{"rate": 9})
	doJSON(t, app, "POST", "/items/"+id+"/cart", bobTok, nil)

	resp := doJSON(t, app, "DELETE", "/items/"+id, bobTok, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-seller delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", "/items/"+id, aliceTok, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp = doJSON(t, app, "GET", "/items/"+id, "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/users/"+bobID, "", nil)
	bob := decode(t, resp)
	if reviewed, _ := bob["reviewed"].([]any); len(reviewed) != 0 {
		t.Fatalf("expected review cascaded away, got %v", reviewed)
	}
	cart, _ := bob["cart"].(map[string]any)
	if items, _ := cart["items"].([]any); len(items) != 0 {
		t.Fatalf("expected cart reference cascaded away, got %v", items)
	}
}

func TestCreateItemWithPhotoUpload(t *testing.T) {
	app, _ := newApp(t)
	signup(t, app, "alice", "pw")
	tok := loginAs(t, app, "alice", "pw")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("name", "Camera")
	_ = w.WriteField("description", "35mm rangefinder")
	_ = w.WriteField("price", "80.00")
	fw, err := w.CreateFormFile("photos", "front.jpg")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("not-really-a-jpeg"))
	_ = w.Close()

	req := httptest.NewRequest("POST", "/items", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	photos, _ := got["photos"].([]any)
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %v", got["photos"])
	}
	url, _ := photos[0].(map[string]any)["photo"].(string)
	if !strings.HasPrefix(url, "/media/item_photos/") {
		t.Fatalf("expected a /media/item_photos/ URL, got %q", url)
	}

	// the media route serves the uploaded file
	fileResp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if fileResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from media route, got %d", fileResp.StatusCode)
	}
	data, _ := io.ReadAll(fileResp.Body)
	if string(data) != "not-really-a-jpeg" {
		t.Fatalf("media content mismatch: %q", data)
	}
}

func TestMediaTraversalBlocked(t *testing.T) {
	app, _ := newApp(t)
	for _, p := range []string{"/media/../go.mod", "/media/%2e%2e/go.mod"} {
		resp, err := app.Test(httptest.NewRequest("GET", p, nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, resp.StatusCode)
		}
	}
}
