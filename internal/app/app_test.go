package app_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"EcoPantry/internal/app"
	"EcoPantry/internal/catalog"
	"EcoPantry/internal/identity"
	"EcoPantry/internal/purchase"
	"EcoPantry/internal/recs"
)

type fakeIndex struct {
	saved     []recs.Doc
	queryDocs []recs.Doc
	recDocs   []recs.Doc
	fail      error
}

func (f *fakeIndex) SaveObjects(_ context.Context, docs []recs.Doc) error {
	if f.fail != nil {
		return f.fail
	}
	f.saved = append(f.saved, docs...)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ recs.QuerySpec) ([]recs.Doc, error) {
	return f.queryDocs, f.fail
}

func (f *fakeIndex) Recommend(_ context.Context, _ string, _ int) ([]recs.Doc, error) {
	return f.recDocs, f.fail
}

const testCatalog = `{
	"products": [
		{"code": "A", "product_name": "Oat Drink", "image_url": "i",
		 "nutriscore_grade": "a",
		 "environmental_score_data": {"grade": "a", "score": 94},
		 "price": 2.19, "category": "drinks"},
		{"code": "B", "product_name": "Mystery"},
		{"code": "C", "product_name": "Lentils", "image_url": "i",
		 "nutriscore_grade": "a",
		 "environmental_score_data": {"grade": "a", "score": 92},
		 "price": 1.59, "category": "legumes"},
		{"code": "D", "product_name": "Candy", "image_url": "i",
		 "nutriscore_grade": "e",
		 "environmental_score_data": {"grade": "d", "score": 30},
		 "price": 0.99, "category": "snacks"}
	]
}`

func newAPITS(t *testing.T, idx recs.Index) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store := purchase.NewSQLiteStore(db)
	accounts := identity.NewSQLiteStore(db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate purchases: %v", err)
	}
	if err := accounts.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate accounts: %v", err)
	}

	catalogPath := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	log := zap.NewNop()
	jwt := identity.NewTokenMaker("end-to-end-test-secret-0123456789")
	loader := catalog.NewFileLoader(catalogPath)

	h := app.NewHandler(
		app.Deps{
			Catalog:   &catalog.Server{Loader: loader, Limit: 50, Log: log},
			Purchases: &purchase.Server{Store: store, Log: log},
			Identity:  &identity.Server{Log: log, Accounts: accounts, JWT: jwt},
			Recs: &recs.Server{
				Loader:      loader,
				Syncer:      &recs.Syncer{Index: idx, Counts: store},
				Trender:     &recs.Trender{Index: idx, Static: recs.DefaultStaticTrending, Log: log},
				MaxTrending: 8,
				Log:         log,
			},
			JWT:   jwt,
			Store: store,
		},
		app.HTTPDeps{
			Log:     log,
			Service: "api",
			Env:     "test",
			// Registry: nil
		},
	)

	return httptest.NewServer(h)
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	return resp, raw
}

func loginAs(t *testing.T, c *http.Client, base, email string) map[string]string {
	t.Helper()

	creds := map[string]string{"email": email, "password": "e2e-password"}

	resp, _ := doJSON(t, c, http.MethodPost, base+"/api/auth/register", creds, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status=%d", resp.StatusCode)
	}

	resp, raw := doJSON(t, c, http.MethodPost, base+"/api/auth/login", creds, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal login: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("empty access token")
	}

	return map[string]string{"Authorization": "Bearer " + out.AccessToken}
}

func TestHealth(t *testing.T) {
	ts := newAPITS(t, &fakeIndex{})
	defer ts.Close()

	resp, raw := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/health", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status=%d", resp.StatusCode)
	}

	var body struct {
		Status      string `json:"status"`
		Timestamp   string `json:"timestamp"`
		Environment string `json:"environment"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || body.Environment != "test" || body.Timestamp == "" {
		t.Fatalf("unexpected health body: %s", raw)
	}
}

func TestProductsFiltered(t *testing.T) {
	ts := newAPITS(t, &fakeIndex{})
	defer ts.Close()

	resp, raw := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("products: status=%d", resp.StatusCode)
	}

	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// B has no image or grades, so only A, C and D survive the filter.
	if len(products) != 3 {
		t.Fatalf("want 3 displayable products, got %d: %s", len(products), raw)
	}
	if products[0].Code != "A" || products[1].Code != "C" || products[2].Code != "D" {
		t.Fatalf("order not preserved: %s", raw)
	}
}

func TestPurchaseRequiresAuth(t *testing.T) {
	ts := newAPITS(t, &fakeIndex{})
	defer ts.Close()

	resp, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/purchase",
		map[string]any{"product_code": "A"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/purchases", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

func TestPurchaseLifecycle(t *testing.T) {
	ts := newAPITS(t, &fakeIndex{})
	defer ts.Close()
	c := ts.Client()

	auth := loginAs(t, c, ts.URL, "buyer@x.com")

	for _, code := range []string{"A", "C"} {
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/purchase", map[string]any{
			"product_code": code,
			"product_name": "Product " + code,
			"price":        1.99,
			"image_url":    "https://img/" + code + ".jpg",
		}, auth)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("purchase %s: status=%d body=%s", code, resp.StatusCode, raw)
		}
	}

	resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/api/purchases", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status=%d", resp.StatusCode)
	}

	var purchases []purchase.Purchase
	if err := json.Unmarshal(raw, &purchases); err != nil {
		t.Fatalf("unmarshal purchases: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("want 2 purchases, got %d", len(purchases))
	}
	if purchases[0].ProductCode != "C" {
		t.Fatalf("want newest-first, got %s first", purchases[0].ProductCode)
	}

	resp, raw = doJSON(t, c, http.MethodDelete, ts.URL+"/api/purchase/A", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status=%d body=%s", resp.StatusCode, raw)
	}

	var del struct {
		Success bool              `json:"success"`
		Deleted purchase.Purchase `json:"deleted"`
	}
	if err := json.Unmarshal(raw, &del); err != nil {
		t.Fatalf("unmarshal delete: %v", err)
	}
	if !del.Success || del.Deleted.ProductCode != "A" {
		t.Fatalf("unexpected delete body: %s", raw)
	}

	resp, _ = doJSON(t, c, http.MethodDelete, ts.URL+"/api/purchase/A", nil, auth)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: want 404, got %d", resp.StatusCode)
	}
}

func TestSyncProducts(t *testing.T) {
	idx := &fakeIndex{}
	ts := newAPITS(t, idx)
	defer ts.Close()
	c := ts.Client()

	auth := loginAs(t, c, ts.URL, "admin@x.com")

	resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/sync-products", nil, auth)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync: status=%d body=%s", resp.StatusCode, raw)
	}

	var body struct {
		Synced int `json:"synced"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal sync: %v", err)
	}

	// A and C score >= 80; D does not.
	if body.Synced != 2 || len(idx.saved) != 2 {
		t.Fatalf("want 2 synced, got body=%d saved=%d", body.Synced, len(idx.saved))
	}
}

func TestTrendingStaticFallback(t *testing.T) {
	ts := newAPITS(t, &fakeIndex{}) // provider returns nothing at all
	defer ts.Close()

	resp, raw := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/recommend/trending", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trending: status=%d", resp.StatusCode)
	}

	var docs []recs.Doc
	if err := json.Unmarshal(raw, &docs); err != nil {
		t.Fatalf("unmarshal trending: %v", err)
	}
	if len(docs) != len(recs.DefaultStaticTrending) {
		t.Fatalf("want the full static list, got %d docs", len(docs))
	}
	if docs[0].ObjectID != recs.DefaultStaticTrending[0].ObjectID {
		t.Fatalf("static order not preserved: %s", raw)
	}
}

func TestTrendingMergesProviderResults(t *testing.T) {
	idx := &fakeIndex{
		recDocs:   []recs.Doc{{ObjectID: "r1", Name: "Rec"}},
		queryDocs: []recs.Doc{{ObjectID: "s1", Name: "Hit"}},
	}
	ts := newAPITS(t, idx)
	defer ts.Close()

	resp, raw := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/recommend/trending", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trending: status=%d", resp.StatusCode)
	}

	var docs []recs.Doc
	if err := json.Unmarshal(raw, &docs); err != nil {
		t.Fatalf("unmarshal trending: %v", err)
	}
	if len(docs) != 8 {
		t.Fatalf("want 8 docs, got %d", len(docs))
	}
	if docs[0].ObjectID != "r1" || docs[1].ObjectID != "s1" {
		t.Fatalf("provider results must lead: %s", raw)
	}
}
