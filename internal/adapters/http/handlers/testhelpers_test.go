package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beevik/etree"
	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// entityItem builds an item wrapping a minimal EntityDescriptor carrying its
// entityID as an ItemID.
func entityItem(entityID string) *dom.Item {
	el := etree.NewElement("EntityDescriptor")
	el.Space = "md"
	el.CreateAttr("xmlns:md", "urn:oasis:names:tc:SAML:2.0:metadata")
	el.CreateAttr("entityID", entityID)
	item := dom.NewItem(el)
	item.Metadata().Add(pipeline.ItemID{ID: entityID})
	return item
}

// parseResponseXML parses the recorded body as an XML document and returns
// its root element.
func parseResponseXML(t *testing.T, rec *httptest.ResponseRecorder) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rec.Body.Bytes()); err != nil {
		t.Fatalf("failed to parse XML response: %v", err)
	}
	if doc.Root() == nil {
		t.Fatal("XML response has no root element")
	}
	return doc.Root()
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
