package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"travauth/formws"
	"travauth/ratelim"

	"github.com/julienschmidt/httprouter"
)

func newTestRouter() *httprouter.Router {
	router := httprouter.New()
	RoutesWrapper(router, ratelim.NewRateLimiter(), formws.NewHub())
	return router
}

// Travelers have no accounts, so approving a form must never demand a
// token. The canceled context keeps the handler from waiting on Mongo;
// any outcome except an auth rejection is fine here.
func TestApproveIsTravelerFacing(t *testing.T) {
	router := newTestRouter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/travel/form/abc/approve", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code == http.StatusUnauthorized || w.Code == http.StatusForbidden {
		t.Fatalf("anonymous traveler approval rejected with %d", w.Code)
	}
}

func TestEndorseRequiresStaffToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/travel/form/abc/endorse", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous endorse = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
