package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reservo/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) { c.Status(http.StatusNoContent) }

func newRouter() *gin.Engine {
	hb := &handlers.HandlerBundle{
		HealthHandler:             okHandler,
		CheckAvailabilityHandler:  okHandler,
		CreatePaymentOrderHandler: okHandler,
		CommitReservationHandler:  okHandler,
		GetReservationHandler:     okHandler,
		ListReservationsHandler:   okHandler,
		CancelReservationHandler:  okHandler,
	}
	r := gin.New()
	RegisterRoutes(r, hb, []string{"https://app.example.com"})
	return r
}

func TestRegisterRoutes_PublicAndProtected(t *testing.T) {
	r := newRouter()
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusNoContent},
		{http.MethodPost, "/api/availability/check", http.StatusNoContent},
		{http.MethodPost, "/api/payments/orders", http.StatusUnauthorized},
		{http.MethodPost, "/api/reservations", http.StatusUnauthorized},
		{http.MethodGet, "/api/reservations", http.StatusUnauthorized},
		{http.MethodGet, "/api/reservations/res-1", http.StatusUnauthorized},
		{http.MethodPost, "/api/reservations/res-1/cancel", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}")))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterRoutes_CORS(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/availability/check", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/availability/check", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig_Wildcard(t *testing.T) {
	cfg := corsConfig([]string{"*"})
	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)
	assert.Empty(t, cfg.AllowOrigins)
}
