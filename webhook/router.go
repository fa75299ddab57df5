// Package webhook receives LightwaveRF bridge webhooks over HTTP and hands
// them to a Deliverer, normally the gateway.
package webhook

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shimmeringbee/logwrap"
	"net/http"
	"time"
)

const maximumBodySize = 64 * 1024

type Deliverer interface {
	DeliverWebhook(ctx context.Context, key string, raw any) bool
}

// Event is the subset of the bridge's webhook body that is used, the key is
// the id the webhook was registered with.
type Event struct {
	ID      string `json:"id"`
	Payload struct {
		Value json.Number `json:"value"`
	} `json:"payload"`
}

type Response struct {
	Applied bool `json:"applied"`
}

func NewRouter(d Deliverer, l logwrap.Logger) http.Handler {
	h := &handler{d: d, logger: l}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(20 * time.Second))

	r.Get("/healthz", h.health)
	r.Post("/webhook", h.receive)
	r.Post("/webhook/{key}", h.receive)

	return r
}

type handler struct {
	d      Deliverer
	logger logwrap.Logger
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// receive answers 200 for any well formed event, applied or not, so the
// bridge does not retry values that will never apply.
func (h *handler) receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var e Event

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maximumBodySize))
	dec.UseNumber()

	if err := dec.Decode(&e); err != nil {
		h.logger.LogWarn(ctx, "Malformed webhook body.", logwrap.Datum("requestId", middleware.GetReqID(ctx)), logwrap.Err(err))
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		key = e.ID
	}

	if key == "" || e.Payload.Value == "" {
		http.Error(w, "missing id or value", http.StatusBadRequest)
		return
	}

	applied := h.d.DeliverWebhook(ctx, key, e.Payload.Value)
	h.logger.LogDebug(ctx, "Webhook delivered.", logwrap.Datum("key", key), logwrap.Datum("applied", applied))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Applied: applied})
}
