// Package transport exposes the catalog over HTTP.
package transport

import (
	"net/http"
	"strconv"

	"listings-be/internal/catalog"
	"listings-be/internal/listing"
	"listings-be/internal/logger"
	"listings-be/internal/metrics"
	"listings-be/internal/present"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type listingsResponse struct {
	Category      listing.Category `json:"category"`
	Sort          string           `json:"sort"`
	FavoritesView bool             `json:"favorites_view"`
	Empty         bool             `json:"empty"`
	Message       string           `json:"message,omitempty"`
	Items         []present.Card   `json:"items"`
	Matched       int              `json:"matched"`
	Deferred      int              `json:"deferred"`
}

type favoritesResponse struct {
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
	Items   []present.Card `json:"items"`
}

type toggleResponse struct {
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

type Handler struct {
	svc       catalog.Service
	formatter *present.Formatter
}

func NewHandler(svc catalog.Service, formatter *present.Formatter) *Handler {
	return &Handler{svc: svc, formatter: formatter}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	h.handle(mux, "GET /api/listings", h.listListings)
	h.handle(mux, "GET /api/listings/{name}", h.getListing)
	h.handle(mux, "GET /api/categories/{category}/price-range", h.priceRange)
	h.handle(mux, "GET /api/favorites", h.listFavorites)
	h.handle(mux, "POST /api/favorites/{name}/toggle", h.toggleFavorite)
	h.handle(mux, "GET /health", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		fn(sw, r)
		metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(sw.status)).Inc()
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
	}
	writeError(w, err)
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	req, err := parseBrowseRequest(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.svc.Browse(r.Context(), IdentityFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := listingsResponse{
		Category:      page.State.Category,
		Sort:          string(page.State.Sort),
		FavoritesView: page.FavoritesView,
		Empty:         page.Empty(),
		Items:         h.formatter.Cards(page.Listings, page.IsFavorite),
		Matched:       page.Clean + page.Deferred,
		Deferred:      page.Deferred,
	}
	if resp.Empty {
		resp.Message = present.EmptyMessage(page.FavoritesView)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	l, fav, err := h.svc.GetListing(r.Context(), IdentityFrom(r.Context()), r.PathValue("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.formatter.Popup(l, fav))
}

func (h *Handler) priceRange(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("category")
	category, ok := listing.ParseCategory(raw)
	if !ok {
		category = listing.Category(raw)
	}

	slider, err := h.svc.PriceSlider(r.Context(), category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slider)
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.Favorites(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := favoritesResponse{
		Empty: len(favs) == 0,
		Items: h.formatter.Cards(favs, func(string) bool { return true }),
	}
	if resp.Empty {
		resp.Message = present.EmptyMessage(true)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	on, err := h.svc.ToggleFavorite(r.Context(), IdentityFrom(r.Context()), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Name: name, Favorite: on})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
