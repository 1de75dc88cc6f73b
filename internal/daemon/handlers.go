package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
	"github.com/elsanchez/social-dashboard/internal/service"
	apperrors "github.com/elsanchez/social-dashboard/pkg/errors"
)

// Límites de los parámetros de consulta
const (
	maxBodyBytes = 1 << 20

	defaultTrendDays = 30
	maxTrendDays     = 365
	defaultTopLimit  = 10
	maxTopLimit      = 100
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// Pinger verifica una dependencia (la base de datos)
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers maneja las peticiones HTTP
type Handlers struct {
	accounts  *service.AccountService
	posts     *service.PostService
	analytics *service.AnalyticsService
	seeder    *service.Seeder
	store     Pinger
	errors    *apperrors.ErrorHandler
	logger    *zap.Logger
	version   string
}

// NewHandlers crea un nuevo conjunto de handlers
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handlers{
		accounts:  deps.Accounts,
		posts:     deps.Posts,
		analytics: deps.Analytics,
		seeder:    deps.Seeder,
		store:     deps.Store,
		errors:    apperrors.NewErrorHandler(logger, deps.Debug),
		logger:    logger,
		version:   deps.Version,
	}
}

// --- Servicio ---

// HandleRoot describe el servicio
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Social Media Dashboard API",
		"version": h.version,
	})
}

// HandleHealth verifica la conexión a la base de datos
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleSeed carga los datos de demo
func (h *Handlers) HandleSeed(w http.ResponseWriter, r *http.Request) {
	res, err := h.seeder.Seed(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Cuentas ---

func (h *Handlers) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAccountInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	acc, err := h.accounts.Create(r.Context(), in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *Handlers) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	accounts, err := h.accounts.List(r.Context(), skip, limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handlers) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	acc, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *Handlers) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.accounts.Deactivate(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deactivated successfully"})
}

func (h *Handlers) HandleAddSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in service.SnapshotInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	snap, err := h.accounts.AddSnapshot(r.Context(), id, in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	days, err := queryInt(r, "days", defaultTrendDays, 1, maxTrendDays)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	snaps, err := h.accounts.ListSnapshots(r.Context(), id, days)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// --- Posts ---

func (h *Handlers) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	filter := repository.PostFilter{
		Status: domain.PostStatus(r.URL.Query().Get("status")),
		Offset: skip,
		Limit:  limit,
	}

	if v := r.URL.Query().Get("account_id"); v != "" {
		accountID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidation("account_id must be an integer"))
			return
		}
		filter.AccountID = &accountID
	}

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) HandleListScheduled(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListScheduled(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in service.UpdatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (h *Handlers) HandlePublishPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	post, err := h.posts.Publish(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleUpdateEngagement lee las métricas de la query string; las ausentes valen 0
func (h *Handlers) HandleUpdateEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var m domain.Metrics
	for _, f := range []struct {
		name string
		dst  *int64
	}{
		{"likes", &m.Likes},
		{"comments", &m.Comments},
		{"shares", &m.Shares},
		{"views", &m.Views},
		{"clicks", &m.Clicks},
	} {
		v := r.URL.Query().Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidation(fmt.Sprintf("%s must be an integer", f.name)))
			return
		}
		*f.dst = n
	}

	eng, err := h.posts.UpdateEngagement(r.Context(), id, m)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eng)
}

func (h *Handlers) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in service.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	c, err := h.posts.AddComment(r.Context(), id, in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) HandleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	comments, err := h.posts.ListComments(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// --- Analytics ---

func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.DashboardStats(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) HandleTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultTrendDays, 1, maxTrendDays)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	trends, err := h.analytics.EngagementTrends(r.Context(), days)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (h *Handlers) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.PlatformStats(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) HandleTopPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultTopLimit, 1, maxTopLimit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	posts, err := h.analytics.TopPosts(r.Context(), limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) HandleDemographics(w http.ResponseWriter, r *http.Request) {
	var accountID *int64
	if v := r.URL.Query().Get("account_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidation("account_id must be an integer"))
			return
		}
		accountID = &id
	}

	demo, err := h.analytics.AudienceDemographics(r.Context(), accountID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, demo)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodifica el body; campos desconocidos son un error
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidation(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation("id must be a positive integer")
	}
	return id, nil
}

// queryInt lee un entero de la query con default y rango [min, max]
func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, apperrors.NewValidation(fmt.Sprintf("%s must be an integer between %d and %d", name, min, max))
	}
	return n, nil
}

func pagination(r *http.Request) (skip, limit int, err error) {
	skip, err = queryInt(r, "skip", 0, 0, int(^uint32(0)>>1))
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}
