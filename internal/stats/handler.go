package stats

import (
	"log/slog"
	"net/http"

	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/transport"
	"github.com/campusworks/complaint-management/pkg/logger"
)

type ServiceAPI interface {
	Dashboard(actor *auth.Identity) (*DashboardStats, error)
	ByAssignedDepartment(actor *auth.Identity) ([]*DepartmentCount, error)
	ByStatus(actor *auth.Identity) ([]*StatusCount, error)
	ByReportingDepartment(actor *auth.Identity) ([]*DepartmentCount, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(identity *auth.Identity) (interface{}, error) {
		return h.Service.Dashboard(identity)
	})
}

func (h *Handler) ByDepartment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(identity *auth.Identity) (interface{}, error) {
		return h.Service.ByAssignedDepartment(identity)
	})
}

func (h *Handler) ByStatus(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(identity *auth.Identity) (interface{}, error) {
		return h.Service.ByStatus(identity)
	})
}

func (h *Handler) ByFacultyDepartment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(identity *auth.Identity) (interface{}, error) {
		return h.Service.ByReportingDepartment(identity)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, fn func(*auth.Identity) (interface{}, error)) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := fn(identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
