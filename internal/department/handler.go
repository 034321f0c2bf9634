package department

import (
	"net/http"

	"github.com/campusworks/complaint-management/internal/transport"
)

type DepartmentsResponse struct {
	FacultyDepartments     []string `json:"faculty_departments"`
	MaintenanceDepartments []string `json:"maintenance_departments"`
}

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

// GetDepartments returns both department enumerations so clients can
// populate selection lists without hardcoding them.
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{
		FacultyDepartments:     Faculty,
		MaintenanceDepartments: Maintenance,
	})
}
