package complaint

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/transport"
	"github.com/campusworks/complaint-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateComplaint(dto CreateComplaintDTO, actor *auth.Identity) (*CreatedComplaintResponse, error)
	ListComplaints(actor *auth.Identity, status, reportedByDept string) ([]*Complaint, error)
	GetComplaint(id int64, actor *auth.Identity) (*Detail, error)
	UpdateComplaint(id int64, dto UpdateComplaintDTO, actor *auth.Identity) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Photos  *PhotoStore
}

func NewHandler(service ServiceAPI, photos *PhotoStore) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Photos:      photos,
	}
}

func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status := r.URL.Query().Get("status")
	dept := r.URL.Query().Get("department")

	complaints, err := h.Service.ListComplaints(identity, status, dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, complaints)
}

func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid complaint ID")
		return
	}

	detail, err := h.Service.GetComplaint(id, identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// CreateComplaint accepts either a JSON body or a multipart form with an
// optional photo. The photo is validated and written before the row
// insert; if the insert fails the file is removed again, so a rejected
// upload never leaves a partial complaint behind.
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateComplaintDTO

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxPhotoSize); err != nil {
			h.WriteError(w, http.StatusBadRequest, "File size too large. Maximum 5MB allowed.")
			return
		}

		dto = CreateComplaintDTO{
			Description: r.FormValue("description"),
			AssignedTo:  r.FormValue("assigned_to"),
			Block:       optionalFormValue(r, "block"),
			Floor:       optionalFormValue(r, "floor"),
			Room:        optionalFormValue(r, "room"),
		}

		file, header, err := r.FormFile("photo")
		if err == nil {
			defer file.Close()
			photoPath, saveErr := h.Photos.Save(file, header.Size)
			if saveErr != nil {
				h.HandleServiceError(w, saveErr)
				return
			}
			dto.PhotoPath = &photoPath
		} else if err != http.ErrMissingFile {
			h.WriteError(w, http.StatusBadRequest, "invalid photo upload")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	created, err := h.Service.CreateComplaint(dto, identity)
	if err != nil {
		if dto.PhotoPath != nil {
			if rmErr := h.Photos.Remove(*dto.PhotoPath); rmErr != nil {
				h.Logger.Error("failed to remove orphaned photo", "error", rmErr, "path", *dto.PhotoPath)
			}
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid complaint ID")
		return
	}

	var dto UpdateComplaintDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateComplaint(id, dto, identity); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Complaint updated successfully"})
}

func optionalFormValue(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}
