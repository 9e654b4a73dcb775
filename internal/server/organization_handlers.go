package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantd/internal/auth"
	"github.com/wolfeidau/tenantd/internal/tenant"
)

type createOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
	AdminEmail       string `json:"admin_email"`
	Password         string `json:"password"`
}

type createOrganizationResponse struct {
	Message   string `json:"message"`
	OrgID     string `json:"org_id"`
	Partition string `json:"partition"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.OrganizationName == "" || req.AdminEmail == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "organization_name, admin_email and password are required"})
		return
	}

	result, err := s.manager.Create(r.Context(), req.OrganizationName, req.AdminEmail, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrganizationResponse{
		Message:   "organization created",
		OrgID:     result.OrgID.String(),
		Partition: result.PartitionName,
	})
}

type organizationResponse struct {
	OrgID      string    `json:"org_id"`
	Name       string    `json:"name"`
	Partition  string    `json:"partition"`
	AdminEmail string    `json:"admin_email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("organization_name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "organization_name is required"})
		return
	}

	org, err := s.manager.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, organizationResponse{
		OrgID:      org.OrgID.String(),
		Name:       org.Name,
		Partition:  org.PartitionName,
		AdminEmail: org.AdminEmail,
		CreatedAt:  org.CreatedAt,
		UpdatedAt:  org.UpdatedAt,
	})
}

type updateOrganizationRequest struct {
	NewOrganizationName *string `json:"new_organization_name,omitempty"`
	NewAdminEmail       *string `json:"new_admin_email,omitempty"`
	NewPassword         *string `json:"new_password,omitempty"`
}

type updateOrganizationResponse struct {
	Message string `json:"message"`
	NewName string `json:"new_name"`
}

func (s *Server) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	caller := auth.SubjectFromContext(r.Context())

	var req updateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	name, err := s.manager.Update(r.Context(), caller, tenant.UpdateRequest{
		NewName:     req.NewOrganizationName,
		NewEmail:    req.NewAdminEmail,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateOrganizationResponse{
		Message: "organization updated",
		NewName: name,
	})
}

func (s *Server) handleDeleteOrganization(w http.ResponseWriter, r *http.Request) {
	caller := auth.SubjectFromContext(r.Context())

	name := r.URL.Query().Get("organization_name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "organization_name is required"})
		return
	}

	if err := s.manager.Delete(r.Context(), caller, name); err != nil {
		writeError(w, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("name", name).Msg("Organization deleted")

	writeJSON(w, http.StatusOK, map[string]string{"message": "organization deleted"})
}
