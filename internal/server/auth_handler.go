package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/staffdesk/internal/schemas"
	"github.com/jonathan/staffdesk/internal/server/middleware"
	"github.com/jonathan/staffdesk/internal/types"
	"github.com/jonathan/staffdesk/internal/validation"
)

// handleLogin exchanges an employee email and password for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := schemas.ValidateLogin(body); err != nil {
		s.fail(w, err)
		return
	}

	var req types.LoginRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Validate(&req); err != nil {
		s.fail(w, err)
		return
	}

	employee, err := s.employees.Login(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}

	token, err := s.jwtService.GenerateToken(employee)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{Employee: employee, Token: token})
}

// handleMe returns the authenticated employee.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetEmployeeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	employee, err := s.employees.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, employee)
}

// handleUpdatePassword changes the authenticated employee's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetEmployeeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Validate(&req); err != nil {
		s.fail(w, err)
		return
	}

	if err := s.employees.UpdatePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
