package adapthttp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"accounts/internal/app"
	"accounts/internal/domain"
)

func (s *Server) handleGreetAdmin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Message: "Welcome, Admin!",
		Success: true,
		Data:    []string{"View All Users", "Manage Roles", "Access System Settings"},
	})
}

func (s *Server) handleGreetViewer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Message: "Welcome, Viewer!",
		Success: true,
		Data:    []string{"View Your Profile", "Browse Content"},
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Message: "Users retrieved successfully",
		Success: true,
		Data:    users,
	})
}

// callerID returns the authenticated user's ID from the request claims.
func callerID(r *http.Request) (uuid.UUID, error) {
	claims := claimsFrom(r)
	if claims == nil {
		return uuid.Nil, errors.New("no claims in request context")
	}
	return claims.UserID()
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
		return
	}

	user, err := s.users.Get(r.Context(), id)
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, envelope{
			Message: "User fetched successfully.",
			Success: true,
			Data:    user,
		})
	}
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
		return
	}

	var req struct {
		app.UpdateInput
		Password *string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Password != nil {
		writeMessage(w, http.StatusBadRequest, "Password update is not allowed here. Use changePass instead.")
		return
	}

	user, err := s.users.Update(r.Context(), id, req.UpdateInput)
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, app.ErrConflict):
		writeMessage(w, http.StatusConflict, "Username or email already exists.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, envelope{
			Message: "User updated successfully.",
			Success: true,
			Data:    user,
		})
	}
}

// handleDeleteUser deletes the authenticated caller's own record.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
		return
	}

	err = s.users.Delete(r.Context(), id)
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, envelope{Message: "User deleted successfully.", Success: true})
	}
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Both oldPassword and newPassword are required.")
		return
	}

	err = s.users.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, app.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "Both oldPassword and newPassword are required.")
	case errors.Is(err, app.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Old password is incorrect.")
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, envelope{Message: "Password updated successfully.", Success: true})
	}
}

// handleChangeRole reassigns the role of the user named by the path. Tokens
// issued before the change keep their old role until expiry; the new role
// applies at the next login.
func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID.")
		return
	}
	role, err := domain.ParseRole(r.PathValue("newRole"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "New role is required.")
		return
	}

	user, err := s.users.ChangeRole(r.Context(), id, role)
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, envelope{
			Message: fmt.Sprintf("User role updated to %s successfully.", user.Role),
			Success: true,
		})
	}
}
