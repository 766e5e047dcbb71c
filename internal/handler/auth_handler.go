package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Stewz00/go-otp-service/internal/repository"
	"github.com/Stewz00/go-otp-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifiedUser struct {
	Email string `json:"email"`
}

type Response struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *VerifiedUser `json:"user,omitempty"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Invalid request body."})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide all required fields: name, email, and password."})
		return
	}

	_, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			sendJSON(w, http.StatusConflict, Response{Message: "This email is already registered. Please log in."})
		case errors.Is(err, service.ErrMissingFields):
			sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide all required fields: name, email, and password."})
		default:
			log.Printf("Error in registration process: %v", err)
			sendJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error. Please try again later."})
		}
		return
	}

	sendJSON(w, http.StatusCreated, Response{Success: true, Message: "User registered successfully! You can now log in."})
}

// Login handles a login attempt by issuing an OTP to the user's email
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Invalid request body."})
		return
	}

	if req.Email == "" {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide your email."})
		return
	}

	if err := h.authService.Login(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			sendJSON(w, http.StatusNotFound, Response{Message: "User not found. Please register first."})
		case errors.Is(err, service.ErrMissingFields):
			sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide your email."})
		default:
			// Delivery and storage failures both land here; the OTP record
			// may already be persisted, so the client is told to retry.
			log.Printf("Error in login process: %v", err)
			sendJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error. Please try again later."})
		}
		return
	}

	sendJSON(w, http.StatusOK, Response{Success: true, Message: "OTP sent to your email successfully."})
}

// VerifyOTP handles OTP verification for a pending login attempt
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Invalid request body."})
		return
	}

	if req.Email == "" || req.OTP == "" {
		sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide your email and OTP."})
		return
	}

	identity, err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOTPNotFound):
			sendJSON(w, http.StatusNotFound, Response{Message: "No OTP found for this email. Please request a new one."})
		case errors.Is(err, service.ErrOTPExpired):
			sendJSON(w, http.StatusBadRequest, Response{Message: "OTP has expired. Please request a new one."})
		case errors.Is(err, service.ErrInvalidOTP):
			sendJSON(w, http.StatusBadRequest, Response{Message: "Invalid OTP. Please try again."})
		case errors.Is(err, service.ErrMissingFields):
			sendJSON(w, http.StatusBadRequest, Response{Message: "Please provide your email and OTP."})
		default:
			log.Printf("Error verifying OTP: %v", err)
			sendJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error. Please try again later."})
		}
		return
	}

	sendJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OTP verified successfully!",
		User:    &VerifiedUser{Email: identity.Email},
	})
}

// Helper function to send JSON responses
func sendJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
