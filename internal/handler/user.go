package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/oakmill/taskman/internal/ctxkeys"
	"github.com/oakmill/taskman/internal/model"
	"github.com/oakmill/taskman/internal/service"
	"github.com/oakmill/taskman/internal/validation"
)

const maxAvatarUploadBytes = 2 << 20 // request body cap; the image itself is capped at 1MB

type UserHandler struct {
	authService   *service.AuthService
	userService   *service.UserService
	avatarService *service.AvatarService
}

func NewUserHandler(
	authService *service.AuthService,
	userService *service.UserService,
	avatarService *service.AvatarService,
) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		avatarService: avatarService,
	}
}

type credentialsResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeBody(r, &body)
	if err != nil {
		respondError(w, err)
		return
	}

	user, token, err := h.authService.Signup(body.Name, body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, credentialsResponse{User: user, Token: token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeBody(r, &body)
	if err != nil {
		respondError(w, err)
		return
	}

	user, token, err := h.authService.Login(body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, credentialsResponse{User: user, Token: token})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	token := ctxkeys.SessionToken(r.Context())

	err := h.authService.Logout(user.ID, token)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.LogoutAll(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var updates map[string]any
	err := decodeBody(r, &updates)
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.userService.UpdateProfile(user, updates)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user)
	if err != nil {
		respondError(w, err)
		return
	}

	// Response carries the snapshot of the account as it was deleted
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)
	err := r.ParseMultipartForm(maxAvatarUploadBytes)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "please upload an image under 1MB"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "avatar file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.AvatarConstraints)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = h.avatarService.Upload(user, file, header)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	reader, contentType, err := h.avatarService.Open(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	defer func() { _ = reader.Close() }()

	w.Header().Set("Content-Type", contentType)
	_, err = io.Copy(w, reader)
	if err != nil {
		slog.Error("failed to stream avatar", "error", err, "user_id", userID)
	}
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.avatarService.Delete(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}
