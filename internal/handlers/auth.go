package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/services"
)

type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type registerRequest struct {
	Email    Text `json:"email" validate:"required"`
	Password Text `json:"senha" validate:"required"`
	Phone    Text `json:"telefone" validate:"required"`
	Name     Text `json:"nome" validate:"required"`
}

type changePasswordRequest struct {
	UserID          Text `json:"userId" validate:"required"`
	CurrentPassword Text `json:"senhaAtual" validate:"required"`
	NewPassword     Text `json:"novaSenha" validate:"required"`
}

type temporaryPasswordRequest struct {
	Email Text `json:"email" validate:"required"`
}

type loginRequest struct {
	Email    Text `json:"email" validate:"required"`
	Password Text `json:"senha" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// Register handles POST /api/addUser
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if resp := decode(c, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	id, err := h.auth.Register(c.Request().Context(), services.Registration{
		Email:    req.Email.String(),
		Password: req.Password.String(),
		Phone:    req.Phone.String(),
		Name:     req.Name.String(),
	})
	if err != nil {
		return failure(c, h.logger, err, messages{internal: "Erro ao salvar no Firestore."})
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Usuário cadastrado com sucesso!", ID: id})
}

// ChangePassword handles PUT /api/updatePassword
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if resp := decode(c, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	err := h.auth.ChangePassword(c.Request().Context(), req.UserID.String(), req.CurrentPassword.String(), req.NewPassword.String())
	if err != nil {
		return failure(c, h.logger, err, messages{
			notFound:     "Usuário não encontrado!",
			unauthorized: "Senha atual incorreta!",
			internal:     "Erro interno no servidor.",
		})
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Senha atualizada com sucesso!"})
}

// SendTemporaryPassword handles POST /api/sendTemporaryPassword
func (h *AuthHandler) SendTemporaryPassword(c echo.Context) error {
	var req temporaryPasswordRequest
	if resp := decode(c, &req); resp != nil {
		resp.Error = "Email é obrigatório!"
		return c.JSON(http.StatusBadRequest, resp)
	}

	if err := h.auth.IssueTemporaryPassword(c.Request().Context(), req.Email.String()); err != nil {
		return failure(c, h.logger, err, messages{
			notFound: "Usuário não encontrado!",
			internal: "Erro ao enviar senha temporária.",
		})
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Senha temporária enviada por e-mail!"})
}

// Login handles POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if resp := decode(c, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email.String(), req.Password.String())
	if err != nil {
		return failure(c, h.logger, err, messages{
			notFound:     "Usuário não encontrado",
			unauthorized: "Senha incorreta",
			internal:     "Erro no servidor",
		})
	}

	return c.JSON(http.StatusOK, loginResponse{Token: session.Token, ID: session.UserID})
}
