package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/bank-ledger/internal/auth"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/Dan9191/bank-ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAccountRequest struct {
	AccountType    models.AccountType `json:"accountType"`
	CurrentBalance *decimal.Decimal   `json:"currentBalance"`
}

type transferRequest struct {
	Transmitter string          `json:"transmitter"`
	Receiver    string          `json:"receiver"`
	Amount      decimal.Decimal `json:"amount"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, "Register", err)
		return
	}

	user, token, err := h.svc.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Lastname: req.Lastname,
	})
	if err != nil {
		h.fail(w, "Register", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, "Login", err)
		return
	}

	user, token, err := h.svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "Login", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// ListUsers returns all active users with their accounts
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.fail(w, "Get Users", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetUser returns one active user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.fail(w, "Get User by id", service.ErrUserNotFound)
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, "Get User by id", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// DeleteUser deactivates a user
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.fail(w, "Delete User", service.ErrUserNotFound)
		return
	}

	user, err := h.svc.DeactivateUser(r.Context(), id)
	if err != nil {
		h.fail(w, "Delete User", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// ListAccounts returns the caller's active accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	accounts, err := h.svc.ListAccounts(r.Context(), caller)
	if err != nil {
		h.fail(w, "Get accounts", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, "Create Account", err)
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), callerID(r), service.CreateAccountInput{
		AccountType:    req.AccountType,
		CurrentBalance: req.CurrentBalance,
	})
	if err != nil {
		h.fail(w, "Create Account", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"account": account})
}

// DeleteAccount deactivates one of the caller's accounts
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.fail(w, "Delete Account", service.ErrAccountNotFound)
		return
	}

	account, err := h.svc.DeactivateAccount(r.Context(), callerID(r), id)
	if err != nil {
		h.fail(w, "Delete Account", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"account": account})
}

// CreateTransaction transfers money between two accounts of the same type
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, "Create Transaction", err)
		return
	}

	entry, err := h.svc.Transfer(r.Context(), callerID(r), service.TransferInput{
		Transmitter: req.Transmitter,
		Receiver:    req.Receiver,
		Amount:      req.Amount,
	})
	if err != nil {
		h.fail(w, "Create Transaction", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"transaction": entry})
}

// ListTransactions returns the transfers sent from one of the caller's accounts
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.fail(w, "Get Transactions by idAccount", service.ErrAccountNotFound)
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), callerID(r), id)
	if err != nil {
		h.fail(w, "Get Transactions by idAccount", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

// Health reports whether the store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Errorf("Health check failed: %v", err)
		utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Msg: "Invalid request body"}
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

// callerID is only used behind AuthMiddleware, which guarantees the claims
func callerID(r *http.Request) uuid.UUID {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return claims.ID
}

// fail maps err to its status code and writes the {"msg": ...} body
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, service.ErrDuplicateIdentity),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrNegativeBalance),
		errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrSameAccount),
		errors.Is(err, service.ErrAccountTypeMismatch),
		errors.Is(err, service.ErrInsufficientFunds):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrTokenRequired),
		errors.Is(err, auth.ErrTokenInvalid):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Errorf("%s failed: %v", op, err)
		utils.RespondError(w, http.StatusInternalServerError, op+" failed - Error 500")
	}
}
