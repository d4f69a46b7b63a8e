package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"medistock/m/domain"
	"medistock/m/internal/billing"
	"medistock/m/internal/catalog"
	"medistock/m/internal/credentials"
	"medistock/m/internal/expiry"
	"medistock/m/internal/inventory"
)

type ctxKey string

const (
	ctxUsername ctxKey = "username"
	ctxRole     ctxKey = "role"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	creds    *credentials.Store
	store    *catalog.Store
	inv      *inventory.Service
	bill     *billing.Workflow
	secret   string
	validate *validator.Validate
	log      logrus.FieldLogger
}

// New constructs a Handler.
func New(creds *credentials.Store, store *catalog.Store, inv *inventory.Service, bill *billing.Workflow, secret string, log logrus.FieldLogger) *Handler {
	return &Handler{
		creds:    creds,
		store:    store,
		inv:      inv,
		bill:     bill,
		secret:   secret,
		validate: validator.New(),
		log:      log,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/register", h.register)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.addMedicine)
			r.Get("/purposes", h.listPurposes)
			r.Get("/search", h.searchByPurpose)
			r.Get("/{id}", h.getMedicine)
			r.Delete("/{id}", h.deleteMedicine)
			r.Patch("/{id}", h.updateMedicineField)
		})

		pr.Get("/expiry/check", h.checkExpiry)

		pr.Route("/bill", func(r chi.Router) {
			r.Get("/", h.billSummary)
			r.Post("/lines", h.addBillLine)
			r.Post("/commit", h.commitBill)
			r.Post("/reset", h.resetBill)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(username, role string) (string, error) {
	claims := authClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// roleFor derives the login role from the username. Nothing is gated on it
// yet; it only rides along in the token and the login response.
func roleFor(username string) string {
	if strings.EqualFold(username, "admin") {
		return "admin"
	}
	return "customer"
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	cred, err := h.creds.Lookup(req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	role := roleFor(cred.Username)
	token, err := h.generateToken(cred.Username, role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": cred.Username,
		"role":     role,
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if err := h.creds.Insert(req.Username, string(hashed)); err != nil {
		respondError(w, http.StatusConflict, "username already exists")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"username": req.Username, "role": roleFor(req.Username)})
}

// Medicine handlers

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	meds, err := h.store.ListAll()
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if meds == nil {
		meds = []domain.Medicine{}
	}
	respondJSON(w, http.StatusOK, meds)
}

type addMedicineRequest struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type"`
	QtyLeft string `json:"qty_left" validate:"required"`
	Cost    string `json:"cost" validate:"required"`
	Purpose string `json:"purpose"`
	ExpDate string `json:"exp_date"`
	Rack    string `json:"rack"`
	Mfg     string `json:"mfg"`
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req addMedicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name, qty_left and cost are required")
		return
	}
	med, err := h.inv.AddProduct(inventory.ProductInput{
		Name:    req.Name,
		Type:    req.Type,
		QtyLeft: req.QtyLeft,
		Cost:    req.Cost,
		Purpose: req.Purpose,
		ExpDate: req.ExpDate,
		Rack:    req.Rack,
		Mfg:     req.Mfg,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, med)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	med, err := h.store.FindByID(id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type updateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

func (h *Handler) updateMedicineField(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var req updateFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "field is required")
		return
	}
	if err := h.store.UpdateField(req.Field, req.Value, id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) searchByPurpose(w http.ResponseWriter, r *http.Request) {
	purpose := r.URL.Query().Get("purpose")
	if purpose == "" {
		respondError(w, http.StatusBadRequest, "purpose is required")
		return
	}
	meds, err := h.store.FindByPurpose(purpose)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if meds == nil {
		meds = []domain.Medicine{}
	}
	respondJSON(w, http.StatusOK, meds)
}

func (h *Handler) listPurposes(w http.ResponseWriter, r *http.Request) {
	purposes, err := h.store.Purposes()
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if purposes == nil {
		purposes = []string{}
	}
	respondJSON(w, http.StatusOK, purposes)
}

// Expiry handler

func (h *Handler) checkExpiry(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	med, err := h.store.FindByName(name)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	status, err := expiry.Check(med.ExpDate, time.Now())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"name":     med.Name,
		"exp_date": med.ExpDate,
		"status":   status.String(),
	})
}

// Billing handlers

type billLineRequest struct {
	MedicineID int64 `json:"medicine_id" validate:"required"`
	Quantity   int64 `json:"quantity"`
}

func (h *Handler) addBillLine(w http.ResponseWriter, r *http.Request) {
	var req billLineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "medicine_id is required")
		return
	}
	if err := h.bill.AddLine(req.MedicineID, req.Quantity); err != nil {
		h.respondDomainError(w, err)
		return
	}
	summary, err := h.bill.RenderSummary()
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"lines":   h.bill.Lines(),
		"summary": summary,
	})
}

func (h *Handler) billSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.bill.RenderSummary()
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	lines := h.bill.Lines()
	if lines == nil {
		lines = []domain.BillLine{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"lines":   lines,
		"summary": summary,
	})
}

func (h *Handler) commitBill(w http.ResponseWriter, r *http.Request) {
	if h.bill.Empty() {
		respondError(w, http.StatusBadRequest, "bill has no lines")
		return
	}
	path, err := h.bill.Commit()
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "saved", "file": path})
}

func (h *Handler) resetBill(w http.ResponseWriter, r *http.Request) {
	h.bill.Reset()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Helpers

// respondDomainError maps the error taxonomy onto HTTP statuses. Date format
// failures show the generic counter message while the parse detail goes to
// the log.
func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDateFormat):
		h.log.WithError(err).Warn("expiry date unparsable")
		respondError(w, http.StatusBadRequest, "date format error")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidField):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStorage):
		h.log.WithError(err).Error("storage failure")
		respondError(w, http.StatusInternalServerError, "storage unavailable")
	default:
		h.log.WithError(err).Error("unexpected failure")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
