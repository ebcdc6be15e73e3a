package ledger

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/utang/internal/auth"
	"github.com/MrJamesThe3rd/utang/internal/http/respond"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

type Handler struct {
	svc      *ledger.Service
	validate *validator.Validate
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Method(http.MethodGet, "/{id}", respond.HandlerFunc(h.pairHistory))
}

type pairHistoryRequest struct {
	ID                string `validate:"required,uuid"`
	DestinationUserID string `validate:"required,uuid"`
}

var invalidMessages = map[string]string{
	"ID":                "Invalid ID",
	"DestinationUserID": "Invalid destinationUser",
}

func (h *Handler) pairHistory(w http.ResponseWriter, r *http.Request) error {
	viewer, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}

	req := pairHistoryRequest{
		ID:                chi.URLParam(r, "id"),
		DestinationUserID: r.URL.Query().Get("destinationUserId"),
	}

	if err := h.validate.Struct(req); err != nil {
		respond.Message(w, http.StatusBadRequest, validationMessage(err))
		return nil
	}

	viewpointID, err := uuid.Parse(req.ID)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, invalidMessages["ID"])
		return nil
	}

	counterpartID, err := uuid.Parse(req.DestinationUserID)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, invalidMessages["DestinationUserID"])
		return nil
	}

	history, err := h.svc.PairHistory(r.Context(), viewer, viewpointID, counterpartID)
	if err != nil {
		return h.handleError(w, err)
	}

	respond.JSON(w, http.StatusOK, toResponse(history))

	return nil
}

// handleError answers every error kind the ledger reports on purpose and hands
// anything else back to the caller.
func (h *Handler) handleError(w http.ResponseWriter, err error) error {
	var storageErr *ledger.StorageError

	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		respond.Message(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ledger.ErrInvalidArgument):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrStorageUnavailable):
		slog.Warn("ledger storage unavailable", "error", err)
		respond.Message(w, http.StatusServiceUnavailable, "Storage Unavailable")
	case errors.As(err, &storageErr):
		slog.Error("ledger storage error", "op", storageErr.Op, "error", storageErr.Err)
		respond.Message(w, http.StatusInternalServerError, storageErr.Err.Error())
	default:
		return err
	}

	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := invalidMessages[verrs[0].Field()]; ok {
			return msg
		}
	}

	return "Bad Request"
}
