package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

type pairHistoryResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

type transactionResponse struct {
	ID          uuid.UUID    `json:"id"`
	Amount      int64        `json:"amount"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	User        userResponse `json:"user"`
	Type        ledger.Kind  `json:"type"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
	Image string    `json:"image,omitempty"`
}

// toResponse renders each record with its payer snapshot, which is the side
// the classification is anchored to.
func toResponse(h *ledger.History) pairHistoryResponse {
	resp := pairHistoryResponse{
		Transactions: make([]transactionResponse, len(h.Transactions)),
		Total:        h.Total,
	}

	for i, c := range h.Transactions {
		resp.Transactions[i] = transactionResponse{
			ID:          c.ID,
			Amount:      c.Amount,
			Description: c.Description,
			Date:        c.Date,
			User: userResponse{
				ID:    c.Payer.ID,
				Name:  c.Payer.Name,
				Email: c.Payer.Email,
				Phone: c.Payer.Phone,
				Image: c.Payer.Image,
			},
			Type: c.Kind,
		}
	}

	return resp
}
