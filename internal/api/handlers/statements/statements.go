package statements

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/handlers"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/statementstore"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/statements"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

// Ingester runs one upload through the reconciliation pipeline.
type Ingester interface {
	Ingest(ctx context.Context, p *banks.Profile, u statements.Upload) (statements.Result, error)
}

// Lister pages through a bank's stored statements.
type Lister interface {
	List(ctx context.Context, p *banks.Profile, opts statementstore.ListOptions) (statementstore.Page, error)
}

// Handler serves the per-bank statement endpoints.
type Handler struct {
	Banks     *banks.Registry
	Ingester  Ingester
	Lister    Lister
	MaxUpload int64         // bytes
	Timeout   time.Duration // per upload
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) *banks.Profile {
	p := h.Banks.Get(r.PathValue("bank"))
	if p == nil {
		utils.WriteError(w, "unknown bank "+r.PathValue("bank"), http.StatusNotFound)
	}
	return p
}

// ListResponse is one page of a bank's stored statement rows.
type ListResponse struct {
	Status   string           `json:"status" example:"success"`
	Bank     string           `json:"bank" example:"HDFC"`
	Total    int              `json:"total"`
	Count    int              `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Data     []map[string]any `json:"data"`
}

// FUNC TO UPLOAD A BANK STATEMENT AND STORE ITS NEW TRANSACTIONS
//
//	@Summary		Upload a bank statement
//	@Description	Validates an .xls/.xlsx statement against the bank's layout and stores the rows that are not already recorded.
//	@Tags			statements
//	@Accept			mpfd
//	@Produce		json
//	@Param			bank	path		string	true	"Bank code"	Enums(hdfc, icici, sbi)
//	@Param			User-id	header		string	true	"Admin id recorded on every stored row"
//	@Param			file	formData	file	true	"Statement workbook"
//	@Success		201		{object}	map[string]string
//	@Success		200		{object}	map[string]string	"No new unique transactions to store"
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		413		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/statement/{bank} [post]
func (h *Handler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	p := h.profile(w, r)
	if p == nil {
		return
	}
	event := p.EventType()

	adminID := r.Header.Get("User-id")
	if adminID == "" {
		utils.LogEvent(r, event, logrus.WarnLevel, statements.ErrMissingAdmin.Error(), nil)
		utils.WriteError(w, statements.ErrMissingAdmin.Error(), http.StatusBadRequest)
		return
	}

	if h.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	}
	filename, data, err := handlers.ReadUpload(r, "file")
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		utils.LogEvent(r, event, logrus.WarnLevel, err.Error(), logrus.Fields{"admin_id": adminID})
		utils.WriteError(w, err.Error(), status)
		return
	}

	sum := blake2b.Sum256(data)
	fields := logrus.Fields{
		"admin_id":    adminID,
		"file_name":   filename,
		"file_size":   len(data),
		"file_digest": hex.EncodeToString(sum[:]),
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	res, err := h.Ingester.Ingest(ctx, p, statements.Upload{Filename: filename, Data: data, AdminID: adminID})
	if err != nil {
		if statements.IsValidation(err) {
			utils.LogEvent(r, event, logrus.WarnLevel, err.Error(), fields)
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		message := "Error processing file upload for bank " + err.Error()
		utils.LogEvent(r, event, logrus.ErrorLevel, message, fields)
		utils.WriteError(w, message, http.StatusInternalServerError)
		return
	}

	fields["parsed"] = res.Parsed
	fields["inserted"] = res.Inserted
	if res.NothingNew() {
		utils.LogEvent(r, event, logrus.InfoLevel, "No new unique transactions to store", fields)
		utils.WriteMessage(w, http.StatusOK, "No new unique transactions to store")
		return
	}

	utils.LogEvent(r, event, logrus.InfoLevel, p.Name+" File data successfully stored", fields)
	utils.WriteMessage(w, http.StatusCreated, p.Name+" file data successfully stored in the database")
}

// FUNC TO LIST STORED STATEMENTS OF A BANK
//
//	@Summary	List stored statement rows
//	@Tags		statements
//	@Produce	json
//	@Param		bank		path		string	true	"Bank code"	Enums(hdfc, icici, sbi)
//	@Param		page		query		int		false	"Page number"	default(1)
//	@Param		limit		query		int		false	"Rows per page"	default(10)
//	@Param		sortBy		query		string	false	"Column to sort by"
//	@Param		sortOrder	query		string	false	"asc or desc"	Enums(asc, desc)
//	@Success	200			{object}	ListResponse
//	@Failure	404			{object}	map[string]string
//	@Failure	500			{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/statement/{bank} [get]
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	p := h.profile(w, r)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	sortBy, sortOrder := utils.GetSortParams(r)

	result, err := h.Lister.List(ctx, p, statementstore.ListOptions{
		Page: page, Limit: limit, SortBy: sortBy, SortOrder: sortOrder,
	})
	if err != nil {
		utils.Logger.WithFields(logrus.Fields{"bank": p.Code, "error": err.Error()}).Error("error fetching statements")
		utils.WriteError(w, "error fetching statements", http.StatusInternalServerError)
		return
	}

	rows := make([]map[string]any, 0, len(result.Rows))
	for i := range result.Rows {
		rows = append(rows, handlers.StatementView(&result.Rows[i], p.Columns()))
	}

	response := ListResponse{
		Status:   "success",
		Bank:     p.Name,
		Total:    result.Total,
		Count:    len(rows),
		Page:     page,
		PageSize: limit,
		Data:     rows,
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

