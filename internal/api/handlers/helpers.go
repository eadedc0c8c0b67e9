package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

const multipartMemory = 32 << 20

var (
	ErrNoFilePart     = errors.New("No file part in the request")
	ErrNoFileSelected = errors.New("No file selected for uploading")
)

// ReadUpload returns the name and contents of the multipart file in field.
// A form field sent without a filename counts as no file selected.
func ReadUpload(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("Uploaded file exceeds %d bytes: %w", tooLarge.Limit, err)
		}
		return "", nil, ErrNoFilePart
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if _, ok := r.MultipartForm.Value[field]; ok {
			return "", nil, ErrNoFileSelected
		}
		return "", nil, ErrNoFilePart
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return header.Filename, data, nil
}

// StatementView flattens a stored statement into its column values for JSON
// output. Only the bank's mapped fields are included.
func StatementView(s *models.Statement, fields []models.Field) map[string]any {
	view := make(map[string]any, len(fields)+4)
	view["id"] = s.ID
	for _, f := range fields {
		view[string(f)] = s.Value(f)
	}
	view["upload_admin_id"] = s.UploadAdminID
	view["upload_time"] = s.UploadTime
	view["status"] = s.Status
	return view
}
