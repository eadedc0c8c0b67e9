package statements

import (
	"strings"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/spreadsheet"
)

// ValidateLayout confirms the sheet belongs to the profile's bank by looking
// for every identity string in the letterhead rows. Distinct cell texts of the
// first IdentityRows rows are joined into one corpus and searched literally.
func ValidateLayout(sheet *spreadsheet.Sheet, p *banks.Profile) error {
	rows := p.IdentityRows
	if rows > sheet.Len() {
		rows = sheet.Len()
	}

	seen := make(map[string]bool)
	var texts []string
	for i := 0; i < rows; i++ {
		for _, cell := range sheet.Row(i) {
			if cell == "" || seen[cell] {
				continue
			}
			seen[cell] = true
			texts = append(texts, cell)
		}
	}
	corpus := strings.Join(texts, " ")

	var missing []string
	for _, want := range p.IdentityStrings {
		if !strings.Contains(corpus, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return &MissingIdentityError{Bank: p.Name, Missing: missing}
	}
	return nil
}

// ValidateColumns checks the located header row for the required columns.
func ValidateColumns(header []string, p *banks.Profile) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}

	var missing []string
	for _, col := range p.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Bank: p.Name, Missing: missing}
	}
	return nil
}
