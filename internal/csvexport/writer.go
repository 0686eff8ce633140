package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"supplyplan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (10 columns).
var columns = []string{
	"Файл",
	"№ согл.",
	"Год",
	"Месяц",
	"Покупатель",
	"Продукт",
	"Количество",
	"Отклонение",
	"Покупатели документа",
	"Ошибки",
}

// Writer wraps csv.Writer for exporting plan entries as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w. Fields are separated by
// semicolons, which spreadsheet programs expect in Russian locales.
func NewWriter(w io.Writer) *Writer {
	c := csv.NewWriter(w)
	c.Comma = ';'
	return &Writer{csv: c}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments writes one row per plan entry. A document without plans
// still gets a single row so its errors stay visible.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		for _, row := range documentToRows(&docs[i]) {
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func documentToRows(doc *domain.Document) [][]string {
	base := make([]string, len(columns))
	base[0] = doc.SourceID
	base[1] = agreementLabel(doc)
	base[2] = strconv.Itoa(doc.Year)
	base[8] = strings.Join(decodeList(doc.Buyers), ", ")
	base[9] = strings.Join(decodeList(doc.ValidationErrors), "; ")

	if len(doc.Plans) == 0 {
		return [][]string{base}
	}

	rows := make([][]string, 0, len(doc.Plans))
	for _, p := range doc.Plans {
		row := append([]string(nil), base...)
		row[3] = fmt.Sprintf("%02d", p.Month)
		row[4] = p.Buyer
		row[5] = p.Product
		row[6] = formatQuantity(p)
		row[7] = p.Deviation
		rows = append(rows, row)
	}
	return rows
}

func agreementLabel(doc *domain.Document) string {
	return domain.AgreementNumber{State: doc.AgreementState, Value: doc.AgreementNumber}.String()
}

func formatQuantity(p domain.PlanEntry) string {
	if !p.Quantity.Valid {
		return ""
	}
	return p.Quantity.Decimal.String()
}

func decodeList(raw json.RawMessage) []string {
	var out []string
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// nonAlphanumeric matches characters that are not letters, digits, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces everything except letters, digits, - and _ with _, collapses
// consecutive underscores, and truncates to 100 runes.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_prefix}_{year}_{YYYY-MM-DD}.csv
func BuildFilename(prefix string, year int, now time.Time) string {
	sanitized := SanitizeFilename(prefix)
	return fmt.Sprintf("%s_%d_%s.csv", sanitized, year, now.Format("2006-01-02"))
}
