// Package console renders batch progress and stored plans for the terminal.
package console

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"supplyplan/internal/domain"
	"supplyplan/internal/service"
)

// MonthHeaders are the short month names used in plan tables.
var MonthHeaders = []string{"Янв", "Фев", "Мар", "Апр", "Май", "Июн", "Июл", "Авг", "Сен", "Окт", "Ноя", "Дек", "Итого"}

const missing = "—"

// Printer writes styled output to w. Colors are dropped automatically when
// w is not a terminal.
type Printer struct {
	w      io.Writer
	title  lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		muted:  r.NewStyle().Faint(true),
		accent: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Title prints a heading.
func (p *Printer) Title(s string) {
	fmt.Fprintln(p.w, p.title.Render(s))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("=", 60)))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.fail.Render(fmt.Sprintf(format, args...)))
}

// Infof prints a plain line.
func (p *Printer) Infof(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// BatchItem prints one processed file.
func (p *Printer) BatchItem(it service.BatchItem) {
	style := p.ok
	switch it.Outcome() {
	case domain.OutcomeFailed:
		style = p.fail
	case domain.OutcomeSkipped, domain.OutcomeUnchanged:
		style = p.muted
	default:
		if it.Result != nil && it.Result.Document != nil && it.Result.Document.HasErrors() {
			style = p.warn
		}
	}
	fmt.Fprintf(p.w, "%s  %s\n", style.Render(it.Status()), it.SourceID)
}

// BatchSummary prints per-outcome totals of a finished batch.
func (p *Printer) BatchSummary(r *service.BatchReport) {
	counts := r.Counts()
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("-", 60)))
	fmt.Fprintf(p.w, "Файлов: %d\n", len(r.Items))
	for _, o := range []domain.ParseOutcome{
		domain.OutcomeAdded,
		domain.OutcomeUpdated,
		domain.OutcomeUnchanged,
		domain.OutcomeSkipped,
		domain.OutcomeFailed,
	} {
		if counts[o] > 0 {
			fmt.Fprintf(p.w, "  %s: %d\n", outcomeNames[o], counts[o])
		}
	}
}

var outcomeNames = map[domain.ParseOutcome]string{
	domain.OutcomeAdded:     "добавлено",
	domain.OutcomeUpdated:   "обновлено",
	domain.OutcomeUnchanged: "без изменений",
	domain.OutcomeSkipped:   "пропущено",
	domain.OutcomeFailed:    "с ошибкой",
}

// Documents prints every stored document of a year with its monthly plan.
func (p *Printer) Documents(year int, docs []domain.Document) error {
	withErrors := 0
	parsed := make([]*domain.ParsedDocument, len(docs))
	for i := range docs {
		d, err := docs[i].Parsed()
		if err != nil {
			return fmt.Errorf("console: decode %s: %w", docs[i].SourceID, err)
		}
		parsed[i] = d
		if d.HasErrors() {
			withErrors++
		}
	}

	p.Title(fmt.Sprintf("Предпросмотр данных за %d год", year))
	fmt.Fprintf(p.w, "Документов: %d\n", len(docs))
	fmt.Fprintf(p.w, "С ошибками: %d\n", withErrors)

	for i, d := range parsed {
		p.Document(i+1, len(parsed), d)
	}
	return nil
}

// Document prints one extraction result. n and total number the document
// within a listing; pass zero total for a standalone document.
func (p *Printer) Document(n, total int, d *domain.ParsedDocument) {
	name := filepath.Base(d.SourceID)
	if total > 0 {
		fmt.Fprintf(p.w, "\nФайл %d/%d: %s\n", n, total, p.accent.Render(name))
	} else {
		fmt.Fprintf(p.w, "\nФайл: %s\n", p.accent.Render(name))
	}
	fmt.Fprintf(p.w, "Соглашение: %s\n", orMissing(agreement(d.AgreementNumber)))
	fmt.Fprintf(p.w, "Год: %d\n", d.Year)
	fmt.Fprintf(p.w, "Покупатели: %s\n", strings.Join(d.Buyers, ", "))
	deviation := ""
	if d.AllowedDeviation != nil {
		deviation = *d.AllowedDeviation
	}
	fmt.Fprintf(p.w, "Допустимое отклонение: %s\n", orMissing(deviation))

	if d.HasErrors() {
		fmt.Fprintln(p.w, p.fail.Render("Ошибки:"))
		for _, e := range d.ValidationErrors {
			fmt.Fprintf(p.w, "  %s\n", p.warn.Render(e))
		}
	}

	if len(d.MonthlyPlans) == 0 {
		fmt.Fprintln(p.w, "План поставок: "+p.fail.Render("отсутствует"))
		return
	}
	for _, g := range GroupByBuyer(d.MonthlyPlans) {
		if g.Buyer != "" {
			fmt.Fprintf(p.w, "Покупатель: %s\n", p.accent.Render(g.Buyer))
		}
		fmt.Fprintln(p.w, MonthlyTable(g))
	}
}

// BuyerPlan is the monthly plan of one buyer. Months holds nil where no
// quantity is known.
type BuyerPlan struct {
	Buyer  string
	Months [12]*decimal.Decimal
}

// Total sums the known monthly quantities.
func (b BuyerPlan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, m := range b.Months {
		if m != nil {
			total = total.Add(*m)
		}
	}
	return total
}

// GroupByBuyer sums plan entries per buyer and month, keeping buyers in
// order of first appearance. Entries of all buyers use an empty Buyer.
func GroupByBuyer(plans []domain.PlanEntry) []BuyerPlan {
	var out []BuyerPlan
	index := make(map[string]int)
	for _, e := range plans {
		i, ok := index[e.Buyer]
		if !ok {
			i = len(out)
			index[e.Buyer] = i
			out = append(out, BuyerPlan{Buyer: e.Buyer})
		}
		if e.Month < 1 || e.Month > 12 || !e.Quantity.Valid {
			continue
		}
		cur := out[i].Months[e.Month-1]
		sum := e.Quantity.Decimal
		if cur != nil {
			sum = cur.Add(sum)
		}
		out[i].Months[e.Month-1] = &sum
	}
	return out
}

// MonthlyTable renders a buyer plan as a one-row table.
func MonthlyTable(b BuyerPlan) string {
	row := make([]string, 0, 13)
	for _, m := range b.Months {
		if m == nil {
			row = append(row, missing)
			continue
		}
		row = append(row, m.StringFixed(1))
	}
	row = append(row, b.Total().StringFixed(1))

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(MonthHeaders...).
		Row(row...).
		String()
}

func agreement(a domain.AgreementNumber) string {
	if a.IsKnown() {
		return a.Value
	}
	return ""
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
