// Package extract turns the text of a supplementary agreement into a
// procurement plan: buyers, agreement number, year, monthly quantities and
// the permitted deviation, together with a list of data-quality problems.
//
// Agreements follow a loose five-clause layout. The preamble before "1."
// names the parties, clause 1 states the plan year, clause 2 holds the plan
// tables and clause 4 the permitted deviation.
package extract

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"supplyplan/internal/domain"
)

// Markers are the clause boundaries used to segment an agreement.
type Markers struct {
	Preamble       string
	YearStart      string
	YearEnd        string
	TablesStart    string
	TablesEnd      string
	DeviationStart string
	DeviationEnd   string
}

// DefaultMarkers returns the numbered clause markers "1." to "5.".
func DefaultMarkers() Markers {
	return Markers{
		Preamble:       "1.",
		YearStart:      "1.",
		YearEnd:        "2.",
		TablesStart:    "2.",
		TablesEnd:      "3.",
		DeviationStart: "4.",
		DeviationEnd:   "5.",
	}
}

// Options configures a Parser.
type Options struct {
	LegalForms    []string
	ExcludedNames []string
	PlanMode      domain.PlanMode
	Markers       Markers
	// Now supplies the fallback year. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		LegalForms:    DefaultLegalForms,
		ExcludedNames: DefaultExcludedNames,
		PlanMode:      domain.PlanModeSummed,
		Markers:       DefaultMarkers(),
		Now:           time.Now,
	}
}

// Input is the text collaborator's output for one document.
type Input struct {
	SourceID string
	Text     string
	// Tables are raw tables; when empty, tables are recovered from the text
	// of the tables clause.
	Tables [][][]string
}

// Parser extracts procurement plans. It holds only immutable configuration
// and is safe for concurrent use.
type Parser struct {
	opts   Options
	buyers *BuyerExtractor
	plans  PlanBuilder
}

// NewParser validates opts and compiles the buyer patterns.
func NewParser(opts Options) (*Parser, error) {
	if opts.PlanMode == "" {
		opts.PlanMode = domain.PlanModeSummed
	}
	if !domain.ValidPlanModes[opts.PlanMode] {
		return nil, fmt.Errorf("extract: unknown plan mode %q", opts.PlanMode)
	}
	if opts.Markers == (Markers{}) {
		opts.Markers = DefaultMarkers()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	be, err := NewBuyerExtractor(opts.LegalForms, opts.ExcludedNames)
	if err != nil {
		return nil, err
	}
	return &Parser{opts: opts, buyers: be, plans: PlanBuilder{Mode: opts.PlanMode}}, nil
}

// PlanMode returns the configured plan mode.
func (p *Parser) PlanMode() domain.PlanMode {
	return p.opts.PlanMode
}

// Parse runs the extraction pipeline on one document. It never fails: soft
// problems are listed in ValidationErrors, and any unexpected failure yields
// a degraded record carrying a single critical error.
func (p *Parser) Parse(in Input) (doc *domain.ParsedDocument) {
	defer func() {
		if r := recover(); r != nil {
			doc = p.degraded(in.SourceID, fmt.Sprint(r))
		}
	}()
	if undecodable(in.Text) {
		return p.degraded(in.SourceID, "текст документа не декодируется")
	}
	return p.parse(in)
}

func (p *Parser) parse(in Input) *domain.ParsedDocument {
	m := p.opts.Markers
	doc := &domain.ParsedDocument{
		SourceID:         in.SourceID,
		Buyers:           []string{},
		Deviations:       []domain.Deviation{},
		MonthlyPlans:     []domain.PlanEntry{},
		ValidationErrors: []string{},
	}
	addErr := func(msgs ...string) {
		doc.ValidationErrors = append(doc.ValidationErrors, msgs...)
	}

	if num, ok := AgreementNumber(in.Text); ok {
		doc.AgreementNumber = domain.KnownAgreement(num)
	} else {
		doc.AgreementNumber = domain.UnknownAgreement()
		addErr(MsgNoAgreementNumber)
	}

	yearBlock, found := Clause(in.Text, m.YearStart, m.YearEnd)
	doc.Year, doc.YearDefaulted = DetectYear(yearBlock, found, p.opts.Now())

	// Without the clause 1 marker there is no preamble to take parties from.
	preamble, _ := Clause(in.Text, "", m.Preamble)
	if buyers := p.buyers.Extract(preamble); len(buyers) > 0 {
		doc.Buyers = buyers
	} else {
		doc.Buyers = []string{domain.SentinelUnknown}
		addErr(MsgNoBuyers)
	}

	tables := p.discoverTables(in)
	var named []string
	if doc.Buyers[0] != domain.SentinelUnknown {
		named = doc.Buyers
	}
	assignments, assignErrs := AssignTables(len(tables), named)

	devBlock, devFound := Clause(in.Text, m.DeviationStart, m.DeviationEnd)
	var devValues []string
	if devFound {
		devValues = ExtractDeviations(devBlock)
	}
	if len(devValues) > 0 {
		last := devValues[len(devValues)-1]
		doc.AllowedDeviation = &last
	}
	deviations, devErrs := DistributeDeviations(devValues, len(tables))
	doc.Deviations = deviations

	for _, a := range assignments {
		entries := p.plans.Build(tables[a.Table], doc.Year, a.Buyer, deviations[a.Table].Value)
		doc.MonthlyPlans = append(doc.MonthlyPlans, entries...)
	}

	switch {
	case len(tables) == 0:
		addErr(MsgNoTables)
	case len(doc.MonthlyPlans) == 0:
		addErr(MsgNoPlans(doc.Year))
	}
	if doc.YearDefaulted {
		addErr(MsgYearDefaulted)
	}
	addErr(devErrs...)
	addErr(assignErrs...)
	return doc
}

func (p *Parser) discoverTables(in Input) []Table {
	if len(in.Tables) > 0 {
		if tables := NormalizeTables(in.Tables); len(tables) > 0 {
			return tables
		}
	}
	block, ok := Clause(in.Text, p.opts.Markers.TablesStart, p.opts.Markers.TablesEnd)
	if !ok {
		return nil
	}
	return TablesFromText(block)
}

func (p *Parser) degraded(sourceID, cause string) *domain.ParsedDocument {
	return &domain.ParsedDocument{
		SourceID:         sourceID,
		AgreementNumber:  domain.ErrorAgreement(),
		Year:             p.opts.Now().Year(),
		YearDefaulted:    true,
		Buyers:           []string{domain.SentinelError},
		Deviations:       []domain.Deviation{},
		MonthlyPlans:     []domain.PlanEntry{},
		ValidationErrors: []string{MsgCriticalPrefix + cause},
	}
}

// undecodable reports text that is not valid UTF-8 or mostly control and
// replacement characters.
func undecodable(text string) bool {
	if !utf8.ValidString(text) {
		return true
	}
	var total, bad int
	for _, r := range text {
		total++
		if r == utf8.RuneError || (unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t') {
			bad++
		}
	}
	return total > 0 && bad*10 > total
}
