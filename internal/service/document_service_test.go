package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplyplan/internal/config"
	"supplyplan/internal/domain"
	"supplyplan/internal/port"
	"supplyplan/internal/service"
	"supplyplan/mocks"
)

const agreement2025 = `ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ № 15
ООО "Ромашка", именуемое в дальнейшем «Покупатель», и ООО «Холдинг Плюс», именуемое в дальнейшем «Поставщик», заключили соглашение:
1. Стороны согласовали план поставок на 2025 год.
2. Объемы поставок по месяцам:
Месяц  Количество
Январь 2025  100
Февраль 2025  150
3. Цена определяется спецификацией.
4. Допустимое отклонение составляет 5%.
5. Соглашение вступает в силу с момента подписания.
`

func setupDocumentService(t *testing.T) (service.DocumentService, *mocks.MockDocumentRepo, *mocks.MockTextExtractor) {
	t.Helper()
	parser, err := service.NewParser(&config.ExtractConfig{})
	require.NoError(t, err)
	docRepo := new(mocks.MockDocumentRepo)
	extractor := new(mocks.MockTextExtractor)
	svc := service.NewDocumentService(docRepo, extractor, parser, zap.NewNop())
	return svc, docRepo, extractor
}

func storedDocument(t *testing.T, sourceID string) *domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(&domain.ParsedDocument{
		SourceID:         sourceID,
		AgreementNumber:  domain.KnownAgreement("15"),
		Year:             2025,
		Buyers:           []string{"Ромашка"},
		ValidationErrors: []string{"Не найдено допустимое отклонение"},
	}, "hash")
	require.NoError(t, err)
	return doc
}

// --- ParseFile ---

func TestDocumentService_ParseFile_Added(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "2025/dop15.txt").Return(nil, domain.ErrDocumentNotFound)
	extractor.On("Extract", mock.Anything, "/data/2025/dop15.txt").
		Return(&port.ExtractedText{Text: agreement2025}, nil)
	docRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.SourceID == "2025/dop15.txt" && len(d.Plans) == 2 && d.ContentHash != ""
	})).Return(false, nil)

	result, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "/data/2025/dop15.txt", SourceID: "2025/dop15.txt"},
		service.ParseOptions{Year: 2025})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAdded, result.Outcome)
	assert.Equal(t, "добавлен", result.Status)
	assert.Equal(t, "15", result.Document.AgreementNumber.String())
	assert.Equal(t, []string{"Ромашка"}, result.Document.Buyers)
	docRepo.AssertExpectations(t)
	extractor.AssertExpectations(t)
}

func TestDocumentService_ParseFile_ExistingWithoutUpdate(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "dop15.txt").Return(storedDocument(t, "dop15.txt"), nil)

	result, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "dop15.txt"},
		service.ParseOptions{Year: 2025})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnchanged, result.Outcome)
	assert.Equal(t, "пропущен (уже в базе)", result.Status)
	assert.Equal(t, []string{"Не найдено допустимое отклонение"}, result.Document.ValidationErrors)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDocumentService_ParseFile_ExistingWithUpdate(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "dop15.txt").Return(storedDocument(t, "dop15.txt"), nil)
	extractor.On("Extract", mock.Anything, "dop15.txt").Return(&port.ExtractedText{Text: agreement2025}, nil)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(true, nil)

	result, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "dop15.txt"},
		service.ParseOptions{Year: 2025, Update: true})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, result.Outcome)
	assert.Equal(t, "обновлен", result.Status)
}

func TestDocumentService_ParseFile_OtherYearSkipped(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "dop15.txt").Return(nil, domain.ErrDocumentNotFound)
	extractor.On("Extract", mock.Anything, "dop15.txt").Return(&port.ExtractedText{Text: agreement2025}, nil)

	result, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "dop15.txt"},
		service.ParseOptions{Year: 2026})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkipped, result.Outcome)
	assert.Equal(t, "пропущен (другой год)", result.Status)
	docRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDocumentService_ParseFile_DefaultedYearTakesRequestedYear(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "note.txt").Return(nil, domain.ErrDocumentNotFound)
	extractor.On("Extract", mock.Anything, "note.txt").
		Return(&port.ExtractedText{Text: "Просто текст без какой-либо структуры."}, nil)
	docRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.Year == 2031 && d.YearDefaulted
	})).Return(false, nil)

	result, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "note.txt"},
		service.ParseOptions{Year: 2031})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAdded, result.Outcome)
	assert.Equal(t, 2031, result.Document.Year)
	assert.Equal(t, "добавлен, ошибок: 5", result.Status)
	docRepo.AssertExpectations(t)
}

func TestDocumentService_ParseFile_ExtractError(t *testing.T) {
	svc, docRepo, extractor := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "scan.doc").Return(nil, domain.ErrDocumentNotFound)
	extractor.On("Extract", mock.Anything, "scan.doc").Return(nil, domain.ErrUnsupportedFileType)

	_, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "scan.doc"},
		service.ParseOptions{Year: 2025})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentService_ParseFile_LookupError(t *testing.T) {
	svc, docRepo, _ := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "a.txt").Return(nil, errors.New("db down"))

	_, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "a.txt"},
		service.ParseOptions{Year: 2025})

	assert.ErrorContains(t, err, "db down")
}

func TestDocumentService_ParseFile_InvalidYear(t *testing.T) {
	svc, _, _ := setupDocumentService(t)

	_, err := svc.ParseFile(context.Background(),
		service.ParseFileInput{Path: "a.txt"},
		service.ParseOptions{Year: 1999})

	assert.ErrorIs(t, err, domain.ErrInvalidYear)
}

// --- ParseText ---

func TestDocumentService_ParseText_Empty(t *testing.T) {
	svc, _, _ := setupDocumentService(t)

	_, err := svc.ParseText(context.Background(),
		service.ParseTextInput{SourceID: "a"},
		service.ParseOptions{Year: 2025})

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestDocumentService_ParseText_WithTables(t *testing.T) {
	svc, docRepo, _ := setupDocumentService(t)

	docRepo.On("GetBySource", mock.Anything, "api-1").Return(nil, domain.ErrDocumentNotFound)
	docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(false, nil)

	result, err := svc.ParseText(context.Background(), service.ParseTextInput{
		SourceID: "api-1",
		Text:     agreement2025,
		Tables:   [][][]string{{{"Месяц", "Цемент"}, {"Март", "70"}}},
	}, service.ParseOptions{Year: 2025})

	require.NoError(t, err)
	require.Len(t, result.Document.MonthlyPlans, 1)
	assert.Equal(t, 3, result.Document.MonthlyPlans[0].Month)
	assert.Equal(t, "70", result.Document.MonthlyPlans[0].Quantity.Decimal.String())
}

func TestDocumentService_Preview(t *testing.T) {
	svc, docRepo, _ := setupDocumentService(t)

	doc := svc.Preview(service.ParseTextInput{SourceID: "p", Text: agreement2025})

	assert.Equal(t, 2025, doc.Year)
	assert.Len(t, doc.MonthlyPlans, 2)
	docRepo.AssertNotCalled(t, "GetBySource", mock.Anything, mock.Anything)
}

// --- List / Reset ---

func TestDocumentService_List(t *testing.T) {
	svc, docRepo, _ := setupDocumentService(t)

	docs := []domain.Document{*storedDocument(t, "a.txt")}
	docRepo.On("ListByYear", mock.Anything, 2025, 0, 20).Return(docs, 1, nil)

	got, total, err := svc.List(context.Background(), 2025, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, got, 1)
}

func TestDocumentService_Reset(t *testing.T) {
	svc, docRepo, _ := setupDocumentService(t)

	docRepo.On("DeleteAll", mock.Anything).Return(nil)

	require.NoError(t, svc.Reset(context.Background()))
	docRepo.AssertExpectations(t)
}
