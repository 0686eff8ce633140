package extract

import "fmt"

// Validation messages recorded on ParsedDocument.ValidationErrors.
const (
	MsgNoAgreementNumber = "Не удалось определить номер соглашения"
	MsgNoBuyers          = "Не найдены покупатели"
	MsgNoTables          = "Не найдены таблицы с планом поставок"
	MsgYearDefaulted     = "Год определен по умолчанию"
	MsgNoDeviation       = "Не найдено допустимое отклонение"
	MsgDeviationReview   = "Отклонение требует ручной проверки"
	MsgCriticalPrefix    = "Критическая ошибка парсинга: "
)

// MsgNoPlans reports that tables were found but yielded no entries for year.
func MsgNoPlans(year int) string {
	return fmt.Sprintf("Не найдены данные о планах поставок за %d год", year)
}

// MsgUnassignedTable reports a plan table with no matching buyer (1-based).
func MsgUnassignedTable(table int) string {
	return fmt.Sprintf("Таблица %d не сопоставлена покупателю", table)
}

// SyntheticBuyer is the label given to a table that has no buyer (1-based).
func SyntheticBuyer(table int) string {
	return fmt.Sprintf("Покупатель %d", table)
}

// BuyerJoiner glues buyers that share the last plan table.
const BuyerJoiner = " и "
