package extract

import "strings"

// Assignment links a plan table to the buyer its entries belong to.
// An empty Buyer means the table applies to every buyer of the document.
type Assignment struct {
	Table int
	Buyer string
}

// AssignTables pairs tables with buyers by position.
//
// A single table applies to all buyers. With more buyers than tables the
// surplus buyers share the last table under a joined label. Tables without a
// buyer get a synthetic "Покупатель N" label and a validation error each.
func AssignTables(tables int, buyers []string) ([]Assignment, []string) {
	if tables <= 0 {
		return nil, nil
	}
	if tables == 1 {
		return []Assignment{{Table: 0}}, nil
	}

	var errs []string
	out := make([]Assignment, tables)
	for i := range out {
		out[i].Table = i
		if i < len(buyers) {
			out[i].Buyer = buyers[i]
			continue
		}
		out[i].Buyer = SyntheticBuyer(i + 1)
		errs = append(errs, MsgUnassignedTable(i+1))
	}
	if len(buyers) > tables {
		out[tables-1].Buyer = strings.Join(buyers[tables-1:], BuyerJoiner)
	}
	return out, errs
}
