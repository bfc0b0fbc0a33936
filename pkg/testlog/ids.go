package testlog

import "fmt"

// DefaultIDPrefix is the prefix of the identifiers assigned to records.
const DefaultIDPrefix = "API-T"

// FormatID returns the identifier of the record at index, counting from 1.
// The index is zero padded to two digits, wider indexes are printed as is.
func FormatID(prefix string, index int) string {
	return fmt.Sprintf("%s-%02d", prefix, index)
}

// AssignIDs assigns sequential identifiers to records, keeping their order.
func AssignIDs(records []*Record, prefix string) []*Row {
	rows := make([]*Row, 0, len(records))
	for i, record := range records {
		rows = append(rows, &Row{
			ID:     FormatID(prefix, i+1),
			Record: record,
		})
	}
	return rows
}
