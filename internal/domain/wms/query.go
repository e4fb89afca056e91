package wms

import (
	"strings"
	"unicode"
)

const (
	// Wildcard selects every work order.
	Wildcard = "*"
	// SearchPageSize is the fixed result size requested from upstream.
	SearchPageSize = 1000

	workOrderClause = "OrderProcessTypeId = 'Work Order'"
)

// WorkOrderInput is the tokenized form of the free-text work order field.
type WorkOrderInput struct {
	OrderIDs []string
	Wildcard bool
}

// ParseWorkOrderInput splits raw on runs of whitespace, ':' and ';'.
// Empty tokens are dropped. A '*' token switches on wildcard mode; every
// other token is kept verbatim as an order id.
func ParseWorkOrderInput(raw string) WorkOrderInput {
	in := WorkOrderInput{OrderIDs: []string{}}
	tokens := strings.FieldsFunc(raw, isSeparator)
	for _, t := range tokens {
		if strings.ToUpper(t) == Wildcard {
			in.Wildcard = true
			continue
		}
		in.OrderIDs = append(in.OrderIDs, t)
	}
	return in
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ':' || r == ';'
}

// IsEmpty reports whether the input selects nothing.
func (in WorkOrderInput) IsEmpty() bool {
	return !in.Wildcard && len(in.OrderIDs) == 0
}

// Query renders the upstream query DSL for the input.
//
// Order ids are placed between single quotes as given; the upstream DSL
// receives them unescaped.
func (in WorkOrderInput) Query() (string, error) {
	if in.Wildcard {
		return workOrderClause, nil
	}
	if len(in.OrderIDs) == 0 {
		return "", ErrNoWorkOrderIDs
	}
	var b strings.Builder
	b.WriteString(workOrderClause)
	b.WriteString(" AND OrderId IN [ '")
	b.WriteString(strings.Join(in.OrderIDs, "', '"))
	b.WriteString("' ]")
	return b.String(), nil
}
