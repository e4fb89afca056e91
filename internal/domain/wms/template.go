package wms

// OrderLineTemplate lists the order line fields requested from upstream.
type OrderLineTemplate struct {
	OrderLineID     any `json:"OrderLineId"`
	ItemID          any `json:"ItemId"`
	ItemDescription any `json:"ItemDescription"`
	ProductTypeID   any `json:"ProductTypeId"`
	PipelineStatus  any `json:"PipelineStatus"`
	OrderedQuantity any `json:"OrderedQuantity"`
}

// OrderTemplate is the field projection sent with every order search. All
// leaves serialize as null.
type OrderTemplate struct {
	OrderID            any               `json:"OrderId"`
	OrderProcessTypeID any               `json:"OrderProcessTypeId"`
	OrderType          any               `json:"OrderType"`
	OrderLine          OrderLineTemplate `json:"OrderLine"`
}

// SearchTemplate returns the fixed order search projection.
func SearchTemplate() OrderTemplate {
	return OrderTemplate{}
}

// OrderSearchPayload is the JSON body of an order search request.
type OrderSearchPayload struct {
	Query    string        `json:"Query"`
	Size     int           `json:"Size"`
	Template OrderTemplate `json:"Template"`
}

// NewOrderSearchPayload wraps query with the fixed size and template.
func NewOrderSearchPayload(query string) OrderSearchPayload {
	return OrderSearchPayload{
		Query:    query,
		Size:     SearchPageSize,
		Template: SearchTemplate(),
	}
}
