package table

// Column names of the FuelCheck price history files.
const (
	FieldPriceUpdatedDate = "PriceUpdatedDate"
	FieldPrice            = "Price"
	FieldPostcode         = "Postcode"
	FieldSuburb           = "Suburb"
	FieldAddress          = "Address"
	FieldState            = "State"
)
