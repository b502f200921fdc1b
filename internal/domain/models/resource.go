package models

import "fmt"

// Resource names a persisted entity collection.
type Resource string

const (
	ResourceSales     Resource = "sales"
	ResourceInventory Resource = "inventory"
	ResourceEmployees Resource = "employees"
	ResourceExpenses  Resource = "expenses"
)

// Resources lists every resource in display order.
var Resources = []Resource{ResourceSales, ResourceInventory, ResourceEmployees, ResourceExpenses}

// ParseResource validates a resource name coming from a URL.
func ParseResource(name string) (Resource, error) {
	for _, r := range Resources {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q: %w", name, ErrValidation)
}

// FieldKind selects how a generic form or table renders a field.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldDate   FieldKind = "date"
	FieldSelect FieldKind = "select"
)

// Field describes one column of a resource for generic forms and tables.
// Filters lists the query parameters that constrain this field.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	ReadOnly bool      `json:"readOnly,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Filters  []string  `json:"filters,omitempty"`
}

// Schema is the field descriptor list of one resource.
type Schema struct {
	Resource  Resource `json:"resource"`
	DateField string   `json:"dateField"`
	Fields    []Field  `json:"fields"`
}

var schemas = map[Resource]Schema{
	ResourceSales: {
		Resource:  ResourceSales,
		DateField: "date",
		Fields: []Field{
			{Name: "product", Label: "Product", Kind: FieldSelect, Required: true, Options: []string{ProductPetrol, ProductDiesel}, Filters: []string{"product"}},
			{Name: "quantity", Label: "Quantity (L)", Kind: FieldNumber, Required: true, Filters: []string{"quantityMin", "quantityMax"}},
			{Name: "price", Label: "Price", Kind: FieldNumber, Required: true, Filters: []string{"priceMin", "priceMax"}},
			{Name: "total", Label: "Total", Kind: FieldNumber, ReadOnly: true, Filters: []string{"totalMin", "totalMax"}},
			{Name: "date", Label: "Date", Kind: FieldDate, Required: true, Filters: []string{"dateFrom", "dateTo"}},
		},
	},
	ResourceInventory: {
		Resource:  ResourceInventory,
		DateField: "date",
		Fields: []Field{
			{Name: "name", Label: "Item", Kind: FieldText, Required: true, Filters: []string{"name"}},
			{Name: "currentStock", Label: "Current Stock", Kind: FieldNumber, Required: true, Filters: []string{"stockMin", "stockMax"}},
			{Name: "reorderLevel", Label: "Reorder Level", Kind: FieldNumber, Required: true, Filters: []string{"reorderMin", "reorderMax"}},
			{Name: "date", Label: "Date", Kind: FieldDate, Required: true, Filters: []string{"dateFrom", "dateTo"}},
		},
	},
	ResourceEmployees: {
		Resource:  ResourceEmployees,
		DateField: "dateAdded",
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: FieldText, Required: true, Filters: []string{"name"}},
			{Name: "position", Label: "Position", Kind: FieldText, Required: true, Filters: []string{"position"}},
			{Name: "salary", Label: "Salary", Kind: FieldNumber, Required: true, Filters: []string{"salaryMin", "salaryMax"}},
			{Name: "dateAdded", Label: "Date Added", Kind: FieldDate, ReadOnly: true, Filters: []string{"dateFrom", "dateTo"}},
		},
	},
	ResourceExpenses: {
		Resource:  ResourceExpenses,
		DateField: "date",
		Fields: []Field{
			{Name: "category", Label: "Category", Kind: FieldSelect, Required: true, Filters: []string{"category"}},
			{Name: "description", Label: "Description", Kind: FieldText, Filters: []string{"description"}},
			{Name: "amount", Label: "Amount", Kind: FieldNumber, Required: true, Filters: []string{"amountMin", "amountMax"}},
			{Name: "date", Label: "Date", Kind: FieldDate, Required: true, Filters: []string{"dateFrom", "dateTo"}},
		},
	},
}

// SchemaFor returns the field descriptors of r.
func SchemaFor(r Resource) (Schema, bool) {
	s, ok := schemas[r]
	if !ok {
		return Schema{}, false
	}
	fields := make([]Field, len(s.Fields))
	copy(fields, s.Fields)
	s.Fields = fields
	return s, true
}

// FieldForFilter returns the field constrained by the given filter parameter.
func (s Schema) FieldForFilter(param string) (Field, bool) {
	for _, f := range s.Fields {
		for _, p := range f.Filters {
			if p == param {
				return f, true
			}
		}
	}
	return Field{}, false
}
