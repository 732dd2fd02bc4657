package inventory

import (
	"slices"
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldType is the value type of a custom field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
)

// IsValid checks if the field type is known
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber,
		FieldTypeDate, FieldTypeSelect, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// HasOptions reports whether values are restricted to an option list
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect
}

// CustomField is a value definition shared by all teams. Options are
// ordered by SortOrder.
type CustomField struct {
	shared.BaseAggregateRoot
	Name             string
	Description      string
	Type             FieldType
	Required         bool
	Active           bool
	CategorySpecific bool
	Options          []CustomFieldOption
	CategoryIDs      []uuid.UUID
}

// CustomFieldOption is one allowed value of a select field
type CustomFieldOption struct {
	ID            uuid.UUID
	CustomFieldID uuid.UUID
	Value         string
	SortOrder     int
}

// CustomFieldValue is the value of a field for one owner. At most one
// exists per (owner, field).
type CustomFieldValue struct {
	ID            uuid.UUID
	OwnerType     OwnerType
	OwnerID       uuid.UUID
	CustomFieldID uuid.UUID
	Value         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CustomFieldSpec holds the editable attributes of a custom field
type CustomFieldSpec struct {
	Name             string
	Description      string
	Type             string
	Required         bool
	Active           bool
	CategorySpecific bool
	Options          []string
	CategoryIDs      []uuid.UUID
}

// NewCustomField creates a new field definition
func NewCustomField(spec CustomFieldSpec) (*CustomField, error) {
	field := &CustomField{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := field.apply(spec); err != nil {
		return nil, err
	}
	return field, nil
}

// Update replaces the definition. Options are rebuilt in the given order.
func (f *CustomField) Update(spec CustomFieldSpec) error {
	if err := f.apply(spec); err != nil {
		return err
	}
	f.MarkChanged()
	return nil
}

func (f *CustomField) apply(spec CustomFieldSpec) error {
	name, err := validateName(spec.Name)
	if err != nil {
		return err
	}
	fieldType := FieldType(strings.ToLower(strings.TrimSpace(spec.Type)))
	if !fieldType.IsValid() {
		return shared.NewValidationError("INVALID_FIELD_TYPE", "Unknown custom field type")
	}
	if fieldType.HasOptions() && len(spec.Options) == 0 {
		return shared.NewValidationError("OPTIONS_REQUIRED", "Select fields need at least one option")
	}
	if spec.CategorySpecific && len(UniqueIDs(spec.CategoryIDs)) == 0 {
		return shared.NewValidationError("CATEGORIES_REQUIRED", "Category specific fields need at least one category")
	}

	f.Name = name
	f.Description = spec.Description
	f.Type = fieldType
	f.Required = spec.Required
	f.Active = spec.Active
	f.CategorySpecific = spec.CategorySpecific
	f.CategoryIDs = UniqueIDs(spec.CategoryIDs)
	if !f.CategorySpecific {
		f.CategoryIDs = nil
	}

	f.Options = f.Options[:0]
	seen := make(map[string]struct{}, len(spec.Options))
	for _, raw := range spec.Options {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		f.Options = append(f.Options, CustomFieldOption{
			ID:            shared.NewID(),
			CustomFieldID: f.ID,
			Value:         v,
			SortOrder:     len(f.Options),
		})
	}
	return nil
}

// AppliesTo reports whether the field is offered for an owner in the given category
func (f *CustomField) AppliesTo(categoryID *uuid.UUID) bool {
	if !f.Active {
		return false
	}
	if !f.CategorySpecific {
		return true
	}
	if categoryID == nil {
		return false
	}
	return slices.Contains(f.CategoryIDs, *categoryID)
}

// ValidateValue checks a submitted value against the field type
func (f *CustomField) ValidateValue(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		if f.Required {
			return "", shared.NewValidationError("CUSTOM_FIELD_REQUIRED", f.Name+" is required")
		}
		return "", nil
	}

	switch f.Type {
	case FieldTypeNumber:
		if _, err := decimal.NewFromString(v); err != nil {
			return "", shared.NewValidationError("INVALID_CUSTOM_FIELD_VALUE", f.Name+" must be a number")
		}
	case FieldTypeDate:
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return "", shared.NewValidationError("INVALID_CUSTOM_FIELD_VALUE", f.Name+" must be a date (YYYY-MM-DD)")
		}
	case FieldTypeCheckbox:
		switch strings.ToLower(v) {
		case "1", "true", "on", "yes":
			v = "true"
		case "0", "false", "off", "no":
			v = "false"
		default:
			return "", shared.NewValidationError("INVALID_CUSTOM_FIELD_VALUE", f.Name+" must be true or false")
		}
	case FieldTypeSelect:
		if !f.hasOption(v) {
			return "", shared.NewValidationError("INVALID_CUSTOM_FIELD_VALUE", f.Name+" must be one of its options")
		}
	}
	return v, nil
}

func (f *CustomField) hasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}
