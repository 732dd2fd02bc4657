package inventory

import (
	"testing"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomField(t *testing.T) {
	t.Run("select field keeps unique options in order", func(t *testing.T) {
		f, err := NewCustomField(CustomFieldSpec{
			Name:    "Condition",
			Type:    "Select",
			Active:  true,
			Options: []string{"New", " Used ", "New", ""},
		})
		require.NoError(t, err)
		assert.Equal(t, FieldTypeSelect, f.Type)
		require.Len(t, f.Options, 2)
		assert.Equal(t, "New", f.Options[0].Value)
		assert.Equal(t, 0, f.Options[0].SortOrder)
		assert.Equal(t, "Used", f.Options[1].Value)
		assert.Equal(t, 1, f.Options[1].SortOrder)
	})

	t.Run("select field requires options", func(t *testing.T) {
		_, err := NewCustomField(CustomFieldSpec{Name: "Condition", Type: "select"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("category specific field requires categories", func(t *testing.T) {
		_, err := NewCustomField(CustomFieldSpec{Name: "Mileage", Type: "number", CategorySpecific: true})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := NewCustomField(CustomFieldSpec{Name: "X", Type: "color"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCustomField_AppliesTo(t *testing.T) {
	cat := uuid.New()
	f, err := NewCustomField(CustomFieldSpec{
		Name: "Mileage", Type: "number", Active: true,
		CategorySpecific: true, CategoryIDs: []uuid.UUID{cat},
	})
	require.NoError(t, err)

	other := uuid.New()
	assert.True(t, f.AppliesTo(&cat))
	assert.False(t, f.AppliesTo(&other))
	assert.False(t, f.AppliesTo(nil))

	f.Active = false
	assert.False(t, f.AppliesTo(&cat))
}

func TestCustomField_ValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		spec    CustomFieldSpec
		raw     string
		want    string
		wantErr bool
	}{
		{"number ok", CustomFieldSpec{Name: "n", Type: "number"}, "12.5", "12.5", false},
		{"number bad", CustomFieldSpec{Name: "n", Type: "number"}, "twelve", "", true},
		{"date ok", CustomFieldSpec{Name: "d", Type: "date"}, "2024-02-29", "2024-02-29", false},
		{"date bad", CustomFieldSpec{Name: "d", Type: "date"}, "29/02/2024", "", true},
		{"checkbox on", CustomFieldSpec{Name: "c", Type: "checkbox"}, "on", "true", false},
		{"checkbox off", CustomFieldSpec{Name: "c", Type: "checkbox"}, "0", "false", false},
		{"checkbox bad", CustomFieldSpec{Name: "c", Type: "checkbox"}, "maybe", "", true},
		{"select ok", CustomFieldSpec{Name: "s", Type: "select", Options: []string{"A", "B"}}, "B", "B", false},
		{"select bad", CustomFieldSpec{Name: "s", Type: "select", Options: []string{"A"}}, "C", "", true},
		{"optional empty", CustomFieldSpec{Name: "t", Type: "text"}, "  ", "", false},
		{"required empty", CustomFieldSpec{Name: "t", Type: "text", Required: true}, "", "", true},
		{"text trimmed", CustomFieldSpec{Name: "t", Type: "textarea"}, " hi ", "hi", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewCustomField(tt.spec)
			require.NoError(t, err)
			got, err := f.ValidateValue(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
