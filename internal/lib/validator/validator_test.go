package validator_test

import (
	"testing"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/validator"
	"portfolio/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Slug(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{name: "simple", slug: "paintings"},
		{name: "with dashes and digits", slug: "series-2024-a"},
		{name: "uppercase", slug: "Paintings", wantErr: true},
		{name: "leading dash", slug: "-paintings", wantErr: true},
		{name: "double dash", slug: "oil--canvas", wantErr: true},
		{name: "spaces", slug: "oil canvas", wantErr: true},
		{name: "empty", slug: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&dto.SectionInput{Slug: tt.slug, Name: "Живопись"})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidationError(err))
				assert.Contains(t, err.Error(), "slug")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_InfoKind(t *testing.T) {
	v := validator.New()

	err := v.Validate(&dto.InfoEntryInput{Kind: "award", Title: "Премия"})
	assert.NoError(t, err)

	err = v.Validate(&dto.InfoEntryInput{Kind: "prize", Title: "Премия"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be one of: award, fair, exhibition, contact, link")
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	v := validator.New()

	err := v.Validate(&dto.SectionInput{})
	require.Error(t, err)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"slug is required", "name is required"}, ve.Errors)
}

func TestValidate_ReorderRequest(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(&dto.ReorderRequest{IDs: []int64{3, 1, 2}}))
	assert.NoError(t, v.Validate(&dto.ReorderRequest{IDs: []int64{}}))

	err := v.Validate(&dto.ReorderRequest{IDs: []int64{1, 0}})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}
