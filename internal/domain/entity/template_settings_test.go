package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
)

func TestTemplateSettings_MergeOverDefaults(t *testing.T) {
	custom := entity.TemplateSettings{
		PrimaryColor: "#FF0000",
		FontFamily:   entity.FontCourier,
		Sections:     map[string]bool{entity.SectionNotes: false},
	}
	merged := custom.MergeOver(entity.DefaultTemplateSettings(entity.TemplateProfessional))

	assert.Equal(t, "#FF0000", merged.PrimaryColor)
	assert.Equal(t, "#475569", merged.SecondaryColor, "lo no personalizado viene del default")
	assert.Equal(t, entity.FontCourier, merged.FontFamily)
	assert.False(t, merged.Show(entity.SectionNotes))
	assert.True(t, merged.Show(entity.SectionTerms))
	require.NoError(t, merged.Validate())
}

func TestTemplateSettings_Validate(t *testing.T) {
	assert.NoError(t, entity.DefaultTemplateSettings(entity.TemplateDefault).Validate())

	bad := []entity.TemplateSettings{
		{FontFamily: "comic-sans"},
		{PrimaryColor: "red"},
		{CompanyEmail: "no-es-email"},
		{LogoURL: "not a url"},
		{Sections: map[string]bool{"footer": true}},
	}
	for _, s := range bad {
		assert.Error(t, s.Validate(), "%+v debe ser inválido", s)
	}
}

func TestTemplateSettings_ShowSeccionNoConfigurada(t *testing.T) {
	var s entity.TemplateSettings
	assert.True(t, s.Show(entity.SectionLogo))
}

func TestPaymentMethod_Validate(t *testing.T) {
	ok := []entity.PaymentMethod{
		{Type: entity.PaymentBank, Details: map[string]string{"account_name": "ACME", "account_number": "123"}},
		{Type: entity.PaymentPayPal, Details: map[string]string{"email": "pay@acme.com"}},
		{Type: entity.PaymentCrypto, Details: map[string]string{"network": "BTC", "wallet_address": "bc1q"}},
		{Type: entity.PaymentOther, Details: map[string]string{"instructions": "Cash on delivery"}},
	}
	for _, m := range ok {
		assert.NoError(t, m.Validate())
	}

	err := entity.PaymentMethod{Type: entity.PaymentBank, Details: map[string]string{"account_name": "ACME"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account_number")

	assert.Error(t, entity.PaymentMethod{Type: "cheque"}.Validate())
}

func TestProfile_PaymentMethodsByID(t *testing.T) {
	p := &entity.Profile{PaymentMethods: []entity.PaymentMethod{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	got := p.PaymentMethodsByID([]string{"c", "zzz", "a"})
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	var nilProfile *entity.Profile
	assert.Nil(t, nilProfile.PaymentMethodsByID([]string{"a"}))
}

func TestParseTemplateYFechas(t *testing.T) {
	tpl, err := entity.ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, entity.TemplateDefault, tpl)
	_, err = entity.ParseTemplate("fancy")
	assert.Error(t, err)

	d, err := entity.ParseFormDate("2026-04-01T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", entity.FormatFormDate(d))

	d, err = entity.ParseFormDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestParseFormDate_RechazaSufijos(t *testing.T) {
	for _, in := range []string{"2024-05-01garbage", "2024-05-01 10:00", "2024-05-01T", "01/05/2024"} {
		_, err := entity.ParseFormDate(in)
		assert.Error(t, err, in)
	}
	d, err := entity.ParseFormDate(" 2024-05-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", entity.FormatFormDate(d))
}
