package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCampaign() *AdCampaign {
	return &AdCampaign{
		Name:        "Vaga Recepcionista",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		TotalBudget: 500,
		Content: AdContent{
			Title:        "Recepcionista Bilíngue",
			Description:  "Hotel na zona sul",
			CallToAction: "apply_now",
			LandingURL:   "https://vagas.example.com/recepcionista",
		},
		Audience: TargetAudience{
			Locations: []string{"BR"},
			AgeRange:  AgeRange{Min: 18, Max: 50},
			Genders:   []Gender{GenderAll},
		},
		Platform: PlatformMeta,
	}
}

func TestCampaignStatusIsValid(t *testing.T) {
	for _, status := range []CampaignStatus{StatusDraft, StatusPending, StatusActive, StatusPaused, StatusCompleted, StatusError} {
		assert.True(t, status.IsValid(), string(status))
	}

	assert.False(t, CampaignStatus("arquivada").IsValid())
	assert.False(t, CampaignStatus("").IsValid())
}

func TestAdCampaignValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AdCampaign)
		wantErr bool
	}{
		{"Campanha completa passa", func(c *AdCampaign) {}, false},
		{"Status dentro do enum passa", func(c *AdCampaign) { c.Status = StatusDraft }, false},
		{"Status fora do enum falha", func(c *AdCampaign) { c.Status = "arquivada" }, true},
		{"Nome vazio falha", func(c *AdCampaign) { c.Name = "" }, true},
		{"Fim antes do início falha", func(c *AdCampaign) { c.EndDate = c.StartDate.AddDate(0, 0, -1) }, true},
		{"Orçamento zerado falha", func(c *AdCampaign) { c.TotalBudget = 0 }, true},
		{"Orçamento diário negativo falha", func(c *AdCampaign) {
			negative := -10.0
			c.DailyBudget = &negative
		}, true},
		{"Landing URL inválida falha", func(c *AdCampaign) { c.Content.LandingURL = "sem-esquema" }, true},
		{"Sem localização falha", func(c *AdCampaign) { c.Audience.Locations = nil }, true},
		{"Idade mínima abaixo de 13 falha", func(c *AdCampaign) { c.Audience.AgeRange.Min = 12 }, true},
		{"Idade máxima menor que a mínima falha", func(c *AdCampaign) {
			c.Audience.AgeRange = AgeRange{Min: 40, Max: 25}
		}, true},
		{"Gênero fora do enum falha", func(c *AdCampaign) { c.Audience.Genders = []Gender{"outro"} }, true},
		{"Sem plataforma falha", func(c *AdCampaign) { c.Platform = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := validCampaign()
			tt.mutate(campaign)

			err := campaign.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStatusInvalidoRetornaErroSentinela(t *testing.T) {
	campaign := validCampaign()
	campaign.Status = "arquivada"

	assert.ErrorIs(t, campaign.Validate(), ErrInvalidStatus)
}

func TestParsePlatform(t *testing.T) {
	for _, platform := range AllPlatforms {
		parsed, err := ParsePlatform(string(platform))
		assert.NoError(t, err)
		assert.Equal(t, platform, parsed)
	}

	_, err := ParsePlatform("orkut")
	assert.Error(t, err)

	_, err = ParsePlatform("")
	assert.Error(t, err)
}
