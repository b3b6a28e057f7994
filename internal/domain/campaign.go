package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CampaignStatus representa o ciclo de vida de uma campanha no contrato comum.
// Os seis valores fazem parte do contrato de wire consumido pelas outras camadas.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusPending   CampaignStatus = "pending"
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
	StatusError     CampaignStatus = "error"
)

// IsValid verifica se o status está dentro do enum de seis valores
func (s CampaignStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusPaused, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Gender representa um gênero de segmentação
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAll    Gender = "all"
)

// AgeRange delimita a faixa etária da audiência
type AgeRange struct {
	Min int `json:"min" validate:"gte=13,lte=100"`
	Max int `json:"max" validate:"gtefield=Min,lte=100"`
}

// TargetAudience descreve a segmentação comum traduzida por cada adaptador
// para o vocabulário da plataforma
type TargetAudience struct {
	Locations       []string `json:"locations" validate:"min=1"`
	AgeRange        AgeRange `json:"age_range"`
	Genders         []Gender `json:"genders" validate:"min=1,dive,oneof=male female all"`
	Interests       []string `json:"interests"`
	JobTitles       []string `json:"job_titles,omitempty"`
	EducationLevels []string `json:"education_levels,omitempty"`
	Languages       []string `json:"languages,omitempty"`
}

// AdContent é o conteúdo criativo comum de um anúncio
type AdContent struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	ImageURL     string `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL     string `json:"video_url,omitempty" validate:"omitempty,url"`
	CallToAction string `json:"call_to_action" validate:"required"`
	LandingURL   string `json:"landing_url" validate:"required,url"`
}

// AdCampaign é o objeto de valor imutável que o chamador constrói e os
// adaptadores transformam (somente leitura) no grafo de recursos da plataforma
type AdCampaign struct {
	Name        string         `json:"name" validate:"required,max=255"`
	StartDate   time.Time      `json:"start_date" validate:"required"`
	EndDate     time.Time      `json:"end_date" validate:"required,gtfield=StartDate"`
	TotalBudget float64        `json:"total_budget" validate:"required,gt=0"`
	DailyBudget *float64       `json:"daily_budget,omitempty" validate:"omitempty,gt=0"`
	Content     AdContent      `json:"content"`
	Audience    TargetAudience `json:"audience"`
	Platform    Platform       `json:"platform" validate:"required"`
	Status      CampaignStatus `json:"status"`
}

var validate = validator.New()

// Validate valida a campanha na fronteira do serviço, antes de qualquer
// chamada remota
func (c *AdCampaign) Validate() error {
	if c.Status != "" && !c.Status.IsValid() {
		return ErrInvalidStatus
	}
	return validate.Struct(c)
}
