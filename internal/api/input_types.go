package api

import "github.com/terraincognita07/lunacycle/internal/models"

type periodPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Flow  string `json:"flow"`
}

type importPayload struct {
	Periods []models.PeriodInterval `json:"periods"`
}

type selectDatePayload struct {
	Date string `json:"date"`
}

type symptomPayload struct {
	Name string `json:"name"`
}

type notePayload struct {
	Text string `json:"text"`
}
