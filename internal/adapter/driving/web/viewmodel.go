package web

import (
	"fmt"

	vm "github.com/ericfisherdev/adview/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/adview/internal/application"
	"github.com/ericfisherdev/adview/internal/domain/model"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// toFormFields builds the form inputs in display order, echoing values.
// Missing values fall back to the form defaults.
func toFormFields(values map[string]string) []vm.FormFieldViewModel {
	fields := make([]vm.FormFieldViewModel, 0, len(inputForm))
	for _, f := range inputForm {
		value, ok := values[f.name]
		if !ok {
			value = f.defaultValue
		}

		field := vm.FormFieldViewModel{
			Name:        f.name,
			Label:       f.label,
			Kind:        f.kind,
			Value:       value,
			Min:         f.min,
			Max:         f.max,
			Step:        f.step,
			Placeholder: f.placeholder,
		}
		if f.kind == vm.FieldKindSelect {
			for _, g := range model.Genders() {
				field.Options = append(field.Options, string(g))
			}
		}
		fields = append(fields, field)
	}
	return fields
}

// toResultViewModel converts a finished pipeline run into the outcome panel.
func toResultViewModel(pred model.Prediction) *vm.ResultViewModel {
	if !pred.Succeeded() {
		return &vm.ResultViewModel{
			Variant: vm.VariantError,
			Message: pred.ErrorMessage,
		}
	}

	return &vm.ResultViewModel{
		Variant:         outcomeVariant(pred.Outcome),
		Message:         pred.Outcome.Message(),
		ProbabilityLine: fmt.Sprintf("Probability of viewing: %s", pred.ProbabilityText()),
	}
}

func outcomeVariant(o model.Outcome) string {
	switch o {
	case model.OutcomeLikely:
		return vm.VariantSuccess
	case model.OutcomeUnlikely:
		return vm.VariantInfo
	default:
		return vm.VariantError
	}
}

// toHistoryRows converts recorded runs for the history table.
func toHistoryRows(preds []model.Prediction) []vm.HistoryRowViewModel {
	rows := make([]vm.HistoryRowViewModel, 0, len(preds))
	for _, p := range preds {
		probability := p.ProbabilityText()
		if probability == "" {
			probability = "-"
		}
		rows = append(rows, vm.HistoryRowViewModel{
			ID:          p.ID,
			CreatedAt:   p.CreatedAt.Local().Format(historyTimeLayout),
			Summary:     summarizeInput(p.Input),
			Outcome:     string(p.Outcome),
			Variant:     outcomeVariant(p.Outcome),
			Probability: probability,
		})
	}
	return rows
}

func summarizeInput(in model.InputRecord) string {
	summary := fmt.Sprintf("%s, %d", in.Gender, in.Age)
	if in.City != "" || in.Country != "" {
		summary += fmt.Sprintf(", %s %s", in.City, in.Country)
	}
	if in.AdTopicLine != "" {
		summary += fmt.Sprintf(": %q", in.AdTopicLine)
	}
	return summary
}

// toSettingsViewModel converts the credential status for the settings page.
func toSettingsViewModel(status application.CredentialStatus, csrf string) vm.SettingsPageViewModel {
	source := "not configured"
	switch status.Source {
	case application.KeySourceEnvironment:
		source = "environment (ADVIEW_API_KEY)"
	case application.KeySourceStored:
		source = "saved in database"
	}

	return vm.SettingsPageViewModel{
		CSRFToken:      csrf,
		Configured:     status.Configured,
		Source:         source,
		Masked:         status.Masked,
		StorageEnabled: status.StorageEnabled,
		CanDelete:      status.Source == application.KeySourceStored,
	}
}
