// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Field kinds rendered by the prediction form.
const (
	FieldKindNumber = "number"
	FieldKindText   = "text"
	FieldKindSelect = "select"
)

// Alert variants, mapped to CSS classes.
const (
	VariantSuccess = "success"
	VariantInfo    = "info"
	VariantError   = "error"
)

// FormFieldViewModel holds one input of the prediction form, with the
// submitted value echoed back after a POST.
type FormFieldViewModel struct {
	Name        string
	Label       string
	Kind        string
	Value       string
	Min         string
	Max         string
	Step        string
	Placeholder string
	Options     []string // select only
}

// ResultViewModel is the outcome panel shown after a submit.
type ResultViewModel struct {
	Variant         string
	Message         string
	ProbabilityLine string // empty when the run produced no probability
}

// HistoryRowViewModel is one row of the recent predictions table.
type HistoryRowViewModel struct {
	ID          string
	CreatedAt   string
	Summary     string
	Outcome     string
	Variant     string
	Probability string
}

// PredictPageViewModel holds everything the prediction page renders.
type PredictPageViewModel struct {
	CSRFToken        string
	Fields           []FormFieldViewModel
	Errors           []string
	Result           *ResultViewModel
	History          []HistoryRowViewModel
	HelpHTML         string
	APIKeyConfigured bool
}

// SettingsPageViewModel holds the API key settings page state.
type SettingsPageViewModel struct {
	CSRFToken      string
	Configured     bool
	Source         string
	Masked         string
	StorageEnabled bool
	CanDelete      bool
	Flash          string
	FlashVariant   string
}
