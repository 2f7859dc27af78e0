package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/adview/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/adview/internal/domain/model"
)

// formInput describes one control of the prediction form. Names match the
// JSON field names of model.InputRecord.
type formInput struct {
	name         string
	label        string
	kind         string
	min          string
	max          string
	step         string
	placeholder  string
	defaultValue string
}

var inputForm = []formInput{
	{name: "daily_time", label: "Enter Your Daily Time (minutes)", kind: vm.FieldKindNumber, min: "0", step: "any", defaultValue: "0.00"},
	{name: "age", label: "Enter Your Age", kind: vm.FieldKindNumber, min: "0", max: "120", step: "1", defaultValue: "0"},
	{name: "area_income", label: "Enter Your Area Income", kind: vm.FieldKindNumber, min: "0", step: "any", defaultValue: "0.00"},
	{name: "daily_internet_use", label: "Enter Your Daily Internet Use (minutes)", kind: vm.FieldKindNumber, min: "0", step: "any", defaultValue: "0.00"},
	{name: "ad_topic_line", label: "Enter Advertisement Topic Line", kind: vm.FieldKindText},
	{name: "city", label: "Enter City", kind: vm.FieldKindText},
	{name: "gender", label: "Enter Gender", kind: vm.FieldKindSelect, defaultValue: string(model.GenderMale)},
	{name: "country", label: "Enter Country Name", kind: vm.FieldKindText},
	{name: "timestamp", label: "Enter Timestamp (YYYY-MM-DD HH:MM:SS)", kind: vm.FieldKindText, placeholder: "2016-03-27 00:53:11"},
}

// parseInputForm reads the submitted form into an InputRecord. It returns the
// raw values for re-rendering and one message per unparseable numeric field.
// Range checks are left to the prediction service.
func parseInputForm(r *http.Request) (model.InputRecord, map[string]string, []string) {
	values := make(map[string]string, len(inputForm))
	for _, f := range inputForm {
		values[f.name] = strings.TrimSpace(r.PostFormValue(f.name))
	}

	var errs []string
	parseFloat := func(name string) float64 {
		v, err := strconv.ParseFloat(values[name], 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a number", name))
		}
		return v
	}

	input := model.InputRecord{
		DailyTimeSpent:   parseFloat("daily_time"),
		AreaIncome:       parseFloat("area_income"),
		DailyInternetUse: parseFloat("daily_internet_use"),
		AdTopicLine:      values["ad_topic_line"],
		City:             values["city"],
		Gender:           model.Gender(values["gender"]),
		Country:          values["country"],
		Timestamp:        values["timestamp"],
	}

	age, err := strconv.Atoi(values["age"])
	if err != nil {
		errs = append(errs, "age must be a whole number")
	}
	input.Age = age

	return input, values, errs
}
