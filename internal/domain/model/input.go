package model

// Gender is the categorical gender field of an input record.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders lists the accepted Gender values in display order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

// InputRecord holds the nine user-supplied attributes submitted for prediction.
// Numeric bounds mirror the form widgets; text fields, including Timestamp, are
// passed through unchecked.
type InputRecord struct {
	DailyTimeSpent   float64 `json:"daily_time" validate:"finite,gte=0"`
	Age              int     `json:"age" validate:"gte=0,lte=120"`
	AreaIncome       float64 `json:"area_income" validate:"finite,gte=0"`
	DailyInternetUse float64 `json:"daily_internet_use" validate:"finite,gte=0"`
	AdTopicLine      string  `json:"ad_topic_line"`
	City             string  `json:"city"`
	Gender           Gender  `json:"gender" validate:"oneof=Male Female"`
	Country          string  `json:"country"`
	Timestamp        string  `json:"timestamp"`
}

// Feature binds a remote field name to the InputRecord value sent under it.
type Feature struct {
	Name  string
	Value func(InputRecord) any
}

// FeatureSchema is the ordered field-name-to-value mapping expected by the
// deployed model. The scoring payload's "fields" and "values" arrays are both
// derived from it, so they cannot drift apart.
var FeatureSchema = []Feature{
	{Name: "daily_time", Value: func(r InputRecord) any { return r.DailyTimeSpent }},
	{Name: "age", Value: func(r InputRecord) any { return r.Age }},
	{Name: "areaincome", Value: func(r InputRecord) any { return r.AreaIncome }},
	{Name: "dailyinternetuse", Value: func(r InputRecord) any { return r.DailyInternetUse }},
	{Name: "adtopicline", Value: func(r InputRecord) any { return r.AdTopicLine }},
	{Name: "city", Value: func(r InputRecord) any { return r.City }},
	{Name: "gender", Value: func(r InputRecord) any { return string(r.Gender) }},
	{Name: "country", Value: func(r InputRecord) any { return r.Country }},
	{Name: "timestamp", Value: func(r InputRecord) any { return r.Timestamp }},
}

// FeatureFields returns the remote field names in schema order.
func FeatureFields() []string {
	names := make([]string, len(FeatureSchema))
	for i, f := range FeatureSchema {
		names[i] = f.Name
	}
	return names
}

// FeatureValues returns the record's values in schema order.
func (r InputRecord) FeatureValues() []any {
	values := make([]any, len(FeatureSchema))
	for i, f := range FeatureSchema {
		values[i] = f.Value(r)
	}
	return values
}
