package model

// Category is a coarse blood-pressure classification.
type Category string

const (
	CategoryUnknown  Category = "unknown"
	CategoryNormal   Category = "normal"
	CategoryElevated Category = "elevated"
	CategoryStage1   Category = "stage1"
	CategoryStage2   Category = "stage2"
)

// Classify maps systolic/diastolic values (mmHg) to a Category.
// Non-positive input yields CategoryUnknown.
func Classify(systolic, diastolic float64) Category {
	switch {
	case systolic <= 0 || diastolic <= 0:
		return CategoryUnknown
	case systolic >= 140 || diastolic >= 90:
		return CategoryStage2
	case systolic >= 130 || diastolic >= 80:
		return CategoryStage1
	case systolic >= 120:
		return CategoryElevated
	default:
		return CategoryNormal
	}
}
