package types

// FoodItemAnalysis is one item recognized in a donation photo.
type FoodItemAnalysis struct {
	Item           FlexString `json:"item"`
	Quantity       FlexString `json:"quantity"`
	ExpiryEstimate FlexString `json:"expiry_estimate"`
	Category       FlexString `json:"category"`
	SafetyCheck    FlexString `json:"safety_check"` // "Pass" or "Fail"
}

// AnalysisResult is the reply of the vision call.
// Either FoodItems is non-empty or Error is set in the steady state.
type AnalysisResult struct {
	FoodItems []FoodItemAnalysis `json:"food_items"`
	Error     string             `json:"error,omitempty"`
}

// Failed reports whether the result carries an error.
func (r AnalysisResult) Failed() bool { return r.Error != "" }

// First returns the first recognized item, if any.
func (r AnalysisResult) First() (FoodItemAnalysis, bool) {
	if len(r.FoodItems) == 0 {
		return FoodItemAnalysis{}, false
	}
	return r.FoodItems[0], true
}

// DonationForm is the donor form state. It is prefilled from the first
// analyzed item and reset after a submission.
type DonationForm struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Expiry   string `json:"expiry"`
}

// EmptyDonationForm is the form state after a reset.
func EmptyDonationForm() DonationForm {
	return DonationForm{Category: CategoryProduce}
}

// FormFromAnalysis maps an analyzed item onto the donor form.
func FormFromAnalysis(a FoodItemAnalysis) DonationForm {
	return DonationForm{
		Item:     string(a.Item),
		Quantity: string(a.Quantity),
		Category: string(a.Category),
		Expiry:   string(a.ExpiryEstimate),
	}
}
