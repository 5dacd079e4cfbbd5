package types

// DonationStatus is the lifecycle state of a donation.
// The only transition is Available -> Claimed.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "Available"
	StatusClaimed   DonationStatus = "Claimed"
)

// Food categories offered by the donor form and requested from the vision model.
// Values coming back from the model are not checked against this list.
const (
	CategoryProduce      = "Produce"
	CategoryCanned       = "Canned"
	CategoryPreparedMeal = "Prepared Meal"
	CategoryBakery       = "Bakery"
	CategoryOther        = "Other"
)

// Categories lists the donor form options in display order.
var Categories = []string{
	CategoryProduce,
	CategoryCanned,
	CategoryPreparedMeal,
	CategoryBakery,
	CategoryOther,
}

// Donation is a single food item or batch offered by a donor.
type Donation struct {
	ID       int64          `json:"id"`
	Item     string         `json:"item"`
	Quantity string         `json:"quantity"`
	Category string         `json:"category"`
	Expiry   string         `json:"expiry"`
	Status   DonationStatus `json:"status"`
	// ImageSource is the uploaded photo as a data URL. Display only.
	ImageSource string `json:"imageUrl,omitempty"`
}

// DonationInput carries the donor supplied fields of a new donation.
type DonationInput struct {
	Item        string `json:"item"`
	Quantity    string `json:"quantity"`
	Category    string `json:"category"`
	Expiry      string `json:"expiry"`
	ImageSource string `json:"imageUrl,omitempty"`
}

// SanitizedDonation is the projection of a Donation that is safe to embed in a
// text prompt. It has no image field.
type SanitizedDonation struct {
	ID       int64          `json:"id"`
	Item     string         `json:"item"`
	Quantity string         `json:"quantity"`
	Category string         `json:"category"`
	Expiry   string         `json:"expiry"`
	Status   DonationStatus `json:"status"`
}

// Sanitized drops the image payload.
func (d Donation) Sanitized() SanitizedDonation {
	return SanitizedDonation{
		ID:       d.ID,
		Item:     d.Item,
		Quantity: d.Quantity,
		Category: d.Category,
		Expiry:   d.Expiry,
		Status:   d.Status,
	}
}

// IsAvailable reports whether the donation can still be claimed.
func (d Donation) IsAvailable() bool { return d.Status == StatusAvailable }

// FilterAvailable returns the donations with status Available, preserving order.
func FilterAvailable(in []Donation) []Donation {
	out := make([]Donation, 0, len(in))
	for _, d := range in {
		if d.IsAvailable() {
			out = append(out, d)
		}
	}
	return out
}
