package types

// SeedNeeds are the fixed recipient needs sent with every matching request.
func SeedNeeds() []RecipientNeed {
	return []RecipientNeed{
		{Recipient: "Downtown Shelter", Need: "Prepared Meals", Urgency: UrgencyHigh},
		{Recipient: "Westside Food Bank", Need: "Canned Goods", Urgency: UrgencyMedium},
		{Recipient: "Kids Kitchen", Need: "Fresh Produce", Urgency: UrgencyHigh},
	}
}

// SeedDonations are the demo listings a session may start with.
func SeedDonations() []DonationInput {
	return []DonationInput{
		{Item: "Sourdough Bread", Quantity: "5 loaves", Category: CategoryBakery, Expiry: "2 days"},
		{Item: "Canned Beans", Quantity: "10 cans", Category: CategoryCanned, Expiry: "1 year"},
	}
}
