package model

// Feature flag names understood by the admin screens. The flag map is
// extensible; these are the two the platform ships with today.
const (
	FlagRecommenderSystem   = "recommenderSystemFeature"
	FlagInstructorAnalytics = "instructorAnalyticsFeature"
)

// FeatureFlags maps a feature name to its toggle state.
// Absent keys read as false; there is no tri-state.
type FeatureFlags map[string]bool

// Clone returns an independent copy. Stores hand out clones so callers
// cannot mutate the cached map behind the store's back.
func (f FeatureFlags) Clone() FeatureFlags {
	out := make(FeatureFlags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// PaymentConfig holds the payout bank account details edited on the admin
// and instructor payment screens. The store performs no format validation;
// that belongs to the screen collecting the input.
type PaymentConfig struct {
	AccountHolderName string `json:"accountHolderName"`
	BankAccountNumber string `json:"bankAccountNumber"`
	RoutingNumber     string `json:"routingNumber"`
}
