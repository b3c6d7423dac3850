package entities

// ProviderRecord represents a medical provider in the read-only provider
// dataset. NPI is unique across the dataset.
type ProviderRecord struct {
	NPI       string `json:"npi" db:"npi"`
	Name      string `json:"name" db:"name"`
	Specialty string `json:"specialty" db:"specialty"`
	State     string `json:"state" db:"state"`
	City      string `json:"city" db:"city"`
	Address   string `json:"address,omitempty" db:"address"`
	Phone     string `json:"phone,omitempty" db:"phone"`
}

// NetworkStats holds aggregate counts over the provider dataset
type NetworkStats struct {
	TotalProviders   int `json:"total_providers"`
	TotalSpecialties int `json:"total_specialties"`
	TotalStates      int `json:"total_states"`
}

// SpecialtyCount is one row of the specialty distribution
type SpecialtyCount struct {
	Specialty     string `json:"specialty" db:"specialty"`
	ProviderCount int    `json:"provider_count" db:"provider_count"`
}

// StateCount is one row of the state distribution
type StateCount struct {
	State         string `json:"state" db:"state"`
	ProviderCount int    `json:"provider_count" db:"provider_count"`
}
