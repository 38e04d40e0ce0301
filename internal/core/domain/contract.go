package domain

import "time"

type ContractStatus string

const (
	StatusUploaded  ContractStatus = "uploaded"
	StatusAnalyzing ContractStatus = "analyzing"
	StatusReady     ContractStatus = "ready"
	StatusFailed    ContractStatus = "failed"
)

// ContractType values the rule classifier and the fallback service are
// constrained to. "unknown" is always a valid outcome.
const (
	TypeEmployment  = "employment_agreement"
	TypeVendor      = "vendor_contract"
	TypeLease       = "lease_agreement"
	TypePartnership = "partnership_deed"
	TypeService     = "service_contract"
	TypeUnknown     = "unknown"
)

func ContractTypes() []string {
	return []string{TypeEmployment, TypeVendor, TypeLease, TypePartnership, TypeService, TypeUnknown}
}

func IsContractType(label string) bool {
	for _, t := range ContractTypes() {
		if t == label {
			return true
		}
	}
	return false
}

type Contract struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	MimeType       string         `json:"mime_type"`
	StoragePath    string         `json:"storage_path"`
	ContractType   string         `json:"contract_type,omitempty"`
	TypeConfidence float64        `json:"type_confidence,omitempty"`
	OverallRisk    RiskLevel      `json:"overall_risk,omitempty"`
	Status         ContractStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
