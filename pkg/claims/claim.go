// Package claims defines the billing claim document model and its sort order.
package claims

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionName is the MongoDB collection holding claim documents.
const CollectionName = "claims"

// MinServiceDate is the earliest allowed service date for any claim.
var MinServiceDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// RecoveryMethods are the allowed values for Claim.RecoveryMethod.
var RecoveryMethods = []string{
	"IMMEDIATE_RECOUPMENT",
	"EXTENDED_REPAYMENT_SCHEDULE",
	"DIRECT_PAYMENT",
	"PENDING",
	"OFFSET",
}

// ClaimSystemCodes are the allowed values for Identifiers.ClaimSystemCode.
var ClaimSystemCodes = []string{
	"NCPDP_D0",
	"NCPDP_5",
	"INTERNAL",
	"X12_837P",
	"PDE",
}

// BillingProvider identifies the provider that submitted the claim.
// ProviderID is the query key; the compound index leads with it.
type BillingProvider struct {
	ProviderTin          string `bson:"providerTin" json:"providerTin"`
	PatientAccountNumber string `bson:"patientAccountNumber" json:"patientAccountNumber"`
	ProviderID           string `bson:"providerId" json:"providerId"`
	ProviderNpi          string `bson:"providerNpi" json:"providerNpi"`
	ProviderName         string `bson:"providerName" json:"providerName"`
}

// RenderingProvider is the provider that rendered the service.
type RenderingProvider struct {
	ProviderName string `bson:"providerName" json:"providerName"`
}

// PatientInformation carries the patient display fields.
type PatientInformation struct {
	FullName string `bson:"fullName" json:"fullName"`
}

// Identifiers ties the claim back to its source system.
type Identifiers struct {
	ClaimSystemCode    string `bson:"claimSystemCode" json:"claimSystemCode"`
	ClaimSystemClaimID string `bson:"claimSystemClaimId" json:"claimSystemClaimId"`
}

// Amount wraps a monetary value.
type Amount struct {
	Amount float64 `bson:"amount" json:"amount"`
}

// ProcessedAmounts holds the overpayment and recoupment figures for the claim.
type ProcessedAmounts struct {
	OverpaymentBalance Amount `bson:"overpaymentBalance" json:"overpaymentBalance"`
	OverpaymentAmount  Amount `bson:"overpaymentAmount" json:"overpaymentAmount"`
	RecoupedAmount     Amount `bson:"recoupedAmount" json:"recoupedAmount"`
}

// Claim is a single billing claim document. Claims are written once and never
// mutated; the query engine only reads them.
type Claim struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RenderingProvider  RenderingProvider  `bson:"renderingProvider" json:"renderingProvider"`
	BillingProvider    BillingProvider    `bson:"billingProvider" json:"billingProvider"`
	ServiceBeginDate   time.Time          `bson:"serviceBeginDate" json:"serviceBeginDate"`
	ServiceEndDate     time.Time          `bson:"serviceEndDate" json:"serviceEndDate"`
	PatientInformation PatientInformation `bson:"patientInformation" json:"patientInformation"`
	Identifiers        Identifiers        `bson:"identifiers" json:"identifiers"`
	LastUpdatedTs      time.Time          `bson:"lastUpdatedTs" json:"lastUpdatedTs"`
	ProcessedAmounts   ProcessedAmounts   `bson:"processedAmounts" json:"processedAmounts"`
	RecoveryMethod     string             `bson:"recoveryMethod" json:"recoveryMethod"`
}

// SortKey returns the claim's position in the canonical sort order.
func (c Claim) SortKey() SortKey {
	return SortKey{
		ServiceBeginDate: c.ServiceBeginDate,
		ServiceEndDate:   c.ServiceEndDate,
		ID:               c.ID,
	}
}
