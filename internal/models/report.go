package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a Report.
type Status string

const (
	// StatusDraft is the only state in which Phase 1/Phase 2 may run.
	StatusDraft Status = "DRAFT"
	// StatusOrderCreated is terminal: the Report becomes immutable.
	StatusOrderCreated Status = "ORDER_CREATED"
)

// ReportItem is one committed line: a Product within a Deal of a Report,
// carrying the quantities and prices the optimizer (or Phase 2 recompute)
// settled on. Mirrors the original system's per-product replenishment line.
type ReportItem struct {
	ReportID                string          `json:"report_id"`
	ProductID               int             `json:"product_id"`
	BrandID                 int             `json:"brand_id"`
	BrandName               string          `json:"brand_name"`
	ProductSKU              string          `json:"product_sku"`
	ProductName             string          `json:"product_name"`
	Inventory               decimal.Decimal `json:"inventory"`
	AverageDailySales       decimal.Decimal `json:"average_daily_sales"`
	SalePrice               decimal.Decimal `json:"sale_price"`
	PurchasePrice           decimal.Decimal `json:"purchase_price"`
	PriceLevelMinimumQty    int             `json:"pricelevel_minimum_quantity"`
	SystemCoverageDays      int             `json:"system_coverage_days"`
	CreditTerms             int             `json:"credit_terms"`
	SystemSuggestedQuantity int             `json:"system_suggested_quantity"`
	BestQuantity            int             `json:"best_quantity"`
}

// Report is the Phase 1 / Phase 2 / Commit run record; state is owned here
// per spec (the Catalogue/Ledger collaborator owns the Purchase Document
// materialized on Commit, not this Report itself).
type Report struct {
	ID                  string          `json:"id"`
	User                string          `json:"user"`
	Warehouse           int             `json:"warehouse"`
	CoverageDays        int             `json:"coverage_days"`
	CreditTerms         int             `json:"credit_terms"`
	Status              Status          `json:"status"`
	MinBudget           decimal.Decimal `json:"min_budget"`
	MaxBudget           decimal.Decimal `json:"max_budget"`
	MaxInvestmentPeriod int             `json:"max_investment_period"`
	SerializedVariants  []byte          `json:"-"` // opaque Phase1->Phase2 blob, never serialized over the wire
	Items               []ReportItem    `json:"items"`
	CreatedAt           time.Time       `json:"created_at"`
}

// VariantsEnvelope is a versioned schema of per-Deal variant lists. The
// Report.SerializedVariants blob does not use it: that blob is the
// gzip-compressed JSON list of Deals with their Variants written by
// services.VariantCache.Set, and it carries no version field.
type VariantsEnvelope struct {
	Version int               `json:"version"`
	Deals   map[int][]Variant `json:"deals"` // brand_id -> ascending-M variant list
}

// CurrentVariantsEnvelopeVersion is the version number of the
// VariantsEnvelope schema. Phase 2 does not read or check it.
const CurrentVariantsEnvelopeVersion = 1
