package spec

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in demo templates, used when no content oracle is available.
// Each template follows the standard layout: one fact table, two dimension
// tables, one unstructured chunk table.
var templates = map[string]DemoSpec{
	"retail": {
		Title:       "E-commerce Analytics & Customer Intelligence",
		Description: "Transactional sales data combined with customer intelligence to drive revenue growth",
		Industry:    "retail",
		Tables: []TableSpec{
			{
				Name: "SALES_TRANSACTIONS",
				Kind: KindFact,
				Columns: []ColumnSpec{
					{Name: "ORDER_ID", Type: TypeIdentifier},
					{Name: "CUSTOMER_ID", Type: TypeReference, References: &Reference{Table: "CUSTOMER_PROFILES", Column: "CUSTOMER_ID"}},
					{Name: "PRODUCT_ID", Type: TypeReference, References: &Reference{Table: "PRODUCT_CATALOG", Column: "PRODUCT_ID"}},
					{Name: "CHANNEL", Type: TypeCategorical, SampleValues: []string{"Web", "Mobile App", "Store", "Marketplace"}},
					{Name: "PAYMENT_METHOD", Type: TypeCategorical, SampleValues: []string{"Credit Card", "PayPal", "Bank Transfer", "Gift Card"}},
					{Name: "ORDER_AMOUNT", Type: TypeNumeric, SampleValues: []string{"24.99", "89.50", "156.00", "310.75"}},
					{Name: "DISCOUNT_PCT", Type: TypeNumeric, SampleValues: []string{"0", "5", "10", "15", "25"}},
					{Name: "ORDER_TS", Type: TypeTemporal},
				},
			},
			{
				Name: "CUSTOMER_PROFILES",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "CUSTOMER_ID", Type: TypeIdentifier},
					{Name: "SEGMENT", Type: TypeCategorical, SampleValues: []string{"New", "Repeat", "VIP", "At Risk"}},
					{Name: "REGION", Type: TypeCategorical, SampleValues: []string{"North America", "EMEA", "APAC", "LATAM"}},
					{Name: "LIFETIME_VALUE", Type: TypeNumeric, SampleValues: []string{"120", "850", "2400", "7600"}},
					{Name: "SIGNUP_DATE", Type: TypeTemporal},
				},
			},
			{
				Name: "PRODUCT_CATALOG",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "PRODUCT_ID", Type: TypeIdentifier},
					{Name: "CATEGORY", Type: TypeCategorical, SampleValues: []string{"Electronics", "Apparel", "Home", "Beauty", "Sports"}},
					{Name: "BRAND", Type: TypeCategorical, SampleValues: []string{"Acme", "Northwind", "Globex", "Initech"}},
					{Name: "LIST_PRICE", Type: TypeNumeric, SampleValues: []string{"19.99", "49.99", "129.00", "499.00"}},
				},
			},
			{
				Name: "PRODUCT_REVIEWS",
				Kind: KindUnstructured,
				Description: "Customer product reviews and feedback from website, mobile app, and " +
					"third-party platforms",
			},
		},
		TargetQuestions: []string{
			"Which product categories drive the most revenue by region?",
			"What do VIP customers complain about most in their reviews?",
		},
	},
	"financial-services": {
		Title:       "Financial Services Risk & Compliance",
		Description: "Real-time transaction monitoring combined with compliance tracking and policy documentation",
		Industry:    "financial-services",
		Tables: []TableSpec{
			{
				Name: "TRANSACTION_MONITORING",
				Kind: KindFact,
				Columns: []ColumnSpec{
					{Name: "TRANSACTION_ID", Type: TypeIdentifier},
					{Name: "ACCOUNT_ID", Type: TypeReference, References: &Reference{Table: "ACCOUNT_PROFILES", Column: "ACCOUNT_ID"}},
					{Name: "EVENT_ID", Type: TypeReference, References: &Reference{Table: "COMPLIANCE_EVENTS", Column: "EVENT_ID"}},
					{Name: "TXN_TYPE", Type: TypeCategorical, SampleValues: []string{"Wire", "ACH", "Card", "Internal"}},
					{Name: "CURRENCY", Type: TypeCategorical, SampleValues: []string{"USD", "EUR", "GBP", "JPY"}},
					{Name: "AMOUNT", Type: TypeNumeric, SampleValues: []string{"250", "1800", "12500", "98000"}},
					{Name: "RISK_SCORE", Type: TypeNumeric, SampleValues: []string{"12", "35", "67", "91"}},
					{Name: "TXN_TS", Type: TypeTemporal},
				},
			},
			{
				Name: "COMPLIANCE_EVENTS",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "EVENT_ID", Type: TypeIdentifier},
					{Name: "EVENT_TYPE", Type: TypeCategorical, SampleValues: []string{"KYC", "AML", "Sanctions Screening", "Fraud Review"}},
					{Name: "SEVERITY", Type: TypeCategorical, SampleValues: []string{"Low", "Medium", "High", "Critical"}},
					{Name: "STATUS", Type: TypeCategorical, SampleValues: []string{"Open", "In Review", "Remediated", "Closed"}},
					{Name: "OPENED_DATE", Type: TypeTemporal},
				},
			},
			{
				Name: "ACCOUNT_PROFILES",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "ACCOUNT_ID", Type: TypeIdentifier},
					{Name: "ACCOUNT_TYPE", Type: TypeCategorical, SampleValues: []string{"Retail", "Corporate", "Private Banking"}},
					{Name: "RISK_CLASS", Type: TypeCategorical, SampleValues: []string{"Standard", "Elevated", "High"}},
					{Name: "REGION", Type: TypeCategorical, SampleValues: []string{"Americas", "EMEA", "APAC"}},
				},
			},
			{
				Name:        "REGULATORY_DOCS",
				Kind:        KindUnstructured,
				Description: "Regulatory documents, compliance policies, procedure manuals, and audit reports",
			},
		},
		TargetQuestions: []string{
			"Which account types generate the most high-severity compliance events?",
			"What does our policy say about sanctions screening escalation?",
		},
	},
	"healthcare": {
		Title:       "Healthcare Patient Analytics & Research",
		Description: "Clinical outcomes integrated with treatment protocols and medical research",
		Industry:    "healthcare",
		Tables: []TableSpec{
			{
				Name: "PATIENT_OUTCOMES",
				Kind: KindFact,
				Columns: []ColumnSpec{
					{Name: "CASE_ID", Type: TypeIdentifier},
					{Name: "PROTOCOL_ID", Type: TypeReference, References: &Reference{Table: "TREATMENT_PROTOCOLS", Column: "PROTOCOL_ID"}},
					{Name: "PROVIDER_ID", Type: TypeReference, References: &Reference{Table: "PROVIDER_DIRECTORY", Column: "PROVIDER_ID"}},
					{Name: "DIAGNOSIS", Type: TypeCategorical, SampleValues: []string{"I10", "E11.9", "J45.40", "M54.5"}},
					{Name: "LENGTH_OF_STAY", Type: TypeNumeric, SampleValues: []string{"2", "4", "7", "14"}},
					{Name: "SATISFACTION_SCORE", Type: TypeNumeric, SampleValues: []string{"62", "75", "88", "96"}},
					{Name: "ADMISSION_TS", Type: TypeTemporal},
				},
			},
			{
				Name: "TREATMENT_PROTOCOLS",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "PROTOCOL_ID", Type: TypeIdentifier},
					{Name: "CONDITION", Type: TypeCategorical, SampleValues: []string{"Hypertension", "Diabetes", "Asthma", "Chronic Pain"}},
					{Name: "EVIDENCE_LEVEL", Type: TypeCategorical, SampleValues: []string{"A", "B", "C"}},
					{Name: "SUCCESS_RATE", Type: TypeNumeric, SampleValues: []string{"64", "78", "85", "92"}},
				},
			},
			{
				Name: "PROVIDER_DIRECTORY",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "PROVIDER_ID", Type: TypeIdentifier},
					{Name: "SPECIALTY", Type: TypeCategorical, SampleValues: []string{"Cardiology", "Endocrinology", "Pulmonology", "Orthopedics"}},
					{Name: "FACILITY", Type: TypeCategorical, SampleValues: []string{"Main Campus", "North Clinic", "East Clinic"}},
					{Name: "YEARS_EXPERIENCE", Type: TypeNumeric, SampleValues: []string{"4", "11", "19", "27"}},
				},
			},
			{
				Name:        "RESEARCH_PAPERS",
				Kind:        KindUnstructured,
				Description: "Medical research papers, clinical studies, and evidence summaries from peer-reviewed journals",
			},
		},
		TargetQuestions: []string{
			"Which treatment protocols show the best outcomes by specialty?",
			"What does recent research say about readmission risk factors?",
		},
	},
}

// TemplateIndustries returns the industries with a built-in template, sorted.
func TemplateIndustries() []string {
	out := make([]string, 0, len(templates))
	for k := range templates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TemplateByIndustry returns a copy of the built-in template for the given
// industry tag, personalized with the organization name.
func TemplateByIndustry(industry, organization string) (DemoSpec, error) {
	tmpl, ok := templates[strings.ToLower(strings.TrimSpace(industry))]
	if !ok {
		return DemoSpec{}, fmt.Errorf("no built-in template for industry %q (available: %s)",
			industry, strings.Join(TemplateIndustries(), ", "))
	}
	out := tmpl
	out.Description = fmt.Sprintf("%s for %s", out.Description, organization)
	out.Tables = append([]TableSpec(nil), tmpl.Tables...)
	out.TargetQuestions = append([]string(nil), tmpl.TargetQuestions...)
	return out, nil
}
