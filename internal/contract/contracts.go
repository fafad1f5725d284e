package contract

import (
	"sort"
	"strings"
	"time"

	"clingov/internal/domain"
)

// ForDomain returns the prebuilt contract for a clinical domain code.
func ForDomain(domainKey string) (*domain.DataContract, error) {
	builder, ok := contractBuilders[domainKey]
	if !ok {
		return nil, domain.ErrUnknownDomain("no contract for domain %q, supported: %s", domainKey, strings.Join(SupportedDomains(), ", "))
	}
	return builder(), nil
}

// SupportedDomains lists the domain codes with prebuilt contracts.
func SupportedDomains() []string {
	keys := make([]string, 0, len(contractBuilders))
	for k := range contractBuilders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var contractBuilders = map[string]func() *domain.DataContract{
	"DM": newDMContract,
	"AE": newAEContract,
}

func fptr(f float64) *float64 { return &f }

// newDMContract declares the Demographics contract: one record per
// subject, USUBJID as the primary key.
func newDMContract() *domain.DataContract {
	now := time.Now().UTC()
	return &domain.DataContract{
		Name:              "clinical_trial_dm",
		Version:           "1.0.0",
		Domain:            "DM",
		Description:       "Demographics domain - one record per subject",
		Owner:             "data-engineering",
		CompatibilityMode: domain.CompatBackward,
		PrimaryKey:        []string{"USUBJID"},
		CreatedAt:         now,
		UpdatedAt:         now,
		Columns: []domain.ColumnContract{
			{Name: "STUDYID", DType: domain.TypeString, Nullable: false, Description: "Study Identifier"},
			{Name: "DOMAIN", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"DM"}, Description: "Domain Abbreviation"},
			{Name: "USUBJID", DType: domain.TypeString, Nullable: false, Unique: true, Description: "Unique Subject Identifier"},
			{Name: "SUBJID", DType: domain.TypeString, Nullable: false, Description: "Subject Identifier for the Study"},
			{Name: "SITEID", DType: domain.TypeString, Nullable: false, Description: "Study Site Identifier"},
			{Name: "AGE", DType: domain.TypeInt, Nullable: false, MinValue: fptr(0), MaxValue: fptr(120), Description: "Age in Years"},
			{Name: "AGEU", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"YEARS"}, Description: "Age Units"},
			{Name: "SEX", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"M", "F", "U", "UNDIFFERENTIATED"}, Description: "Sex (CDISC CT)"},
			{Name: "RACE", DType: domain.TypeString, Nullable: true, Description: "Race"},
			{Name: "ETHNIC", DType: domain.TypeString, Nullable: true, Description: "Ethnicity"},
			{Name: "ARM", DType: domain.TypeString, Nullable: true, Description: "Treatment Arm"},
			{Name: "ARMCD", DType: domain.TypeString, Nullable: true, Description: "Treatment Arm Code"},
			{Name: "COUNTRY", DType: domain.TypeString, Nullable: true, Description: "Country"},
			{Name: "RFSTDTC", DType: domain.TypeString, Nullable: true, Pattern: `^\d{4}-\d{2}-\d{2}`, Description: "Subject Reference Start Date (ISO 8601)"},
			{Name: "RFENDTC", DType: domain.TypeString, Nullable: true, Description: "Subject Reference End Date (ISO 8601)"},
		},
	}
}

// newAEContract declares the Adverse Events contract: one record per
// adverse event per subject, keyed by (USUBJID, AESEQ), with USUBJID
// referencing the DM domain.
func newAEContract() *domain.DataContract {
	now := time.Now().UTC()
	return &domain.DataContract{
		Name:              "clinical_trial_ae",
		Version:           "1.0.0",
		Domain:            "AE",
		Description:       "Adverse Events domain - one record per adverse event per subject",
		Owner:             "data-engineering",
		CompatibilityMode: domain.CompatBackward,
		PrimaryKey:        []string{"USUBJID", "AESEQ"},
		ForeignKeys:       map[string]string{"USUBJID": "DM.USUBJID"},
		CreatedAt:         now,
		UpdatedAt:         now,
		Columns: []domain.ColumnContract{
			{Name: "STUDYID", DType: domain.TypeString, Nullable: false, Description: "Study Identifier"},
			{Name: "DOMAIN", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"AE"}, Description: "Domain Abbreviation"},
			{Name: "USUBJID", DType: domain.TypeString, Nullable: false, Description: "Unique Subject Identifier"},
			{Name: "AESEQ", DType: domain.TypeInt, Nullable: false, MinValue: fptr(1), Description: "Sequence Number"},
			{Name: "AETERM", DType: domain.TypeString, Nullable: false, Description: "Reported Term for the Adverse Event"},
			{Name: "AEDECOD", DType: domain.TypeString, Nullable: true, Description: "Dictionary-Derived Term (MedDRA PT)"},
			{Name: "AEBODSYS", DType: domain.TypeString, Nullable: true, Description: "Body System or Organ Class (MedDRA SOC)"},
			{Name: "AESEV", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"MILD", "MODERATE", "SEVERE"}, Description: "Severity/Intensity (CDISC CT)"},
			{Name: "AESER", DType: domain.TypeString, Nullable: false, AllowedValues: []string{"Y", "N"}, Description: "Serious Event (Y/N)"},
			{Name: "AEREL", DType: domain.TypeString, Nullable: true, Description: "Causality/Relationship to Treatment"},
			{Name: "AEOUT", DType: domain.TypeString, Nullable: true, Description: "Outcome of Adverse Event"},
			{Name: "AESTDTC", DType: domain.TypeString, Nullable: true, Description: "Start Date/Time (ISO 8601)"},
			{Name: "AEENDTC", DType: domain.TypeString, Nullable: true, Description: "End Date/Time (ISO 8601)"},
		},
	}
}
