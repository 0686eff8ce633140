package domain

// FileType represents the source document formats the text collaborator can read.
type FileType string

const (
	FileTypeTXT  FileType = "txt"
	FileTypeHTML FileType = "html"
	FileTypePDF  FileType = "pdf"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"txt":  FileTypeTXT,
	"html": FileTypeHTML,
	"htm":  FileTypeHTML,
	"pdf":  FileTypePDF,
}

// AgreementState tags whether an agreement number was found.
type AgreementState string

const (
	AgreementKnown   AgreementState = "known"
	AgreementUnknown AgreementState = "unknown"
	AgreementError   AgreementState = "error"
)

// PlanMode selects how numeric columns of a plan table become entries.
type PlanMode string

const (
	// PlanModeSummed emits one entry per row with all product columns summed.
	PlanModeSummed PlanMode = "summed"
	// PlanModePerProduct emits one entry per numeric column, labelled from the header.
	PlanModePerProduct PlanMode = "per_product"
)

// ValidPlanModes lists the accepted plan modes.
var ValidPlanModes = map[PlanMode]bool{
	PlanModeSummed:     true,
	PlanModePerProduct: true,
}

// ParseOutcome describes what happened to a document during a batch run.
type ParseOutcome string

const (
	OutcomeAdded     ParseOutcome = "added"
	OutcomeUpdated   ParseOutcome = "updated"
	OutcomeUnchanged ParseOutcome = "unchanged"
	OutcomeSkipped   ParseOutcome = "skipped"
	OutcomeFailed    ParseOutcome = "failed"
)

// Role is the API permission level carried in access tokens.
type Role string

const (
	// RoleOperator may parse documents and download exports.
	RoleOperator Role = "operator"
	// RoleAdmin may additionally clear storage.
	RoleAdmin Role = "admin"
)

// ValidRoles lists the accepted roles.
var ValidRoles = map[Role]bool{
	RoleOperator: true,
	RoleAdmin:    true,
}
