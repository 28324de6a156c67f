package domain

import "strings"

// ApplicationStatus is a stage of the client application lifecycle.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusMatched     ApplicationStatus = "Matched"
	StatusApproved    ApplicationStatus = "Approved"
	StatusInExecution ApplicationStatus = "In Execution"
	StatusCompleted   ApplicationStatus = "Completed"
)

// ProjectPhase is a stage of the post-approval project lifecycle.
type ProjectPhase string

const (
	PhaseSubmitted      ProjectPhase = "Submitted"
	PhaseReviewed       ProjectPhase = "Reviewed"
	PhaseMatched        ProjectPhase = "Matched"
	PhaseFinancing      ProjectPhase = "Financing"
	PhaseContractSigned ProjectPhase = "Contract Signed"
	PhaseInstallation   ProjectPhase = "Installation"
	PhaseTesting        ProjectPhase = "Testing"
	PhaseCompleted      ProjectPhase = "Completed"
)

// FacilityType is the category of facility an application is filed for.
// The string values are the wire values shown to users.
type FacilityType string

const (
	FacilityResidentialVilla      FacilityType = "Residential Villa"
	FacilityResidentialFlat       FacilityType = "Residential Flat"
	FacilityCommercial            FacilityType = "Commercial"
	FacilityIndustrialLight       FacilityType = "Industrial - Light"
	FacilityIndustrialHeavy       FacilityType = "Industrial - Heavy"
	FacilityHotel                 FacilityType = "Hotel"
	FacilityGovernment            FacilityType = "Government"
	FacilityEducational           FacilityType = "Educational"
	FacilityHealthcare            FacilityType = "Healthcare"
	FacilityAgriculturalFarm      FacilityType = "Agricultural - Farm"
	FacilityAgriculturalLivestock FacilityType = "Agricultural - Livestock"
	FacilityWaterTanker           FacilityType = "Water Tanker"
	FacilityOther                 FacilityType = "Other"
)

// AllFacilityTypes lists the recognized facility types, excluding FacilityOther.
var AllFacilityTypes = []FacilityType{
	FacilityResidentialVilla,
	FacilityResidentialFlat,
	FacilityCommercial,
	FacilityIndustrialLight,
	FacilityIndustrialHeavy,
	FacilityHotel,
	FacilityGovernment,
	FacilityEducational,
	FacilityHealthcare,
	FacilityAgriculturalFarm,
	FacilityAgriculturalLivestock,
	FacilityWaterTanker,
}

var facilityLookup = func() map[string]FacilityType {
	m := make(map[string]FacilityType, len(AllFacilityTypes))
	for _, f := range AllFacilityTypes {
		m[normalizeKey(string(f))] = f
	}
	return m
}()

// ParseFacilityType resolves a free-form facility string to a FacilityType.
// Unrecognized values resolve to FacilityOther.
func ParseFacilityType(s string) FacilityType {
	if f, ok := facilityLookup[normalizeKey(s)]; ok {
		return f
	}
	return FacilityOther
}

// SystemType is the grid topology of the requested installation.
type SystemType string

const (
	SystemOnGrid  SystemType = "on-grid"
	SystemOffGrid SystemType = "off-grid"
	SystemHybrid  SystemType = "hybrid"
)

// ParseSystemType resolves a system type string. Empty input yields ("", true).
func ParseSystemType(s string) (SystemType, bool) {
	switch normalizeKey(s) {
	case "":
		return "", true
	case "on-grid", "ongrid", "on grid":
		return SystemOnGrid, true
	case "off-grid", "offgrid", "off grid":
		return SystemOffGrid, true
	case "hybrid":
		return SystemHybrid, true
	default:
		return "", false
	}
}

// FileCategory groups attachments on an application.
type FileCategory string

const (
	FileCategoryBills    FileCategory = "bills"
	FileCategoryPhotos   FileCategory = "photos"
	FileCategoryLoadData FileCategory = "load_data"
)

// AllFileCategories lists the attachment categories in display order.
var AllFileCategories = []FileCategory{FileCategoryBills, FileCategoryPhotos, FileCategoryLoadData}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeCSV:  "text/csv",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"csv":  FileTypeCSV,
	"xlsx": FileTypeXLSX,
}

// UserRole defines who is acting on a record.
type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleAdmin   UserRole = "admin"
	RoleCompany UserRole = "company"
)

// IsStaff reports whether the role may act on records it does not own.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleCompany
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
