package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FileRef points at an uploaded attachment in the blob store.
type FileRef struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ApplicationFiles holds the categorized attachments of an application.
// It is stored as a single JSONB column.
type ApplicationFiles struct {
	Bills    []FileRef `json:"bills"`
	Photos   []FileRef `json:"photos"`
	LoadData []FileRef `json:"load_data"`
}

// Category returns the attachment list for c.
func (f ApplicationFiles) Category(c FileCategory) []FileRef {
	switch c {
	case FileCategoryBills:
		return f.Bills
	case FileCategoryPhotos:
		return f.Photos
	case FileCategoryLoadData:
		return f.LoadData
	}
	return nil
}

// Append adds refs to the list for c.
func (f *ApplicationFiles) Append(c FileCategory, refs ...FileRef) {
	switch c {
	case FileCategoryBills:
		f.Bills = append(f.Bills, refs...)
	case FileCategoryPhotos:
		f.Photos = append(f.Photos, refs...)
	case FileCategoryLoadData:
		f.LoadData = append(f.LoadData, refs...)
	}
}

// Value implements driver.Valuer for the JSONB column.
func (f ApplicationFiles) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the JSONB column.
func (f *ApplicationFiles) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = ApplicationFiles{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return errors.New("ApplicationFiles.Scan: unsupported source type")
	}
}

// Application is a client's facility application.
type Application struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	OwnerID      uuid.UUID         `db:"owner_id" json:"owner_id"`
	ProjectName  string            `db:"project_name" json:"project_name"`
	FacilityType FacilityType      `db:"facility_type" json:"facility_type"`
	Location     string            `db:"location" json:"location"`
	Latitude     *float64          `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64          `db:"longitude" json:"longitude,omitempty"`
	SystemType   SystemType        `db:"system_type" json:"system_type"`
	LoadProfile  string            `db:"load_profile" json:"load_profile"`
	Notes        string            `db:"notes" json:"notes"`
	Status       ApplicationStatus `db:"status" json:"status"`
	Files        ApplicationFiles  `db:"files" json:"files"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationPatch carries a partial update. Nil fields are left untouched.
type ApplicationPatch struct {
	ProjectName  *string            `json:"project_name,omitempty"`
	FacilityType *FacilityType      `json:"facility_type,omitempty"`
	Location     *string            `json:"location,omitempty"`
	Latitude     *float64           `json:"latitude,omitempty"`
	Longitude    *float64           `json:"longitude,omitempty"`
	SystemType   *SystemType        `json:"system_type,omitempty"`
	LoadProfile  *string            `json:"load_profile,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	Status       *ApplicationStatus `json:"status,omitempty"`
	Files        *ApplicationFiles  `json:"files,omitempty"`
	UpdatedAt    time.Time          `json:"-"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *ApplicationPatch) IsEmpty() bool {
	return p.ProjectName == nil && p.FacilityType == nil && p.Location == nil &&
		p.Latitude == nil && p.Longitude == nil && p.SystemType == nil &&
		p.LoadProfile == nil && p.Notes == nil && p.Status == nil && p.Files == nil
}

// Apply merges the non-nil fields of p into app.
func (p *ApplicationPatch) Apply(app *Application) {
	if p.ProjectName != nil {
		app.ProjectName = *p.ProjectName
	}
	if p.FacilityType != nil {
		app.FacilityType = *p.FacilityType
	}
	if p.Location != nil {
		app.Location = *p.Location
	}
	if p.Latitude != nil {
		app.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		app.Longitude = p.Longitude
	}
	if p.SystemType != nil {
		app.SystemType = *p.SystemType
	}
	if p.LoadProfile != nil {
		app.LoadProfile = *p.LoadProfile
	}
	if p.Notes != nil {
		app.Notes = *p.Notes
	}
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.Files != nil {
		app.Files = *p.Files
	}
	if !p.UpdatedAt.IsZero() {
		app.UpdatedAt = p.UpdatedAt
	}
}

// Project is an approved application being executed.
type Project struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	ApplicationID uuid.UUID    `db:"application_id" json:"application_id"`
	OwnerID       uuid.UUID    `db:"owner_id" json:"owner_id"`
	ProjectName   string       `db:"project_name" json:"project_name"`
	Phase         ProjectPhase `db:"phase" json:"phase"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// ApplicationCreated is emitted once an application has been persisted.
type ApplicationCreated struct {
	Application Application `json:"application"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
