package models

// Education is one row of the profile's education list.
type Education struct {
	Degree           string `json:"degree"`
	University       string `json:"university"`
	YearOfCompletion int    `json:"year_of_completion"`
	MarksCGPA        string `json:"marks_cgpa"`
}

// Experience is one row of the profile's work experience list. An empty
// EndDate means the position is current.
type Experience struct {
	CompanyName      string `json:"company_name"`
	Designation      string `json:"designation"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date,omitempty"`
	Responsibilities string `json:"responsibilities"`
}

// Profile is the editable profile of a user. ID is zero until the record
// has been created on the server.
type Profile struct {
	ID           int64        `json:"id,omitempty"`
	FullName     string       `json:"full_name,omitempty"`
	DOB          string       `json:"dob"`
	Gender       string       `json:"gender"`
	Contact      string       `json:"contact"`
	Address      string       `json:"address"`
	Skills       string       `json:"skills"`
	Languages    string       `json:"languages"`
	ProfilePhoto Attachment   `json:"profile_photo"`
	Resume       Attachment   `json:"resume"`
	Educations   []Education  `json:"educations"`
	Experiences  []Experience `json:"experiences"`
}

// Profile field names as used in the API payloads.
const (
	FieldDOB          = "dob"
	FieldGender       = "gender"
	FieldContact      = "contact"
	FieldAddress      = "address"
	FieldSkills       = "skills"
	FieldLanguages    = "languages"
	FieldProfilePhoto = "profile_photo"
	FieldResume       = "resume"
	FieldEducations   = "educations"
	FieldExperiences  = "experiences"
)

// ScalarFields lists the text fields in the order they are submitted.
var ScalarFields = []string{FieldDOB, FieldGender, FieldContact, FieldAddress, FieldSkills, FieldLanguages}

// HasID reports whether the profile already exists on the server.
func (p *Profile) HasID() bool {
	return p.ID != 0
}

// Normalize replaces nil lists with empty ones so they serialize as [].
func (p *Profile) Normalize() {
	if p.Educations == nil {
		p.Educations = []Education{}
	}
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
}

// Scalar returns the value of a text field and whether the name is known.
func (p *Profile) Scalar(name string) (string, bool) {
	switch name {
	case FieldDOB:
		return p.DOB, true
	case FieldGender:
		return p.Gender, true
	case FieldContact:
		return p.Contact, true
	case FieldAddress:
		return p.Address, true
	case FieldSkills:
		return p.Skills, true
	case FieldLanguages:
		return p.Languages, true
	}
	return "", false
}

// SetScalar assigns a text field. It returns false for unknown names.
func (p *Profile) SetScalar(name, value string) bool {
	switch name {
	case FieldDOB:
		p.DOB = value
	case FieldGender:
		p.Gender = value
	case FieldContact:
		p.Contact = value
	case FieldAddress:
		p.Address = value
	case FieldSkills:
		p.Skills = value
	case FieldLanguages:
		p.Languages = value
	default:
		return false
	}
	return true
}

// Clone returns a copy whose lists do not share backing arrays with p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Educations = append([]Education{}, p.Educations...)
	c.Experiences = append([]Experience{}, p.Experiences...)
	return &c
}
